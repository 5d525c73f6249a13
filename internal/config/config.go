// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Library   LibraryConfig   `toml:"library"`
	Remote    RemoteConfig    `toml:"remote"`
	Transcode TranscodeConfig `toml:"transcode"`
	Sync      SyncConfig      `toml:"sync"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"` // empty logs to stdout
	APIKey   string `toml:"api_key"`  // required on sync endpoints when set
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LibraryConfig holds the remote folder IDs synced into the catalog.
type LibraryConfig struct {
	MoviesFolder string `toml:"movies_folder"`
	SeriesFolder string `toml:"series_folder"`
}

// Remote backends.
const (
	BackendGDrive = "gdrive"
	BackendLocal  = "local"
	BackendS3     = "s3"
)

type RemoteConfig struct {
	Backend string        `toml:"backend"`
	GDrive  *GDriveConfig `toml:"gdrive"`
	Local   *LocalConfig  `toml:"local"`
	S3      *S3Config     `toml:"s3"`
}

type GDriveConfig struct {
	ClientID     string        `toml:"client_id"`
	ClientSecret string        `toml:"client_secret"`
	RefreshToken string        `toml:"refresh_token"`
	Endpoint     string        `toml:"endpoint"`
	Attempts     uint          `toml:"attempts"`
	RetryDelay   time.Duration `toml:"retry_delay"`
}

type LocalConfig struct {
	Root string `toml:"root"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

type TranscodeConfig struct {
	FFmpegPath   string        `toml:"ffmpeg_path"`
	AudioCodec   string        `toml:"audio_codec"`
	AudioBitrate string        `toml:"audio_bitrate"`
	KillGrace    time.Duration `toml:"kill_grace"`
}

type SyncConfig struct {
	Schedule          string `toml:"schedule"` // cron spec; empty disables scheduled syncs
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, failing
// only on unresolved environment variables.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}
	return cfg, nil
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/driveflix.db"
	}
	if c.Remote.Backend == "" {
		c.Remote.Backend = BackendGDrive
	}
	if c.Transcode.FFmpegPath == "" {
		c.Transcode.FFmpegPath = "ffmpeg"
	}
	if c.Transcode.AudioCodec == "" {
		c.Transcode.AudioCodec = "aac"
	}
	if c.Transcode.AudioBitrate == "" {
		c.Transcode.AudioBitrate = "128k"
	}
	if c.Transcode.KillGrace == 0 {
		c.Transcode.KillGrace = 2 * time.Second
	}
	if c.Sync.RequestsPerMinute == 0 {
		c.Sync.RequestsPerMinute = 6
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars expands environment references. Unset references
// without a default are left in place and returned as missing. For the
// :- and :? forms an empty value counts as unset.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if value == "" {
				return arg
			}
			return value
		case "?":
			if value == "" {
				if !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
				return match
			}
			return value
		}

		if !ok {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return match
		}
		return value
	})
	return out, missing
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// LogLevels lists accepted server.log_level values.
func LogLevels() string {
	return strings.Join([]string{"debug", "info", "warn", "error"}, ", ")
}
