package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// At least one library required
	if c.Library.MoviesFolder == "" && c.Library.SeriesFolder == "" {
		errs = append(errs, "library: at least one of movies_folder or series_folder must be configured")
	}

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of %s; got %q", LogLevels(), c.Server.LogLevel))
	}

	errs = append(errs, c.validateRemote()...)

	if c.Sync.Schedule != "" {
		if _, err := cron.ParseStandard(c.Sync.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("sync.schedule: %v", err))
		}
	}
	if c.Sync.RequestsPerMinute < 0 {
		errs = append(errs, "sync.requests_per_minute: must not be negative")
	}
	if c.Transcode.KillGrace < 0 {
		errs = append(errs, "transcode.kill_grace: must not be negative")
	}

	return errs
}

func (c *Config) validateRemote() []string {
	var errs []string
	switch c.Remote.Backend {
	case BackendGDrive, "":
		g := c.Remote.GDrive
		if g == nil {
			return append(errs, "remote.gdrive: required when backend is gdrive")
		}
		if g.ClientID == "" {
			errs = append(errs, "remote.gdrive.client_id: required")
		}
		if g.ClientSecret == "" {
			errs = append(errs, "remote.gdrive.client_secret: required")
		}
		if g.RefreshToken == "" {
			errs = append(errs, "remote.gdrive.refresh_token: required")
		}
	case BackendLocal:
		if c.Remote.Local == nil || c.Remote.Local.Root == "" {
			return append(errs, "remote.local.root: required when backend is local")
		}
		if _, err := os.Stat(c.Remote.Local.Root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("remote.local.root: directory %q does not exist", c.Remote.Local.Root))
		}
	case BackendS3:
		if c.Remote.S3 == nil || c.Remote.S3.Bucket == "" {
			errs = append(errs, "remote.s3.bucket: required when backend is s3")
		}
	default:
		errs = append(errs, fmt.Sprintf("remote.backend: must be one of gdrive, local, s3; got %q", c.Remote.Backend))
	}
	return errs
}
