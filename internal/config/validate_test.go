package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Server:  ServerConfig{Port: 8585, LogLevel: "info"},
		Library: LibraryConfig{MoviesFolder: "m"},
		Remote: RemoteConfig{
			Backend: BackendLocal,
			Local:   &LocalConfig{Root: t.TempDir()},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string // substring of an expected error; empty means valid
	}{
		{"valid", func(*Config) {}, ""},
		{"no folders", func(c *Config) { c.Library = LibraryConfig{} }, "library:"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"bad schedule", func(c *Config) { c.Sync.Schedule = "every tuesday" }, "sync.schedule"},
		{"descriptor schedule", func(c *Config) { c.Sync.Schedule = "@every 1h" }, ""},
		{"negative rate", func(c *Config) { c.Sync.RequestsPerMinute = -1 }, "sync.requests_per_minute"},
		{"local without root", func(c *Config) { c.Remote.Local = nil }, "remote.local.root"},
		{"local root missing", func(c *Config) { c.Remote.Local.Root = "/nonexistent/driveflix" }, "does not exist"},
		{"gdrive without section", func(c *Config) { c.Remote.Backend = BackendGDrive }, "remote.gdrive"},
		{"gdrive without token", func(c *Config) {
			c.Remote.Backend = BackendGDrive
			c.Remote.GDrive = &GDriveConfig{ClientID: "id", ClientSecret: "s"}
		}, "remote.gdrive.refresh_token"},
		{"s3 without bucket", func(c *Config) { c.Remote.Backend = BackendS3 }, "remote.s3.bucket"},
		{"s3 with bucket", func(c *Config) {
			c.Remote.Backend = BackendS3
			c.Remote.S3 = &S3Config{Bucket: "media"}
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig(t)
			tt.mutate(c)
			errs := c.Validate()
			if tt.want == "" {
				assert.Empty(t, errs)
				return
			}
			assert.NotEmpty(t, errs)
			assert.Contains(t, strings.Join(errs, "\n"), tt.want)
		})
	}
}
