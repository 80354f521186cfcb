package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 365*24*time.Hour, cfg.Storage.ArchiveRetention)
	assert.Equal(t, 24*time.Hour, cfg.Storage.ArchiveSweepInterval)
	assert.Equal(t, 5, cfg.Database.ConnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.ConnectBackoff)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("BUDGET_SERVICE_LOGGING_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
import:
  demo_file: /srv/demo.csv
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/srv/demo.csv", cfg.Import.DemoFile)
}

func TestValidate(t *testing.T) {
	base := Config{
		Storage: StorageConfig{Driver: "memory"},
		Auth:    AuthConfig{JWTSecret: "x", SessionTTL: time.Hour},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid memory", mutate: func(c *Config) {}},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: true},
		{name: "postgres with url", mutate: func(c *Config) {
			c.Storage.Driver = "postgres"
			c.Database.URL = "postgres://localhost/db"
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.SessionTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
