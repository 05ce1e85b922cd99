package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.RecentLimit)
	assert.Equal(t, 20, cfg.Scan.MaxPages)
	assert.Equal(t, 90, cfg.Image.JPEGQuality)
	assert.Equal(t, 95, cfg.Edit.JPEGQuality)
	assert.Equal(t, 4, cfg.Convert.Concurrency)
	assert.Equal(t, "127.0.0.1:8787", cfg.API.Addr)
	assert.Equal(t, 90, cfg.Events.RetentionDays)
	assert.True(t, cfg.Events.CleanupEnabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
recent_limit: 25
scan:
  max_pages: 8
log:
  level: debug
  format: console
events:
  retention_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	t.Setenv("NEONSCAN_CONVERT_CONCURRENCY", "2")
	t.Setenv("NEONSCAN_RECENT_LIMIT", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// env wins over file
	assert.Equal(t, 5, cfg.RecentLimit)
	assert.Equal(t, 2, cfg.Convert.Concurrency)
	// file wins over defaults
	assert.Equal(t, 8, cfg.Scan.MaxPages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 30, cfg.Events.RetentionDays)
	// untouched defaults survive
	assert.Equal(t, 95, cfg.Edit.JPEGQuality)
	assert.Equal(t, 1000, cfg.Events.CleanupBatchSize)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [not, a, map]"), 0644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	t.Setenv("NEONSCAN_EDIT_JPEG_QUALITY", "abc")
	_, err = LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"recent limit zero", func(c *Config) { c.RecentLimit = 0 }, "recent_limit"},
		{"max pages too high", func(c *Config) { c.Scan.MaxPages = 500 }, "scan.max_pages"},
		{"jpeg quality", func(c *Config) { c.Image.JPEGQuality = 101 }, "image.jpeg_quality"},
		{"edit quality", func(c *Config) { c.Edit.JPEGQuality = 0 }, "edit.jpeg_quality"},
		{"concurrency", func(c *Config) { c.Convert.Concurrency = 0 }, "convert.concurrency"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"api addr", func(c *Config) { c.API.Addr = " " }, "api.addr"},
		{"rate limit", func(c *Config) { c.API.RateLimit = 0 }, "api.rate_limit"},
		{"burst", func(c *Config) { c.API.Burst = 0 }, "api.burst"},
		{"retention", func(c *Config) { c.Events.RetentionDays = 0 }, "retention_days"},
		{"batch size", func(c *Config) { c.Events.CleanupBatchSize = 50 }, "cleanup_batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.ScansDir = "/data/scans"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestString(t *testing.T) {
	s := DefaultConfig().String()
	assert.True(t, strings.HasPrefix(s, "Config{"))
	assert.Contains(t, s, "RetentionDays: 90")
}
