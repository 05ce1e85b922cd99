package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the NeonScan project configuration stored in .neonscan/config.yaml.
// Environment variables (NEONSCAN_*) override values from the file.
type Config struct {
	// ScansDir overrides where scan files are stored.
	// Empty means <project>/.neonscan/scans.
	ScansDir string `yaml:"scans_dir" env:"NEONSCAN_SCANS_DIR"`

	// RecentLimit is the default size of the recent documents list.
	// Default: 10, Range: 1-1000
	RecentLimit int `yaml:"recent_limit" env:"NEONSCAN_RECENT_LIMIT"`

	Scan    ScanConfig           `yaml:"scan"`
	Image   ImageConfig          `yaml:"image"`
	Edit    EditConfig           `yaml:"edit"`
	Convert ConvertConfig        `yaml:"convert"`
	Log     LogConfig            `yaml:"log"`
	API     APIConfig            `yaml:"api"`
	Events  EventRetentionConfig `yaml:"events"`
}

// ScanConfig controls capture input.
type ScanConfig struct {
	// MaxPages is the page limit for a batch scan. Default: 20
	MaxPages int `yaml:"max_pages" env:"NEONSCAN_SCAN_MAX_PAGES"`
}

// ImageConfig controls how captured or converted bitmaps are written.
type ImageConfig struct {
	// JPEGQuality for newly stored bitmaps. Default: 90
	JPEGQuality int `yaml:"jpeg_quality" env:"NEONSCAN_IMAGE_JPEG_QUALITY"`
}

// EditConfig controls how edited pages are written back.
type EditConfig struct {
	// JPEGQuality for edited pages saved in place. Default: 95
	JPEGQuality int `yaml:"jpeg_quality" env:"NEONSCAN_EDIT_JPEG_QUALITY"`
}

// ConvertConfig controls batch conversion.
type ConvertConfig struct {
	// Concurrency is the number of conversions run at once. Default: 4
	Concurrency int `yaml:"concurrency" env:"NEONSCAN_CONVERT_CONCURRENCY"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level" env:"NEONSCAN_LOG_LEVEL"`
	// Format is json or console. Default: json
	Format string `yaml:"format" env:"NEONSCAN_LOG_FORMAT"`
}

// APIConfig controls `neonscan serve`.
type APIConfig struct {
	Addr      string  `yaml:"addr" env:"NEONSCAN_API_ADDR"`
	RateLimit float64 `yaml:"rate_limit" env:"NEONSCAN_API_RATE_LIMIT"`
	Burst     int     `yaml:"burst" env:"NEONSCAN_API_BURST"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		RecentLimit: 10,
		Scan:        ScanConfig{MaxPages: 20},
		Image:       ImageConfig{JPEGQuality: 90},
		Edit:        EditConfig{JPEGQuality: 95},
		Convert:     ConvertConfig{Concurrency: 4},
		Log:         LogConfig{Level: "info", Format: "json"},
		API:         APIConfig{Addr: "127.0.0.1:8787", RateLimit: 20, Burst: 40},
		Events:      DefaultEventRetentionConfig(),
	}
}

// LoadConfig reads path on top of the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.RecentLimit < 1 || c.RecentLimit > 1000 {
		return fmt.Errorf("recent_limit must be between 1 and 1000 (got %d)", c.RecentLimit)
	}
	if c.Scan.MaxPages < 1 || c.Scan.MaxPages > 200 {
		return fmt.Errorf("scan.max_pages must be between 1 and 200 (got %d)", c.Scan.MaxPages)
	}
	if err := validateQuality("image.jpeg_quality", c.Image.JPEGQuality); err != nil {
		return err
	}
	if err := validateQuality("edit.jpeg_quality", c.Edit.JPEGQuality); err != nil {
		return err
	}
	if c.Convert.Concurrency < 1 || c.Convert.Concurrency > 64 {
		return fmt.Errorf("convert.concurrency must be between 1 and 64 (got %d)", c.Convert.Concurrency)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}
	if strings.TrimSpace(c.API.Addr) == "" {
		return fmt.Errorf("api.addr is required")
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive (got %v)", c.API.RateLimit)
	}
	if c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1 (got %d)", c.API.Burst)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

func validateQuality(key string, q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("%s must be between 1 and 100 (got %d)", key, q)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{ScansDir: %q, RecentLimit: %d, MaxPages: %d, JPEG: %d/%d, Concurrency: %d, Log: %s/%s, API: %s, %s}",
		c.ScansDir, c.RecentLimit, c.Scan.MaxPages, c.Image.JPEGQuality, c.Edit.JPEGQuality,
		c.Convert.Concurrency, c.Log.Level, c.Log.Format, c.API.Addr, c.Events,
	)
}
