package config

import (
	"fmt"
)

// EventRetentionConfig holds configuration for activity event retention and cleanup
type EventRetentionConfig struct {
	// RetentionDays is how long activity events are kept (in days)
	// Default: 90, Range: 1-3650
	RetentionDays int `yaml:"retention_days" env:"NEONSCAN_EVENT_RETENTION_DAYS"`

	// CleanupBatchSize is the number of events to delete per transaction
	// Default: 1000, Range: 100-10000
	CleanupBatchSize int `yaml:"cleanup_batch_size" env:"NEONSCAN_EVENT_CLEANUP_BATCH_SIZE"`

	// CleanupEnabled controls whether `neonscan serve` prunes old events on startup
	// Default: true
	CleanupEnabled bool `yaml:"cleanup_enabled" env:"NEONSCAN_EVENT_CLEANUP_ENABLED"`

	// CleanupVacuum controls whether to run VACUUM after cleanup
	// Default: false
	CleanupVacuum bool `yaml:"cleanup_vacuum" env:"NEONSCAN_EVENT_CLEANUP_VACUUM"`
}

// DefaultEventRetentionConfig returns the default event retention configuration
func DefaultEventRetentionConfig() EventRetentionConfig {
	return EventRetentionConfig{
		RetentionDays:    90,
		CleanupBatchSize: 1000,
		CleanupEnabled:   true,
		CleanupVacuum:    false,
	}
}

// Validate checks if the configuration has valid values
func (c EventRetentionConfig) Validate() error {
	if c.RetentionDays < 1 || c.RetentionDays > 3650 {
		return fmt.Errorf("retention_days must be between 1 and 3650 (got %d)", c.RetentionDays)
	}
	if c.CleanupBatchSize < 100 {
		return fmt.Errorf("cleanup_batch_size must be at least 100 (got %d)",
			c.CleanupBatchSize)
	}
	if c.CleanupBatchSize > 10000 {
		return fmt.Errorf("cleanup_batch_size too large (got %d, max 10000)",
			c.CleanupBatchSize)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c EventRetentionConfig) String() string {
	return fmt.Sprintf(
		"EventRetentionConfig{RetentionDays: %d, BatchSize: %d, Enabled: %t, Vacuum: %t}",
		c.RetentionDays, c.CleanupBatchSize, c.CleanupEnabled, c.CleanupVacuum,
	)
}
