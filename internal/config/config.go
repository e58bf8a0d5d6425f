package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the reflow service settings, all sourced from environment
// variables.
type Config struct {
	Port string

	// Auth. Empty disables authentication.
	APIKey string

	// Default widths, overridable per request.
	BodyWidth     int
	HeadlineWidth int

	// Batch worker pool.
	WorkerCount  int
	MaxQueueSize int

	// Request limits.
	MaxBodyBytes int64

	// Job state retention.
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8072"),

		APIKey: os.Getenv("RULE72_API_KEY"),

		BodyWidth:     envInt("BODY_WIDTH", 72),
		HeadlineWidth: envInt("HEADLINE_WIDTH", 50),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1048576), // 1MB; commit messages are small

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.BodyWidth <= 0 {
		cfg.BodyWidth = 72
	}
	if cfg.HeadlineWidth <= 0 {
		cfg.HeadlineWidth = 50
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1048576
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
