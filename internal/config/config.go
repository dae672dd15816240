// Package config loads service settings from the environment. All
// variables carry the ECLASSDOC_ prefix; missing or unparsable values
// fall back to defaults, and numeric knobs are clamped to sane floors
// so a stray zero cannot wedge the worker pool.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "ECLASSDOC_"

const (
	defaultPort        = "8091"
	defaultWorkers     = 4
	defaultQueueSize   = 100
	defaultUploadBytes = 10 << 20 // 10MB, eclass man pages are small
	defaultJobTTL      = time.Hour
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	return Config{
		Port:   envOr("PORT", defaultPort),
		APIKey: os.Getenv(envPrefix + "API_KEY"),

		WorkerCount:  envIntMin("WORKER_COUNT", defaultWorkers, 1),
		MaxQueueSize: envIntMin("MAX_QUEUE_SIZE", defaultQueueSize, 1),

		MaxUploadBytes: envInt64Min("MAX_UPLOAD_BYTES", defaultUploadBytes, 1),

		JobTTL: envDurationMin("JOB_TTL", defaultJobTTL, time.Minute),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%sAPI_KEY is required", envPrefix)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envIntMin(key string, fallback, floor int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= floor {
			return n
		}
	}
	return fallback
}

func envInt64Min(key string, fallback, floor int64) int64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= floor {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationMin(key string, fallback, floor time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= floor {
			return d
		}
	}
	return fallback
}
