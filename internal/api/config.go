package api

import (
	"os"
	"time"
)

// DefaultBaseURL is the hosted EduMaster deployment.
const DefaultBaseURL = "https://edu-master-delta.vercel.app"

// Config holds Exam Service client configuration.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Timeout is the maximum duration for a single request. Default: 15s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("EDUTERM_API_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("EDUTERM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}
