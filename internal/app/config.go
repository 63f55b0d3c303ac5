package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string

	LogFormat   string
	LogLevel    string
	Concurrency int
	DryRun      bool
}

// NewConfig validates a Config before the app starts.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("Concurrency must be zero (unbounded) or positive, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}
