package app

import (
	"errors"
	"time"
)

// Config holds everything an App instance needs to run.
type Config struct {
	FlowPath string // .hcl file or directory of .hcl files

	LogFormat   string
	LogLevel    string
	GracePeriod time.Duration
}

// NewConfig validates the raw configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	if cfg.GracePeriod < 0 {
		return nil, errors.New("GracePeriod cannot be negative")
	}
	return &cfg, nil
}
