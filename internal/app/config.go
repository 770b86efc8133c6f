package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl files, directories or .yaml files
	ImportDir   string   // overrides run.import_dir

	LogFormat string
	LogLevel  string

	// StartTime and Steps override the time block when set.
	StartTime *float64
	Steps     *int
	// Vars overrides model_parameters entries with raw expressions.
	Vars map[string]string

	Store     string
	Publish   string
	Namespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("a configuration path is required and cannot be empty")
	}
	if cfg.Steps != nil && *cfg.Steps < 0 {
		return nil, fmt.Errorf("steps must not be negative, got %d", *cfg.Steps)
	}
	for name, raw := range cfg.Vars {
		if name == "" || raw == "" {
			return nil, fmt.Errorf("invalid variable override %q = %q", name, raw)
		}
	}
	return &cfg, nil
}
