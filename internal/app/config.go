package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ModelPath points at a .hcl file or a directory of .hcl files
	// declaring the model to run.
	ModelPath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates a configuration and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
