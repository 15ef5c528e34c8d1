// Package config holds the effective configuration of one serverest-e2e run.
package config

import "github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e/options"

// Config is the running configuration built from completed, validated options.
type Config struct {
	*options.Options
}

func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
