// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package config loads the YAML configuration of the polynomial CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the toolchain. The numerical tolerances of the
// decoder are fixed and not configurable.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Indent is the unit of indentation in generated source.
	Indent string `yaml:"indent"`

	// MaxSteps bounds the number of executed instructions; 0 means no bound.
	MaxSteps int `yaml:"max_steps"`

	// HistoryFile is the REPL history path, relative to the home directory.
	HistoryFile string `yaml:"history_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Indent:      "\t",
		MaxSteps:    0,
		HistoryFile: ".polynomial_history",
	}
}

// Load reads path and overlays it on Default. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports values the toolchain cannot honour.
func (c Config) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Indent == "" {
		return fmt.Errorf("indent must not be empty")
	}
	return nil
}
