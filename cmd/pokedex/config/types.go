// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// PokedexConfig is the on-disk configuration at ~/.pokedex/pokedex.yaml.
type PokedexConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Limits    LimitsConfig    `yaml:"limits"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	UI        UIConfig        `yaml:"ui"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	// Dir receives a daily JSON log file. Empty disables file logging.
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
	Quiet bool   `yaml:"quiet"` // no console output
}

// LimitsConfig caps node allocation. 0 means unlimited.
type LimitsConfig struct {
	MaxRecords    int `yaml:"max_records" validate:"gte=0"`
	MaxCloneNodes int `yaml:"max_clone_nodes" validate:"gte=0"`
}

type TelemetryConfig struct {
	// Traces is "none" or "stdout".
	Traces string `yaml:"traces" validate:"omitempty,oneof=none stdout"`
	// Metrics is "none", "stdout" or "prometheus".
	Metrics string `yaml:"metrics" validate:"omitempty,oneof=none stdout prometheus"`
	// TextfilePath is where the prometheus exporter writes on exit.
	TextfilePath string `yaml:"textfile_path" validate:"required_if=Metrics prometheus"`
}

type UIConfig struct {
	// Forms enables huh forms when stdin and stdout are terminals.
	Forms bool `yaml:"forms"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color" validate:"omitempty,oneof=auto always never"`
}

// DefaultConfig is written on first run.
func DefaultConfig() PokedexConfig {
	return PokedexConfig{
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.pokedex/logs",
			Quiet: true,
		},
		Limits: LimitsConfig{},
		Telemetry: TelemetryConfig{
			Traces:       "none",
			Metrics:      "none",
			TextfilePath: "~/.pokedex/metrics/pokedex.prom",
		},
		UI: UIConfig{
			Forms: false,
			Color: "auto",
		},
	}
}
