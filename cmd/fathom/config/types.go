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

// FathomConfig holds the CLI defaults stored at ~/.fathom/fathom.yaml.
// Command-line flags always win over config values.
type FathomConfig struct {
	// Output: how results are rendered by default
	Output OutputConfig `yaml:"output"`

	// Analysis: pipeline toggles
	Analysis AnalysisConfig `yaml:"analysis"`

	// Watch: behavior of `fathom watch`
	Watch WatchConfig `yaml:"watch"`

	// Logging: optional file logging for troubleshooting
	Logging LoggingConfig `yaml:"logging"`
}

type OutputConfig struct {
	// Format is "text" or "json"
	Format string `yaml:"format"`
}

type AnalysisConfig struct {
	// InferDependencies enables environment-based dependency inference
	InferDependencies bool `yaml:"infer_dependencies"`
}

type WatchConfig struct {
	// DebounceMs is how long to wait after a change before re-analyzing.
	// Editors often write a file several times in quick succession.
	DebounceMs int `yaml:"debounce_ms"`
}

type LoggingConfig struct {
	// Level is debug, info, warn, or error
	Level string `yaml:"level"`

	// Dir enables file logging when set, e.g. ~/.fathom/logs
	Dir string `yaml:"dir"`
}

func DefaultConfig() FathomConfig {
	return FathomConfig{
		Output: OutputConfig{
			Format: "text",
		},
		Analysis: AnalysisConfig{
			InferDependencies: true,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
