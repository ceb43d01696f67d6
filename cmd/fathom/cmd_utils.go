// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/AleutianAI/Fathom/cmd/fathom/config"
	"github.com/AleutianAI/Fathom/pkg/logging"
	"github.com/AleutianAI/Fathom/services/topology/analyze"
	"github.com/AleutianAI/Fathom/services/topology/loader"
)

// pipelineOptions merges the config-file default with the --no-infer flag.
// The flag always wins.
func pipelineOptions() analyze.Options {
	opts := analyze.DefaultOptions()
	opts.InferDependencies = config.Global.Analysis.InferDependencies
	if noInfer {
		opts.InferDependencies = false
	}
	return opts
}

// runPipeline reads the given paths and runs one analysis over them.
func runPipeline(paths []string) (*analyze.Result, error) {
	files, err := loader.FromPaths(paths)
	if err != nil {
		return nil, err
	}
	pipeline, err := analyze.NewPipeline()
	if err != nil {
		return nil, fmt.Errorf("initializing pipeline: %w", err)
	}
	return pipeline.RunFiles(files, pipelineOptions()), nil
}

// newCommandLogger builds the CLI logger from config and the --verbose flag.
func newCommandLogger() *logging.Logger {
	level := logging.LevelInfo
	switch config.Global.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  config.Global.Logging.Dir,
		Service: "cli",
		Quiet:   !verbose && config.Global.Logging.Dir == "",
	})
}

// writeOutput writes text to --output when set, stdout otherwise.
func writeOutput(text string) error {
	if outputPath == "" {
		fmt.Print(text)
		if len(text) > 0 && text[len(text)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
