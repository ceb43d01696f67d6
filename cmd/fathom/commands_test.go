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
	"testing"

	"github.com/AleutianAI/Fathom/cmd/fathom/config"
)

func TestRootCommand_Subcommands(t *testing.T) {
	wanted := []string{"analyze", "diagram", "risks", "watch"}
	for _, name := range wanted {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmdName string
		flag    string
	}{
		{"analyze", "format"},
		{"analyze", "output"},
		{"analyze", "no-infer"},
		{"diagram", "view"},
		{"diagram", "output"},
		{"risks", "fail-on"},
		{"watch", "debounce"},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.cmdName})
		if err != nil {
			t.Fatalf("finding %s: %v", tt.cmdName, err)
		}
		if cmd.Flags().Lookup(tt.flag) == nil {
			t.Errorf("%s is missing flag --%s", tt.cmdName, tt.flag)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, flag := range []string{"config", "quiet", "verbose", "personality"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("root command is missing persistent flag --%s", flag)
		}
	}
}

func TestPipelineOptions_FlagOverridesConfig(t *testing.T) {
	oldConfig := config.Global
	oldNoInfer := noInfer
	defer func() {
		config.Global = oldConfig
		noInfer = oldNoInfer
	}()

	config.Global.Analysis.InferDependencies = true
	noInfer = false
	if opts := pipelineOptions(); !opts.InferDependencies {
		t.Error("inference should follow the config default")
	}

	noInfer = true
	if opts := pipelineOptions(); opts.InferDependencies {
		t.Error("--no-infer should win over the config default")
	}

	config.Global.Analysis.InferDependencies = false
	noInfer = false
	if opts := pipelineOptions(); opts.InferDependencies {
		t.Error("config should be able to disable inference")
	}
}
