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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/Fathom/cmd/fathom/config"
	"github.com/AleutianAI/Fathom/pkg/ux"
)

// --- Global Command Variables ---
var (
	configPath       string
	quiet            bool
	verbose          bool
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	outputFormat string // text or json; empty falls back to the config file
	outputPath   string // write the result here instead of stdout
	noInfer      bool   // disable environment-based dependency inference
	diagramView  string // container, service, or infrastructure
	failOn       string // lowest severity that makes `risks` exit non-zero
	debounceMs   int    // watch debounce override

	rootCmd = &cobra.Command{
		Use:   "fathom",
		Short: "Analyze infrastructure configuration into a dependency graph",
		Long: `Fathom takes the measure of your infrastructure configuration.

It reads compose files and cluster manifests, normalizes them into a
resource/dependency graph, resolves label selectors, infers implicit
dependencies from configuration values, and reports architectural tiers,
diagrams, and reliability risks.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetPath(configPath)
			}
			if err := config.Load(); err != nil {
				return err
			}
			switch {
			case quiet:
				ux.SetPersonalityLevel(ux.PersonalityMachine)
			case personalityLevel != "":
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			default:
				ux.InitPersonality()
			}
			return nil
		},
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Run the full analysis pipeline over configuration files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyzeCommand, // Defined in cmd_analyze.go
	}

	diagramCmd = &cobra.Command{
		Use:   "diagram [files...]",
		Short: "Render one mermaid diagram view of the configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiagramCommand, // Defined in cmd_diagram.go
	}

	risksCmd = &cobra.Command{
		Use:   "risks [files...]",
		Short: "Report reliability risks; exits 1 when risks are found",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRisksCommand, // Defined in cmd_risks.go
	}

	watchCmd = &cobra.Command{
		Use:   "watch [files...]",
		Short: "Re-analyze the files whenever they change on disk",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatchCommand, // Defined in cmd_watch.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default ~/.fathom/fathom.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Plain machine-readable output, no styling")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output personality: full, standard, minimal, or machine")

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format: text or json (default from config file)")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the result to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&noInfer, "no-infer", false,
		"Disable environment-based dependency inference")

	rootCmd.AddCommand(diagramCmd)
	diagramCmd.Flags().StringVar(&diagramView, "view", "container",
		"Diagram view: container, service, or infrastructure")
	diagramCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the diagram to a file instead of stdout")
	diagramCmd.Flags().BoolVar(&noInfer, "no-infer", false,
		"Disable environment-based dependency inference")

	rootCmd.AddCommand(risksCmd)
	risksCmd.Flags().StringVar(&failOn, "fail-on", "low",
		"Lowest severity that causes a non-zero exit: low, medium, or high")
	risksCmd.Flags().BoolVar(&noInfer, "no-infer", false,
		"Disable environment-based dependency inference")

	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&debounceMs, "debounce", 0,
		"Debounce window in milliseconds (default from config file)")
	watchCmd.Flags().BoolVar(&noInfer, "no-infer", false,
		"Disable environment-based dependency inference")
}
