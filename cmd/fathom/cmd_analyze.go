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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Fathom/cmd/fathom/config"
	"github.com/AleutianAI/Fathom/pkg/ux"
)

// runAnalyzeCommand implements `fathom analyze [files...]`.
func runAnalyzeCommand(cmd *cobra.Command, args []string) error {
	logger := newCommandLogger()
	defer logger.Close()

	logger.Debug("starting analysis", "files", len(args))
	result, err := runPipeline(args)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = config.Global.Output.Format
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if err := writeOutput(string(data)); err != nil {
			return err
		}
	case "text", "":
		if err := writeOutput(renderResultText(result)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, want text or json", format)
	}

	if outputPath == "" {
		ux.Summary(result.Resources.Total, len(result.Risks), len(result.Errors))
	}
	return nil
}
