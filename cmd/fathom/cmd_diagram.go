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

	"github.com/AleutianAI/Fathom/pkg/ux"
	"github.com/AleutianAI/Fathom/services/topology/diagram"
)

// runDiagramCommand implements `fathom diagram [files...] --view <view>`.
func runDiagramCommand(cmd *cobra.Command, args []string) error {
	result, err := runPipeline(args)
	if err != nil {
		return err
	}

	out, err := diagram.Render(result.Graph, diagram.View(diagramView))
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		ux.Warning(e)
	}
	return writeOutput(out)
}
