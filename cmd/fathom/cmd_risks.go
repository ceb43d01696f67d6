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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Fathom/pkg/ux"
	"github.com/AleutianAI/Fathom/services/topology/risk"
)

// runRisksCommand implements `fathom risks [files...]`.
//
// Exit codes follow the risk package: 0 when no risk reaches the --fail-on
// threshold, 1 when one does, 2 for errors. This lets CI gate on
// `fathom risks deploy/*.yaml`.
func runRisksCommand(cmd *cobra.Command, args []string) error {
	result, err := runPipeline(args)
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		ux.Warning(e)
	}

	if len(result.Risks) == 0 {
		ux.Success("no risks detected")
		return nil
	}

	fmt.Print(renderRisksText(result.Risks, result.Recommendations))

	if code := risk.ExitCode(result.Risks, risk.ParseSeverity(failOn)); code != risk.ExitSuccess {
		os.Exit(code)
	}
	return nil
}
