// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command fathom is the command-line front-end for the topology analysis
// pipeline. It reads compose files and cluster manifests, and prints the
// resource inventory, dependency graph, diagrams, risks, and
// recommendations.
//
// Usage:
//
//	fathom analyze docker-compose.yml
//	fathom analyze deploy/*.yaml --format json --output result.json
//	fathom diagram docker-compose.yml --view service
//	fathom risks deploy/*.yaml && echo "clean"
//	fathom watch docker-compose.yml
package main

import (
	"os"

	"github.com/AleutianAI/Fathom/pkg/ux"
	"github.com/AleutianAI/Fathom/services/topology/risk"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(risk.ExitError)
	}
}
