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
	"sort"
	"strings"

	"github.com/AleutianAI/Fathom/pkg/ux"
	"github.com/AleutianAI/Fathom/services/topology/analyze"
	"github.com/AleutianAI/Fathom/services/topology/categorize"
	"github.com/AleutianAI/Fathom/services/topology/risk"
)

// renderResultText renders a full analysis result for the terminal.
func renderResultText(result *analyze.Result) string {
	var sb strings.Builder

	sb.WriteString(result.Summary.Overview)
	sb.WriteString("\n")

	sb.WriteString("\nResources\n")
	kinds := make([]string, 0, len(result.Resources.ByKind))
	for kind := range result.Resources.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("  %-22s %d\n", kind, result.Resources.ByKind[kind]))
	}

	sb.WriteString("\nTiers\n")
	for _, tier := range categorize.AllTiers {
		ids := result.Summary.Tiers[string(tier)]
		if len(ids) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", tier, strings.Join(ids, ", ")))
	}

	sb.WriteString(fmt.Sprintf("\nGraph: %d nodes, %d edges\n",
		result.Graph.Stats.NodeCount, result.Graph.Stats.EdgeCount))

	if len(result.Summary.ExternalEndpoints) > 0 {
		sb.WriteString("\nExternal endpoints\n")
		for _, ep := range result.Summary.ExternalEndpoints {
			sb.WriteString("  " + ep + "\n")
		}
	}

	if riskText := renderRisksText(result.Risks, result.Recommendations); riskText != "" {
		sb.WriteString("\n")
		sb.WriteString(riskText)
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\nErrors\n")
		for _, e := range result.Errors {
			sb.WriteString("  " + e + "\n")
		}
	}

	return sb.String()
}

// renderRisksText renders risks grouped under their recommendations. Empty
// when no risks were found.
func renderRisksText(risks []risk.Risk, recs []risk.Recommendation) string {
	if len(risks) == 0 {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Risks (%d)\n", len(risks)))
	for _, r := range risks {
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", ux.SeverityBadge(string(r.Severity)), r.Category, r.Description))
		sb.WriteString(fmt.Sprintf("      %s\n", r.Recommendation))
	}

	if len(recs) > 0 {
		sb.WriteString("\nRecommendations\n")
		for _, rec := range recs {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", rec.Title, rec.Detail))
		}
	}

	return sb.String()
}

// renderRefreshLine is the one-line summary printed by `fathom watch` after
// each re-analysis.
func renderRefreshLine(result *analyze.Result) string {
	return fmt.Sprintf("%d resources, %d edges, %d risks, %d errors",
		result.Resources.Total,
		result.Graph.Stats.EdgeCount,
		len(result.Risks),
		len(result.Errors))
}
