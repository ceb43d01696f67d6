// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package risk evaluates the fixed topology rule set and aggregates the
// findings into recommendations.
package risk

import "strings"

// Severity represents how serious a detected risk is.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Exit codes for risk checks.
const (
	ExitSuccess   = 0 // No risk above threshold
	ExitRiskFound = 1 // Risk above threshold
	ExitError     = 2 // Error (unreadable input, analysis failure)
)

// ParseSeverity parses a case-insensitive severity name, defaulting to high.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	default:
		return SeverityHigh
	}
}

// Order returns the numeric order of this severity.
func (s Severity) Order() int {
	levels := map[Severity]int{
		SeverityLow:    0,
		SeverityMedium: 1,
		SeverityHigh:   2,
	}
	return levels[s]
}

// Exceeds returns true if this severity exceeds the threshold.
func (s Severity) Exceeds(threshold Severity) bool {
	return s.Order() > threshold.Order()
}

// ExitCode maps a risk list to a process exit code for CI gating:
// ExitRiskFound when any risk is at or above the threshold, ExitSuccess
// otherwise.
func ExitCode(risks []Risk, threshold Severity) int {
	for _, r := range risks {
		if r.Severity == threshold || r.Severity.Exceeds(threshold) {
			return ExitRiskFound
		}
	}
	return ExitSuccess
}

// Category groups risks by the operational concern they affect.
type Category string

const (
	CategoryAvailability       Category = "Availability"
	CategoryReliability        Category = "Reliability"
	CategoryResourceManagement Category = "Resource-Management"
	CategoryCleanup            Category = "Cleanup"
)

// Risk is one rule match. A single resource may appear in several risks.
type Risk struct {
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Resources      []string `json:"resources"`
	Recommendation string   `json:"recommendation"`
}

// Recommendation is category-level advice aggregated from individual risks.
type Recommendation struct {
	Category  Category `json:"category"`
	Title     string   `json:"title"`
	Detail    string   `json:"detail"`
	Resources []string `json:"resources"`
}
