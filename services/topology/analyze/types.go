// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyze

import (
	"github.com/AleutianAI/Fathom/services/topology/diagram"
	"github.com/AleutianAI/Fathom/services/topology/graph"
	"github.com/AleutianAI/Fathom/services/topology/model"
	"github.com/AleutianAI/Fathom/services/topology/risk"
)

// Document is one decoded input document paired with the file it came from.
// Decoding from text is the loader's job; the pipeline never sees raw bytes.
type Document struct {
	SourceFile string
	Body       map[string]any
}

// Options controls optional pipeline stages.
type Options struct {
	InferDependencies bool `json:"infer_dependencies"`
}

// DefaultOptions enables dependency inference.
func DefaultOptions() Options {
	return Options{InferDependencies: true}
}

// Run status values. A run that finishes reports completed even when the
// error list is non-empty; partial results are preferred over total failure.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ResourceSummary counts the extracted resources by kind and platform and
// carries the full normalized list.
type ResourceSummary struct {
	Total      int              `json:"total"`
	ByKind     map[string]int   `json:"by_kind"`
	ByPlatform map[string]int   `json:"by_platform"`
	Items      []model.Resource `json:"items"`
}

// Summary is the architectural overview: a free-text line, the tier
// groupings, and external endpoint references found in configuration values.
type Summary struct {
	Overview          string              `json:"overview"`
	Tiers             map[string][]string `json:"tiers"`
	ExternalEndpoints []string            `json:"external_endpoints,omitempty"`
}

// Result is the complete output of one analysis run. Consumers must treat it
// as authoritative and must not re-derive graph or risk data independently.
type Result struct {
	Status          string                `json:"status"`
	Resources       ResourceSummary       `json:"resources"`
	Graph           *graph.Graph          `json:"graph"`
	Diagrams        diagram.Set           `json:"diagrams"`
	Summary         Summary               `json:"summary"`
	Risks           []risk.Risk           `json:"risks"`
	Recommendations []risk.Recommendation `json:"recommendations"`
	Errors          []string              `json:"errors,omitempty"`
}
