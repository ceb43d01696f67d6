// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph projects resources and dependencies into the node/edge form
// consumed by diagrams, risk reporting, and API responses. The projection is
// pure and lossless for resources: every resource becomes exactly one node,
// identity always by id, never by name.
package graph

import (
	"github.com/AleutianAI/Fathom/services/topology/categorize"
	"github.com/AleutianAI/Fathom/services/topology/model"
)

// Node is the output projection of one resource.
type Node struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Type       model.Kind      `json:"type"`
	Platform   model.Platform  `json:"platform"`
	Namespace  string          `json:"namespace,omitempty"`
	Group      categorize.Tier `json:"group"`
	Image      string          `json:"image,omitempty"`
	Replicas   int             `json:"replicas,omitempty"`
	Ports      []model.Port    `json:"ports,omitempty"`
	SourceFile string          `json:"source_file"`
}

// Edge is the output projection of one resolved dependency. Unresolved
// selector placeholders are never projected.
type Edge struct {
	ID         string               `json:"id"`
	Source     string               `json:"source"`
	Target     string               `json:"target"`
	Type       model.DependencyType `json:"type"`
	IsInferred bool                 `json:"is_inferred"`
	Confidence model.Confidence     `json:"confidence"`
}

// Stats aggregates batch-level counts for the graph consumers that do not
// walk the node list.
type Stats struct {
	NodeCount   int      `json:"node_count"`
	EdgeCount   int      `json:"edge_count"`
	Platforms   []string `json:"platforms"`
	SourceFiles []string `json:"source_files"`
}

// Graph is the complete projection for one analysis run.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// TierFunc supplies the architectural tier recorded on each node.
type TierFunc func(model.Resource) categorize.Tier

// Build projects the accumulated resources and dependencies. Near-duplicate
// edges (an explicit reference alongside an inferred one) are kept as-is;
// callers that want a deduplicated view filter downstream. Platform and
// source-file lists are deduplicated in first-seen order so output stays
// deterministic for identical input.
func Build(resources []model.Resource, deps []model.Dependency, tierOf TierFunc) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(resources)),
		Edges: make([]Edge, 0, len(deps)),
	}

	seenPlatform := make(map[model.Platform]bool)
	seenFile := make(map[string]bool)
	for _, res := range resources {
		g.Nodes = append(g.Nodes, Node{
			ID:         res.ID,
			Label:      res.Name,
			Type:       res.Kind,
			Platform:   res.Platform,
			Namespace:  res.Namespace,
			Group:      tierOf(res),
			Image:      res.Metadata.Image,
			Replicas:   res.Metadata.Replicas,
			Ports:      res.Metadata.Ports,
			SourceFile: res.SourceFile,
		})
		if !seenPlatform[res.Platform] {
			seenPlatform[res.Platform] = true
			g.Stats.Platforms = append(g.Stats.Platforms, string(res.Platform))
		}
		if res.SourceFile != "" && !seenFile[res.SourceFile] {
			seenFile[res.SourceFile] = true
			g.Stats.SourceFiles = append(g.Stats.SourceFiles, res.SourceFile)
		}
	}

	for _, dep := range deps {
		if !dep.Target.Resolved() {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			ID:         dep.ID,
			Source:     dep.Source,
			Target:     dep.Target.ResourceID,
			Type:       dep.Type,
			IsInferred: dep.IsInferred,
			Confidence: dep.Confidence,
		})
	}

	g.Stats.NodeCount = len(g.Nodes)
	g.Stats.EdgeCount = len(g.Edges)
	return g
}
