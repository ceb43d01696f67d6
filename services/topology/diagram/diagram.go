// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diagram renders the graph as textual flowchart diagrams. Three
// fixed topologies exist: the container view (compute resources only), the
// service view (traffic path from the outside in), and the infrastructure
// view (everything, clustered by tier).
//
// All three render from the same node/edge set and walk it in graph order,
// so identical graphs produce byte-identical diagrams. Explicit dependencies
// draw as solid arrows, inferred ones as dashed, both labeled with the
// dependency type.
package diagram

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/Fathom/services/topology/categorize"
	"github.com/AleutianAI/Fathom/services/topology/graph"
	"github.com/AleutianAI/Fathom/services/topology/model"
)

// View identifies one of the fixed diagram topologies.
type View string

const (
	ViewContainer      View = "container"
	ViewService        View = "service"
	ViewInfrastructure View = "infrastructure"
)

// Set holds all three rendered diagrams for one analysis run.
type Set struct {
	Container      string `json:"container"`
	Service        string `json:"service"`
	Infrastructure string `json:"infrastructure"`
}

// RenderAll renders the three fixed views.
func RenderAll(g *graph.Graph) Set {
	return Set{
		Container:      Container(g),
		Service:        Service(g),
		Infrastructure: Infrastructure(g),
	}
}

// Render renders one named view.
func Render(g *graph.Graph, view View) (string, error) {
	switch view {
	case ViewContainer:
		return Container(g), nil
	case ViewService:
		return Service(g), nil
	case ViewInfrastructure:
		return Infrastructure(g), nil
	default:
		return "", fmt.Errorf("unknown diagram view %q", view)
	}
}

// Container renders compute-kind nodes and the edges strictly between them.
func Container(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	rendered := make(map[string]bool)
	for _, node := range g.Nodes {
		if !node.Type.IsCompute() {
			continue
		}
		rendered[node.ID] = true
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", sanitizeID(node.ID), escapeLabel(node.Label)))
	}

	sb.WriteString("\n")
	for _, edge := range g.Edges {
		if !rendered[edge.Source] || !rendered[edge.Target] {
			continue
		}
		writeEdge(&sb, edge)
	}
	return sb.String()
}

// Service renders the traffic path: a synthetic external entry point, then
// ingress, service, and workload clusters, joined by routing and selector
// edges only. Empty clusters are omitted.
func Service(g *graph.Graph) string {
	var ingresses, services, workloads []graph.Node
	for _, node := range g.Nodes {
		switch {
		case node.Type == model.KindIngress:
			ingresses = append(ingresses, node)
		case node.Type == model.KindService:
			services = append(services, node)
		case node.Type.IsCompute():
			workloads = append(workloads, node)
		}
	}

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	if len(ingresses) > 0 {
		sb.WriteString("    subgraph external[\"External\"]\n")
		sb.WriteString("        client((\"client\"))\n")
		sb.WriteString("    end\n")
	}
	writeCluster(&sb, "ingress", "Ingress", ingresses, false)
	writeCluster(&sb, "services", "Services", services, false)
	writeCluster(&sb, "workloads", "Workloads", workloads, false)

	rendered := make(map[string]bool)
	for _, group := range [][]graph.Node{ingresses, services, workloads} {
		for _, node := range group {
			rendered[node.ID] = true
		}
	}

	sb.WriteString("\n")
	for _, ing := range ingresses {
		sb.WriteString(fmt.Sprintf("    client --> %s\n", sanitizeID(ing.ID)))
	}
	for _, edge := range g.Edges {
		if edge.Type != model.DependencyRouting && edge.Type != model.DependencySelector {
			continue
		}
		if !rendered[edge.Source] || !rendered[edge.Target] {
			continue
		}
		writeEdge(&sb, edge)
	}
	return sb.String()
}

// Infrastructure renders every node, clustered by architectural tier, with
// every resolved non-selector edge. Infra-tier nodes sit outside the three
// clusters.
func Infrastructure(g *graph.Graph) string {
	byTier := make(map[categorize.Tier][]graph.Node)
	for _, node := range g.Nodes {
		byTier[node.Group] = append(byTier[node.Group], node)
	}

	var sb strings.Builder
	sb.WriteString("flowchart TB\n")
	writeCluster(&sb, "frontend", "Frontend", byTier[categorize.TierFrontend], true)
	writeCluster(&sb, "backend", "Backend", byTier[categorize.TierBackend], true)
	writeCluster(&sb, "data", "Data", byTier[categorize.TierData], true)
	for _, node := range byTier[categorize.TierInfra] {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]:::%s\n", sanitizeID(node.ID), escapeLabel(node.Label), node.Group))
	}

	rendered := make(map[string]bool)
	for _, node := range g.Nodes {
		rendered[node.ID] = true
	}

	sb.WriteString("\n")
	for _, edge := range g.Edges {
		if edge.Type == model.DependencySelector {
			continue
		}
		if !rendered[edge.Source] || !rendered[edge.Target] {
			continue
		}
		writeEdge(&sb, edge)
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef frontend fill:#4c9aff,stroke:#333\n")
	sb.WriteString("    classDef backend fill:#57d9a3,stroke:#333\n")
	sb.WriteString("    classDef data fill:#ffc400,stroke:#333\n")
	sb.WriteString("    classDef infra fill:#c0b6f2,stroke:#333\n")
	return sb.String()
}

func writeCluster(sb *strings.Builder, id, label string, nodes []graph.Node, tierClasses bool) {
	if len(nodes) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", id, label))
	for _, node := range nodes {
		class := ""
		if tierClasses && node.Group != "" {
			class = ":::" + string(node.Group)
		}
		sb.WriteString(fmt.Sprintf("        %s[\"%s\"]%s\n", sanitizeID(node.ID), escapeLabel(node.Label), class))
	}
	sb.WriteString("    end\n")
}

// writeEdge draws solid arrows for explicit dependencies and dashed arrows
// for inferred ones, labeled with the dependency type.
func writeEdge(sb *strings.Builder, edge graph.Edge) {
	arrow := "-->"
	if edge.IsInferred {
		arrow = "-.->"
	}
	sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", sanitizeID(edge.Source), arrow, edge.Type, sanitizeID(edge.Target)))
}

// sanitizeID maps an arbitrary resource id onto the alphanumeric-plus-
// underscore alphabet the diagram grammar accepts. Two distinct ids can
// sanitize identically; that collision is a known, accepted limitation.
func sanitizeID(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	result := sb.String()
	// Ensure starts with letter
	if len(result) > 0 && (result[0] >= '0' && result[0] <= '9') {
		result = "n" + result
	}
	return result
}

func escapeLabel(s string) string {
	replacer := strings.NewReplacer(
		"\"", "#quot;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}
