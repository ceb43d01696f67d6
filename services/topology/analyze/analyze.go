// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyze sequences the topology pipeline: extraction, selector
// resolution, dependency inference, graph construction, diagram rendering,
// risk detection, and recommendations. It is the only package front-ends
// need to import to run a full analysis.
package analyze

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/Fathom/services/topology/categorize"
	"github.com/AleutianAI/Fathom/services/topology/diagram"
	"github.com/AleutianAI/Fathom/services/topology/extract"
	"github.com/AleutianAI/Fathom/services/topology/graph"
	"github.com/AleutianAI/Fathom/services/topology/infer"
	"github.com/AleutianAI/Fathom/services/topology/loader"
	"github.com/AleutianAI/Fathom/services/topology/model"
	"github.com/AleutianAI/Fathom/services/topology/risk"
	"github.com/AleutianAI/Fathom/services/topology/selector"
)

// Pipeline bundles the stages that carry state: the compiled inference
// patterns and the tier rules. Construct it once and reuse it across runs;
// Run is safe for concurrent use because every stage is pure.
type Pipeline struct {
	inferencer  *infer.Inferencer
	categorizer *categorize.Categorizer
}

// NewPipeline compiles the embedded pattern and tier tables. An error here
// means the embedded data is invalid and the binary cannot analyze anything.
func NewPipeline() (*Pipeline, error) {
	inf, err := infer.New()
	if err != nil {
		return nil, fmt.Errorf("loading inference patterns: %w", err)
	}
	cat, err := categorize.New()
	if err != nil {
		return nil, fmt.Errorf("loading tier rules: %w", err)
	}
	return &Pipeline{inferencer: inf, categorizer: cat}, nil
}

// Run executes the full analysis over the given documents.
//
// # Description
//
// Each document is classified as compose or cluster and handed to the
// matching extractor. A document that cannot be classified or extracted
// contributes one "<file>: <message>" entry to the error list and nothing
// else; the run continues with the remaining documents. The surviving
// resources and dependencies then flow through selector resolution, optional
// inference, graph construction, diagram rendering, risk detection, and
// recommendation aggregation, in that order.
//
// # Outputs
//
//   - A Result whose Status is always StatusCompleted. Per-document failures
//     appear in Result.Errors; they never abort the run.
func (p *Pipeline) Run(docs []Document, opts Options) *Result {
	var resources []model.Resource
	var deps []model.Dependency
	var errs []string

	for _, doc := range docs {
		rs, ds, err := extractDocument(doc)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", doc.SourceFile, err))
			continue
		}
		resources = append(resources, rs...)
		deps = append(deps, ds...)
	}

	return p.finish(resources, deps, errs, opts)
}

// RunFiles decodes each file into its YAML documents and analyzes them all
// as one batch. Decode failures and extraction failures land in the same
// error list, ordered by file and then by document within the file.
func (p *Pipeline) RunFiles(files []loader.File, opts Options) *Result {
	var resources []model.Resource
	var deps []model.Dependency
	var errs []string

	for _, file := range files {
		bodies, err := loader.Documents(file.Content)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}
		for _, body := range bodies {
			rs, ds, err := extractDocument(Document{SourceFile: file.Name, Body: body})
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", file.Name, err))
				continue
			}
			resources = append(resources, rs...)
			deps = append(deps, ds...)
		}
	}

	return p.finish(resources, deps, errs, opts)
}

// extractDocument classifies one document and hands it to the matching
// extractor.
func extractDocument(doc Document) ([]model.Resource, []model.Dependency, error) {
	platform, err := detectPlatform(doc.Body)
	if err != nil {
		return nil, nil, err
	}
	if platform == model.PlatformCluster {
		return extract.Cluster(doc.Body, doc.SourceFile)
	}
	return extract.Compose(doc.Body, doc.SourceFile)
}

func (p *Pipeline) finish(resources []model.Resource, deps []model.Dependency, errs []string, opts Options) *Result {
	deps = selector.Resolve(resources, deps)
	if opts.InferDependencies {
		deps = append(deps, p.inferencer.Infer(resources)...)
	}

	g := graph.Build(resources, deps, p.categorizer.Tier)
	risks := risk.Detect(resources, deps)

	return &Result{
		Status:          StatusCompleted,
		Resources:       summarizeResources(resources),
		Graph:           g,
		Diagrams:        diagram.RenderAll(g),
		Summary:         buildSummary(resources, g),
		Risks:           risks,
		Recommendations: risk.Recommend(risks),
		Errors:          errs,
	}
}

// detectPlatform classifies a decoded document. A non-empty kind string marks
// a cluster manifest; a services block marks a compose file. Anything else
// wraps loader.ErrUnknownPlatform and is reported as a document-level error.
func detectPlatform(body map[string]any) (model.Platform, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty document", loader.ErrUnknownPlatform)
	}
	if kind, ok := body["kind"].(string); ok && kind != "" {
		return model.PlatformCluster, nil
	}
	if _, ok := body["services"]; ok {
		return model.PlatformCompose, nil
	}
	return "", fmt.Errorf("%w: no kind field and no services block", loader.ErrUnknownPlatform)
}

func summarizeResources(resources []model.Resource) ResourceSummary {
	summary := ResourceSummary{
		Total:      len(resources),
		ByKind:     make(map[string]int),
		ByPlatform: make(map[string]int),
		Items:      resources,
	}
	for _, res := range resources {
		summary.ByKind[string(res.Kind)]++
		summary.ByPlatform[string(res.Platform)]++
	}
	return summary
}

func buildSummary(resources []model.Resource, g *graph.Graph) Summary {
	tiers := make(map[string][]string)
	for _, node := range g.Nodes {
		tiers[string(node.Group)] = append(tiers[string(node.Group)], node.ID)
	}
	overview := fmt.Sprintf("%d resource(s) from %d file(s); %d dependency edge(s)",
		g.Stats.NodeCount, len(g.Stats.SourceFiles), g.Stats.EdgeCount)
	if len(g.Stats.Platforms) > 0 {
		overview = fmt.Sprintf("%d resource(s) from %d file(s) on %s; %d dependency edge(s)",
			g.Stats.NodeCount, len(g.Stats.SourceFiles),
			strings.Join(g.Stats.Platforms, ", "), g.Stats.EdgeCount)
	}
	return Summary{
		Overview:          overview,
		Tiers:             tiers,
		ExternalEndpoints: externalEndpoints(resources),
	}
}
