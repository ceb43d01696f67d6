// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package infer synthesizes low-trust runtime dependencies from environment
// configuration. When a variable looks like a connection string for a known
// backing service (a database, cache, broker, or search engine) and some
// other resource in the batch looks like that service, the two are joined by
// an inferred edge.
//
// Inferred edges are always medium confidence and never carry ordering
// guarantees; consumers that need explicit ordering must use startup edges.
package infer

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// servicePatterns holds the raw byte content of the 'patterns.yaml' file.
//
// Populated at compile-time by the Go 'embed' directive so the inference
// table is immutable at runtime and travels with the executable.
//
//go:embed patterns.yaml
var servicePatterns []byte

type patternFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern is one row of the inference table. Rows are tested in file order
// against each NAME=VALUE environment entry and the first hit wins, so more
// specific variants must precede their generic siblings.
type Pattern struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Regex       string `yaml:"regex"`
	Service     string `yaml:"service"`
	compiled    *regexp.Regexp
}

// Inferencer evaluates the embedded pattern table. Safe for concurrent use
// after construction.
type Inferencer struct {
	patterns []Pattern
}

// New loads the embedded table and compiles its regexes.
func New() (*Inferencer, error) {
	var file patternFile
	if err := yaml.Unmarshal(servicePatterns, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded inference patterns: %w", err)
	}
	for i := range file.Patterns {
		p := &file.Patterns[i]
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile the regex %s: %w", p.Regex, err)
		}
		p.compiled = re
	}
	return &Inferencer{patterns: file.Patterns}, nil
}

// Infer scans every resource's environment entries and returns the inferred
// dependencies. Resources and their order are never modified. Duplicates
// against explicit edges are not filtered here; both survive into the graph.
func (in *Inferencer) Infer(resources []model.Resource) []model.Dependency {
	var deps []model.Dependency
	for _, res := range resources {
		for _, env := range res.Metadata.Env {
			entry := env.Name + "=" + env.Value
			pat := in.match(entry)
			if pat == nil {
				continue
			}
			targetID, ok := findCandidate(resources, res.ID, pat.Service)
			if !ok {
				continue
			}
			reason := fmt.Sprintf("environment variable %s references %s", env.Name, pat.Service)
			deps = append(deps, model.NewInferredDependency(res.ID, targetID, reason))
		}
	}
	return deps
}

// match returns the first table row whose regex matches the entry, or nil.
func (in *Inferencer) match(entry string) *Pattern {
	for i := range in.patterns {
		if in.patterns[i].compiled.MatchString(entry) {
			return &in.patterns[i]
		}
	}
	return nil
}

// findCandidate picks the first resource, in batch order, whose name or image
// contains the canonical service name. The source resource never matches
// itself.
func findCandidate(resources []model.Resource, sourceID, service string) (string, bool) {
	for _, r := range resources {
		if r.ID == sourceID {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), service) ||
			strings.Contains(strings.ToLower(r.Metadata.Image), service) {
			return r.ID, true
		}
	}
	return "", false
}
