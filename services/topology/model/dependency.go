// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import (
	"maps"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DependencyType classifies the relationship an edge expresses.
type DependencyType string

const (
	DependencyNetwork  DependencyType = "network"
	DependencyStorage  DependencyType = "storage"
	DependencyConfig   DependencyType = "config"
	DependencySecret   DependencyType = "secret"
	DependencyStartup  DependencyType = "startup"
	DependencyRuntime  DependencyType = "runtime"
	DependencySelector DependencyType = "selector"
	DependencyRouting  DependencyType = "routing"
)

// Confidence is the qualitative trust level attached to a dependency.
// Extracted edges are high; inferred edges are always medium and must never
// be treated as explicit ordering guarantees.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Target points a dependency at either a concrete resource or a pending
// label selector. Exactly one side is set; use the constructors rather than
// struct literals.
//
// Service manifests declare their backends indirectly through label
// selectors, so their dependencies start out unresolved and are rewritten to
// concrete targets (zero or more) by the selector resolver. Carrying the
// selector as a typed map rather than an encoded string means there is no
// decode step that can fail after extraction.
type Target struct {
	ResourceID string            `json:"resource_id,omitempty"`
	Selector   map[string]string `json:"selector,omitempty"`
}

// TargetResource returns a resolved target.
func TargetResource(id string) Target {
	return Target{ResourceID: id}
}

// TargetSelector returns a pending label-selector target. The map is cloned
// so later mutation of the caller's copy cannot leak in.
func TargetSelector(labels map[string]string) Target {
	return Target{Selector: maps.Clone(labels)}
}

// Resolved reports whether the target names a concrete resource.
func (t Target) Resolved() bool {
	return t.ResourceID != ""
}

// String renders the target for reasons and identifiers. Selector form is
// key-sorted so the rendering is stable across runs.
func (t Target) String() string {
	if t.Resolved() {
		return t.ResourceID
	}
	pairs := make([]string, 0, len(t.Selector))
	for k, v := range t.Selector {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return "selector:" + strings.Join(pairs, ",")
}

// Dependency is a directed relationship between two resources.
type Dependency struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Target     Target            `json:"target"`
	Type       DependencyType    `json:"type"`
	IsInferred bool              `json:"is_inferred"`
	Confidence Confidence        `json:"confidence"`
	Reason     string            `json:"reason,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// DependencyID derives the stable identifier for an edge. It is a UUIDv5 over
// the edge's identity tuple, so identical input always produces identical
// edge ids regardless of run or host.
func DependencyID(source string, target Target, depType DependencyType, reason string) string {
	seed := source + "|" + target.String() + "|" + string(depType) + "|" + reason
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// NewDependency builds an explicit (extracted or resolved) dependency with
// high confidence and a deterministic id.
func NewDependency(source string, target Target, depType DependencyType, reason string) Dependency {
	return Dependency{
		ID:         DependencyID(source, target, depType, reason),
		Source:     source,
		Target:     target,
		Type:       depType,
		IsInferred: false,
		Confidence: ConfidenceHigh,
		Reason:     reason,
	}
}

// NewInferredDependency builds a heuristic dependency. Inferred edges are
// always runtime-typed with medium confidence.
func NewInferredDependency(source, targetID, reason string) Dependency {
	target := TargetResource(targetID)
	return Dependency{
		ID:         DependencyID(source, target, DependencyRuntime, reason),
		Source:     source,
		Target:     target,
		Type:       DependencyRuntime,
		IsInferred: true,
		Confidence: ConfidenceMedium,
		Reason:     reason,
	}
}
