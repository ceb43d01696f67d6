// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package categorize assigns every resource to one of four coarse
// architectural tiers. The rules live in an embedded YAML table so the tier
// heuristics travel with the binary and stay independently testable.
package categorize

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// Tier is the coarse architectural grouping assigned to a resource.
type Tier string

const (
	TierFrontend Tier = "frontend"
	TierBackend  Tier = "backend"
	TierData     Tier = "data"
	TierInfra    Tier = "infra"
)

// AllTiers lists the tiers in presentation order.
var AllTiers = []Tier{TierFrontend, TierBackend, TierData, TierInfra}

// UnmarshalYAML validates tier values while decoding the embedded rule table,
// so a bad table fails construction instead of surfacing mid-run.
func (t *Tier) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := Tier(s)
	switch incoming {
	case TierFrontend, TierBackend, TierData, TierInfra:
		*t = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for Tier: %q", incoming)
	}
}

// tierRules holds the raw byte content of the 'tiers.yaml' file.
//
// This variable is populated at compile-time using the Go 'embed' directive,
// so the categorization rules are immutable at runtime and travel with the
// executable.
//
//go:embed tiers.yaml
var tierRules []byte

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is one tier-assignment rule. A resource matches when its kind is in
// Kinds or its lower-cased name/image contains any keyword. Rules are
// evaluated highest priority first and the first match wins.
type Rule struct {
	Name     string   `yaml:"name"`
	Tier     Tier     `yaml:"tier"`
	Priority int      `yaml:"priority"`
	Keywords []string `yaml:"keywords"`
	Kinds    []string `yaml:"kinds"`
}

// Categorizer evaluates the embedded rule table. Safe for concurrent use
// after construction.
type Categorizer struct {
	rules []Rule
}

// New loads and orders the embedded rule table.
func New() (*Categorizer, error) {
	var file ruleFile
	if err := yaml.Unmarshal(tierRules, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded tier rules: %w", err)
	}
	sort.SliceStable(file.Rules, func(i, j int) bool {
		return file.Rules[i].Priority > file.Rules[j].Priority
	})
	return &Categorizer{rules: file.Rules}, nil
}

// Tier returns the tier for a resource. Every resource resolves to exactly
// one tier; resources no rule claims fall through to backend.
func (c *Categorizer) Tier(res model.Resource) Tier {
	haystack := strings.ToLower(res.Name + " " + res.Metadata.Image)
	for _, rule := range c.rules {
		if rule.matches(res.Kind, haystack) {
			return rule.Tier
		}
	}
	return TierBackend
}

func (r Rule) matches(kind model.Kind, haystack string) bool {
	for _, k := range r.Kinds {
		if model.Kind(k) == kind {
			return true
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
