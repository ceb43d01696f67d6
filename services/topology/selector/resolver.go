// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package selector rewrites pending label-selector dependencies into concrete
// edges. It runs exactly once per analysis, after all extraction, because
// selectors routinely match workloads declared in other files.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// Resolve expands every pending selector dependency against the full resource
// list and returns a new dependency list. Each label-superset match produces a
// fresh concrete edge; a selector that matches nothing is dropped silently
// rather than reported, since selectors pointing at not-yet-deployed workloads
// are routine. Non-selector dependencies pass through unchanged.
//
// Resolve never mutates its inputs. The one-to-many fan-out means the result
// may be shorter or longer than the input.
func Resolve(resources []model.Resource, deps []model.Dependency) []model.Dependency {
	out := make([]model.Dependency, 0, len(deps))
	for _, dep := range deps {
		if dep.Type != model.DependencySelector || dep.Target.Resolved() {
			out = append(out, dep)
			continue
		}
		sel := dep.Target.Selector
		if len(sel) == 0 {
			continue
		}
		for _, res := range resources {
			if !matches(res.Labels, sel) {
				continue
			}
			reason := fmt.Sprintf("selector %s matches labels", labelText(sel))
			out = append(out, model.NewDependency(dep.Source, model.TargetResource(res.ID), model.DependencySelector, reason))
		}
	}
	return out
}

// matches reports whether labels is a superset of the selector: every
// selector key present with an equal value. A resource with no labels never
// matches.
func matches(labels, sel map[string]string) bool {
	if len(labels) == 0 {
		return false
	}
	for k, v := range sel {
		if labels[k] != v {
			return false
		}
	}
	return true
}

func labelText(sel map[string]string) string {
	pairs := make([]string, 0, len(sel))
	for k, v := range sel {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
