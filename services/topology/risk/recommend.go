// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package risk

import "fmt"

// aggregation describes how one category's risks roll up into a single
// recommendation. Categories without an entry intentionally produce none;
// their individual risks still carry per-resource advice.
type aggregation struct {
	title  string
	detail string // fmt template taking (risk count, resource count)
}

var aggregationTemplates = map[Category]aggregation{
	CategoryAvailability: {
		title:  "Improve availability",
		detail: "%d availability finding(s) across %d resource(s); add replicas so single failures are survivable",
	},
	CategoryReliability: {
		title:  "Improve reliability",
		detail: "%d reliability finding(s) across %d resource(s); add health checks so failures are detected",
	},
}

// recommendationOrder fixes the output order of aggregated categories.
var recommendationOrder = []Category{CategoryAvailability, CategoryReliability}

// Recommend groups risks by category and emits one recommendation per
// category that owns an aggregation template. The resource list is the union
// of the affected ids, deduplicated in first-seen order.
func Recommend(risks []Risk) []Recommendation {
	byCategory := make(map[Category][]Risk)
	for _, r := range risks {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	var recs []Recommendation
	for _, category := range recommendationOrder {
		grouped := byCategory[category]
		if len(grouped) == 0 {
			continue
		}
		template := aggregationTemplates[category]

		seen := make(map[string]bool)
		var ids []string
		for _, r := range grouped {
			for _, id := range r.Resources {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}

		recs = append(recs, Recommendation{
			Category:  category,
			Title:     template.title,
			Detail:    fmt.Sprintf(template.detail, len(grouped), len(ids)),
			Resources: ids,
		})
	}
	return recs
}
