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
	"net/url"
	"regexp"
	"strings"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// urlShape is a cheap pre-filter; url.Parse does the real work.
var urlShape = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// externalEndpoints collects URL-valued environment entries whose host does
// not resolve to any extracted resource. A host matches a resource either
// exactly or by its first DNS label, so service.namespace.svc.cluster.local
// style names still count as internal. Results keep first-seen order with
// duplicates removed.
func externalEndpoints(resources []model.Resource) []string {
	known := make(map[string]bool, len(resources))
	for _, res := range resources {
		known[strings.ToLower(res.Name)] = true
	}

	seen := make(map[string]bool)
	var endpoints []string
	for _, res := range resources {
		for _, env := range res.Metadata.Env {
			value := strings.TrimSpace(env.Value)
			if !urlShape.MatchString(value) {
				continue
			}
			parsed, err := url.Parse(value)
			if err != nil || parsed.Hostname() == "" {
				continue
			}
			host := strings.ToLower(parsed.Hostname())
			if known[host] {
				continue
			}
			if short, _, ok := strings.Cut(host, "."); ok && known[short] {
				continue
			}
			if seen[value] {
				continue
			}
			seen[value] = true
			endpoints = append(endpoints, value)
		}
	}
	return endpoints
}
