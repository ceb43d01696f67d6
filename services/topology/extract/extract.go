// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extract turns decoded configuration documents into normalized
// resources and raw dependencies. One extractor exists per supported dialect:
// compose-style files and cluster manifests.
//
// # Failure semantics
//
// Missing optional fields never fail extraction; every accessor below
// degrades to a zero value. Only structurally broken documents (a services
// block that is not a map, a manifest without a name) return an error, and
// the orchestrator records that error against the document's source file
// without aborting the rest of the batch.
package extract

import (
	"fmt"
	"strconv"
)

// asMap returns v as a string-keyed map, or nil when it is anything else.
// yaml.v3 decodes mappings with string keys to map[string]any already;
// map[any]any shows up for documents decoded by older layers, so both are
// accepted.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[scalarString(k)] = val
		}
		return out
	default:
		return nil
	}
}

// asSlice returns v as a slice, or nil.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asString returns v when it is a string, else "".
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// scalarString renders any YAML scalar as a string. Non-scalars and nil
// render as "".
func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asInt coerces v to an int, accepting the numeric types yaml.v3 produces
// plus digit strings. def is returned for anything else.
func asInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

// asStringMap flattens a YAML mapping into string keys and scalar-rendered
// string values. Used for labels and selectors.
func asStringMap(v any) map[string]string {
	m := asMap(v)
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = scalarString(val)
	}
	return out
}

// asStringSlice renders a YAML sequence of scalars as strings. A single
// scalar becomes a one-element slice, matching the dialects' "string or
// list" fields.
func asStringSlice(v any) []string {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return []string{s}
	}
	items := asSlice(v)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, scalarString(item))
	}
	return out
}
