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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTargetResolved verifies the two target variants report resolution
// correctly.
func TestTargetResolved(t *testing.T) {
	assert.True(t, TargetResource("api").Resolved())
	assert.False(t, TargetSelector(map[string]string{"app": "api"}).Resolved())
	assert.False(t, Target{}.Resolved())
}

// TestTargetSelectorClones verifies mutating the caller's map after
// construction does not change the target.
func TestTargetSelectorClones(t *testing.T) {
	labels := map[string]string{"app": "api"}
	target := TargetSelector(labels)
	labels["app"] = "changed"

	assert.Equal(t, "api", target.Selector["app"])
}

// TestTargetStringSortsSelectorKeys verifies the selector rendering is
// key-sorted regardless of map iteration order.
func TestTargetStringSortsSelectorKeys(t *testing.T) {
	target := TargetSelector(map[string]string{"tier": "web", "app": "api", "env": "prod"})
	assert.Equal(t, "selector:app=api,env=prod,tier=web", target.String())
}

// TestDependencyIDDeterministic verifies identical identity tuples always
// derive the same id and differing tuples do not.
func TestDependencyIDDeterministic(t *testing.T) {
	a := DependencyID("api", TargetResource("db"), DependencyStartup, "depends_on declares db")
	b := DependencyID("api", TargetResource("db"), DependencyStartup, "depends_on declares db")
	c := DependencyID("api", TargetResource("db"), DependencyNetwork, "depends_on declares db")

	require.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

// TestDependencyIDSelectorStable verifies selector targets hash the same no
// matter how the label map was built.
func TestDependencyIDSelectorStable(t *testing.T) {
	first := map[string]string{"app": "api", "tier": "web"}
	second := map[string]string{"tier": "web", "app": "api"}

	a := DependencyID("service/default/api", TargetSelector(first), DependencySelector, "spec.selector")
	b := DependencyID("service/default/api", TargetSelector(second), DependencySelector, "spec.selector")
	assert.Equal(t, a, b)
}

func TestNewDependencyDefaults(t *testing.T) {
	dep := NewDependency("frontend", TargetResource("api"), DependencyStartup, "depends_on declares api")

	assert.False(t, dep.IsInferred)
	assert.Equal(t, ConfidenceHigh, dep.Confidence)
	assert.Equal(t, DependencyStartup, dep.Type)
	assert.Equal(t, "frontend", dep.Source)
	assert.Equal(t, "api", dep.Target.ResourceID)
	assert.NotEmpty(t, dep.ID)
}

func TestNewInferredDependencyDefaults(t *testing.T) {
	dep := NewInferredDependency("api", "db", "environment variable DATABASE_URL references postgres")

	assert.True(t, dep.IsInferred)
	assert.Equal(t, ConfidenceMedium, dep.Confidence)
	assert.Equal(t, DependencyRuntime, dep.Type)
	assert.True(t, dep.Target.Resolved())
}
