// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package categorize

import (
	"testing"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

func newCategorizer(t *testing.T) *Categorizer {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestTierAssignment(t *testing.T) {
	c := newCategorizer(t)

	tests := []struct {
		name     string
		resource model.Resource
		want     Tier
	}{
		{
			name:     "frontend by name",
			resource: model.Resource{Name: "frontend", Kind: model.KindContainer},
			want:     TierFrontend,
		},
		{
			name:     "frontend by image",
			resource: model.Resource{Name: "proxy", Kind: model.KindContainer, Metadata: model.Metadata{Image: "nginx:1.25"}},
			want:     TierFrontend,
		},
		{
			name:     "data by engine name",
			resource: model.Resource{Name: "postgres", Kind: model.KindContainer},
			want:     TierData,
		},
		{
			name:     "data by generic db",
			resource: model.Resource{Name: "orders-db", Kind: model.KindDeployment},
			want:     TierData,
		},
		{
			name:     "infra by kind",
			resource: model.Resource{Name: "api-svc", Kind: model.KindService},
			want:     TierInfra,
		},
		{
			name:     "infra by broker keyword",
			resource: model.Resource{Name: "kafka", Kind: model.KindStatefulSet},
			want:     TierInfra,
		},
		{
			name:     "default backend",
			resource: model.Resource{Name: "api", Kind: model.KindContainer, Metadata: model.Metadata{Image: "corp/api:2.1"}},
			want:     TierBackend,
		},
		{
			name:     "configmap is infra",
			resource: model.Resource{Name: "app-settings", Kind: model.KindConfigMap},
			want:     TierInfra,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Tier(tt.resource); got != tt.want {
				t.Errorf("Tier(%s) = %q, want %q", tt.resource.Name, got, tt.want)
			}
		})
	}
}

// Frontend keywords outrank data keywords, and data keywords outrank the kind
// rule, regardless of table file order.
func TestTierPriority(t *testing.T) {
	c := newCategorizer(t)

	webdb := model.Resource{Name: "webdb", Kind: model.KindContainer}
	if got := c.Tier(webdb); got != TierFrontend {
		t.Errorf("Tier(webdb) = %q, want frontend", got)
	}

	dbService := model.Resource{Name: "postgres-svc", Kind: model.KindService}
	if got := c.Tier(dbService); got != TierData {
		t.Errorf("Tier(postgres-svc) = %q, want data", got)
	}
}

// Every kind with a neutral name resolves to a defined tier.
func TestTierTotality(t *testing.T) {
	c := newCategorizer(t)

	kinds := []model.Kind{
		model.KindContainer, model.KindDeployment, model.KindStatefulSet,
		model.KindDaemonSet, model.KindJob, model.KindCronJob,
		model.KindService, model.KindIngress, model.KindConfigMap,
		model.KindSecret, model.KindPersistentVolume, model.KindPersistentVolumeClaim,
		model.KindNetwork, model.KindVolume, model.Kind("SomeCustomKind"),
	}
	valid := map[Tier]bool{TierFrontend: true, TierBackend: true, TierData: true, TierInfra: true}
	for _, k := range kinds {
		got := c.Tier(model.Resource{Name: "thing", Kind: k})
		if !valid[got] {
			t.Errorf("Tier(kind=%s) returned undefined tier %q", k, got)
		}
	}
}
