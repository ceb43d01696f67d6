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

import (
	"fmt"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// replicaRuleKinds can meaningfully scale horizontally. DaemonSets run one
// pod per node and batch kinds run to completion, so a replica count of 1 is
// not a finding for them.
var replicaRuleKinds = map[model.Kind]bool{
	model.KindContainer:   true,
	model.KindDeployment:  true,
	model.KindStatefulSet: true,
}

// healthRuleKinds are the long-running kinds expected to carry a health
// check.
var healthRuleKinds = map[model.Kind]bool{
	model.KindContainer:   true,
	model.KindDeployment:  true,
	model.KindStatefulSet: true,
	model.KindDaemonSet:   true,
}

// limitsRuleKinds are the cluster kinds whose pod spec can declare resource
// limits.
var limitsRuleKinds = map[model.Kind]bool{
	model.KindDeployment:  true,
	model.KindStatefulSet: true,
	model.KindDaemonSet:   true,
	model.KindJob:         true,
	model.KindCronJob:     true,
}

// orphanRuleKinds are reference-only kinds that should always have at least
// one consumer.
var orphanRuleKinds = map[model.Kind]bool{
	model.KindConfigMap:             true,
	model.KindSecret:                true,
	model.KindPersistentVolumeClaim: true,
}

// Detect evaluates the rule set over the full resource list. Rules are
// stateless and order-independent; findings come out in resource order with a
// fixed per-resource rule order, so identical input yields an identical risk
// list.
func Detect(resources []model.Resource, deps []model.Dependency) []Risk {
	referenced := make(map[string]bool)
	for _, dep := range deps {
		if dep.Target.Resolved() {
			referenced[dep.Target.ResourceID] = true
		}
	}

	var risks []Risk
	for _, res := range resources {
		if replicaRuleKinds[res.Kind] && res.Metadata.Replicas == 1 {
			risks = append(risks, Risk{
				Severity:       SeverityMedium,
				Category:       CategoryAvailability,
				Title:          "Single replica",
				Description:    fmt.Sprintf("%s %s runs a single replica", res.Kind, res.Name),
				Resources:      []string{res.ID},
				Recommendation: "Run at least 2 replicas so one failure does not take the service down",
			})
		}
		if healthRuleKinds[res.Kind] && res.Metadata.HealthCheck == nil {
			risks = append(risks, Risk{
				Severity:       SeverityMedium,
				Category:       CategoryReliability,
				Title:          "No health check",
				Description:    fmt.Sprintf("%s %s declares no health check", res.Kind, res.Name),
				Resources:      []string{res.ID},
				Recommendation: "Add a liveness probe or healthcheck so failures are detected and restarted",
			})
		}
		if res.Platform == model.PlatformCluster && limitsRuleKinds[res.Kind] && res.Metadata.Limits == nil {
			risks = append(risks, Risk{
				Severity:       SeverityMedium,
				Category:       CategoryResourceManagement,
				Title:          "No resource limits",
				Description:    fmt.Sprintf("%s %s declares no resource limits", res.Kind, res.Name),
				Resources:      []string{res.ID},
				Recommendation: "Set CPU and memory limits to protect co-located workloads",
			})
		}
		if orphanRuleKinds[res.Kind] && !referenced[res.ID] {
			risks = append(risks, Risk{
				Severity:       SeverityLow,
				Category:       CategoryCleanup,
				Title:          "Unreferenced resource",
				Description:    fmt.Sprintf("%s %s is referenced by nothing in the batch", res.Kind, res.Name),
				Resources:      []string{res.ID},
				Recommendation: "Delete it or wire it to a consumer",
			})
		}
	}
	return risks
}
