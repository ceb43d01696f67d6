// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extract

import (
	"fmt"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// clusterWorkloadKinds are the manifest kinds that carry a pod template.
var clusterWorkloadKinds = map[model.Kind]bool{
	model.KindDeployment:  true,
	model.KindStatefulSet: true,
	model.KindDaemonSet:   true,
	model.KindJob:         true,
	model.KindCronJob:     true,
}

// Cluster extracts resources and dependencies from one decoded cluster
// manifest.
//
// # Description
//
// Dispatches on the manifest kind. Workload kinds aggregate ports, mounts,
// and environment across every pod container (primary plus init); Service
// manifests emit exactly one unresolved selector dependency carrying the full
// label-match map; Ingress manifests emit one routing dependency per path
// rule plus one secret dependency per TLS entry. Config, secret, and volume
// kinds are leaves. Unknown kinds become a generic resource with no
// dependencies rather than failing the run.
//
// # Limitations
//
// Namespace defaults to "default" for every kind, including cluster-scoped
// ones, so ids stay uniform and deterministic.
func Cluster(doc map[string]any, sourceFile string) ([]model.Resource, []model.Dependency, error) {
	kind := model.Kind(asString(doc["kind"]))
	meta := asMap(doc["metadata"])
	if meta == nil {
		return nil, nil, fmt.Errorf("manifest kind %s has no metadata map", kind)
	}
	name := asString(meta["name"])
	if name == "" {
		return nil, nil, fmt.Errorf("manifest kind %s has no metadata.name", kind)
	}
	namespace := asString(meta["namespace"])
	if namespace == "" {
		namespace = "default"
	}

	res := model.Resource{
		ID:         model.ResourceID(kind, namespace, name),
		Name:       name,
		Kind:       kind,
		Platform:   model.PlatformCluster,
		Namespace:  namespace,
		Labels:     asStringMap(meta["labels"]),
		SourceFile: sourceFile,
	}

	switch {
	case clusterWorkloadKinds[kind]:
		return clusterWorkload(res, doc)
	case kind == model.KindService:
		return clusterService(res, doc)
	case kind == model.KindIngress:
		return clusterIngress(res, doc)
	default:
		// Leaf kinds and unknown kinds alike carry no self-derived edges.
		return []model.Resource{res}, nil, nil
	}
}

func clusterWorkload(res model.Resource, doc map[string]any) ([]model.Resource, []model.Dependency, error) {
	spec := asMap(doc["spec"])
	podSpec := podSpecFor(res.Kind, spec)

	res.Metadata.Replicas = asInt(spec["replicas"], 1)

	var deps []model.Dependency
	containers := asSlice(podSpec["containers"])
	containers = append(containers, asSlice(podSpec["initContainers"])...)
	for _, item := range containers {
		container := asMap(item)
		if container == nil {
			continue
		}
		if res.Metadata.Image == "" {
			res.Metadata.Image = asString(container["image"])
		}
		if res.Metadata.Command == nil {
			res.Metadata.Command = asStringSlice(container["command"])
		}
		res.Metadata.Ports = append(res.Metadata.Ports, containerPorts(container["ports"])...)
		res.Metadata.Mounts = append(res.Metadata.Mounts, volumeMounts(container["volumeMounts"])...)

		env, envDeps := containerEnv(res.ID, res.Namespace, container)
		res.Metadata.Env = append(res.Metadata.Env, env...)
		deps = append(deps, envDeps...)

		if res.Metadata.Limits == nil {
			res.Metadata.Limits = containerLimits(container["resources"])
		}
		if res.Metadata.HealthCheck == nil {
			res.Metadata.HealthCheck = probe(container["livenessProbe"])
		}
	}

	deps = append(deps, podVolumeDeps(res.ID, res.Namespace, podSpec["volumes"])...)
	return []model.Resource{res}, deps, nil
}

// podSpecFor digs to the pod spec; CronJobs nest theirs one level deeper
// under jobTemplate.
func podSpecFor(kind model.Kind, spec map[string]any) map[string]any {
	if kind == model.KindCronJob {
		spec = asMap(asMap(spec["jobTemplate"])["spec"])
	}
	return asMap(asMap(spec["template"])["spec"])
}

func containerPorts(v any) []model.Port {
	var ports []model.Port
	for _, item := range asSlice(v) {
		m := asMap(item)
		if m == nil {
			continue
		}
		container := asInt(m["containerPort"], 0)
		if container == 0 {
			continue
		}
		ports = append(ports, model.Port{
			Host:      asInt(m["hostPort"], 0),
			Container: container,
			Protocol:  asString(m["protocol"]),
			Name:      asString(m["name"]),
		})
	}
	return ports
}

func volumeMounts(v any) []model.Mount {
	var mounts []model.Mount
	for _, item := range asSlice(v) {
		m := asMap(item)
		if m == nil {
			continue
		}
		mounts = append(mounts, model.Mount{
			Source:   asString(m["name"]),
			Target:   asString(m["mountPath"]),
			Type:     model.MountVolume,
			ReadOnly: m["readOnly"] == true,
		})
	}
	return mounts
}

// containerEnv collects environment entries and the config/secret
// dependencies they imply. Reference-valued entries keep an empty value; the
// inference stage still sees their names.
func containerEnv(sourceID, namespace string, container map[string]any) ([]model.EnvVar, []model.Dependency) {
	var env []model.EnvVar
	var deps []model.Dependency
	for _, item := range asSlice(container["env"]) {
		m := asMap(item)
		if m == nil {
			continue
		}
		name := asString(m["name"])
		if name == "" {
			continue
		}
		if valueFrom := asMap(m["valueFrom"]); valueFrom != nil {
			if ref := asMap(valueFrom["configMapKeyRef"]); ref != nil {
				if refName := asString(ref["name"]); refName != "" {
					target := model.TargetResource(model.ResourceID(model.KindConfigMap, namespace, refName))
					reason := fmt.Sprintf("env %s reads ConfigMap %s", name, refName)
					deps = append(deps, model.NewDependency(sourceID, target, model.DependencyConfig, reason))
				}
			}
			if ref := asMap(valueFrom["secretKeyRef"]); ref != nil {
				if refName := asString(ref["name"]); refName != "" {
					target := model.TargetResource(model.ResourceID(model.KindSecret, namespace, refName))
					reason := fmt.Sprintf("env %s reads Secret %s", name, refName)
					deps = append(deps, model.NewDependency(sourceID, target, model.DependencySecret, reason))
				}
			}
			env = append(env, model.EnvVar{Name: name})
			continue
		}
		env = append(env, model.EnvVar{Name: name, Value: scalarString(m["value"])})
	}

	for _, item := range asSlice(container["envFrom"]) {
		m := asMap(item)
		if m == nil {
			continue
		}
		if ref := asMap(m["configMapRef"]); ref != nil {
			if refName := asString(ref["name"]); refName != "" {
				target := model.TargetResource(model.ResourceID(model.KindConfigMap, namespace, refName))
				reason := fmt.Sprintf("envFrom ConfigMap %s", refName)
				deps = append(deps, model.NewDependency(sourceID, target, model.DependencyConfig, reason))
			}
		}
		if ref := asMap(m["secretRef"]); ref != nil {
			if refName := asString(ref["name"]); refName != "" {
				target := model.TargetResource(model.ResourceID(model.KindSecret, namespace, refName))
				reason := fmt.Sprintf("envFrom Secret %s", refName)
				deps = append(deps, model.NewDependency(sourceID, target, model.DependencySecret, reason))
			}
		}
	}
	return env, deps
}

func containerLimits(v any) *model.Limits {
	limits := asMap(asMap(v)["limits"])
	if limits == nil {
		return nil
	}
	return &model.Limits{
		CPU:    scalarString(limits["cpu"]),
		Memory: scalarString(limits["memory"]),
	}
}

func probe(v any) *model.HealthCheck {
	m := asMap(v)
	if m == nil {
		return nil
	}
	if exec := asMap(m["exec"]); exec != nil {
		return &model.HealthCheck{Type: "exec", Command: asStringSlice(exec["command"])}
	}
	if httpGet := asMap(m["httpGet"]); httpGet != nil {
		return &model.HealthCheck{Type: "http", Path: asString(httpGet["path"]), Port: asInt(httpGet["port"], 0)}
	}
	if tcp := asMap(m["tcpSocket"]); tcp != nil {
		return &model.HealthCheck{Type: "tcp", Port: asInt(tcp["port"], 0)}
	}
	return &model.HealthCheck{Type: "unknown"}
}

// podVolumeDeps emits the config/secret/claim dependencies declared at the
// pod volume level.
func podVolumeDeps(sourceID, namespace string, v any) []model.Dependency {
	var deps []model.Dependency
	for _, item := range asSlice(v) {
		m := asMap(item)
		if m == nil {
			continue
		}
		volName := asString(m["name"])
		if cm := asMap(m["configMap"]); cm != nil {
			if refName := asString(cm["name"]); refName != "" {
				target := model.TargetResource(model.ResourceID(model.KindConfigMap, namespace, refName))
				reason := fmt.Sprintf("volume %s mounts ConfigMap %s", volName, refName)
				deps = append(deps, model.NewDependency(sourceID, target, model.DependencyConfig, reason))
			}
		}
		if sec := asMap(m["secret"]); sec != nil {
			if refName := asString(sec["secretName"]); refName != "" {
				target := model.TargetResource(model.ResourceID(model.KindSecret, namespace, refName))
				reason := fmt.Sprintf("volume %s mounts Secret %s", volName, refName)
				deps = append(deps, model.NewDependency(sourceID, target, model.DependencySecret, reason))
			}
		}
		if pvc := asMap(m["persistentVolumeClaim"]); pvc != nil {
			if refName := asString(pvc["claimName"]); refName != "" {
				target := model.TargetResource(model.ResourceID(model.KindPersistentVolumeClaim, namespace, refName))
				reason := fmt.Sprintf("volume %s binds PersistentVolumeClaim %s", volName, refName)
				deps = append(deps, model.NewDependency(sourceID, target, model.DependencyStorage, reason))
			}
		}
	}
	return deps
}

func clusterService(res model.Resource, doc map[string]any) ([]model.Resource, []model.Dependency, error) {
	spec := asMap(doc["spec"])
	sel := asStringMap(spec["selector"])
	res.Metadata.Selector = sel
	for _, item := range asSlice(spec["ports"]) {
		m := asMap(item)
		if m == nil {
			continue
		}
		port := asInt(m["port"], 0)
		if port == 0 {
			continue
		}
		res.Metadata.Ports = append(res.Metadata.Ports, model.Port{
			Container: port,
			Protocol:  asString(m["protocol"]),
			Name:      asString(m["name"]),
		})
	}

	var deps []model.Dependency
	if len(sel) > 0 {
		deps = append(deps, model.NewDependency(res.ID, model.TargetSelector(sel), model.DependencySelector, "spec.selector"))
	}
	return []model.Resource{res}, deps, nil
}

func clusterIngress(res model.Resource, doc map[string]any) ([]model.Resource, []model.Dependency, error) {
	spec := asMap(doc["spec"])

	var deps []model.Dependency
	for _, ruleItem := range asSlice(spec["rules"]) {
		http := asMap(asMap(ruleItem)["http"])
		for _, pathItem := range asSlice(http["paths"]) {
			pathMap := asMap(pathItem)
			backend := asMap(pathMap["backend"])
			svcName := ""
			if svc := asMap(backend["service"]); svc != nil {
				svcName = asString(svc["name"])
			}
			if svcName == "" {
				// Legacy backend shape.
				svcName = asString(backend["serviceName"])
			}
			if svcName == "" {
				continue
			}
			path := asString(pathMap["path"])
			if path == "" {
				path = "/"
			}
			target := model.TargetResource(model.ResourceID(model.KindService, res.Namespace, svcName))
			reason := fmt.Sprintf("path %s routes to Service %s", path, svcName)
			deps = append(deps, model.NewDependency(res.ID, target, model.DependencyRouting, reason))
		}
	}

	for _, tlsItem := range asSlice(spec["tls"]) {
		secretName := asString(asMap(tlsItem)["secretName"])
		if secretName == "" {
			continue
		}
		target := model.TargetResource(model.ResourceID(model.KindSecret, res.Namespace, secretName))
		reason := fmt.Sprintf("tls secret %s", secretName)
		deps = append(deps, model.NewDependency(res.ID, target, model.DependencySecret, reason))
	}

	return []model.Resource{res}, deps, nil
}
