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
	"sort"
	"strconv"
	"strings"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

// Compose extracts resources and dependencies from one decoded compose-style
// document.
//
// # Description
//
// Every entry under `services` becomes a Container resource whose id is the
// bare service name; top-level networks, volumes, secrets, and configs become
// leaf resources so that memberships and mounts have concrete targets.
// Decoded maps carry no document order, so services and map-form fields are
// walked in sorted key order to keep output deterministic across runs.
//
// # Outputs
//
// Dependency families emitted: startup (depends_on), network (links and
// network membership), storage (named-volume mounts), secret and config
// (explicit references). All are explicit, high-confidence edges.
func Compose(doc map[string]any, sourceFile string) ([]model.Resource, []model.Dependency, error) {
	servicesVal, ok := doc["services"]
	if !ok || servicesVal == nil {
		return nil, nil, fmt.Errorf("compose document has no services block")
	}
	services := asMap(servicesVal)
	if services == nil {
		return nil, nil, fmt.Errorf("compose services block is not a map")
	}

	var resources []model.Resource
	var deps []model.Dependency
	for _, name := range sortedKeys(services) {
		body := services[name]
		bodyMap := asMap(body)
		if bodyMap == nil && body != nil {
			return nil, nil, fmt.Errorf("compose service %q is not a map", name)
		}
		res, serviceDeps := composeService(name, bodyMap, sourceFile)
		resources = append(resources, res)
		deps = append(deps, serviceDeps...)
	}

	for _, leaf := range []struct {
		key  string
		kind model.Kind
	}{
		{"networks", model.KindNetwork},
		{"volumes", model.KindVolume},
		{"secrets", model.KindSecret},
		{"configs", model.KindConfigMap},
	} {
		block := asMap(doc[leaf.key])
		for _, name := range sortedKeys(block) {
			resources = append(resources, model.Resource{
				ID:         model.ResourceID(leaf.kind, "", name),
				Name:       name,
				Kind:       leaf.kind,
				Platform:   model.PlatformCompose,
				SourceFile: sourceFile,
			})
		}
	}

	return resources, deps, nil
}

func composeService(name string, body map[string]any, sourceFile string) (model.Resource, []model.Dependency) {
	id := name
	meta := model.Metadata{
		Image:       asString(body["image"]),
		Replicas:    composeReplicas(body),
		Command:     asStringSlice(body["command"]),
		Env:         composeEnv(body["environment"]),
		Ports:       composePorts(body["ports"]),
		HealthCheck: composeHealthCheck(body["healthcheck"]),
		Limits:      composeLimits(body),
	}

	var deps []model.Dependency
	mounts, storageDeps := composeMounts(id, body["volumes"])
	meta.Mounts = mounts
	deps = append(deps, storageDeps...)
	deps = append(deps, composeStartup(id, body["depends_on"])...)
	deps = append(deps, composeLinks(id, body["links"])...)
	deps = append(deps, composeNetworks(id, body["networks"])...)
	deps = append(deps, composeRefs(id, body["secrets"], model.KindSecret, model.DependencySecret, "mounts secret %s")...)
	deps = append(deps, composeRefs(id, body["configs"], model.KindConfigMap, model.DependencyConfig, "mounts config %s")...)

	res := model.Resource{
		ID:         id,
		Name:       name,
		Kind:       model.KindContainer,
		Platform:   model.PlatformCompose,
		Labels:     composeLabels(body["labels"]),
		Metadata:   meta,
		SourceFile: sourceFile,
	}
	return res, deps
}

func composeReplicas(body map[string]any) int {
	deploy := asMap(body["deploy"])
	return asInt(deploy["replicas"], 1)
}

func composeLimits(body map[string]any) *model.Limits {
	limits := asMap(asMap(asMap(body["deploy"])["resources"])["limits"])
	if limits == nil {
		return nil
	}
	return &model.Limits{
		CPU:    scalarString(limits["cpus"]),
		Memory: scalarString(limits["memory"]),
	}
}

// composeEnv accepts both the KEY=VALUE array form and the map form. Map
// entries are emitted name-sorted; a nil map value means the variable is
// passed through from the host and keeps an empty value.
func composeEnv(v any) []model.EnvVar {
	if items := asSlice(v); items != nil {
		env := make([]model.EnvVar, 0, len(items))
		for _, item := range items {
			entry := scalarString(item)
			name, value, _ := strings.Cut(entry, "=")
			env = append(env, model.EnvVar{Name: name, Value: value})
		}
		return env
	}
	m := asMap(v)
	if m == nil {
		return nil
	}
	env := make([]model.EnvVar, 0, len(m))
	for _, name := range sortedKeys(m) {
		env = append(env, model.EnvVar{Name: name, Value: scalarString(m[name])})
	}
	return env
}

// composeLabels accepts both the map form and the key=value array form.
func composeLabels(v any) map[string]string {
	if m := asStringMap(v); m != nil {
		return m
	}
	items := asSlice(v)
	if items == nil {
		return nil
	}
	labels := make(map[string]string, len(items))
	for _, item := range items {
		name, value, _ := strings.Cut(scalarString(item), "=")
		labels[name] = value
	}
	return labels
}

func composePorts(v any) []model.Port {
	items := asSlice(v)
	var ports []model.Port
	for _, item := range items {
		if m := asMap(item); m != nil {
			ports = append(ports, model.Port{
				Host:      asInt(m["published"], 0),
				Container: asInt(m["target"], 0),
				Protocol:  asString(m["protocol"]),
			})
			continue
		}
		if port, ok := parsePortShort(scalarString(item)); ok {
			ports = append(ports, port)
		}
	}
	return ports
}

// parsePortShort handles "80", "8080:80", "8080:80/udp" and
// "127.0.0.1:8080:80". Ranges and anything non-numeric are skipped rather
// than failing the document.
func parsePortShort(s string) (model.Port, bool) {
	proto := ""
	if i := strings.IndexByte(s, '/'); i >= 0 {
		proto = s[i+1:]
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	var hostStr, containerStr string
	switch len(parts) {
	case 1:
		containerStr = parts[0]
	case 2:
		hostStr, containerStr = parts[0], parts[1]
	case 3:
		hostStr, containerStr = parts[1], parts[2]
	default:
		return model.Port{}, false
	}
	container, err := strconv.Atoi(containerStr)
	if err != nil {
		return model.Port{}, false
	}
	port := model.Port{Container: container, Protocol: proto}
	if hostStr != "" {
		if host, err := strconv.Atoi(hostStr); err == nil {
			port.Host = host
		}
	}
	return port, true
}

// composeMounts parses both string and object volume entries, classifying
// each as a bind when the source looks like a path and a named volume
// otherwise. Named mounts also emit a storage dependency on the volume leaf.
func composeMounts(sourceID string, v any) ([]model.Mount, []model.Dependency) {
	items := asSlice(v)
	var mounts []model.Mount
	var deps []model.Dependency
	for _, item := range items {
		var mount model.Mount
		if m := asMap(item); m != nil {
			mount = model.Mount{
				Source:   asString(m["source"]),
				Target:   asString(m["target"]),
				ReadOnly: m["read_only"] == true,
			}
			if asString(m["type"]) == "bind" || isPath(mount.Source) {
				mount.Type = model.MountBind
			} else {
				mount.Type = model.MountVolume
			}
		} else {
			parsed, ok := parseVolumeShort(scalarString(item))
			if !ok {
				continue
			}
			mount = parsed
		}
		mounts = append(mounts, mount)
		if mount.Type == model.MountVolume && mount.Source != "" {
			target := model.TargetResource(model.ResourceID(model.KindVolume, "", mount.Source))
			reason := fmt.Sprintf("mounts volume %s", mount.Source)
			deps = append(deps, model.NewDependency(sourceID, target, model.DependencyStorage, reason))
		}
	}
	return mounts, deps
}

// parseVolumeShort handles "name:/path", "./src:/app:ro" and the anonymous
// "/path" form.
func parseVolumeShort(s string) (model.Mount, bool) {
	if s == "" {
		return model.Mount{}, false
	}
	parts := strings.Split(s, ":")
	mount := model.Mount{}
	switch len(parts) {
	case 1:
		mount.Target = parts[0]
		mount.Type = model.MountVolume
		return mount, true
	case 2:
		mount.Source, mount.Target = parts[0], parts[1]
	case 3:
		mount.Source, mount.Target = parts[0], parts[1]
		mount.ReadOnly = strings.Contains(parts[2], "ro")
	default:
		return model.Mount{}, false
	}
	if isPath(mount.Source) {
		mount.Type = model.MountBind
	} else {
		mount.Type = model.MountVolume
	}
	return mount, true
}

func isPath(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "~")
}

// composeStartup reads depends_on in both the list form and the
// condition-map form.
func composeStartup(sourceID string, v any) []model.Dependency {
	var targets []string
	if m := asMap(v); m != nil {
		targets = sortedKeys(m)
	} else {
		targets = asStringSlice(v)
	}
	deps := make([]model.Dependency, 0, len(targets))
	for _, target := range targets {
		reason := fmt.Sprintf("depends_on declares %s", target)
		deps = append(deps, model.NewDependency(sourceID, model.TargetResource(target), model.DependencyStartup, reason))
	}
	return deps
}

// composeLinks strips the optional ":alias" suffix before resolving the
// target service.
func composeLinks(sourceID string, v any) []model.Dependency {
	links := asStringSlice(v)
	deps := make([]model.Dependency, 0, len(links))
	for _, link := range links {
		target, _, _ := strings.Cut(link, ":")
		if target == "" {
			continue
		}
		reason := fmt.Sprintf("links references %s", target)
		deps = append(deps, model.NewDependency(sourceID, model.TargetResource(target), model.DependencyNetwork, reason))
	}
	return deps
}

func composeNetworks(sourceID string, v any) []model.Dependency {
	var names []string
	if m := asMap(v); m != nil {
		names = sortedKeys(m)
	} else {
		names = asStringSlice(v)
	}
	deps := make([]model.Dependency, 0, len(names))
	for _, name := range names {
		target := model.TargetResource(model.ResourceID(model.KindNetwork, "", name))
		reason := fmt.Sprintf("attached to network %s", name)
		deps = append(deps, model.NewDependency(sourceID, target, model.DependencyNetwork, reason))
	}
	return deps
}

// composeRefs handles the secrets and configs lists, whose entries are either
// bare names or objects with a source field.
func composeRefs(sourceID string, v any, kind model.Kind, depType model.DependencyType, reasonFmt string) []model.Dependency {
	items := asSlice(v)
	var deps []model.Dependency
	for _, item := range items {
		name := ""
		if m := asMap(item); m != nil {
			name = asString(m["source"])
		} else {
			name = scalarString(item)
		}
		if name == "" {
			continue
		}
		target := model.TargetResource(model.ResourceID(kind, "", name))
		deps = append(deps, model.NewDependency(sourceID, target, depType, fmt.Sprintf(reasonFmt, name)))
	}
	return deps
}

func composeHealthCheck(v any) *model.HealthCheck {
	m := asMap(v)
	if m == nil {
		return nil
	}
	if disabled, ok := m["disable"].(bool); ok && disabled {
		return nil
	}
	return &model.HealthCheck{Type: "exec", Command: asStringSlice(m["test"])}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
