// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package model defines the normalized resource and dependency entities shared
// by every stage of the topology pipeline. Extractors produce these values,
// the resolver and inferencer add to them, and the graph builder projects them
// into output form. Values are created once per analysis run and treated as
// immutable afterwards.
package model

import "strings"

// Platform identifies the configuration dialect a resource was extracted from.
type Platform string

const (
	PlatformCompose Platform = "compose"
	PlatformCluster Platform = "cluster"
)

// Kind is the normalized resource kind.
//
// The set below is closed for known kinds, but Kind is a plain string so that
// unrecognized cluster manifest kinds can pass through as generic resources
// without failing a run.
type Kind string

const (
	KindContainer             Kind = "Container"
	KindDeployment            Kind = "Deployment"
	KindStatefulSet           Kind = "StatefulSet"
	KindDaemonSet             Kind = "DaemonSet"
	KindJob                   Kind = "Job"
	KindCronJob               Kind = "CronJob"
	KindService               Kind = "Service"
	KindIngress               Kind = "Ingress"
	KindConfigMap             Kind = "ConfigMap"
	KindSecret                Kind = "Secret"
	KindPersistentVolume      Kind = "PersistentVolume"
	KindPersistentVolumeClaim Kind = "PersistentVolumeClaim"
	KindNetwork               Kind = "Network"
	KindVolume                Kind = "Volume"
)

// IsCompute reports whether the kind runs code, as opposed to configuration,
// storage, or routing objects. The container diagram view renders compute
// kinds only.
func (k Kind) IsCompute() bool {
	switch k {
	case KindContainer, KindDeployment, KindStatefulSet, KindDaemonSet, KindJob, KindCronJob:
		return true
	default:
		return false
	}
}

// Resource is the platform-agnostic representation of one infrastructure
// object.
//
// # Description
//
// A Resource is produced exactly once per declared object per run. Its ID is
// deterministic so that references extracted from different documents in the
// same batch join up: cluster resources use kind/namespace/name, compose
// services use the bare service name, and compose-level networks, volumes,
// secrets, and configs use kind/name.
//
// # Thread Safety
//
// Resources are never mutated after extraction; they may be read concurrently.
type Resource struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Kind       Kind              `json:"kind"`
	Platform   Platform          `json:"platform"`
	Namespace  string            `json:"namespace,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	Metadata   Metadata          `json:"metadata"`
	SourceFile string            `json:"source_file"`
	Raw        string            `json:"raw,omitempty"`
}

// Metadata carries the per-kind details the analysis stages consume. Fields
// that do not apply to a kind stay zero.
type Metadata struct {
	Image       string            `json:"image,omitempty"`
	Replicas    int               `json:"replicas,omitempty"`
	Ports       []Port            `json:"ports,omitempty"`
	Mounts      []Mount           `json:"mounts,omitempty"`
	Env         []EnvVar          `json:"env,omitempty"`
	Selector    map[string]string `json:"selector,omitempty"`
	Command     []string          `json:"command,omitempty"`
	Limits      *Limits           `json:"limits,omitempty"`
	HealthCheck *HealthCheck      `json:"health_check,omitempty"`
}

// Port is one exposed port. Host is zero when only the container side is
// declared.
type Port struct {
	Host      int    `json:"host,omitempty"`
	Container int    `json:"container"`
	Protocol  string `json:"protocol,omitempty"`
	Name      string `json:"name,omitempty"`
}

// MountType distinguishes named volumes from host path binds.
type MountType string

const (
	MountVolume MountType = "volume"
	MountBind   MountType = "bind"
)

// Mount is one volume mount on a compute resource.
type Mount struct {
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Type     MountType `json:"type"`
	ReadOnly bool      `json:"read_only,omitempty"`
}

// EnvVar is one environment entry. Value is empty for entries populated at
// runtime from config or secret references.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Limits is the declared resource ceiling for a workload. A nil *Limits on
// Metadata means no limits were declared at all.
type Limits struct {
	CPU    string `json:"cpu,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// HealthCheck describes a liveness probe in dialect-neutral form. Only its
// presence matters to risk detection; the fields are informational.
type HealthCheck struct {
	Type    string   `json:"type"`
	Command []string `json:"command,omitempty"`
	Path    string   `json:"path,omitempty"`
	Port    int      `json:"port,omitempty"`
}

// ResourceID builds the deterministic identifier for a kind-scoped resource.
// Namespace may be empty for compose-level objects.
func ResourceID(kind Kind, namespace, name string) string {
	k := strings.ToLower(string(kind))
	if namespace == "" {
		return k + "/" + name
	}
	return k + "/" + namespace + "/" + name
}
