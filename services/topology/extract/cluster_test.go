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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Fathom/services/topology/model"
)

const deploymentFixture = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: api
  namespace: prod
  labels:
    app: api
    tier: backend
spec:
  replicas: 2
  template:
    spec:
      containers:
        - name: api
          image: corp/api:2.0
          command: ["/bin/api"]
          ports:
            - containerPort: 8080
              name: http
              protocol: TCP
          env:
            - name: DATABASE_URL
              value: postgres://db:5432/app
            - name: API_KEY
              valueFrom:
                secretKeyRef:
                  name: api-secrets
                  key: api-key
            - name: LOG_LEVEL
              valueFrom:
                configMapKeyRef:
                  name: api-config
                  key: log-level
          envFrom:
            - configMapRef:
                name: shared-config
          volumeMounts:
            - name: data
              mountPath: /var/data
              readOnly: true
          resources:
            limits:
              cpu: 500m
              memory: 256Mi
          livenessProbe:
            httpGet:
              path: /healthz
              port: 8080
      initContainers:
        - name: migrate
          image: corp/migrate:2.0
          env:
            - name: MIGRATE_ON_BOOT
              value: "1"
      volumes:
        - name: data
          persistentVolumeClaim:
            claimName: api-data
        - name: cfg
          configMap:
            name: api-config
        - name: creds
          secret:
            secretName: api-secrets
`

func TestClusterDeployment(t *testing.T) {
	resources, deps, err := Cluster(decode(t, deploymentFixture), "manifests.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)

	res := resources[0]
	assert.Equal(t, "deployment/prod/api", res.ID)
	assert.Equal(t, model.KindDeployment, res.Kind)
	assert.Equal(t, model.PlatformCluster, res.Platform)
	assert.Equal(t, "prod", res.Namespace)
	assert.Equal(t, map[string]string{"app": "api", "tier": "backend"}, res.Labels)
	assert.Equal(t, 2, res.Metadata.Replicas)
	assert.Equal(t, "corp/api:2.0", res.Metadata.Image)
	assert.Equal(t, []string{"/bin/api"}, res.Metadata.Command)
	assert.Equal(t, "manifests.yaml", res.SourceFile)

	require.Len(t, res.Metadata.Ports, 1)
	assert.Equal(t, model.Port{Container: 8080, Protocol: "TCP", Name: "http"}, res.Metadata.Ports[0])

	require.Len(t, res.Metadata.Mounts, 1)
	assert.Equal(t, model.Mount{Source: "data", Target: "/var/data", Type: model.MountVolume, ReadOnly: true}, res.Metadata.Mounts[0])

	require.NotNil(t, res.Metadata.Limits)
	assert.Equal(t, "500m", res.Metadata.Limits.CPU)
	assert.Equal(t, "256Mi", res.Metadata.Limits.Memory)

	require.NotNil(t, res.Metadata.HealthCheck)
	assert.Equal(t, "http", res.Metadata.HealthCheck.Type)
	assert.Equal(t, "/healthz", res.Metadata.HealthCheck.Path)
	assert.Equal(t, 8080, res.Metadata.HealthCheck.Port)

	// Environment aggregates across primary and init containers;
	// reference-valued entries keep their names with empty values.
	names := make([]string, 0, len(res.Metadata.Env))
	for _, e := range res.Metadata.Env {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"DATABASE_URL", "API_KEY", "LOG_LEVEL", "MIGRATE_ON_BOOT"}, names)
	assert.Equal(t, "postgres://db:5432/app", res.Metadata.Env[0].Value)
	assert.Equal(t, "", res.Metadata.Env[1].Value)

	wantDeps := []struct {
		depType model.DependencyType
		target  string
		reason  string
	}{
		{model.DependencySecret, "secret/prod/api-secrets", "env API_KEY reads Secret api-secrets"},
		{model.DependencyConfig, "configmap/prod/api-config", "env LOG_LEVEL reads ConfigMap api-config"},
		{model.DependencyConfig, "configmap/prod/shared-config", "envFrom ConfigMap shared-config"},
		{model.DependencyStorage, "persistentvolumeclaim/prod/api-data", "volume data binds PersistentVolumeClaim api-data"},
		{model.DependencyConfig, "configmap/prod/api-config", "volume cfg mounts ConfigMap api-config"},
		{model.DependencySecret, "secret/prod/api-secrets", "volume creds mounts Secret api-secrets"},
	}
	require.Len(t, deps, len(wantDeps))
	for i, want := range wantDeps {
		assert.Equal(t, "deployment/prod/api", deps[i].Source, "dep %d", i)
		assert.Equal(t, want.depType, deps[i].Type, "dep %d", i)
		assert.Equal(t, want.target, deps[i].Target.ResourceID, "dep %d", i)
		assert.Equal(t, want.reason, deps[i].Reason, "dep %d", i)
		assert.False(t, deps[i].IsInferred, "dep %d", i)
	}
}

func TestClusterWorkloadDefaults(t *testing.T) {
	doc := decode(t, `
apiVersion: apps/v1
kind: StatefulSet
metadata:
  name: db
spec:
  template:
    spec:
      containers:
        - name: db
          image: postgres:16
`)
	resources, deps, err := Cluster(doc, "db.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)

	res := resources[0]
	assert.Equal(t, "statefulset/default/db", res.ID)
	assert.Equal(t, "default", res.Namespace)
	assert.Equal(t, 1, res.Metadata.Replicas)
	assert.Nil(t, res.Metadata.Limits)
	assert.Nil(t, res.Metadata.HealthCheck)
	assert.Empty(t, deps)
}

func TestClusterCronJobPodSpecNesting(t *testing.T) {
	doc := decode(t, `
apiVersion: batch/v1
kind: CronJob
metadata:
  name: backup
spec:
  schedule: "0 3 * * *"
  jobTemplate:
    spec:
      template:
        spec:
          containers:
            - name: backup
              image: corp/backup:1.0
              env:
                - name: TARGET
                  value: s3://backups
`)
	resources, _, err := Cluster(doc, "cron.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "corp/backup:1.0", resources[0].Metadata.Image)
	require.Len(t, resources[0].Metadata.Env, 1)
	assert.Equal(t, "TARGET", resources[0].Metadata.Env[0].Name)
}

func TestClusterServiceSelector(t *testing.T) {
	doc := decode(t, `
apiVersion: v1
kind: Service
metadata:
  name: api-svc
  namespace: prod
spec:
  selector:
    app: api
  ports:
    - port: 80
      name: http
`)
	resources, deps, err := Cluster(doc, "svc.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)

	res := resources[0]
	assert.Equal(t, "service/prod/api-svc", res.ID)
	assert.Equal(t, map[string]string{"app": "api"}, res.Metadata.Selector)
	require.Len(t, res.Metadata.Ports, 1)
	assert.Equal(t, model.Port{Container: 80, Name: "http"}, res.Metadata.Ports[0])

	// Exactly one unresolved selector dependency carrying the full map.
	require.Len(t, deps, 1)
	dep := deps[0]
	assert.Equal(t, model.DependencySelector, dep.Type)
	assert.False(t, dep.Target.Resolved())
	assert.Equal(t, map[string]string{"app": "api"}, dep.Target.Selector)
	assert.Equal(t, "spec.selector", dep.Reason)
}

func TestClusterServiceWithoutSelector(t *testing.T) {
	doc := decode(t, `
apiVersion: v1
kind: Service
metadata:
  name: external-svc
spec:
  type: ExternalName
  externalName: db.example.com
`)
	_, deps, err := Cluster(doc, "svc.yaml")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestClusterIngress(t *testing.T) {
	doc := decode(t, `
apiVersion: networking.k8s.io/v1
kind: Ingress
metadata:
  name: edge
  namespace: prod
spec:
  tls:
    - hosts: [example.com]
      secretName: edge-tls
  rules:
    - host: example.com
      http:
        paths:
          - path: /api
            backend:
              service:
                name: api-svc
          - path: /legacy
            backend:
              serviceName: legacy-svc
`)
	resources, deps, err := Cluster(doc, "ingress.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "ingress/prod/edge", resources[0].ID)

	routing := depsOfType(deps, model.DependencyRouting)
	require.Len(t, routing, 2)
	assert.Equal(t, "service/prod/api-svc", routing[0].Target.ResourceID)
	assert.Equal(t, "path /api routes to Service api-svc", routing[0].Reason)
	// Legacy backend shape resolves the same way.
	assert.Equal(t, "service/prod/legacy-svc", routing[1].Target.ResourceID)

	secrets := depsOfType(deps, model.DependencySecret)
	require.Len(t, secrets, 1)
	assert.Equal(t, "secret/prod/edge-tls", secrets[0].Target.ResourceID)
	assert.Equal(t, "tls secret edge-tls", secrets[0].Reason)
}

func TestClusterLeafKinds(t *testing.T) {
	tests := []struct {
		kind   string
		wantID string
	}{
		{"ConfigMap", "configmap/default/thing"},
		{"Secret", "secret/default/thing"},
		{"PersistentVolumeClaim", "persistentvolumeclaim/default/thing"},
		{"PersistentVolume", "persistentvolume/default/thing"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			doc := decode(t, "apiVersion: v1\nkind: "+tt.kind+"\nmetadata:\n  name: thing\n")
			resources, deps, err := Cluster(doc, "leaf.yaml")
			require.NoError(t, err)
			require.Len(t, resources, 1)
			assert.Equal(t, tt.wantID, resources[0].ID)
			assert.Empty(t, deps)
		})
	}
}

// Unrecognized kinds become generic resources and never fail the run.
func TestClusterUnknownKind(t *testing.T) {
	doc := decode(t, `
apiVersion: autoscaling/v2
kind: HorizontalPodAutoscaler
metadata:
  name: api-hpa
spec:
  minReplicas: 2
`)
	resources, deps, err := Cluster(doc, "hpa.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, model.Kind("HorizontalPodAutoscaler"), resources[0].Kind)
	assert.Equal(t, "horizontalpodautoscaler/default/api-hpa", resources[0].ID)
	assert.Empty(t, deps)
}

func TestClusterStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing metadata", "apiVersion: apps/v1\nkind: Deployment\nspec: {}\n"},
		{"missing name", "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  labels:\n    app: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Cluster(decode(t, tt.doc), "bad.yaml")
			assert.Error(t, err)
		})
	}
}
