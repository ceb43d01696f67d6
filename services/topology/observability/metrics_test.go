// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ============================================================================
// Test Helper: Create isolated metrics for testing
// ============================================================================

// newTestMetrics creates an AnalysisMetrics instance with a custom registry.
// This avoids conflicts with the global Prometheus registry and allows
// parallel testing.
func newTestMetrics(t *testing.T) *AnalysisMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analysisSubsystem,
			Name:      "requests_total",
			Help:      "Total number of analysis requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	analysisDurationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: analysisSubsystem,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"endpoint"},
	)

	resourcesExtracted := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: analysisSubsystem,
			Name:      "resources_extracted",
			Help:      "Resources extracted per analysis run",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	documentErrorsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analysisSubsystem,
			Name:      "document_errors_total",
			Help:      "Total documents that failed to parse or extract",
		},
	)

	risksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analysisSubsystem,
			Name:      "risks_total",
			Help:      "Total detected risks by severity",
		},
		[]string{"severity"},
	)

	reg.MustRegister(
		requestsTotal,
		analysisDurationSeconds,
		resourcesExtracted,
		documentErrorsTotal,
		risksTotal,
	)

	return &AnalysisMetrics{
		RequestsTotal:           requestsTotal,
		AnalysisDurationSeconds: analysisDurationSeconds,
		ResourcesExtracted:      resourcesExtracted,
		DocumentErrorsTotal:     documentErrorsTotal,
		RisksTotal:              risksTotal,
	}
}

// ============================================================================
// InitMetrics Tests
// ============================================================================

// Note: InitMetrics uses promauto which registers with the default Prometheus
// registry. This test must only run once per test binary execution since
// duplicate registration will panic.
var initMetricsTestOnce bool

func TestInitMetrics(t *testing.T) {
	if initMetricsTestOnce {
		t.Skip("InitMetrics can only be called once per test run (promauto restriction)")
	}
	initMetricsTestOnce = true

	result := InitMetrics()

	if result == nil {
		t.Fatal("InitMetrics() returned nil")
	}
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be set after InitMetrics()")
	}
	if DefaultMetrics != result {
		t.Error("DefaultMetrics should equal the returned value")
	}
	if result.RequestsTotal == nil {
		t.Error("RequestsTotal should not be nil")
	}
	if result.AnalysisDurationSeconds == nil {
		t.Error("AnalysisDurationSeconds should not be nil")
	}
	if result.ResourcesExtracted == nil {
		t.Error("ResourcesExtracted should not be nil")
	}
	if result.DocumentErrorsTotal == nil {
		t.Error("DocumentErrorsTotal should not be nil")
	}
	if result.RisksTotal == nil {
		t.Error("RisksTotal should not be nil")
	}

	// Verify metrics can be used
	result.RecordRequest(EndpointAnalyze, true)
	result.RecordDuration(EndpointDiagram, 0.2)
	result.RecordRun(12, 1)
	result.RecordRisk("MEDIUM")
}

// ============================================================================
// Constants Tests
// ============================================================================

func TestConstants(t *testing.T) {
	if metricsNamespace != "fathom" {
		t.Errorf("metricsNamespace = %q, want %q", metricsNamespace, "fathom")
	}
	if analysisSubsystem != "topology" {
		t.Errorf("analysisSubsystem = %q, want %q", analysisSubsystem, "topology")
	}
	if EndpointAnalyze != "analyze" {
		t.Errorf("EndpointAnalyze = %q, want %q", EndpointAnalyze, "analyze")
	}
	if EndpointDiagram != "diagram" {
		t.Errorf("EndpointDiagram = %q, want %q", EndpointDiagram, "diagram")
	}
}

// ============================================================================
// RecordRequest Tests
// ============================================================================

func TestAnalysisMetrics_RecordRequest(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointAnalyze, true)
	m.RecordRequest(EndpointAnalyze, true)
	m.RecordRequest(EndpointAnalyze, false)
	m.RecordRequest(EndpointDiagram, true)

	successVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("analyze", "success"))
	if successVal != 2 {
		t.Errorf("RequestsTotal[analyze,success] = %f, want 2", successVal)
	}

	errorVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("analyze", "error"))
	if errorVal != 1 {
		t.Errorf("RequestsTotal[analyze,error] = %f, want 1", errorVal)
	}

	diagramVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("diagram", "success"))
	if diagramVal != 1 {
		t.Errorf("RequestsTotal[diagram,success] = %f, want 1", diagramVal)
	}
}

// ============================================================================
// RecordRun Tests
// ============================================================================

func TestAnalysisMetrics_RecordRun(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRun(10, 2)
	m.RecordRun(5, 0)

	errsVal := testutil.ToFloat64(m.DocumentErrorsTotal)
	if errsVal != 2 {
		t.Errorf("DocumentErrorsTotal = %f, want 2", errsVal)
	}

	count := testutil.CollectAndCount(m.ResourcesExtracted)
	if count == 0 {
		t.Error("Expected at least one metric to be collected")
	}
}

// ============================================================================
// RecordRisk Tests
// ============================================================================

func TestAnalysisMetrics_RecordRisk(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRisk("MEDIUM")
	m.RecordRisk("MEDIUM")
	m.RecordRisk("LOW")

	mediumVal := testutil.ToFloat64(m.RisksTotal.WithLabelValues("MEDIUM"))
	if mediumVal != 2 {
		t.Errorf("RisksTotal[MEDIUM] = %f, want 2", mediumVal)
	}

	lowVal := testutil.ToFloat64(m.RisksTotal.WithLabelValues("LOW"))
	if lowVal != 1 {
		t.Errorf("RisksTotal[LOW] = %f, want 1", lowVal)
	}
}

// ============================================================================
// RecordDuration Tests
// ============================================================================

func TestAnalysisMetrics_RecordDuration(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordDuration(EndpointAnalyze, 0.03)
	m.RecordDuration(EndpointAnalyze, 0.7)
	m.RecordDuration(EndpointDiagram, 0.1)

	count := testutil.CollectAndCount(m.AnalysisDurationSeconds)
	if count == 0 {
		t.Error("Expected at least one metric to be collected")
	}
}

// ============================================================================
// Concurrent Safety Tests
// ============================================================================

func TestAnalysisMetrics_ConcurrentSafety(t *testing.T) {
	m := newTestMetrics(t)

	done := make(chan bool, 60)

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordRequest(EndpointAnalyze, true)
			done <- true
		}()
	}
	for i := 0; i < 20; i++ {
		go func() {
			m.RecordRun(3, 1)
			done <- true
		}()
	}
	for i := 0; i < 20; i++ {
		go func() {
			m.RecordRisk("HIGH")
			done <- true
		}()
	}

	for i := 0; i < 60; i++ {
		<-done
	}

	requestsVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("analyze", "success"))
	if requestsVal != 20 {
		t.Errorf("RequestsTotal[analyze,success] = %f, want 20", requestsVal)
	}

	risksVal := testutil.ToFloat64(m.RisksTotal.WithLabelValues("HIGH"))
	if risksVal != 20 {
		t.Errorf("RisksTotal[HIGH] = %f, want 20", risksVal)
	}
}
