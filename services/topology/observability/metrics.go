// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the
// topology service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring analysis
// operations. Metrics include:
//   - Request counters (by endpoint and status)
//   - Analysis latency histograms
//   - Resource and document-error counts per run
//   - Risk counters by severity
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "fathom"

// Subsystem for analysis metrics
const analysisSubsystem = "topology"

// AnalysisMetrics holds all Prometheus metrics for topology analysis.
//
// # Description
//
// Provides counters and histograms for monitoring analysis throughput and
// input quality. Initialize once at startup via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type AnalysisMetrics struct {
	// RequestsTotal counts analysis requests by endpoint and status.
	// Labels: endpoint (analyze, diagram), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// AnalysisDurationSeconds measures end-to-end analysis latency.
	// Labels: endpoint (analyze, diagram)
	AnalysisDurationSeconds *prometheus.HistogramVec

	// ResourcesExtracted observes how many resources each run produced.
	ResourcesExtracted prometheus.Histogram

	// DocumentErrorsTotal counts documents that failed to parse or extract.
	DocumentErrorsTotal prometheus.Counter

	// RisksTotal counts detected risks by severity.
	// Labels: severity (LOW, MEDIUM, HIGH)
	RisksTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of AnalysisMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *AnalysisMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup, after the Prometheus registry is available.
//
// # Outputs
//
//   - *AnalysisMetrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *AnalysisMetrics {
	DefaultMetrics = &AnalysisMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "requests_total",
				Help:      "Total number of analysis requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		AnalysisDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "analysis_duration_seconds",
				Help:      "End-to-end analysis duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"endpoint"},
		),

		ResourcesExtracted: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "resources_extracted",
				Help:      "Resources extracted per analysis run",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
			},
		),

		DocumentErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "document_errors_total",
				Help:      "Total documents that failed to parse or extract",
			},
		),

		RisksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "risks_total",
				Help:      "Total detected risks by severity",
			},
			[]string{"severity"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents an analysis endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointAnalyze is the full analysis endpoint.
	EndpointAnalyze Endpoint = "analyze"

	// EndpointDiagram is the single-diagram endpoint.
	EndpointDiagram Endpoint = "diagram"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed analysis request.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
//   - success: Whether the request completed successfully.
func (m *AnalysisMetrics) RecordRequest(endpoint Endpoint, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordDuration records end-to-end analysis latency.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
//   - seconds: Analysis duration in seconds.
func (m *AnalysisMetrics) RecordDuration(endpoint Endpoint, seconds float64) {
	m.AnalysisDurationSeconds.WithLabelValues(string(endpoint)).Observe(seconds)
}

// RecordRun records per-run input quality figures.
//
// # Inputs
//
//   - resources: Number of resources the run extracted.
//   - documentErrors: Number of documents that failed.
func (m *AnalysisMetrics) RecordRun(resources, documentErrors int) {
	m.ResourcesExtracted.Observe(float64(resources))
	if documentErrors > 0 {
		m.DocumentErrorsTotal.Add(float64(documentErrors))
	}
}

// RecordRisk increments the risk counter for one detected risk.
//
// # Inputs
//
//   - severity: The risk severity label (LOW, MEDIUM, HIGH).
func (m *AnalysisMetrics) RecordRisk(severity string) {
	m.RisksTotal.WithLabelValues(severity).Inc()
}
