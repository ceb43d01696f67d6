// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package topology

import (
	"github.com/AleutianAI/Fathom/services/topology/analyze"
)

// FileInput is one named configuration file in a request.
type FileInput struct {
	// Name is the file name used in error messages and graph statistics.
	// Required.
	Name string `json:"name" binding:"required" validate:"required"`

	// Content is the raw YAML text. May contain multiple documents
	// separated by ---. Required, capped at MaxContentBytes.
	Content string `json:"content" binding:"required" validate:"required,maxbytes"`
}

// AnalyzeOptions toggles optional pipeline stages.
type AnalyzeOptions struct {
	// InferDependencies enables pattern-based dependency inference from
	// environment variable values. Defaults to true when omitted.
	InferDependencies *bool `json:"infer_dependencies"`
}

// toOptions converts the request options to pipeline options, applying
// defaults for omitted fields. Safe to call on a nil receiver.
func (o *AnalyzeOptions) toOptions() analyze.Options {
	opts := analyze.DefaultOptions()
	if o != nil && o.InferDependencies != nil {
		opts.InferDependencies = *o.InferDependencies
	}
	return opts
}

// AnalyzeRequest is the request body for POST /v1/topology/analyze.
type AnalyzeRequest struct {
	// Files is the set of configuration files to analyze. Required.
	Files []FileInput `json:"files" binding:"required,min=1,dive" validate:"required,min=1,dive"`

	// Options controls optional pipeline stages.
	Options *AnalyzeOptions `json:"options"`
}

// AnalyzeResponse is the response for POST /v1/topology/analyze. The full
// analysis result is inlined next to the request id.
type AnalyzeResponse struct {
	// RequestID correlates the response with server logs.
	RequestID string `json:"request_id"`

	*analyze.Result
}

// DiagramRequest is the request body for POST /v1/topology/diagram.
type DiagramRequest struct {
	// Files is the set of configuration files to analyze. Required.
	Files []FileInput `json:"files" binding:"required,min=1,dive" validate:"required,min=1,dive"`

	// View selects the diagram to render. One of container, service,
	// infrastructure. Defaults to container.
	View string `json:"view" binding:"omitempty,oneof=container service infrastructure"`

	// Options controls optional pipeline stages.
	Options *AnalyzeOptions `json:"options"`
}

// DiagramResponse is the response for POST /v1/topology/diagram.
type DiagramResponse struct {
	// RequestID correlates the response with server logs.
	RequestID string `json:"request_id"`

	// View is the rendered view name.
	View string `json:"view"`

	// Diagram is the mermaid source text.
	Diagram string `json:"diagram"`

	// Errors lists documents that failed to parse or extract.
	Errors []string `json:"errors,omitempty"`
}

// HealthResponse is the response for GET /v1/topology/health.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/topology/ready.
type ReadyResponse struct {
	// Ready is true if the service is ready to accept requests.
	Ready bool `json:"ready"`

	// Version is the service version.
	Version string `json:"version"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`
}
