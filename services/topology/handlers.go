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
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/Fathom/services/topology/analyze"
	"github.com/AleutianAI/Fathom/services/topology/diagram"
	"github.com/AleutianAI/Fathom/services/topology/loader"
	"github.com/AleutianAI/Fathom/services/topology/observability"
)

// ServiceVersion is the topology service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the topology service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleAnalyze handles POST /v1/topology/analyze.
//
// Description:
//
//	Runs the full analysis pipeline over the submitted files and returns
//	the resource inventory, dependency graph, diagrams, risks, and
//	recommendations. Documents that fail to parse or extract are reported
//	in the result's error list without failing the request.
//
// Request Body:
//
//	AnalyzeRequest
//
// Response:
//
//	200 OK: AnalyzeResponse
//	400 Bad Request: Validation error or limit violation
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAnalyze")

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("Request validation failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Request validation failed",
			Code:  "VALIDATION_FAILED",
		})
		return
	}

	logger.Info("Analyzing configuration files", "files", len(req.Files))

	start := time.Now()
	result, err := h.svc.Analyze(toLoaderFiles(req.Files), req.Options.toOptions())
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "ANALYZE_FAILED"

		if errors.Is(err, ErrNoFiles) {
			statusCode = http.StatusBadRequest
			errCode = "NO_FILES"
		} else if errors.Is(err, ErrTooManyFiles) {
			statusCode = http.StatusBadRequest
			errCode = "TOO_MANY_FILES"
		} else if errors.Is(err, ErrFileTooLarge) {
			statusCode = http.StatusBadRequest
			errCode = "FILE_TOO_LARGE"
		}

		logger.Error("Analysis failed", "error", err)
		recordFailure(observability.EndpointAnalyze)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	recordAnalysis(observability.EndpointAnalyze, time.Since(start), result)

	logger.Info("Analysis complete",
		"resources", result.Resources.Total,
		"edges", result.Graph.Stats.EdgeCount,
		"risks", len(result.Risks),
		"document_errors", len(result.Errors))

	c.JSON(http.StatusOK, AnalyzeResponse{RequestID: requestID, Result: result})
}

// HandleDiagram handles POST /v1/topology/diagram.
//
// Description:
//
//	Runs the analysis pipeline and returns a single rendered diagram
//	instead of the full result. Useful for clients that only embed one
//	view.
//
// Request Body:
//
//	DiagramRequest
//
// Response:
//
//	200 OK: DiagramResponse
//	400 Bad Request: Validation error or limit violation
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleDiagram(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDiagram")

	var req DiagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("Request validation failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Request validation failed",
			Code:  "VALIDATION_FAILED",
		})
		return
	}

	view := diagram.ViewContainer
	if req.View != "" {
		view = diagram.View(req.View)
	}

	logger.Info("Rendering diagram", "files", len(req.Files), "view", string(view))

	start := time.Now()
	out, runErrs, err := h.svc.Diagram(toLoaderFiles(req.Files), view, req.Options.toOptions())
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "DIAGRAM_FAILED"

		if errors.Is(err, ErrNoFiles) {
			statusCode = http.StatusBadRequest
			errCode = "NO_FILES"
		} else if errors.Is(err, ErrTooManyFiles) {
			statusCode = http.StatusBadRequest
			errCode = "TOO_MANY_FILES"
		} else if errors.Is(err, ErrFileTooLarge) {
			statusCode = http.StatusBadRequest
			errCode = "FILE_TOO_LARGE"
		}

		logger.Error("Diagram rendering failed", "error", err)
		recordFailure(observability.EndpointDiagram)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	if m := observability.DefaultMetrics; m != nil {
		m.RecordRequest(observability.EndpointDiagram, true)
		m.RecordDuration(observability.EndpointDiagram, time.Since(start).Seconds())
	}

	c.JSON(http.StatusOK, DiagramResponse{
		RequestID: requestID,
		View:      string(view),
		Diagram:   out,
		Errors:    runErrs,
	})
}

// HandleHealth handles GET /v1/topology/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/topology/ready.
//
// Description:
//
//	Returns readiness. The service is ready once the pipeline's embedded
//	tables compiled at construction time, so this only reports false when
//	the handlers were wired without a service.
func (h *Handlers) HandleReady(c *gin.Context) {
	ready := h.svc != nil && h.svc.pipeline != nil
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadyResponse{
		Ready:   ready,
		Version: ServiceVersion,
	})
}

// getOrCreateRequestID returns the X-Request-ID header, generating one when
// the client did not send it, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func toLoaderFiles(files []FileInput) []loader.File {
	out := make([]loader.File, len(files))
	for i, f := range files {
		out[i] = loader.File{Name: f.Name, Content: []byte(f.Content)}
	}
	return out
}

// recordAnalysis reports run metrics when metrics are initialized.
func recordAnalysis(endpoint observability.Endpoint, elapsed time.Duration, result *analyze.Result) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	m.RecordRequest(endpoint, true)
	m.RecordDuration(endpoint, elapsed.Seconds())
	m.RecordRun(result.Resources.Total, len(result.Errors))
	for _, r := range result.Risks {
		m.RecordRisk(string(r.Severity))
	}
}

func recordFailure(endpoint observability.Endpoint) {
	if m := observability.DefaultMetrics; m != nil {
		m.RecordRequest(endpoint, false)
	}
}
