// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package topology provides the topology HTTP service for infrastructure
// configuration analysis.
//
// The service exposes endpoints for:
//   - Analyzing compose files and cluster manifests into a dependency graph
//   - Rendering individual architecture diagrams
//   - Health and readiness checks
package topology

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/Fathom/services/topology/analyze"
	"github.com/AleutianAI/Fathom/services/topology/diagram"
	"github.com/AleutianAI/Fathom/services/topology/loader"
)

// Service errors returned by Analyze and Diagram.
var (
	// ErrNoFiles means the request contained no files.
	ErrNoFiles = errors.New("no files provided")

	// ErrTooManyFiles means the request exceeded the configured file count.
	ErrTooManyFiles = errors.New("too many files in request")

	// ErrFileTooLarge means a file exceeded the configured size limit.
	ErrFileTooLarge = errors.New("file content exceeds size limit")
)

// ServiceConfig configures the topology service.
type ServiceConfig struct {
	// MaxFiles is the maximum number of files in one request.
	// Default: 50
	MaxFiles int

	// MaxFileBytes is the maximum size of a single file's content.
	// Default: 2MB
	MaxFileBytes int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxFiles:     50,
		MaxFileBytes: 2 * 1024 * 1024, // 2MB
	}
}

// Service runs topology analyses for the HTTP surface.
//
// Thread Safety:
//
//	Service is safe for concurrent use. The pipeline carries only immutable
//	pattern tables, and every run is independent.
type Service struct {
	config   ServiceConfig
	pipeline *analyze.Pipeline
}

// NewService creates a new topology service.
//
// Description:
//
//	Compiles the embedded inference and tier tables once. An error here is
//	fatal for the binary; there is nothing to analyze with.
//
// Inputs:
//
//	config - Service configuration
//
// Outputs:
//
//	*Service - The configured service
//	error - Non-nil if the embedded tables fail to load
func NewService(config ServiceConfig) (*Service, error) {
	pipeline, err := analyze.NewPipeline()
	if err != nil {
		return nil, err
	}
	return &Service{config: config, pipeline: pipeline}, nil
}

// Analyze validates request limits and runs the full analysis pipeline.
//
// Description:
//
//	Per-document parse and extraction failures do not fail the call; they
//	appear in Result.Errors. Only requests that violate the configured
//	limits are rejected outright.
//
// Errors:
//
//	ErrNoFiles - The request contained no files
//	ErrTooManyFiles - The request exceeded MaxFiles
//	ErrFileTooLarge - A file exceeded MaxFileBytes
func (s *Service) Analyze(files []loader.File, opts analyze.Options) (*analyze.Result, error) {
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}
	return s.pipeline.RunFiles(files, opts), nil
}

// Diagram runs the pipeline and renders a single view.
//
// Outputs:
//
//	string - The mermaid source text
//	[]string - Per-document errors from the underlying run
//	error - Non-nil for limit violations or an unknown view
func (s *Service) Diagram(files []loader.File, view diagram.View, opts analyze.Options) (string, []string, error) {
	if err := s.validateFiles(files); err != nil {
		return "", nil, err
	}
	result := s.pipeline.RunFiles(files, opts)
	out, err := diagram.Render(result.Graph, view)
	if err != nil {
		return "", nil, err
	}
	return out, result.Errors, nil
}

func (s *Service) validateFiles(files []loader.File) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if s.config.MaxFiles > 0 && len(files) > s.config.MaxFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(files), s.config.MaxFiles)
	}
	for _, f := range files {
		if s.config.MaxFileBytes > 0 && len(f.Content) > s.config.MaxFileBytes {
			return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, f.Name, len(f.Content), s.config.MaxFileBytes)
		}
	}
	return nil
}
