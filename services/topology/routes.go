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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all topology routes with the router.
//
// Description:
//
//	Registers all /v1/topology/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/topology/analyze - Run the full analysis pipeline
//	POST /v1/topology/diagram - Render a single diagram view
//	GET  /v1/topology/health - Health check
//	GET  /v1/topology/ready - Readiness check
//
// Example:
//
//	service, err := topology.NewService(topology.DefaultServiceConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handlers := topology.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	topology.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	topology := rg.Group("/topology")
	{
		// Analysis
		topology.POST("/analyze", handlers.HandleAnalyze)
		topology.POST("/diagram", handlers.HandleDiagram)

		// Health checks
		topology.GET("/health", handlers.HandleHealth)
		topology.GET("/ready", handlers.HandleReady)
	}
}
