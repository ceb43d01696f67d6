// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command topology starts the Fathom Topology API server.
//
// Fathom Topology analyzes infrastructure configuration files with:
//   - Compose file and cluster manifest ingestion
//   - A normalized resource and dependency graph
//   - Selector resolution and environment-based dependency inference
//   - Mermaid diagrams at container, service, and infrastructure views
//   - Risk detection with prioritized recommendations
//
// Usage:
//
//	go run ./cmd/topology
//	go run ./cmd/topology -port 9090
//
// With an OTLP collector:
//
//	OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4317 go run ./cmd/topology
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/topology/health
//
//	# Analyze a compose file
//	curl -X POST http://localhost:8080/v1/topology/analyze \
//	  -H "Content-Type: application/json" \
//	  -d '{"files": [{"name": "docker-compose.yml", "content": "services:\n  db:\n    image: postgres:16\n"}]}'
//
//	# Render a single diagram view
//	curl -X POST http://localhost:8080/v1/topology/diagram \
//	  -H "Content-Type: application/json" \
//	  -d '{"files": [{"name": "docker-compose.yml", "content": "services:\n  db:\n    image: postgres:16\n"}], "view": "service"}'
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/Fathom/services/topology"
	"github.com/AleutianAI/Fathom/services/topology/middleware"
	"github.com/AleutianAI/Fathom/services/topology/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "fathom-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("topology-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	// Create service with default config
	svc, err := topology.NewService(topology.DefaultServiceConfig())
	if err != nil {
		log.Fatalf("Failed to initialize the topology service: %v", err)
	}

	// Create handlers
	handlers := topology.NewHandlers(svc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware("topology-service"))

	// Prometheus metrics live at the root, outside the rate limited group
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes under /v1/topology
	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	topology.RegisterRoutes(v1, handlers)

	// Print startup banner
	printBanner(*port)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down Fathom Topology server")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Starting Fathom Topology server", slog.String("address", addr))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printBanner(port int) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                    FATHOM TOPOLOGY SERVER                         ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Infrastructure configuration analysis and diagram generation.    ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/topology/health               │  ║
║  │                                                             │  ║
║  │ # Analyze configuration files                                │  ║
║  │ curl -X POST http://localhost:%d/v1/topology/analyze \    │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"files": [{"name": "compose.yml", "content": ...}]}' │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── POST /v1/topology/analyze   full analysis                    ║
║  ├── POST /v1/topology/diagram   single diagram view              ║
║  ├── GET  /v1/topology/health    liveness                         ║
║  ├── GET  /v1/topology/ready     readiness                        ║
║  └── GET  /metrics               prometheus metrics               ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, port, port)
}
