// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the topology service.
//
// This package contains middleware for request throttling. Analysis runs
// are CPU-bound (parsing, graph construction, diagram rendering), so the
// service applies a token-bucket limit rather than relying on connection
// backpressure alone.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// =============================================================================
// Rate Limiting
// =============================================================================

// RateLimitConfig configures the token-bucket limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate. Default: 10.
	RequestsPerSecond float64

	// Burst is the maximum momentary burst. Default: 20.
	Burst int
}

// DefaultRateLimitConfig returns sensible defaults for a local deployment.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// RateLimit creates a Gin middleware that throttles requests.
//
// # Description
//
// Applies a shared token-bucket limiter across all requests passing through
// the middleware. Requests that exceed the configured rate receive
// 429 Too Many Requests with a JSON error body.
//
// # Inputs
//
//   - config: Limiter configuration. Zero values fall back to defaults.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin.
//
// # Examples
//
//	v1 := router.Group("/v1")
//	v1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//
// # Thread Safety
//
// Thread-safe. rate.Limiter handles concurrent Allow calls internally.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultRateLimitConfig().RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = DefaultRateLimitConfig().Burst
	}

	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
