// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := tt.level.toSlogLevel()
			if got != tt.want {
				t.Errorf("Level.toSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_Constants(t *testing.T) {
	// Verify ordering: Debug < Info < Warn < Error
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be < LevelError")
	}
}

// =============================================================================
// Logger Constructor Tests
// =============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.slog == nil {
		t.Error("logger.slog is nil")
	}
	defer logger.Close()
}

func TestNew_WithService(t *testing.T) {
	logger := New(Config{
		Service: "test-service",
		Quiet:   true,
	})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.config.Service != "test-service" {
		t.Errorf("Service = %v, want test-service", logger.config.Service)
	}
	defer logger.Close()
}

func TestNew_WithLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	defer logger.Close()

	if logger.file == nil {
		t.Error("logger.file is nil when LogDir specified")
	}

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(files) == 0 {
		t.Error("No log file created in LogDir")
	}
}

func TestNew_WithLogDir_NoService(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir: tmpDir,
		Quiet:  true,
	})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	defer logger.Close()

	// Should use "fathom" as default service name
	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	found := false
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "fathom_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected log file with 'fathom_' prefix")
	}
}

func TestNew_WithLogDir_InvalidPath(t *testing.T) {
	logger := New(Config{
		LogDir: string([]byte{0}) + "/not/a/valid/path",
		Quiet:  true,
	})
	if logger == nil {
		t.Fatal("New() returned nil even with invalid LogDir")
	}
	defer logger.Close()
	// Should still work, just without file logging
	if logger.file != nil {
		t.Error("logger.file should be nil for invalid path")
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	if logger.config.Level != LevelInfo {
		t.Errorf("Default level = %v, want LevelInfo", logger.config.Level)
	}
	if logger.config.Service != "fathom" {
		t.Errorf("Default service = %v, want fathom", logger.config.Service)
	}
	defer logger.Close()
}

// =============================================================================
// Logging Behavior Tests
// =============================================================================

// readLogFile returns the single log file's content from dir.
func readLogFile(t *testing.T, dir string) string {
	t.Helper()
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected 1 log file, got %d", len(files))
	}
	content, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogger_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})

	logger.Info("run completed", "resources", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	content := readLogFile(t, tmpDir)
	if !strings.Contains(content, "run completed") {
		t.Errorf("Log file missing message, got: %s", content)
	}
	if !strings.Contains(content, `"resources":3`) {
		t.Errorf("Log file missing attribute, got: %s", content)
	}
	if !strings.Contains(content, `"service":"test"`) {
		t.Errorf("Log file missing service attribute, got: %s", content)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Close()

	content := readLogFile(t, tmpDir)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered at Warn level")
	}
	if strings.Contains(content, "info message") {
		t.Error("Info message should be filtered at Warn level")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("Warn message missing")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message missing")
	}
}

func TestLogger_With(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})

	child := logger.With("run_id", "r-1")
	child.Info("child message")
	logger.Close()

	content := readLogFile(t, tmpDir)
	if !strings.Contains(content, `"run_id":"r-1"`) {
		t.Errorf("Child logger attribute missing, got: %s", content)
	}
}

func TestLogger_Slog(t *testing.T) {
	logger := New(Config{Quiet: true})
	defer logger.Close()
	if logger.Slog() == nil {
		t.Error("Slog() returned nil")
	}
}

func TestLogger_Close_NoFile(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() without file failed: %v", err)
	}
	// Second close is a no-op
	if err := logger.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})
	defer logger.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("concurrent message", "n", n)
		}(i)
	}
	wg.Wait()
}

// =============================================================================
// Multi-Handler Tests
// =============================================================================

func TestMultiHandler_Enabled(t *testing.T) {
	var bufA, bufB bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&bufA, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&bufB, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(Info) = false, want true (one handler accepts Debug+)")
	}
}

func TestMultiHandler_Handle_LevelFiltering(t *testing.T) {
	var errOnly, all bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	logger := slog.New(h)
	logger.Info("info message")
	logger.Error("error message")

	if strings.Contains(errOnly.String(), "info message") {
		t.Error("Error-only handler received an Info record")
	}
	if !strings.Contains(errOnly.String(), "error message") {
		t.Error("Error-only handler missing Error record")
	}
	if !strings.Contains(all.String(), "info message") {
		t.Error("Debug handler missing Info record")
	}
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&buf, nil),
	}}

	withAttrs := h.WithAttrs([]slog.Attr{slog.String("component", "loader")})
	logger := slog.New(withAttrs)
	logger.Info("message")

	if !strings.Contains(buf.String(), `"component":"loader"`) {
		t.Errorf("WithAttrs attribute missing, got: %s", buf.String())
	}
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&buf, nil),
	}}

	grouped := h.WithGroup("request")
	logger := slog.New(grouped)
	logger.Info("message", "id", "r-1")

	if !strings.Contains(buf.String(), `"request"`) {
		t.Errorf("WithGroup group missing, got: %s", buf.String())
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("UserHomeDir unavailable: %v", err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/.fathom/logs", filepath.Join(home, ".fathom/logs")},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		got := expandPath(tt.input)
		if got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
