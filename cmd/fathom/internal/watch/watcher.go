// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs a callback when any of a fixed set of files
// changes on disk, with debouncing so a burst of editor writes triggers
// one refresh instead of many.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the files that changed inside one
// debounce window, in first-change order.
type ChangeHandler func(paths []string)

// Watcher watches an explicit list of files.
//
// # Description
//
// The parent directory of each file is registered with fsnotify rather
// than the file itself: most editors save by writing a temp file and
// renaming it over the original, which silently detaches a direct file
// watch. Events are filtered back down to the named files.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single goroutine.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	handler  ChangeHandler
	debounce time.Duration

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher over the given file paths.
//
// # Inputs
//
//   - paths: Files to watch. Relative paths are resolved against the
//     current directory once, at construction.
//   - handler: Called with batched changes after each debounce window.
//   - debounce: How long to wait for further changes before triggering.
//     Values <= 0 fall back to 300ms.
//
// # Outputs
//
//   - *Watcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if a path cannot be resolved or fsnotify fails.
func New(paths []string, handler ChangeHandler, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		files:    files,
		watcher:  fsw,
		handler:  handler,
		debounce: debounce,
		changes:  make(chan string, 64),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; the handler fires from
// a background goroutine until Stop is called or ctx is canceled.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			select {
			case w.changes <- abs:
			default:
				// Buffer full; the refresh is already pending.
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var pending []string
	seen := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := pending
		pending = nil
		seen = make(map[string]bool)
		w.handler(batch)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			if !seen[path] {
				seen[path] = true
				pending = append(pending, path)
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			flush()
		}
	}
}
