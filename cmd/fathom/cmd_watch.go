// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Fathom/cmd/fathom/config"
	"github.com/AleutianAI/Fathom/cmd/fathom/internal/watch"
	"github.com/AleutianAI/Fathom/pkg/ux"
)

// runWatchCommand implements `fathom watch [files...]`.
func runWatchCommand(cmd *cobra.Command, args []string) error {
	refresh := func() {
		result, err := runPipeline(args)
		if err != nil {
			ux.Error(err.Error())
			return
		}
		ux.Info(fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), renderRefreshLine(result)))
		for _, e := range result.Errors {
			ux.Warning(e)
		}
	}

	debounce := time.Duration(config.Global.Watch.DebounceMs) * time.Millisecond
	if debounceMs > 0 {
		debounce = time.Duration(debounceMs) * time.Millisecond
	}

	watcher, err := watch.New(args, func(paths []string) {
		for _, p := range paths {
			ux.Muted("changed: " + p)
		}
		refresh()
	}, debounce)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ux.Title(fmt.Sprintf("watching %d file(s), Ctrl-C to exit", len(args)))
	refresh()
	watcher.Start(ctx)

	<-ctx.Done()
	ux.Muted("stopped")
	return nil
}
