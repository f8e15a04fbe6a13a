// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
sitebuild turns a language-neutral HTML template tree into one localized
static site per language.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/config"
	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/core/watch"
)

// main is the entry point of the application.
func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		log.Fatal().Err(err).Msg("Build failed")
	}
}

// run loads the configuration, then builds once or keeps rebuilding until
// SIGINT or SIGTERM in watch mode.
func run(args []string) error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(args); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	b, err := builder.New(config.Global.BuilderOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize builder: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !config.Global.Watch.Enabled {
		if _, err := b.Build(ctx); err != nil {
			return err
		}

		return nil
	}

	w, err := watch.New(func(ctx context.Context) error {
		_, err := b.Build(ctx)

		return err
	}, config.Global.WatchOptions())
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	return w.Run(ctx)
}
