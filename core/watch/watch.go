// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package watch reruns a build whenever its inputs change on disk.

Builds run one at a time on the goroutine that called Run. Changes seen
while a build is running are coalesced into a single follow-up build.
*/
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Defaults applied by New to zero Options fields.
const (
	DefaultDebounce    = 200 * time.Millisecond
	DefaultMinInterval = time.Second
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Paths are the directories to watch recursively. Paths that do not
	// exist are skipped.
	Paths []string

	// Debounce is how long the watcher waits for changes to settle before
	// building.
	Debounce time.Duration

	// MinInterval is the minimum time between the starts of two builds.
	MinInterval time.Duration
}

// Watcher serializes builds triggered by filesystem changes.
type Watcher struct {
	build   BuildFunc
	opts    Options
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns a Watcher that runs build for changes below opts.Paths.
func New(build BuildFunc, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	w := &Watcher{
		build:   build,
		opts:    opts,
		fsw:     fsw,
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		log:     log.With().Str("sys", "watch").Logger(),
	}

	for _, path := range opts.Paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			w.log.Warn().Str("path", path).Msg("Not watching missing directory")

			continue
		}

		if err := w.addTree(path); err != nil {
			_ = fsw.Close()

			return nil, err
		}
	}

	return w, nil
}

// Run performs an initial build, then rebuilds on every settled change
// until ctx is cancelled. A failing initial build is returned; later
// failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.log.Warn().Err(err).Msg("Failed to close filesystem watcher")
		}
	}()

	if err := w.runBuild(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	w.log.Info().Strs("paths", w.opts.Paths).Msg("Watching for changes")

	settle := time.NewTimer(w.opts.Debounce)
	settle.Stop()

	defer settle.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopped watching")

			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if !relevant(event) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
					}
				}
			}

			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")

			pending = true

			settle.Reset(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.log.Warn().Err(err).Msg("Filesystem watcher error")

		case <-settle.C:
			if !pending {
				continue
			}

			pending = false

			if err := w.runBuild(ctx); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("Rebuild failed, waiting for further changes")
			}
		}
	}
}

// runBuild waits for the rate limiter, then runs one build to completion.
// Cancelling ctx stops the wait but never interrupts a build in progress.
func (w *Watcher) runBuild(ctx context.Context) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	return w.build(context.WithoutCancel(ctx))
}

// addTree watches root and every directory below it, skipping hidden ones.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && hidden(path) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}

		return nil
	})
}

// relevant reports whether event should trigger a rebuild.
func relevant(event fsnotify.Event) bool {
	if hidden(event.Name) || strings.HasSuffix(event.Name, "~") {
		return false
	}

	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
