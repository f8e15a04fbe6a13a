// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/core/watch"
)

// BuilderOptions returns the builder configuration described by cfg.
// cfg must have been validated.
func (cfg *BuildConfig) BuilderOptions() builder.Options {
	return builder.Options{
		TemplateDir:        cfg.Paths.Templates,
		LocaleDir:          cfg.Paths.Locales,
		AssetDir:           cfg.Paths.Assets,
		OutputDir:          cfg.Paths.Output,
		Languages:          cfg.Languages.Supported,
		DefaultLanguage:    cfg.Languages.Default,
		TemplateExtensions: cfg.Templates.Extensions,
		BasePath:           cfg.Site.BasePath,
		WritePolicy:        cfg.Output.WriteErrorPolicy,
		Concurrency:        cfg.Output.Concurrency,
		Precompress:        cfg.Output.Precompress,
		Lock:               cfg.Output.Lock,
	}
}

// WatchOptions returns the watch mode configuration described by cfg. All
// input directories are watched.
func (cfg *BuildConfig) WatchOptions() watch.Options {
	paths := []string{cfg.Paths.Templates, cfg.Paths.Locales}
	if cfg.Paths.Assets != "" {
		paths = append(paths, cfg.Paths.Assets)
	}

	return watch.Options{
		Paths:       paths,
		Debounce:    cfg.Watch.Debounce,
		MinInterval: cfg.Watch.MinInterval,
	}
}
