// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/core/watch"
)

// SetDefaults populates the configuration with default values.
func (cfg *BuildConfig) SetDefaults() {
	cfg.Paths.Templates = "./src"
	cfg.Paths.Locales = "./locales"
	cfg.Paths.Assets = "./assets"
	cfg.Paths.Output = "./dist"

	cfg.Languages.RawSupported = []string{"en", "ro"}
	cfg.Languages.RawDefault = "en"

	cfg.Templates.Extensions = []string{".html", ".htm"}

	cfg.Output.RawWriteErrorPolicy = string(builder.FailFast)
	cfg.Output.Concurrency = 1
	cfg.Output.Precompress = false
	cfg.Output.Lock = true

	cfg.Site.BasePath = "/"

	cfg.Watch.Enabled = false
	cfg.Watch.Debounce = watch.DefaultDebounce
	cfg.Watch.MinInterval = watch.DefaultMinInterval

	cfg.Development.InDevelopment = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
