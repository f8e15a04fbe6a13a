// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/i18n"
)

// validation errors.
var (
	errEmptyPath                  = errors.New("path cannot be empty")
	errOutputInsideInput          = errors.New("output directory cannot be inside an input directory")
	errNoLanguages                = errors.New("no languages supplied. Please supply at least one language")
	errDefaultLanguageUnsupported = errors.New("default language must be one of the supported languages")
	errNoTemplateExtensions       = errors.New("at least one template extension is required")
	errInvalidConcurrency         = errors.New("Output.Concurrency must be at least 1")
	errInvalidBasePath            = errors.New("Site.BasePath must be a path, not a URL")
	errInvalidWatchInterval       = errors.New("watch intervals must be positive")
	errInvalidLogLevel            = errors.New("invalid Log.Level")
	errInvalidLogFormat           = errors.New("invalid Log.Format")
)

// validateAndSet validates the build configuration and populates the parsed
// fields.
func (cfg *BuildConfig) validateAndSet() error {
	if err := cfg.validatePaths(); err != nil {
		return err
	}

	// Languages
	supported, err := i18n.ParseLanguages(cfg.Languages.RawSupported)
	if err != nil {
		return fmt.Errorf("invalid Languages.Supported: %w", err)
	}

	if len(supported) == 0 {
		return errNoLanguages
	}

	cfg.Languages.Supported = supported

	if cfg.Languages.RawDefault == "" {
		cfg.Languages.Default = supported[0]
		log.Info().
			Str("lang", cfg.Languages.Default.String()).
			Msg("Using first supported language as default")
	} else {
		def, err := i18n.ParseLanguage(cfg.Languages.RawDefault)
		if err != nil {
			return fmt.Errorf("invalid Languages.Default: %w", err)
		}

		if !slices.Contains(supported, def) {
			return fmt.Errorf("%w: %s", errDefaultLanguageUnsupported, def)
		}

		cfg.Languages.Default = def
	}

	// Template extensions
	exts := make([]string, 0, len(cfg.Templates.Extensions))

	for _, ext := range cfg.Templates.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}

	if len(exts) == 0 {
		return errNoTemplateExtensions
	}

	cfg.Templates.Extensions = exts

	// Output
	policy, err := builder.ParseWritePolicy(cfg.Output.RawWriteErrorPolicy)
	if err != nil {
		return fmt.Errorf("invalid Output.WriteErrorPolicy: %w", err)
	}

	cfg.Output.WriteErrorPolicy = policy

	if cfg.Output.Concurrency < 1 {
		return errInvalidConcurrency
	}

	// Site
	basePath, err := url.Parse(cfg.Site.BasePath)
	if err != nil || basePath.Scheme != "" || basePath.Host != "" {
		return errInvalidBasePath
	}

	if trimmed := strings.Trim(basePath.Path, "/"); trimmed == "" {
		cfg.Site.BasePath = "/"
	} else {
		cfg.Site.BasePath = "/" + trimmed + "/"
	}

	// Watch
	if cfg.Watch.Debounce <= 0 || cfg.Watch.MinInterval <= 0 {
		return errInvalidWatchInterval
	}

	// Log
	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

func (cfg *BuildConfig) validatePaths() error {
	required := []struct{ name, path string }{
		{"Paths.Templates", cfg.Paths.Templates},
		{"Paths.Locales", cfg.Paths.Locales},
		{"Paths.Output", cfg.Paths.Output},
	}

	for _, p := range required {
		if strings.TrimSpace(p.path) == "" {
			return fmt.Errorf("%s: %w", p.name, errEmptyPath)
		}
	}

	inputs := []string{cfg.Paths.Templates, cfg.Paths.Locales}
	if cfg.Paths.Assets != "" {
		inputs = append(inputs, cfg.Paths.Assets)
	}

	for _, input := range inputs {
		if isWithin(input, cfg.Paths.Output) {
			return fmt.Errorf("%w: %s is inside %s", errOutputInsideInput, cfg.Paths.Output, input)
		}
	}

	return nil
}

// isWithin reports whether path is parent or lies below it.
func isWithin(parent, path string) bool {
	parentAbs, err := filepath.Abs(parent)
	if err != nil {
		return false
	}

	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(parentAbs, pathAbs)

	return err == nil && (rel == "." || !(rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))))
}
