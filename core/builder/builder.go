// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package builder turns a language-neutral template tree into one localized
output tree per language.

A build removes and regenerates each language directory under the output
root, copies the shared asset directory into every language directory, and
finishes by writing a redirect page at the output root that forwards to the
default language. Output is byte-identical across builds of unchanged input.
*/
package builder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/core/idgen"
	"codeberg.org/petstar/sitebuild/i18n"
)

// AssetsDirName is the name of the asset copy inside each language directory.
const AssetsDirName = "assets"

// Options configures a Builder. Paths may be relative to the working
// directory.
type Options struct {
	TemplateDir string
	LocaleDir   string
	AssetDir    string // optional; skipped when it does not exist
	OutputDir   string

	Languages       []i18n.Language
	DefaultLanguage i18n.Language

	// TemplateExtensions lists the extensions (with dot) of files that are
	// translated. Everything else is copied unchanged.
	TemplateExtensions []string

	// BasePath is the URL path the output root is served under.
	BasePath string

	WritePolicy WritePolicy
	Concurrency int
	Precompress bool
	Lock        bool
}

// Builder runs builds for a fixed set of Options. A Builder holds no state
// between builds and may be reused.
type Builder struct {
	opts   Options
	log    zerolog.Logger
	packer *precompressor
}

// New returns a Builder for opts, filling in defaults for unset fields.
func New(opts Options) (*Builder, error) {
	if len(opts.TemplateExtensions) == 0 {
		opts.TemplateExtensions = []string{".html", ".htm"}
	}

	if opts.WritePolicy == "" {
		opts.WritePolicy = FailFast
	}

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	opts.BasePath = normalizeBasePath(opts.BasePath)

	if opts.DefaultLanguage == "" && len(opts.Languages) > 0 {
		opts.DefaultLanguage = opts.Languages[0]
	}

	b := &Builder{
		opts: opts,
		log:  log.With().Str("sys", "build").Logger(),
	}

	if opts.Precompress {
		packer, err := newPrecompressor()
		if err != nil {
			return nil, err
		}

		b.packer = packer
	}

	return b, nil
}

// Options returns the effective options, defaults included.
func (b *Builder) Options() Options {
	return b.opts
}

// Build produces the output tree for every configured language followed by
// the root redirect page. Anything else found at the top of the output
// directory is removed first.
//
// A *ConfigurationError is returned before anything is written. Under the
// FailFast policy the first *WriteError aborts the build and the language
// directory it occurred in is removed. The returned Report is non-nil
// whenever building started, including on error.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()

	report := &Report{RunID: idgen.RunID()}

	l := b.log.With().Str("run", report.RunID).Logger()

	span := audit.Span{Phase: audit.PhaseBuild}
	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Files = report.Files()
		span.Log()
	}()

	if err := b.checkRoots(); err != nil {
		span.Error = err

		return nil, err
	}

	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		span.Error = err

		return nil, &WriteError{Path: b.opts.OutputDir, Op: "mkdir", Err: err}
	}

	if b.opts.Lock {
		lock, err := lockOutput(b.opts.OutputDir)
		if err != nil {
			span.Error = err

			return nil, err
		}

		defer func() {
			if err := lock.release(); err != nil {
				l.Warn().Err(err).Msg("Failed to release output lock")
			}
		}()
	}

	l.Info().
		Str("templates", b.opts.TemplateDir).
		Str("out", b.opts.OutputDir).
		Strs("languages", languageStrings(b.opts.Languages)).
		Msg("Building site")

	if err := b.pruneOutput(l); err != nil {
		span.Error = err

		return nil, err
	}

	report.Languages = make([]*LanguageReport, len(b.opts.Languages))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(b.opts.Concurrency)

	for i, lang := range b.opts.Languages {
		lr := &LanguageReport{
			Language: lang,
			Dir:      filepath.Join(b.opts.OutputDir, lang.String()),
		}
		report.Languages[i] = lr

		group.Go(func() error {
			ll := l.With().Str("lang", lang.String()).Logger()

			if err := b.buildLanguage(gctx, l, lr); err != nil {
				b.discardLanguage(ll, lr)

				return err
			}

			b.copySharedAssets(gctx, ll, lr)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		span.Error = err
		report.Duration = time.Since(start)

		return report, err
	}

	redirect, err := b.buildRootRedirect(ctx, l)
	if err != nil {
		if b.opts.WritePolicy == FailFast {
			span.Error = err
			report.Duration = time.Since(start)

			return report, err
		}

		l.Error().Err(err).Msg("Failed to write root redirect")
	}

	report.Redirect = redirect
	report.Duration = time.Since(start)

	report.Log(l)

	return report, nil
}

// checkRoots validates the input and output locations before any output is
// produced.
func (b *Builder) checkRoots() error {
	if len(b.opts.Languages) == 0 {
		return &ConfigurationError{Field: "languages.supported", Err: errNoLanguages}
	}

	if !slices.Contains(b.opts.Languages, b.opts.DefaultLanguage) {
		return &ConfigurationError{
			Field: "languages.default",
			Path:  b.opts.DefaultLanguage.String(),
			Err:   errNoDefaultLang,
		}
	}

	roots := []struct{ field, path string }{
		{"paths.templates", b.opts.TemplateDir},
		{"paths.locales", b.opts.LocaleDir},
	}

	for _, root := range roots {
		if err := requireDir(root.path); err != nil {
			return &ConfigurationError{Field: root.field, Path: root.path, Err: err}
		}

		if within(root.path, b.opts.OutputDir) {
			return &ConfigurationError{Field: "paths.output", Path: b.opts.OutputDir, Err: errOutputInInput}
		}
	}

	if b.opts.AssetDir != "" && within(b.opts.AssetDir, b.opts.OutputDir) {
		return &ConfigurationError{Field: "paths.output", Path: b.opts.OutputDir, Err: errOutputInInput}
	}

	return nil
}

// pruneOutput removes every top-level entry of the output directory that is
// not a configured language directory, so languages dropped from the
// configuration and stray files do not survive a rebuild. Language
// directories are cleared by buildLanguage.
func (b *Builder) pruneOutput(l zerolog.Logger) error {
	entries, err := os.ReadDir(b.opts.OutputDir)
	if err != nil {
		return &WriteError{Path: b.opts.OutputDir, Op: "read", Err: err}
	}

	keep := languageStrings(b.opts.Languages)

	for _, e := range entries {
		if e.IsDir() && slices.Contains(keep, e.Name()) {
			continue
		}

		path := filepath.Join(b.opts.OutputDir, e.Name())

		if err := os.RemoveAll(path); err != nil {
			return &WriteError{Path: path, Op: "remove", Err: err}
		}

		l.Debug().Str("path", path).Msg("Removed stale output")
	}

	return nil
}

// discardLanguage removes a partially built language directory after a
// fatal error.
func (b *Builder) discardLanguage(l zerolog.Logger, lr *LanguageReport) {
	if err := os.RemoveAll(lr.Dir); err != nil {
		l.Error().Err(err).Str("dir", lr.Dir).Msg("Failed to remove partial output")

		return
	}

	l.Warn().Str("dir", lr.Dir).Msg("Removed partial output after failure")
}

// recordWrite applies the write policy to err. It returns err when the
// build must stop.
func (b *Builder) recordWrite(l zerolog.Logger, lr *LanguageReport, err error) error {
	if b.opts.WritePolicy == FailFast {
		return err
	}

	l.Error().Err(err).Msg("Write failed")
	lr.WriteErrors = append(lr.WriteErrors, err)

	return nil
}

// lockPath returns the lock file used for outDir. It lives beside the output
// directory rather than inside it so removing a language directory never
// touches it.
func lockPath(outDir string) string {
	clean := filepath.Clean(outDir)

	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errMissingRoot
	}

	if err != nil {
		return err
	}

	if !info.IsDir() {
		return errRootNotDir
	}

	return nil
}

// within reports whether path is parent itself or lies below it.
func within(parent, path string) bool {
	if parent == "" || path == "" {
		return false
	}

	parentAbs, err := filepath.Abs(parent)
	if err != nil {
		return false
	}

	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(parentAbs, pathAbs)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	if !strings.HasSuffix(p, "/") {
		p += "/"
	}

	return p
}

func languageStrings(langs []i18n.Language) []string {
	out := make([]string, len(langs))
	for i, lang := range langs {
		out[i] = lang.String()
	}

	return out
}
