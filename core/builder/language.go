// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/i18n"
)

var errSkipDir = errors.New("directory skipped")

// buildLanguage regenerates the output directory of one language from the
// template tree. runLog is the build's logger; missing keys are logged
// through it since they carry their own language field.
func (b *Builder) buildLanguage(ctx context.Context, runLog zerolog.Logger, lr *LanguageReport) error {
	l := runLog.With().Str("lang", lr.Language.String()).Logger()

	dict := b.loadDictionary(ctx, l, lr)

	span := audit.Span{Phase: audit.PhaseTranslate, Language: lr.Language.String()}
	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Files = lr.Documents + lr.Copied
		span.Bytes = lr.Bytes
		span.Log()
	}()

	if err := os.RemoveAll(lr.Dir); err != nil {
		span.Error = &WriteError{Path: lr.Dir, Op: "remove", Err: err}

		return span.Error
	}

	if err := os.MkdirAll(lr.Dir, 0o755); err != nil {
		span.Error = &WriteError{Path: lr.Dir, Op: "mkdir", Err: err}

		return span.Error
	}

	root := b.opts.TemplateDir

	span.Error = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return b.recordWrite(l, lr, &WriteError{Path: path, Op: "read", Err: err})
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		if d.IsDir() && b.excluded(path) {
			return filepath.SkipDir
		}

		info, err := resolveEntry(path, d)
		if errors.Is(err, errSkipDir) {
			l.Warn().Str("path", path).Msg("Skipping symlinked directory")

			return nil
		}

		if err != nil {
			return b.recordWrite(l, lr, &WriteError{Path: path, Op: "read", Err: err})
		}

		target := filepath.Join(lr.Dir, rel)

		switch {
		case info.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return b.recordWrite(l, lr, &WriteError{Path: target, Op: "mkdir", Err: err})
			}
		case i18n.IsTemplateDocument(path, b.opts.TemplateExtensions):
			if err := b.writeDocument(runLog, lr, dict, path, filepath.ToSlash(rel), target); err != nil {
				return b.recordWrite(l, lr, err)
			}
		default:
			n, err := copyFile(path, target, info.Mode().Perm())
			if err != nil {
				return b.recordWrite(l, lr, err)
			}

			lr.Copied++
			lr.Bytes += n
		}

		return nil
	})

	return span.Error
}

func (b *Builder) loadDictionary(ctx context.Context, l zerolog.Logger, lr *LanguageReport) i18n.Dictionary {
	span := audit.Span{Phase: audit.PhaseLoadDictionary, Language: lr.Language.String()}
	span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	dict, err := i18n.LoadDictionary(b.opts.LocaleDir, lr.Language)
	if err != nil {
		// continue with whatever LoadDictionary fell back to
		l.Error().Err(err).Msg("Failed to load dictionary, building without translations")

		lr.DictionaryError = err
		span.Error = err
	}

	return dict
}

// writeDocument translates one template document and writes it to target.
func (b *Builder) writeDocument(
	l zerolog.Logger,
	lr *LanguageReport,
	dict i18n.Dictionary,
	src, rel, target string,
) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return &WriteError{Path: src, Op: "read", Err: err}
	}

	out, missing := i18n.TranslateDocument(string(content), dict, lr.Language)
	out = i18n.SetLanguageAttribute(out, lr.Language)

	i18n.LogMissing(l, rel, missing)

	for _, m := range missing {
		lr.Missing = append(lr.Missing, MissingTranslation{File: rel, Key: m.Key, Line: m.Line})
	}

	data := []byte(out)

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return &WriteError{Path: target, Op: "write", Err: err}
	}

	lr.Documents++
	lr.Bytes += int64(len(data))

	if b.packer != nil {
		n, err := b.packer.writeSiblings(target, data)
		lr.Bytes += n

		if err != nil {
			return err
		}
	}

	return nil
}

// excluded reports whether dir holds inputs that are handled elsewhere and
// must not be mirrored from the template tree.
func (b *Builder) excluded(dir string) bool {
	for _, other := range []string{b.opts.AssetDir, b.opts.LocaleDir} {
		if other != "" && within(other, dir) {
			return true
		}
	}

	return false
}

// resolveEntry returns the file info for d, following symlinks to files.
// Symlinks to directories yield errSkipDir.
func resolveEntry(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Info()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, errSkipDir
	}

	return info, nil
}

// copyFile copies src to dst, truncating dst. It returns the number of bytes
// copied.
func copyFile(src, dst string, perm fs.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, &WriteError{Path: src, Op: "read", Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, &WriteError{Path: dst, Op: "copy", Err: err}
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return n, &WriteError{Path: dst, Op: "copy", Err: err}
	}

	return n, nil
}
