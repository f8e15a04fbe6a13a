// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"codeberg.org/petstar/sitebuild/core/audit"
)

// copySharedAssets replaces the asset copy inside a language directory with
// a fresh duplicate of the shared asset directory. Failures are recorded in
// the report and never stop the build.
func (b *Builder) copySharedAssets(ctx context.Context, l zerolog.Logger, lr *LanguageReport) {
	if b.opts.AssetDir == "" {
		return
	}

	span := audit.Span{Phase: audit.PhaseCopyAssets, Language: lr.Language.String()}
	ctx = span.Begin(ctx)

	var bytes int64

	defer func() {
		span.End()
		span.Files = lr.Assets
		span.Bytes = bytes
		span.Log()
	}()

	dst := filepath.Join(lr.Dir, AssetsDirName)

	if err := os.RemoveAll(dst); err != nil {
		b.recordAsset(l, lr, &WriteError{Path: dst, Op: "remove", Err: err})

		return
	}

	if _, err := os.Stat(b.opts.AssetDir); errors.Is(err, fs.ErrNotExist) {
		l.Info().Str("assets", b.opts.AssetDir).Msg("No asset directory, skipping asset copy")

		return
	}

	err := filepath.WalkDir(b.opts.AssetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			b.recordAsset(l, lr, &WriteError{Path: path, Op: "read", Err: err})

			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(b.opts.AssetDir, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		info, err := resolveEntry(path, d)
		if errors.Is(err, errSkipDir) {
			l.Warn().Str("path", path).Msg("Skipping symlinked directory")

			return nil
		}

		if err != nil {
			b.recordAsset(l, lr, &WriteError{Path: path, Op: "read", Err: err})

			return nil
		}

		if info.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				b.recordAsset(l, lr, &WriteError{Path: target, Op: "mkdir", Err: err})

				return filepath.SkipDir
			}

			return nil
		}

		n, err := copyFile(path, target, info.Mode().Perm())
		bytes += n

		if err != nil {
			b.recordAsset(l, lr, err)

			return nil
		}

		lr.Assets++

		if b.packer != nil && compressible(target) {
			n, err := b.packer.compressFile(target)
			bytes += n

			if err != nil {
				b.recordAsset(l, lr, err)
			}
		}

		return nil
	})
	if err != nil {
		span.Error = err
		b.recordAsset(l, lr, err)
	}

	lr.Bytes += bytes
}

func (b *Builder) recordAsset(l zerolog.Logger, lr *LanguageReport, err error) {
	l.Warn().Err(err).Msg("Asset copy failed")

	lr.AssetErrors = append(lr.AssetErrors, err)
}
