// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/views"
)

// RedirectName is the file name of the root redirect page.
const RedirectName = "index.html"

// buildRootRedirect writes the page at the output root that forwards to the
// default language and returns its path.
func (b *Builder) buildRootRedirect(ctx context.Context, l zerolog.Logger) (string, error) {
	lang := b.opts.DefaultLanguage

	span := audit.Span{Phase: audit.PhaseRedirect, Language: lang.String()}
	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	target := b.opts.BasePath + lang.String() + "/"
	path := filepath.Join(b.opts.OutputDir, RedirectName)

	var buf bytes.Buffer

	if err := views.Redirect(target, lang).Render(ctx, &buf); err != nil {
		span.Error = err

		return "", err
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		span.Error = err

		return "", err
	}

	span.Files = 1
	span.Bytes = int64(buf.Len())

	if b.packer != nil {
		if _, err := b.packer.writeSiblings(path, buf.Bytes()); err != nil {
			span.Error = err

			return "", err
		}
	} else if err := removeSiblings(path); err != nil {
		span.Error = err

		return "", err
	}

	l.Debug().Str("path", path).Str("target", target).Msg("Wrote root redirect")

	return path, nil
}

// writeFileAtomic replaces path with data through a rename, so a reader never
// sees a partially written page.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return &WriteError{Path: path, Op: "write", Err: err}
	}

	return nil
}
