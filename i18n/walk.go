// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// WalkTemplates calls fn for every template document below root in lexical
// order. rel is the slash separated path relative to root. Hidden files and
// directories are skipped.
func WalkTemplates(root string, extensions []string, fn func(path, rel string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !IsTemplateDocument(path, extensions) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		return fn(path, filepath.ToSlash(rel))
	})
}
