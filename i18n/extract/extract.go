// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract collects the placeholder keys used by a template tree.

The resulting Index can be written as a gettext template (.pot) whose
msgids are full key paths, audited against a dictionary, or used to list
text that still lacks placeholders.
*/
package extract

import (
	"cmp"
	"maps"
	"os"
	"slices"

	"codeberg.org/petstar/sitebuild/i18n"
)

// Ref is one use of a key in a template document.
type Ref struct {
	File string // slash separated, relative to the scanned root
	Line int
}

// Index maps every key found in a template tree to where it is used.
type Index struct {
	refs  map[i18n.Key][]Ref
	files int
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{refs: map[i18n.Key][]Ref{}}
}

// ScanTree indexes the placeholders of every template document below root.
func ScanTree(root string, extensions []string) (*Index, error) {
	idx := NewIndex()

	err := i18n.WalkTemplates(root, extensions, func(path, rel string) error {
		content, err := os.ReadFile(path) // #nosec G304 -- walking the configured template tree
		if err != nil {
			return err
		}

		idx.Add(rel, string(content))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return idx, nil
}

// Add indexes the placeholders in content under the name file.
func (idx *Index) Add(file, content string) {
	idx.files++

	for _, p := range i18n.FindPlaceholders(content) {
		idx.refs[p.Key] = append(idx.refs[p.Key], Ref{File: file, Line: p.Line})
	}
}

// Files returns the number of documents added.
func (idx *Index) Files() int {
	return idx.files
}

// Keys returns the indexed keys in sorted order.
func (idx *Index) Keys() []i18n.Key {
	return slices.Sorted(maps.Keys(idx.refs))
}

// Refs returns the uses of key sorted by file and line, without duplicates.
func (idx *Index) Refs(key i18n.Key) []Ref {
	refs := slices.Clone(idx.refs[key])

	slices.SortFunc(refs, func(a, b Ref) int {
		return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line))
	})

	return slices.Compact(refs)
}

// Uses returns the total number of placeholder occurrences.
func (idx *Index) Uses() int {
	n := 0
	for _, refs := range idx.refs {
		n += len(refs)
	}

	return n
}
