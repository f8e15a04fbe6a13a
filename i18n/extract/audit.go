// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"slices"

	"codeberg.org/petstar/sitebuild/i18n"
)

// Audit compares the keys a template tree uses with one dictionary.
type Audit struct {
	Language i18n.Language

	// Missing lists keys used by templates that the dictionary cannot
	// resolve.
	Missing []i18n.Key

	// Unused lists dictionary keys no template uses. It is only filled
	// when the dictionary can enumerate its keys; see Listed.
	Unused []string
	Listed bool
}

// Complete reports whether every used key resolves.
func (a Audit) Complete() bool {
	return len(a.Missing) == 0
}

// Audit checks dict against the keys in idx.
func (idx *Index) Audit(dict i18n.Dictionary, lang i18n.Language) Audit {
	a := Audit{Language: lang}

	for _, k := range idx.Keys() {
		if _, ok := i18n.Resolve(dict, string(k)); !ok {
			a.Missing = append(a.Missing, k)
		}
	}

	lister, ok := dict.(i18n.KeyLister)
	if !ok {
		return a
	}

	a.Listed = true

	for _, k := range lister.Keys() {
		if _, used := idx.refs[i18n.Key(k)]; !used {
			a.Unused = append(a.Unused, k)
		}
	}

	slices.Sort(a.Unused)

	return a
}
