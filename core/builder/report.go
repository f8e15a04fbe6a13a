// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/i18n"
)

// MissingTranslation is a placeholder that stayed unresolved in one output
// document.
type MissingTranslation struct {
	File string // template-relative path, slash separated
	Key  string
	Line int
}

// LanguageReport summarises the output produced for one language.
type LanguageReport struct {
	Language i18n.Language
	Dir      string

	Documents int // translated template documents
	Copied    int // other template-tree files copied unchanged
	Assets    int // files copied from the asset directory
	Bytes     int64

	Missing         []MissingTranslation
	DictionaryError error
	WriteErrors     []error
	AssetErrors     []error
}

// Failed reports whether any output for the language could not be written.
func (r *LanguageReport) Failed() bool {
	return len(r.WriteErrors) > 0 || len(r.AssetErrors) > 0
}

// Report is the outcome of one Build call.
type Report struct {
	RunID     string
	Languages []*LanguageReport
	Redirect  string // path of the root redirect page, empty if not written
	Duration  time.Duration
}

// Files returns the number of files written across all languages.
func (r *Report) Files() int {
	n := 0
	for _, lr := range r.Languages {
		if lr != nil {
			n += lr.Documents + lr.Copied + lr.Assets
		}
	}

	return n
}

// MissingCount returns the number of unresolved placeholders across all
// languages.
func (r *Report) MissingCount() int {
	n := 0
	for _, lr := range r.Languages {
		if lr != nil {
			n += len(lr.Missing)
		}
	}

	return n
}

// Log writes the build summary: one line per language followed by a total.
// l is expected to carry the run id.
func (r *Report) Log(l zerolog.Logger) {
	for _, lr := range r.Languages {
		event := l.Info()
		if lr.Failed() || lr.DictionaryError != nil {
			event = l.Warn()
		}

		event.
			Str("lang", lr.Language.String()).
			Int("documents", lr.Documents).
			Int("copied", lr.Copied).
			Int("assets", lr.Assets).
			Str("len", audit.HumanizeSize(lr.Bytes)).
			Int("missing", len(lr.Missing)).
			Int("writeErrors", len(lr.WriteErrors)+len(lr.AssetErrors)).
			Bool("dictionary", lr.DictionaryError == nil).
			Msg("Language built")
	}

	l.Info().
		Int("languages", len(r.Languages)).
		Int("files", r.Files()).
		Int("missing", r.MissingCount()).
		Str("redirect", r.Redirect).
		Dur("dur", r.Duration).
		Msg("Build finished")
}
