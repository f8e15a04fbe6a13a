// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// placeholderPattern matches {{t key.path}}. The key is any run of
// characters other than '}' and is trimmed before lookup.
var placeholderPattern = regexp.MustCompile(`\{\{t\s+([^}]+)\}\}`)

// MissingKey describes a placeholder occurrence whose key did not resolve.
type MissingKey struct {
	Key      string
	Language Language
	Line     int // 1-based line of the placeholder in the source document
}

// Placeholder is a placeholder occurrence in a document.
type Placeholder struct {
	Key  Key
	Line int
}

// TranslateDocument replaces every placeholder in content whose key resolves
// in dict.
//
// Unresolved placeholders are copied to the output verbatim and reported in
// the returned slice, one entry per occurrence in document order. Replacement
// values are not scanned for further placeholders.
func TranslateDocument(content string, dict Dictionary, lang Language) (string, []MissingKey) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var (
		b       strings.Builder
		missing []MissingKey
		lines   = NewLineCounter(content)
		last    int
	)

	b.Grow(len(content))

	for _, m := range matches {
		b.WriteString(content[last:m[0]])

		key := strings.TrimSpace(content[m[2]:m[3]])

		if value, ok := Resolve(dict, key); ok {
			b.WriteString(value)
		} else {
			b.WriteString(content[m[0]:m[1]])

			missing = append(missing, MissingKey{
				Key:      key,
				Language: lang,
				Line:     lines.Line(m[0]),
			})
		}

		last = m[1]
	}

	b.WriteString(content[last:])

	return b.String(), missing
}

// FindPlaceholders returns every placeholder in content in document order.
func FindPlaceholders(content string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	lines := NewLineCounter(content)
	out := make([]Placeholder, 0, len(matches))

	for _, m := range matches {
		out = append(out, Placeholder{
			Key:  Key(strings.TrimSpace(content[m[2]:m[3]])),
			Line: lines.Line(m[0]),
		})
	}

	return out
}

// IsTemplateDocument reports whether the file name has one of the template
// extensions. Comparison is case-insensitive; extensions include the dot.
func IsTemplateDocument(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}

	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// LineCounter converts increasing byte offsets into 1-based line numbers
// without rescanning the document from the start.
type LineCounter struct {
	content string
	offset  int
	line    int
}

func NewLineCounter(content string) *LineCounter {
	return &LineCounter{content: content, line: 1}
}

// Line returns the line of offset. Offsets smaller than a previous call
// report the previous line.
func (c *LineCounter) Line(offset int) int {
	if offset > c.offset {
		c.line += strings.Count(c.content[c.offset:offset], "\n")
		c.offset = offset
	}

	return c.line
}
