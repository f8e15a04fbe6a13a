// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "strings"

// Key is a dot-separated key path into a dictionary, such as "hero.title".
type Key string

// Segments splits k into its path segments.
//
// Surrounding whitespace is ignored. An empty key has no segments.
func (k Key) Segments() []string {
	s := strings.TrimSpace(string(k))
	if s == "" {
		return nil
	}

	return strings.Split(s, ".")
}

// Valid reports whether k has at least one segment and no empty segments.
// Keys such as "hero..title" or ".hero" never resolve.
func (k Key) Valid() bool {
	segments := k.Segments()
	if len(segments) == 0 {
		return false
	}

	for _, s := range segments {
		if s == "" {
			return false
		}
	}

	return true
}

// Placeholder returns the template marker for k, e.g. "{{t hero.title}}".
func (k Key) Placeholder() string {
	return "{{t " + strings.TrimSpace(string(k)) + "}}"
}
