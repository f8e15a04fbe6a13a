// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLocale is the language used when none is configured.
const BaseLocale Language = "en"

var errEmptyLanguage = errors.New("empty language identifier")

// Language is a canonical BCP 47 language identifier, for example "en" or "pt-BR".
type Language string

// ParseLanguage canonicalises s into a Language.
//
// Both hyphen and underscore separators are accepted, so "pt_BR" and "pt-br"
// both yield "pt-BR".
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyLanguage
	}

	t, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid language identifier %q: %w", s, err)
	}

	return Language(t.String()), nil
}

// ParseLanguages parses every entry of list, dropping duplicates while keeping
// the first occurrence's position.
func ParseLanguages(list []string) ([]Language, error) {
	out := make([]Language, 0, len(list))
	seen := make(map[Language]struct{}, len(list))

	for _, s := range list {
		lang, err := ParseLanguage(s)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[lang]; dup {
			continue
		}

		seen[lang] = struct{}{}

		out = append(out, lang)
	}

	return out, nil
}

// Tag returns the language.Tag for l.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

func (l Language) String() string {
	return string(l)
}

// DisplayName returns the name of the language in the language itself,
// for example "English" or "română". Unknown languages yield their identifier.
func (l Language) DisplayName() string {
	if name := display.Self.Name(l.Tag()); name != "" {
		return name
	}

	return string(l)
}

// fileStems returns the dictionary file name stems tried for l.
func (l Language) fileStems() []string {
	stem := string(l)
	if alt := strings.ReplaceAll(stem, "-", "_"); alt != stem {
		return []string{stem, alt}
	}

	return []string{stem}
}
