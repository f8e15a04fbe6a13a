// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves translation placeholders in language-neutral HTML
templates against per-language dictionaries.

# Placeholders

A template marks translatable text with a placeholder naming a dot-separated
key path:

	<h1>{{t hero.title}}</h1>

[TranslateDocument] replaces every placeholder whose key resolves in the
dictionary. A placeholder whose key does not resolve is left in the output
unchanged and reported as a [MissingKey], once per occurrence.

# Dictionaries

One dictionary file exists per language in the locales directory, named after
the language identifier:

	locales/en.json
	locales/ro.yaml

JSON, YAML, TOML and gettext .po files are accepted. JSON, YAML and TOML
dictionaries are nested objects addressed by key path, so "hero.title"
resolves dictionary.hero.title. In .po files the msgid is the full key path.

# Language attribute

[SetLanguageAttribute] stamps the root <html> element with the target
language, overwriting an existing lang attribute and leaving every other
attribute byte-for-byte intact.
*/
package i18n
