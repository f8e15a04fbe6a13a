// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPO = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "hero.title"
msgstr "Bună ziua"

msgid "hero.subtitle"
msgstr ""
`

func TestResolveAcrossFormats(t *testing.T) {
	t.Parallel()

	sources := map[string]string{
		".json": `{"hero": {"title": "Hello", "tags": ["a", "b"], "none": null}, "flag": true}`,
		".yaml": "hero:\n  title: Hello\n  tags:\n    - a\n    - b\n  none: null\nflag: true\n",
		".toml": "flag = true\n\n[hero]\ntitle = \"Hello\"\ntags = [\"a\", \"b\"]\n",
	}

	for ext, src := range sources {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			dict, err := ParseDictionary(ext, []byte(src))
			require.NoError(t, err)

			tests := []struct {
				key    string
				want   string
				wantOK bool
			}{
				{key: "hero.title", want: "Hello", wantOK: true},
				{key: "hero.tags.1", want: "b", wantOK: true},
				{key: "flag", want: "true", wantOK: true},
				{key: "hero", wantOK: false},
				{key: "hero.tags", wantOK: false},
				{key: "hero.tags.9", wantOK: false},
				{key: "hero.none", wantOK: false},
				{key: "hero.title.deeper", wantOK: false},
				{key: "missing", wantOK: false},
				{key: "Hero.Title", wantOK: false},
				{key: "hero..title", wantOK: false},
				{key: "", wantOK: false},
			}

			for _, tt := range tests {
				got, ok := Resolve(dict, tt.key)
				assert.Equal(t, tt.wantOK, ok, "key %q", tt.key)
				assert.Equal(t, tt.want, got, "key %q", tt.key)
			}
		})
	}
}

func TestResolveNilDictionary(t *testing.T) {
	t.Parallel()

	got, ok := Resolve(nil, "hero.title")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestJSONKeysWithSpecialCharacters(t *testing.T) {
	t.Parallel()

	dict := mustJSON(t, `{"faq": {"what?": "Ce?", "a*b": "star", "@x": "at"}}`)

	for key, want := range map[string]string{"faq.what?": "Ce?", "faq.a*b": "star", "faq.@x": "at"} {
		got, ok := Resolve(dict, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestPODictionary(t *testing.T) {
	t.Parallel()

	dict, err := ParseDictionary(".po", []byte(testPO))
	require.NoError(t, err)

	got, ok := Resolve(dict, "hero.title")
	assert.True(t, ok)
	assert.Equal(t, "Bună ziua", got)

	_, ok = Resolve(dict, "hero.subtitle")
	assert.False(t, ok, "empty msgstr must not resolve")

	assert.False(t, CanListKeys(dict))
}

func TestPODictionaryKeepsFormatVerbs(t *testing.T) {
	t.Parallel()

	po := `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "promo.discount"
msgstr "Save 100% on %s today"
`

	dict, err := ParseDictionary(".po", []byte(po))
	require.NoError(t, err)

	got, ok := Resolve(dict, "promo.discount")
	require.True(t, ok)
	assert.Equal(t, "Save 100% on %s today", got)
}

func TestDictionaryKeys(t *testing.T) {
	t.Parallel()

	want := []string{"flag", "hero.tags.0", "hero.tags.1", "hero.title"}

	jsonDict := mustJSON(t, `{"hero": {"title": "Hello", "tags": ["a", "b"], "none": null}, "flag": 1}`)
	require.True(t, CanListKeys(jsonDict))
	assert.Equal(t, want, jsonDict.(KeyLister).Keys())

	yamlDict, err := ParseDictionary(".yaml", []byte("hero:\n  title: Hello\n  tags: [a, b]\n  none: null\nflag: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, want, yamlDict.(KeyLister).Keys())
}

func TestParseDictionaryErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseDictionary(".json", []byte(`{"hero": `))
	require.ErrorIs(t, err, errMalformedJSON)

	_, err = ParseDictionary(".json", []byte(`["not", "an", "object"]`))
	require.ErrorIs(t, err, errRootNotObject)

	_, err = ParseDictionary(".yaml", []byte("- a\n- b\n"))
	require.Error(t, err)

	_, err = ParseDictionary(".ini", []byte("a=b"))
	require.ErrorIs(t, err, errUnsupportedFormat)
}

func TestLoadDictionary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"hero": {"title": "Hello"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ro.yaml"), []byte("hero:\n  title: Salut\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pt_BR.toml"), []byte("[hero]\ntitle = \"Olá\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.json"), []byte(`{"hero": `), 0o600))

	for lang, want := range map[Language]string{"en": "Hello", "ro": "Salut", "pt-BR": "Olá"} {
		dict, err := LoadDictionary(dir, lang)
		require.NoError(t, err, lang)

		got, ok := Resolve(dict, "hero.title")
		assert.True(t, ok, lang)
		assert.Equal(t, want, got, lang)
	}

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		dict, err := LoadDictionary(dir, "fr")

		var loadErr *DictionaryLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, Language("fr"), loadErr.Language)
		assert.True(t, errors.Is(err, ErrDictionaryNotFound))
		assert.Equal(t, Empty, dict)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		dict, err := LoadDictionary(dir, "de")

		var loadErr *DictionaryLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, filepath.Join(dir, "de.json"), loadErr.Path)
		assert.ErrorIs(t, err, errMalformedJSON)
		assert.Equal(t, Empty, dict)
	})
}
