// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/petstar/sitebuild/i18n"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func TestScanTree(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"index.html":        "<h1>{{t hero.title}}</h1>\n<p>{{t hero.body}}</p>\n<p>{{t hero.title}}</p>",
		"about/team.htm":    "\n\n{{t  team.heading }}",
		"style.css":         "/* {{t not.scanned}} */",
		".drafts/wip.html":  "{{t hidden.key}}",
		"about/.notes.html": "{{t hidden.note}}",
	})

	idx, err := ScanTree(root, []string{".html", ".htm"})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Files())
	assert.Equal(t, 4, idx.Uses())
	assert.Equal(t, []i18n.Key{"hero.body", "hero.title", "team.heading"}, idx.Keys())
	assert.Equal(t, []Ref{{File: "index.html", Line: 1}, {File: "index.html", Line: 3}}, idx.Refs("hero.title"))
	assert.Equal(t, []Ref{{File: "about/team.htm", Line: 3}}, idx.Refs("team.heading"))
	assert.Empty(t, idx.Refs("not.scanned"))
}

func TestScanTreeMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := ScanTree(filepath.Join(t.TempDir(), "absent"), []string{".html"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRefsAreDeduplicated(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	idx.Add("b.html", "{{t k}}")
	idx.Add("a.html", "{{t k}} {{t k}}")

	assert.Equal(t, []Ref{{File: "a.html", Line: 1}, {File: "b.html", Line: 1}}, idx.Refs("k"))
	assert.Equal(t, 3, idx.Uses())
}

func TestWritePOT(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	idx.Add("index.html", "{{t nav.home}}\n{{t hero.title}}")
	idx.Add("about.html", "{{t nav.home}}")

	var b strings.Builder

	created := time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, idx.WritePOT(&b, "v1.2.0", created))

	want := `msgid ""
msgstr ""
"Project-Id-Version: sitebuild v1.2.0\n"
"POT-Creation-Date: 2025-03-04 10:30+0000\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"

#: index.html:2
msgid "hero.title"
msgstr ""

#: about.html:1 index.html:1
msgid "nav.home"
msgstr ""
`
	assert.Equal(t, want, b.String())
}

func TestAudit(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	idx.Add("index.html", "{{t hero.title}} {{t hero.body}} {{t footer.note}}")

	dict, err := i18n.ParseDictionary(".json", []byte(`{"hero": {"title": "Hi", "body": "Text"}, "legacy": {"banner": "Old"}}`))
	require.NoError(t, err)

	a := idx.Audit(dict, "en")

	assert.Equal(t, i18n.Language("en"), a.Language)
	assert.Equal(t, []i18n.Key{"footer.note"}, a.Missing)
	assert.True(t, a.Listed)
	assert.Equal(t, []string{"legacy.banner"}, a.Unused)
	assert.False(t, a.Complete())
}

func TestAuditUnlistableDictionary(t *testing.T) {
	t.Parallel()

	po := "msgid \"\"\nmsgstr \"\"\n\"Content-Type: text/plain; charset=UTF-8\\n\"\n\nmsgid \"hero.title\"\nmsgstr \"Salut\"\n"

	dict, err := i18n.ParseDictionary(".po", []byte(po))
	require.NoError(t, err)

	idx := NewIndex()
	idx.Add("index.html", "{{t hero.title}}")

	a := idx.Audit(dict, "ro")

	assert.True(t, a.Complete())
	assert.False(t, a.Listed)
	assert.Empty(t, a.Unused)
}
