// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"

	"codeberg.org/petstar/sitebuild/i18n"
)

// Kind classifies a Suggestion.
type Kind string

const (
	KindTitle           Kind = "title"
	KindMetaDescription Kind = "meta-description"
	KindHeading         Kind = "heading"
	KindButton          Kind = "button"
)

// suggestSelector lists the elements whose text usually needs translating.
const suggestSelector = `title, meta[name="description"], h1, h2, h3, h4, h5, h6, [class*="btn"]`

// Suggestion is visible text in a template document that is not yet a
// placeholder.
type Suggestion struct {
	Kind Kind
	Tag  string // lowercase element name, e.g. "h2"
	Text string
	Line int // best effort; 0 when the text could not be located in the source
}

// Suggest lists translatable text in content that does not use a
// placeholder yet, in document order.
func Suggest(content string) ([]Suggestion, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var (
		out    []Suggestion
		cursor int
		lines  = i18n.NewLineCounter(content)
	)

	doc.Find(suggestSelector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		kind, text := classify(tag, s)

		text = collapseSpace(text)
		if text == "" || strings.Contains(text, "{{t ") {
			return
		}

		sg := Suggestion{Kind: kind, Tag: tag, Text: text}

		if off, ok := locate(content, cursor, text); ok {
			sg.Line = lines.Line(off)
			cursor = off + 1
		}

		out = append(out, sg)
	})

	return out, nil
}

func classify(tag string, s *goquery.Selection) (Kind, string) {
	switch tag {
	case "title":
		return KindTitle, s.Text()
	case "meta":
		return KindMetaDescription, s.AttrOr("content", "")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return KindHeading, s.Text()
	default:
		return KindButton, directText(s)
	}
}

// directText joins the text nodes that are immediate children of s, so a
// button's icon labels or nested markup are not reported twice.
func directText(s *goquery.Selection) string {
	var b strings.Builder

	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xhtml.TextNode {
				b.WriteString(c.Data)
				b.WriteByte(' ')
			}
		}
	}

	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// locate finds text in content at or after from. The parser has already
// unescaped entities, so the escaped form is tried as well.
func locate(content string, from int, text string) (int, bool) {
	for _, needle := range []string{text, html.EscapeString(text)} {
		if i := strings.Index(content[from:], needle); i >= 0 {
			return from + i, true
		}
	}

	// whitespace inside the element may have been collapsed; fall back to the
	// first word
	if first, _, _ := strings.Cut(text, " "); first != text {
		if i := strings.Index(content[from:], first); i >= 0 {
			return from + i, true
		}
	}

	return 0, false
}
