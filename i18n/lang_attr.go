// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"golang.org/x/net/html"
)

const htmlTagPrefixLen = len("<html")

// SetLanguageAttribute sets the lang attribute of the root <html> element in
// content to lang.
//
// An existing lang attribute has its value overwritten in place; otherwise
// lang="..." is appended after the last attribute. The rest of the document,
// including the other attributes of the element, is left untouched. Content
// without an <html> start tag is returned unchanged.
//
// The element is located with an HTML tokenizer, so markup that only looks
// like an <html> tag inside comments, scripts or attribute values is ignored.
func SetLanguageAttribute(content string, lang Language) string {
	start, end, ok := findHTMLStartTag(content)
	if !ok {
		return content
	}

	return content[:start] + rewriteLangAttr(content[start:end], lang) + content[end:]
}

// findHTMLStartTag returns the byte span of the first <html> start tag.
func findHTMLStartTag(content string) (int, int, bool) {
	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, 0, false
		}

		// Raw must be measured before TagName, which may reuse the buffer.
		n := len(z.Raw())

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if name, _ := z.TagName(); string(name) == "html" {
				return offset, offset + n, true
			}
		}

		offset += n
	}
}

// rewriteLangAttr rewrites the raw text of an <html ...> start tag.
func rewriteLangAttr(tag string, lang Language) string {
	attr := `lang="` + html.EscapeString(string(lang)) + `"`

	i := htmlTagPrefixLen
	insertAt := i

	for i < len(tag) {
		i = skipAttrSpace(tag, i)
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			break
		}

		nameStart := i
		for i < len(tag) && !isAttrSpace(tag[i]) && tag[i] != '=' && tag[i] != '>' && tag[i] != '/' {
			i++
		}

		name := tag[nameStart:i]

		if j := skipSpace(tag, i); j < len(tag) && tag[j] == '=' {
			i = skipValue(tag, skipSpace(tag, j+1))
		}

		if strings.EqualFold(name, "lang") {
			return tag[:nameStart] + attr + tag[i:]
		}

		insertAt = i
	}

	return tag[:insertAt] + " " + attr + tag[insertAt:]
}

// skipAttrSpace skips whitespace and stray slashes that are not part of "/>".
func skipAttrSpace(tag string, i int) int {
	for i < len(tag) {
		switch {
		case isAttrSpace(tag[i]):
			i++
		case tag[i] == '/' && i+1 < len(tag) && tag[i+1] != '>':
			i++
		default:
			return i
		}
	}

	return i
}

func skipSpace(tag string, i int) int {
	for i < len(tag) && isAttrSpace(tag[i]) {
		i++
	}

	return i
}

// skipValue returns the index just past the attribute value starting at i.
func skipValue(tag string, i int) int {
	if i >= len(tag) {
		return i
	}

	if q := tag[i]; q == '"' || q == '\'' {
		if end := strings.IndexByte(tag[i+1:], q); end >= 0 {
			return i + 1 + end + 1
		}

		return len(tag)
	}

	for i < len(tag) && !isAttrSpace(tag[i]) && tag[i] != '>' {
		i++
	}

	return i
}

func isAttrSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
