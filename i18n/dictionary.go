// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/tidwall/gjson"
)

// Dictionary maps key paths to localized strings for a single language.
//
// Lookup receives a key that has already been validated with [Key.Valid].
// Only scalar leaves (strings, numbers and booleans) resolve; null values,
// objects and arrays are reported as not found.
type Dictionary interface {
	Lookup(keyPath string) (string, bool)
}

// KeyLister is implemented by dictionaries that can enumerate every key path
// that resolves in them.
type KeyLister interface {
	Keys() []string
}

// Empty is the dictionary used when a language's dictionary could not be loaded.
// No key resolves in it.
var Empty Dictionary = Mapping(nil)

// Resolve looks keyPath up in d.
//
// It returns false when d is nil, when keyPath is not a valid [Key], or when
// any segment of the path is missing. Resolve never panics.
func Resolve(d Dictionary, keyPath string) (string, bool) {
	if d == nil {
		return "", false
	}

	key := Key(keyPath)
	if !key.Valid() {
		return "", false
	}

	return d.Lookup(strings.TrimSpace(keyPath))
}

// CanListKeys reports whether d can enumerate its keys.
func CanListKeys(d Dictionary) bool {
	_, ok := d.(KeyLister)

	return ok
}

// Mapping is a nested key→value tree, as decoded from YAML or TOML.
// Numeric segments index into lists.
type Mapping map[string]any

// Lookup implements [Dictionary].
func (m Mapping) Lookup(keyPath string) (string, bool) {
	var node any = map[string]any(m)

	for segment := range strings.SplitSeq(keyPath, ".") {
		next, ok := child(node, segment)
		if !ok {
			return "", false
		}

		node = next
	}

	return scalarText(node)
}

// Keys implements [KeyLister]. The result is sorted.
func (m Mapping) Keys() []string {
	var keys []string

	collectKeys(map[string]any(m), "", &keys)
	sort.Strings(keys)

	return keys
}

func child(node any, segment string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[segment]

		return v, ok
	case Mapping:
		v, ok := n[segment]

		return v, ok
	case map[any]any:
		v, ok := n[segment]

		return v, ok
	case []any:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}

		return n[i], true
	default:
		return nil, false
	}
}

func collectKeys(node any, prefix string, keys *[]string) {
	join := func(segment string) string {
		if prefix == "" {
			return segment
		}

		return prefix + "." + segment
	}

	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			collectKeys(v, join(k), keys)
		}
	case Mapping:
		for k, v := range n {
			collectKeys(v, join(k), keys)
		}
	case map[any]any:
		for k, v := range n {
			collectKeys(v, join(fmt.Sprint(k)), keys)
		}
	case []any:
		for i, v := range n {
			collectKeys(v, join(strconv.Itoa(i)), keys)
		}
	default:
		if _, ok := scalarText(node); ok && prefix != "" {
			*keys = append(*keys, prefix)
		}
	}
}

// scalarText renders a decoded leaf value as text.
func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

// jsonDictionary keeps the raw JSON document and queries it with gjson.
type jsonDictionary struct {
	raw []byte
}

// Lookup implements [Dictionary].
func (d jsonDictionary) Lookup(keyPath string) (string, bool) {
	segments := strings.Split(keyPath, ".")
	for i, s := range segments {
		segments[i] = gjson.Escape(s)
	}

	result := gjson.GetBytes(d.raw, strings.Join(segments, "."))

	switch result.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return result.String(), true
	default:
		return "", false
	}
}

// Keys implements [KeyLister]. The result is sorted.
func (d jsonDictionary) Keys() []string {
	var keys []string

	var walk func(r gjson.Result, prefix string)

	walk = func(r gjson.Result, prefix string) {
		index := 0

		r.ForEach(func(k, v gjson.Result) bool {
			segment := k.String()
			if r.IsArray() {
				segment = strconv.Itoa(index)
				index++
			}

			path := segment
			if prefix != "" {
				path = prefix + "." + segment
			}

			if v.IsObject() || v.IsArray() {
				walk(v, path)
			} else if v.Type != gjson.Null {
				keys = append(keys, path)
			}

			return true
		})
	}

	walk(gjson.ParseBytes(d.raw), "")
	sort.Strings(keys)

	return keys
}

// poDictionary resolves key paths as msgids in a gettext catalogue.
// Entries with an empty msgstr do not resolve.
type poDictionary struct {
	entries map[string]string
}

// newPODictionary copies the translated entries out of po once, so lookups
// never run msgstr text through the catalogue's printf formatting.
func newPODictionary(po *gotext.Po) poDictionary {
	d := poDictionary{entries: map[string]string{}}

	for id, tr := range po.GetDomain().GetTranslations() {
		if id != "" && po.IsTranslated(id) {
			d.entries[id] = tr.Get()
		}
	}

	return d
}

// Lookup implements [Dictionary].
func (d poDictionary) Lookup(keyPath string) (string, bool) {
	v, ok := d.entries[keyPath]

	return v, ok
}
