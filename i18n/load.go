// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/leonelquinteros/gotext"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// DictionaryExtensions lists the accepted dictionary file extensions in the
// order they are tried. The first file found for a language wins.
var DictionaryExtensions = []string{".json", ".yaml", ".yml", ".toml", ".po"}

var (
	// ErrDictionaryNotFound is reported when no dictionary file exists for a language.
	ErrDictionaryNotFound = errors.New("dictionary file not found")

	errMalformedJSON     = errors.New("malformed JSON")
	errRootNotObject     = errors.New("dictionary root is not an object")
	errUnsupportedFormat = errors.New("unsupported dictionary format")
	errDictionaryIsDir   = errors.New("dictionary path is a directory")
)

// DictionaryLoadError reports a missing or malformed dictionary file.
//
// It is not fatal to a build: the language is built with [Empty] instead,
// which leaves every placeholder in place.
type DictionaryLoadError struct {
	Language Language
	Path     string
	Err      error
}

func (e *DictionaryLoadError) Error() string {
	return fmt.Sprintf("failed to load dictionary for %s from %s: %v", e.Language, e.Path, e.Err)
}

func (e *DictionaryLoadError) Unwrap() error {
	return e.Err
}

// LoadDictionary reads the dictionary for lang from dir.
//
// Files are looked up as <lang><ext> for each of [DictionaryExtensions], also
// trying an underscore separator for regional tags ("pt_BR.json").
//
// On failure LoadDictionary returns [Empty] together with a
// *[DictionaryLoadError], so callers may log the error and carry on.
func LoadDictionary(dir string, lang Language) (Dictionary, error) {
	for _, stem := range lang.fileStems() {
		for _, ext := range DictionaryExtensions {
			path := filepath.Join(dir, stem+ext)

			info, err := os.Stat(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			if err == nil && info.IsDir() {
				err = errDictionaryIsDir
			}

			if err != nil {
				return Empty, &DictionaryLoadError{Language: lang, Path: path, Err: err}
			}

			data, err := os.ReadFile(path) // #nosec G304 -- path is built from configured locales directory
			if err != nil {
				return Empty, &DictionaryLoadError{Language: lang, Path: path, Err: err}
			}

			dict, err := ParseDictionary(ext, data)
			if err != nil {
				return Empty, &DictionaryLoadError{Language: lang, Path: path, Err: err}
			}

			logger().Debug().
				Str("lang", lang.String()).
				Str("path", path).
				Msg("Loaded dictionary")

			return dict, nil
		}
	}

	return Empty, &DictionaryLoadError{
		Language: lang,
		Path:     filepath.Join(dir, string(lang)+DictionaryExtensions[0]),
		Err:      ErrDictionaryNotFound,
	}
}

// ParseDictionary decodes data according to the file extension ext.
func ParseDictionary(ext string, data []byte) (Dictionary, error) {
	switch ext {
	case ".json":
		if !gjson.ValidBytes(data) {
			return nil, errMalformedJSON
		}

		if !gjson.ParseBytes(data).IsObject() {
			return nil, errRootNotObject
		}

		return jsonDictionary{raw: data}, nil
	case ".yaml", ".yml":
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}

		return Mapping(m), nil
	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}

		return Mapping(m), nil
	case ".po":
		po := gotext.NewPo()
		po.Parse(data)

		return newPODictionary(po), nil
	}

	return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
}
