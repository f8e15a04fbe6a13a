// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedSliceType    = errors.New("unsupported slice type")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

var durationType = reflect.TypeFor[time.Duration]()

// envTag is a parsed `env:"NAME,overwrite"` struct tag.
type envTag struct {
	name      string
	overwrite bool
}

func parseEnvTag(field reflect.StructField) (envTag, bool) {
	raw := field.Tag.Get("env")
	if raw == "" {
		return envTag{}, false
	}

	parts := strings.Split(raw, ",")

	return envTag{name: parts[0], overwrite: slices.Contains(parts[1:], "overwrite")}, true
}

// readEnv populates the struct spec points to with values from the
// environment variables named by its env tags. Untagged struct fields are
// descended into.
//
// Fields tagged with ",overwrite" take the variable's value even when
// already set; other fields are only filled while still zero.
func readEnv(spec any) error {
	structValue := reflect.ValueOf(spec)
	if structValue.Kind() != reflect.Pointer {
		return fmt.Errorf("%w, got %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structValue = structValue.Elem()
	if structValue.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got a pointer to %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structType := structValue.Type()

	for fieldIndex := range structValue.NumField() {
		field := structValue.Field(fieldIndex)
		fieldType := structType.Field(fieldIndex)

		if !field.CanSet() {
			continue
		}

		tag, tagged := parseEnvTag(fieldType)
		if !tagged {
			if field.Kind() == reflect.Struct {
				if err := readEnv(field.Addr().Interface()); err != nil {
					return err
				}
			}

			continue
		}

		envValue, exists := os.LookupEnv(tag.name)
		if !exists {
			// Default values are handled by SetDefaults.
			continue
		}

		if !tag.overwrite && !field.IsZero() {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("env var %s for %s (%q): %w", tag.name, fieldType.Name, envValue, err)
		}
	}

	return nil
}

// setFieldValue parses raw according to the kind of field and stores it.
// Named string types, such as language tags, are accepted as strings.
func setFieldValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}

			field.SetInt(int64(d))

			return nil
		}

		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return errUnsupportedSliceType
		}

		items := splitList(raw)
		slice := reflect.MakeSlice(field.Type(), len(items), len(items))

		for i, item := range items {
			slice.Index(i).SetString(item)
		}

		field.Set(slice)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Kind())
	}

	return nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(raw string) []string {
	values := strings.Split(raw, ",")
	out := make([]string, 0, len(values))

	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
//
// Variables that are already set are never overridden. This function soft
// fails if the .env file doesn't exist in either location.
func useDotEnv() error {
	var candidates []string

	if cwd, err := os.Getwd(); err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}

	for _, envPath := range candidates {
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("parsing %s: %w", envPath, err)
		}

		log.Info().
			Str("path", envPath).
			Msg("Loaded configuration from .env file")

		return nil
	}

	log.Debug().Msg("No .env file found, skipping")

	return nil
}
