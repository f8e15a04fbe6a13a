// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files in deploy/ from
// the configuration defaults.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/config"
	"codeberg.org/petstar/sitebuild/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# sitebuild configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Variables already set in the environment take precedence over this file.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# sitebuild configuration (via configuration file)
#
# Copy this file to sitebuild.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// essentialSettings are written uncommented since every site sets them.
var essentialSettings = map[string]bool{
	"SITEBUILD_TEMPLATES": true,
	"SITEBUILD_LOCALES":   true,
	"SITEBUILD_OUTPUT":    true,
	"SITEBUILD_LANGUAGES": true,
}

// essentialYAMLSections are kept uncommented in the YAML example.
var essentialYAMLSections = map[string]bool{
	"paths:":     true,
	"languages:": true,
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.BuildConfig{}
	cfg.SetDefaults()

	writeFile(envOutputFile, renderEnv(cfg))

	content, err := renderYAML(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	writeFile(yamlOutputFile, content)
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// renderEnv lists every env-tagged setting of cfg grouped by section.
func renderEnv(cfg *config.BuildConfig) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			tag, ok := innerTyp.Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			value := envValue(structValue.Field(j))

			switch {
			case essentialSettings[name]:
				fmt.Fprintf(&sb, "%s=\"%s\"\n", name, value)
			case value == "":
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%s\n", name, value)
			}
		}

		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// envValue formats v the way readEnv parses it back.
func envValue(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case []string:
		return strings.Join(x, ",")
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// renderYAML writes cfg as a YAML template where only the essential
// sections are active.
func renderYAML(cfg *config.BuildConfig) (string, error) {
	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	active := false

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "paths:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			active = essentialYAMLSections[trimmed]

			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if active {
			sb.WriteString(line + "\n")

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
