// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// YAML renders cfg as YAML with human-readable durations.
func (cfg *BuildConfig) YAML() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg, GetDurationEncoderOption())
}

func (cfg *BuildConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Bool("watch", cfg.Watch.Enabled).
		Msg("Starting sitebuild")

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
