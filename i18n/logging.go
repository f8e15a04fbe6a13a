// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger derives the package logger from the current global logger, so
// outputs configured after package initialisation are honoured.
func logger() *zerolog.Logger {
	l := log.With().Str("sys", "i18n").Logger()

	return &l
}

// LogMissing emits one warning per missing key occurrence in file.
func LogMissing(l zerolog.Logger, file string, missing []MissingKey) {
	for _, m := range missing {
		l.Warn().
			Str("lang", m.Language.String()).
			Str("key", m.Key).
			Str("file", file).
			Int("line", m.Line).
			Msg("Missing translation")
	}
}
