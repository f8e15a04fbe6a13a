// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit sets up logging and times the phases of a build.
*/
package audit

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
func SetDefaultLogger() {
	log.Logger = log.Output(ConsoleWriter(os.Stderr))
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleWriter returns a human-readable writer for zerolog, colored only when
// f is a terminal.
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isTerminal(f)

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	w.FormatPrepare = func(m map[string]any) error {
		// prefix per-language messages with the language
		if lang, ok := m["lang"].(string); ok && m["sys"] == "build" {
			m["message"] = "[" + lang + "] " + toString(m["message"])
			delete(m, "lang")
		}

		return nil
	}

	return w
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return ""
}
