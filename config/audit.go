// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/core/audit"
)

const logFilePermissions = 0o666

var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// setupAudit points the global logger at the configured outputs.
func (cfg *BuildConfig) setupAudit() {
	level := logLevels[cfg.Log.Level]
	if cfg.Development.InDevelopment {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{}

	for _, output := range cfg.Log.Outputs {
		w, err := cfg.logWriter(output)
		if err != nil {
			// If opening the file fails, we simply don't add it to the writers.
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

			continue
		}

		writers = append(writers, w)
	}

	if len(writers) == 0 {
		writers = append(writers, audit.ConsoleWriter(os.Stderr))
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}

func (cfg *BuildConfig) logWriter(output string) (io.Writer, error) {
	var f *os.File

	switch output {
	case "/dev/stdout":
		f = os.Stdout
	case "/dev/stderr":
		f = os.Stderr
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
		if err != nil {
			return nil, err
		}

		f = file
	}

	if cfg.Log.Format == "json" {
		return f, nil
	}

	return audit.ConsoleWriter(f), nil
}
