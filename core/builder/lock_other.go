// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build !unix

package builder

import "github.com/rs/zerolog/log"

// outputLock is a no-op where flock is unavailable.
type outputLock struct{}

func lockOutput(outDir string) (*outputLock, error) {
	log.Debug().Str("sys", "build").Str("out", outDir).Msg("Output locking is not supported on this platform")

	return &outputLock{}, nil
}

func (*outputLock) release() error { return nil }
