// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package idgen makes short identifiers for build runs.

Every log line emitted during one build carries the same run ID, so
interleaved output from overlapping watch rebuilds can be told apart.
*/
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// RunID makes a short build run ID: the wall clock time as HHMMSS
// followed by 3 bytes of entropy.
func RunID() string {
	return runID(time.Now())
}

func runID(t time.Time) string {
	entropy := [3]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return clockStamp(t) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func clockStamp(t time.Time) string {
	return t.Format("150405")
}
