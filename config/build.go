// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of sitebuild.
const BuildVersion string = "v1.2.0"

const shortRevisionLength = 8

type buildInfo struct {
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision returns the commit date and short hash the binary was built
// from, or "unknown" outside a VCS checkout.
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return "unknown"
	}

	rev := b.VcsRevision
	if len(rev) > shortRevisionLength {
		rev = rev[:shortRevisionLength]
	}

	s := rev
	if date, _, _ := strings.Cut(b.VcsTime, "T"); date != "" {
		s = date + "-" + rev
	}

	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

func (b *buildInfo) load() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	settings := make(map[string]string, len(info.Settings))
	for _, kv := range info.Settings {
		settings[kv.Key] = kv.Value
	}

	b.VcsRevision = settings["vcs.revision"]
	b.VcsTime = settings["vcs.time"]
	b.VcsModified = settings["vcs.modified"] == "true"
}
