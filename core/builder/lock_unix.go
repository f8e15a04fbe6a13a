// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build unix

package builder

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// outputLock is an advisory flock held on a file next to the output
// directory for the duration of a build.
type outputLock struct {
	f *os.File
}

func lockOutput(outDir string) (*outputLock, error) {
	path := lockPath(outDir)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "lock", Err: err}
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrBuildInProgress
		}

		return nil, &WriteError{Path: path, Op: "lock", Err: err}
	}

	return &outputLock{f: f}, nil
}

// release drops the lock. The lock file itself is left in place so a
// concurrent builder never locks an unlinked inode.
func (l *outputLock) release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		_ = l.f.Close()

		return err
	}

	return l.f.Close()
}
