// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"errors"
	"fmt"
)

// ErrBuildInProgress is returned when another process holds the output lock.
var ErrBuildInProgress = errors.New("another build is writing to the output directory")

var (
	errMissingRoot   = errors.New("directory does not exist")
	errRootNotDir    = errors.New("path is not a directory")
	errNoLanguages   = errors.New("no languages configured")
	errNoDefaultLang = errors.New("default language is not among the configured languages")
	errOutputInInput = errors.New("output directory is inside an input directory")
)

// ConfigurationError reports a problem with the build inputs that makes
// building impossible. It is raised before any output is written.
type ConfigurationError struct {
	Field string // e.g. "paths.templates"
	Path  string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}

	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// WriteError reports an output file that could not be created or written.
type WriteError struct {
	Path string
	Op   string // "mkdir", "write", "copy", "remove"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WritePolicy selects how a build reacts to a WriteError while producing
// template output.
type WritePolicy string

const (
	// FailFast aborts the build on the first write error, removing the
	// partially built language directory.
	FailFast WritePolicy = "fail-fast"
	// BestEffort records write errors in the report and keeps going.
	BestEffort WritePolicy = "best-effort"
)

// ParseWritePolicy returns the policy named by s.
func ParseWritePolicy(s string) (WritePolicy, error) {
	switch p := WritePolicy(s); p {
	case FailFast, BestEffort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown write error policy %q (want %q or %q)", s, FailFast, BestEffort)
	}
}
