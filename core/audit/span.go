// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Phase names a stage of a build.
type Phase string

// Build phases, in the order they run.
const (
	PhaseLoadDictionary Phase = "load-dictionary"
	PhaseTranslate      Phase = "translate"
	PhaseCopyAssets     Phase = "copy-assets"
	PhaseRedirect       Phase = "write-redirect"
	PhaseBuild          Phase = "build"
)

// Span represents a build phase in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Phase    Phase
	Language string
	Files    int
	Bytes    int64
	Error    error
}

// Begin starts timing the span and opens a runtime/trace task for it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "build."+string(span.Phase))
	if span.Language != "" {
		trace.Log(ctx, "lang", span.Language)
	}

	return ctx
}

// End stops the span. Calling End more than once has no further effect.
func (span *Span) End() {
	// only end once
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Duration reports how long the span ran. It is zero until End is called.
func (span *Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span at debug level.
func (span Span) Log() {
	event := log.Debug()

	event.Str("sys", "build")
	event.Str("phase", string(span.Phase))

	if span.Language != "" {
		event.Str("lang", span.Language)
	}

	event.Int("files", span.Files)
	event.Str("len", HumanizeSize(span.Bytes))
	event.Dur("dur", span.duration)

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Msg("Phase finished")
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

// HumanizeSize formats a byte count with a binary K/M/G suffix.
func HumanizeSize(x int64) string {
	if x < bytesInKB {
		return strconv.FormatInt(x, 10)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
