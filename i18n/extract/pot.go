// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// WritePOT writes idx as a gettext template. Each key becomes a msgid with
// its references as a "#:" comment.
func (idx *Index) WritePOT(w io.Writer, version string, created time.Time) error {
	b := bufio.NewWriter(w)

	writeHeader(b, version, created)

	keys := idx.Keys()

	for i, k := range keys {
		// Refs are sorted and compacted, so every reference appears once.
		fmt.Fprint(b, "#:")

		for _, r := range idx.Refs(k) {
			fmt.Fprintf(b, " %s:%d", r.File, r.Line)
		}

		fmt.Fprintln(b)
		fmt.Fprintf(b, "msgid %q\n", string(k))
		fmt.Fprintln(b, `msgstr ""`)

		// Add a separating blank line, but not after the very last entry.
		if i < len(keys)-1 {
			fmt.Fprintln(b)
		}
	}

	return b.Flush()
}

// writeHeader emits a POT header.
func writeHeader(b io.Writer, version string, created time.Time) {
	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: sitebuild %s\\n\"\n", version)
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", created.UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b)
}
