// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package builder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Suffixes of the precompressed siblings written next to output files.
const (
	GzipSuffix = ".gz"
	ZstdSuffix = ".zst"
)

var compressibleExts = map[string]bool{
	".html": true,
	".htm":  true,
	".css":  true,
	".js":   true,
	".mjs":  true,
	".json": true,
	".svg":  true,
	".xml":  true,
	".txt":  true,
}

func compressible(name string) bool {
	return compressibleExts[strings.ToLower(filepath.Ext(name))]
}

// precompressor writes .gz and .zst siblings for static servers that serve
// precompressed files. Output depends only on the input bytes: the gzip
// header carries no name or modification time.
type precompressor struct {
	zstd *zstd.Encoder
}

func newPrecompressor() (*precompressor, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}

	return &precompressor{zstd: enc}, nil
}

// writeSiblings compresses data and writes path.gz and path.zst. It returns
// the number of compressed bytes written.
func (p *precompressor) writeSiblings(path string, data []byte) (int64, error) {
	var buf bytes.Buffer

	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	if _, err := gz.Write(data); err != nil {
		return 0, err
	}

	if err := gz.Close(); err != nil {
		return 0, err
	}

	if err := os.WriteFile(path+GzipSuffix, buf.Bytes(), 0o644); err != nil {
		return 0, &WriteError{Path: path + GzipSuffix, Op: "write", Err: err}
	}

	written := int64(buf.Len())

	// EncodeAll is safe for concurrent use
	zst := p.zstd.EncodeAll(data, nil)

	if err := os.WriteFile(path+ZstdSuffix, zst, 0o644); err != nil {
		return written, &WriteError{Path: path + ZstdSuffix, Op: "write", Err: err}
	}

	return written + int64(len(zst)), nil
}

// compressFile writes the siblings of a file already on disk.
func (p *precompressor) compressFile(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &WriteError{Path: path, Op: "read", Err: err}
	}

	return p.writeSiblings(path, data)
}

// removeSiblings deletes precompressed siblings of path left by an earlier
// build.
func removeSiblings(path string) error {
	for _, suffix := range []string{GzipSuffix, ZstdSuffix} {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			return &WriteError{Path: path + suffix, Op: "remove", Err: err}
		}
	}

	return nil
}
