// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract scans a template tree for {{t key.path}} placeholders.

It writes a gettext template with one msgid per key, and can audit each
language's dictionary for missing and unused keys (-check) or list text that
still lacks a placeholder (-suggest).
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/config"
	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/i18n"
	"codeberg.org/petstar/sitebuild/i18n/extract"
)

var errIncomplete = errors.New("dictionaries are missing keys")

type options struct {
	src     string
	locales string
	out     string
	langs   []string
	exts    []string
	check   bool
	suggest bool
}

func main() {
	audit.SetDefaultLogger()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

func parseFlags(args []string) (options, error) {
	var (
		opts  options
		langs string
		exts  string
	)

	fs := flag.NewFlagSet("i18n_extract", flag.ContinueOnError)
	fs.StringVar(&opts.src, "src", "./src", "template directory")
	fs.StringVar(&opts.locales, "locales", "./locales", "dictionary directory")
	fs.StringVar(&opts.out, "o", "locales/messages.pot", "output file; empty to skip")
	fs.StringVar(&langs, "langs", "en,ro", "comma separated languages to check")
	fs.StringVar(&exts, "ext", ".html,.htm", "comma separated template extensions")
	fs.BoolVar(&opts.check, "check", false, "audit dictionaries and fail on missing keys")
	fs.BoolVar(&opts.suggest, "suggest", false, "list text that has no placeholder yet")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.langs = splitList(langs)
	opts.exts = splitList(exts)

	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	idx, err := extract.ScanTree(opts.src, opts.exts)
	if err != nil {
		return fmt.Errorf("failed to scan templates: %w", err)
	}

	log.Info().
		Int("files", idx.Files()).
		Int("keys", len(idx.Keys())).
		Int("uses", idx.Uses()).
		Msg("Scanned templates")

	if opts.out != "" {
		if err := writePOT(idx, opts.out); err != nil {
			return err
		}
	}

	if opts.suggest {
		if err := printSuggestions(stdout, opts); err != nil {
			return err
		}
	}

	if opts.check {
		return check(idx, opts)
	}

	return nil
}

func writePOT(idx *extract.Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	if err := idx.WritePOT(f, detectVersion(), time.Now()); err != nil {
		f.Close()

		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Wrote message template")

	return nil
}

// check audits each language's dictionary. Missing keys fail the run, unused
// keys are only reported.
func check(idx *extract.Index, opts options) error {
	langs, err := i18n.ParseLanguages(opts.langs)
	if err != nil {
		return err
	}

	incomplete := false

	for _, lang := range langs {
		l := log.With().Str("lang", lang.String()).Logger()

		dict, err := i18n.LoadDictionary(opts.locales, lang)
		if err != nil {
			l.Error().Err(err).Msg("Failed to load dictionary")

			incomplete = true

			continue
		}

		a := idx.Audit(dict, lang)

		for _, k := range a.Missing {
			refs := idx.Refs(k)
			l.Warn().Str("key", string(k)).Str("file", refs[0].File).Int("line", refs[0].Line).Msg("Missing key")
		}

		for _, k := range a.Unused {
			l.Info().Str("key", k).Msg("Unused key")
		}

		event := l.Info()
		if !a.Complete() {
			event = l.Warn()
			incomplete = true
		}

		event.Int("missing", len(a.Missing)).Int("unused", len(a.Unused)).Bool("listed", a.Listed).Msg("Audited dictionary")
	}

	if incomplete {
		return errIncomplete
	}

	return nil
}

func printSuggestions(w io.Writer, opts options) error {
	return i18n.WalkTemplates(opts.src, opts.exts, func(path, rel string) error {
		data, err := os.ReadFile(path) // #nosec G304 -- walking the configured template tree
		if err != nil {
			return err
		}

		suggestions, err := extract.Suggest(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}

		for _, s := range suggestions {
			fmt.Fprintf(w, "%s:%d\t%s\t%s\t%q\n", rel, s.Line, s.Kind, s.Tag, s.Text)
		}

		return nil
	})
}

// detectVersion resolves a human-friendly version string using git describe.
// Falls back to the release version when git is unavailable or this is not a
// git checkout.
func detectVersion() string {
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")

	out, err := cmd.Output()
	if err != nil {
		return config.BuildVersion
	}

	return strings.TrimSpace(string(out))
}

func splitList(s string) []string {
	var out []string

	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
