// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_apply replaces literal text in a template tree with placeholders,
following a YAML list of find/replace rules.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/petstar/sitebuild/core/audit"
	"codeberg.org/petstar/sitebuild/i18n/apply"
)

var errNoRulesFile = errors.New("-rules is required")

func main() {
	audit.SetDefaultLogger()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		log.Fatal().Err(err).Msg("Applying rules failed")
	}
}

func run(args []string) error {
	var (
		rulesPath string
		src       string
		exts      string
		dryRun    bool
	)

	fs := flag.NewFlagSet("i18n_apply", flag.ContinueOnError)
	fs.StringVar(&rulesPath, "rules", "", "YAML file with find/replace rules")
	fs.StringVar(&src, "src", "./src", "template directory")
	fs.StringVar(&exts, "ext", ".html,.htm", "comma separated template extensions")
	fs.BoolVar(&dryRun, "dry-run", false, "report changes without writing them")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if rulesPath == "" {
		return errNoRulesFile
	}

	rules, err := apply.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	results, err := apply.ApplyTree(src, strings.Split(exts, ","), rules, dryRun)
	if err != nil {
		return fmt.Errorf("failed to apply rules: %w", err)
	}

	for _, res := range results {
		if !res.Changed {
			log.Debug().Str("file", res.File).Msg("No changes")

			continue
		}

		for _, rule := range res.Applied {
			log.Info().Str("file", res.File).Str("rule", rule).Msg("Applied")
		}
	}

	log.Info().
		Int("files", len(results)).
		Int("modified", apply.Modified(results)).
		Bool("dry_run", dryRun).
		Msg("Complete")

	return nil
}
