// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// commandLine holds the flags sitebuild accepts.
type commandLine struct {
	configPath string
	configSet  bool // -config was given explicitly
	watch      bool
}

// parseCommandLineArgs parses args, returning flag.ErrHelp when usage was
// requested.
func parseCommandLineArgs(args []string) (commandLine, error) {
	var cmd commandLine

	flags := flag.NewFlagSet("sitebuild", flag.ContinueOnError)
	flags.StringVar(&cmd.configPath, "config", "./sitebuild.yaml", "Path to a sitebuild configuration file in YAML format.")
	flags.BoolVar(&cmd.watch, "watch", false, "Rebuild whenever templates, dictionaries or assets change.")

	if err := flags.Parse(args); err != nil {
		return cmd, err
	}

	flags.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			cmd.configSet = true
		}
	})

	return cmd, nil
}
