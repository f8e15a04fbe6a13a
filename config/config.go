// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/i18n"
)

// Global exposes the build configuration.
var Global BuildConfig

// BuildConfig holds the application configuration.
type BuildConfig struct {
	Build buildInfo `yaml:"-"`

	Paths struct {
		Templates string `env:"SITEBUILD_TEMPLATES,overwrite" yaml:"templates"`
		Locales   string `env:"SITEBUILD_LOCALES,overwrite" yaml:"locales"`
		Assets    string `env:"SITEBUILD_ASSETS,overwrite" yaml:"assets"`
		Output    string `env:"SITEBUILD_OUTPUT,overwrite" yaml:"output"`
	} `yaml:"paths"`

	Languages struct {
		RawSupported []string        `env:"SITEBUILD_LANGUAGES,overwrite" yaml:"supported"`
		Supported    []i18n.Language `yaml:"-"`
		// Defaults to the first supported language when empty.
		RawDefault string        `env:"SITEBUILD_DEFAULT_LANGUAGE,overwrite" yaml:"default"`
		Default    i18n.Language `yaml:"-"`
	} `yaml:"languages"`

	Templates struct {
		Extensions []string `env:"SITEBUILD_TEMPLATE_EXTENSIONS,overwrite" yaml:"extensions"`
	} `yaml:"templates"`

	Output struct {
		RawWriteErrorPolicy string              `env:"SITEBUILD_WRITE_ERROR_POLICY,overwrite" yaml:"writeErrorPolicy"`
		WriteErrorPolicy    builder.WritePolicy `yaml:"-"`
		Concurrency         int                 `env:"SITEBUILD_CONCURRENCY,overwrite" yaml:"concurrency"`
		Precompress         bool                `env:"SITEBUILD_PRECOMPRESS,overwrite" yaml:"precompress"`
		Lock                bool                `env:"SITEBUILD_LOCK,overwrite" yaml:"lock"`
	} `yaml:"output"`

	Site struct {
		BasePath string `env:"SITEBUILD_BASE_PATH,overwrite" yaml:"basePath"`
	} `yaml:"site"`

	Watch struct {
		Enabled     bool          `env:"SITEBUILD_WATCH,overwrite" yaml:"enabled"`
		Debounce    time.Duration `env:"SITEBUILD_WATCH_DEBOUNCE,overwrite" yaml:"debounce"`
		MinInterval time.Duration `env:"SITEBUILD_WATCH_MIN_INTERVAL,overwrite" yaml:"minInterval"`
	} `yaml:"watch"`

	Development struct {
		InDevelopment bool `env:"SITEBUILD_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"SITEBUILD_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"SITEBUILD_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"SITEBUILD_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources. args are the
// command line arguments without the program name.
func (cfg *BuildConfig) LoadConfig(args []string) error {
	cmd, err := parseCommandLineArgs(args)
	if err != nil {
		return err
	}

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (SITEBUILD_CONFIGFILE)
	// 3. Default path with fallback check
	if cmd.configSet {
		configFilePath = cmd.configPath
	} else if envVar := os.Getenv("SITEBUILD_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = cmd.configPath
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./sitebuild.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if cmd.watch {
		cfg.Watch.Enabled = true
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
