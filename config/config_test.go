// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/petstar/sitebuild/core/builder"
	"codeberg.org/petstar/sitebuild/i18n"
)

// validConfig returns defaults rooted in a temporary directory.
func validConfig(t *testing.T) *BuildConfig {
	t.Helper()

	dir := t.TempDir()

	cfg := &BuildConfig{}
	cfg.SetDefaults()
	cfg.Paths.Templates = filepath.Join(dir, "src")
	cfg.Paths.Locales = filepath.Join(dir, "locales")
	cfg.Paths.Assets = filepath.Join(dir, "assets")
	cfg.Paths.Output = filepath.Join(dir, "dist")

	return cfg
}

func TestValidateAndSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    func(cfg *BuildConfig)
		wantErr error
		check   func(t *testing.T, cfg *BuildConfig)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *BuildConfig) {
				assert.Equal(t, []i18n.Language{"en", "ro"}, cfg.Languages.Supported)
				assert.Equal(t, i18n.Language("en"), cfg.Languages.Default)
				assert.Equal(t, builder.FailFast, cfg.Output.WriteErrorPolicy)
				assert.Equal(t, "/", cfg.Site.BasePath)
			},
		},
		{
			name: "canonical languages and implicit default",
			edit: func(cfg *BuildConfig) {
				cfg.Languages.RawSupported = []string{"pt_br", "EN", "en"}
				cfg.Languages.RawDefault = ""
			},
			check: func(t *testing.T, cfg *BuildConfig) {
				assert.Equal(t, []i18n.Language{"pt-BR", "en"}, cfg.Languages.Supported)
				assert.Equal(t, i18n.Language("pt-BR"), cfg.Languages.Default)
			},
		},
		{
			name: "extensions are normalised",
			edit: func(cfg *BuildConfig) { cfg.Templates.Extensions = []string{"HTML", ".html", " .xhtml "} },
			check: func(t *testing.T, cfg *BuildConfig) {
				assert.Equal(t, []string{".html", ".xhtml"}, cfg.Templates.Extensions)
			},
		},
		{
			name: "base path is normalised",
			edit: func(cfg *BuildConfig) { cfg.Site.BasePath = "docs/site" },
			check: func(t *testing.T, cfg *BuildConfig) {
				assert.Equal(t, "/docs/site/", cfg.Site.BasePath)
			},
		},
		{
			name:    "no languages",
			edit:    func(cfg *BuildConfig) { cfg.Languages.RawSupported = nil },
			wantErr: errNoLanguages,
		},
		{
			name:    "default not supported",
			edit:    func(cfg *BuildConfig) { cfg.Languages.RawDefault = "de" },
			wantErr: errDefaultLanguageUnsupported,
		},
		{
			name:    "empty templates path",
			edit:    func(cfg *BuildConfig) { cfg.Paths.Templates = " " },
			wantErr: errEmptyPath,
		},
		{
			name:    "output inside templates",
			edit:    func(cfg *BuildConfig) { cfg.Paths.Output = filepath.Join(cfg.Paths.Templates, "out") },
			wantErr: errOutputInsideInput,
		},
		{
			name:    "output equals assets",
			edit:    func(cfg *BuildConfig) { cfg.Paths.Output = cfg.Paths.Assets },
			wantErr: errOutputInsideInput,
		},
		{
			name:    "no extensions",
			edit:    func(cfg *BuildConfig) { cfg.Templates.Extensions = []string{" "} },
			wantErr: errNoTemplateExtensions,
		},
		{
			name:    "zero concurrency",
			edit:    func(cfg *BuildConfig) { cfg.Output.Concurrency = 0 },
			wantErr: errInvalidConcurrency,
		},
		{
			name:    "absolute URL base path",
			edit:    func(cfg *BuildConfig) { cfg.Site.BasePath = "https://example.com/" },
			wantErr: errInvalidBasePath,
		},
		{
			name:    "negative debounce",
			edit:    func(cfg *BuildConfig) { cfg.Watch.Debounce = -time.Second },
			wantErr: errInvalidWatchInterval,
		},
		{
			name:    "unknown log level",
			edit:    func(cfg *BuildConfig) { cfg.Log.Level = "verbose" },
			wantErr: errInvalidLogLevel,
		},
		{
			name:    "unknown log format",
			edit:    func(cfg *BuildConfig) { cfg.Log.Format = "xml" },
			wantErr: errInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig(t)
			if tt.edit != nil {
				tt.edit(cfg)
			}

			err := cfg.validateAndSet()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateAndSetRejectsUnknownPolicy(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)
	cfg.Output.RawWriteErrorPolicy = "sometimes"

	assert.ErrorContains(t, cfg.validateAndSet(), "Output.WriteErrorPolicy")
}

// Tests below modify the process environment and must not run in parallel.

func TestReadEnv(t *testing.T) {
	t.Setenv("SITEBUILD_TEMPLATES", "/srv/site/src")
	t.Setenv("SITEBUILD_LANGUAGES", "en, ro ,,de")
	t.Setenv("SITEBUILD_CONCURRENCY", "4")
	t.Setenv("SITEBUILD_LOCK", "false")
	t.Setenv("SITEBUILD_WATCH_DEBOUNCE", "1s")
	t.Setenv("SITEBUILD_DEV", "true")

	cfg := &BuildConfig{}
	cfg.SetDefaults()

	require.NoError(t, readEnv(cfg))

	assert.Equal(t, "/srv/site/src", cfg.Paths.Templates)
	assert.Equal(t, []string{"en", "ro", "de"}, cfg.Languages.RawSupported)
	assert.Equal(t, 4, cfg.Output.Concurrency)
	assert.False(t, cfg.Output.Lock)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.Development.InDevelopment)
}

func TestReadEnvInvalidValue(t *testing.T) {
	t.Setenv("SITEBUILD_CONCURRENCY", "many")

	cfg := &BuildConfig{}
	cfg.SetDefaults()

	assert.ErrorContains(t, readEnv(cfg), "SITEBUILD_CONCURRENCY")
}

func TestReadEnvWithoutOverwrite(t *testing.T) {
	t.Setenv("SITEBUILD_DEV", "false")

	cfg := &BuildConfig{}
	cfg.Development.InDevelopment = true

	require.NoError(t, readEnv(cfg))
	assert.True(t, cfg.Development.InDevelopment)
}

func TestReadEnvTypedSlice(t *testing.T) {
	t.Setenv("SITEBUILD_TEST_LANGS", "en,ro")

	var spec struct {
		Langs []i18n.Language `env:"SITEBUILD_TEST_LANGS,overwrite"`
	}

	require.NoError(t, readEnv(&spec))
	assert.Equal(t, []i18n.Language{"en", "ro"}, spec.Langs)

	assert.ErrorIs(t, readEnv(spec), errExpectedPointerToStruct)
}

func TestUseDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// register restoration, then unset so the file provides the value
	t.Setenv("SITEBUILD_OUTPUT", "")
	require.NoError(t, os.Unsetenv("SITEBUILD_OUTPUT"))
	t.Setenv("SITEBUILD_LOCALES", "from-env")

	require.NoError(t, os.WriteFile(".env", []byte(
		"# comment\nSITEBUILD_OUTPUT=\"public\"\nSITEBUILD_LOCALES=from-file\n"), 0o600))

	require.NoError(t, useDotEnv())

	assert.Equal(t, "public", os.Getenv("SITEBUILD_OUTPUT"))
	assert.Equal(t, "from-env", os.Getenv("SITEBUILD_LOCALES"))
}

// restoreLogger undoes the global logger changes made by setupAudit.
func restoreLogger(t *testing.T) {
	t.Helper()

	logger, level := log.Logger, zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestLoadConfig(t *testing.T) {
	restoreLogger(t)

	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("SITEBUILD_CONFIGFILE", "")
	t.Setenv("SITEBUILD_CONCURRENCY", "2")

	require.NoError(t, os.WriteFile("site.yaml", []byte(`
paths:
  templates: ./pages
  output: ./public
languages:
  supported: [en, ro]
  default: ro
output:
  concurrency: 8
  precompress: true
watch:
  debounce: 50ms
log:
  logLevel: warn
  logOutputs: [`+filepath.Join(dir, "build.log")+`]
`), 0o600))

	cfg := &BuildConfig{}
	require.NoError(t, cfg.LoadConfig([]string{"-config", "site.yaml", "--watch"}))

	assert.Equal(t, "./pages", cfg.Paths.Templates)
	assert.Equal(t, "./locales", cfg.Paths.Locales)
	assert.Equal(t, i18n.Language("ro"), cfg.Languages.Default)
	assert.Equal(t, 2, cfg.Output.Concurrency, "environment overrides the file")
	assert.True(t, cfg.Output.Precompress)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.Watch.Enabled)
	assert.FileExists(t, filepath.Join(dir, "build.log"))

	opts := cfg.BuilderOptions()
	assert.Equal(t, "./public", opts.OutputDir)
	assert.Equal(t, []i18n.Language{"en", "ro"}, opts.Languages)
	assert.Equal(t, 2, opts.Concurrency)

	assert.Equal(t, []string{"./pages", "./locales", "./assets"}, cfg.WatchOptions().Paths)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SITEBUILD_CONFIGFILE", "typo.yaml")

	require.NoError(t, os.WriteFile("typo.yaml", []byte("paths:\n  templtes: ./src\n"), 0o600))

	cfg := &BuildConfig{}
	assert.Error(t, cfg.LoadConfig(nil))
}

func TestLoadConfigHelp(t *testing.T) {
	cfg := &BuildConfig{}
	assert.ErrorIs(t, cfg.LoadConfig([]string{"-h"}), flag.ErrHelp)
}

func TestRevision(t *testing.T) {
	t.Parallel()

	b := buildInfo{VcsRevision: "0123456789abcdef", VcsTime: "2025-01-02T03:04:05Z", VcsModified: true}
	assert.Equal(t, "2025-01-02-01234567+dirty", b.Revision())

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())
	assert.Equal(t, "abc", (&buildInfo{VcsRevision: "abc"}).Revision())
}
