package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hamlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("from", "", "")
	fs.String("to", "", "")
	fs.String("language", "", "")
	fs.String("emitter", string(migrate.EmitterIRPatch), "")
	fs.String("output", "", "")
	fs.StringSlice("ignore", nil, "")
	fs.Int64("max-file-size", 2*1024*1024, "")
	fs.Int("concurrency", 0, "")
	fs.String("on-error", string(migrate.OnErrorContinue), "")
	fs.Bool("skip-validation", false, "")
	fs.String("encoding", "", "")
	fs.String("report", "text", "")
	fs.String("front-matter", "", "")
	return fs
}

const baseConfig = `
source: jest
target: vitest
output: ./converted
`

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, baseConfig)

	cfg, opts, logger, err := LoadAndValidate(path, "", false, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Equal(t, "jest", cfg.Source)
	assert.Equal(t, "vitest", cfg.Target)
	assert.Equal(t, "./converted", cfg.OutputPath)
	assert.Equal(t, string(migrate.EmitterIRPatch), cfg.Emitter)
	assert.Equal(t, string(migrate.OnErrorContinue), cfg.OnError)
	assert.Equal(t, "text", cfg.ReportFormat)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Concurrency)
	assert.Equal(t, path, cfg.ConfigFilePath)

	assert.Equal(t, migrate.EmitterIRPatch, opts.Emitter)
	assert.False(t, opts.SkipValidation)
	assert.NotNil(t, opts.Logger)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, baseConfig)

	fs := newFlags()
	require.NoError(t, fs.Set("to", "playwright"))
	require.NoError(t, fs.Set("emitter", "ir-full"))
	require.NoError(t, fs.Set("concurrency", "2"))

	cfg, opts, _, err := LoadAndValidate(path, "", false, fs)
	require.NoError(t, err)

	assert.Equal(t, "playwright", cfg.Target)
	assert.Equal(t, "ir-full", cfg.Emitter)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, migrate.EmitterIRFull, opts.Emitter)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, baseConfig)
	t.Setenv("HAMLET_TARGET", "playwright")

	cfg, _, _, err := LoadAndValidate(path, "", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "playwright", cfg.Target)
}

func TestProfileMerge(t *testing.T) {
	path := writeConfig(t, baseConfig+`
profiles:
  ci:
    target: playwright
    concurrency: 4
`)

	cfg, _, _, err := LoadAndValidate(path, "ci", false, nil)
	require.NoError(t, err)

	assert.Equal(t, "jest", cfg.Source)
	assert.Equal(t, "playwright", cfg.Target)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "ci", cfg.ProfileName)
}

func TestUnknownProfile(t *testing.T) {
	path := writeConfig(t, baseConfig)

	_, _, _, err := LoadAndValidate(path, "staging", false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, migrate.ErrConfigValidation)
	assert.Contains(t, err.Error(), `profile "staging" not found`)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	path := writeConfig(t, `
emitter: quantum
reportFormat: pdf
concurrency: -1
`)

	_, _, _, err := LoadAndValidate(path, "", false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, migrate.ErrConfigValidation)
	msg := err.Error()
	assert.Contains(t, msg, "source framework is required")
	assert.Contains(t, msg, "target framework is required")
	assert.Contains(t, msg, "output path is required")
	assert.Contains(t, msg, "emitter must be one of")
	assert.Contains(t, msg, "reportFormat must be one of")
	assert.Contains(t, msg, "concurrency must be >= 0")
}

func TestVerboseEnablesDebugLogging(t *testing.T) {
	path := writeConfig(t, baseConfig)

	cfg, _, _, err := LoadAndValidate(path, "", true, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestMissingConfigFile(t *testing.T) {
	_, _, _, err := LoadAndValidate(filepath.Join(t.TempDir(), "missing.yaml"), "", false, nil)
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
files:
  - path: tests/helpers.test.js
  - path: tests/cart.test.js
    dependsOn:
      - tests/helpers.test.js
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "tests/helpers.test.js", m.Files[0].Path)
	assert.Equal(t, []string{"tests/helpers.test.js"}, m.Files[1].DependsOn)
}

func TestLoadManifestSchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
files:
  - dependsOn: [a.js]
`), 0o644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, migrate.ErrConfigValidation)
	assert.Contains(t, err.Error(), "path")
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
files:
  - path: a.js
    order: 1
`), 0o644))

	_, err := LoadManifest(path)
	assert.ErrorIs(t, err, migrate.ErrConfigValidation)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
