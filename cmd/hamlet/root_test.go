package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetHelpFlags clears the help flag state a prior Execute left on the
// shared command tree so each test runs as if in a fresh process.
func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

func executeCommand(root *cobra.Command, args ...string) (string, string, error) {
	resetHelpFlags(root)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "convert")
	assert.Contains(t, stdout, "detect")
	assert.Contains(t, stdout, "plan")
	assert.Contains(t, stdout, "frameworks")
	assert.Contains(t, stdout, "--config")
	assert.Contains(t, stdout, "--profile")
	assert.Contains(t, stdout, "--verbose")
}

func TestConvertHelpListsFlags(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "convert", "--help")
	require.NoError(t, err)

	for _, flag := range []string{
		"--from", "--to", "--output", "--emitter", "--ignore",
		"--concurrency", "--on-error", "--report", "--front-matter",
	} {
		assert.Contains(t, stdout, flag)
	}
}

func TestConvertRequiresFlags(t *testing.T) {
	_, stderr, err := executeCommand(rootCmd, "convert", ".")
	require.Error(t, err)
	assert.Contains(t, stderr, "required flag(s)")
	assert.Contains(t, stderr, `"from"`)
}

func TestConvertRequiresInputArgument(t *testing.T) {
	_, _, err := executeCommand(rootCmd, "convert",
		"--from", "jest", "--to", "vitest", "--output", t.TempDir())
	assert.Error(t, err)
}

func TestUnknownFlagIsRejected(t *testing.T) {
	_, stderr, err := executeCommand(rootCmd, "--bogus")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown flag: --bogus")
}

func TestVersionOutput(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hamlet version")
	assert.Contains(t, stdout, version)
}
