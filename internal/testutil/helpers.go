package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content at path, creating parent directories. Failures
// abort the test via require.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	full := filepath.Clean(path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755),
		"create directory for %s", full)
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644),
		"write %s", full)
}

// WriteTree writes a map of relative path to content under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, filepath.Join(root, rel), content)
	}
}
