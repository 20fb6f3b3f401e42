package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/detect"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelativePath
	}
	return out
}

func TestScanWalksAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/cart.test.js", "it('x', () => {});")
	writeFile(t, root, "src/api/auth.test.js", "it('y', () => {});")
	writeFile(t, root, "README.md", "docs")

	files, err := Scan(root, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "src/api/auth.test.js", "src/cart.test.js"}, relPaths(files))
	assert.True(t, filepath.IsAbs(files[0].Path))
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScanSkipsDefaultDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/dep/index.test.js", "x")
	writeFile(t, root, ".git/config", "x")
	writeFile(t, root, "tests/cart.test.js", "x")

	files, err := Scan(root, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"tests/cart.test.js"}, relPaths(files))
}

func TestScanIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tests/cart.test.js", "x")
	writeFile(t, root, "tests/fixtures/big.test.js", "x")

	files, err := Scan(root, ScanOptions{IgnorePatterns: []string{"**/fixtures/**"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"tests/cart.test.js"}, relPaths(files))
}

func TestScanExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x")
	writeFile(t, root, "b.js", "x")
	writeFile(t, root, "c.JS", "x")

	files, err := Scan(root, ScanOptions{Extensions: []string{".js"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"b.js", "c.JS"}, relPaths(files))
}

func TestScanMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.js", "x")
	writeFile(t, root, "large.js", string(make([]byte, 64)))

	files, err := Scan(root, ScanOptions{MaxFileSize: 16})
	require.NoError(t, err)

	assert.Equal(t, []string{"small.js"}, relPaths(files))
}

func TestClassify(t *testing.T) {
	det := detect.New(nil)

	jest := Classify("src/cart.test.js", []byte("import { jest } from '@jest/globals';\njest.mock('./api');\n"), det)
	assert.Equal(t, TypeTest, jest.Type)
	assert.Equal(t, "jest", jest.Framework)
	assert.Greater(t, jest.Confidence, 0.0)
	assert.Equal(t, "javascript", jest.Language)

	cfg := Classify("pkg/package.json", []byte(`{"name": "app"}`), det)
	assert.Equal(t, TypeConfig, cfg.Type)

	jestCfg := Classify("jest.config.js", nil, det)
	assert.Equal(t, TypeConfig, jestCfg.Type)
	assert.Equal(t, "jest", jestCfg.Framework)

	src := Classify("src/cart.js", []byte("export function add(a, b) { return a + b; }\n"), det)
	assert.Equal(t, TypeSource, src.Type)
}

func TestOrderRespectsDependencies(t *testing.T) {
	ids := []string{"c.js", "a.js", "b.js"}
	deps := []Dependency{
		{From: "c.js", To: "b.js"},
		{From: "b.js", To: "a.js"},
	}

	got := Order(ids, deps)
	assert.Equal(t, []string{"a.js", "b.js", "c.js"}, got)
}

func TestOrderBreaksTiesLexicographically(t *testing.T) {
	got := Order([]string{"b", "a", "c"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestOrderToleratesCycles(t *testing.T) {
	ids := []string{"a", "b", "c"}
	deps := []Dependency{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
		{From: "c", To: "a"},
	}

	got := Order(ids, deps)
	require.Len(t, got, 3)
	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id])
		seen[id] = true
	}
	// the forced cycle break picks the smallest id first
	assert.Equal(t, "a", got[0])
}

func TestOrderIgnoresUnknownAndSelfEdges(t *testing.T) {
	got := Order([]string{"a", "b"}, []Dependency{
		{From: "a", To: "missing"},
		{From: "b", To: "b"},
	})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestGitStampOutsideRepository(t *testing.T) {
	assert.Equal(t, Stamp{}, GitStamp(t.TempDir()))
}
