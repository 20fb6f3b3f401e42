// Package project holds the thin collaborators around the conversion engine:
// directory scanning, file classification, migration ordering and repository
// provenance. The engine never imports this package; the CLI wires the two
// together.
package project

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pmclSF/hamlet/pkg/migrate/detect"
)

// File is one scanned candidate.
type File struct {
	// Path is absolute.
	Path string `json:"path"`
	// RelativePath is slash-separated, relative to the scan root.
	RelativePath string `json:"relativePath"`
	Size         int64  `json:"size"`
}

// defaultSkipDirs are directory names never descended into.
var defaultSkipDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	"target":        true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".pytest_cache": true,
}

// ScanOptions configures a directory scan.
type ScanOptions struct {
	// IgnorePatterns are doublestar globs matched against the relative path.
	IgnorePatterns []string
	// SkipDirs replaces the default skip set when non-nil.
	SkipDirs map[string]bool
	// MaxFileSize skips larger files; zero means no limit.
	MaxFileSize int64
	// Extensions restricts the scan when non-empty (".js", ".py").
	Extensions []string
	// Logger receives per-skip debug records; nil discards.
	Logger *slog.Logger
}

// Scan walks root and returns candidate files sorted by relative path.
// Symlinks are not followed.
func Scan(root string, opts ScanOptions) ([]File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	skip := opts.SkipDirs
	if skip == nil {
		skip = defaultSkipDirs
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}

	var files []File
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && skip[d.Name()] {
				logger.Debug("skipping directory", "dir", d.Name())
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignored(rel, opts.IgnorePatterns) {
			logger.Debug("ignoring file", "path", rel)
			return nil
		}
		if len(opts.Extensions) > 0 && !hasExtension(rel, opts.Extensions) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			logger.Debug("file exceeds size limit", "path", rel, "size", info.Size())
			return nil
		}
		files = append(files, File{Path: path, RelativePath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

func ignored(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func hasExtension(rel string, exts []string) bool {
	got := strings.ToLower(filepath.Ext(rel))
	for _, e := range exts {
		if strings.ToLower(e) == got {
			return true
		}
	}
	return false
}

// FileType classifies a scanned file's role.
type FileType string

const (
	TypeTest   FileType = "test"
	TypeConfig FileType = "config"
	TypeSource FileType = "source"
)

// Classification is the outcome of classifying one file.
type Classification struct {
	Type       FileType `json:"type"`
	Framework  string   `json:"framework,omitempty"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language,omitempty"`
}

// configBasenames marks framework-and-build config files by name.
var configBasenames = map[string]bool{
	"package.json": true, "tsconfig.json": true, "pyproject.toml": true,
	"setup.py": true, "pom.xml": true, "build.gradle": true, "conftest.py": true,
}

// Classify combines path-based and content-based detection into a single
// verdict for one file. Content may be nil for a path-only classification.
func Classify(path string, content []byte, det *detect.Detector) Classification {
	pathRes := det.DetectPath(path)
	var contentRes detect.Result
	if len(content) > 0 {
		contentRes = det.DetectContent(string(content))
	}
	combined := detect.Combine(contentRes, pathRes)

	c := Classification{
		Type:       TypeSource,
		Framework:  combined.Framework,
		Confidence: combined.Confidence,
		Language:   detect.Language(content, path),
	}
	base := filepath.Base(path)
	switch {
	case configBasenames[base]:
		c.Type = TypeConfig
	case pathRes.Confidence >= 0.9:
		// config-file glob match
		c.Type = TypeConfig
	case combined.Framework != "" && combined.Confidence > 0:
		c.Type = TypeTest
	}
	return c
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
