// Package unittest is the Python unittest framework adapter: TestCase
// subclasses with self.assert* methods.
package unittest

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/pylang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// SelfAsserts maps the TestCase assertion surface onto neutral kinds.
var SelfAsserts = map[string]string{
	"assertEqual":         "equal",
	"assertNotEqual":      "notEqual",
	"assertListEqual":     "deepEqual",
	"assertDictEqual":     "deepEqual",
	"assertTrue":          "truthy",
	"assertFalse":         "falsy",
	"assertIsNone":        "isNull",
	"assertIsNotNone":     "isDefined",
	"assertIn":            "contains",
	"assertNotIn":         "notContains",
	"assertIs":            "strictEqual",
	"assertIsNot":         "notStrictEqual",
	"assertRaises":        "throws",
	"assertAlmostEqual":   "closeTo",
	"assertGreater":       "greaterThan",
	"assertGreaterEqual":  "greaterOrEqual",
	"assertLess":          "lessThan",
	"assertLessEqual":     "lessOrEqual",
	"assertIsInstance":    "instanceOf",
	"assertRegex":         "matches",
	"fail":                "fail",
}

var parseConfig = pylang.Config{
	Framework:        "unittest",
	FrameworkModules: []string{"unittest"},
	SelfAsserts:      SelfAsserts,
}

var (
	unittestImportRe = regexp.MustCompile(`(?m)^import unittest\b|^from unittest\b`)
	testCaseRe       = regexp.MustCompile(`\(\s*unittest\.TestCase\s*\)|\(\s*TestCase\s*\)`)
	selfAssertRe     = regexp.MustCompile(`\bself\.assert\w+\s*\(`)
	setUpRe          = regexp.MustCompile(`def (setUp|tearDown)\s*\(self\)`)
	pytestRe         = regexp.MustCompile(`\bpytest\b`)
)

// Detect scores how strongly the source looks like unittest.
func Detect(source string) int {
	score := 0
	if unittestImportRe.MatchString(source) {
		score += 35
	}
	if testCaseRe.MatchString(source) {
		score += 30
	}
	if selfAssertRe.MatchString(source) {
		score += 20
	}
	if setUpRe.MatchString(source) {
		score += 10
	}
	if pytestRe.MatchString(source) {
		score -= 40
	}
	return clamp(score)
}

// Parse builds the IR through the shared Python scan.
func Parse(source string) *ir.TestFile {
	return pylang.Parse(source, parseConfig)
}

// renames applied when unittest is the conversion target. These only matter
// for sources that already carry class structure; function-style pytest
// sources cross a paradigm boundary and go through the tree emitter instead.
var targetRenames = []pylang.Rename{
	{Re: regexp.MustCompile(`(?m)^import pytest$`), Replacement: "import unittest"},
	{Re: regexp.MustCompile(`with\s+pytest\.raises\s*\(`), Replacement: "with self.assertRaises("},
	{Re: regexp.MustCompile(`@pytest\.mark\.skip(if)?\b`), Replacement: "@unittest.skip"},
	{Re: regexp.MustCompile(`(?m)^(\s*)def setup_method\(self[^)]*\):`), Replacement: "${1}def setUp(self):"},
	{Re: regexp.MustCompile(`(?m)^(\s*)def teardown_method\(self[^)]*\):`), Replacement: "${1}def tearDown(self):"},
}

// Emit converts a class-style pytest source into unittest: structural
// renames, then the IR-informed re-render of bare asserts as self.assert*.
func Emit(file *ir.TestFile, source string) string {
	code := pylang.ApplyRenames(source, targetRenames)
	return pylang.RewriteAssertions(code, file, pylang.RenderSelfAssertion)
}

// Rewrite is the legacy emitter: the text phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

// EmitTree synthesizes a unittest TestCase class from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return pylang.EmitTree(file, pylang.EmitConfig{
		Imports:      []string{"unittest"},
		ClassBased:   true,
		AssertionFor: pylang.RenderSelfAssertion,
		SkipDecorator: func(reason string) string {
			return "@unittest.skip(\"" + reason + "\")"
		},
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "unittest",
		Language: "python",
		Paradigm: registry.ParadigmXUnit,
		Imports: registry.ImportSpec{
			Module: "unittest",
			Style:  "python",
			Named:  []string{"TestCase"},
		},
		Detect:   Detect,
		Parse:    Parse,
		Emit:     Emit,
		Rewrite:  Rewrite,
		EmitTree: EmitTree,
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
