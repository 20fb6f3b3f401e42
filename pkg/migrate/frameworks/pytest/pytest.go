// Package pytest is the pytest framework adapter: module-level test
// functions and bare assert statements.
package pytest

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/pylang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

var parseConfig = pylang.Config{
	Framework:        "pytest",
	FrameworkModules: []string{"pytest"},
	BareAsserts:      true,
}

var (
	pytestImportRe = regexp.MustCompile(`(?m)^import pytest\b|^from pytest\b`)
	markRe         = regexp.MustCompile(`@pytest\.(mark|fixture)`)
	raisesRe       = regexp.MustCompile(`pytest\.raises\s*\(`)
	testFuncRe     = regexp.MustCompile(`(?m)^def test_\w+`)
	bareAssertRe   = regexp.MustCompile(`(?m)^\s+assert\s`)
	unittestRe     = regexp.MustCompile(`unittest\.TestCase|\bself\.assert`)
)

// Detect scores how strongly the source looks like pytest. Bare asserts and
// module-level test_ functions are weak on their own but decisive together;
// the unittest class style rules pytest out.
func Detect(source string) int {
	score := 0
	if pytestImportRe.MatchString(source) {
		score += 35
	}
	if markRe.MatchString(source) {
		score += 20
	}
	if raisesRe.MatchString(source) {
		score += 15
	}
	if testFuncRe.MatchString(source) {
		score += 15
	}
	if bareAssertRe.MatchString(source) {
		score += 10
	}
	if unittestRe.MatchString(source) {
		score -= 40
	}
	return clamp(score)
}

// Parse builds the IR through the shared Python scan.
func Parse(source string) *ir.TestFile {
	return pylang.Parse(source, parseConfig)
}

// renames applied when pytest is the conversion target (unittest sources).
// The class wrapper survives: pytest collects Test classes without a base,
// so only the base class, the lifecycle names and the raises context change.
var targetRenames = []pylang.Rename{
	{Re: regexp.MustCompile(`(?m)^import unittest$`), Replacement: "import pytest"},
	{Re: regexp.MustCompile(`\(\s*unittest\.TestCase\s*\)\s*:`), Replacement: ":"},
	{Re: regexp.MustCompile(`with\s+self\.assertRaises\s*\(`), Replacement: "with pytest.raises("},
	{Re: regexp.MustCompile(`@unittest\.skip(If|Unless)?\b`), Replacement: "@pytest.mark.skip"},
	{Re: regexp.MustCompile(`(?m)^\s*def setUp\(self\):`), Replacement: "    def setup_method(self):"},
	{Re: regexp.MustCompile(`(?m)^\s*def tearDown\(self\):`), Replacement: "    def teardown_method(self):"},
	{Re: regexp.MustCompile(`(?m)^\s*unittest\.main\(\)\s*$`), Replacement: ""},
	{Re: regexp.MustCompile(`(?m)^if __name__ == ['"]__main__['"]:\s*\n`), Replacement: ""},
}

// Emit converts a unittest source into pytest: structural renames, then the
// IR-informed re-render of every self.assert* line as a bare assert.
func Emit(file *ir.TestFile, source string) string {
	code := pylang.ApplyRenames(source, targetRenames)
	return pylang.RewriteAssertions(code, file, pylang.RenderBareAssertion)
}

// Rewrite is the legacy emitter: the text phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

// EmitTree synthesizes pytest code from the IR alone: module-level functions
// with bare asserts, suites flattened into prefixed names.
func EmitTree(file *ir.TestFile) string {
	return pylang.EmitTree(file, pylang.EmitConfig{
		Imports:      []string{"pytest"},
		ClassBased:   false,
		AssertionFor: pylang.RenderBareAssertion,
		SkipDecorator: func(reason string) string {
			if reason == "" {
				return "@pytest.mark.skip"
			}
			return "@pytest.mark.skip(reason=\"" + reason + "\")"
		},
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "pytest",
		Language: "python",
		Paradigm: registry.ParadigmFunction,
		Imports: registry.ImportSpec{
			Module: "pytest",
			Style:  "python",
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
