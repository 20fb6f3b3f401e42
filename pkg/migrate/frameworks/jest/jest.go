// Package jest is the Jest framework adapter.
package jest

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/jslang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Matchers maps Jest expect matchers to neutral assertion kinds. The expect
// API is shared with Vitest, but every adapter owns its table: drift between
// the two frameworks lands here, not in shared code.
var Matchers = map[string]string{
	"toBe":                   "equal",
	"toEqual":                "deepEqual",
	"toStrictEqual":          "strictEqual",
	"toBeTruthy":             "truthy",
	"toBeFalsy":              "falsy",
	"toBeNull":               "isNull",
	"toBeUndefined":          "isUndefined",
	"toBeDefined":            "isDefined",
	"toContain":              "contains",
	"toContainEqual":         "containsEqual",
	"toHaveLength":           "length",
	"toHaveProperty":         "property",
	"toThrow":                "throws",
	"toThrowError":           "throws",
	"toMatch":                "matches",
	"toMatchObject":          "matchesObject",
	"toMatchSnapshot":        "snapshot",
	"toBeGreaterThan":        "greaterThan",
	"toBeGreaterThanOrEqual": "greaterOrEqual",
	"toBeLessThan":           "lessThan",
	"toBeLessThanOrEqual":    "lessOrEqual",
	"toBeCloseTo":            "closeTo",
	"toBeInstanceOf":         "instanceOf",
	"toHaveBeenCalled":       "called",
	"toHaveBeenCalledWith":   "calledWith",
	"toHaveBeenCalledTimes":  "calledTimes",
}

// MockCalls maps Jest mock call prefixes to neutral mock kinds.
var MockCalls = map[string]string{
	"jest.fn":            "createStub",
	"jest.mock":          "moduleMock",
	"jest.spyOn":         "spy",
	"jest.useFakeTimers": "fakeTimers",
	"jest.useRealTimers": "realTimers",
	"jest.clearAllMocks": "clearMocks",
	"jest.resetAllMocks": "resetMocks",
	"jest.advanceTimersByTime": "advanceTimers",
}

var parseConfig = jslang.Config{
	Framework:        "jest",
	FrameworkModules: []string{"@jest/globals", "jest"},
	Matchers:         Matchers,
	MockCalls:        MockCalls,
}

var (
	jestGlobalsImportRe = regexp.MustCompile(`['"]@jest/globals['"]`)
	jestNamespaceRe     = regexp.MustCompile(`\bjest\.\w+\s*\(`)
	snapshotRe          = regexp.MustCompile(`\.toMatchSnapshot\s*\(`)
	lifecycleRe         = regexp.MustCompile(`\b(beforeAll|beforeEach|afterEach|afterAll)\s*\(`)
	bddRe               = regexp.MustCompile(`\b(describe|it|test)\s*\(`)
	expectRe            = regexp.MustCompile(`\bexpect\s*\(`)
	vitestImportRe      = regexp.MustCompile(`['"]vitest['"]`)
	viNamespaceRe       = regexp.MustCompile(`\bvi\.\w+\s*\(`)
)

// Detect scores how strongly the source looks like Jest: strong identity
// signals, medium lifecycle signals, weak shared BDD vocabulary, minus
// Vitest's unambiguous markers. Clamped to [0,100].
func Detect(source string) int {
	score := 0
	if jestGlobalsImportRe.MatchString(source) {
		score += 40
	}
	if jestNamespaceRe.MatchString(source) {
		score += 25
	}
	if snapshotRe.MatchString(source) {
		score += 10
	}
	if lifecycleRe.MatchString(source) {
		score += 10
	}
	if bddRe.MatchString(source) {
		score += 5
	}
	if expectRe.MatchString(source) {
		score += 3
	}
	if vitestImportRe.MatchString(source) {
		score -= 40
	}
	if viNamespaceRe.MatchString(source) {
		score -= 25
	}
	return clamp(score)
}

// Parse builds the IR through the shared JS-family scan.
func Parse(source string) *ir.TestFile {
	return jslang.Parse(source, parseConfig)
}

// renames applied when Jest is the conversion target (Vitest sources).
var targetRenames = []jslang.Rename{
	{Re: regexp.MustCompile(`\bvi\.fn\b`), Replacement: "jest.fn"},
	{Re: regexp.MustCompile(`\bvi\.mock\b`), Replacement: "jest.mock"},
	{Re: regexp.MustCompile(`\bvi\.unmock\b`), Replacement: "jest.unmock"},
	{Re: regexp.MustCompile(`\bvi\.spyOn\b`), Replacement: "jest.spyOn"},
	{Re: regexp.MustCompile(`\bvi\.useFakeTimers\b`), Replacement: "jest.useFakeTimers"},
	{Re: regexp.MustCompile(`\bvi\.useRealTimers\b`), Replacement: "jest.useRealTimers"},
	{Re: regexp.MustCompile(`\bvi\.advanceTimersByTime\b`), Replacement: "jest.advanceTimersByTime"},
	{Re: regexp.MustCompile(`\bvi\.clearAllMocks\b`), Replacement: "jest.clearAllMocks"},
	{Re: regexp.MustCompile(`\bvi\.resetAllMocks\b`), Replacement: "jest.resetAllMocks"},
	{Re: regexp.MustCompile(`\bvi\.restoreAllMocks\b`), Replacement: "jest.restoreAllMocks"},
	{Re: regexp.MustCompile(`\bvi\.stubEnv\b`), Replacement: "jest.replaceProperty"},
	// Specifier rename inside an import list that survives the module rewrite.
	{Re: regexp.MustCompile(`(\{[^}]*)\bvi\b([^}]*\})`), Replacement: "${1}jest${2}"},
}

var importRewrites = map[string]string{
	"vitest": "@jest/globals",
}

// Emit converts a Vitest-family source into Jest by ordered text rewrite:
// call renames, then import rewrites, then the IR-informed framework import
// insertion.
func Emit(file *ir.TestFile, source string) string {
	code := jslang.ApplyRenames(source, targetRenames)
	code = jslang.RewriteImports(code, importRewrites)
	if file != nil {
		code = jslang.EnsureFrameworkImport(code, file, "@jest/globals", "jest")
	}
	return code
}

// Rewrite is the legacy emitter: the same phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

var kindToMatcher = jslang.Invert(Matchers, map[string]string{
	"equal":  "toBe",
	"throws": "toThrow",
})

// EmitTree synthesizes Jest code from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return jslang.EmitTree(file, jslang.EmitConfig{
		Module:        "@jest/globals",
		MockNamespace: "jest",
		CaseKeyword:   "it",
		AssertionFor: func(a *ir.Assertion) (string, bool) {
			return jslang.RenderExpect(a.AssertKind, a.Subject, a.Expected, a.Negated, kindToMatcher)
		},
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "jest",
		Language: "javascript",
		Paradigm: registry.ParadigmBDD,
		Imports: registry.ImportSpec{
			Module: "@jest/globals",
			Style:  "esm",
			Named:  []string{"describe", "it", "test", "expect", "jest"},
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
