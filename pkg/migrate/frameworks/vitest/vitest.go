// Package vitest is the Vitest framework adapter.
package vitest

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/jslang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Matchers mirrors the Jest table because Vitest implements the expect API,
// plus the handful of matchers Vitest added on its own.
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
	"toMatchInlineSnapshot":  "inlineSnapshot",
	"toBeGreaterThan":        "greaterThan",
	"toBeGreaterThanOrEqual": "greaterOrEqual",
	"toBeLessThan":           "lessThan",
	"toBeLessThanOrEqual":    "lessOrEqual",
	"toBeCloseTo":            "closeTo",
	"toBeInstanceOf":         "instanceOf",
	"toBeTypeOf":             "typeOf",
	"toHaveBeenCalled":       "called",
	"toHaveBeenCalledWith":   "calledWith",
	"toHaveBeenCalledTimes":  "calledTimes",
}

// MockCalls maps the vi namespace to neutral mock kinds.
var MockCalls = map[string]string{
	"vi.fn":             "createStub",
	"vi.mock":           "moduleMock",
	"vi.spyOn":          "spy",
	"vi.useFakeTimers":  "fakeTimers",
	"vi.useRealTimers":  "realTimers",
	"vi.clearAllMocks":  "clearMocks",
	"vi.resetAllMocks":  "resetMocks",
	"vi.stubEnv":        "stubEnv",
	"vi.stubGlobal":     "stubGlobal",
	"vi.advanceTimersByTime": "advanceTimers",
}

var parseConfig = jslang.Config{
	Framework:        "vitest",
	FrameworkModules: []string{"vitest"},
	Matchers:         Matchers,
	MockCalls:        MockCalls,
}

var (
	vitestImportRe  = regexp.MustCompile(`['"]vitest['"]`)
	viNamespaceRe   = regexp.MustCompile(`\bvi\.\w+\s*\(`)
	inlineSnapRe    = regexp.MustCompile(`\.toMatchInlineSnapshot\s*\(`)
	lifecycleRe     = regexp.MustCompile(`\b(beforeAll|beforeEach|afterEach|afterAll)\s*\(`)
	bddRe           = regexp.MustCompile(`\b(describe|it|test)\s*\(`)
	expectRe        = regexp.MustCompile(`\bexpect\s*\(`)
	jestImportRe    = regexp.MustCompile(`['"]@jest/globals['"]`)
	jestNamespaceRe = regexp.MustCompile(`\bjest\.\w+\s*\(`)
)

// Detect scores how strongly the source looks like Vitest. The vitest import
// is decisive on its own: Jest never imports from that module.
func Detect(source string) int {
	score := 0
	if vitestImportRe.MatchString(source) {
		score += 50
	}
	if viNamespaceRe.MatchString(source) {
		score += 25
	}
	if inlineSnapRe.MatchString(source) {
		score += 10
	}
	if lifecycleRe.MatchString(source) {
		score += 8
	}
	if bddRe.MatchString(source) {
		score += 5
	}
	if expectRe.MatchString(source) {
		score += 3
	}
	if jestImportRe.MatchString(source) {
		score -= 40
	}
	if jestNamespaceRe.MatchString(source) {
		score -= 25
	}
	return clamp(score)
}

// Parse builds the IR through the shared JS-family scan.
func Parse(source string) *ir.TestFile {
	return jslang.Parse(source, parseConfig)
}

// renames applied when Vitest is the conversion target (Jest sources).
var targetRenames = []jslang.Rename{
	{Re: regexp.MustCompile(`\bjest\.fn\b`), Replacement: "vi.fn"},
	{Re: regexp.MustCompile(`\bjest\.mock\b`), Replacement: "vi.mock"},
	{Re: regexp.MustCompile(`\bjest\.unmock\b`), Replacement: "vi.unmock"},
	{Re: regexp.MustCompile(`\bjest\.spyOn\b`), Replacement: "vi.spyOn"},
	{Re: regexp.MustCompile(`\bjest\.useFakeTimers\b`), Replacement: "vi.useFakeTimers"},
	{Re: regexp.MustCompile(`\bjest\.useRealTimers\b`), Replacement: "vi.useRealTimers"},
	{Re: regexp.MustCompile(`\bjest\.advanceTimersByTime\b`), Replacement: "vi.advanceTimersByTime"},
	{Re: regexp.MustCompile(`\bjest\.runAllTimers\b`), Replacement: "vi.runAllTimers"},
	{Re: regexp.MustCompile(`\bjest\.clearAllMocks\b`), Replacement: "vi.clearAllMocks"},
	{Re: regexp.MustCompile(`\bjest\.resetAllMocks\b`), Replacement: "vi.resetAllMocks"},
	{Re: regexp.MustCompile(`\bjest\.restoreAllMocks\b`), Replacement: "vi.restoreAllMocks"},
	{Re: regexp.MustCompile(`\bjest\.resetModules\b`), Replacement: "vi.resetModules"},
	{Re: regexp.MustCompile(`\bjest\.requireActual\b`), Replacement: "vi.importActual"},
	{Re: regexp.MustCompile(`\bjest\.requireMock\b`), Replacement: "vi.importMock"},
	{Re: regexp.MustCompile(`(\{[^}]*)\bjest\b([^}]*\})`), Replacement: "${1}vi${2}"},
}

var importRewrites = map[string]string{
	"@jest/globals": "vitest",
	"jest":          "vitest",
}

// Emit converts a Jest-family source into Vitest: call renames, import
// rewrites, then the IR-informed framework import insertion so a file that
// relied on Jest globals gains an explicit vitest import.
func Emit(file *ir.TestFile, source string) string {
	code := jslang.ApplyRenames(source, targetRenames)
	code = jslang.RewriteImports(code, importRewrites)
	if file != nil {
		code = jslang.EnsureFrameworkImport(code, file, "vitest", "vi")
	}
	return code
}

// Rewrite is the legacy emitter: the same phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

var kindToMatcher = jslang.Invert(Matchers, map[string]string{
	"equal":  "toBe",
	"throws": "toThrow",
})

// EmitTree synthesizes Vitest code from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return jslang.EmitTree(file, jslang.EmitConfig{
		Module:        "vitest",
		MockNamespace: "vi",
		CaseKeyword:   "it",
		AssertionFor: func(a *ir.Assertion) (string, bool) {
			return jslang.RenderExpect(a.AssertKind, a.Subject, a.Expected, a.Negated, kindToMatcher)
		},
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "vitest",
		Language: "javascript",
		Paradigm: registry.ParadigmBDD,
		Imports: registry.ImportSpec{
			Module: "vitest",
			Style:  "esm",
			Named:  []string{"describe", "it", "test", "expect", "vi"},
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
