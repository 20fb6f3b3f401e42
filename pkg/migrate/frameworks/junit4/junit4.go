// Package junit4 is the JUnit 4 framework adapter. JUnit 4 writes its
// two-operand asserts expected-first and leads the optional message.
package junit4

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/javalang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Asserts maps the org.junit.Assert surface onto neutral kinds.
var Asserts = map[string]string{
	"assertEquals":      "equal",
	"assertNotEquals":   "notEqual",
	"assertArrayEquals": "deepEqual",
	"assertTrue":        "truthy",
	"assertFalse":       "falsy",
	"assertNull":        "isNull",
	"assertNotNull":     "isDefined",
	"assertSame":        "strictEqual",
	"assertNotSame":     "notStrictEqual",
	"assertThrows":      "throws",
	"fail":              "fail",
}

var parseConfig = javalang.Config{
	Framework:         "junit4",
	FrameworkPackages: []string{"org.junit.", "junit."},
	TestAnnotations:   map[string]bool{"Test": true},
	HookAnnotations: map[string]ir.HookType{
		"Before":      ir.HookBeforeEach,
		"After":       ir.HookAfterEach,
		"BeforeClass": ir.HookBeforeAll,
		"AfterClass":  ir.HookAfterAll,
	},
	SkipAnnotations: map[string]bool{"Ignore": true},
	Asserts:         Asserts,
	AssertClasses:   map[string]bool{"Assert": true},
	SubjectFirst:    false,
	MessageFirst:    true,
}

var (
	junit4ImportRe  = regexp.MustCompile(`import\s+(static\s+)?org\.junit\.(Test|Assert|Before|After|BeforeClass|AfterClass|Ignore)\b`)
	runWithRe       = regexp.MustCompile(`@RunWith\b`)
	expectedAnnotRe = regexp.MustCompile(`@Test\s*\(\s*expected\s*=`)
	legacyHookRe    = regexp.MustCompile(`@(Before|After|BeforeClass|AfterClass)\b`)
	jupiterRe       = regexp.MustCompile(`org\.junit\.jupiter`)
	testngRe        = regexp.MustCompile(`org\.testng`)
)

// Detect scores how strongly the source looks like JUnit 4. The legacy
// import layout is the identity signal; jupiter packages rule it out.
func Detect(source string) int {
	score := 0
	if junit4ImportRe.MatchString(source) {
		score += 45
	}
	if runWithRe.MatchString(source) {
		score += 15
	}
	if expectedAnnotRe.MatchString(source) {
		score += 15
	}
	if legacyHookRe.MatchString(source) {
		score += 10
	}
	if jupiterRe.MatchString(source) {
		score -= 50
	}
	if testngRe.MatchString(source) {
		score -= 40
	}
	return clamp(score)
}

// Parse builds the IR through the shared Java xunit scan.
func Parse(source string) *ir.TestFile {
	return javalang.Parse(source, parseConfig)
}

// renames applied when JUnit 4 is the conversion target.
var targetRenames = []javalang.Rename{
	{Re: regexp.MustCompile(`@BeforeAll\b`), Replacement: "@BeforeClass"},
	{Re: regexp.MustCompile(`@AfterAll\b`), Replacement: "@AfterClass"},
	{Re: regexp.MustCompile(`@BeforeEach\b`), Replacement: "@Before"},
	{Re: regexp.MustCompile(`@AfterEach\b`), Replacement: "@After"},
	{Re: regexp.MustCompile(`@BeforeMethod\b`), Replacement: "@Before"},
	{Re: regexp.MustCompile(`@AfterMethod\b`), Replacement: "@After"},
	{Re: regexp.MustCompile(`@Disabled\b`), Replacement: "@Ignore"},
	{Re: regexp.MustCompile(`\bAssertions\.`), Replacement: "Assert."},
}

var importExact = map[string]string{
	"org.junit.jupiter.api.Test":       "org.junit.Test",
	"org.junit.jupiter.api.BeforeEach": "org.junit.Before",
	"org.junit.jupiter.api.AfterEach":  "org.junit.After",
	"org.junit.jupiter.api.BeforeAll":  "org.junit.BeforeClass",
	"org.junit.jupiter.api.AfterAll":   "org.junit.AfterClass",
	"org.junit.jupiter.api.Disabled":   "org.junit.Ignore",
	"org.junit.jupiter.api.Assertions": "org.junit.Assert",
	"org.testng.annotations.Test":      "org.junit.Test",
	"org.testng.Assert":                "org.junit.Assert",
}

var importPrefix = map[string]string{
	"org.junit.jupiter.api.Assertions.": "org.junit.Assert.",
	"org.testng.annotations.":           "org.junit.",
	"org.testng.Assert.":                "org.junit.Assert.",
}

// Style is how JUnit 4 writes its asserts: bare static-import calls,
// expected first, message first.
var Style = javalang.AssertStyle{
	Receiver:     "",
	SubjectFirst: false,
	MessageFirst: true,
	KindToMethod: invertAsserts(),
}

// Emit converts a JUnit 5 or TestNG source into JUnit 4. The IR-informed
// assertion re-render runs first, while lines still match the parsed
// original; annotation renames and import rewrites follow and catch any
// assert the parser did not claim.
func Emit(file *ir.TestFile, source string) string {
	code := javalang.RewriteAssertions(source, file, Style)
	code = javalang.ApplyRenames(code, targetRenames)
	return javalang.RewriteImports(code, importExact, importPrefix)
}

// Rewrite is the legacy emitter: the text phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

// EmitTree synthesizes a JUnit 4 class from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return javalang.EmitTree(file, javalang.EmitConfig{
		Imports: []string{
			"org.junit.Test",
			"org.junit.Before",
			"org.junit.After",
			"org.junit.BeforeClass",
			"org.junit.AfterClass",
			"static org.junit.Assert.*",
		},
		TestAnnotation: "@Test",
		HookAnnotations: map[ir.HookType]string{
			ir.HookBeforeEach: "@Before",
			ir.HookAfterEach:  "@After",
			ir.HookBeforeAll:  "@BeforeClass",
			ir.HookAfterAll:   "@AfterClass",
		},
		SkipAnnotation: "@Ignore",
		StaticHooks:    true,
		Style:          Style,
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "junit4",
		Language: "java",
		Paradigm: registry.ParadigmXUnit,
		Imports: registry.ImportSpec{
			Module: "org.junit",
			Style:  "java",
			Named:  []string{"Test", "Assert"},
		},
		Detect:   Detect,
		Parse:    Parse,
		Emit:     Emit,
		Rewrite:  Rewrite,
		EmitTree: EmitTree,
	}
}

func invertAsserts() map[string]string {
	out := make(map[string]string, len(Asserts))
	for method, kind := range Asserts {
		if _, taken := out[kind]; !taken {
			out[kind] = method
		}
	}
	return out
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
