// Package junit5 is the JUnit 5 (Jupiter) framework adapter. Like JUnit 4 it
// writes asserts expected-first, but the optional message moved to the end
// and the expected-exception annotation became an explicit assertThrows.
package junit5

import (
	"regexp"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/javalang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Asserts maps the org.junit.jupiter.api.Assertions surface onto neutral kinds.
var Asserts = map[string]string{
	"assertEquals":         "equal",
	"assertNotEquals":      "notEqual",
	"assertArrayEquals":    "deepEqual",
	"assertIterableEquals": "deepEqual",
	"assertTrue":           "truthy",
	"assertFalse":          "falsy",
	"assertNull":           "isNull",
	"assertNotNull":        "isDefined",
	"assertSame":           "strictEqual",
	"assertNotSame":        "notStrictEqual",
	"assertThrows":         "throws",
	"fail":                 "fail",
}

var parseConfig = javalang.Config{
	Framework:         "junit5",
	FrameworkPackages: []string{"org.junit.jupiter."},
	TestAnnotations: map[string]bool{
		"Test": true, "ParameterizedTest": true, "RepeatedTest": true,
	},
	HookAnnotations: map[string]ir.HookType{
		"BeforeEach": ir.HookBeforeEach,
		"AfterEach":  ir.HookAfterEach,
		"BeforeAll":  ir.HookBeforeAll,
		"AfterAll":   ir.HookAfterAll,
	},
	SkipAnnotations: map[string]bool{"Disabled": true},
	Asserts:         Asserts,
	AssertClasses:   map[string]bool{"Assertions": true},
	SubjectFirst:    false,
	MessageFirst:    false,
}

var (
	jupiterImportRe = regexp.MustCompile(`import\s+(static\s+)?org\.junit\.jupiter`)
	jupiterHookRe   = regexp.MustCompile(`@(BeforeEach|AfterEach|BeforeAll|AfterAll)\b`)
	assertionsRe    = regexp.MustCompile(`\bAssertions\.\w+\s*\(`)
	displayNameRe   = regexp.MustCompile(`@DisplayName\b`)
	junit4ImportRe  = regexp.MustCompile(`import\s+(static\s+)?org\.junit\.(Test|Assert|Before|After|RunWith)\b`)
	testngRe        = regexp.MustCompile(`org\.testng`)
)

// Detect scores how strongly the source looks like Jupiter.
func Detect(source string) int {
	score := 0
	if jupiterImportRe.MatchString(source) {
		score += 50
	}
	if jupiterHookRe.MatchString(source) {
		score += 15
	}
	if assertionsRe.MatchString(source) {
		score += 15
	}
	if displayNameRe.MatchString(source) {
		score += 10
	}
	if junit4ImportRe.MatchString(source) {
		score -= 40
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

// renames applied when JUnit 5 is the conversion target. Class-scope names
// rewrite before their each-scope prefixes so @BeforeClass never matches
// the bare @Before rule.
var targetRenames = []javalang.Rename{
	{Re: regexp.MustCompile(`@BeforeClass\b`), Replacement: "@BeforeAll"},
	{Re: regexp.MustCompile(`@AfterClass\b`), Replacement: "@AfterAll"},
	{Re: regexp.MustCompile(`@BeforeMethod\b`), Replacement: "@BeforeEach"},
	{Re: regexp.MustCompile(`@AfterMethod\b`), Replacement: "@AfterEach"},
	{Re: regexp.MustCompile(`@Before\b`), Replacement: "@BeforeEach"},
	{Re: regexp.MustCompile(`@After\b`), Replacement: "@AfterEach"},
	{Re: regexp.MustCompile(`@Ignore\b`), Replacement: "@Disabled"},
	{Re: regexp.MustCompile(`@Test\s*\(\s*enabled\s*=\s*false\s*\)`), Replacement: "@Disabled\n    @Test"},
	{Re: regexp.MustCompile(`\bAssert\.`), Replacement: "Assertions."},
}

var importExact = map[string]string{
	"org.junit.Test":              "org.junit.jupiter.api.Test",
	"org.junit.Before":            "org.junit.jupiter.api.BeforeEach",
	"org.junit.After":             "org.junit.jupiter.api.AfterEach",
	"org.junit.BeforeClass":       "org.junit.jupiter.api.BeforeAll",
	"org.junit.AfterClass":        "org.junit.jupiter.api.AfterAll",
	"org.junit.Ignore":            "org.junit.jupiter.api.Disabled",
	"org.junit.Assert":            "org.junit.jupiter.api.Assertions",
	"org.testng.annotations.Test": "org.junit.jupiter.api.Test",
	"org.testng.Assert":           "org.junit.jupiter.api.Assertions",
	"org.testng.AssertJUnit":      "org.junit.jupiter.api.Assertions",
}

var importPrefix = map[string]string{
	"org.junit.Assert.":        "org.junit.jupiter.api.Assertions.",
	"org.testng.Assert.":       "org.junit.jupiter.api.Assertions.",
	"org.testng.annotations.":  "org.junit.jupiter.api.",
}

// Style is how JUnit 5 writes its asserts: through the Assertions class,
// expected first, message last.
var Style = javalang.AssertStyle{
	Receiver:     "Assertions",
	SubjectFirst: false,
	MessageFirst: false,
	KindToMethod: invertAsserts(),
}

// Emit converts a JUnit 4 or TestNG source into Jupiter. The IR-informed
// assertion re-render runs first, while every line still matches the parsed
// original; then annotation renames, import rewrites and the
// expected-exception unwrap. The rename phase still catches any assert the
// parser did not claim.
func Emit(file *ir.TestFile, source string) string {
	code := javalang.RewriteAssertions(source, file, Style)
	code = javalang.ApplyRenames(code, targetRenames)
	code = javalang.RewriteImports(code, importExact, importPrefix)
	return javalang.ConvertExpectedException(code, "Assertions.assertThrows")
}

// Rewrite is the legacy emitter: the text phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

// EmitTree synthesizes a Jupiter class from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return javalang.EmitTree(file, javalang.EmitConfig{
		Imports: []string{
			"org.junit.jupiter.api.Test",
			"org.junit.jupiter.api.BeforeEach",
			"org.junit.jupiter.api.AfterEach",
			"org.junit.jupiter.api.BeforeAll",
			"org.junit.jupiter.api.AfterAll",
			"org.junit.jupiter.api.Assertions",
		},
		TestAnnotation: "@Test",
		HookAnnotations: map[ir.HookType]string{
			ir.HookBeforeEach: "@BeforeEach",
			ir.HookAfterEach:  "@AfterEach",
			ir.HookBeforeAll:  "@BeforeAll",
			ir.HookAfterAll:   "@AfterAll",
		},
		SkipAnnotation: "@Disabled",
		StaticHooks:    true,
		Style:          Style,
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "junit5",
		Language: "java",
		Paradigm: registry.ParadigmXUnit,
		Imports: registry.ImportSpec{
			Module: "org.junit.jupiter.api",
			Style:  "java",
			Named:  []string{"Test", "Assertions"},
		},
		Detect:   Detect,
		Parse:    Parse,
		Emit:     Emit,
		Rewrite:  Rewrite,
		EmitTree: EmitTree,
	}
}

func invertAsserts() map[string]string {
	out := map[string]string{
		"deepEqual": "assertArrayEquals",
	}
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
