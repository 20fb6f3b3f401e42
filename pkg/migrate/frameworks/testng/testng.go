// Package testng is the TestNG framework adapter. TestNG inverted the JUnit
// convention: its two-operand asserts take the actual value first.
package testng

import (
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/javalang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/marker"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Asserts maps the org.testng.Assert surface onto neutral kinds.
var Asserts = map[string]string{
	"assertEquals":    "equal",
	"assertNotEquals": "notEqual",
	"assertTrue":      "truthy",
	"assertFalse":     "falsy",
	"assertNull":      "isNull",
	"assertNotNull":   "isDefined",
	"assertSame":      "strictEqual",
	"assertNotSame":   "notStrictEqual",
	"assertThrows":    "throws",
	"fail":            "fail",
}

var parseConfig = javalang.Config{
	Framework:         "testng",
	FrameworkPackages: []string{"org.testng."},
	TestAnnotations:   map[string]bool{"Test": true},
	HookAnnotations: map[string]ir.HookType{
		"BeforeMethod": ir.HookBeforeEach,
		"AfterMethod":  ir.HookAfterEach,
		"BeforeClass":  ir.HookBeforeAll,
		"AfterClass":   ir.HookAfterAll,
		"BeforeSuite":  ir.HookBeforeAll,
		"AfterSuite":   ir.HookAfterAll,
	},
	SkipAnnotations: map[string]bool{},
	Asserts:         Asserts,
	AssertClasses:   map[string]bool{"Assert": true},
	SubjectFirst:    true,
	MessageFirst:    false,
}

var (
	testngImportRe = regexp.MustCompile(`import\s+(static\s+)?org\.testng`)
	testngHookRe   = regexp.MustCompile(`@(BeforeMethod|AfterMethod|BeforeSuite|AfterSuite)\b`)
	testngAttrRe   = regexp.MustCompile(`@Test\s*\(\s*(priority|dataProvider|groups|enabled|dependsOnMethods)\s*=`)
	dataProviderRe = regexp.MustCompile(`@DataProvider\b`)
	junitRe        = regexp.MustCompile(`org\.junit`)
)

// Detect scores how strongly the source looks like TestNG.
func Detect(source string) int {
	score := 0
	if testngImportRe.MatchString(source) {
		score += 50
	}
	if testngHookRe.MatchString(source) {
		score += 20
	}
	if testngAttrRe.MatchString(source) {
		score += 15
	}
	if dataProviderRe.MatchString(source) {
		score += 10
	}
	if junitRe.MatchString(source) {
		score -= 40
	}
	return clamp(score)
}

// Parse builds the IR through the shared Java xunit scan.
func Parse(source string) *ir.TestFile {
	return javalang.Parse(source, parseConfig)
}

// renames applied when TestNG is the conversion target.
var targetRenames = []javalang.Rename{
	{Re: regexp.MustCompile(`@BeforeAll\b`), Replacement: "@BeforeClass"},
	{Re: regexp.MustCompile(`@AfterAll\b`), Replacement: "@AfterClass"},
	{Re: regexp.MustCompile(`@BeforeEach\b`), Replacement: "@BeforeMethod"},
	{Re: regexp.MustCompile(`@AfterEach\b`), Replacement: "@AfterMethod"},
	{Re: regexp.MustCompile(`@Before\b`), Replacement: "@BeforeMethod"},
	{Re: regexp.MustCompile(`@After\b`), Replacement: "@AfterMethod"},
	{Re: regexp.MustCompile(`\bAssertions\.`), Replacement: "Assert."},
}

var importExact = map[string]string{
	"org.junit.Test":                   "org.testng.annotations.Test",
	"org.junit.Before":                 "org.testng.annotations.BeforeMethod",
	"org.junit.After":                  "org.testng.annotations.AfterMethod",
	"org.junit.BeforeClass":            "org.testng.annotations.BeforeClass",
	"org.junit.AfterClass":             "org.testng.annotations.AfterClass",
	"org.junit.Assert":                 "org.testng.Assert",
	"org.junit.jupiter.api.Test":       "org.testng.annotations.Test",
	"org.junit.jupiter.api.BeforeEach": "org.testng.annotations.BeforeMethod",
	"org.junit.jupiter.api.AfterEach":  "org.testng.annotations.AfterMethod",
	"org.junit.jupiter.api.BeforeAll":  "org.testng.annotations.BeforeClass",
	"org.junit.jupiter.api.AfterAll":   "org.testng.annotations.AfterClass",
	"org.junit.jupiter.api.Assertions": "org.testng.Assert",
}

var importPrefix = map[string]string{
	"org.junit.jupiter.api.Assertions.": "org.testng.Assert.",
	"org.junit.Assert.":                 "org.testng.Assert.",
}

// Style is how TestNG writes its asserts: through the Assert class, actual
// value first, message last.
var Style = javalang.AssertStyle{
	Receiver:     "Assert",
	SubjectFirst: true,
	MessageFirst: false,
	KindToMethod: invertAsserts(),
}

var disabledRe = regexp.MustCompile(`@(Disabled|Ignore)\b`)

// Emit converts a JUnit source into TestNG. The IR-informed assertion
// re-render runs first, while lines still match the parsed original, and
// swaps the arguments into actual-first order; annotation renames and
// import rewrites follow. Disabled markers have no standalone TestNG
// annotation and stay under a review marker.
func Emit(file *ir.TestFile, source string) string {
	code := javalang.RewriteAssertions(source, file, Style)
	code = javalang.ApplyRenames(code, targetRenames)
	code = javalang.RewriteImports(code, importExact, importPrefix)
	return markDisabled(code)
}

// Rewrite is the legacy emitter: the text phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

func markDisabled(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if disabledRe.MatchString(line) && !strings.Contains(line, marker.Warning) {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, marker.WarningComment("//", indent,
				"disabled-test annotation has no TestNG equivalent",
				strings.TrimSpace(line),
				"use @Test(enabled = false) on the test annotation"))
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// EmitTree synthesizes a TestNG class from the IR alone.
func EmitTree(file *ir.TestFile) string {
	return javalang.EmitTree(file, javalang.EmitConfig{
		Imports: []string{
			"org.testng.annotations.Test",
			"org.testng.annotations.BeforeMethod",
			"org.testng.annotations.AfterMethod",
			"org.testng.annotations.BeforeClass",
			"org.testng.annotations.AfterClass",
			"org.testng.Assert",
		},
		TestAnnotation: "@Test",
		HookAnnotations: map[ir.HookType]string{
			ir.HookBeforeEach: "@BeforeMethod",
			ir.HookAfterEach:  "@AfterMethod",
			ir.HookBeforeAll:  "@BeforeClass",
			ir.HookAfterAll:   "@AfterClass",
		},
		SkipAnnotation: "@Test(enabled = false)",
		Style:          Style,
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "testng",
		Language: "java",
		Paradigm: registry.ParadigmXUnit,
		Imports: registry.ImportSpec{
			Module: "org.testng",
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
