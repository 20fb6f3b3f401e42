// Package cypress is the Cypress framework adapter. Cypress tests are mocha
// suites driving the cy command chain, with chai-style expect assertions.
package cypress

import (
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/shared/jslang"
	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/marker"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Matchers maps the chai expect chains Cypress ships with to neutral kinds.
// The chain text includes the connective words because the extraction keys on
// everything between the subject and the call parenthesis.
var Matchers = map[string]string{
	"to.equal":         "equal",
	"to.eq":            "equal",
	"to.deep.equal":    "deepEqual",
	"to.be.true":       "truthy",
	"to.be.null":       "isNull",
	"to.be.undefined":  "isUndefined",
	"to.exist":         "isDefined",
	"to.contain":       "contains",
	"to.include":       "contains",
	"to.have.length":   "length",
	"to.have.property": "property",
	"to.match":         "matches",
	"to.throw":         "throws",
	"to.be.above":      "greaterThan",
	"to.be.below":      "lessThan",
	"to.be.closeTo":    "closeTo",
}

// MockCalls maps the cy test-double and interception calls to neutral kinds.
var MockCalls = map[string]string{
	"cy.intercept": "networkIntercept",
	"cy.route":     "networkIntercept",
	"cy.stub":      "createStub",
	"cy.spy":       "spy",
	"cy.clock":     "fakeTimers",
	"cy.tick":      "advanceTimers",
}

var parseConfig = jslang.Config{
	Framework:        "cypress",
	FrameworkModules: []string{"cypress"},
	Matchers:         Matchers,
	MockCalls:        MockCalls,
	CommandPrefixes:  []string{"cy.", "Cypress."},
}

var (
	cyCommandRe     = regexp.MustCompile(`\bcy\.\w+\s*\(`)
	cypressGlobalRe = regexp.MustCompile(`\bCypress\.(env|config|Commands)\b`)
	shouldRe        = regexp.MustCompile(`\.should\s*\(\s*['"]`)
	mochaSuiteRe    = regexp.MustCompile(`\b(describe|context)\s*\(`)
	mochaHookRe     = regexp.MustCompile(`\b(before|after)\s*\(`)
	playwrightRe    = regexp.MustCompile(`['"]@playwright/test['"]|\btest\.describe\b`)
)

// Detect scores how strongly the source looks like Cypress. The cy command
// chain is the identity signal; everything else is mocha vocabulary shared
// with plain mocha suites.
func Detect(source string) int {
	score := 0
	if cyCommandRe.MatchString(source) {
		score += 50
	}
	if cypressGlobalRe.MatchString(source) {
		score += 20
	}
	if shouldRe.MatchString(source) {
		score += 15
	}
	if mochaSuiteRe.MatchString(source) {
		score += 5
	}
	if mochaHookRe.MatchString(source) {
		score += 3
	}
	if playwrightRe.MatchString(source) {
		score -= 40
	}
	return clamp(score)
}

// Parse builds the IR through the shared JS-family scan.
func Parse(source string) *ir.TestFile {
	return jslang.Parse(source, parseConfig)
}

// renames applied when Cypress is the conversion target (Playwright sources).
// Structural phases run first so the command renames see bare callbacks.
var targetRenames = []jslang.Rename{
	{Re: regexp.MustCompile(`\btest\.describe\b`), Replacement: "describe"},
	{Re: regexp.MustCompile(`\btest\.beforeAll\b`), Replacement: "before"},
	{Re: regexp.MustCompile(`\btest\.beforeEach\b`), Replacement: "beforeEach"},
	{Re: regexp.MustCompile(`\btest\.afterEach\b`), Replacement: "afterEach"},
	{Re: regexp.MustCompile(`\btest\.afterAll\b`), Replacement: "after"},
	{Re: regexp.MustCompile(`\btest\s*\(`), Replacement: "it("},
	{Re: regexp.MustCompile(`async\s*\(\s*\{[^}]*\}\s*\)\s*=>`), Replacement: "() =>"},
	{Re: regexp.MustCompile(`await\s+page\.goto\s*\(`), Replacement: "cy.visit("},
	{Re: regexp.MustCompile(`await\s+page\.locator\s*\(`), Replacement: "cy.get("},
	{Re: regexp.MustCompile(`await\s+page\.getByText\s*\(`), Replacement: "cy.contains("},
	{Re: regexp.MustCompile(`await\s+page\.reload\s*\(`), Replacement: "cy.reload("},
	{Re: regexp.MustCompile(`\bpage\.goto\s*\(`), Replacement: "cy.visit("},
	{Re: regexp.MustCompile(`\bpage\.locator\s*\(`), Replacement: "cy.get("},
	{Re: regexp.MustCompile(`\bpage\.getByText\s*\(`), Replacement: "cy.contains("},
	{Re: regexp.MustCompile(`\bpage\.reload\s*\(`), Replacement: "cy.reload("},
	{Re: regexp.MustCompile(`\.fill\s*\(`), Replacement: ".type("},
}

var (
	pageResidueRe      = regexp.MustCompile(`\b(page|browser|context)\.\w+`)
	playwrightImportRe = regexp.MustCompile(`(?m)^.*['"]@playwright/test['"].*\n?`)
)

// Emit converts a Playwright source into Cypress. Browser commands with no
// cy equivalent are left in place under a review marker rather than dropped.
// The framework import goes away entirely: Cypress injects its globals.
func Emit(file *ir.TestFile, source string) string {
	code := jslang.ApplyRenames(source, targetRenames)
	code = playwrightImportRe.ReplaceAllString(code, "")
	return markResidue(code)
}

// Rewrite is the legacy emitter: the same phases with no IR consultation.
func Rewrite(source string) string { return Emit(nil, source) }

// markResidue annotates every line still using the Playwright page object.
func markResidue(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if pageResidueRe.MatchString(line) && !strings.Contains(line, marker.Todo) {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, marker.TodoComment("//", indent,
				"no direct cy equivalent for this browser call",
				strings.TrimSpace(line),
				"rewrite against the cy command chain"))
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var kindToMatcher = jslang.Invert(Matchers, map[string]string{
	"equal":     "to.equal",
	"contains":  "to.contain",
	"isDefined": "to.exist",
})

// commandFor maps Playwright raw lines to cy commands during tree emission.
var treeRaw = []jslang.Rename{
	{Re: regexp.MustCompile(`^await\s+page\.goto\s*\(`), Replacement: "cy.visit("},
	{Re: regexp.MustCompile(`^await\s+page\.locator\s*\(`), Replacement: "cy.get("},
	{Re: regexp.MustCompile(`^await\s+page\.getByText\s*\(`), Replacement: "cy.contains("},
	{Re: regexp.MustCompile(`\.fill\s*\(`), Replacement: ".type("},
}

// EmitTree synthesizes Cypress code from the IR. Cypress injects its globals,
// so no framework import is emitted.
func EmitTree(file *ir.TestFile) string {
	return jslang.EmitTree(file, jslang.EmitConfig{
		CaseKeyword: "it",
		HookNames: map[ir.HookType]string{
			ir.HookBeforeAll: "before",
			ir.HookAfterAll:  "after",
		},
		AssertionFor: func(a *ir.Assertion) (string, bool) {
			return jslang.RenderExpect(a.AssertKind, a.Subject, a.Expected, a.Negated, kindToMatcher)
		},
		RawFor: func(raw *ir.RawCode) (string, bool) {
			orig := strings.TrimSpace(raw.Code)
			line := jslang.ApplyRenames(orig, treeRaw)
			if pageResidueRe.MatchString(line) {
				return marker.TodoComment("//", "",
					"no direct cy equivalent for this browser call",
					orig, "rewrite against the cy command chain"), true
			}
			return line, line != orig
		},
	})
}

// Definition returns the registry entry for this adapter.
func Definition() *registry.Definition {
	return &registry.Definition{
		Name:     "cypress",
		Language: "javascript",
		Paradigm: registry.ParadigmBDD,
		Imports: registry.ImportSpec{
			// Cypress injects cy, describe and expect as globals; the module
			// name only identifies the framework, emitted code never imports it.
			Module: "cypress",
			Style:  "global",
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
