package jslang

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

func TestRewriteImportsPreservesQuotesAndSpecifiers(t *testing.T) {
	code := "import { describe } from '@jest/globals';\nconst j = require(\"jest\");\n"
	out := RewriteImports(code, map[string]string{"@jest/globals": "vitest", "jest": "vitest"})

	assert.Contains(t, out, "import { describe } from 'vitest';")
	assert.Contains(t, out, "require(\"vitest\")")
}

func TestApplyRenamesRunsInOrder(t *testing.T) {
	renames := []Rename{
		{Re: regexp.MustCompile(`\bjest\.fn\b`), Replacement: "vi.fn"},
		{Re: regexp.MustCompile(`\bjest\.mock\b`), Replacement: "vi.mock"},
	}
	out := ApplyRenames("jest.mock('./m');\nconst f = jest.fn();", renames)
	assert.Equal(t, "vi.mock('./m');\nconst f = vi.fn();", out)
}

func TestNeededSpecifiersDerivedFromTree(t *testing.T) {
	file := ir.NewFile()
	suite := &ir.TestSuite{Name: "s"}
	tc := &ir.TestCase{Name: "c"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal"})
	suite.Tests = append(suite.Tests, tc)
	suite.Hooks = append(suite.Hooks, &ir.Hook{Type: ir.HookBeforeEach})
	file.Body = append(file.Body, suite, &ir.MockCall{MockKind: "createStub"})

	specs := NeededSpecifiers(file, "vi")
	assert.Equal(t, []string{"describe", "it", "expect", "beforeEach", "vi"}, specs)
}

func TestEnsureFrameworkImport(t *testing.T) {
	file := ir.NewFile()
	file.Body = append(file.Body, &ir.TestCase{Name: "c"})

	out := EnsureFrameworkImport("it('c', () => {});\n", file, "vitest", "vi")
	assert.Contains(t, out, "import { it } from 'vitest';")

	// Presence of the module string means no second import.
	already := "import { it } from 'vitest';\nit('c', () => {});\n"
	assert.Equal(t, already, EnsureFrameworkImport(already, file, "vitest", "vi"))
}

func TestEmitTreeSynthesizesNestedStructure(t *testing.T) {
	file := ir.NewFile()
	suite := &ir.TestSuite{Name: "calculator"}
	suite.SharedState = append(suite.SharedState, &ir.SharedVariable{Name: "calc"})
	suite.Hooks = append(suite.Hooks, &ir.Hook{Type: ir.HookBeforeEach})
	tc := &ir.TestCase{Name: "adds"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "calc.add(2, 2)", Expected: "4"})
	suite.Tests = append(suite.Tests, tc)
	file.Body = append(file.Body, suite)

	out := EmitTree(file, EmitConfig{
		Module:      "vitest",
		CaseKeyword: "it",
		AssertionFor: func(a *ir.Assertion) (string, bool) {
			return RenderExpect(a.AssertKind, a.Subject, a.Expected, a.Negated, map[string]string{"equal": "toBe"})
		},
	})

	assert.Contains(t, out, "import { describe, it, expect, beforeEach } from 'vitest';")
	assert.Contains(t, out, "describe('calculator', () => {")
	assert.Contains(t, out, "  let calc;")
	assert.Contains(t, out, "  beforeEach(() => {")
	assert.Contains(t, out, "  it('adds', () => {")
	assert.Contains(t, out, "    expect(calc.add(2, 2)).toBe(4);")
}

func TestEmitTreeDegradesUnknownAssertionToMarker(t *testing.T) {
	file := ir.NewFile()
	tc := &ir.TestCase{Name: "snap"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "snapshot", NodeMeta: ir.Meta{OriginalSource: "expect(x).toMatchSnapshot();"}})
	file.Body = append(file.Body, tc)

	out := EmitTree(file, EmitConfig{
		Module:      "vitest",
		CaseKeyword: "it",
		AssertionFor: func(a *ir.Assertion) (string, bool) {
			return RenderExpect(a.AssertKind, a.Subject, a.Expected, a.Negated, map[string]string{"equal": "toBe"})
		},
	})

	assert.Contains(t, out, "HAMLET-TODO(")
	assert.Contains(t, out, "assertion kind snapshot has no target equivalent")
	assert.Contains(t, out, "expect(x).toMatchSnapshot();")
}

func TestEmitTreeModifierSuffix(t *testing.T) {
	file := ir.NewFile()
	tc := &ir.TestCase{Name: "later"}
	tc.Modifiers = append(tc.Modifiers, &ir.Modifier{ModKind: ir.ModifierSkip})
	file.Body = append(file.Body, tc)

	out := EmitTree(file, EmitConfig{Module: "vitest", CaseKeyword: "it"})
	assert.Contains(t, out, "it.skip('later', () => {")
}

func TestRenderExpect(t *testing.T) {
	table := map[string]string{"equal": "toBe", "contains": "toContain"}

	line, ok := RenderExpect("equal", "total", "7", false, table)
	require.True(t, ok)
	assert.Equal(t, "expect(total).toBe(7);", line)

	line, ok = RenderExpect("contains", "list", "4", true, table)
	require.True(t, ok)
	assert.Equal(t, "expect(list).not.toContain(4);", line)

	_, ok = RenderExpect("snapshot", "x", "", false, table)
	assert.False(t, ok)
}

func TestInvertPrefersNamedMatcher(t *testing.T) {
	out := Invert(map[string]string{
		"toBe":         "equal",
		"toThrow":      "throws",
		"toThrowError": "throws",
	}, map[string]string{"throws": "toThrow"})

	assert.Equal(t, "toBe", out["equal"])
	assert.Equal(t, "toThrow", out["throws"])
}
