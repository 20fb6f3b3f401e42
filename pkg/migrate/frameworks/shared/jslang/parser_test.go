package jslang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

var testConfig = Config{
	Framework:        "jest",
	FrameworkModules: []string{"@jest/globals", "jest"},
	Matchers: map[string]string{
		"toBe":      "equal",
		"toEqual":   "deepEqual",
		"toContain": "contains",
		"toThrow":   "throws",
	},
	MockCalls: map[string]string{
		"jest.fn":            "createStub",
		"jest.useFakeTimers": "fakeTimers",
	},
}

const parserSource = `import { describe, it, expect } from '@jest/globals';
import helpers from './helpers';

describe('cart', () => {
  let cart;

  beforeEach(() => {
    cart = helpers.newCart();
  });

  it('starts empty', () => {
    expect(cart.items).toEqual([]);
  });

  it.skip('applies discounts', async () => {
    await expect(cart.total()).resolves.toBe(0);
  });
});
`

func TestParseBuildsSuiteTree(t *testing.T) {
	file := Parse(parserSource, testConfig)

	require.Len(t, file.Imports, 2)
	assert.Equal(t, ir.ImportFramework, file.Imports[0].ImportKind)
	assert.Equal(t, []string{"describe", "it", "expect"}, file.Imports[0].Specifiers)
	assert.Equal(t, ir.ImportLibrary, file.Imports[1].ImportKind)
	assert.True(t, file.Imports[1].IsDefault)

	require.Len(t, file.Body, 1)
	suite, ok := file.Body[0].(*ir.TestSuite)
	require.True(t, ok)
	assert.Equal(t, "cart", suite.Name)

	require.Len(t, suite.SharedState, 1)
	assert.Equal(t, "cart", suite.SharedState[0].Name)

	require.Len(t, suite.Hooks, 1)
	assert.Equal(t, ir.HookBeforeEach, suite.Hooks[0].Type)
	require.Len(t, suite.Hooks[0].Body, 1)

	require.Len(t, suite.Tests, 2)
	first, ok := suite.Tests[0].(*ir.TestCase)
	require.True(t, ok)
	assert.Equal(t, "starts empty", first.Name)
	require.Len(t, first.Body, 1)
	a, ok := first.Body[0].(*ir.Assertion)
	require.True(t, ok)
	assert.Equal(t, "deepEqual", a.AssertKind)
	assert.Equal(t, "cart.items", a.Subject)
	assert.Equal(t, "[]", a.Expected)

	second, ok := suite.Tests[1].(*ir.TestCase)
	require.True(t, ok)
	assert.True(t, second.IsAsync)
	require.Len(t, second.Modifiers, 1)
	assert.Equal(t, ir.ModifierSkip, second.Modifiers[0].ModKind)
}

func TestParseStructuralLinesProduceNoNodes(t *testing.T) {
	file := Parse("describe('x', () => {\n});\n", testConfig)

	require.Len(t, file.Body, 1)
	suite := file.Body[0].(*ir.TestSuite)
	assert.Empty(t, suite.Tests)
}

func TestParseMockCall(t *testing.T) {
	file := Parse("const spy = jest.fn();\njest.useFakeTimers();\n", testConfig)

	// jest.fn hides behind the const binding, so only the bare call parses
	// as a mock node; the binding stays raw.
	var mocks []*ir.MockCall
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if m, ok := n.(*ir.MockCall); ok {
			mocks = append(mocks, m)
		}
		return ir.Continue
	})
	require.Len(t, mocks, 1)
	assert.Equal(t, "fakeTimers", mocks[0].MockKind)
	assert.True(t, mocks[0].NodeMeta.HasTimingDependency)
}

func TestParseCommandPrefixMarksFrameworkSpecific(t *testing.T) {
	cfg := testConfig
	cfg.CommandPrefixes = []string{"cy."}
	file := Parse("cy.visit('/home');\n", cfg)

	require.Len(t, file.Body, 1)
	raw, ok := file.Body[0].(*ir.RawCode)
	require.True(t, ok)
	assert.True(t, raw.NodeMeta.FrameworkSpecific)
}

func TestExtractAssertionNestedParens(t *testing.T) {
	a, ok := ExtractAssertion("expect(add(1, mul(2, 3))).toBe(sum(6));", testConfig.Matchers)
	require.True(t, ok)
	assert.Equal(t, "equal", a.AssertKind)
	assert.Equal(t, "add(1, mul(2, 3))", a.Subject)
	assert.Equal(t, "sum(6)", a.Expected)
}

func TestExtractAssertionNegated(t *testing.T) {
	a, ok := ExtractAssertion("expect(list).not.toContain(4);", testConfig.Matchers)
	require.True(t, ok)
	assert.Equal(t, "contains", a.AssertKind)
	assert.True(t, a.Negated)
}

func TestExtractAssertionAsyncChain(t *testing.T) {
	a, ok := ExtractAssertion("await expect(fetchUser()).resolves.toEqual(user);", testConfig.Matchers)
	require.True(t, ok)
	assert.True(t, a.NodeMeta.RequiresAsync)
	assert.Equal(t, "fetchUser()", a.Subject)
}

func TestExtractAssertionUnknownMatcher(t *testing.T) {
	_, ok := ExtractAssertion("expect(el).toBeVisible();", testConfig.Matchers)
	assert.False(t, ok)
}
