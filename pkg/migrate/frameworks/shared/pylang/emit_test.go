package pylang

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

func TestApplyRenamesRunsInOrder(t *testing.T) {
	renames := []Rename{
		{Re: regexp.MustCompile(`(?m)^import pytest$`), Replacement: "import unittest"},
		{Re: regexp.MustCompile(`\bpytest\.raises\b`), Replacement: "self.assertRaises"},
	}
	out := ApplyRenames("import pytest\nwith pytest.raises(ValueError):\n", renames)
	assert.Equal(t, "import unittest\nwith self.assertRaises(ValueError):\n", out)
}

func TestRewriteAssertionsPreservesIndent(t *testing.T) {
	source := "class TestCart:\n    def test_size(self):\n        assert cart.size() == 3\n"
	file := Parse(source, bareConfig)
	out := RewriteAssertions(source, file, RenderSelfAssertion)

	assert.Contains(t, out, "        self.assertEqual(cart.size(), 3)")
	assert.NotContains(t, out, "assert cart.size() == 3")
}

func TestRewriteAssertionsNilFileIsIdentity(t *testing.T) {
	source := "assert x == 1\n"
	assert.Equal(t, source, RewriteAssertions(source, nil, RenderSelfAssertion))
}

func TestRenderSelfAssertionTable(t *testing.T) {
	cases := []struct {
		a    ir.Assertion
		want string
	}{
		{ir.Assertion{AssertKind: "equal", Subject: "x", Expected: "1"}, "self.assertEqual(x, 1)"},
		{ir.Assertion{AssertKind: "equal", Subject: "x", Expected: "1", Negated: true}, "self.assertNotEqual(x, 1)"},
		{ir.Assertion{AssertKind: "isDefined", Subject: "x"}, "self.assertIsNotNone(x)"},
		{ir.Assertion{AssertKind: "contains", Subject: "table", Expected: "key"}, "self.assertIn(key, table)"},
		{ir.Assertion{AssertKind: "throws", Subject: "cart.pop", Expected: "IndexError"}, "self.assertRaises(IndexError, cart.pop)"},
		{ir.Assertion{AssertKind: "truthy", Subject: "done", Message: `"not done"`}, `self.assertTrue(done, "not done")`},
		{ir.Assertion{AssertKind: "fail", Message: `"unreachable"`}, `self.fail("unreachable")`},
	}
	for _, c := range cases {
		got, ok := RenderSelfAssertion(&c.a)
		require.True(t, ok, c.want)
		assert.Equal(t, c.want, got)
	}
}

func TestRenderSelfAssertionUnknownKind(t *testing.T) {
	_, ok := RenderSelfAssertion(&ir.Assertion{AssertKind: "hasText"})
	assert.False(t, ok)
}

func TestRenderBareAssertionTable(t *testing.T) {
	cases := []struct {
		a    ir.Assertion
		want string
	}{
		{ir.Assertion{AssertKind: "equal", Subject: "x", Expected: "1"}, "assert x == 1"},
		{ir.Assertion{AssertKind: "equal", Subject: "x", Expected: "1", Negated: true}, "assert x != 1"},
		{ir.Assertion{AssertKind: "isNull", Subject: "x"}, "assert x is None"},
		{ir.Assertion{AssertKind: "contains", Subject: "table", Expected: "key"}, "assert key in table"},
		{ir.Assertion{AssertKind: "contains", Subject: "table", Expected: "key", Negated: true}, "assert key not in table"},
		{ir.Assertion{AssertKind: "length", Subject: "items", Expected: "3"}, "assert len(items) == 3"},
		{ir.Assertion{AssertKind: "falsy", Subject: "done"}, "assert not done"},
		{ir.Assertion{AssertKind: "equal", Subject: "x", Expected: "1", Message: `"bad"`}, `assert x == 1, "bad"`},
	}
	for _, c := range cases {
		got, ok := RenderBareAssertion(&c.a)
		require.True(t, ok, c.want)
		assert.Equal(t, c.want, got)
	}
}

func TestRenderBareAssertionUnknownKind(t *testing.T) {
	_, ok := RenderBareAssertion(&ir.Assertion{AssertKind: "throws"})
	assert.False(t, ok)
}

func TestEmitTreeClassMode(t *testing.T) {
	file := ir.NewFile()
	file.Imports = append(file.Imports, &ir.Import{Source: "decimal", Specifiers: []string{"Decimal"}})
	suite := &ir.TestSuite{Name: "ledger"}
	suite.SharedState = append(suite.SharedState, &ir.SharedVariable{Name: "currency", Value: `"EUR"`})
	tc := &ir.TestCase{Name: "starts balanced"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "ledger.total()", Expected: "Decimal(0)"})
	suite.Tests = append(suite.Tests, tc)
	file.Body = append(file.Body, suite)

	out := EmitTree(file, EmitConfig{
		Imports:      []string{"unittest"},
		ClassBased:   true,
		AssertionFor: RenderSelfAssertion,
	})

	assert.Contains(t, out, "import unittest\n")
	assert.Contains(t, out, "from decimal import Decimal\n")
	assert.Contains(t, out, "class TestLedger(unittest.TestCase):")
	assert.Contains(t, out, `    currency = "EUR"`)
	assert.Contains(t, out, "    def test_starts_balanced(self):")
	assert.Contains(t, out, "        self.assertEqual(ledger.total(), Decimal(0))")
}

func TestEmitTreeDegradesUnrenderableNodes(t *testing.T) {
	file := ir.NewFile()
	tc := &ir.TestCase{Name: "uses mocks"}
	tc.Body = append(tc.Body,
		&ir.Assertion{
			NodeMeta:   ir.Meta{OriginalSource: "expect(el).toBeVisible();"},
			AssertKind: "visible",
		},
		&ir.MockCall{
			NodeMeta: ir.Meta{OriginalSource: "jest.useFakeTimers();"},
			MockKind: "fakeTimers",
		},
	)
	file.Body = append(file.Body, tc)

	out := EmitTree(file, EmitConfig{
		Imports:      []string{"pytest"},
		AssertionFor: RenderBareAssertion,
	})

	assert.Contains(t, out, "HAMLET-TODO(")
	assert.Contains(t, out, "assertion kind visible has no target equivalent")
	assert.Contains(t, out, "mock kind fakeTimers has no target equivalent")
	assert.Contains(t, out, "expect(el).toBeVisible();")
}

func TestEmitTreeWarnsOnPathImports(t *testing.T) {
	file := ir.NewFile()
	file.Imports = append(file.Imports, &ir.Import{
		NodeMeta: ir.Meta{OriginalSource: "import { helper } from './utils/helper';"},
		Source:   "./utils/helper",
	})
	file.Body = append(file.Body, &ir.TestCase{Name: "noop"})

	out := EmitTree(file, EmitConfig{Imports: []string{"pytest"}, AssertionFor: RenderBareAssertion})

	assert.Contains(t, out, "HAMLET-WARNING(")
	assert.Contains(t, out, "library import has no Python equivalent")
}

func TestEmitTreeFunctionHooks(t *testing.T) {
	file := ir.NewFile()
	file.Body = append(file.Body, &ir.Hook{Type: ir.HookBeforeAll}, &ir.TestCase{Name: "works"})

	out := EmitTree(file, EmitConfig{Imports: []string{"pytest"}, AssertionFor: RenderBareAssertion})

	assert.Contains(t, out, "def setup_module():")
	assert.Contains(t, out, "def test_works():")
	// empty bodies still form valid Python
	assert.Contains(t, out, "    pass")
	assert.False(t, strings.Contains(out, "class "))
}

func TestPyClassName(t *testing.T) {
	assert.Equal(t, "TestShoppingCart", pyClassName("shopping cart"))
	assert.Equal(t, "TestLedger", pyClassName("TestLedger"))
	assert.Equal(t, "TestConverted", pyClassName("!!"))
}

func TestPyMethodName(t *testing.T) {
	assert.Equal(t, "test_applies_vat", pyMethodName("applies VAT"))
	assert.Equal(t, "test_balance", pyMethodName("test_balance"))
	assert.Equal(t, "test_converted_case", pyMethodName("??"))
}
