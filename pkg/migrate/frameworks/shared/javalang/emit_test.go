package javalang

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

var jupiterStyle = AssertStyle{
	Receiver:     "Assertions",
	SubjectFirst: false,
	MessageFirst: false,
	KindToMethod: map[string]string{
		"equal":     "assertEquals",
		"notEqual":  "assertNotEquals",
		"truthy":    "assertTrue",
		"isDefined": "assertNotNull",
		"throws":    "assertThrows",
		"fail":      "fail",
	},
}

func TestRenderAssertionExpectedFirst(t *testing.T) {
	a := &ir.Assertion{AssertKind: "equal", Subject: "add(2,2)", Expected: "4"}

	line, ok := RenderAssertion(a, jupiterStyle)
	require.True(t, ok)
	assert.Equal(t, "Assertions.assertEquals(4, add(2, 2));", line)
}

func TestRenderAssertionSubjectFirst(t *testing.T) {
	style := AssertStyle{
		Receiver:     "Assert",
		SubjectFirst: true,
		KindToMethod: map[string]string{"equal": "assertEquals"},
	}
	a := &ir.Assertion{AssertKind: "equal", Subject: "getValue()", Expected: "42"}

	line, ok := RenderAssertion(a, style)
	require.True(t, ok)
	assert.Equal(t, "Assert.assertEquals(getValue(), 42);", line)
}

func TestRenderAssertionMessagePlacement(t *testing.T) {
	a := &ir.Assertion{AssertKind: "equal", Subject: "total", Expected: "90", Message: `"discount"`}

	line, ok := RenderAssertion(a, jupiterStyle)
	require.True(t, ok)
	assert.Equal(t, `Assertions.assertEquals(90, total, "discount");`, line)

	first := jupiterStyle
	first.MessageFirst = true
	line, ok = RenderAssertion(a, first)
	require.True(t, ok)
	assert.Equal(t, `Assertions.assertEquals("discount", 90, total);`, line)
}

func TestRenderAssertionNegatedFindsCounterpart(t *testing.T) {
	a := &ir.Assertion{AssertKind: "equal", Subject: "a", Expected: "b", Negated: true}

	line, ok := RenderAssertion(a, jupiterStyle)
	require.True(t, ok)
	assert.Equal(t, "Assertions.assertNotEquals(b, a);", line)
}

func TestRenderAssertionUnknownKind(t *testing.T) {
	_, ok := RenderAssertion(&ir.Assertion{AssertKind: "snapshot"}, jupiterStyle)
	assert.False(t, ok)
}

func TestRewriteAssertionsPreservesIndent(t *testing.T) {
	src := `public class T {
    @Test
    public void adds() {
        assertEquals(4, add(2,2));
    }
}
`
	file := Parse(src, junit4Config)
	out := RewriteAssertions(src, file, jupiterStyle)

	assert.Contains(t, out, "        Assertions.assertEquals(4, add(2, 2));")
	assert.NotContains(t, out, "\nassertEquals")
}

func TestRewriteAssertionsNilFileIsIdentity(t *testing.T) {
	src := "assertEquals(1, x);"
	assert.Equal(t, src, RewriteAssertions(src, nil, jupiterStyle))
}

func TestRewriteImportsExactAndPrefix(t *testing.T) {
	code := strings.Join([]string{
		"import org.junit.Test;",
		"import static org.junit.Assert.assertEquals;",
		"import java.util.List;",
	}, "\n")

	out := RewriteImports(code,
		map[string]string{"org.junit.Test": "org.junit.jupiter.api.Test"},
		map[string]string{"org.junit.Assert.": "org.junit.jupiter.api.Assertions."})

	assert.Contains(t, out, "import org.junit.jupiter.api.Test;")
	assert.Contains(t, out, "import static org.junit.jupiter.api.Assertions.assertEquals;")
	assert.Contains(t, out, "import java.util.List;")
}

func TestConvertExpectedExceptionWrapsBody(t *testing.T) {
	src := `public class FailTest {
    @Test(expected = IllegalStateException.class)
    public void rejectsReuse() {
        pool.close();
        pool.acquire();
    }
}
`
	out := ConvertExpectedException(src, "Assertions.assertThrows")

	assert.Contains(t, out, "@Test\n")
	assert.NotContains(t, out, "expected =")
	assert.Contains(t, out, "Assertions.assertThrows(IllegalStateException.class, () -> {")
	assert.Contains(t, out, "pool.close();")
	assert.Contains(t, out, "});")
}

func TestEmitTreeSynthesizesClass(t *testing.T) {
	file := ir.NewFile()
	suite := &ir.TestSuite{Name: "shopping cart"}
	suite.Hooks = append(suite.Hooks, &ir.Hook{Type: ir.HookBeforeAll})
	tc := &ir.TestCase{Name: "starts empty"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "cart.size()", Expected: "0"})
	suite.Tests = append(suite.Tests, tc)
	file.Body = append(file.Body, suite)

	out := EmitTree(file, EmitConfig{
		Imports:        []string{"org.junit.jupiter.api.Test", "org.junit.jupiter.api.Assertions"},
		TestAnnotation: "@Test",
		HookAnnotations: map[ir.HookType]string{
			ir.HookBeforeAll: "@BeforeAll",
		},
		StaticHooks: true,
		Style:       jupiterStyle,
	})

	assert.Contains(t, out, "import org.junit.jupiter.api.Test;")
	assert.Contains(t, out, "public class ShoppingCartTest {")
	assert.Contains(t, out, "@BeforeAll\n    public static void setUpClass() {")
	assert.Contains(t, out, "@Test\n    public void startsEmpty() {")
	assert.Contains(t, out, "Assertions.assertEquals(0, cart.size());")
}

func TestEmitTreeWrapsLooseCasesInClass(t *testing.T) {
	file := ir.NewFile()
	file.Body = append(file.Body, &ir.TestCase{Name: "loose"})

	out := EmitTree(file, EmitConfig{TestAnnotation: "@Test", Style: jupiterStyle})
	assert.Contains(t, out, "public class ConvertedTest {")
	assert.Contains(t, out, "public void loose() {")
}

func TestClassAndMethodNames(t *testing.T) {
	assert.Equal(t, "ShoppingCartTest", className("shopping cart"))
	assert.Equal(t, "CartTest", className("CartTest"))
	assert.Equal(t, "ConvertedTest", className("!!!"))
	assert.Equal(t, "addsTwoNumbers", methodName("adds two numbers"))
	assert.Equal(t, "convertedCase", methodName(""))
}

func TestApplyRenamesOrder(t *testing.T) {
	renames := []Rename{
		{Re: regexp.MustCompile(`@BeforeClass\b`), Replacement: "@BeforeAll"},
		{Re: regexp.MustCompile(`@Before\b`), Replacement: "@BeforeEach"},
	}
	out := ApplyRenames("@BeforeClass\n@Before\n", renames)
	assert.Equal(t, "@BeforeAll\n@BeforeEach\n", out)
}
