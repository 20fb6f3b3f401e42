package junit4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

const junit4Source = `import org.junit.Test;
import org.junit.Before;
import static org.junit.Assert.assertEquals;

public class CalculatorTest {
    @Before
    public void setUp() {
        calc = new Calculator();
    }

    @Test
    public void addsNumbers() {
        assertEquals("sum", 4, calc.add(2,2));
    }
}
`

const junit5Source = `import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.BeforeEach;
import org.junit.jupiter.api.Assertions;

public class CalculatorTest {
    @BeforeEach
    public void setUp() {
        calc = new Calculator();
    }

    @Test
    public void addsNumbers() {
        Assertions.assertEquals(4, calc.add(2, 2));
    }
}
`

func TestDetect(t *testing.T) {
	assert.Greater(t, Detect(junit4Source), 40)
	assert.Equal(t, 0, Detect(junit5Source))
	assert.Equal(t, 0, Detect("import org.testng.Assert;\n"))
}

func TestParseMessageFirstArguments(t *testing.T) {
	file := Parse(junit4Source)

	var asserts []*ir.Assertion
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok {
			asserts = append(asserts, a)
		}
		return ir.Continue
	})
	require.Len(t, asserts, 1)
	assert.Equal(t, `"sum"`, asserts[0].Message)
	assert.Equal(t, "4", asserts[0].Expected)
	assert.Equal(t, "calc.add(2,2)", asserts[0].Subject)
}

func TestEmitConvertsJupiterSource(t *testing.T) {
	out := Emit(nil, junit5Source)

	assert.Contains(t, out, "import org.junit.Test;")
	assert.Contains(t, out, "import org.junit.Before;")
	assert.Contains(t, out, "import org.junit.Assert;")
	assert.Contains(t, out, "@Before\n")
	assert.Contains(t, out, "Assert.assertEquals(4, calc.add(2, 2));")
	assert.NotContains(t, out, "jupiter")
}

func TestEmitTreeExpectedFirst(t *testing.T) {
	file := ir.NewFile()
	tc := &ir.TestCase{Name: "adds numbers"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "calc.add(2, 2)", Expected: "4"})
	file.Body = append(file.Body, tc)

	out := EmitTree(file)

	assert.Contains(t, out, "import static org.junit.Assert.*;")
	assert.Contains(t, out, "public class ConvertedTest {")
	assert.Contains(t, out, "public void addsNumbers() {")
	// Bare static-import call, expected value first.
	assert.Contains(t, out, "assertEquals(4, calc.add(2, 2));")
}

func TestDefinitionComplete(t *testing.T) {
	def := Definition()
	assert.Equal(t, "junit4", def.Name)
	assert.Equal(t, "java", def.Language)
	assert.NotNil(t, def.EmitTree)
}
