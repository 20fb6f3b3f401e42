package testng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

const testngSource = `import org.testng.annotations.Test;
import org.testng.annotations.BeforeMethod;
import org.testng.Assert;

public class LedgerTest {
    @BeforeMethod
    public void setUp() {
        ledger = new Ledger();
    }

    @Test
    public void recordsEntry() {
        Assert.assertEquals(ledger.count(), 1);
    }
}
`

const junit5Source = `import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.BeforeEach;
import org.junit.jupiter.api.Disabled;
import org.junit.jupiter.api.Assertions;

public class LedgerTest {
    @BeforeEach
    public void setUp() {
        ledger = new Ledger();
    }

    @Disabled("pending fix")
    @Test
    public void recordsEntry() {
        Assertions.assertEquals(1, ledger.count());
    }
}
`

func TestDetect(t *testing.T) {
	assert.Greater(t, Detect(testngSource), 50)
	assert.Equal(t, 0, Detect(junit5Source))
	assert.Equal(t, 0, Detect("describe('x', () => {});\n"))
}

func TestParseSubjectFirstArguments(t *testing.T) {
	file := Parse(testngSource)

	var asserts []*ir.Assertion
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok {
			asserts = append(asserts, a)
		}
		return ir.Continue
	})
	require.Len(t, asserts, 1)
	assert.Equal(t, "ledger.count()", asserts[0].Subject)
	assert.Equal(t, "1", asserts[0].Expected)
}

func TestEmitConvertsJupiterSource(t *testing.T) {
	out := Emit(nil, junit5Source)

	assert.Contains(t, out, "import org.testng.annotations.Test;")
	assert.Contains(t, out, "import org.testng.annotations.BeforeMethod;")
	assert.Contains(t, out, "import org.testng.Assert;")
	assert.Contains(t, out, "@BeforeMethod\n")
	assert.Contains(t, out, "Assert.assertEquals(1, ledger.count());")
	assert.NotContains(t, out, "jupiter.api.Assertions")
}

func TestEmitMarksDisabledTests(t *testing.T) {
	out := Emit(nil, junit5Source)

	assert.Contains(t, out, "HAMLET-WARNING(")
	assert.Contains(t, out, "disabled-test annotation has no TestNG equivalent")
	assert.Contains(t, out, "@Test(enabled = false)")
}

func TestEmitTreeActualFirst(t *testing.T) {
	file := ir.NewFile()
	tc := &ir.TestCase{Name: "records entry"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "ledger.count()", Expected: "1"})
	tc.Modifiers = append(tc.Modifiers, &ir.Modifier{ModKind: ir.ModifierSkip})
	file.Body = append(file.Body, tc)

	out := EmitTree(file)

	assert.Contains(t, out, "import org.testng.Assert;")
	assert.Contains(t, out, "@Test(enabled = false)")
	assert.Contains(t, out, "public void recordsEntry() {")
	// Actual value leads in the TestNG convention.
	assert.Contains(t, out, "Assert.assertEquals(ledger.count(), 1);")
}

func TestDefinitionComplete(t *testing.T) {
	def := Definition()
	assert.Equal(t, "testng", def.Name)
	assert.Equal(t, "java", def.Language)
	assert.NotNil(t, def.EmitTree)
}
