package junit5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

const junit5Source = `import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.BeforeEach;
import org.junit.jupiter.api.Assertions;

public class PoolTest {
    @BeforeEach
    public void setUp() {
        pool = new Pool();
    }

    @Test
    public void allocates() {
        Assertions.assertEquals(1, pool.size());
    }
}
`

const junit4Source = `import org.junit.Test;
import org.junit.Before;
import org.junit.Ignore;
import static org.junit.Assert.assertEquals;

public class PoolTest {
    @Before
    public void setUp() {
        pool = new Pool();
    }

    @Ignore("slow")
    @Test
    public void allocates() {
        assertEquals(1, pool.size());
    }

    @Test(expected = IllegalStateException.class)
    public void rejectsDoubleClose() {
        pool.close();
        pool.close();
    }
}
`

func TestDetect(t *testing.T) {
	assert.Greater(t, Detect(junit5Source), 50)
	assert.Equal(t, 0, Detect(junit4Source))
	assert.Equal(t, 0, Detect("import org.testng.Assert;\n"))
}

func TestParseReceiverQualifiedAsserts(t *testing.T) {
	file := Parse(junit5Source)

	var asserts []*ir.Assertion
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok {
			asserts = append(asserts, a)
		}
		return ir.Continue
	})
	require.Len(t, asserts, 1)
	assert.Equal(t, "1", asserts[0].Expected)
	assert.Equal(t, "pool.size()", asserts[0].Subject)
}

func TestEmitConvertsJUnit4Source(t *testing.T) {
	out := Emit(nil, junit4Source)

	assert.Contains(t, out, "import org.junit.jupiter.api.Test;")
	assert.Contains(t, out, "import org.junit.jupiter.api.BeforeEach;")
	assert.Contains(t, out, "import static org.junit.jupiter.api.Assertions.assertEquals;")
	assert.Contains(t, out, "@BeforeEach\n")
	assert.Contains(t, out, "@Disabled")
	assert.NotContains(t, out, "@Ignore")
}

func TestEmitRewritesExpectedException(t *testing.T) {
	out := Emit(nil, junit4Source)

	assert.NotContains(t, out, "expected =")
	assert.Contains(t, out, "Assertions.assertThrows(IllegalStateException.class, () -> {")
	assert.Contains(t, out, "pool.close();")
}

func TestEmitTreeUsesAssertionsReceiver(t *testing.T) {
	file := ir.NewFile()
	suite := &ir.TestSuite{Name: "Pool"}
	tc := &ir.TestCase{Name: "allocates"}
	tc.Body = append(tc.Body, &ir.Assertion{AssertKind: "equal", Subject: "pool.size()", Expected: "1"})
	suite.Tests = append(suite.Tests, tc)
	file.Body = append(file.Body, suite)

	out := EmitTree(file)

	assert.Contains(t, out, "public class PoolTest {")
	assert.Contains(t, out, "Assertions.assertEquals(1, pool.size());")
}

func TestDefinitionComplete(t *testing.T) {
	def := Definition()
	assert.Equal(t, "junit5", def.Name)
	assert.Equal(t, "java", def.Language)
	assert.NotNil(t, def.EmitTree)
}
