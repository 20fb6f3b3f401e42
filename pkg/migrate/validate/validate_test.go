package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

func TestValidateCleanOutput(t *testing.T) {
	code := `import { describe, it, expect } from 'vitest';

describe('math', () => {
  it('adds', () => {
    expect(add(2, 2)).toBe(4);
  });
});
`
	res := New("vitest", scan.CLike).Validate(code)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestValidateUnbalancedBrackets(t *testing.T) {
	res := New("vitest", scan.CLike).Validate("describe('x', () => {\n")
	require.False(t, res.Valid)
	assert.Equal(t, IssueUnbalanced, res.Issues[0].Type)
}

func TestValidateDanglingSourceReference(t *testing.T) {
	code := "const spy = jest.fn();\n"
	res := New("vitest", scan.CLike).Validate(code)
	require.False(t, res.Valid)
	assert.Equal(t, IssueDanglingReference, res.Issues[0].Type)
	assert.Equal(t, 1, res.Issues[0].Line)
}

func TestValidateDanglingIgnoresCommentsAndStrings(t *testing.T) {
	code := "// jest.fn used to live here\nconst msg = 'call jest.fn later';\n"
	res := New("vitest", scan.CLike).Validate(code)
	assert.True(t, res.Valid, "issues: %v", res.Issues)
}

func TestValidateMalformedImport(t *testing.T) {
	res := New("vitest", scan.CLike).Validate("import { it } from '';\n")
	require.False(t, res.Valid)
	assert.Equal(t, IssueMalformedImport, res.Issues[0].Type)

	res = New("vitest", scan.CLike).Validate("import { a } from 'x' from 'y';\n")
	require.False(t, res.Valid)
	assert.Equal(t, IssueMalformedImport, res.Issues[0].Type)
}

func TestValidateEmptyTestBody(t *testing.T) {
	res := New("jest", scan.CLike).Validate("it('does nothing', () => {});\n")
	require.False(t, res.Valid)
	assert.Equal(t, IssueEmptyTestBody, res.Issues[0].Type)
}

func TestValidateJavaTargets(t *testing.T) {
	code := `import org.junit.Assert;

public class MathTest {
    @Test
    public void adds() {
        Assert.assertEquals(4, add(2, 2));
    }
}
`
	res := New("junit5", scan.CLike).Validate(code)
	require.False(t, res.Valid)
	assert.Equal(t, IssueDanglingReference, res.Issues[0].Type)
}

func TestValidateIsIdempotent(t *testing.T) {
	code := "const spy = jest.fn();\nit('x', () => {});\n"
	v := New("vitest", scan.CLike)
	first := v.Validate(code)
	second := v.Validate(code)
	assert.Equal(t, first, second)
}
