package jest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

const jestSource = `import { describe, it, expect, jest } from '@jest/globals';

describe('math', () => {
  it('adds', () => {
    const spy = jest.fn();
    expect(add(2, 2)).toBe(4);
  });
});
`

const vitestSource = `import { describe, it, expect, vi } from 'vitest';

describe('math', () => {
  it('adds', () => {
    vi.useFakeTimers();
    expect(add(2, 2)).toBe(4);
  });
});
`

func TestDetect(t *testing.T) {
	assert.Greater(t, Detect(jestSource), 50)
	assert.Equal(t, 0, Detect("public class Foo {}"))
	// Vitest's identity markers push a Vitest file below a Jest one.
	assert.Less(t, Detect(vitestSource), Detect(jestSource))
}

func TestParseRecognizesMatchersAndMocks(t *testing.T) {
	file := Parse(jestSource)

	var kinds []string
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok {
			kinds = append(kinds, a.AssertKind)
		}
		return ir.Continue
	})
	assert.Equal(t, []string{"equal"}, kinds)
	require.Len(t, file.Imports, 1)
	assert.Equal(t, ir.ImportFramework, file.Imports[0].ImportKind)
}

func TestEmitConvertsVitestSource(t *testing.T) {
	file := Parse(vitestSource)
	out := Emit(file, vitestSource)

	assert.Contains(t, out, "from '@jest/globals'")
	assert.Contains(t, out, "jest.useFakeTimers()")
	assert.NotContains(t, out, "vi.")
	assert.NotContains(t, out, "'vitest'")
}

func TestEmitTree(t *testing.T) {
	file := Parse(vitestSource)
	out := EmitTree(file)

	assert.Contains(t, out, "from '@jest/globals';")
	assert.Contains(t, out, "describe('math', () => {")
	assert.Contains(t, out, "expect(add(2, 2)).toBe(4);")
}

func TestDefinitionComplete(t *testing.T) {
	def := Definition()
	assert.Equal(t, "jest", def.Name)
	assert.Equal(t, "javascript", def.Language)
	assert.NotNil(t, def.Detect)
	assert.NotNil(t, def.Parse)
	assert.NotNil(t, def.Emit)
	assert.NotNil(t, def.Rewrite)
	assert.NotNil(t, def.EmitTree)
}
