package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/pytest"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/unittest"
	"github.com/pmclSF/hamlet/pkg/migrate/normalize"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

const jestSource = `import { describe, it, expect, jest } from '@jest/globals';
import { add } from './calculator';

describe('calculator', () => {
  it('adds numbers', () => {
    expect(add(2, 2)).toBe(4);
  });

  it('notifies listeners', () => {
    const listener = jest.fn();
    add(2, 2, listener);
    expect(listener).toHaveBeenCalledTimes(1);
  });
});
`

const junit4Source = `import org.junit.Test;
import static org.junit.Assert.assertEquals;

public class CalculatorTest {
    @Test
    public void addsNumbers() {
        assertEquals(4, add(2,2));
    }
}
`

const testngSource = `import org.testng.annotations.Test;
import org.testng.Assert;

public class ValueTest {
    @Test
    public void storesValue() {
        Assert.assertEquals(getValue(), 42);
    }
}
`

const pytestSource = `import pytest

def test_value_present():
    x = compute()
    assert x is not None
`

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	eng, err := New(opts)
	require.NoError(t, err)
	return eng
}

func TestConvertJestToVitest(t *testing.T) {
	eng := newEngine(t, Options{})

	res, err := eng.Convert(jestSource, "jest", "vitest")
	require.NoError(t, err)

	assert.Contains(t, res.Code, "from 'vitest'")
	assert.Contains(t, res.Code, "vi.fn()")
	assert.NotContains(t, res.Code, "@jest/globals")
	assert.NotContains(t, res.Code, "jest.")

	assert.Equal(t, "jest", res.Report.Details["sourceFramework"])
	assert.Equal(t, "vitest", res.Report.Details["targetFramework"])
	assert.Equal(t, "ir-patch", res.Report.Details["emitter"])
	assert.Greater(t, res.Report.Details["detectionScore"].(int), 0)
	assert.GreaterOrEqual(t, res.Report.Confidence, 80)
	assert.Empty(t, res.Report.ValidationIssues)
}

func TestConvertJUnit4ToJUnit5ReordersArguments(t *testing.T) {
	eng := newEngine(t, Options{Language: "java"})

	res, err := eng.Convert(junit4Source, "junit4", "junit5")
	require.NoError(t, err)

	// Expected value stays first, the receiver becomes explicit, and the
	// argument spacing is normalized by the re-render.
	assert.Contains(t, res.Code, "Assertions.assertEquals(4, add(2, 2));")
	assert.Contains(t, res.Code, "org.junit.jupiter.api")
	assert.NotContains(t, res.Code, "import org.junit.Test;")
	assert.Empty(t, res.Report.ValidationIssues)
}

func TestConvertTestNGToJUnit5SwapsArgumentOrder(t *testing.T) {
	eng := newEngine(t, Options{Language: "java"})

	res, err := eng.Convert(testngSource, "testng", "junit5")
	require.NoError(t, err)

	// TestNG writes (actual, expected); Jupiter writes (expected, actual).
	assert.Contains(t, res.Code, "Assertions.assertEquals(42, getValue());")
	assert.NotContains(t, res.Code, "org.testng")
	assert.Empty(t, res.Report.ValidationIssues)
}

func TestConvertPytestToUnittestSynthesizesClass(t *testing.T) {
	eng := newEngine(t, Options{Language: "python"})

	res, err := eng.Convert(pytestSource, "pytest", "unittest")
	require.NoError(t, err)

	// A function-paradigm source to an xunit target goes through tree
	// synthesis regardless of the configured emitter.
	assert.Contains(t, res.Code, "import unittest")
	assert.Contains(t, res.Code, "class TestConverted(unittest.TestCase):")
	assert.Contains(t, res.Code, "def test_value_present(self):")
	assert.Contains(t, res.Code, "self.assertIsNotNone(x)")
	assert.NotContains(t, res.Code, "import pytest")
	assert.Greater(t, res.Report.IRCoverage, 0.0)
}

func TestConvertLegacyEmitterStillRewrites(t *testing.T) {
	eng := newEngine(t, Options{Emitter: EmitterLegacy})

	res, err := eng.Convert(jestSource, "jest", "vitest")
	require.NoError(t, err)

	assert.Contains(t, res.Code, "vi.fn()")
	assert.Contains(t, res.Code, "from 'vitest'")
	assert.Equal(t, "legacy", res.Report.Details["emitter"])
}

func TestConvertEmptySource(t *testing.T) {
	eng := newEngine(t, Options{})

	res, err := eng.Convert("", "jest", "vitest")
	require.NoError(t, err)

	assert.Equal(t, "", res.Code)
	assert.Equal(t, 100, res.Report.Confidence)
	assert.Equal(t, LevelExcellent, res.Report.Level)
	assert.Equal(t, "jest", res.Report.Details["sourceFramework"])
	assert.Equal(t, "vitest", res.Report.Details["targetFramework"])
}

func TestConvertBinarySource(t *testing.T) {
	eng := newEngine(t, Options{})

	res, err := eng.Convert("PK\x03\x04\x00\x00\x01\x02", "jest", "vitest")
	require.NoError(t, err)

	assert.Equal(t, "", res.Code)
	assert.Equal(t, 0, res.Report.Confidence)
	assert.Equal(t, LevelLow, res.Report.Level)

	var types []normalize.IssueType
	for _, iss := range res.Report.NormalizationIssues {
		types = append(types, iss.Type)
	}
	assert.Contains(t, types, normalize.IssueBinary)
}

func TestConvertDetectionMismatch(t *testing.T) {
	eng := newEngine(t, Options{})

	_, err := eng.Convert(junit4Source, "jest", "vitest")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDetectionMismatch)
}

func TestConvertUnknownFramework(t *testing.T) {
	eng := newEngine(t, Options{})

	_, err := eng.Convert(jestSource, "mocha", "vitest")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFramework)

	_, err = eng.Convert(jestSource, "jest", "mocha")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFramework)
}

func TestConvertPackageLevelHelper(t *testing.T) {
	res, err := Convert(jestSource, "jest", "vitest", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "from 'vitest'")
}

func TestNewRejectsUnknownEmitter(t *testing.T) {
	_, err := New(Options{Emitter: EmitterMode("ast")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	reg := DefaultRegistry()

	for _, name := range []string{
		"jest", "vitest", "cypress", "playwright",
		"junit4", "junit5", "testng",
		"pytest", "unittest",
	} {
		assert.True(t, reg.Has(name, ""), "missing builtin %q", name)
	}
	assert.Len(t, reg.List(""), 9)
}

func TestConvertCrossParadigmWithoutTreeEmitterWarns(t *testing.T) {
	// Every builtin target ships a tree emitter, so strip one off to reach
	// the text fallback: it must disclose the structural gap.
	reg := registry.New()
	require.NoError(t, reg.Register(pytest.Definition()))
	tgt := unittest.Definition()
	tgt.EmitTree = nil
	require.NoError(t, reg.Register(tgt))

	eng := newEngine(t, Options{Registry: reg})

	res, err := eng.Convert(pytestSource, "pytest", "unittest")
	require.NoError(t, err)

	require.NotEmpty(t, res.Report.Warnings)
	joined := strings.Join(res.Report.Warnings, "\n")
	assert.Contains(t, joined, "container structure was not regrouped")
	assert.Less(t, res.Report.Confidence, 100)
}
