package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

func issueTypes(issues []Issue) []IssueType {
	out := make([]IssueType, 0, len(issues))
	for _, iss := range issues {
		out = append(out, iss.Type)
	}
	return out
}

func TestNormalizeCleanUTF8PassesThrough(t *testing.T) {
	n := New("")
	res := n.Normalize([]byte("it('works', () => {});\n"), scan.CLike)
	assert.Equal(t, "it('works', () => {});\n", res.Normalized)
	assert.Empty(t, res.Issues)
}

func TestNormalizeEmptyInput(t *testing.T) {
	res := New("").Normalize(nil, scan.CLike)
	assert.Empty(t, res.Normalized)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, IssueEmpty, res.Issues[0].Type)
}

func TestNormalizeBinaryInput(t *testing.T) {
	res := New("").Normalize([]byte{0x00, 0x01, 0x02, 0xFF}, scan.CLike)
	assert.Empty(t, res.Normalized)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, IssueBinary, res.Issues[0].Type)
}

func TestNormalizeStripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("test('x', () => {});")...)
	res := New("").Normalize(input, scan.CLike)
	assert.False(t, strings.HasPrefix(res.Normalized, "\uFEFF"))
	assert.Contains(t, issueTypes(res.Issues), IssueBOMStripped)
}

func TestNormalizeCRLF(t *testing.T) {
	res := New("").Normalize([]byte("a();\r\nb();\r\n"), scan.CLike)
	assert.Equal(t, "a();\nb();\n", res.Normalized)
	assert.Contains(t, issueTypes(res.Issues), IssueCRLFNormalized)
}

func TestNormalizeRepairsUnterminatedString(t *testing.T) {
	res := New("").Normalize([]byte(`const s = "open`), scan.CLike)
	assert.Equal(t, `const s = "open"`, res.Normalized)
	types := issueTypes(res.Issues)
	assert.Contains(t, types, IssueUnterminatedString)
}

func TestNormalizeReportsUnbalancedBrackets(t *testing.T) {
	res := New("").Normalize([]byte("describe('x', () => {\n"), scan.CLike)
	assert.Contains(t, issueTypes(res.Issues), IssueUnbalancedBrackets)
	// Input is still preserved; reporting is not rejection.
	assert.Contains(t, res.Normalized, "describe('x'")
}
