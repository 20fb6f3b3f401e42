// Package normalize hardens raw input before parsing: it refuses binary
// content, transcodes to UTF-8, strips a leading BOM, normalizes CRLF line
// endings and applies best-effort repairs for unterminated string literals.
// Repairs are heuristic and always reported; normalization never throws away
// input it can represent as text.
package normalize

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

const (
	// sampleLen is the size of the leading sample inspected for binary content.
	sampleLen = 1024
	// nonPrintableThreshold is the non-printable ratio above which the sample
	// is treated as binary.
	nonPrintableThreshold = 0.10
)

// IssueType classifies a normalization issue.
type IssueType string

const (
	IssueEmpty              IssueType = "empty"
	IssueBinary             IssueType = "binary"
	IssueBOMStripped        IssueType = "bom"
	IssueCRLFNormalized     IssueType = "crlf"
	IssueEncodingConverted  IssueType = "encoding"
	IssueUnterminatedString IssueType = "unterminatedString"
	IssueUnbalancedBrackets IssueType = "unbalancedBrackets"
)

// Issue is one reported problem or repair. Line is 1-based and zero when the
// issue applies to the whole input.
type Issue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
	Line    int       `json:"line,omitempty"`
}

// Result is the outcome of normalization. Binary or empty input yields an
// empty Normalized string plus an explanatory issue rather than an error.
type Result struct {
	Normalized string  `json:"normalized"`
	Issues     []Issue `json:"issues"`
}

// Normalizer prepares raw bytes for a parse pass.
type Normalizer interface {
	// Normalize hardens content for the given language syntax. It never
	// returns an error for bad content; everything is reported in Result.
	Normalize(content []byte, syntax scan.Syntax) Result
}

// charsetNormalizer implements Normalizer with x/net/html/charset detection
// and an optional fallback encoding for uncertain inputs.
type charsetNormalizer struct {
	defaultEncoding string
}

// New returns a Normalizer. defaultEncoding (an IANA name such as
// "windows-1252") is used when charset detection is uncertain; empty keeps
// the detector's guess.
func New(defaultEncoding string) Normalizer {
	return &charsetNormalizer{defaultEncoding: defaultEncoding}
}

// Normalize implements the Normalizer interface.
func (n *charsetNormalizer) Normalize(content []byte, syntax scan.Syntax) Result {
	var res Result
	if len(content) == 0 {
		res.Issues = append(res.Issues, Issue{Type: IssueEmpty, Message: "input is empty"})
		return res
	}
	if isBinary(content) {
		res.Issues = append(res.Issues, Issue{Type: IssueBinary, Message: "input appears to be binary content; refusing to normalize"})
		return res
	}

	decoded, encName, err := n.decode(content)
	// Plain ASCII decodes identically under every supported charset; only an
	// actual byte change is worth reporting.
	if err == nil && !strings.EqualFold(encName, "utf-8") && encName != "" && !bytes.Equal(decoded, content) {
		res.Issues = append(res.Issues, Issue{
			Type:    IssueEncodingConverted,
			Message: fmt.Sprintf("converted from %s to utf-8", encName),
		})
	}

	if bytes.HasPrefix(decoded, []byte{0xEF, 0xBB, 0xBF}) {
		decoded = decoded[3:]
		res.Issues = append(res.Issues, Issue{Type: IssueBOMStripped, Message: "stripped utf-8 byte order mark"})
	}

	text := string(decoded)
	if strings.Contains(text, "\r\n") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		res.Issues = append(res.Issues, Issue{Type: IssueCRLFNormalized, Message: "normalized crlf line endings to lf"})
	}

	text, repairs := repairUnterminatedStrings(text, syntax)
	res.Issues = append(res.Issues, repairs...)

	for _, imb := range scan.Balance(text, syntax) {
		detail := "unclosed"
		if imb.Delta < 0 {
			detail = "extra closing"
		}
		res.Issues = append(res.Issues, Issue{
			Type:    IssueUnbalancedBrackets,
			Message: fmt.Sprintf("unbalanced %s: %d %s", imb.Symbol, abs(imb.Delta), detail),
		})
	}

	res.Normalized = text
	return res
}

// decode transcodes content to UTF-8. On uncertain detection the configured
// default encoding is tried; on any conversion failure the original bytes are
// returned untouched.
func (n *charsetNormalizer) decode(content []byte) ([]byte, string, error) {
	enc, name, certain := charset.DetermineEncoding(content, "")
	if !certain && n.defaultEncoding != "" {
		if fallback, fbName := charset.Lookup(n.defaultEncoding); fallback != nil {
			enc = fallback
			name = fbName
		}
	}
	if enc == nil {
		return content, "utf-8", nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return content, name, fmt.Errorf("failed to convert from %q: %w", name, err)
	}
	return out, name, nil
}

// repairUnterminatedStrings appends a closing quote at end-of-line for
// single/double-quoted strings left open. Purely heuristic: the repair is
// reported and never guaranteed to restore intent.
func repairUnterminatedStrings(text string, syntax scan.Syntax) (string, []Issue) {
	lines := strings.Split(text, "\n")
	sc := scan.New(syntax)
	var issues []Issue
	for i, line := range lines {
		info := sc.Line(line)
		if !info.UnterminatedQuote {
			continue
		}
		q := lastOpenQuote(line)
		if q == 0 {
			continue
		}
		lines[i] = line + string(q)
		issues = append(issues, Issue{
			Type:    IssueUnterminatedString,
			Message: fmt.Sprintf("inserted closing %c at end of line", q),
			Line:    i + 1,
		})
	}
	return strings.Join(lines, "\n"), issues
}

// lastOpenQuote finds which quote character is open at the end of line.
func lastOpenQuote(line string) byte {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
		}
	}
	return quote
}

// isBinary reports whether content looks like binary data: any null byte, or
// more than nonPrintableThreshold non-printable characters in the leading
// sample.
func isBinary(content []byte) bool {
	sample := content
	if len(sample) > sampleLen {
		sample = sample[:sampleLen]
	}
	if bytes.IndexByte(sample, 0x00) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, r := range string(sample) {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			nonPrintable++
		}
	}
	total := len([]rune(string(sample)))
	if total == 0 {
		return false
	}
	return float64(nonPrintable)/float64(total) > nonPrintableThreshold
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
