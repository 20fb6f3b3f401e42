// Package scan provides the character-level scanning utility shared by every
// framework adapter, the output validator and the input normalizer. It is a
// small state machine over {normal, single-quote string, double-quote string,
// backtick string, triple-quote string, line comment, block comment} that
// reports per-line nesting deltas and whether a multi-line construct is open,
// so that braces, parens or indentation-looking characters inside string
// literals and comments never perturb nesting.
//
// It is deliberately not a parser: no grammar, no tokens, no AST. Adapters
// layer ordered pattern tables on top of it.
package scan

import "strings"

// Syntax configures the scanner for one language family.
type Syntax struct {
	// LineComment starts a comment running to end of line ("//", "#").
	LineComment string
	// BlockCommentStart / BlockCommentEnd delimit block comments. Empty
	// disables block comments.
	BlockCommentStart string
	BlockCommentEnd   string
	// Backtick enables backtick template strings (JavaScript).
	Backtick bool
	// TripleQuote enables ''' and """ multi-line strings (Python). Takes
	// precedence over the single/double quote states when matched.
	TripleQuote bool
}

// CLike is the syntax of JavaScript, TypeScript and Java sources.
var CLike = Syntax{LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", Backtick: true}

// PythonLike is the syntax of Python sources.
var PythonLike = Syntax{LineComment: "#", TripleQuote: true}

type state int

const (
	stNormal state = iota
	stSingle
	stDouble
	stBacktick
	stTriple
	stBlockComment
)

// LineInfo is the result of scanning a single line.
type LineInfo struct {
	// DeltaBrace, DeltaParen, DeltaBracket are the net nesting change
	// contributed by this line, counted outside strings and comments.
	DeltaBrace   int
	DeltaParen   int
	DeltaBracket int
	// Code is the line with string interiors blanked and comments removed,
	// safe for pattern matching.
	Code string
	// OpenString reports that the line ended inside a multi-line string.
	OpenString bool
	// OpenComment reports that the line ended inside a block comment.
	OpenComment bool
	// UnterminatedQuote reports a single- or double-quoted string left open
	// at end of line in a syntax where strings cannot span lines.
	UnterminatedQuote bool
}

// Scanner scans a source line by line, carrying multi-line string and block
// comment state between calls. The zero value is not usable; use New.
type Scanner struct {
	syntax Syntax
	st     state
	triple string // active triple-quote delimiter

	braceDepth   int
	parenDepth   int
	bracketDepth int
}

// New returns a scanner for the given syntax.
func New(syntax Syntax) *Scanner {
	return &Scanner{syntax: syntax}
}

// Depth returns the cumulative brace depth after the lines scanned so far.
func (s *Scanner) Depth() int { return s.braceDepth }

// ParenDepth returns the cumulative paren depth after the lines scanned so far.
func (s *Scanner) ParenDepth() int { return s.parenDepth }

// InMultiline reports whether the scanner is inside a multi-line string or
// block comment.
func (s *Scanner) InMultiline() bool { return s.st != stNormal }

// Line scans one line (without its trailing newline) and updates cumulative
// state.
func (s *Scanner) Line(line string) LineInfo {
	var info LineInfo
	var code strings.Builder
	code.Grow(len(line))

	i := 0
	for i < len(line) {
		c := line[i]
		switch s.st {
		case stBlockComment:
			if end := s.syntax.BlockCommentEnd; end != "" && strings.HasPrefix(line[i:], end) {
				s.st = stNormal
				i += len(end)
				continue
			}
			i++
		case stTriple:
			if strings.HasPrefix(line[i:], s.triple) {
				i += len(s.triple)
				s.st = stNormal
				continue
			}
			i++
		case stSingle, stDouble, stBacktick:
			quote := byte('\'')
			if s.st == stDouble {
				quote = '"'
			} else if s.st == stBacktick {
				quote = '`'
			}
			if c == '\\' && i+1 < len(line) {
				i += 2
				continue
			}
			if c == quote {
				s.st = stNormal
			}
			i++
		default: // stNormal
			if lc := s.syntax.LineComment; lc != "" && strings.HasPrefix(line[i:], lc) {
				// Rest of the line is comment.
				i = len(line)
				continue
			}
			if bc := s.syntax.BlockCommentStart; bc != "" && strings.HasPrefix(line[i:], bc) {
				s.st = stBlockComment
				i += len(bc)
				continue
			}
			if s.syntax.TripleQuote && (strings.HasPrefix(line[i:], `"""`) || strings.HasPrefix(line[i:], "'''")) {
				s.triple = line[i : i+3]
				s.st = stTriple
				i += 3
				continue
			}
			switch c {
			case '\'':
				s.st = stSingle
			case '"':
				s.st = stDouble
			case '`':
				if s.syntax.Backtick {
					s.st = stBacktick
				} else {
					code.WriteByte(c)
				}
			case '{':
				info.DeltaBrace++
				s.braceDepth++
				code.WriteByte(c)
			case '}':
				info.DeltaBrace--
				s.braceDepth--
				code.WriteByte(c)
			case '(':
				info.DeltaParen++
				s.parenDepth++
				code.WriteByte(c)
			case ')':
				info.DeltaParen--
				s.parenDepth--
				code.WriteByte(c)
			case '[':
				info.DeltaBracket++
				s.bracketDepth++
				code.WriteByte(c)
			case ']':
				info.DeltaBracket--
				s.bracketDepth--
				code.WriteByte(c)
			default:
				code.WriteByte(c)
			}
			i++
		}
	}

	// Single/double quoted strings do not span lines in the supported
	// languages; an open one at EOL is a defect in the input, not state to
	// carry forward.
	if s.st == stSingle || s.st == stDouble {
		info.UnterminatedQuote = true
		s.st = stNormal
	}
	info.OpenString = s.st == stTriple || s.st == stBacktick
	info.OpenComment = s.st == stBlockComment
	info.Code = code.String()
	return info
}

// IndentWidth returns the leading-whitespace width of a line, with tabs
// counted as four columns. Used as the depth counter for indentation-scoped
// languages.
func IndentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// SplitArgs splits an argument list on top-level commas, respecting nested
// parens, brackets, braces and string literals. It never splits inside a
// nested call, which is what a naive comma split gets wrong.
func SplitArgs(args string) []string {
	var out []string
	var depth int
	var quote byte
	start := 0
	for i := 0; i < len(args); i++ {
		c := args[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(args[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}
	return out
}

// JoinArgs renders arguments back into a call list with canonical ", "
// separators.
func JoinArgs(args []string) string { return strings.Join(args, ", ") }

// NormalizeCommaSpacing rewrites "a,b" to "a, b" at every nesting depth,
// leaving commas inside string literals untouched.
func NormalizeCommaSpacing(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		if quote != 0 {
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case ',':
			if i+1 < len(s) && s[i+1] != ' ' {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// MatchingParen returns the index of the ')' closing the '(' at open, or -1.
// Nested parens and string literals are respected.
func MatchingParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Imbalance describes one bracket-family mismatch over a whole source.
type Imbalance struct {
	Symbol string // "{}", "()" or "[]"
	Delta  int    // positive: unclosed openers; negative: extra closers
}

// Balance scans an entire source and reports any bracket-family imbalance,
// string- and comment-aware.
func Balance(source string, syntax Syntax) []Imbalance {
	sc := New(syntax)
	var brace, paren, bracket int
	for _, line := range strings.Split(source, "\n") {
		info := sc.Line(line)
		brace += info.DeltaBrace
		paren += info.DeltaParen
		bracket += info.DeltaBracket
	}
	var out []Imbalance
	if brace != 0 {
		out = append(out, Imbalance{Symbol: "{}", Delta: brace})
	}
	if paren != 0 {
		out = append(out, Imbalance{Symbol: "()", Delta: paren})
	}
	if bracket != 0 {
		out = append(out, Imbalance{Symbol: "[]", Delta: bracket})
	}
	return out
}
