// Package pylang implements the parse and emit machinery shared by the
// Python adapters (pytest, unittest). Structure is indentation, not braces:
// the container stack is keyed by indent width, decorators buffer until the
// definition they decorate, and the two assertion surfaces are the bare
// assert statement and the self.assert* method family.
package pylang

import (
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

// Config is an adapter's contribution to the shared parser.
type Config struct {
	// Framework is the adapter name ("pytest").
	Framework string
	// FrameworkModules are import roots owned by the framework.
	FrameworkModules []string
	// SelfAsserts maps self.assert* method names onto neutral kinds.
	SelfAsserts map[string]string
	// BareAsserts enables parsing of bare assert statements.
	BareAsserts bool
}

// hook method names accepted from either family; parsing is permissive so a
// mixed-style source still round-trips.
var hookNames = map[string]ir.HookType{
	"setUp":           ir.HookBeforeEach,
	"tearDown":        ir.HookAfterEach,
	"setUpClass":      ir.HookBeforeAll,
	"tearDownClass":   ir.HookAfterAll,
	"setup_method":    ir.HookBeforeEach,
	"teardown_method": ir.HookAfterEach,
	"setup_class":     ir.HookBeforeAll,
	"teardown_class":  ir.HookAfterAll,
	"setup_module":    ir.HookBeforeAll,
	"teardown_module": ir.HookAfterAll,
}

var (
	importRe      = regexp.MustCompile(`^import\s+([\w.]+)(?:\s+as\s+(\w+))?$`)
	fromImportRe  = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)$`)
	classRe       = regexp.MustCompile(`^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	defRe         = regexp.MustCompile(`^(?:async\s+)?def\s+(\w+)\s*\(([^)]*)\)\s*(?:->[^:]+)?:`)
	decoratorRe   = regexp.MustCompile(`^@([\w.]+)(\(.*)?$`)
	skipReasonRe  = regexp.MustCompile(`\(\s*(?:reason\s*=\s*)?["']([^"']*)["']`)
	parametrizeRe = regexp.MustCompile(`^pytest\.mark\.parametrize$`)
	moduleVarRe   = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)
)

type pending struct {
	name string
	raw  string
}

type frame struct {
	node   ir.Node
	indent int
}

// Parse runs a single forward scan over a Python test source, maintaining an
// indentation-keyed container stack. It never fails and never drops a line:
// anything unmatched becomes RawCode.
func Parse(source string, cfg Config) *ir.TestFile {
	file := ir.NewFile()
	sc := scan.New(scan.PythonLike)
	stack := []frame{}
	var decs []pending

	appendNode := func(n ir.Node) {
		if len(stack) > 0 {
			attachChild(stack[len(stack)-1].node, n)
			return
		}
		if imp, ok := n.(*ir.Import); ok {
			file.Imports = append(file.Imports, imp)
			return
		}
		file.Body = append(file.Body, n)
	}

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		wasInMultiline := sc.InMultiline()
		sc.Line(line)
		trimmed := strings.TrimSpace(line)
		loc := &ir.Location{StartLine: i + 1}

		if trimmed == "" {
			continue
		}
		if wasInMultiline {
			appendNode(rawNode(line, loc))
			continue
		}

		indent := scan.IndentWidth(line)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			appendNode(&ir.Comment{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				Text:     strings.TrimSpace(strings.TrimPrefix(trimmed, "#")),
			})
		case importRe.MatchString(trimmed), fromImportRe.MatchString(trimmed):
			appendNode(parseImport(trimmed, line, loc, cfg))
		case decoratorRe.MatchString(trimmed):
			m := decoratorRe.FindStringSubmatch(trimmed)
			decs = append(decs, pending{name: m[1], raw: trimmed})
		case classRe.MatchString(trimmed):
			m := classRe.FindStringSubmatch(trimmed)
			suite := &ir.TestSuite{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				Name:     m[1],
			}
			applySuiteDecorators(suite, decs, loc)
			decs = nil
			appendNode(suite)
			stack = append(stack, frame{node: suite, indent: indent})
		case defRe.MatchString(trimmed):
			m := defRe.FindStringSubmatch(trimmed)
			node := defNode(m[1], line, loc, decs, stack, cfg)
			decs = nil
			appendNode(node)
			if _, isRaw := node.(*ir.RawCode); !isRaw {
				stack = append(stack, frame{node: node, indent: indent})
			}
		default:
			decs = nil
			if a, ok := ExtractSelfAssertion(trimmed, cfg); ok {
				a.NodeMeta.Location = loc
				a.NodeMeta.OriginalSource = line
				appendNode(a)
				continue
			}
			if cfg.BareAsserts {
				if a, ok := ExtractBareAssertion(trimmed); ok {
					a.NodeMeta.Location = loc
					a.NodeMeta.OriginalSource = line
					appendNode(a)
					continue
				}
			}
			if len(stack) > 0 {
				if _, inSuite := stack[len(stack)-1].node.(*ir.TestSuite); inSuite {
					if m := moduleVarRe.FindStringSubmatch(trimmed); m != nil {
						appendNode(&ir.SharedVariable{
							NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
							Name:     m[1],
							Value:    strings.TrimSpace(m[2]),
						})
						continue
					}
				}
			}
			appendNode(rawNode(line, loc))
		}
	}
	return file
}

func parseImport(trimmed, line string, loc *ir.Location, cfg Config) *ir.Import {
	imp := &ir.Import{
		NodeMeta:   ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		ImportKind: ir.ImportLibrary,
	}
	if m := importRe.FindStringSubmatch(trimmed); m != nil {
		imp.Source = m[1]
	} else if m := fromImportRe.FindStringSubmatch(trimmed); m != nil {
		imp.Source = m[1]
		for _, s := range strings.Split(m[2], ",") {
			imp.Specifiers = append(imp.Specifiers, strings.TrimSpace(s))
		}
	}
	root := strings.SplitN(imp.Source, ".", 2)[0]
	for _, mod := range cfg.FrameworkModules {
		if root == mod {
			imp.ImportKind = ir.ImportFramework
			break
		}
	}
	return imp
}

func applySuiteDecorators(suite *ir.TestSuite, decs []pending, loc *ir.Location) {
	for _, d := range decs {
		mod := &ir.Modifier{
			NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: d.raw},
			ModKind:  ir.ModifierTag,
			Value:    d.name,
		}
		if isSkipDecorator(d.name) {
			mod.ModKind = ir.ModifierSkip
			if m := skipReasonRe.FindStringSubmatch(d.raw); m != nil {
				mod.Value = m[1]
			} else {
				mod.Value = ""
			}
		}
		suite.Modifiers = append(suite.Modifiers, mod)
	}
}

func defNode(name, line string, loc *ir.Location, decs []pending, stack []frame, cfg Config) ir.Node {
	if t, ok := hookNames[name]; ok {
		return &ir.Hook{
			NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
			Type:     t,
		}
	}
	isTest := strings.HasPrefix(name, "test")
	if !isTest {
		for _, d := range decs {
			if isTestDecorator(d.name) {
				isTest = true
				break
			}
		}
	}
	if !isTest {
		// helper function; pass through verbatim
		return rawNode(line, loc)
	}
	tc := &ir.TestCase{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		Name:     name,
	}
	if strings.HasPrefix(strings.TrimSpace(line), "async ") {
		tc.IsAsync = true
	}
	for _, d := range decs {
		switch {
		case isSkipDecorator(d.name):
			mod := &ir.Modifier{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: d.raw},
				ModKind:  ir.ModifierSkip,
			}
			if m := skipReasonRe.FindStringSubmatch(d.raw); m != nil {
				mod.Value = m[1]
			}
			tc.Modifiers = append(tc.Modifiers, mod)
		case parametrizeRe.MatchString(d.name):
			tc.Parameters = parseParametrize(d.raw, loc)
		case isTestDecorator(d.name):
			// the marker that made this a test; nothing to record
		default:
			tc.Modifiers = append(tc.Modifiers, &ir.Modifier{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceWarning, OriginalSource: d.raw},
				ModKind:  ir.ModifierTag,
				Value:    d.name,
			})
		}
	}
	return tc
}

func isSkipDecorator(name string) bool {
	switch name {
	case "pytest.mark.skip", "pytest.mark.skipif", "unittest.skip", "unittest.skipIf", "unittest.skipUnless", "skip":
		return true
	}
	return false
}

func isTestDecorator(name string) bool {
	return strings.HasPrefix(name, "pytest.mark.")
}

var parametrizeArgsRe = regexp.MustCompile(`@pytest\.mark\.parametrize\(\s*["']([^"']+)["']\s*,\s*(\[.*)$`)

// parseParametrize extracts the column names and, when the row list fits on
// the decorator line, the value rows. Multi-line row lists keep the names
// only; the rows stay in the original text.
func parseParametrize(raw string, loc *ir.Location) *ir.ParameterSet {
	ps := &ir.ParameterSet{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceWarning, OriginalSource: raw},
	}
	m := parametrizeArgsRe.FindStringSubmatch(raw)
	if m == nil {
		return ps
	}
	for _, n := range strings.Split(m[1], ",") {
		ps.Names = append(ps.Names, strings.TrimSpace(n))
	}
	rows := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(m[2]), ")"), "]")
	rows = strings.TrimPrefix(rows, "[")
	for _, r := range scan.SplitArgs(rows) {
		r = strings.TrimSpace(r)
		r = strings.TrimPrefix(r, "(")
		r = strings.TrimSuffix(r, ")")
		if r == "" {
			continue
		}
		ps.Rows = append(ps.Rows, scan.SplitArgs(r))
	}
	return ps
}

func attachChild(parent, child ir.Node) {
	switch p := parent.(type) {
	case *ir.TestSuite:
		switch c := child.(type) {
		case *ir.Hook:
			p.Hooks = append(p.Hooks, c)
		case *ir.SharedVariable:
			p.SharedState = append(p.SharedState, c)
		default:
			p.Tests = append(p.Tests, child)
		}
	case *ir.TestCase:
		p.Body = append(p.Body, child)
	case *ir.Hook:
		p.Body = append(p.Body, child)
	}
}

func rawNode(line string, loc *ir.Location) *ir.RawCode {
	return &ir.RawCode{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		Code:     line,
	}
}

var selfAssertRe = regexp.MustCompile(`^self\.(assert\w+|fail)\s*\(`)

// container-subject kinds: the method takes (member, container) but the
// neutral order puts the container in the subject.
var memberFirst = map[string]bool{"contains": true, "notContains": true}

// ExtractSelfAssertion recognizes a unittest-style self.assert* call and
// normalizes it: first argument is the subject, second the expected value.
func ExtractSelfAssertion(line string, cfg Config) (*ir.Assertion, bool) {
	m := selfAssertRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	kind, known := cfg.SelfAsserts[m[1]]
	if !known {
		return nil, false
	}
	open := strings.Index(line, "(")
	closeIdx := scan.MatchingParen(line, open)
	if closeIdx < 0 {
		return nil, false
	}
	args := scan.SplitArgs(line[open+1 : closeIdx])

	a := &ir.Assertion{
		NodeMeta:   ir.Meta{Confidence: ir.ConfidenceConverted},
		AssertKind: kind,
	}
	switch {
	case kind == "fail":
		if len(args) > 0 {
			a.Message = args[0]
		}
	case kind == "throws":
		if len(args) == 0 {
			return nil, false
		}
		a.Expected = args[0]
		if len(args) > 1 {
			a.Subject = scan.JoinArgs(args[1:])
		}
	case memberFirst[kind]:
		if len(args) < 2 {
			return nil, false
		}
		a.Expected, a.Subject = args[0], args[1]
		if len(args) > 2 {
			a.Message = args[2]
		}
	case len(args) >= 2 && isBinaryKind(kind):
		a.Subject, a.Expected = args[0], args[1]
		if len(args) > 2 {
			a.Message = args[2]
		}
	case len(args) >= 1:
		a.Subject = args[0]
		if len(args) > 1 {
			a.Message = args[1]
		}
	default:
		return nil, false
	}
	if strings.HasPrefix(kind, "not") {
		a.Negated = true
	}
	return a, true
}

func isBinaryKind(kind string) bool {
	switch kind {
	case "equal", "notEqual", "strictEqual", "notStrictEqual", "deepEqual",
		"greaterThan", "greaterOrEqual", "lessThan", "lessOrEqual",
		"closeTo", "instanceOf", "matches":
		return true
	}
	return false
}

var (
	bareAssertRe = regexp.MustCompile(`^assert\s+(.+)$`)
	isNotNoneRe  = regexp.MustCompile(`^(.+?)\s+is\s+not\s+None$`)
	isNoneRe     = regexp.MustCompile(`^(.+?)\s+is\s+None$`)
	notInRe      = regexp.MustCompile(`^(.+?)\s+not\s+in\s+(.+)$`)
	inRe         = regexp.MustCompile(`^(.+?)\s+in\s+(.+)$`)
)

// ExtractBareAssertion recognizes a pytest-style bare assert statement and
// maps its comparison shape onto a neutral kind. Expressions it cannot shape
// stay whole as a truthiness check on the full expression.
func ExtractBareAssertion(line string) (*ir.Assertion, bool) {
	m := bareAssertRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	expr := strings.TrimSpace(m[1])
	message := ""
	// a trailing ", msg" outside any bracket is the assertion message
	if parts := scan.SplitArgs(expr); len(parts) == 2 {
		expr, message = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	a := &ir.Assertion{
		NodeMeta: ir.Meta{Confidence: ir.ConfidenceConverted},
		Message:  message,
	}
	switch {
	case isNotNoneRe.MatchString(expr):
		a.AssertKind = "isDefined"
		a.Subject = isNotNoneRe.FindStringSubmatch(expr)[1]
	case isNoneRe.MatchString(expr):
		a.AssertKind = "isNull"
		a.Subject = isNoneRe.FindStringSubmatch(expr)[1]
	case containsTopLevel(expr, "=="):
		lhs, rhs := splitTopLevel(expr, "==")
		a.AssertKind = "equal"
		a.Subject, a.Expected = lhs, rhs
	case containsTopLevel(expr, "!="):
		lhs, rhs := splitTopLevel(expr, "!=")
		a.AssertKind = "notEqual"
		a.Subject, a.Expected = lhs, rhs
		a.Negated = true
	case containsTopLevel(expr, ">="):
		lhs, rhs := splitTopLevel(expr, ">=")
		a.AssertKind = "greaterOrEqual"
		a.Subject, a.Expected = lhs, rhs
	case containsTopLevel(expr, "<="):
		lhs, rhs := splitTopLevel(expr, "<=")
		a.AssertKind = "lessOrEqual"
		a.Subject, a.Expected = lhs, rhs
	case containsTopLevel(expr, ">"):
		lhs, rhs := splitTopLevel(expr, ">")
		a.AssertKind = "greaterThan"
		a.Subject, a.Expected = lhs, rhs
	case containsTopLevel(expr, "<"):
		lhs, rhs := splitTopLevel(expr, "<")
		a.AssertKind = "lessThan"
		a.Subject, a.Expected = lhs, rhs
	case notInRe.MatchString(expr):
		mm := notInRe.FindStringSubmatch(expr)
		a.AssertKind = "contains"
		a.Expected, a.Subject = mm[1], mm[2]
		a.Negated = true
	case inRe.MatchString(expr):
		mm := inRe.FindStringSubmatch(expr)
		a.AssertKind = "contains"
		a.Expected, a.Subject = mm[1], mm[2]
	case strings.HasPrefix(expr, "not "):
		a.AssertKind = "falsy"
		a.Subject = strings.TrimSpace(strings.TrimPrefix(expr, "not "))
	default:
		a.AssertKind = "truthy"
		a.Subject = expr
	}
	return a, true
}

// containsTopLevel reports whether op occurs outside brackets and strings.
func containsTopLevel(expr, op string) bool {
	_, _, ok := cutTopLevel(expr, op)
	return ok
}

func splitTopLevel(expr, op string) (string, string) {
	lhs, rhs, _ := cutTopLevel(expr, op)
	return lhs, rhs
}

func cutTopLevel(expr, op string) (string, string, bool) {
	depth := 0
	var quote byte
	for i := 0; i+len(op) <= len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if depth == 0 && quote == 0 && expr[i:i+len(op)] == op {
			// reject compound operators when probing the single-char forms
			if len(op) == 1 && i+1 < len(expr) && expr[i+1] == '=' {
				continue
			}
			if len(op) == 1 && i > 0 && (expr[i-1] == '<' || expr[i-1] == '>' || expr[i-1] == '!' || expr[i-1] == '=') {
				continue
			}
			return strings.TrimSpace(expr[:i]), strings.TrimSpace(expr[i+len(op):]), true
		}
	}
	return "", "", false
}
