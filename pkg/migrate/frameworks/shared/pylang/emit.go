package pylang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/marker"
	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

// Rename is one ordered regexp rewrite.
type Rename struct {
	Re          *regexp.Regexp
	Replacement string
}

// ApplyRenames runs the rewrites in order over the whole source.
func ApplyRenames(code string, renames []Rename) string {
	for _, r := range renames {
		code = r.Re.ReplaceAllString(code, r.Replacement)
	}
	return code
}

// RewriteAssertions replaces every source line the IR recognized as an
// assertion with its re-rendered form, preserving indentation.
func RewriteAssertions(code string, file *ir.TestFile, render func(a *ir.Assertion) (string, bool)) string {
	if file == nil {
		return code
	}
	rendered := map[string]string{}
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok && a.NodeMeta.OriginalSource != "" {
			if line, ok := render(a); ok {
				rendered[strings.TrimSpace(a.NodeMeta.OriginalSource)] = line
			}
		}
		return ir.Continue
	})
	if len(rendered) == 0 {
		return code
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if repl, ok := rendered[strings.TrimSpace(line)]; ok {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			lines[i] = indent + repl
		}
	}
	return strings.Join(lines, "\n")
}

// selfAssertMethods maps neutral kinds onto the unittest method family.
var selfAssertMethods = map[string]string{
	"equal":          "assertEqual",
	"notEqual":       "assertNotEqual",
	"deepEqual":      "assertEqual",
	"strictEqual":    "assertIs",
	"notStrictEqual": "assertIsNot",
	"truthy":         "assertTrue",
	"falsy":          "assertFalse",
	"isNull":         "assertIsNone",
	"isUndefined":    "assertIsNone",
	"isDefined":      "assertIsNotNone",
	"contains":       "assertIn",
	"notContains":    "assertNotIn",
	"matches":        "assertRegex",
	"throws":         "assertRaises",
	"greaterThan":    "assertGreater",
	"greaterOrEqual": "assertGreaterEqual",
	"lessThan":       "assertLess",
	"lessOrEqual":    "assertLessEqual",
	"closeTo":        "assertAlmostEqual",
	"instanceOf":     "assertIsInstance",
	"fail":           "fail",
}

// negatedMethods resolves a negated kind that has a dedicated counterpart.
var negatedMethods = map[string]string{
	"equal":       "assertNotEqual",
	"strictEqual": "assertIsNot",
	"contains":    "assertNotIn",
	"isNull":      "assertIsNotNone",
	"isDefined":   "assertIsNone",
	"truthy":      "assertFalse",
}

// RenderSelfAssertion writes a neutral assertion as a self.assert* call.
func RenderSelfAssertion(a *ir.Assertion) (string, bool) {
	method, ok := selfAssertMethods[a.AssertKind]
	if !ok {
		return "", false
	}
	if a.Negated && !strings.HasPrefix(a.AssertKind, "not") {
		neg, ok := negatedMethods[a.AssertKind]
		if !ok {
			return "", false
		}
		method = neg
	}
	subject := scan.NormalizeCommaSpacing(a.Subject)
	expected := scan.NormalizeCommaSpacing(a.Expected)

	var args []string
	switch {
	case a.AssertKind == "fail":
		if a.Message != "" {
			args = []string{a.Message}
		}
	case a.AssertKind == "throws":
		args = []string{expected}
		if subject != "" {
			args = append(args, subject)
		}
	case memberFirst[a.AssertKind]:
		args = []string{expected, subject}
	case expected != "":
		args = []string{subject, expected}
	default:
		args = []string{subject}
	}
	if a.Message != "" && a.AssertKind != "fail" {
		args = append(args, a.Message)
	}
	return "self." + method + "(" + scan.JoinArgs(args) + ")", true
}

// RenderBareAssertion writes a neutral assertion as a pytest bare assert.
func RenderBareAssertion(a *ir.Assertion) (string, bool) {
	subject := scan.NormalizeCommaSpacing(a.Subject)
	expected := scan.NormalizeCommaSpacing(a.Expected)

	var expr string
	switch a.AssertKind {
	case "equal", "deepEqual":
		if a.Negated {
			expr = subject + " != " + expected
		} else {
			expr = subject + " == " + expected
		}
	case "notEqual":
		expr = subject + " != " + expected
	case "strictEqual":
		expr = subject + " is " + expected
	case "notStrictEqual":
		expr = subject + " is not " + expected
	case "truthy":
		if a.Negated {
			expr = "not " + subject
		} else {
			expr = subject
		}
	case "falsy":
		expr = "not " + subject
	case "isNull", "isUndefined":
		if a.Negated {
			expr = subject + " is not None"
		} else {
			expr = subject + " is None"
		}
	case "isDefined":
		expr = subject + " is not None"
	case "contains":
		if a.Negated {
			expr = expected + " not in " + subject
		} else {
			expr = expected + " in " + subject
		}
	case "notContains":
		expr = expected + " not in " + subject
	case "greaterThan":
		expr = subject + " > " + expected
	case "greaterOrEqual":
		expr = subject + " >= " + expected
	case "lessThan":
		expr = subject + " < " + expected
	case "lessOrEqual":
		expr = subject + " <= " + expected
	case "length":
		expr = "len(" + subject + ") == " + expected
	case "fail":
		line := "pytest.fail(" + a.Message + ")"
		return line, true
	default:
		return "", false
	}
	line := "assert " + expr
	if a.Message != "" {
		line += ", " + a.Message
	}
	return line, true
}

// EmitConfig drives the Python tree emitter.
type EmitConfig struct {
	// Imports is the fixed framework import block ("import unittest").
	Imports []string
	// ClassBased synthesizes unittest-style classes; otherwise cases become
	// module-level functions.
	ClassBased bool
	// AssertionFor renders a neutral assertion; returning !ok degrades the
	// node to a marker comment.
	AssertionFor func(a *ir.Assertion) (string, bool)
	// SkipDecorator writes the skip decorator for a reason, empty for none.
	SkipDecorator func(reason string) string
}

const indentUnit = "    "

var pyHookNames = map[ir.HookType]string{
	ir.HookBeforeEach: "setUp",
	ir.HookAfterEach:  "tearDown",
	ir.HookBeforeAll:  "setUpClass",
	ir.HookAfterAll:   "tearDownClass",
}

var pyFuncHookNames = map[ir.HookType]string{
	ir.HookBeforeEach: "setup_method",
	ir.HookAfterEach:  "teardown_method",
	ir.HookBeforeAll:  "setup_module",
	ir.HookAfterAll:   "teardown_module",
}

// EmitTree synthesizes Python test code from the IR alone. Suites become
// classes; in function mode a suite flattens into prefixed module functions.
func EmitTree(file *ir.TestFile, cfg EmitConfig) string {
	var b strings.Builder
	for _, imp := range cfg.Imports {
		fmt.Fprintf(&b, "import %s\n", imp)
	}
	for _, imp := range file.Imports {
		if imp.ImportKind == ir.ImportFramework {
			continue
		}
		if strings.Contains(imp.Source, "/") {
			b.WriteString(marker.WarningComment("#", "", "library import has no Python equivalent", imp.NodeMeta.OriginalSource, "supply the matching Python dependency") + "\n")
			continue
		}
		b.WriteString(renderImport(imp) + "\n")
	}
	b.WriteString("\n\n")

	if cfg.ClassBased {
		emitClasses(&b, file, cfg)
	} else {
		emitFunctions(&b, file, cfg)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderImport(imp *ir.Import) string {
	if len(imp.Specifiers) > 0 {
		return "from " + imp.Source + " import " + strings.Join(imp.Specifiers, ", ")
	}
	return "import " + imp.Source
}

func emitClasses(b *strings.Builder, file *ir.TestFile, cfg EmitConfig) {
	suites := 0
	for _, n := range file.Body {
		if s, ok := n.(*ir.TestSuite); ok {
			emitClass(b, s, cfg)
			suites++
		}
	}
	if suites == 0 {
		root := &ir.TestSuite{Name: "Converted"}
		for _, n := range file.Body {
			if h, ok := n.(*ir.Hook); ok {
				root.Hooks = append(root.Hooks, h)
			} else {
				root.Tests = append(root.Tests, n)
			}
		}
		emitClass(b, root, cfg)
	}
}

func emitClass(b *strings.Builder, s *ir.TestSuite, cfg EmitConfig) {
	fmt.Fprintf(b, "class %s(unittest.TestCase):\n", pyClassName(s.Name))
	wrote := false
	for _, sv := range s.SharedState {
		if sv.Value != "" {
			fmt.Fprintf(b, "%s%s = %s\n", indentUnit, sv.Name, sv.Value)
		} else {
			fmt.Fprintf(b, "%s%s = None\n", indentUnit, sv.Name)
		}
		wrote = true
	}
	if wrote {
		b.WriteString("\n")
	}
	for _, h := range s.Hooks {
		emitMethodHook(b, h, cfg)
		wrote = true
	}
	for _, n := range s.Tests {
		switch v := n.(type) {
		case *ir.TestSuite:
			// flatten nested groups into prefixed method names
			for _, inner := range v.Tests {
				if tc, ok := inner.(*ir.TestCase); ok {
					named := *tc
					named.Name = v.Name + " " + tc.Name
					emitMethod(b, &named, cfg)
					wrote = true
				}
			}
		case *ir.TestCase:
			emitMethod(b, v, cfg)
			wrote = true
		default:
			emitStatement(b, n, indentUnit, cfg)
			wrote = true
		}
	}
	if !wrote {
		fmt.Fprintf(b, "%spass\n", indentUnit)
	}
	b.WriteString("\n")
}

func emitMethodHook(b *strings.Builder, h *ir.Hook, cfg EmitConfig) {
	name := pyHookNames[h.Type]
	if name == "" {
		b.WriteString(marker.TodoComment("#", indentUnit, "unsupported hook type "+string(h.Type), h.NodeMeta.OriginalSource, "port this hook manually") + "\n")
		return
	}
	classScope := h.Type == ir.HookBeforeAll || h.Type == ir.HookAfterAll
	if classScope {
		fmt.Fprintf(b, "%s@classmethod\n", indentUnit)
		fmt.Fprintf(b, "%sdef %s(cls):\n", indentUnit, name)
	} else {
		fmt.Fprintf(b, "%sdef %s(self):\n", indentUnit, name)
	}
	emitBody(b, h.Body, indentUnit+indentUnit, cfg)
	b.WriteString("\n")
}

func emitMethod(b *strings.Builder, tc *ir.TestCase, cfg EmitConfig) {
	for _, m := range tc.Modifiers {
		if m.ModKind == ir.ModifierSkip && cfg.SkipDecorator != nil {
			fmt.Fprintf(b, "%s%s\n", indentUnit, cfg.SkipDecorator(m.Value))
		}
	}
	fmt.Fprintf(b, "%sdef %s(self):\n", indentUnit, pyMethodName(tc.Name))
	emitBody(b, tc.Body, indentUnit+indentUnit, cfg)
	b.WriteString("\n")
}

func emitFunctions(b *strings.Builder, file *ir.TestFile, cfg EmitConfig) {
	for _, n := range file.Body {
		switch v := n.(type) {
		case *ir.TestSuite:
			for _, h := range v.Hooks {
				emitFuncHook(b, h, cfg)
			}
			for _, inner := range v.Tests {
				if tc, ok := inner.(*ir.TestCase); ok {
					named := *tc
					named.Name = v.Name + " " + tc.Name
					emitFunc(b, &named, cfg)
				} else {
					emitStatement(b, inner, "", cfg)
				}
			}
		case *ir.TestCase:
			emitFunc(b, v, cfg)
		case *ir.Hook:
			emitFuncHook(b, v, cfg)
		default:
			emitStatement(b, n, "", cfg)
		}
	}
}

func emitFuncHook(b *strings.Builder, h *ir.Hook, cfg EmitConfig) {
	name := pyFuncHookNames[h.Type]
	if name == "" {
		b.WriteString(marker.TodoComment("#", "", "unsupported hook type "+string(h.Type), h.NodeMeta.OriginalSource, "port this hook manually") + "\n")
		return
	}
	fmt.Fprintf(b, "def %s():\n", name)
	emitBody(b, h.Body, indentUnit, cfg)
	b.WriteString("\n\n")
}

func emitFunc(b *strings.Builder, tc *ir.TestCase, cfg EmitConfig) {
	for _, m := range tc.Modifiers {
		if m.ModKind == ir.ModifierSkip && cfg.SkipDecorator != nil {
			fmt.Fprintf(b, "%s\n", cfg.SkipDecorator(m.Value))
		}
	}
	fmt.Fprintf(b, "def %s():\n", pyMethodName(tc.Name))
	emitBody(b, tc.Body, indentUnit, cfg)
	b.WriteString("\n\n")
}

func emitBody(b *strings.Builder, body []ir.Node, indent string, cfg EmitConfig) {
	if len(body) == 0 {
		fmt.Fprintf(b, "%spass\n", indent)
		return
	}
	for _, n := range body {
		emitStatement(b, n, indent, cfg)
	}
}

func emitStatement(b *strings.Builder, n ir.Node, indent string, cfg EmitConfig) {
	switch v := n.(type) {
	case *ir.Assertion:
		if cfg.AssertionFor != nil {
			if line, ok := cfg.AssertionFor(v); ok {
				fmt.Fprintf(b, "%s%s\n", indent, line)
				return
			}
		}
		b.WriteString(marker.TodoComment("#", indent, "assertion kind "+v.AssertKind+" has no target equivalent", v.NodeMeta.OriginalSource, "rewrite this assertion manually") + "\n")
	case *ir.Comment:
		fmt.Fprintf(b, "%s# %s\n", indent, v.Text)
	case *ir.RawCode:
		code := strings.TrimSpace(v.Code)
		if v.NodeMeta.Confidence == ir.ConfidenceUnconvertible || v.NodeMeta.FrameworkSpecific {
			b.WriteString(marker.TodoComment("#", indent, "no target equivalent", code, "port this line manually") + "\n")
			return
		}
		fmt.Fprintf(b, "%s%s\n", indent, code)
	case *ir.MockCall:
		b.WriteString(marker.TodoComment("#", indent, "mock kind "+v.MockKind+" has no target equivalent", v.NodeMeta.OriginalSource, "recreate this test double manually") + "\n")
	default:
		b.WriteString(marker.TodoComment("#", indent, "unrecognized construct "+string(n.Kind()), n.Meta().OriginalSource, "port this construct manually") + "\n")
	}
}

var pyNonIdent = regexp.MustCompile(`[^A-Za-z0-9]+`)

// pyClassName turns an arbitrary suite name into a TestX class identifier.
func pyClassName(name string) string {
	parts := pyNonIdent.Split(name, -1)
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	s := b.String()
	if s == "" {
		s = "Converted"
	}
	if !strings.HasPrefix(s, "Test") {
		s = "Test" + s
	}
	return s
}

// pyMethodName turns an arbitrary case name into a snake_case test_ name.
func pyMethodName(name string) string {
	parts := pyNonIdent.Split(strings.ToLower(name), -1)
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	s := strings.Join(kept, "_")
	if s == "" {
		s = "converted_case"
	}
	if !strings.HasPrefix(s, "test") {
		s = "test_" + s
	}
	return s
}
