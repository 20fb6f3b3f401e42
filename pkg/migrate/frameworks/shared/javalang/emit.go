package javalang

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

// RewriteImports rewrites import statements. Exact maps whole import paths;
// Prefix maps package prefixes, longest first is the caller's concern.
func RewriteImports(code string, exact map[string]string, prefix map[string]string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		m := importRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		path := m[2]
		if repl, ok := exact[path]; ok {
			lines[i] = strings.Replace(line, path, repl, 1)
			continue
		}
		for old, new_ := range prefix {
			if strings.HasPrefix(path, old) {
				lines[i] = strings.Replace(line, old, new_, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// AssertStyle describes how a target family writes its asserts.
type AssertStyle struct {
	// Receiver is the static class the calls hang off ("Assertions"),
	// empty for bare static-import calls.
	Receiver string
	// SubjectFirst is true when the actual value leads (TestNG).
	SubjectFirst bool
	// MessageFirst is true when the optional message leads (JUnit 4).
	MessageFirst bool
	// KindToMethod maps neutral kinds onto assert method names.
	KindToMethod map[string]string
}

// RenderAssertion writes a neutral assertion in the target family's argument
// order. Argument expressions pass through normalized comma spacing so a
// source's add(2,2) arrives as add(2, 2).
func RenderAssertion(a *ir.Assertion, style AssertStyle) (string, bool) {
	kind := a.AssertKind
	if a.Negated && !strings.HasPrefix(kind, "not") {
		if _, ok := style.KindToMethod["not"+capitalize(kind)]; ok {
			kind = "not" + capitalize(kind)
		}
	}
	method, ok := style.KindToMethod[kind]
	if !ok {
		return "", false
	}
	subject := scan.NormalizeCommaSpacing(a.Subject)
	expected := scan.NormalizeCommaSpacing(a.Expected)

	var args []string
	switch {
	case kind == "fail":
		if a.Message != "" {
			args = []string{a.Message}
		}
	case kind == "throws":
		args = []string{expected, subject}
		if a.Message != "" {
			args = append(args, a.Message)
		}
	case twoOperand[kind] || twoOperand[a.AssertKind]:
		if style.SubjectFirst {
			args = []string{subject, expected}
		} else {
			args = []string{expected, subject}
		}
		if a.Message != "" {
			if style.MessageFirst {
				args = append([]string{a.Message}, args...)
			} else {
				args = append(args, a.Message)
			}
		}
	default:
		args = []string{subject}
		if a.Message != "" {
			if style.MessageFirst {
				args = []string{a.Message, subject}
			} else {
				args = []string{subject, a.Message}
			}
		}
	}
	call := method + "(" + scan.JoinArgs(args) + ");"
	if style.Receiver != "" {
		call = style.Receiver + "." + call
	}
	return call, true
}

// RewriteAssertions replaces every source line the IR recognized as an
// assertion with its re-rendered form, preserving indentation. Lines the
// parser did not claim stay untouched.
func RewriteAssertions(code string, file *ir.TestFile, style AssertStyle) string {
	if file == nil {
		return code
	}
	rendered := map[string]string{}
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if a, ok := n.(*ir.Assertion); ok && a.NodeMeta.OriginalSource != "" {
			if line, ok := RenderAssertion(a, style); ok {
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

var testExpectedRe = regexp.MustCompile(`@Test\s*\(\s*expected\s*=\s*([\w.]+)\.class\s*\)`)

// ConvertExpectedException rewrites the JUnit 4 expected-exception annotation
// into an explicit throws assertion: the annotation loses its argument and
// the method body is wrapped in throwsCall(Type.class, () -> { ... });.
func ConvertExpectedException(code, throwsCall string) string {
	lines := strings.Split(code, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		m := testExpectedRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			i++
			continue
		}
		exType := m[1]
		out = append(out, testExpectedRe.ReplaceAllString(line, "@Test"))
		i++
		// find the method opening brace
		for i < len(lines) {
			out = append(out, lines[i])
			if strings.Contains(lines[i], "{") {
				break
			}
			i++
		}
		if i >= len(lines) {
			break
		}
		openLine := lines[i]
		indent := openLine[:len(openLine)-len(strings.TrimLeft(openLine, " \t"))]
		unit := "    "
		i++
		// collect the body up to the matching close brace
		depth := 1
		var body []string
		for i < len(lines) && depth > 0 {
			depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
			if depth == 0 {
				break
			}
			body = append(body, lines[i])
			i++
		}
		out = append(out, indent+unit+throwsCall+"("+exType+".class, () -> {")
		for _, b := range body {
			if strings.TrimSpace(b) == "" {
				out = append(out, b)
				continue
			}
			out = append(out, unit+b)
		}
		out = append(out, indent+unit+"});")
		if i < len(lines) {
			out = append(out, lines[i]) // the method's closing brace
			i++
		}
	}
	return strings.Join(out, "\n")
}

// EmitConfig drives the xunit class synthesis.
type EmitConfig struct {
	// Imports is the fixed framework import block.
	Imports []string
	// TestAnnotation decorates each test method ("@Test").
	TestAnnotation string
	// HookAnnotations decorate lifecycle methods ("@BeforeEach").
	HookAnnotations map[ir.HookType]string
	// SkipAnnotation decorates disabled tests ("@Disabled").
	SkipAnnotation string
	// StaticHooks is true when the all-scope hooks must be static (JUnit).
	StaticHooks bool
	// Style renders the assertions.
	Style AssertStyle
}

const indentUnit = "    "

var hookMethodNames = map[ir.HookType]string{
	ir.HookBeforeAll:  "setUpClass",
	ir.HookBeforeEach: "setUp",
	ir.HookAfterEach:  "tearDown",
	ir.HookAfterAll:   "tearDownClass",
}

// EmitTree synthesizes a Java test class from the IR alone. Suites become
// classes, cases become annotated void methods, and anything without a target
// equivalent degrades to an annotated marker comment.
func EmitTree(file *ir.TestFile, cfg EmitConfig) string {
	var b strings.Builder
	for _, imp := range cfg.Imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	for _, imp := range file.Imports {
		if imp.ImportKind == ir.ImportFramework {
			continue
		}
		if strings.Contains(imp.Source, "/") {
			// not a Java import path; carry it as a review marker
			b.WriteString(marker.WarningComment("//", "", "library import has no Java equivalent", imp.NodeMeta.OriginalSource, "supply the matching Java dependency") + "\n")
			continue
		}
		fmt.Fprintf(&b, "import %s;\n", imp.Source)
	}
	b.WriteString("\n")

	suites := 0
	for _, n := range file.Body {
		if s, ok := n.(*ir.TestSuite); ok {
			emitClass(&b, s, cfg)
			suites++
		}
	}
	if suites == 0 {
		// no suite structure: wrap the whole body in one class
		root := &ir.TestSuite{Name: "ConvertedTest"}
		for _, n := range file.Body {
			switch v := n.(type) {
			case *ir.Hook:
				root.Hooks = append(root.Hooks, v)
			default:
				root.Tests = append(root.Tests, n)
			}
		}
		emitClass(&b, root, cfg)
	}
	return b.String()
}

func emitClass(b *strings.Builder, s *ir.TestSuite, cfg EmitConfig) {
	fmt.Fprintf(b, "public class %s {\n", className(s.Name))
	for _, sv := range s.SharedState {
		if sv.Value != "" {
			fmt.Fprintf(b, "%sprivate Object %s = %s;\n", indentUnit, sv.Name, sv.Value)
		} else {
			fmt.Fprintf(b, "%sprivate Object %s;\n", indentUnit, sv.Name)
		}
	}
	if len(s.SharedState) > 0 {
		b.WriteString("\n")
	}
	for _, h := range s.Hooks {
		emitHook(b, h, cfg)
	}
	for _, n := range s.Tests {
		switch v := n.(type) {
		case *ir.TestSuite:
			// Java has no nested describe; flatten with a prefixed name
			flat := *v
			flat.Name = s.Name + capitalize(v.Name)
			emitNested(b, &flat, cfg)
		case *ir.TestCase:
			emitCase(b, v, cfg)
		default:
			emitStatement(b, n, indentUnit, cfg)
		}
	}
	b.WriteString("}\n")
}

func emitNested(b *strings.Builder, s *ir.TestSuite, cfg EmitConfig) {
	for _, h := range s.Hooks {
		emitHook(b, h, cfg)
	}
	for _, n := range s.Tests {
		if tc, ok := n.(*ir.TestCase); ok {
			named := *tc
			named.Name = s.Name + " " + tc.Name
			emitCase(b, &named, cfg)
		} else {
			emitStatement(b, n, indentUnit, cfg)
		}
	}
}

func emitHook(b *strings.Builder, h *ir.Hook, cfg EmitConfig) {
	ann, ok := cfg.HookAnnotations[h.Type]
	if !ok {
		b.WriteString(marker.TodoComment("//", indentUnit, "unsupported hook type "+string(h.Type), h.NodeMeta.OriginalSource, "port this hook manually") + "\n")
		return
	}
	static := ""
	if cfg.StaticHooks && (h.Type == ir.HookBeforeAll || h.Type == ir.HookAfterAll) {
		static = "static "
	}
	fmt.Fprintf(b, "%s%s\n", indentUnit, ann)
	fmt.Fprintf(b, "%spublic %svoid %s() {\n", indentUnit, static, hookMethodNames[h.Type])
	for _, n := range h.Body {
		emitStatement(b, n, indentUnit+indentUnit, cfg)
	}
	fmt.Fprintf(b, "%s}\n\n", indentUnit)
}

func emitCase(b *strings.Builder, tc *ir.TestCase, cfg EmitConfig) {
	for _, m := range tc.Modifiers {
		if m.ModKind == ir.ModifierSkip && cfg.SkipAnnotation != "" {
			if m.Value != "" {
				fmt.Fprintf(b, "%s%s(\"%s\")\n", indentUnit, cfg.SkipAnnotation, m.Value)
			} else {
				fmt.Fprintf(b, "%s%s\n", indentUnit, cfg.SkipAnnotation)
			}
		}
	}
	fmt.Fprintf(b, "%s%s\n", indentUnit, cfg.TestAnnotation)
	fmt.Fprintf(b, "%spublic void %s() {\n", indentUnit, methodName(tc.Name))
	for _, n := range tc.Body {
		emitStatement(b, n, indentUnit+indentUnit, cfg)
	}
	fmt.Fprintf(b, "%s}\n\n", indentUnit)
}

func emitStatement(b *strings.Builder, n ir.Node, indent string, cfg EmitConfig) {
	switch v := n.(type) {
	case *ir.Assertion:
		if line, ok := RenderAssertion(v, cfg.Style); ok {
			fmt.Fprintf(b, "%s%s\n", indent, line)
			return
		}
		b.WriteString(marker.TodoComment("//", indent, "assertion kind "+v.AssertKind+" has no target equivalent", v.NodeMeta.OriginalSource, "rewrite this assertion manually") + "\n")
	case *ir.Comment:
		fmt.Fprintf(b, "%s// %s\n", indent, v.Text)
	case *ir.RawCode:
		code := strings.TrimSpace(v.Code)
		if v.NodeMeta.Confidence == ir.ConfidenceUnconvertible || v.NodeMeta.FrameworkSpecific {
			b.WriteString(marker.TodoComment("//", indent, "no target equivalent", code, "port this line manually") + "\n")
			return
		}
		fmt.Fprintf(b, "%s%s\n", indent, code)
	case *ir.MockCall:
		b.WriteString(marker.TodoComment("//", indent, "mock kind "+v.MockKind+" has no target equivalent", v.NodeMeta.OriginalSource, "recreate this test double manually") + "\n")
	default:
		b.WriteString(marker.TodoComment("//", indent, "unrecognized construct "+string(n.Kind()), n.Meta().OriginalSource, "port this construct manually") + "\n")
	}
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9]+`)

// className turns an arbitrary suite name into a Java class identifier.
func className(name string) string {
	parts := nonIdent.Split(name, -1)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(capitalize(p))
	}
	s := b.String()
	if s == "" {
		return "ConvertedTest"
	}
	if !strings.HasSuffix(s, "Test") {
		s += "Test"
	}
	return s
}

// methodName turns an arbitrary case name into a camelCase identifier.
func methodName(name string) string {
	parts := nonIdent.Split(name, -1)
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() == 0 && i == 0 {
			b.WriteString(strings.ToLower(p[:1]) + p[1:])
			continue
		}
		b.WriteString(capitalize(p))
	}
	if b.Len() == 0 {
		return "convertedCase"
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
