// Package javalang implements the parse and emit machinery shared by the
// Java xunit adapters (JUnit 4, JUnit 5, TestNG). The families differ almost
// entirely in tables: annotation names, import packages, and the argument
// order of the two-operand asserts. The structural scan and the class
// synthesis live here once.
package javalang

import (
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

// Config is an adapter's contribution to the shared parser.
type Config struct {
	// Framework is the adapter name ("junit4").
	Framework string
	// FrameworkPackages are import prefixes owned by the framework
	// ("org.junit."); imports under them become framework imports.
	FrameworkPackages []string
	// TestAnnotations are annotation names that mark a method as a test.
	TestAnnotations map[string]bool
	// HookAnnotations map lifecycle annotation names onto hook types.
	HookAnnotations map[string]ir.HookType
	// SkipAnnotations are annotation names that mark a test as disabled.
	SkipAnnotations map[string]bool
	// Asserts maps assert method names onto neutral kinds.
	Asserts map[string]string
	// AssertClasses are the static receivers assert calls may hang off
	// ("Assert", "Assertions"). Bare calls are always accepted.
	AssertClasses map[string]bool
	// SubjectFirst is true when the two-operand asserts take the actual
	// value first (TestNG). JUnit takes the expected value first.
	SubjectFirst bool
	// MessageFirst is true when the optional message argument leads the
	// list (JUnit 4). JUnit 5 and TestNG trail it.
	MessageFirst bool
}

// two-operand kinds where argument order matters.
var twoOperand = map[string]bool{
	"equal": true, "notEqual": true, "strictEqual": true,
	"notStrictEqual": true, "deepEqual": true,
}

var (
	packageRe    = regexp.MustCompile(`^package\s+[\w.]+\s*;`)
	importRe     = regexp.MustCompile(`^import\s+(static\s+)?([\w.*]+)\s*;`)
	annotationRe = regexp.MustCompile(`^@(\w+)(\s*\(.*)?$`)
	classRe      = regexp.MustCompile(`^(?:public\s+|final\s+|abstract\s+)*class\s+(\w+)`)
	methodRe     = regexp.MustCompile(`^(?:public\s+|protected\s+|private\s+)?(?:static\s+)?(?:final\s+)?[\w<>\[\],\s]+?\s(\w+)\s*\(([^)]*)\)`)
	fieldRe      = regexp.MustCompile(`^(?:private\s+|protected\s+|public\s+)?(?:static\s+)?(?:final\s+)?[\w<>\[\],\s]+?\s(\w+)\s*(?:=\s*(.+?))?;$`)
	expectedRe   = regexp.MustCompile(`expected\s*=\s*([\w.]+)\.class`)
	ignoreArgRe  = regexp.MustCompile(`\(\s*"([^"]*)"\s*\)`)
)

// pending is the annotation buffer: annotations accumulate until the
// declaration they decorate arrives.
type pending struct {
	name string
	raw  string
}

type frame struct {
	node      ir.Node
	openDepth int
}

// Parse runs a single forward scan over a Java test source. Annotations
// buffer until their declaration; classes and annotated methods open stack
// frames keyed by brace depth; anything unmatched becomes RawCode.
func Parse(source string, cfg Config) *ir.TestFile {
	file := ir.NewFile()
	sc := scan.New(scan.CLike)
	stack := []frame{}
	var anns []pending

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
		depthBefore := sc.Depth()
		info := sc.Line(line)
		depthAfter := sc.Depth()
		trimmed := strings.TrimSpace(line)
		loc := &ir.Location{StartLine: i + 1}

		switch {
		case wasInMultiline || trimmed == "":
			if trimmed != "" {
				appendNode(rawNode(line, loc))
			}
		case strings.HasPrefix(trimmed, "//"):
			appendNode(&ir.Comment{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				Text:     strings.TrimSpace(strings.TrimPrefix(trimmed, "//")),
			})
		case strings.HasPrefix(trimmed, "/*"):
			appendNode(rawNode(line, loc))
		case packageRe.MatchString(trimmed):
			appendNode(rawNode(line, loc))
		case importRe.MatchString(trimmed):
			m := importRe.FindStringSubmatch(trimmed)
			imp := &ir.Import{
				NodeMeta:   ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				ImportKind: ir.ImportLibrary,
				Source:     m[2],
			}
			for _, prefix := range cfg.FrameworkPackages {
				if strings.HasPrefix(m[2], prefix) {
					imp.ImportKind = ir.ImportFramework
					break
				}
			}
			appendNode(imp)
		case annotationRe.MatchString(trimmed):
			m := annotationRe.FindStringSubmatch(trimmed)
			anns = append(anns, pending{name: m[1], raw: trimmed})
		case classRe.MatchString(trimmed):
			m := classRe.FindStringSubmatch(trimmed)
			suite := &ir.TestSuite{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				Name:     m[1],
			}
			for _, a := range anns {
				suite.Modifiers = append(suite.Modifiers, classModifier(a, loc))
			}
			anns = nil
			appendNode(suite)
			stack = append(stack, frame{node: suite, openDepth: depthBefore})
		case hasDecl(anns, cfg) && methodRe.MatchString(trimmed):
			node := methodNode(trimmed, line, loc, anns, cfg)
			anns = nil
			appendNode(node)
			if info.DeltaBrace > 0 {
				stack = append(stack, frame{node: node, openDepth: depthBefore})
			}
		default:
			if a, ok := ExtractAssertion(trimmed, cfg); ok {
				a.NodeMeta.Location = loc
				a.NodeMeta.OriginalSource = line
				appendNode(a)
			} else if len(stack) > 0 && inClassBody(stack) && fieldRe.MatchString(trimmed) && !strings.Contains(trimmed, "(") {
				m := fieldRe.FindStringSubmatch(trimmed)
				appendNode(&ir.SharedVariable{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Name:     m[1],
					Value:    strings.TrimSpace(m[2]),
				})
			} else if !isStructuralOnly(trimmed) {
				appendNode(rawNode(line, loc))
			}
			// leftover annotations decorated something we did not model
			anns = nil
		}

		for len(stack) > 0 && depthAfter <= stack[len(stack)-1].openDepth {
			stack = stack[:len(stack)-1]
		}
	}
	return file
}

// hasDecl reports whether the pending annotations include one the adapter
// recognizes as a test, hook or skip marker.
func hasDecl(anns []pending, cfg Config) bool {
	for _, a := range anns {
		if cfg.TestAnnotations[a.name] || cfg.SkipAnnotations[a.name] {
			return true
		}
		if _, ok := cfg.HookAnnotations[a.name]; ok {
			return true
		}
	}
	return false
}

func methodNode(trimmed, line string, loc *ir.Location, anns []pending, cfg Config) ir.Node {
	m := methodRe.FindStringSubmatch(trimmed)
	name := m[1]
	for _, a := range anns {
		if t, ok := cfg.HookAnnotations[a.name]; ok {
			return &ir.Hook{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
				Type:     t,
			}
		}
	}
	tc := &ir.TestCase{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		Name:     name,
	}
	for _, a := range anns {
		switch {
		case cfg.SkipAnnotations[a.name]:
			mod := &ir.Modifier{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: a.raw},
				ModKind:  ir.ModifierSkip,
			}
			if r := ignoreArgRe.FindStringSubmatch(a.raw); r != nil {
				mod.Value = r[1]
			}
			tc.Modifiers = append(tc.Modifiers, mod)
		case cfg.TestAnnotations[a.name]:
			if r := expectedRe.FindStringSubmatch(a.raw); r != nil {
				tc.Modifiers = append(tc.Modifiers, &ir.Modifier{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceWarning, OriginalSource: a.raw},
					ModKind:  ir.ModifierTag,
					Value:    "expectedException=" + r[1],
				})
			}
		default:
			// framework annotation we cannot model (@RunWith, custom rules)
			tc.Modifiers = append(tc.Modifiers, &ir.Modifier{
				NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceUnconvertible, OriginalSource: a.raw},
				ModKind:  ir.ModifierTag,
				Value:    a.name,
			})
		}
	}
	return tc
}

func classModifier(a pending, loc *ir.Location) *ir.Modifier {
	conf := ir.ConfidenceConverted
	// runner and listener wiring has no portable equivalent
	if a.name == "RunWith" || a.name == "Listeners" || a.name == "ExtendWith" {
		conf = ir.ConfidenceUnconvertible
	}
	return &ir.Modifier{
		NodeMeta: ir.Meta{Location: loc, Confidence: conf, OriginalSource: a.raw},
		ModKind:  ir.ModifierTag,
		Value:    a.name,
	}
}

// inClassBody reports whether the innermost open frame is the class itself,
// meaning a declaration here is a field rather than a local.
func inClassBody(stack []frame) bool {
	_, ok := stack[len(stack)-1].node.(*ir.TestSuite)
	return ok
}

func rawNode(line string, loc *ir.Location) *ir.RawCode {
	return &ir.RawCode{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		Code:     line,
	}
}

func isStructuralOnly(code string) bool {
	for _, r := range code {
		if !strings.ContainsRune("{}();,", r) && r != ' ' && r != '\t' {
			return false
		}
	}
	return true
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

var assertCallRe = regexp.MustCompile(`^(?:(\w+)\.)?(assert\w+|fail)\s*\(`)

// ExtractAssertion recognizes a single assert call and normalizes its
// arguments into neutral order: subject first, expected second, message
// carried separately. The adapter's table decides which argument is which.
func ExtractAssertion(line string, cfg Config) (*ir.Assertion, bool) {
	m := assertCallRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	if m[1] != "" && !cfg.AssertClasses[m[1]] {
		return nil, false
	}
	method := m[2]
	kind, known := cfg.Asserts[method]
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
		// assertThrows(ExpectedType.class, executable)
		if len(args) < 2 {
			return nil, false
		}
		a.Expected = args[0]
		a.Subject = args[1]
		if len(args) > 2 {
			a.Message = args[2]
		}
	case twoOperand[kind]:
		switch {
		case len(args) == 2:
			if cfg.SubjectFirst {
				a.Subject, a.Expected = args[0], args[1]
			} else {
				a.Expected, a.Subject = args[0], args[1]
			}
		case len(args) == 3 && cfg.MessageFirst:
			a.Message, a.Expected, a.Subject = args[0], args[1], args[2]
		case len(args) == 3:
			if cfg.SubjectFirst {
				a.Subject, a.Expected = args[0], args[1]
			} else {
				a.Expected, a.Subject = args[0], args[1]
			}
			a.Message = args[2]
		default:
			return nil, false
		}
	default:
		// single-operand asserts: condition plus optional message
		switch {
		case len(args) == 1:
			a.Subject = args[0]
		case len(args) == 2 && cfg.MessageFirst:
			a.Message, a.Subject = args[0], args[1]
		case len(args) == 2:
			a.Subject, a.Message = args[0], args[1]
		default:
			return nil, false
		}
	}
	if strings.HasPrefix(kind, "not") {
		a.Negated = true
	}
	return a, true
}
