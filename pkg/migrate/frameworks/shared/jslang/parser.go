// Package jslang implements the parse and emit machinery shared by the
// JavaScript-family adapters (Jest, Vitest, Cypress, Playwright). Adapters
// contribute their own pattern tables; this package owns the single forward
// scan, the container stack keyed by brace depth, and the expect-chain
// extraction.
package jslang

import (
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

// Config is an adapter's contribution to the shared parser.
type Config struct {
	// Framework is the adapter name ("jest").
	Framework string
	// FrameworkModules are import sources owned by the framework; imports
	// from them become framework imports, everything else is a library
	// import.
	FrameworkModules []string
	// Matchers maps expect-chain matcher names to neutral assertion kinds
	// ("toBe" -> "equal"). Unknown matchers degrade to RawCode.
	Matchers map[string]string
	// MockCalls maps call prefixes to neutral mock kinds
	// ("jest.fn" -> "createStub", "cy.intercept" -> "networkIntercept").
	MockCalls map[string]string
	// Commands maps framework command prefixes ("cy.") whose lines are
	// framework-specific raw code even when no mock kind matches.
	CommandPrefixes []string
}

var (
	importFromRe   = regexp.MustCompile(`^import\s+(type\s+)?(.+?)\s+from\s+['"]([^'"]+)['"]`)
	importBareRe   = regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`)
	requireRe      = regexp.MustCompile(`^(?:const|let|var)\s+(.+?)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	suiteOpenRe    = regexp.MustCompile(`^(?:await\s+)?(describe|context|suite)(?:\.(skip|only|each))?\s*\(`)
	caseOpenRe     = regexp.MustCompile(`^(?:await\s+)?(?:test|it|specify)(?:\.(skip|only|todo|fails|concurrent|each))?\s*\(`)
	hookOpenRe     = regexp.MustCompile(`^(beforeAll|beforeEach|afterEach|afterAll|before|after)\s*\(`)
	sharedLetRe    = regexp.MustCompile(`^(?:let|var)\s+([A-Za-z_$][\w$]*)\s*(?:=\s*(.+?))?;?$`)
	stringLitRe    = regexp.MustCompile(`['"]([^'"]*)['"]` + "|`([^`]*)`")
	testDescribeRe = regexp.MustCompile(`^(?:await\s+)?test\.describe(?:\.(skip|only))?\s*\(`)
	testHookRe     = regexp.MustCompile(`^test\.(beforeAll|beforeEach|afterEach|afterAll)\s*\(`)
)

// mochaHookAliases maps the mocha-style bare hooks onto lifecycle types.
var hookTypes = map[string]ir.HookType{
	"beforeAll":  ir.HookBeforeAll,
	"beforeEach": ir.HookBeforeEach,
	"afterEach":  ir.HookAfterEach,
	"afterAll":   ir.HookAfterAll,
	"before":     ir.HookBeforeAll,
	"after":      ir.HookAfterAll,
}

// frame is one open container on the parse stack.
type frame struct {
	node      ir.Node
	openDepth int
}

// Parse runs the single forward scan over the source, maintaining an explicit
// stack of open containers keyed by brace depth. It never fails and never
// drops a line: anything unmatched becomes RawCode.
func Parse(source string, cfg Config) *ir.TestFile {
	file := ir.NewFile()
	sc := scan.New(scan.CLike)
	stack := []frame{}

	appendNode := func(n ir.Node) {
		if len(stack) == 0 {
			file.Body = append(file.Body, n)
			return
		}
		switch parent := stack[len(stack)-1].node.(type) {
		case *ir.TestSuite:
			switch v := n.(type) {
			case *ir.Hook:
				parent.Hooks = append(parent.Hooks, v)
			case *ir.SharedVariable:
				parent.SharedState = append(parent.SharedState, v)
			default:
				parent.Tests = append(parent.Tests, n)
			}
		case *ir.TestCase:
			parent.Body = append(parent.Body, n)
		case *ir.Hook:
			parent.Body = append(parent.Body, n)
		}
	}

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		wasInMultiline := sc.InMultiline()
		depthBefore := sc.Depth()
		info := sc.Line(line)
		depthAfter := sc.Depth()
		trimmed := strings.TrimSpace(line)
		loc := &ir.Location{StartLine: i + 1}

		classify := func() {
			if wasInMultiline || trimmed == "" {
				if trimmed != "" {
					appendNode(rawNode(line, loc))
				}
				return
			}
			if strings.HasPrefix(trimmed, "//") {
				appendNode(&ir.Comment{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Text:     strings.TrimSpace(strings.TrimPrefix(trimmed, "//")),
				})
				return
			}
			if imp := parseImport(trimmed, loc, cfg); imp != nil {
				file.Imports = append(file.Imports, imp)
				return
			}
			if m := suiteOpenRe.FindStringSubmatch(trimmed); m != nil || testDescribeRe.MatchString(trimmed) {
				suite := &ir.TestSuite{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Name:     firstStringLit(trimmed),
				}
				if m != nil {
					addModifier(&suite.Modifiers, m[2], loc)
				} else if mm := testDescribeRe.FindStringSubmatch(trimmed); mm != nil {
					addModifier(&suite.Modifiers, mm[1], loc)
				}
				appendNode(suite)
				if depthAfter > depthBefore {
					stack = append(stack, frame{node: suite, openDepth: depthBefore})
				}
				return
			}
			if m := hookOpenRe.FindStringSubmatch(trimmed); m != nil {
				hook := &ir.Hook{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Type:     hookTypes[m[1]],
				}
				appendNode(hook)
				if depthAfter > depthBefore {
					stack = append(stack, frame{node: hook, openDepth: depthBefore})
				}
				return
			}
			if m := testHookRe.FindStringSubmatch(trimmed); m != nil {
				hook := &ir.Hook{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Type:     hookTypes[m[1]],
				}
				appendNode(hook)
				if depthAfter > depthBefore {
					stack = append(stack, frame{node: hook, openDepth: depthBefore})
				}
				return
			}
			if m := caseOpenRe.FindStringSubmatch(trimmed); m != nil {
				tc := &ir.TestCase{
					NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
					Name:     firstStringLit(trimmed),
					IsAsync:  strings.Contains(trimmed, "async"),
				}
				if tc.IsAsync {
					tc.NodeMeta.RequiresAsync = true
				}
				addModifier(&tc.Modifiers, m[1], loc)
				appendNode(tc)
				if depthAfter > depthBefore {
					stack = append(stack, frame{node: tc, openDepth: depthBefore})
				} else if inline := inlineBody(trimmed); inline != "" {
					// One-line case: extract an inline assertion if present.
					if a, ok := ExtractAssertion(inline, cfg.Matchers); ok {
						a.NodeMeta.Location = loc
						tc.Body = append(tc.Body, a)
					}
				}
				return
			}
			if a, ok := ExtractAssertion(trimmed, cfg.Matchers); ok && strings.HasPrefix(noAwait(trimmed), "expect") {
				a.NodeMeta.Location = loc
				a.NodeMeta.OriginalSource = line
				appendNode(a)
				return
			}
			if mc := parseMockCall(trimmed, loc, cfg); mc != nil {
				appendNode(mc)
				return
			}
			if len(stack) > 0 {
				if _, inSuite := stack[len(stack)-1].node.(*ir.TestSuite); inSuite {
					if m := sharedLetRe.FindStringSubmatch(trimmed); m != nil && depthAfter == depthBefore {
						appendNode(&ir.SharedVariable{
							NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
							Name:     m[1],
							Value:    m[2],
						})
						return
					}
				}
			}
			if isStructuralOnly(info.Code) {
				return
			}
			raw := rawNode(line, loc)
			for _, prefix := range cfg.CommandPrefixes {
				if strings.HasPrefix(noAwait(trimmed), prefix) {
					raw.NodeMeta.FrameworkSpecific = true
					break
				}
			}
			appendNode(raw)
		}
		classify()

		// Close any containers whose block ended on this line.
		for len(stack) > 0 && depthAfter <= stack[len(stack)-1].openDepth {
			stack = stack[:len(stack)-1]
		}
	}
	return file
}

func rawNode(line string, loc *ir.Location) *ir.RawCode {
	return &ir.RawCode{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: line},
		Code:     line,
	}
}

// isStructuralOnly reports lines that only close or open blocks, which need
// no node of their own; structure is regenerated from the tree.
func isStructuralOnly(code string) bool {
	t := strings.TrimSpace(code)
	if t == "" {
		return true
	}
	for _, r := range t {
		switch r {
		case '}', ')', ']', ';', ',', ' ':
		default:
			return false
		}
	}
	return true
}

func noAwait(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "await "))
}

func addModifier(mods *[]*ir.Modifier, name string, loc *ir.Location) {
	var kind ir.ModifierKind
	switch name {
	case "skip":
		kind = ir.ModifierSkip
	case "only":
		kind = ir.ModifierOnly
	case "todo":
		kind = ir.ModifierTodo
	case "":
		return
	default:
		kind = ir.ModifierTag
	}
	*mods = append(*mods, &ir.Modifier{
		NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted},
		ModKind:  kind,
		Value:    name,
	})
}

// firstStringLit extracts the first string literal on the line; suite and
// case names live there.
func firstStringLit(line string) string {
	if m := stringLitRe.FindStringSubmatch(line); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	return ""
}

// inlineBody returns the callback body of a one-line arrow test, or "".
func inlineBody(line string) string {
	idx := strings.Index(line, "=>")
	if idx < 0 {
		return ""
	}
	body := strings.TrimSpace(line[idx+2:])
	body = strings.TrimPrefix(body, "{")
	return body
}

func parseImport(trimmed string, loc *ir.Location, cfg Config) *ir.Import {
	var source string
	var specPart string
	isDefault := false
	isTypeOnly := false
	if m := importFromRe.FindStringSubmatch(trimmed); m != nil {
		isTypeOnly = m[1] != ""
		specPart = m[2]
		source = m[3]
	} else if m := importBareRe.FindStringSubmatch(trimmed); m != nil {
		source = m[1]
	} else if m := requireRe.FindStringSubmatch(trimmed); m != nil {
		specPart = m[1]
		source = m[2]
	} else {
		return nil
	}
	var specifiers []string
	if specPart != "" {
		inner := specPart
		if strings.HasPrefix(inner, "{") {
			inner = strings.Trim(inner, "{} ")
		} else {
			isDefault = true
		}
		for _, s := range strings.Split(inner, ",") {
			if s = strings.TrimSpace(s); s != "" {
				specifiers = append(specifiers, s)
			}
		}
	}
	kind := ir.ImportLibrary
	for _, mod := range cfg.FrameworkModules {
		if source == mod {
			kind = ir.ImportFramework
			break
		}
	}
	return &ir.Import{
		NodeMeta:   ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: trimmed},
		ImportKind: kind,
		Source:     source,
		Specifiers: specifiers,
		IsDefault:  isDefault,
		IsTypeOnly: isTypeOnly,
	}
}

func parseMockCall(trimmed string, loc *ir.Location, cfg Config) *ir.MockCall {
	stripped := noAwait(trimmed)
	for prefix, kind := range cfg.MockCalls {
		if !strings.HasPrefix(stripped, prefix) {
			continue
		}
		rest := stripped[len(prefix):]
		open := strings.Index(rest, "(")
		if open < 0 {
			continue
		}
		closeIdx := scan.MatchingParen(rest, open)
		argText := ""
		if closeIdx > open {
			argText = rest[open+1 : closeIdx]
		}
		args := scan.SplitArgs(argText)
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		mc := &ir.MockCall{
			NodeMeta: ir.Meta{Location: loc, Confidence: ir.ConfidenceConverted, OriginalSource: trimmed, FrameworkSpecific: true},
			MockKind: kind,
			Target:   target,
			Args:     args,
		}
		if kind == "fakeTimers" || strings.Contains(prefix, "Timers") {
			mc.NodeMeta.HasTimingDependency = true
		}
		return mc
	}
	return nil
}

// ExtractAssertion pulls an expect-chain assertion out of a line using
// paren-matched extraction rather than a single regex, so nested calls in the
// subject or the expectation never split wrongly. Returns false when the line
// holds no recognizable assertion.
func ExtractAssertion(line string, matchers map[string]string) (*ir.Assertion, bool) {
	stripped := noAwait(line)
	idx := strings.Index(stripped, "expect(")
	if idx < 0 {
		return nil, false
	}
	open := idx + len("expect")
	closeIdx := scan.MatchingParen(stripped, open)
	if closeIdx < 0 {
		return nil, false
	}
	subject := strings.TrimSpace(stripped[open+1 : closeIdx])
	rest := strings.TrimSpace(stripped[closeIdx+1:])

	negated := false
	async := false
chain:
	for {
		switch {
		case strings.HasPrefix(rest, ".not"):
			negated = true
			rest = strings.TrimSpace(rest[len(".not"):])
		case strings.HasPrefix(rest, ".resolves"):
			async = true
			rest = strings.TrimSpace(rest[len(".resolves"):])
		case strings.HasPrefix(rest, ".rejects"):
			async = true
			rest = strings.TrimSpace(rest[len(".rejects"):])
		default:
			break chain
		}
	}
	if !strings.HasPrefix(rest, ".") {
		return nil, false
	}
	rest = rest[1:]
	parenAt := strings.Index(rest, "(")
	if parenAt <= 0 {
		return nil, false
	}
	matcher := strings.TrimSpace(rest[:parenAt])
	kind, known := matchers[matcher]
	if !known {
		return nil, false
	}
	closeArg := scan.MatchingParen(rest, parenAt)
	expected := ""
	if closeArg > parenAt {
		expected = strings.TrimSpace(rest[parenAt+1 : closeArg])
	}
	a := &ir.Assertion{
		NodeMeta:   ir.Meta{Confidence: ir.ConfidenceConverted, OriginalSource: line},
		AssertKind: kind,
		Subject:    subject,
		Expected:   expected,
		Negated:    negated,
	}
	if async || strings.HasPrefix(strings.TrimSpace(line), "await ") {
		a.NodeMeta.RequiresAsync = true
	}
	return a, true
}
