package jslang

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/marker"
)

// Rename is one ordered regex rewrite.
type Rename struct {
	Re          *regexp.Regexp
	Replacement string
}

// Phase is one named step of an ordered emission sequence. Phase ordering is
// load-bearing: renames run before structural wraps reference the renamed
// form, and argument rewrites run before the unconvertible-pattern scan so
// markers are not duplicated onto already-handled lines.
type Phase struct {
	Name  string
	Apply func(code string) string
}

// RunPhases applies phases in order.
func RunPhases(code string, phases []Phase) string {
	for _, p := range phases {
		code = p.Apply(code)
	}
	return code
}

// ApplyRenames applies an ordered rename table over the whole source.
func ApplyRenames(code string, renames []Rename) string {
	for _, r := range renames {
		code = r.Re.ReplaceAllString(code, r.Replacement)
	}
	return code
}

// RewriteImports rewrites import/require module sources by table. Specifier
// lists are preserved.
func RewriteImports(code string, modules map[string]string) string {
	for old, new_ := range modules {
		from := regexp.MustCompile(`(from\s+['"])` + regexp.QuoteMeta(old) + `(['"])`)
		code = from.ReplaceAllString(code, "${1}"+new_+"${2}")
		req := regexp.MustCompile(`(require\(\s*['"])` + regexp.QuoteMeta(old) + `(['"]\s*\))`)
		code = req.ReplaceAllString(code, "${1}"+new_+"${2}")
	}
	return code
}

// canonical ordering for inserted framework specifiers.
var specifierRank = map[string]int{
	"describe": 0, "it": 1, "test": 2, "expect": 3,
	"beforeAll": 4, "beforeEach": 5, "afterEach": 6, "afterAll": 7,
	"vi": 8, "jest": 9,
}

// NeededSpecifiers walks the IR and derives which framework globals the
// emitted code references: suites need describe, cases need it, assertions
// need expect, hooks their own name, mocks the mock namespace.
func NeededSpecifiers(file *ir.TestFile, mockNamespace string) []string {
	if file == nil {
		return nil
	}
	need := map[string]bool{}
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		switch v := n.(type) {
		case *ir.TestSuite:
			need["describe"] = true
		case *ir.TestCase:
			need["it"] = true
		case *ir.Assertion:
			need["expect"] = true
		case *ir.Hook:
			switch v.Type {
			case ir.HookBeforeAll:
				need["beforeAll"] = true
			case ir.HookBeforeEach:
				need["beforeEach"] = true
			case ir.HookAfterEach:
				need["afterEach"] = true
			case ir.HookAfterAll:
				need["afterAll"] = true
			}
		case *ir.MockCall:
			if mockNamespace != "" {
				need[mockNamespace] = true
			}
		}
		return ir.Continue
	})
	out := make([]string, 0, len(need))
	for s := range need {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, oki := specifierRank[out[i]]
		rj, okj := specifierRank[out[j]]
		if oki && okj {
			return ri < rj
		}
		if oki != okj {
			return oki
		}
		return out[i] < out[j]
	})
	return out
}

// EnsureFrameworkImport inserts `import { ... } from 'module'` at the top of
// the code when the IR shows framework globals in use and no import from the
// module exists yet. The IR decides need; the text decides presence.
func EnsureFrameworkImport(code string, file *ir.TestFile, module, mockNamespace string) string {
	if strings.Contains(code, "'"+module+"'") || strings.Contains(code, `"`+module+`"`) {
		return code
	}
	specs := NeededSpecifiers(file, mockNamespace)
	if len(specs) == 0 {
		return code
	}
	stmt := fmt.Sprintf("import { %s } from '%s';", strings.Join(specs, ", "), module)
	if code == "" {
		return stmt + "\n"
	}
	return stmt + "\n\n" + code
}

// EmitConfig drives the BDD tree emitter.
type EmitConfig struct {
	// Module is the framework import source for the emitted file.
	Module string
	// MockNamespace is the emitted mock namespace ("vi"), empty for none.
	MockNamespace string
	// HeaderSpecifiers overrides the IR-derived specifier list for the
	// framework import. Playwright needs this: its suite and hook calls hang
	// off the test namespace rather than being importable globals.
	HeaderSpecifiers []string
	// CaseKeyword is "it" or "test".
	CaseKeyword string
	// SuiteKeyword defaults to "describe".
	SuiteKeyword string
	// HookPrefix is prepended to hook names ("test." yields test.beforeEach).
	HookPrefix string
	// HookNames overrides individual hook names (mocha's before/after).
	HookNames map[ir.HookType]string
	// AssertionFor renders a neutral assertion into target syntax; returning
	// !ok degrades the node to a marker comment.
	AssertionFor func(a *ir.Assertion) (string, bool)
	// MockFor renders a mock call; returning !ok degrades to a marker.
	MockFor func(m *ir.MockCall) (string, bool)
	// CaseSignature renders the case callback opening, e.g.
	// "async ({ page }) =>" for Playwright. Empty means "() =>" with async
	// prepended when the case requires it.
	CaseSignature func(tc *ir.TestCase) string
	// RawFor optionally rewrites raw pass-through lines (command mapping).
	// Returning !ok leaves the line verbatim.
	RawFor func(raw *ir.RawCode) (string, bool)
}

const indentUnit = "  "

// EmitTree synthesizes target code from the IR alone, indenting by nesting
// depth and degrading any node it does not recognize to an annotated marker
// comment. Used for paradigm-changing and cross-language targets, and for
// the ir-full emitter mode.
func EmitTree(file *ir.TestFile, cfg EmitConfig) string {
	var b strings.Builder
	specs := cfg.HeaderSpecifiers
	if specs == nil {
		specs = NeededSpecifiers(file, cfg.MockNamespace)
	}
	if len(specs) > 0 && cfg.Module != "" {
		fmt.Fprintf(&b, "import { %s } from '%s';\n", strings.Join(specs, ", "), cfg.Module)
	}
	for _, imp := range file.Imports {
		if imp.ImportKind == ir.ImportFramework {
			continue // replaced by the header import above
		}
		b.WriteString(renderImport(imp))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, n := range file.Body {
		emitNode(&b, n, 0, cfg)
	}
	return strings.TrimLeft(b.String(), "\n")
}

func renderImport(imp *ir.Import) string {
	switch {
	case len(imp.Specifiers) == 0:
		return fmt.Sprintf("import '%s';", imp.Source)
	case imp.IsDefault:
		return fmt.Sprintf("import %s from '%s';", imp.Specifiers[0], imp.Source)
	default:
		return fmt.Sprintf("import { %s } from '%s';", strings.Join(imp.Specifiers, ", "), imp.Source)
	}
}

func emitNode(b *strings.Builder, n ir.Node, depth int, cfg EmitConfig) {
	indent := strings.Repeat(indentUnit, depth)
	switch v := n.(type) {
	case *ir.TestSuite:
		kw := cfg.SuiteKeyword
		if kw == "" {
			kw = "describe"
		}
		fmt.Fprintf(b, "%s%s%s('%s', () => {\n", indent, kw, modifierSuffix(v.Modifiers), v.Name)
		for _, sv := range v.SharedState {
			fmt.Fprintf(b, "%s%slet %s;\n", indent, indentUnit, sv.Name)
		}
		for _, h := range v.Hooks {
			emitNode(b, h, depth+1, cfg)
		}
		for _, c := range v.Tests {
			emitNode(b, c, depth+1, cfg)
		}
		fmt.Fprintf(b, "%s});\n", indent)
	case *ir.TestCase:
		kw := cfg.CaseKeyword
		if kw == "" {
			kw = "it"
		}
		sig := "() =>"
		if cfg.CaseSignature != nil {
			sig = cfg.CaseSignature(v)
		} else if v.IsAsync {
			sig = "async () =>"
		}
		fmt.Fprintf(b, "%s%s%s('%s', %s {\n", indent, kw, modifierSuffix(v.Modifiers), v.Name, sig)
		for _, c := range v.Body {
			emitNode(b, c, depth+1, cfg)
		}
		fmt.Fprintf(b, "%s});\n", indent)
	case *ir.Hook:
		name := hookName(v.Type)
		if override, ok := cfg.HookNames[v.Type]; ok {
			name = override
		}
		if name == "" {
			b.WriteString(marker.TodoComment("//", indent, "unsupported hook type "+string(v.Type), v.NodeMeta.OriginalSource, "port this hook manually") + "\n")
			return
		}
		fmt.Fprintf(b, "%s%s%s(() => {\n", indent, cfg.HookPrefix, name)
		for _, c := range v.Body {
			emitNode(b, c, depth+1, cfg)
		}
		fmt.Fprintf(b, "%s});\n", indent)
	case *ir.Assertion:
		if cfg.AssertionFor != nil {
			if line, ok := cfg.AssertionFor(v); ok {
				fmt.Fprintf(b, "%s%s\n", indent, line)
				return
			}
		}
		b.WriteString(marker.TodoComment("//", indent, "assertion kind "+v.AssertKind+" has no target equivalent", v.NodeMeta.OriginalSource, "rewrite this assertion manually") + "\n")
	case *ir.MockCall:
		if cfg.MockFor != nil {
			if line, ok := cfg.MockFor(v); ok {
				fmt.Fprintf(b, "%s%s\n", indent, line)
				return
			}
		}
		b.WriteString(marker.TodoComment("//", indent, "mock kind "+v.MockKind+" has no target equivalent", v.NodeMeta.OriginalSource, "recreate this test double manually") + "\n")
	case *ir.Comment:
		fmt.Fprintf(b, "%s// %s\n", indent, v.Text)
	case *ir.RawCode:
		if cfg.RawFor != nil {
			if line, ok := cfg.RawFor(v); ok {
				fmt.Fprintf(b, "%s%s\n", indent, line)
				return
			}
		}
		if v.NodeMeta.Confidence == ir.ConfidenceUnconvertible {
			b.WriteString(marker.TodoComment("//", indent, "no target equivalent", strings.TrimSpace(v.Code), "port this line manually") + "\n")
			return
		}
		fmt.Fprintf(b, "%s%s\n", indent, strings.TrimSpace(v.Code))
	default:
		b.WriteString(marker.TodoComment("//", indent, "unrecognized construct "+string(n.Kind()), n.Meta().OriginalSource, "port this construct manually") + "\n")
	}
}

func hookName(t ir.HookType) string {
	switch t {
	case ir.HookBeforeAll:
		return "beforeAll"
	case ir.HookBeforeEach:
		return "beforeEach"
	case ir.HookAfterEach:
		return "afterEach"
	case ir.HookAfterAll:
		return "afterAll"
	default:
		return ""
	}
}

func modifierSuffix(mods []*ir.Modifier) string {
	for _, m := range mods {
		switch m.ModKind {
		case ir.ModifierSkip:
			return ".skip"
		case ir.ModifierOnly:
			return ".only"
		case ir.ModifierTodo:
			return ".todo"
		}
	}
	return ""
}
