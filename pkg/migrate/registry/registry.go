// Package registry holds the framework adapter definitions the conversion
// pipeline resolves against. Adapters are registered once at process start
// by a fixed enumeration; after that the registry is read-only in practice,
// but registration remains safe for concurrent use so tests can install
// doubles.
//
// Definitions are keyed by (name, language): the same framework name may
// legitimately exist for several languages, so callers needing determinism
// must pass a language.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

// Paradigm is the structural style of a framework.
type Paradigm string

const (
	// ParadigmBDD is describe/it nesting.
	ParadigmBDD Paradigm = "bdd"
	// ParadigmXUnit is class-plus-annotated-methods.
	ParadigmXUnit Paradigm = "xunit"
	// ParadigmFunction is bare functions with bare asserts.
	ParadigmFunction Paradigm = "function"
)

// ImportSpec describes how emitted code references the framework.
type ImportSpec struct {
	// Module is the import source ("vitest", "org.junit.jupiter.api", "pytest").
	Module string
	// Style is the import syntax family: "esm", "require", "java", "python".
	Style string
	// Named are the specifiers commonly pulled from the module.
	Named []string
}

// Definition is the per-framework adapter contract: three pure functions plus
// static metadata. Detect scores membership in [0,100]; Parse produces an IR
// tree and never fails (unmatched lines degrade to RawCode); Emit produces
// target code from the IR and original source and never fails either.
type Definition struct {
	Name     string
	Language string
	Paradigm Paradigm
	Imports  ImportSpec

	Detect func(source string) int
	Parse  func(source string) *ir.TestFile
	// Emit is the default (ir-patch) emitter: ordered source-text rewrite
	// phases informed by the IR.
	Emit func(file *ir.TestFile, source string) string
	// Rewrite is the legacy emitter: pure text rewrite with no IR
	// consultation. Optional; Emit with a nil file is used when absent.
	Rewrite func(source string) string
	// EmitTree is the ir-full emitter: full tree-walk synthesis. Optional;
	// required only for paradigm-changing or cross-language targets.
	EmitTree func(file *ir.TestFile) string
}

// ErrInvalidDefinition wraps registration failures.
var ErrInvalidDefinition = fmt.Errorf("invalid adapter definition")

// Registry stores definitions keyed by (name, language).
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

func key(name, language string) string {
	return strings.ToLower(name) + "\x00" + strings.ToLower(language)
}

// Register validates and stores a definition. Every missing required field is
// reported in a single error. Re-registering the same (name, language)
// overwrites silently; last write wins, which is how tests install doubles.
func (r *Registry) Register(def *Definition) error {
	var missing []string
	if def == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidDefinition)
	}
	if def.Name == "" {
		missing = append(missing, "name")
	}
	if def.Language == "" {
		missing = append(missing, "language")
	}
	if def.Paradigm == "" {
		missing = append(missing, "paradigm")
	}
	if def.Imports.Module == "" {
		missing = append(missing, "imports")
	}
	if def.Detect == nil {
		missing = append(missing, "detect")
	}
	if def.Parse == nil {
		missing = append(missing, "parse")
	}
	if def.Emit == nil {
		missing = append(missing, "emit")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", ErrInvalidDefinition, strings.Join(missing, ", "))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[key(def.Name, def.Language)] = def
	return nil
}

// Get returns the definition for (name, language). An empty language returns
// an arbitrary match among same-named definitions. Nil when absent.
func (r *Registry) Get(name, language string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if language != "" {
		return r.defs[key(name, language)]
	}
	lname := strings.ToLower(name)
	for k, def := range r.defs {
		if strings.HasPrefix(k, lname+"\x00") {
			return def
		}
	}
	return nil
}

// Has reports whether Get would return non-nil.
func (r *Registry) Has(name, language string) bool {
	return r.Get(name, language) != nil
}

// List returns all definitions, optionally filtered by language, sorted by
// name then language.
func (r *Registry) List(language string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.defs))
	for _, def := range r.defs {
		if language == "" || strings.EqualFold(def.Language, language) {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Language < out[j].Language
	})
	return out
}

// Clear empties the registry. Used between test runs and analyses.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = make(map[string]*Definition)
}
