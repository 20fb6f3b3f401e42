// Package ir defines the framework-agnostic intermediate representation of a
// test file. Adapters produce an IR tree during parse and consume it during
// emit; the confidence report is derived from the tree alone. Nodes are plain
// data: construction always succeeds, and a tree is created once per
// conversion, never mutated during emission, and never shared across
// conversions.
package ir

// Confidence tags a single node with the quality of its translation.
type Confidence string

const (
	// ConfidenceConverted marks a node the target adapter can express faithfully.
	ConfidenceConverted Confidence = "converted"
	// ConfidenceUnconvertible marks a node with no target equivalent; emission
	// degrades it to an annotated comment instead of failing.
	ConfidenceUnconvertible Confidence = "unconvertible"
	// ConfidenceWarning marks a node that converts with a behavioural caveat.
	ConfidenceWarning Confidence = "warning"
)

// Kind is the variant tag of a node.
type Kind string

const (
	KindTestFile       Kind = "testFile"
	KindTestSuite      Kind = "testSuite"
	KindTestCase       Kind = "testCase"
	KindHook           Kind = "hook"
	KindAssertion      Kind = "assertion"
	KindMockCall       Kind = "mockCall"
	KindImport         Kind = "import"
	KindRawCode        Kind = "rawCode"
	KindComment        Kind = "comment"
	KindSharedVariable Kind = "sharedVariable"
	KindModifier       Kind = "modifier"
	KindParameterSet   Kind = "parameterSet"
)

// HookType identifies the lifecycle phase a hook runs in.
type HookType string

const (
	HookBeforeAll  HookType = "beforeAll"
	HookBeforeEach HookType = "beforeEach"
	HookAfterEach  HookType = "afterEach"
	HookAfterAll   HookType = "afterAll"
	HookAround     HookType = "around"
)

// ImportKind distinguishes framework imports (rewritten during emission)
// from ordinary library imports (passed through).
type ImportKind string

const (
	ImportFramework ImportKind = "framework"
	ImportLibrary   ImportKind = "library"
)

// ModifierKind identifies a test/suite modifier.
type ModifierKind string

const (
	ModifierSkip ModifierKind = "skip"
	ModifierOnly ModifierKind = "only"
	ModifierTag  ModifierKind = "tag"
	ModifierTodo ModifierKind = "todo"
)

// Location is an optional line/column span into the original source.
// Lines and columns are 1-based.
type Location struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol,omitempty"`
	EndLine   int `json:"endLine,omitempty"`
	EndCol    int `json:"endCol,omitempty"`
}

// Meta carries the attributes shared by every node variant: the source span,
// the per-node confidence flag, the verbatim original text, and the boolean
// hints consumed by scoring and emission. Embed it in every variant.
type Meta struct {
	Location       *Location  `json:"location,omitempty"`
	Confidence     Confidence `json:"confidence"`
	OriginalSource string     `json:"originalSource,omitempty"`

	RequiresAsync       bool `json:"requiresAsync,omitempty"`
	HasTimingDependency bool `json:"hasTimingDependency,omitempty"`
	FrameworkSpecific   bool `json:"frameworkSpecific,omitempty"`
}

// Node is the closed sum of IR variants. Only the types in this package
// implement it; consumers dispatch on Kind or type-switch over the variants.
type Node interface {
	Kind() Kind
	Meta() *Meta
}

// TestFile is the root of an IR tree: the ordered imports followed by the
// ordered body. One per source file; never nested.
type TestFile struct {
	NodeMeta Meta      `json:"meta"`
	Imports  []*Import `json:"imports"`
	Body     []Node    `json:"body"`
}

// TestSuite is a named grouping: a describe block or an xunit test class.
// Tests may contain nested suites.
type TestSuite struct {
	NodeMeta    Meta              `json:"meta"`
	Name        string            `json:"name"`
	Hooks       []*Hook           `json:"hooks,omitempty"`
	Tests       []Node            `json:"tests,omitempty"`
	SharedState []*SharedVariable `json:"sharedState,omitempty"`
	Modifiers   []*Modifier       `json:"modifiers,omitempty"`
}

// TestCase is a single test.
type TestCase struct {
	NodeMeta   Meta          `json:"meta"`
	Name       string        `json:"name"`
	Body       []Node        `json:"body,omitempty"`
	Modifiers  []*Modifier   `json:"modifiers,omitempty"`
	Parameters *ParameterSet `json:"parameters,omitempty"`
	IsAsync    bool          `json:"isAsync,omitempty"`
}

// Hook is a lifecycle callback owned by a suite or a file.
type Hook struct {
	NodeMeta Meta     `json:"meta"`
	Type     HookType `json:"type"`
	Scope    string   `json:"scope,omitempty"`
	Body     []Node   `json:"body,omitempty"`
}

// Assertion is a leaf assertion call. AssertKind is a framework-neutral
// identifier such as "equal", "truthy", "throws" or "contains"; Subject and
// Expected hold the verbatim argument expressions in neutral order
// (subject first), regardless of the source framework's argument convention.
type Assertion struct {
	NodeMeta   Meta   `json:"meta"`
	AssertKind string `json:"kind"`
	Subject    string `json:"subject"`
	Expected   string `json:"expected,omitempty"`
	Negated    bool   `json:"negated,omitempty"`
	Message    string `json:"message,omitempty"`
}

// MockCall is a leaf test-double or interception call.
type MockCall struct {
	NodeMeta    Meta     `json:"meta"`
	MockKind    string   `json:"kind"`
	Target      string   `json:"target,omitempty"`
	Args        []string `json:"args,omitempty"`
	ReturnValue string   `json:"returnValue,omitempty"`
}

// Import is a single import/require/using statement.
type Import struct {
	NodeMeta   Meta       `json:"meta"`
	ImportKind ImportKind `json:"kind"`
	Source     string     `json:"source"`
	Specifiers []string   `json:"specifiers,omitempty"`
	IsDefault  bool       `json:"isDefault,omitempty"`
	IsTypeOnly bool       `json:"isTypeOnly,omitempty"`
}

// RawCode is verbatim pass-through for any line no structural node matched.
// It is the guarantee that parse never drops input.
type RawCode struct {
	NodeMeta Meta   `json:"meta"`
	Code     string `json:"code"`
	Comment  string `json:"comment,omitempty"`
}

// Comment is a source comment preserved as-is.
type Comment struct {
	NodeMeta Meta   `json:"meta"`
	Text     string `json:"text"`
}

// SharedVariable is suite-level shared state (a field, a hoisted let).
type SharedVariable struct {
	NodeMeta Meta   `json:"meta"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
}

// Modifier is a skip/only/tag marker on a suite or case.
type Modifier struct {
	NodeMeta Meta         `json:"meta"`
	ModKind  ModifierKind `json:"kind"`
	Value    string       `json:"value,omitempty"`
}

// ParameterSet holds parameterized-test data: column names and value rows.
type ParameterSet struct {
	NodeMeta Meta       `json:"meta"`
	Names    []string   `json:"names,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
}

func (n *TestFile) Kind() Kind       { return KindTestFile }
func (n *TestSuite) Kind() Kind      { return KindTestSuite }
func (n *TestCase) Kind() Kind       { return KindTestCase }
func (n *Hook) Kind() Kind           { return KindHook }
func (n *Assertion) Kind() Kind      { return KindAssertion }
func (n *MockCall) Kind() Kind       { return KindMockCall }
func (n *Import) Kind() Kind         { return KindImport }
func (n *RawCode) Kind() Kind        { return KindRawCode }
func (n *Comment) Kind() Kind        { return KindComment }
func (n *SharedVariable) Kind() Kind { return KindSharedVariable }
func (n *Modifier) Kind() Kind       { return KindModifier }
func (n *ParameterSet) Kind() Kind   { return KindParameterSet }

func (n *TestFile) Meta() *Meta       { return &n.NodeMeta }
func (n *TestSuite) Meta() *Meta      { return &n.NodeMeta }
func (n *TestCase) Meta() *Meta       { return &n.NodeMeta }
func (n *Hook) Meta() *Meta           { return &n.NodeMeta }
func (n *Assertion) Meta() *Meta      { return &n.NodeMeta }
func (n *MockCall) Meta() *Meta       { return &n.NodeMeta }
func (n *Import) Meta() *Meta         { return &n.NodeMeta }
func (n *RawCode) Meta() *Meta        { return &n.NodeMeta }
func (n *Comment) Meta() *Meta        { return &n.NodeMeta }
func (n *SharedVariable) Meta() *Meta { return &n.NodeMeta }
func (n *Modifier) Meta() *Meta       { return &n.NodeMeta }
func (n *ParameterSet) Meta() *Meta   { return &n.NodeMeta }

// NewFile returns an empty TestFile root marked converted.
func NewFile() *TestFile {
	return &TestFile{
		NodeMeta: Meta{Confidence: ConfidenceConverted},
		Imports:  []*Import{},
		Body:     []Node{},
	}
}
