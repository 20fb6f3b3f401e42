package ir

// WalkControl is the visitor's verdict for the subtree rooted at the node it
// was just shown.
type WalkControl int

const (
	// Continue descends into the node's children.
	Continue WalkControl = iota
	// SkipChildren records the node but does not descend.
	SkipChildren
)

// Visitor observes one node and decides whether its subtree is descended.
type Visitor func(n Node) WalkControl

// Walk traverses the tree rooted at root depth-first, visiting every node
// exactly once and each parent strictly before its children. Child order is
// fixed: imports, body, hooks, tests, sharedState, modifiers, parameters.
// It returns all visited nodes in visit order. This is the only traversal in
// the engine; confidence scoring, import-need detection and tree emitters all
// ride on it so that ordering stays consistent everywhere.
//
// A nil visitor visits everything.
func Walk(root Node, visit Visitor) []Node {
	if root == nil {
		return nil
	}
	if visit == nil {
		visit = func(Node) WalkControl { return Continue }
	}
	var out []Node
	walk(root, visit, &out)
	return out
}

func walk(n Node, visit Visitor, out *[]Node) {
	if n == nil {
		return
	}
	*out = append(*out, n)
	if visit(n) == SkipChildren {
		return
	}
	switch v := n.(type) {
	case *TestFile:
		for _, imp := range v.Imports {
			walk(imp, visit, out)
		}
		for _, c := range v.Body {
			walk(c, visit, out)
		}
	case *TestSuite:
		for _, h := range v.Hooks {
			walk(h, visit, out)
		}
		for _, c := range v.Tests {
			walk(c, visit, out)
		}
		for _, s := range v.SharedState {
			walk(s, visit, out)
		}
		for _, m := range v.Modifiers {
			walk(m, visit, out)
		}
	case *TestCase:
		for _, c := range v.Body {
			walk(c, visit, out)
		}
		for _, m := range v.Modifiers {
			walk(m, visit, out)
		}
		if v.Parameters != nil {
			walk(v.Parameters, visit, out)
		}
	case *Hook:
		for _, c := range v.Body {
			walk(c, visit, out)
		}
	}
	// Leaves (Assertion, MockCall, Import, RawCode, Comment, SharedVariable,
	// Modifier, ParameterSet) own no child nodes.
}

// Tally is the per-flag node count produced by CountConfidence.
type Tally struct {
	Converted     int
	Unconvertible int
	Warning       int
}

// Total returns the number of tallied nodes.
func (t Tally) Total() int { return t.Converted + t.Unconvertible + t.Warning }

// CountConfidence walks the tree and counts nodes per confidence flag. The
// root's own flag is excluded: aggregate confidence is derived, never hand-set
// on the root.
func CountConfidence(root Node) Tally {
	var t Tally
	for _, n := range Walk(root, nil) {
		if n == root {
			continue
		}
		switch n.Meta().Confidence {
		case ConfidenceUnconvertible:
			t.Unconvertible++
		case ConfidenceWarning:
			t.Warning++
		default:
			t.Converted++
		}
	}
	return t
}
