package jslang

import (
	"fmt"
	"strings"
)

// RenderExpect renders a neutral assertion back into expect-chain syntax
// using the target's kind-to-matcher table.
func RenderExpect(kind, subject, expected string, negated bool, kindToMatcher map[string]string) (string, bool) {
	matcher, ok := kindToMatcher[kind]
	if !ok {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "expect(%s)", subject)
	if negated {
		b.WriteString(".not")
	}
	fmt.Fprintf(&b, ".%s(%s);", matcher, expected)
	return b.String(), true
}

// Invert flips a matcher table into a kind-to-matcher table. Map iteration
// order is random, so kinds reachable from several matchers must name their
// preferred matcher in prefer.
func Invert(matchers map[string]string, prefer map[string]string) map[string]string {
	out := make(map[string]string, len(matchers))
	for matcher, kind := range matchers {
		if _, seen := out[kind]; !seen {
			out[kind] = matcher
		}
	}
	for kind, matcher := range prefer {
		out[kind] = matcher
	}
	return out
}
