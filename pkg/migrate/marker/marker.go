// Package marker renders the annotation convention for constructs the engine
// cannot faithfully convert. The textual format is part of the compatibility
// surface: downstream tooling scans output for these markers, so the layout
// must stay byte-stable.
package marker

import (
	"fmt"
	"hash/fnv"
	"strings"
)

const (
	// Todo marks a construct with no target equivalent that needs manual
	// porting.
	Todo = "HAMLET-TODO"
	// Warning marks a construct that converted with a behavioural caveat.
	Warning = "HAMLET-WARNING"
)

// ID derives a stable eight-hex-digit id from the original snippet, so the
// same construct gets the same id on every run.
func ID(snippet string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.TrimSpace(snippet)))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Comment renders a marker comment block. prefix is the line-comment leader
// for the target language ("//" or "#"); indent is prepended to every line.
// snippet and action may be empty and are then omitted.
//
//	// HAMLET-TODO(1a2b3c4d): cy.intercept has no direct equivalent
//	//   original: cy.intercept('GET', '/api', {fixture: 'x'})
//	//   action: replace with page.route and a fulfill handler
func Comment(kind, prefix, indent, description, snippet, action string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s(%s): %s", indent, prefix, kind, ID(snippet+description), description)
	if s := strings.TrimSpace(snippet); s != "" {
		fmt.Fprintf(&b, "\n%s%s   original: %s", indent, prefix, s)
	}
	if a := strings.TrimSpace(action); a != "" {
		fmt.Fprintf(&b, "\n%s%s   action: %s", indent, prefix, a)
	}
	return b.String()
}

// TodoComment renders a Todo marker block.
func TodoComment(prefix, indent, description, snippet, action string) string {
	return Comment(Todo, prefix, indent, description, snippet, action)
}

// WarningComment renders a Warning marker block.
func WarningComment(prefix, indent, description, snippet, action string) string {
	return Comment(Warning, prefix, indent, description, snippet, action)
}

// Count reports how many marker lines of the given kind appear in code.
func Count(code, kind string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.Contains(line, kind+"(") {
			n++
		}
	}
	return n
}
