// Package validate is the post-emit safety net: static sanity checks over
// emitted code, run after emission and never consulted by it. Emission
// produces best-effort output; validation catches regressions and reports
// them alongside the output instead of failing the conversion.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/scan"
)

// IssueType classifies a validation issue.
type IssueType string

const (
	IssueUnbalanced        IssueType = "unbalancedBrackets"
	IssueDanglingReference IssueType = "danglingReference"
	IssueMalformedImport   IssueType = "malformedImport"
	IssueEmptyTestBody     IssueType = "emptyTestBody"
)

// Issue is one validation finding. Line is 1-based, zero for whole-file
// issues.
type Issue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
	Line    int       `json:"line,omitempty"`
}

// Result lists every issue found. Valid is true iff Issues is empty.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// denylist maps a target framework to patterns that must not survive in its
// output: the source framework's namespace showing through means a rewrite
// phase missed something.
var denylist = map[string][]*regexp.Regexp{
	"playwright": {
		regexp.MustCompile(`\bcy\.\w+`),
		regexp.MustCompile(`\bCypress\.\w+`),
	},
	"cypress": {
		regexp.MustCompile(`\bpage\.\w+`),
		regexp.MustCompile(`@playwright/test`),
	},
	"vitest": {
		regexp.MustCompile(`\bjest\.\w+`),
		regexp.MustCompile(`@jest/globals`),
	},
	"jest": {
		regexp.MustCompile(`\bvi\.\w+`),
		regexp.MustCompile(`\bvitest\b`),
	},
	"junit5": {
		regexp.MustCompile(`\borg\.junit\.Assert\b`),
		regexp.MustCompile(`\borg\.testng\b`),
		regexp.MustCompile(`@RunWith\b`),
	},
	"junit4": {
		regexp.MustCompile(`\borg\.junit\.jupiter\b`),
	},
	"testng": {
		regexp.MustCompile(`\borg\.junit\b`),
	},
	"unittest": {
		regexp.MustCompile(`\bpytest\.\w+`),
		regexp.MustCompile(`@pytest\.`),
	},
	"pytest": {
		regexp.MustCompile(`\bself\.assert\w+\s*\(`),
	},
}

// emptyBodyPatterns match test declarations with empty bodies.
var emptyBodyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:it|test)\s*\(\s*['"][^'"]*['"]\s*,\s*(?:async\s*)?\(\s*\)\s*=>\s*\{\s*\}\s*\)`),
	regexp.MustCompile(`\b(?:it|test)\s*\(\s*['"][^'"]*['"]\s*,\s*function\s*\(\s*\)\s*\{\s*\}\s*\)`),
}

// Validator checks emitted output for one target framework.
type Validator struct {
	target string
	syntax scan.Syntax
}

// New returns a validator for the given target framework name and language
// syntax.
func New(target string, syntax scan.Syntax) *Validator {
	return &Validator{target: strings.ToLower(target), syntax: syntax}
}

// Validate runs every check over the emitted code. It is pure: validating the
// same string twice yields identical issue lists.
func (v *Validator) Validate(code string) Result {
	var issues []Issue
	issues = append(issues, v.checkBalance(code)...)
	issues = append(issues, v.checkDangling(code)...)
	issues = append(issues, v.checkImports(code)...)
	issues = append(issues, v.checkEmptyBodies(code)...)
	return Result{Valid: len(issues) == 0, Issues: issues}
}

func (v *Validator) checkBalance(code string) []Issue {
	var issues []Issue
	for _, imb := range scan.Balance(code, v.syntax) {
		detail := "unclosed"
		if imb.Delta < 0 {
			detail = "extra closing"
		}
		issues = append(issues, Issue{
			Type:    IssueUnbalanced,
			Message: fmt.Sprintf("unbalanced %s: %d %s", imb.Symbol, abs(imb.Delta), detail),
		})
	}
	return issues
}

// checkDangling flags source-framework namespace references that should not
// appear in this target's output. String literals and comments are exempt;
// quoting the old API in a message is fine, calling it is not.
func (v *Validator) checkDangling(code string) []Issue {
	patterns := denylist[v.target]
	if len(patterns) == 0 {
		return nil
	}
	var issues []Issue
	sc := scan.New(v.syntax)
	for i, line := range strings.Split(code, "\n") {
		info := sc.Line(line)
		if info.OpenComment || info.OpenString {
			continue
		}
		for _, re := range patterns {
			if m := re.FindString(info.Code); m != "" {
				issues = append(issues, Issue{
					Type:    IssueDanglingReference,
					Message: fmt.Sprintf("reference to source framework remains: %q", m),
					Line:    i + 1,
				})
			}
		}
	}
	return issues
}

var (
	esImportRe     = regexp.MustCompile(`^\s*import\b`)
	importSourceRe = regexp.MustCompile(`from\s+['"]([^'"]*)['"]`)
)

func (v *Validator) checkImports(code string) []Issue {
	var issues []Issue
	for i, line := range strings.Split(code, "\n") {
		if !esImportRe.MatchString(line) {
			continue
		}
		if strings.Count(line, " from ") > 1 {
			issues = append(issues, Issue{
				Type:    IssueMalformedImport,
				Message: "import statement has more than one 'from' clause",
				Line:    i + 1,
			})
			continue
		}
		if m := importSourceRe.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) == "" {
			issues = append(issues, Issue{
				Type:    IssueMalformedImport,
				Message: "import statement has an empty module source",
				Line:    i + 1,
			})
		}
	}
	return issues
}

func (v *Validator) checkEmptyBodies(code string) []Issue {
	var issues []Issue
	sc := scan.New(v.syntax)
	for i, line := range strings.Split(code, "\n") {
		info := sc.Line(line)
		for _, re := range emptyBodyPatterns {
			if re.MatchString(info.Code) {
				issues = append(issues, Issue{
					Type:    IssueEmptyTestBody,
					Message: "test declared with an empty body",
					Line:    i + 1,
				})
				break
			}
		}
	}
	return issues
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
