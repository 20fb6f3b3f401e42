// Package detect identifies which test framework a source file belongs to,
// independently of any single adapter's own detect heuristic. It is used for
// candidate ranking, cross-checking an adapter's claim, and picking a source
// framework automatically during project scans.
//
// Content detection is a three-tier weighted classifier; the winner's score is
// normalized against the sum of all frameworks' scores, so confidence reflects
// relative dominance rather than absolute match count. Path detection is a
// separate, lower-ceiling signal, and Combine blends the two.
package detect

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
)

// Tier weights and path-detection ceilings. Empirically tuned calibration
// knobs; the algorithm's shape (tiered weights, relative normalization) is
// the contract, not these exact numbers.
const (
	weightCommand = 2  // per occurrence, repeatable
	weightImport  = 10 // boolean
	weightKeyword = 3  // boolean

	filePatternConfidence = 0.7
	configFileConfidence  = 0.9
	agreementBoost        = 0.1
)

// Signals is the per-framework pattern table.
type Signals struct {
	Language string
	// Commands matches framework-specific call sites; each occurrence scores.
	Commands []*regexp.Regexp
	// Imports matches the framework's import/require lines; scores once.
	Imports []*regexp.Regexp
	// Keywords matches weaker shared vocabulary; scores once.
	Keywords []*regexp.Regexp
	// FilePatterns are doublestar globs for test file naming conventions.
	FilePatterns []string
	// ConfigFiles are doublestar globs for the framework's config files.
	ConfigFiles []string
}

// Result is one detection outcome. Confidence is in [0,1].
type Result struct {
	Framework  string  `json:"framework"`
	Confidence float64 `json:"confidence"`
}

// Detector scores sources and paths against its framework signal tables.
// Tables are immutable after construction; a Detector is safe for concurrent
// use.
type Detector struct {
	signals map[string]Signals
	logger  *slog.Logger
}

// New returns a Detector over the built-in signal tables.
func New(handler slog.Handler) *Detector {
	return NewWithSignals(handler, builtinSignals)
}

// NewWithSignals returns a Detector over a caller-supplied table. The map is
// used as-is and must not be mutated afterwards.
func NewWithSignals(handler slog.Handler, signals map[string]Signals) *Detector {
	var logger *slog.Logger
	if handler != nil {
		logger = slog.New(handler).With(slog.String("component", "detector"))
	} else {
		logger = slog.New(discardHandler{})
	}
	return &Detector{signals: signals, logger: logger}
}

// Frameworks lists the frameworks the detector knows, sorted.
func (d *Detector) Frameworks() []string {
	out := make([]string, 0, len(d.signals))
	for name := range d.signals {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ScoreContent returns the raw weighted score per framework for the source.
func (d *Detector) ScoreContent(source string) map[string]int {
	scores := make(map[string]int, len(d.signals))
	for name, sig := range d.signals {
		score := 0
		for _, re := range sig.Commands {
			score += weightCommand * len(re.FindAllStringIndex(source, -1))
		}
		for _, re := range sig.Imports {
			if re.MatchString(source) {
				score += weightImport
			}
		}
		for _, re := range sig.Keywords {
			if re.MatchString(source) {
				score += weightKeyword
			}
		}
		scores[name] = score
	}
	return scores
}

// DetectContent classifies the source, returning the dominant framework and
// a confidence normalized against the total score across all frameworks.
// An empty or signal-free source yields an empty Result.
func (d *Detector) DetectContent(source string) Result {
	scores := d.ScoreContent(source)
	total := 0
	best, bestScore := "", 0
	for name, score := range scores {
		total += score
		if score > bestScore || (score == bestScore && score > 0 && name < best) {
			best, bestScore = name, score
		}
	}
	if bestScore == 0 || total == 0 {
		return Result{}
	}
	res := Result{Framework: best, Confidence: float64(bestScore) / float64(total)}
	d.logger.Debug("content detection", slog.String("framework", res.Framework), slog.Float64("confidence", res.Confidence))
	return res
}

// DetectPath classifies by file naming and config-file conventions alone.
// Config files outrank file patterns; both sit below content agreement.
func (d *Detector) DetectPath(path string) Result {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(slashed)
	var best Result
	for name, sig := range d.signals {
		for _, pattern := range sig.ConfigFiles {
			if matchGlob(pattern, slashed, base) && configFileConfidence > best.Confidence {
				best = Result{Framework: name, Confidence: configFileConfidence}
			}
		}
		for _, pattern := range sig.FilePatterns {
			if matchGlob(pattern, slashed, base) && filePatternConfidence > best.Confidence {
				best = Result{Framework: name, Confidence: filePatternConfidence}
			}
		}
	}
	return best
}

// Combine blends a content result with a path result: agreement boosts
// confidence (capped at 1.0); disagreement keeps whichever single source is
// more confident.
func Combine(content, path Result) Result {
	switch {
	case content.Framework == "" && path.Framework == "":
		return Result{}
	case content.Framework == "":
		return path
	case path.Framework == "":
		return content
	case content.Framework == path.Framework:
		conf := content.Confidence
		if path.Confidence > conf {
			conf = path.Confidence
		}
		conf += agreementBoost
		if conf > 1.0 {
			conf = 1.0
		}
		return Result{Framework: content.Framework, Confidence: conf}
	case path.Confidence > content.Confidence:
		return path
	default:
		return content
	}
}

// Language identifies the programming language of the content, lowercased,
// used as the registry's language hint for same-named frameworks. Empty when
// undetectable.
func Language(content []byte, path string) string {
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" && lang != "Text" {
		return strings.ToLower(lang)
	}
	if lang, safe := enry.GetLanguageByExtension(path); safe && lang != "" && lang != "Text" {
		return strings.ToLower(lang)
	}
	return ""
}

func matchGlob(pattern, slashed, base string) bool {
	if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// discardHandler drops all records; used when no handler is injected.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
