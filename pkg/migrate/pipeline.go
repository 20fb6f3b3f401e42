package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/normalize"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
	"github.com/pmclSF/hamlet/pkg/migrate/scan"
	"github.com/pmclSF/hamlet/pkg/migrate/validate"
)

// Engine runs conversions against a resolved set of dependencies. A single
// conversion is a pure, synchronous computation: same inputs, same outputs,
// no hidden state. Engines are safe for concurrent use because adapters hold
// no mutable cross-call state.
type Engine struct {
	opts       Options
	logger     *slog.Logger
	registry   *registry.Registry
	normalizer normalize.Normalizer
}

// New validates options and returns an Engine with defaults filled in.
func New(opts Options) (*Engine, error) {
	switch opts.Emitter {
	case "", EmitterLegacy, EmitterIRPatch, EmitterIRFull:
	default:
		return nil, fmt.Errorf("%w: unknown emitter mode %q", ErrConfigValidation, opts.Emitter)
	}
	if opts.Emitter == "" {
		opts.Emitter = EmitterIRPatch
	}
	if opts.Hooks == nil {
		opts.Hooks = &NoOpHooks{}
	}
	logger := slog.New(handlerOrDiscard(opts.Logger)).With(slog.String("component", "engine"))
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	norm := opts.Normalizer
	if norm == nil {
		norm = normalize.New(opts.DefaultEncoding)
	}
	return &Engine{opts: opts, logger: logger, registry: reg, normalizer: norm}, nil
}

// Convert runs the full pipeline for one source file: normalize, detect,
// parse, transform, emit, validate, score. Only an unknown framework name or
// a detection mismatch fails the call; every other concern is reported in the
// result. No partial file is ever silently dropped: every input line has some
// representation in the output.
func Convert(source, from, to string, opts *Options) (Result, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	eng, err := New(o)
	if err != nil {
		return Result{}, err
	}
	return eng.Convert(source, from, to)
}

// Convert implements the conversion pipeline. See the package-level Convert.
func (e *Engine) Convert(source, from, to string) (Result, error) {
	src, err := e.resolve(from)
	if err != nil {
		return Result{}, fmt.Errorf("source: %w", err)
	}
	tgt, err := e.resolve(to)
	if err != nil {
		return Result{}, fmt.Errorf("target: %w", err)
	}
	e.logger.Debug("conversion started",
		slog.String("from", src.Name), slog.String("to", tgt.Name),
		slog.String("emitter", string(e.opts.Emitter)))

	norm := e.normalizer.Normalize([]byte(source), syntaxFor(src.Language))
	text := norm.Normalized

	// Empty input converts trivially at full confidence; this supports
	// round-trip and smoke testing. Binary input yields empty output plus
	// the binary issue, not an error.
	if text == "" {
		rep := reportFromTally(ir.Tally{}, nil)
		rep.NormalizationIssues = norm.Issues
		rep.Details["sourceFramework"] = src.Name
		rep.Details["targetFramework"] = tgt.Name
		if hasIssue(norm.Issues, normalize.IssueBinary) {
			rep.Confidence = 0
			rep.Level = levelFor(0)
		}
		return Result{Code: "", Report: rep}, nil
	}

	score := clampScore(src.Detect(text))
	if score == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrDetectionMismatch, src.Name)
	}

	file := src.Parse(text)
	warnings := transform(file, src, tgt)

	code, coverage := e.emit(file, text, src, tgt)

	report := reportFromTally(ir.CountConfidence(file), warnings)
	report.IRCoverage = coverage
	report.NormalizationIssues = norm.Issues
	report.Details["sourceFramework"] = src.Name
	report.Details["targetFramework"] = tgt.Name
	report.Details["detectionScore"] = score
	report.Details["emitter"] = string(e.opts.Emitter)

	if !e.opts.SkipValidation {
		res := validate.New(tgt.Name, syntaxFor(tgt.Language)).Validate(code)
		report.ValidationIssues = res.Issues
	}

	e.logger.Debug("conversion finished",
		slog.Int("confidence", report.Confidence),
		slog.Int("unconvertible", report.Unconvertible))
	return Result{Code: code, Report: report}, nil
}

// emit dispatches to the selected emission strategy. Paradigm-changing and
// cross-language pairs always go through tree-walk synthesis when the target
// provides one; a source-text rewrite cannot restructure containers.
func (e *Engine) emit(file *ir.TestFile, text string, src, tgt *registry.Definition) (string, float64) {
	crossStructure := src.Paradigm != tgt.Paradigm || !strings.EqualFold(src.Language, tgt.Language)
	mode := e.opts.Emitter
	if crossStructure && tgt.EmitTree != nil {
		mode = EmitterIRFull
	}
	switch mode {
	case EmitterLegacy:
		if tgt.Rewrite != nil {
			return tgt.Rewrite(text), 0
		}
		return tgt.Emit(nil, text), 0
	case EmitterIRFull:
		if tgt.EmitTree != nil {
			return tgt.EmitTree(file), treeCoverage(file)
		}
		return tgt.Emit(file, text), 0
	default:
		return tgt.Emit(file, text), 0
	}
}

// resolve looks up an adapter by name plus the optional language hint. A hint
// that matches nothing falls back to any-language so that a caller converting
// "selenium" python files can still name a target that exists only once.
func (e *Engine) resolve(name string) (*registry.Definition, error) {
	if def := e.registry.Get(name, e.opts.Language); def != nil {
		return def, nil
	}
	if e.opts.Language != "" {
		if def := e.registry.Get(name, ""); def != nil {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, name)
}

// treeCoverage reports the fraction of nodes a tree emitter can express:
// everything except unconvertible nodes.
func treeCoverage(file *ir.TestFile) float64 {
	t := ir.CountConfidence(file)
	total := t.Total()
	if total == 0 {
		return 1.0
	}
	return float64(total-t.Unconvertible) / float64(total)
}

// syntaxFor maps an adapter language to its scanner syntax.
func syntaxFor(language string) scan.Syntax {
	if strings.EqualFold(language, "python") {
		return scan.PythonLike
	}
	return scan.CLike
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func hasIssue(issues []normalize.Issue, t normalize.IssueType) bool {
	for _, iss := range issues {
		if iss.Type == t {
			return true
		}
	}
	return false
}

func handlerOrDiscard(h slog.Handler) slog.Handler {
	if h != nil {
		return h
	}
	return discardHandler{}
}

// discardHandler drops all records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

var (
	defaultRegistryOnce sync.Once
	defaultRegistryInst *registry.Registry
)

// DefaultRegistry returns the process-wide registry populated with the
// built-in adapters. Populated once; treated as read-only afterwards.
func DefaultRegistry() *registry.Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryInst = registry.New()
		registerBuiltins(defaultRegistryInst)
	})
	return defaultRegistryInst
}
