// Package runner executes batch conversions: scan the input tree, convert
// each candidate on a bounded worker pool, write outputs mirroring the input
// layout, and assemble the run report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/pmclSF/hamlet/internal/cli/config"
	"github.com/pmclSF/hamlet/pkg/migrate"
	"github.com/pmclSF/hamlet/pkg/migrate/project"
)

// errStopRequested aborts the pool when onError is "stop".
var errStopRequested = errors.New("stopping after conversion error")

// Runner converts one file or a whole tree according to the CLI config.
type Runner struct {
	cfg    config.Config
	opts   migrate.Options
	engine *migrate.Engine
	logger *slog.Logger
	hooks  migrate.Hooks
}

// New builds a Runner. The engine is constructed once and shared by all
// workers; single conversions are pure so this is safe.
func New(cfg config.Config, opts migrate.Options, logger *slog.Logger) (*Runner, error) {
	if opts.Hooks == nil {
		opts.Hooks = &migrate.NoOpHooks{}
	}
	eng, err := migrate.New(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		cfg:    cfg,
		opts:   opts,
		engine: eng,
		logger: logger.With(slog.String("component", "runner")),
		hooks:  opts.Hooks,
	}, nil
}

// Run converts the configured input and returns the batch report. A non-nil
// error means the run itself could not proceed; individual file failures are
// recorded in the report instead.
func (r *Runner) Run(ctx context.Context) (*migrate.RunReport, error) {
	start := time.Now()

	info, err := os.Stat(r.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}

	var files []project.File
	if info.IsDir() {
		files, err = project.Scan(r.cfg.InputPath, project.ScanOptions{
			IgnorePatterns: r.cfg.Ignore,
			MaxFileSize:    r.cfg.MaxFileSize,
			Extensions:     r.extensions(),
			Logger:         r.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
	} else {
		abs, err := filepath.Abs(r.cfg.InputPath)
		if err != nil {
			return nil, err
		}
		files = []project.File{{Path: abs, RelativePath: filepath.Base(abs), Size: info.Size()}}
	}
	for _, f := range files {
		if err := r.hooks.OnFileDiscovered(f.Path); err != nil {
			return nil, fmt.Errorf("hook OnFileDiscovered: %w", err)
		}
	}
	r.logger.Info("run started",
		slog.Int("files", len(files)),
		slog.String("from", r.cfg.Source),
		slog.String("to", r.cfg.Target),
		slog.Int("concurrency", r.cfg.Concurrency))

	bar := r.progress(len(files))

	var (
		mu      sync.Mutex
		results []migrate.FileResult
		skipped []migrate.SkippedInfo
		errs    []migrate.ErrorInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, skip, convErr := r.convertOne(f)
			if bar != nil {
				_ = bar.Add(1)
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case convErr != nil:
				errs = append(errs, migrate.ErrorInfo{
					Path:    f.RelativePath,
					Error:   convErr.Error(),
					IsFatal: r.cfg.OnError == string(migrate.OnErrorStop),
				})
				r.logger.Error("conversion failed",
					slog.String("path", f.RelativePath), slog.Any("error", convErr))
				if r.cfg.OnError == string(migrate.OnErrorStop) {
					return errStopRequested
				}
			case skip != nil:
				skipped = append(skipped, *skip)
				r.logger.Debug("file skipped",
					slog.String("path", f.RelativePath), slog.String("reason", skip.Reason))
			default:
				results = append(results, res)
			}
			return nil
		})
	}
	runErr := g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	if runErr != nil && !errors.Is(runErr, errStopRequested) && !errors.Is(runErr, context.Canceled) {
		return nil, runErr
	}

	report := r.assemble(results, skipped, errs, time.Since(start))
	report.Summary.FatalOccurred = errors.Is(runErr, errStopRequested)
	if err := r.hooks.OnRunComplete(*report); err != nil {
		return report, fmt.Errorf("hook OnRunComplete: %w", err)
	}
	return report, nil
}

// convertOne runs the pipeline for a single file and writes the output.
// A detection mismatch is a skip, not an error: trees routinely mix
// framework test files with helpers.
func (r *Runner) convertOne(f project.File) (migrate.FileResult, *migrate.SkippedInfo, error) {
	started := time.Now()
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return migrate.FileResult{}, nil, fmt.Errorf("read: %w", err)
	}

	res, err := r.engine.Convert(string(raw), r.cfg.Source, r.cfg.Target)
	if err != nil {
		if errors.Is(err, migrate.ErrDetectionMismatch) {
			return migrate.FileResult{}, &migrate.SkippedInfo{
				Path:    f.RelativePath,
				Reason:  "detection mismatch",
				Details: err.Error(),
			}, nil
		}
		return migrate.FileResult{}, nil, err
	}

	outRel := r.outputRelPath(f.RelativePath)
	outPath := filepath.Join(r.cfg.OutputPath, outRel)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return migrate.FileResult{}, nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(res.Code), 0o644); err != nil {
		return migrate.FileResult{}, nil, fmt.Errorf("write output: %w", err)
	}

	fr := migrate.FileResult{
		Path:       f.RelativePath,
		OutputPath: outRel,
		Report:     res.Report,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err := r.hooks.OnFileConverted(f.Path, res.Report, time.Since(started)); err != nil {
		return migrate.FileResult{}, nil, fmt.Errorf("hook OnFileConverted: %w", err)
	}
	return fr, nil, nil
}

func (r *Runner) assemble(results []migrate.FileResult, skipped []migrate.SkippedInfo, errs []migrate.ErrorInfo, elapsed time.Duration) *migrate.RunReport {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })

	var confSum float64
	for _, fr := range results {
		confSum += float64(fr.Report.Confidence)
	}
	avg := 0.0
	if len(results) > 0 {
		avg = confSum / float64(len(results))
	}

	stamp := project.GitStamp(r.cfg.InputPath)
	return &migrate.RunReport{
		Summary: migrate.RunSummary{
			InputPath:       r.cfg.InputPath,
			OutputPath:      r.cfg.OutputPath,
			SourceFramework: r.cfg.Source,
			TargetFramework: r.cfg.Target,
			TotalFiles:      len(results) + len(skipped) + len(errs),
			ConvertedCount:  len(results),
			SkippedCount:    len(skipped),
			ErrorCount:      len(errs),
			AvgConfidence:   avg,
			DurationSeconds: elapsed.Seconds(),
			Concurrency:     r.cfg.Concurrency,
			Timestamp:       time.Now().UTC(),
			SchemaVersion:   migrate.ReportSchemaVersion,
			GitBranch:       stamp.Branch,
			GitCommit:       stamp.Commit,
		},
		Files:   results,
		Skipped: skipped,
		Errors:  errs,
	}
}

// progress returns a stderr progress bar, or nil when stderr is not a
// terminal or verbose logging would interleave with it.
func (r *Runner) progress(total int) *progressbar.ProgressBar {
	if r.cfg.Verbose || total == 0 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// extensions picks scan extensions from the source adapter's language so a
// python run does not chew through a repo's JavaScript.
func (r *Runner) extensions() []string {
	reg := r.opts.Registry
	if reg == nil {
		reg = migrate.DefaultRegistry()
	}
	def := reg.Get(r.cfg.Source, r.cfg.Language)
	if def == nil {
		return nil
	}
	return extensionsFor(def.Language)
}

func extensionsFor(language string) []string {
	switch strings.ToLower(language) {
	case "javascript", "typescript":
		return []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
	case "java":
		return []string{".java"}
	case "python":
		return []string{".py"}
	default:
		return nil
	}
}

// outputRelPath mirrors the input path, swapping the extension when the
// target framework lives in another language.
func (r *Runner) outputRelPath(rel string) string {
	reg := r.opts.Registry
	if reg == nil {
		reg = migrate.DefaultRegistry()
	}
	src := reg.Get(r.cfg.Source, r.cfg.Language)
	tgt := reg.Get(r.cfg.Target, "")
	if src == nil || tgt == nil || strings.EqualFold(src.Language, tgt.Language) {
		return rel
	}
	exts := extensionsFor(tgt.Language)
	if len(exts) == 0 {
		return rel
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + exts[0]
}
