package migrate

import (
	"fmt"
	"time"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/normalize"
	"github.com/pmclSF/hamlet/pkg/migrate/validate"
)

// ReportSchemaVersion identifies the JSON layout of RunReport.
const ReportSchemaVersion = "1.0"

// ConversionReport quantifies one file conversion. It is computed from the
// IR tree, independent of whatever text the emitter produced: the tree is
// walked, nodes are counted per confidence flag, and the score and level are
// derived from the counts. The root's flag is never hand-set.
type ConversionReport struct {
	Confidence    int                    `json:"confidence"`
	Converted     int                    `json:"converted"`
	Unconvertible int                    `json:"unconvertible"`
	Warnings      []string               `json:"warnings"`
	Details       map[string]interface{} `json:"details"`
	Level         ConfidenceLevel        `json:"level"`
	// IRCoverage is the fraction of IR nodes the tree-walk emitter
	// recognized; only set for tree-walk emission modes.
	IRCoverage float64 `json:"irCoverage,omitempty"`

	NormalizationIssues []normalize.Issue `json:"normalizationIssues,omitempty"`
	ValidationIssues    []validate.Issue  `json:"validationIssues,omitempty"`
}

// reportFromTally derives the score and level from per-flag node counts.
// An empty tree converts trivially at full confidence.
func reportFromTally(t ir.Tally, warnings []string) ConversionReport {
	score := 100
	if total := t.Total(); total > 0 {
		score = int((float64(t.Converted) + 0.5*float64(t.Warning)) / float64(total) * 100.0)
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ConversionReport{
		Confidence:    score,
		Converted:     t.Converted,
		Unconvertible: t.Unconvertible,
		Warnings:      warnings,
		Details:       map[string]interface{}{},
		Level:         levelFor(score),
	}
}

// Result is the outcome of one conversion: the emitted code plus its report.
type Result struct {
	Code   string           `json:"code"`
	Report ConversionReport `json:"report"`
}

// RunReport summarizes a batch conversion run.
type RunReport struct {
	Summary RunSummary   `json:"summary"`
	Files   []FileResult `json:"files"`
	Skipped []SkippedInfo `json:"skipped"`
	Errors  []ErrorInfo  `json:"errors"`
}

// RunSummary holds the aggregate statistics of a batch run.
type RunSummary struct {
	InputPath       string    `json:"inputPath"`
	OutputPath      string    `json:"outputPath"`
	SourceFramework string    `json:"sourceFramework"`
	TargetFramework string    `json:"targetFramework"`
	TotalFiles      int       `json:"totalFiles"`
	ConvertedCount  int       `json:"convertedCount"`
	SkippedCount    int       `json:"skippedCount"`
	ErrorCount      int       `json:"errorCount"`
	AvgConfidence   float64   `json:"avgConfidence"`
	FatalOccurred   bool      `json:"fatalError"`
	DurationSeconds float64   `json:"durationSeconds"`
	Concurrency     int       `json:"concurrency"`
	Timestamp       time.Time `json:"timestamp"`
	SchemaVersion   string    `json:"schemaVersion"`
	GitBranch       string    `json:"gitBranch,omitempty"`
	GitCommit       string    `json:"gitCommit,omitempty"`
}

// FileResult details one converted file within a batch run.
type FileResult struct {
	Path       string           `json:"path"`
	OutputPath string           `json:"outputPath"`
	Report     ConversionReport `json:"report"`
	DurationMs int64            `json:"durationMs"`
}

// SkippedInfo details a file intentionally skipped during a batch run.
type SkippedInfo struct {
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// ErrorInfo details a failed file within a batch run.
type ErrorInfo struct {
	Path    string `json:"path"`
	Error   string `json:"error"`
	IsFatal bool   `json:"isFatal"`
}

// String renders a one-line human summary.
func (s RunSummary) String() string {
	return fmt.Sprintf("%d files: %d converted, %d skipped, %d errors (avg confidence %.0f%%)",
		s.TotalFiles, s.ConvertedCount, s.SkippedCount, s.ErrorCount, s.AvgConfidence)
}
