// Package cli glues configuration, the batch runner and report rendering
// together for the hamlet commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pmclSF/hamlet/internal/cli/config"
	"github.com/pmclSF/hamlet/internal/cli/runner"
	"github.com/pmclSF/hamlet/pkg/migrate"
	"github.com/pmclSF/hamlet/pkg/migrate/render"
)

// Run executes a batch conversion and emits the report in the configured
// format. Conversion errors inside the batch do not fail the command unless
// onError is "stop"; a fatal run returns an error so main can exit non-zero.
func Run(ctx context.Context, cfg config.Config, opts migrate.Options, logger *slog.Logger) error {
	r, err := runner.New(cfg, opts, logger)
	if err != nil {
		return err
	}
	report, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if err := emitReport(report, cfg); err != nil {
		return err
	}
	if report.Summary.FatalOccurred {
		return fmt.Errorf("run aborted: %d files failed", report.Summary.ErrorCount)
	}
	return nil
}

func emitReport(report *migrate.RunReport, cfg config.Config) error {
	switch cfg.ReportFormat {
	case "json":
		out, err := render.JSON(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	case "markdown":
		out, err := render.Markdown(report, render.Options{FrontMatter: render.FrontMatterFormat(cfg.FrontMatter)})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	case "html":
		out, err := render.HTML(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		printSummary(report)
		return nil
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// printSummary renders the human-readable per-file table and the run totals
// to stderr so stdout stays clean for machine-readable formats.
func printSummary(report *migrate.RunReport) {
	if len(report.Files) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("FILE", "CONFIDENCE", "LEVEL", "UNCONVERTIBLE")
		for _, fr := range report.Files {
			t.Row(fr.Path,
				strconv.Itoa(fr.Report.Confidence)+"%",
				string(fr.Report.Level),
				strconv.Itoa(fr.Report.Unconvertible))
		}
		fmt.Fprintln(os.Stderr, t.Render())
	}
	for _, sk := range report.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s (%s)\n", sk.Path, sk.Reason)
	}
	for _, e := range report.Errors {
		fmt.Fprintln(os.Stderr, lowStyle.Render("error "+e.Path+": "+e.Error))
	}
	style := okStyle
	if report.Summary.ErrorCount > 0 {
		style = lowStyle
	}
	fmt.Fprintln(os.Stderr, headerStyle.Render("Summary: ")+style.Render(report.Summary.String()))
}
