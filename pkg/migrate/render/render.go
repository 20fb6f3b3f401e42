// Package render serializes batch run reports for humans and machines:
// indented JSON, Markdown with optional YAML or TOML front matter, and a
// standalone HTML summary page.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

// FrontMatterFormat selects the Markdown front matter encoding.
type FrontMatterFormat string

const (
	FrontMatterNone FrontMatterFormat = ""
	FrontMatterYAML FrontMatterFormat = "yaml"
	FrontMatterTOML FrontMatterFormat = "toml"
)

// Options configures Markdown rendering.
type Options struct {
	FrontMatter FrontMatterFormat
}

// JSON renders the report as indented JSON.
func JSON(report *migrate.RunReport) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return append(out, '\n'), nil
}

// frontMatter is the metadata block prepended to Markdown reports.
type frontMatter struct {
	Title         string  `yaml:"title" toml:"title"`
	Source        string  `yaml:"source" toml:"source"`
	Target        string  `yaml:"target" toml:"target"`
	Generated     string  `yaml:"generated" toml:"generated"`
	SchemaVersion string  `yaml:"schemaVersion" toml:"schemaVersion"`
	AvgConfidence float64 `yaml:"avgConfidence" toml:"avgConfidence"`
	GitBranch     string  `yaml:"gitBranch,omitempty" toml:"gitBranch,omitempty"`
	GitCommit     string  `yaml:"gitCommit,omitempty" toml:"gitCommit,omitempty"`
}

// Markdown renders the report as a Markdown document: optional front matter,
// the summary line, a per-file table, then skip and error sections when
// non-empty.
func Markdown(report *migrate.RunReport, opts Options) ([]byte, error) {
	var b bytes.Buffer
	s := report.Summary

	if opts.FrontMatter != FrontMatterNone {
		fm := frontMatter{
			Title:         "Test migration report",
			Source:        s.SourceFramework,
			Target:        s.TargetFramework,
			Generated:     s.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			SchemaVersion: s.SchemaVersion,
			AvgConfidence: s.AvgConfidence,
			GitBranch:     s.GitBranch,
			GitCommit:     s.GitCommit,
		}
		if err := writeFrontMatter(&b, fm, opts.FrontMatter); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(&b, "# Migration report: %s to %s\n\n", s.SourceFramework, s.TargetFramework)
	fmt.Fprintf(&b, "%s\n\n", s.String())

	if len(report.Files) > 0 {
		b.WriteString("| File | Confidence | Level | Unconvertible |\n")
		b.WriteString("| --- | ---: | --- | ---: |\n")
		for _, f := range report.Files {
			fmt.Fprintf(&b, "| %s | %d%% | %s | %d |\n",
				f.Path, f.Report.Confidence, f.Report.Level, f.Report.Unconvertible)
		}
		b.WriteString("\n")
	}
	if len(report.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, sk := range report.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", sk.Path, sk.Reason)
		}
		b.WriteString("\n")
	}
	if len(report.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s: %s\n", e.Path, e.Error)
		}
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

func writeFrontMatter(b *bytes.Buffer, fm frontMatter, format FrontMatterFormat) error {
	switch format {
	case FrontMatterYAML:
		b.WriteString("---\n")
		enc := yaml.NewEncoder(b)
		enc.SetIndent(2)
		if err := enc.Encode(fm); err != nil {
			return fmt.Errorf("render front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("render front matter: %w", err)
		}
		b.WriteString("---\n\n")
	case FrontMatterTOML:
		b.WriteString("+++\n")
		if err := toml.NewEncoder(b).Encode(fm); err != nil {
			return fmt.Errorf("render front matter: %w", err)
		}
		b.WriteString("+++\n\n")
	default:
		return fmt.Errorf("render front matter: unknown format %q", format)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Parse(strings.TrimSpace(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Migration report: {{.Summary.SourceFramework}} to {{.Summary.TargetFramework}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
.low { color: #b00; }
.excellent { color: #080; }
</style>
</head>
<body>
<h1>Migration report: {{.Summary.SourceFramework}} to {{.Summary.TargetFramework}}</h1>
<p>{{.Summary.String}}</p>
{{if .Files}}
<table>
<tr><th>File</th><th>Confidence</th><th>Level</th><th>Unconvertible</th></tr>
{{range .Files}}
<tr><td>{{.Path}}</td><td>{{.Report.Confidence}}%</td><td class="{{.Report.Level}}">{{.Report.Level}}</td><td>{{.Report.Unconvertible}}</td></tr>
{{end}}
</table>
{{end}}
{{if .Errors}}
<h2>Errors</h2>
<ul>
{{range .Errors}}<li>{{.Path}}: {{.Error}}</li>{{end}}
</ul>
{{end}}
</body>
</html>
`)))

// HTML renders the report as a standalone summary page.
func HTML(report *migrate.RunReport) ([]byte, error) {
	var b bytes.Buffer
	if err := htmlTemplate.Execute(&b, report); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return b.Bytes(), nil
}
