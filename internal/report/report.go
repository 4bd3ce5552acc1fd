// Package report assembles the analysis report: a markdown document built
// from the structural analysis, profile, quality score and conversion
// summary, rendered to a standalone HTML page.
package report

import (
	"fmt"
	"strings"
	"time"

	"gotidy/domain/core"
	"gotidy/domain/tidy"
	"gotidy/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Report is a rendered analysis report.
type Report struct {
	ID          core.ReportID `json:"id"`
	Title       string        `json:"title"`
	GeneratedAt time.Time     `json:"generated_at"`
	Markdown    string        `json:"markdown"`
	HTML        string        `json:"html"`
}

// ConversionSummary records what a conversion did to the table shape.
type ConversionSummary struct {
	Strategy      tidy.Strategy `json:"strategy"`
	InputRows     int           `json:"input_rows"`
	OutputRows    int           `json:"output_rows"`
	InputColumns  int           `json:"input_columns"`
	OutputColumns int           `json:"output_columns"`
}

// Input carries the sections to include; nil sections are skipped.
type Input struct {
	Title      string
	Analysis   *tidy.StructuralAnalysis
	Profile    *profiling.TableProfile
	Quality    *profiling.QualityReport
	Conversion *ConversionSummary
}

// Generate builds the markdown report and renders it to HTML.
func Generate(in Input) *Report {
	title := in.Title
	if title == "" {
		title = "Data Analysis Report"
	}
	now := time.Now()

	md := buildMarkdown(title, now, in)
	return &Report{
		ID:          core.ReportID(core.NewID()),
		Title:       title,
		GeneratedAt: now,
		Markdown:    md,
		HTML:        renderHTML(title, md),
	}
}

func buildMarkdown(title string, now time.Time, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format(time.RFC3339))

	if in.Analysis != nil {
		writeAnalysisSection(&b, in.Analysis)
	}
	if in.Quality != nil {
		writeQualitySection(&b, in.Quality)
	}
	if in.Profile != nil {
		writeProfileSection(&b, in.Profile)
	}
	if in.Conversion != nil {
		writeConversionSection(&b, in.Conversion)
	}
	return b.String()
}

func writeAnalysisSection(b *strings.Builder, a *tidy.StructuralAnalysis) {
	b.WriteString("## Structure\n\n")
	fmt.Fprintf(b, "- Rows: %d\n", a.TotalRows)
	fmt.Fprintf(b, "- Columns: %d\n", a.TotalColumns)
	fmt.Fprintf(b, "- Dict columns: %s\n", columnList(a.DictColumns))
	fmt.Fprintf(b, "- Array columns: %s\n", columnList(a.ArrayColumns))
	fmt.Fprintf(b, "- Simple columns: %s\n", columnList(a.SimpleColumns))
	fmt.Fprintf(b, "- Recommended strategy: `%s` (%s)\n\n",
		a.RecommendedStrategy, a.RecommendedStrategy.Description())
}

func writeQualitySection(b *strings.Builder, q *profiling.QualityReport) {
	b.WriteString("## Data Quality\n\n")
	fmt.Fprintf(b, "**Score: %.1f / 100**\n\n", q.Score)
	fmt.Fprintf(b, "- Missing cells: %.1f%%\n", q.MissingRatio*100)
	fmt.Fprintf(b, "- Duplicate rows: %.1f%%\n", q.DuplicateRatio*100)
	fmt.Fprintf(b, "- Numeric column share: %.1f%%\n", q.NumericColumnRatio*100)
	fmt.Fprintf(b, "- Outlier penalty: %.1f\n\n", q.OutlierPenalty)
}

func writeProfileSection(b *strings.Builder, p *profiling.TableProfile) {
	b.WriteString("## Column Profiles\n\n")
	b.WriteString("| Column | Type | Non-null | Missing | Unique | Mean | Std | Min | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, cp := range p.Columns {
		if cp.Numeric != nil {
			fmt.Fprintf(b, "| %s | %s | %d | %d | %d | %.4g | %.4g | %.4g | %.4g |\n",
				cp.Name, cp.Type, cp.NonNullCount, cp.MissingCount, cp.UniqueCount,
				cp.Numeric.Mean, cp.Numeric.StdDev, cp.Numeric.Min, cp.Numeric.Max)
		} else {
			fmt.Fprintf(b, "| %s | %s | %d | %d | %d | - | - | - | - |\n",
				cp.Name, cp.Type, cp.NonNullCount, cp.MissingCount, cp.UniqueCount)
		}
	}
	b.WriteString("\n")

	if p.Correlation != nil {
		b.WriteString("### Correlations\n\n")
		b.WriteString("| |")
		for _, c := range p.Correlation.Columns {
			fmt.Fprintf(b, " %s |", c)
		}
		b.WriteString("\n|---|")
		for range p.Correlation.Columns {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for i, c := range p.Correlation.Columns {
			fmt.Fprintf(b, "| %s |", c)
			for j := range p.Correlation.Columns {
				fmt.Fprintf(b, " %.3f |", p.Correlation.Values[i][j])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func writeConversionSection(b *strings.Builder, c *ConversionSummary) {
	b.WriteString("## Conversion\n\n")
	fmt.Fprintf(b, "- Strategy: `%s` (%s)\n", c.Strategy, c.Strategy.Description())
	fmt.Fprintf(b, "- Shape: %d×%d → %d×%d (rows×columns)\n\n",
		c.InputRows, c.InputColumns, c.OutputRows, c.OutputColumns)
}

func columnList(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return strings.Join(cols, ", ")
}

func renderHTML(title, md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }\n")
	b.WriteString("table { border-collapse: collapse; }\n")
	b.WriteString("th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
