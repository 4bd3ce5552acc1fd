package report

import (
	"context"
	"strings"
	"testing"

	"gotidy/domain/table"
	"gotidy/domain/tidy"
	"gotidy/internal/profiling"
)

func buildProfile(t *testing.T, tbl *table.Table) *profiling.TableProfile {
	t.Helper()
	p, err := profiling.NewProfiler(2).ProfileTable(context.Background(), tbl)
	if err != nil {
		t.Fatalf("profiling failed: %v", err)
	}
	return p
}

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	var tbl table.Table
	err := tbl.UnmarshalJSON([]byte(`[
		{"x":1,"y":2,"name":"a"},
		{"x":2,"y":4,"name":"b"},
		{"x":3,"y":6,"name":"c"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	return &tbl
}

func TestGenerateFullReport(t *testing.T) {
	tbl := sampleTable(t)
	analysis := tidy.Analyze(tbl)
	quality := profiling.QualityScore(tbl)

	rep := Generate(Input{
		Title:    "Sales Data",
		Analysis: &analysis,
		Profile:  buildProfile(t, tbl),
		Quality:  &quality,
		Conversion: &ConversionSummary{
			Strategy:     tidy.StrategyPreserveStructure,
			InputRows:    3,
			OutputRows:   3,
			InputColumns: 3, OutputColumns: 3,
		},
	})

	if rep.ID == "" {
		t.Error("report should carry an ID")
	}
	if rep.Title != "Sales Data" {
		t.Errorf("unexpected title %q", rep.Title)
	}

	for _, section := range []string{
		"# Sales Data",
		"## Structure",
		"## Data Quality",
		"## Column Profiles",
		"### Correlations",
		"## Conversion",
	} {
		if !strings.Contains(rep.Markdown, section) {
			t.Errorf("markdown missing section %q", section)
		}
	}
	if !strings.Contains(rep.Markdown, "preserve_structure") {
		t.Error("conversion section should name the strategy")
	}

	if !strings.Contains(rep.HTML, "<table>") {
		t.Error("HTML should render markdown tables")
	}
	if !strings.Contains(rep.HTML, "<title>Sales Data</title>") {
		t.Error("HTML should carry the page title")
	}
}

func TestGenerateSkipsNilSections(t *testing.T) {
	rep := Generate(Input{})

	if rep.Title != "Data Analysis Report" {
		t.Errorf("expected default title, got %q", rep.Title)
	}
	for _, section := range []string{"## Structure", "## Data Quality", "## Column Profiles", "## Conversion"} {
		if strings.Contains(rep.Markdown, section) {
			t.Errorf("markdown should omit section %q", section)
		}
	}
}
