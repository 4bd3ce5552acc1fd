package profiling

import (
	"math"
	"testing"

	"gotidy/domain/table"
)

func TestQualityScorePerfectTable(t *testing.T) {
	tbl := tableFromJSON(t, `[
		{"id":1,"name":"a"},
		{"id":2,"name":"b"},
		{"id":3,"name":"c"}
	]`)
	report := QualityScore(tbl)
	if report.Score != 100 {
		t.Errorf("clean table should score 100, got %v", report.Score)
	}
}

func TestQualityScoreMissingPenalty(t *testing.T) {
	// Half the cells are missing: 100 - 30*0.5 = 85.
	tbl := tableFromJSON(t, `[
		{"a":"x","b":null},
		{"a":null,"b":"y"}
	]`)
	report := QualityScore(tbl)
	if report.MissingRatio != 0.5 {
		t.Fatalf("expected missing ratio 0.5, got %v", report.MissingRatio)
	}
	if math.Abs(report.Score-85) > 1e-9 {
		t.Errorf("expected score 85, got %v", report.Score)
	}
}

func TestQualityScoreDuplicatePenalty(t *testing.T) {
	// 2 of 4 rows are duplicates: 100 - 20*0.5 = 90.
	tbl := tableFromJSON(t, `[
		{"a":"x"},{"a":"x"},{"a":"y"},{"a":"y"}
	]`)
	report := QualityScore(tbl)
	if report.DuplicateRatio != 0.5 {
		t.Fatalf("expected duplicate ratio 0.5, got %v", report.DuplicateRatio)
	}
	if math.Abs(report.Score-90) > 1e-9 {
		t.Errorf("expected score 90, got %v", report.Score)
	}
}

func TestQualityScoreNumericSkewPenalty(t *testing.T) {
	// All columns numeric (> 0.8 share) costs a flat 10 points.
	tbl := tableFromJSON(t, `[
		{"a":1,"b":2},
		{"a":2,"b":3},
		{"a":3,"b":4}
	]`)
	report := QualityScore(tbl)
	if report.NumericColumnRatio != 1 {
		t.Fatalf("expected numeric ratio 1, got %v", report.NumericColumnRatio)
	}
	if math.Abs(report.Score-90) > 1e-9 {
		t.Errorf("expected score 90, got %v", report.Score)
	}
}

func TestQualityScoreEmptyTable(t *testing.T) {
	report := QualityScore(table.New("a"))
	if report.Score != 0 {
		t.Errorf("empty table scores 0, got %v", report.Score)
	}
}

func TestQualityScoreNeverNegative(t *testing.T) {
	// A pathological table: duplicates, missing cells and outliers at once.
	tbl := tableFromJSON(t, `[
		{"a":1,"b":null},{"a":1,"b":null},{"a":1,"b":null},{"a":1,"b":null},
		{"a":1,"b":null},{"a":1,"b":null},{"a":1,"b":null},{"a":1000000,"b":null}
	]`)
	report := QualityScore(tbl)
	if report.Score < 0 {
		t.Errorf("score must not go negative, got %v", report.Score)
	}
}
