package cleaning

import (
	"errors"
	"testing"

	"gotidy/domain/core"
	"gotidy/domain/table"
)

func tableFromJSON(t *testing.T, src string) *table.Table {
	t.Helper()
	var tbl table.Table
	if err := tbl.UnmarshalJSON([]byte(src)); err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return &tbl
}

func TestHandleMissingUnknownStrategy(t *testing.T) {
	tbl := tableFromJSON(t, `[{"a":1}]`)
	_, err := HandleMissing(tbl, MissingStrategy("interpolate"), nil)
	if !errors.Is(err, core.ErrUnknownFillStrategy) {
		t.Fatalf("expected ErrUnknownFillStrategy, got %v", err)
	}
}

func TestHandleMissingDropRows(t *testing.T) {
	tbl := tableFromJSON(t, `[{"a":1,"b":"x"},{"a":null,"b":"y"},{"a":3,"b":null}]`)

	out, err := HandleMissing(tbl, MissingDropRows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumRows() != 1 {
		t.Fatalf("expected 1 surviving row, got %d", out.NumRows())
	}

	// Restricting to a column subset keeps rows that are null elsewhere.
	out, err = HandleMissing(tbl, MissingDropRows, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("expected 2 surviving rows with subset, got %d", out.NumRows())
	}
}

func TestHandleMissingDropColumns(t *testing.T) {
	tbl := tableFromJSON(t, `[{"a":1,"b":null},{"a":2,"b":"y"}]`)
	out, err := HandleMissing(tbl, MissingDropColumns, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.HasColumn("b") || !out.HasColumn("a") {
		t.Errorf("expected only column a to survive, got %v", out.Columns)
	}
}

func TestHandleMissingMeanFill(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":10},{"v":null},{"v":20}]`)
	out, err := HandleMissing(tbl, MissingMeanFill, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := out.Cell(1, "v").Float64()
	if !ok || f != 15 {
		t.Errorf("expected mean fill 15, got %v", out.Cell(1, "v"))
	}
}

func TestHandleMissingMeanFillSkipsNonNumeric(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":"a"},{"v":null}]`)
	out, err := HandleMissing(tbl, MissingMeanFill, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Cell(1, "v").IsNull() {
		t.Error("mean fill must leave non-numeric columns alone")
	}
}

func TestHandleMissingModeFill(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":"x"},{"v":"y"},{"v":"x"},{"v":null}]`)
	out, err := HandleMissing(tbl, MissingModeFill, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Cell(3, "v").StringValue(); got != "x" {
		t.Errorf("expected mode fill x, got %q", got)
	}
}

func TestDirectionalFill(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":null},{"v":"a"},{"v":null},{"v":"b"},{"v":null}]`)

	ff, err := HandleMissing(tbl, MissingForwardFill, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ff.Cell(0, "v").IsNull() {
		t.Error("ffill has nothing to carry into the first row")
	}
	if got := ff.Cell(2, "v").StringValue(); got != "a" {
		t.Errorf("ffill row 2: expected a, got %q", got)
	}
	if got := ff.Cell(4, "v").StringValue(); got != "b" {
		t.Errorf("ffill row 4: expected b, got %q", got)
	}

	bf, err := HandleMissing(tbl, MissingBackwardFill, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := bf.Cell(0, "v").StringValue(); got != "a" {
		t.Errorf("bfill row 0: expected a, got %q", got)
	}
	if !bf.Cell(4, "v").IsNull() {
		t.Error("bfill has nothing to carry into the last row")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	tbl := tableFromJSON(t, `[{"a":1,"b":"x"},{"a":1,"b":"x"},{"a":1,"b":"y"}]`)
	out := RemoveDuplicates(tbl)
	if out.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.NumRows())
	}
	if got := out.Cell(1, "b").StringValue(); got != "y" {
		t.Errorf("first occurrence wins; row 1 should be y, got %q", got)
	}
}

func TestHandleOutliersUnknownStrategy(t *testing.T) {
	tbl := tableFromJSON(t, `[{"a":1}]`)
	_, err := HandleOutliers(tbl, OutlierStrategy("winsorize"), nil)
	if !errors.Is(err, core.ErrUnknownOutlierStrategy) {
		t.Fatalf("expected ErrUnknownOutlierStrategy, got %v", err)
	}
}

func TestHandleOutliersIQRClip(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":1},{"v":2},{"v":3},{"v":4},{"v":1000}]`)
	out, err := HandleOutliers(tbl, OutlierIQRClip, nil)
	if err != nil {
		t.Fatal(err)
	}
	clipped, _ := out.Cell(4, "v").Float64()
	if clipped >= 1000 {
		t.Errorf("outlier should be clipped, got %v", clipped)
	}
	first, _ := out.Cell(0, "v").Float64()
	if first != 1 {
		t.Errorf("in-range value must not move, got %v", first)
	}
}

func TestHandleOutliersZScoreMedian(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":10},{"v":1000}]`)
	out, err := HandleOutliers(tbl, OutlierZScoreMedian, nil)
	if err != nil {
		t.Fatal(err)
	}
	replaced, _ := out.Cell(10, "v").Float64()
	if replaced != 10 {
		t.Errorf("extreme value should be replaced by the median, got %v", replaced)
	}
}

func TestCleanStrings(t *testing.T) {
	tbl := tableFromJSON(t, `[{"s":"  Hello "},{"s":"   "},{"s":null},{"s":42}]`)
	out := CleanStrings(tbl, nil)

	if got := out.Cell(0, "s").StringValue(); got != "hello" {
		t.Errorf("expected trimmed lowercase, got %q", got)
	}
	if !out.Cell(1, "s").IsNull() {
		t.Error("blank string should become null")
	}
	if f, ok := out.Cell(3, "s").Float64(); !ok || f != 42 {
		t.Error("non-string scalars pass through untouched")
	}
}

func TestCleaningDoesNotMutateInput(t *testing.T) {
	tbl := tableFromJSON(t, `[{"v":10},{"v":null},{"v":1000}]`)
	before := tbl.Clone()

	if _, err := HandleMissing(tbl, MissingMeanFill, nil); err != nil {
		t.Fatal(err)
	}
	RemoveDuplicates(tbl)
	if _, err := HandleOutliers(tbl, OutlierIQRClip, nil); err != nil {
		t.Fatal(err)
	}
	CleanStrings(tbl, nil)

	if !tbl.Equal(before) {
		t.Error("a cleaning transform mutated its input")
	}
}
