package table

import (
	"encoding/json"
	"testing"
)

func TestFromRecordsColumnOrder(t *testing.T) {
	tbl := FromRecords([][]Entry{
		{{Key: "b", Value: Number(1)}, {Key: "a", Value: Number(2)}},
		{{Key: "c", Value: Number(3)}, {Key: "a", Value: Number(4)}},
	})

	want := []string{"b", "a", "c"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %v", len(want), tbl.Columns)
	}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Errorf("column %d: expected %q, got %q", i, c, tbl.Columns[i])
		}
	}
}

func TestCellAbsentIsNull(t *testing.T) {
	tbl := FromRecords([][]Entry{
		{{Key: "a", Value: Number(1)}},
		{{Key: "b", Value: Number(2)}},
	})
	if !tbl.Cell(0, "b").IsNull() {
		t.Error("absent cell should read as null")
	}
	if !tbl.Cell(5, "a").IsNull() {
		t.Error("out-of-range row should read as null")
	}
	if !tbl.Cell(0, "missing").IsNull() {
		t.Error("unknown column should read as null")
	}
}

func TestRectangularize(t *testing.T) {
	tbl := FromRecords([][]Entry{
		{{Key: "a", Value: Number(1)}},
		{{Key: "a", Value: Number(2)}, {Key: "b", Value: Number(3)}},
	})
	rect := tbl.Rectangularize(Null())

	if _, ok := rect.Rows[0]["b"]; !ok {
		t.Error("rectangularized row should carry every column")
	}
	if !rect.Rows[0]["b"].IsNull() {
		t.Error("filled cell should be the fill value")
	}
	// Input untouched.
	if _, ok := tbl.Rows[0]["b"]; ok {
		t.Error("rectangularize mutated its input")
	}
}

func TestSampleNonNull(t *testing.T) {
	tbl := New("x")
	tbl.Rows = []Row{
		{"x": Null()},
		{"x": Number(1)},
		{"x": Null()},
		{"x": Number(2)},
		{"x": Number(3)},
	}
	sample := tbl.SampleNonNull("x", 2)
	if len(sample) != 2 {
		t.Fatalf("expected 2 sampled values, got %d", len(sample))
	}
	if f, _ := sample[0].Float64(); f != 1 {
		t.Errorf("first sampled value should be 1, got %v", sample[0])
	}
	if got := tbl.SampleNonNull("missing", 5); len(got) != 0 {
		t.Errorf("unknown column should sample empty, got %d values", len(got))
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	src := `{"columns":["id","info"],"records":[{"id":1,"info":{"b":2,"a":1}},{"id":2,"info":null}]}`

	var tbl Table
	if err := json.Unmarshal([]byte(src), &tbl); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if tbl.NumRows() != 2 || tbl.NumColumns() != 2 {
		t.Fatalf("unexpected shape %dx%d", tbl.NumRows(), tbl.NumColumns())
	}

	raw, err := json.Marshal(&tbl)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != src {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", raw, src)
	}
}

func TestTableUnmarshalBareArray(t *testing.T) {
	var tbl Table
	if err := json.Unmarshal([]byte(`[{"b":1,"a":2},{"c":3}]`), &tbl); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := []string{"b", "a", "c"}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Errorf("column %d: expected %q, got %q", i, c, tbl.Columns[i])
		}
	}
}

func TestTableUnmarshalRejectsNonArrayRecords(t *testing.T) {
	var tbl Table
	if err := json.Unmarshal([]byte(`{"records":{"a":1}}`), &tbl); err == nil {
		t.Error("object records should be rejected")
	}
	if err := json.Unmarshal([]byte(`{"columns":["a"]}`), &tbl); err == nil {
		t.Error("missing records should be rejected")
	}
}

func TestTableEqual(t *testing.T) {
	a := FromRecords([][]Entry{{{Key: "x", Value: Number(1)}}})
	b := FromRecords([][]Entry{{{Key: "x", Value: Number(1)}}})
	if !a.Equal(b) {
		t.Error("identical tables should be equal")
	}
	b.Rows[0]["x"] = Number(2)
	if a.Equal(b) {
		t.Error("differing cell should break equality")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := FromRecords([][]Entry{{{Key: "x", Value: Sequence(Number(1))}}})
	clone := orig.Clone()
	clone.Rows[0]["x"] = Null()
	if orig.Rows[0]["x"].IsNull() {
		t.Error("mutating the clone changed the original")
	}
}
