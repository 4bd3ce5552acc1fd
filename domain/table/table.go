package table

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Row maps column names to cell values. Columns absent from a row are treated
// as null until the table is rectangularized.
type Row map[string]Value

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Table is an ordered sequence of rows with a defined column order.
// Column identity is the column name. Tables are never mutated by the
// transforms in this module; every operation returns a new table.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// FromRecords builds a table from ordered records. The column order is the
// first-seen key order across records; each record's key order must therefore
// be meaningful (use ParseJSONTable for raw JSON input).
func FromRecords(records []([]Entry)) *Table {
	t := New()
	seen := make(map[string]bool)
	for _, record := range records {
		row := make(Row, len(record))
		for _, e := range record {
			if !seen[e.Key] {
				seen[e.Key] = true
				t.Columns = append(t.Columns, e.Key)
			}
			row[e.Key] = e.Value
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// HasColumn reports whether the table defines the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cell returns the value at (row, column), or null for absent cells.
func (t *Table) Cell(row int, column string) Value {
	if row < 0 || row >= len(t.Rows) {
		return Null()
	}
	if v, ok := t.Rows[row][column]; ok {
		return v
	}
	return Null()
}

// Column returns all values of the named column in row order, with null for
// absent cells.
func (t *Table) Column(name string) []Value {
	out := make([]Value, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.Cell(i, name))
	}
	return out
}

// AppendRow adds a row. Keys not yet present in Columns are appended to the
// column order in the iteration order of the provided entries.
func (t *Table) AppendRow(entries ...Entry) {
	row := make(Row, len(entries))
	for _, e := range entries {
		if !t.HasColumn(e.Key) {
			t.Columns = append(t.Columns, e.Key)
		}
		row[e.Key] = e.Value
	}
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

// Rectangularize returns a copy in which every row carries every column,
// filling absent cells with fill. The input is not modified.
func (t *Table) Rectangularize(fill Value) *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		filled := make(Row, len(t.Columns))
		for _, c := range t.Columns {
			if v, ok := row[c]; ok {
				filled[c] = v.Clone()
			} else {
				filled[c] = fill.Clone()
			}
		}
		out.Rows = append(out.Rows, filled)
	}
	return out
}

// SampleNonNull returns up to n non-null values of the column in row order.
// Structural classification inspects only such a bounded sample, so a column
// whose early rows look scalar may legitimately be classified simple even if
// later rows hold mappings.
func (t *Table) SampleNonNull(column string, n int) []Value {
	var sample []Value
	for i := range t.Rows {
		v := t.Cell(i, column)
		if v.IsNull() {
			continue
		}
		sample = append(sample, v)
		if len(sample) >= n {
			break
		}
	}
	return sample
}

// Equal compares two tables: same column order, same row count, and
// structurally equal cells.
func (t *Table) Equal(other *Table) bool {
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, c := range t.Columns {
		if other.Columns[i] != c {
			return false
		}
	}
	for i := range t.Rows {
		for _, c := range t.Columns {
			if !t.Cell(i, c).Equal(other.Cell(i, c)) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes the table as {"columns":[...],"records":[...]} with
// record keys in column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"columns":`)
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return nil, err
	}
	buf.Write(cols)
	buf.WriteString(`,"records":[`)
	for i := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		for _, c := range t.Columns {
			v, ok := t.Rows[i][c]
			if !ok {
				v = Null()
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(c)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either {"columns":[...],"records":[...]} or a bare
// array of record objects. When columns are omitted the order is first-seen
// key order across the records, as they appear in the document.
func (t *Table) UnmarshalJSON(raw []byte) error {
	doc := gjson.ParseBytes(raw)

	recordsNode := doc
	var explicitColumns []string
	if doc.IsObject() {
		recordsNode = doc.Get("records")
		if !recordsNode.Exists() {
			return fmt.Errorf("table JSON object must contain a records array")
		}
		if cols := doc.Get("columns"); cols.Exists() {
			cols.ForEach(func(_, c gjson.Result) bool {
				explicitColumns = append(explicitColumns, c.String())
				return true
			})
		}
	}
	if !recordsNode.IsArray() {
		return fmt.Errorf("table records must be a JSON array")
	}

	parsed := ParseJSONTable(recordsNode)
	if explicitColumns != nil {
		// Keep declared order; append any columns found only in records.
		declared := make(map[string]bool, len(explicitColumns))
		for _, c := range explicitColumns {
			declared[c] = true
		}
		for _, c := range parsed.Columns {
			if !declared[c] {
				explicitColumns = append(explicitColumns, c)
			}
		}
		parsed.Columns = explicitColumns
	}
	*t = *parsed
	return nil
}

// ParseJSONTable builds a table from a gjson array of objects, preserving
// document key order for the column order.
func ParseJSONTable(arr gjson.Result) *Table {
	t := New()
	seen := make(map[string]bool)
	arr.ForEach(func(_, rec gjson.Result) bool {
		row := make(Row)
		rec.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if !seen[name] {
				seen[name] = true
				t.Columns = append(t.Columns, name)
			}
			row[name] = fromGJSON(value)
			return true
		})
		t.Rows = append(t.Rows, row)
		return true
	})
	return t
}
