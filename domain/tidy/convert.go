package tidy

import (
	"gotidy/domain/core"
	"gotidy/domain/table"
)

// Convert applies one conversion strategy to the table and returns a new
// table. The input is never mutated. An unknown strategy fails with
// core.ErrUnsupportedStrategy before any work happens, for empty and
// non-empty tables alike.
func Convert(t *table.Table, strategy Strategy, opts Options) (*table.Table, error) {
	switch strategy {
	case StrategyPreserveStructure:
		return preserveStructure(t), nil
	case StrategyNormalizeOnly:
		return normalizeOnly(t, opts), nil
	case StrategyNormalizeExplode:
		return normalizeExplode(t, opts), nil
	case StrategyFlattenAll:
		return flattenAll(t, opts), nil
	default:
		return nil, core.NewUnsupportedStrategyError(string(strategy))
	}
}

// preserveStructure replaces every mapping- or sequence-valued cell with its
// JSON text serialization and passes scalars through unchanged. Running it a
// second time is a no-op: complex cells have already become string scalars.
func preserveStructure(t *table.Table) *table.Table {
	out := table.New(t.Columns...)
	for i := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for _, col := range t.Columns {
			cell := t.Cell(i, col)
			if cell.IsComplex() {
				raw, err := cell.MarshalJSON()
				if err != nil {
					// Values are a closed variant over JSON-shaped data, so
					// serialization cannot fail in practice; keep the cell.
					row[col] = cell.Clone()
					continue
				}
				row[col] = table.String(string(raw))
			} else {
				row[col] = cell.Clone()
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// normalizeOnly recursively expands every mapping-valued cell into
// parent<sep>key columns. Sequence cells are left untouched as sequence
// values, scalars pass through. The output column order is first-seen order
// across rows, and the result is rectangular (absent cells filled).
func normalizeOnly(t *table.Table, opts Options) *table.Table {
	sep := opts.separator()
	records := make([][]table.Entry, 0, len(t.Rows))
	for i := range t.Rows {
		var entries []table.Entry
		for _, col := range t.Columns {
			cell := t.Cell(i, col)
			if cell.Kind() == table.KindMapping {
				entries = flattenMapping(entries, col, cell, sep)
			} else {
				entries = append(entries, table.Entry{Key: col, Value: cell.Clone()})
			}
		}
		records = append(records, entries)
	}
	out := table.FromRecords(records)
	if out.NumColumns() == 0 {
		// Nothing survived flattening (e.g. zero rows); keep a stable shape.
		out.Columns = append([]string(nil), t.Columns...)
	}
	return out.Rectangularize(opts.FillValue)
}

// flattenMapping appends one entry per scalar/sequence leaf of the mapping,
// recursing into nested mappings and accumulating the separator at each
// level. An empty mapping contributes nothing.
func flattenMapping(entries []table.Entry, prefix string, m table.Value, sep string) []table.Entry {
	for _, key := range m.Keys() {
		child, _ := m.Get(key)
		name := prefix + sep + key
		if child.Kind() == table.KindMapping {
			entries = flattenMapping(entries, name, child, sep)
		} else {
			entries = append(entries, table.Entry{Key: name, Value: child.Clone()})
		}
	}
	return entries
}

// normalizeExplode normalizes mappings first, then explodes the first array
// column (first-non-null sampling, column order) into one row per element.
// Rows whose sequence is empty contribute zero rows. Elements that are
// themselves mappings get one more normalize pass restricted to that column,
// replacing it with parent<sep>key columns. Cells of other shapes in the
// chosen column pass through as a single row.
func normalizeExplode(t *table.Table, opts Options) *table.Table {
	norm := normalizeOnly(t, opts)

	explodeCol, ok := firstArrayColumn(norm)
	if !ok {
		return norm
	}
	sep := opts.separator()

	out := table.New(norm.Columns...)
	keptOriginal := false
	for i := range norm.Rows {
		cell := norm.Cell(i, explodeCol)
		if cell.Kind() != table.KindSequence {
			out.Rows = append(out.Rows, norm.Rows[i].Clone())
			keptOriginal = true
			continue
		}
		for _, elem := range cell.Items() {
			row := norm.Rows[i].Clone()
			if elem.Kind() == table.KindMapping {
				delete(row, explodeCol)
				for _, e := range flattenMapping(nil, explodeCol, elem, sep) {
					row[e.Key] = e.Value
					if !out.HasColumn(e.Key) {
						out.Columns = append(out.Columns, e.Key)
					}
				}
			} else {
				row[explodeCol] = elem.Clone()
				keptOriginal = true
			}
			out.Rows = append(out.Rows, row)
		}
	}

	if !keptOriginal {
		// Every element was a mapping; the original column is redundant.
		out.Columns = removeColumn(out.Columns, explodeCol)
	}
	return out.Rectangularize(opts.FillValue)
}

// flattenAll normalizes mappings, then explodes every array column at once.
// Each array column is padded with the fill value up to its maximum observed
// sequence length so the multi-column explode never loses a row to a length
// mismatch; each input row then emits one output row per aligned element
// index, with non-sequence cells copied into every emitted row.
func flattenAll(t *table.Table, opts Options) *table.Table {
	norm := normalizeOnly(t, opts)

	arrayCols := arrayColumns(norm)
	if len(arrayCols) == 0 {
		return norm
	}

	// Max observed sequence length per array column.
	maxLen := make(map[string]int, len(arrayCols))
	for _, col := range arrayCols {
		for i := range norm.Rows {
			if cell := norm.Cell(i, col); cell.Kind() == table.KindSequence && cell.Len() > maxLen[col] {
				maxLen[col] = cell.Len()
			}
		}
	}

	isArrayCol := make(map[string]bool, len(arrayCols))
	for _, col := range arrayCols {
		isArrayCol[col] = true
	}

	out := table.New(norm.Columns...)
	for i := range norm.Rows {
		rowLen := 0
		for _, col := range arrayCols {
			n := 1
			if norm.Cell(i, col).Kind() == table.KindSequence {
				n = maxLen[col]
			}
			if n > rowLen {
				rowLen = n
			}
		}
		for j := 0; j < rowLen; j++ {
			row := make(table.Row, len(norm.Columns))
			for _, col := range norm.Columns {
				cell := norm.Cell(i, col)
				if isArrayCol[col] && cell.Kind() == table.KindSequence {
					if j < cell.Len() {
						row[col] = cell.Items()[j].Clone()
					} else {
						row[col] = opts.FillValue.Clone()
					}
				} else {
					row[col] = cell.Clone()
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// firstArrayColumn returns the first column classified as an array column by
// the same first-non-null sampling rule Analyze uses.
func firstArrayColumn(t *table.Table) (string, bool) {
	for _, col := range t.Columns {
		if sample := t.SampleNonNull(col, SampleSize); len(sample) > 0 && sample[0].Kind() == table.KindSequence {
			return col, true
		}
	}
	return "", false
}

// arrayColumns returns every array-classified column in column order.
func arrayColumns(t *table.Table) []string {
	var cols []string
	for _, col := range t.Columns {
		if sample := t.SampleNonNull(col, SampleSize); len(sample) > 0 && sample[0].Kind() == table.KindSequence {
			cols = append(cols, col)
		}
	}
	return cols
}

func removeColumn(columns []string, name string) []string {
	out := columns[:0:0]
	for _, c := range columns {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
