// Package cleaning provides the point-and-click data cleaning operations of
// the dashboard as pure table transforms: missing-value handling, duplicate
// removal, outlier treatment and string tidying. No transform mutates its
// input table.
package cleaning

import (
	"math"
	"strings"

	"gotidy/domain/core"
	"gotidy/domain/table"

	"github.com/montanaflynn/stats"
)

// MissingStrategy names a missing-value treatment.
type MissingStrategy string

const (
	MissingDropRows     MissingStrategy = "drop_rows"
	MissingDropColumns  MissingStrategy = "drop_columns"
	MissingMeanFill     MissingStrategy = "mean"
	MissingMedianFill   MissingStrategy = "median"
	MissingModeFill     MissingStrategy = "mode"
	MissingForwardFill  MissingStrategy = "ffill"
	MissingBackwardFill MissingStrategy = "bfill"
)

// OutlierStrategy names an outlier treatment for numeric columns.
type OutlierStrategy string

const (
	OutlierIQRClip        OutlierStrategy = "iqr_clip"
	OutlierZScoreMedian   OutlierStrategy = "zscore_median"
	OutlierPercentileClip OutlierStrategy = "percentile_clip"
)

// HandleMissing applies a missing-value strategy. columns limits the scope
// where the strategy is column-wise; nil means all columns. Mean and median
// fills only touch columns whose non-null values are all numeric.
func HandleMissing(t *table.Table, strategy MissingStrategy, columns []string) (*table.Table, error) {
	if columns == nil {
		columns = t.Columns
	}
	switch strategy {
	case MissingDropRows:
		return dropRowsWithNulls(t, columns), nil
	case MissingDropColumns:
		return dropColumnsWithNulls(t), nil
	case MissingMeanFill:
		return fillNumeric(t, columns, func(data []float64) float64 {
			m, _ := stats.Mean(data)
			return m
		}), nil
	case MissingMedianFill:
		return fillNumeric(t, columns, func(data []float64) float64 {
			m, _ := stats.Median(data)
			return m
		}), nil
	case MissingModeFill:
		return fillMode(t, columns), nil
	case MissingForwardFill:
		return directionalFill(t, false), nil
	case MissingBackwardFill:
		return directionalFill(t, true), nil
	default:
		return nil, core.ErrUnknownFillStrategy
	}
}

func dropRowsWithNulls(t *table.Table, columns []string) *table.Table {
	out := table.New(t.Columns...)
	for i := range t.Rows {
		keep := true
		for _, col := range columns {
			if t.Cell(i, col).IsNull() {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, t.Rows[i].Clone())
		}
	}
	return out
}

func dropColumnsWithNulls(t *table.Table) *table.Table {
	var kept []string
	for _, col := range t.Columns {
		hasNull := false
		for i := range t.Rows {
			if t.Cell(i, col).IsNull() {
				hasNull = true
				break
			}
		}
		if !hasNull {
			kept = append(kept, col)
		}
	}
	out := table.New(kept...)
	for i := range t.Rows {
		row := make(table.Row, len(kept))
		for _, col := range kept {
			row[col] = t.Cell(i, col).Clone()
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func fillNumeric(t *table.Table, columns []string, fill func([]float64) float64) *table.Table {
	out := t.Clone()
	for _, col := range columns {
		if !out.HasColumn(col) {
			continue
		}
		data, ok := numericColumn(out, col)
		if !ok || len(data) == 0 {
			continue
		}
		replacement := table.Number(fill(data))
		for i := range out.Rows {
			if out.Cell(i, col).IsNull() {
				out.Rows[i][col] = replacement
			}
		}
	}
	return out
}

func fillMode(t *table.Table, columns []string) *table.Table {
	out := t.Clone()
	for _, col := range columns {
		if !out.HasColumn(col) {
			continue
		}
		counts := make(map[string]int)
		first := make(map[string]table.Value)
		for i := range out.Rows {
			v := out.Cell(i, col)
			if v.IsNull() {
				continue
			}
			key := v.StringValue()
			if _, seen := first[key]; !seen {
				first[key] = v
			}
			counts[key]++
		}
		var modeKey string
		best := 0
		for i := range out.Rows {
			v := out.Cell(i, col)
			if v.IsNull() {
				continue
			}
			// Scan in row order so ties resolve to the earliest value.
			if key := v.StringValue(); counts[key] > best {
				best = counts[key]
				modeKey = key
			}
		}
		if best == 0 {
			continue
		}
		replacement := first[modeKey].Clone()
		for i := range out.Rows {
			if out.Cell(i, col).IsNull() {
				out.Rows[i][col] = replacement.Clone()
			}
		}
	}
	return out
}

func directionalFill(t *table.Table, backward bool) *table.Table {
	out := t.Clone()
	for _, col := range out.Columns {
		if backward {
			var next table.Value = table.Null()
			for i := len(out.Rows) - 1; i >= 0; i-- {
				if v := out.Cell(i, col); v.IsNull() {
					out.Rows[i][col] = next.Clone()
				} else {
					next = v
				}
			}
		} else {
			var prev table.Value = table.Null()
			for i := range out.Rows {
				if v := out.Cell(i, col); v.IsNull() {
					out.Rows[i][col] = prev.Clone()
				} else {
					prev = v
				}
			}
		}
	}
	return out
}

// RemoveDuplicates drops every row whose full content already appeared in an
// earlier row, keeping the first occurrence.
func RemoveDuplicates(t *table.Table) *table.Table {
	out := table.New(t.Columns...)
	seen := make(map[string]bool, t.NumRows())
	for i := range t.Rows {
		key := rowKey(t, i)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, t.Rows[i].Clone())
	}
	return out
}

func rowKey(t *table.Table, row int) string {
	var b strings.Builder
	for _, col := range t.Columns {
		raw, _ := t.Cell(row, col).MarshalJSON()
		b.WriteString(col)
		b.WriteByte(0)
		b.Write(raw)
		b.WriteByte(0)
	}
	return b.String()
}

// HandleOutliers applies an outlier treatment to numeric columns. columns nil
// means every all-numeric column. Non-numeric cells pass through untouched.
func HandleOutliers(t *table.Table, strategy OutlierStrategy, columns []string) (*table.Table, error) {
	switch strategy {
	case OutlierIQRClip, OutlierZScoreMedian, OutlierPercentileClip:
	default:
		return nil, core.ErrUnknownOutlierStrategy
	}

	out := t.Clone()
	if columns == nil {
		columns = allNumericColumns(out)
	}
	for _, col := range columns {
		data, ok := numericColumn(out, col)
		if !ok || len(data) == 0 {
			continue
		}
		switch strategy {
		case OutlierIQRClip:
			q25, _ := stats.Percentile(data, 25)
			q75, _ := stats.Percentile(data, 75)
			iqr := q75 - q25
			clipColumn(out, col, q25-1.5*iqr, q75+1.5*iqr)
		case OutlierZScoreMedian:
			mean, _ := stats.Mean(data)
			stdDev, _ := stats.StandardDeviation(data)
			median, _ := stats.Median(data)
			if stdDev == 0 {
				continue
			}
			for i := range out.Rows {
				if f, ok := out.Cell(i, col).Float64(); ok {
					if math.Abs((f-mean)/stdDev) > 3 {
						out.Rows[i][col] = table.Number(median)
					}
				}
			}
		case OutlierPercentileClip:
			lower, _ := stats.Percentile(data, 1)
			upper, _ := stats.Percentile(data, 99)
			clipColumn(out, col, lower, upper)
		}
	}
	return out, nil
}

func clipColumn(t *table.Table, col string, lower, upper float64) {
	for i := range t.Rows {
		if f, ok := t.Cell(i, col).Float64(); ok {
			switch {
			case f < lower:
				t.Rows[i][col] = table.Number(lower)
			case f > upper:
				t.Rows[i][col] = table.Number(upper)
			}
		}
	}
}

// CleanStrings trims whitespace, lowercases, and converts blank strings to
// null in the given columns (nil means every column with string cells).
func CleanStrings(t *table.Table, columns []string) *table.Table {
	out := t.Clone()
	if columns == nil {
		columns = out.Columns
	}
	for _, col := range columns {
		for i := range out.Rows {
			v := out.Cell(i, col)
			if v.Kind() != table.KindScalar {
				continue
			}
			s, ok := v.ScalarValue().(string)
			if !ok {
				continue
			}
			cleaned := strings.ToLower(strings.TrimSpace(s))
			if cleaned == "" {
				out.Rows[i][col] = table.Null()
			} else {
				out.Rows[i][col] = table.String(cleaned)
			}
		}
	}
	return out
}

func numericColumn(t *table.Table, col string) ([]float64, bool) {
	if !t.HasColumn(col) {
		return nil, false
	}
	var data []float64
	for i := range t.Rows {
		v := t.Cell(i, col)
		if v.IsNull() {
			continue
		}
		f, ok := v.Float64()
		if !ok || v.IsComplex() {
			return nil, false
		}
		data = append(data, f)
	}
	return data, true
}

func allNumericColumns(t *table.Table) []string {
	var cols []string
	for _, col := range t.Columns {
		if data, ok := numericColumn(t, col); ok && len(data) > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}
