package profiling

import (
	"context"
	"math"

	"gotidy/domain/core"
	"gotidy/domain/table"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// InferredType classifies a column by the shape of its non-null values.
type InferredType string

const (
	TypeNumeric     InferredType = "numeric"
	TypeBoolean     InferredType = "boolean"
	TypeCategorical InferredType = "categorical"
	TypeText        InferredType = "text"
	TypeComplex     InferredType = "complex"
	TypeEmpty       InferredType = "empty"
)

// Thresholds matching the dashboard's profiling heuristics.
const (
	maxCategoricalCardinality = 50
	categoricalUniqueRatio    = 0.3
	sampleValueCount          = 5
)

// ColumnProfile summarizes a single column.
type ColumnProfile struct {
	Name         string       `json:"name"`
	Type         InferredType `json:"type"`
	NonNullCount int          `json:"non_null_count"`
	MissingCount int          `json:"missing_count"`
	UniqueCount  int          `json:"unique_count"`
	SampleValues []string     `json:"sample_values,omitempty"`

	Numeric *NumericSummary `json:"numeric,omitempty"`
}

// NumericSummary holds summary statistics for numeric columns.
type NumericSummary struct {
	Mean     float64      `json:"mean"`
	StdDev   float64      `json:"std_dev"`
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
	Median   float64      `json:"median"`
	Q25      float64      `json:"q25"`
	Q75      float64      `json:"q75"`
	Skewness float64      `json:"skewness"`
	Kurtosis float64      `json:"kurtosis"`
	Outliers OutlierStats `json:"outliers"`
}

// OutlierStats reports IQR-fence outliers for one column.
type OutlierStats struct {
	Count      int     `json:"count"`
	Ratio      float64 `json:"ratio"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// TableProfile summarizes a whole table.
type TableProfile struct {
	TotalRows     int     `json:"total_rows"`
	TotalColumns  int     `json:"total_columns"`
	MissingCells  int     `json:"missing_cells"`
	MissingRatio  float64 `json:"missing_ratio"`
	DuplicateRows int     `json:"duplicate_rows"`

	Columns     []ColumnProfile    `json:"columns"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
}

// CorrelationMatrix holds pairwise Pearson correlations over numeric columns.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Profiler computes table profiles with bounded per-column concurrency.
type Profiler struct {
	workers int
}

// NewProfiler creates a profiler. workers < 1 falls back to serial profiling.
func NewProfiler(workers int) *Profiler {
	if workers < 1 {
		workers = 1
	}
	return &Profiler{workers: workers}
}

// ProfileTable profiles every column plus table-level missing/duplicate
// counts and the numeric correlation matrix.
func (p *Profiler) ProfileTable(ctx context.Context, t *table.Table) (*TableProfile, error) {
	if t.NumRows() == 0 {
		return nil, core.ErrEmptyTable
	}

	profile := &TableProfile{
		TotalRows:    t.NumRows(),
		TotalColumns: t.NumColumns(),
		Columns:      make([]ColumnProfile, t.NumColumns()),
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, col := range t.Columns {
		i, col := i, col
		g.Go(func() error {
			profile.Columns[i] = ProfileColumn(col, t.Column(col))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, cp := range profile.Columns {
		profile.MissingCells += cp.MissingCount
	}
	totalCells := t.NumRows() * t.NumColumns()
	if totalCells > 0 {
		profile.MissingRatio = float64(profile.MissingCells) / float64(totalCells)
	}
	profile.DuplicateRows = CountDuplicateRows(t)
	profile.Correlation = correlationMatrix(t, profile.Columns)

	return profile, nil
}

// ProfileColumn summarizes one column's values.
func ProfileColumn(name string, values []Value) ColumnProfile {
	cp := ColumnProfile{Name: name}

	unique := make(map[string]bool)
	var numeric []float64
	nonNumeric := 0
	complexCount := 0
	boolCount := 0

	for _, v := range values {
		if v.IsNull() {
			cp.MissingCount++
			continue
		}
		cp.NonNullCount++
		rendered := v.StringValue()
		unique[rendered] = true
		if len(cp.SampleValues) < sampleValueCount {
			cp.SampleValues = append(cp.SampleValues, rendered)
		}

		switch {
		case v.IsComplex():
			complexCount++
		default:
			if _, isBool := v.ScalarValue().(bool); isBool {
				boolCount++
			} else if f, ok := v.Float64(); ok {
				numeric = append(numeric, f)
			} else {
				nonNumeric++
			}
		}
	}
	cp.UniqueCount = len(unique)
	cp.Type = inferType(cp.NonNullCount, cp.UniqueCount, len(numeric), nonNumeric, complexCount, boolCount)

	if cp.Type == TypeNumeric && len(numeric) > 0 {
		summary := summarizeNumeric(numeric)
		cp.Numeric = &summary
	}
	return cp
}

// Value aliases the table cell type so callers can pass columns directly.
type Value = table.Value

func inferType(nonNull, uniqueCount, numericCount, nonNumeric, complexCount, boolCount int) InferredType {
	switch {
	case nonNull == 0:
		return TypeEmpty
	case complexCount > 0:
		return TypeComplex
	case boolCount == nonNull:
		return TypeBoolean
	case numericCount == nonNull:
		// Low-cardinality integer codes read better as categories, but the
		// dashboard treated every all-numeric column as numeric; keep that.
		return TypeNumeric
	case uniqueCount <= maxCategoricalCardinality ||
		float64(uniqueCount)/float64(nonNull) < categoricalUniqueRatio:
		return TypeCategorical
	default:
		return TypeText
	}
}

func summarizeNumeric(data []float64) NumericSummary {
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	summary := NumericSummary{
		Mean:     mean,
		StdDev:   stdDev,
		Min:      minVal,
		Max:      maxVal,
		Median:   median,
		Q25:      q25,
		Q75:      q75,
		Outliers: DetectOutliers(data, q25, q75),
	}
	if len(data) >= 3 {
		summary.Skewness = stat.Skew(data, nil)
	}
	if len(data) >= 4 {
		summary.Kurtosis = stat.ExKurtosis(data, nil)
	}
	return summary
}

// DetectOutliers counts values outside the 1.5*IQR fences.
func DetectOutliers(data []float64, q25, q75 float64) OutlierStats {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	out := OutlierStats{Count: count, LowerBound: lower, UpperBound: upper}
	if len(data) > 0 {
		out.Ratio = float64(count) / float64(len(data))
	}
	return out
}

// CountDuplicateRows counts rows whose full serialized content already
// appeared earlier in the table.
func CountDuplicateRows(t *table.Table) int {
	seen := make(map[string]bool, t.NumRows())
	duplicates := 0
	for i := range t.Rows {
		key := rowKey(t, i)
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	return duplicates
}

func rowKey(t *table.Table, row int) string {
	key := ""
	for _, col := range t.Columns {
		raw, _ := t.Cell(row, col).MarshalJSON()
		key += col + "\x00" + string(raw) + "\x00"
	}
	return key
}

// correlationMatrix computes pairwise Pearson correlation over the numeric
// columns, using pairwise-complete rows for each pair.
func correlationMatrix(t *table.Table, profiles []ColumnProfile) *CorrelationMatrix {
	var numericCols []string
	for _, cp := range profiles {
		if cp.Type == TypeNumeric {
			numericCols = append(numericCols, cp.Name)
		}
	}
	if len(numericCols) < 2 {
		return nil
	}

	matrix := &CorrelationMatrix{
		Columns: numericCols,
		Values:  make([][]float64, len(numericCols)),
	}
	columnData := make(map[string][]table.Value, len(numericCols))
	for _, col := range numericCols {
		columnData[col] = t.Column(col)
	}

	for i, colA := range numericCols {
		matrix.Values[i] = make([]float64, len(numericCols))
		for j, colB := range numericCols {
			if i == j {
				matrix.Values[i][j] = 1
				continue
			}
			if j < i {
				matrix.Values[i][j] = matrix.Values[j][i]
				continue
			}
			matrix.Values[i][j] = pairwiseCorrelation(columnData[colA], columnData[colB])
		}
	}
	return matrix
}

func pairwiseCorrelation(a, b []table.Value) float64 {
	var xs, ys []float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, okX := a[i].Float64()
		y, okY := b[i].Float64()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		// Zero-variance columns; report no correlation rather than NaN,
		// which JSON cannot carry.
		return 0
	}
	return r
}
