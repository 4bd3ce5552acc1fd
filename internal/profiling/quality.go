package profiling

import (
	"math"

	"gotidy/domain/table"

	"github.com/montanaflynn/stats"
)

// Quality score weights, carried over from the dashboard's scoring function.
const (
	missingPenaltyWeight   = 30.0
	duplicatePenaltyWeight = 20.0
	numericSkewPenalty     = 10.0
	numericSkewThreshold   = 0.8
	outlierPenaltyWeight   = 15.0
	outlierPenaltyCap      = 20.0
)

// QualityReport breaks a 0-100 quality score into its deductions.
type QualityReport struct {
	Score float64 `json:"score"`

	MissingRatio       float64 `json:"missing_ratio"`
	DuplicateRatio     float64 `json:"duplicate_ratio"`
	NumericColumnRatio float64 `json:"numeric_column_ratio"`
	OutlierPenalty     float64 `json:"outlier_penalty"`
}

// QualityScore rates a table 0-100: missing cells cost up to 30 points,
// duplicate rows up to 20, a suspiciously numeric-heavy schema 10, and IQR
// outliers up to 20. An empty table scores 0.
func QualityScore(t *table.Table) QualityReport {
	report := QualityReport{}
	totalRows := t.NumRows()
	totalCols := t.NumColumns()
	if totalRows == 0 || totalCols == 0 {
		return report
	}

	missing := 0
	numericColumns := 0
	outlierSum := 0.0
	for _, col := range t.Columns {
		values := t.Column(col)
		var numeric []float64
		allNumeric := true
		nonNull := 0
		for _, v := range values {
			if v.IsNull() {
				missing++
				continue
			}
			nonNull++
			if f, ok := v.Float64(); ok && !v.IsComplex() {
				numeric = append(numeric, f)
			} else {
				allNumeric = false
			}
		}
		if nonNull > 0 && allNumeric {
			numericColumns++
			q25, _ := stats.Percentile(numeric, 25)
			q75, _ := stats.Percentile(numeric, 75)
			outlierSum += DetectOutliers(numeric, q25, q75).Ratio
		}
	}

	report.MissingRatio = float64(missing) / float64(totalRows*totalCols)
	report.DuplicateRatio = float64(CountDuplicateRows(t)) / float64(totalRows)
	report.NumericColumnRatio = float64(numericColumns) / float64(totalCols)
	report.OutlierPenalty = math.Min(outlierSum*outlierPenaltyWeight, outlierPenaltyCap)

	score := 100.0
	score -= report.MissingRatio * missingPenaltyWeight
	score -= report.DuplicateRatio * duplicatePenaltyWeight
	if report.NumericColumnRatio > numericSkewThreshold {
		score -= numericSkewPenalty
	}
	score -= report.OutlierPenalty

	report.Score = math.Max(score, 0)
	return report
}
