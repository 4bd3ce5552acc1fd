package tidy

import (
	"gotidy/domain/table"
)

// SampleSize bounds how many non-null cells per column the analyzer inspects.
const SampleSize = 5

// StructuralAnalysis is a read-only structural summary of a table. The three
// column classifications are disjoint; ComplexColumns is the union of dict and
// array columns in original column order. Columns whose sampled values are all
// null appear in none of the lists.
type StructuralAnalysis struct {
	TotalRows      int      `json:"total_rows"`
	TotalColumns   int      `json:"total_columns"`
	DictColumns    []string `json:"dict_columns"`
	ArrayColumns   []string `json:"array_columns"`
	SimpleColumns  []string `json:"simple_columns"`
	ComplexColumns []string `json:"complex_columns"`

	RecommendedStrategy Strategy `json:"recommended_strategy"`
}

// Analyze classifies every column of the table and recommends a conversion
// strategy. Classification looks at the first of at most SampleSize non-null
// values per column and trusts that single value's shape. A column whose early
// rows are scalar but whose later rows hold mappings is therefore classified
// simple; conversion tolerates the mismatch per cell at runtime.
//
// Recommendation (first match wins):
//  1. no complex columns            -> preserve_structure
//  2. arrays present, no dicts      -> normalize_explode
//  3. dicts present, no arrays      -> normalize_only
//  4. both present                  -> flatten_all
//
// Analyze never fails; an empty table yields an all-empty classification and
// recommends preserve_structure.
func Analyze(t *table.Table) StructuralAnalysis {
	analysis := StructuralAnalysis{
		TotalRows:    t.NumRows(),
		TotalColumns: t.NumColumns(),
	}

	for _, col := range t.Columns {
		sample := t.SampleNonNull(col, SampleSize)
		if len(sample) == 0 {
			continue
		}
		// Classification trusts the first sampled value only, no majority vote.
		switch sample[0].Kind() {
		case table.KindMapping:
			analysis.DictColumns = append(analysis.DictColumns, col)
			analysis.ComplexColumns = append(analysis.ComplexColumns, col)
		case table.KindSequence:
			analysis.ArrayColumns = append(analysis.ArrayColumns, col)
			analysis.ComplexColumns = append(analysis.ComplexColumns, col)
		default:
			analysis.SimpleColumns = append(analysis.SimpleColumns, col)
		}
	}

	switch {
	case len(analysis.ComplexColumns) == 0:
		analysis.RecommendedStrategy = StrategyPreserveStructure
	case len(analysis.ArrayColumns) > 0 && len(analysis.DictColumns) == 0:
		analysis.RecommendedStrategy = StrategyNormalizeExplode
	case len(analysis.DictColumns) > 0 && len(analysis.ArrayColumns) == 0:
		analysis.RecommendedStrategy = StrategyNormalizeOnly
	default:
		analysis.RecommendedStrategy = StrategyFlattenAll
	}

	return analysis
}
