package tidy

import (
	"gotidy/domain/core"
	"gotidy/domain/table"
)

// Strategy selects one of the four tidy conversions. Each strategy is a pure
// Table -> Table function; unknown names are a caller bug, never silently
// substituted.
type Strategy string

const (
	// StrategyPreserveStructure serializes complex cells to JSON text and
	// keeps the table shape. Suited to data exchange and storage.
	StrategyPreserveStructure Strategy = "preserve_structure"

	// StrategyNormalizeOnly expands nested mappings into parent.child columns
	// and leaves sequences untouched. Suited to analysis over nested fields.
	StrategyNormalizeOnly Strategy = "normalize_only"

	// StrategyNormalizeExplode expands mappings and explodes the first array
	// column into one row per element. Suited to statistical modeling.
	StrategyNormalizeExplode Strategy = "normalize_explode"

	// StrategyFlattenAll expands mappings and explodes every array column,
	// padding short sequences so the multi-column explode stays aligned.
	StrategyFlattenAll Strategy = "flatten_all"
)

// Strategies lists the supported strategies in presentation order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyPreserveStructure,
		StrategyNormalizeOnly,
		StrategyNormalizeExplode,
		StrategyFlattenAll,
	}
}

// Valid reports whether s names a supported strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyPreserveStructure, StrategyNormalizeOnly, StrategyNormalizeExplode, StrategyFlattenAll:
		return true
	}
	return false
}

// String returns the wire name.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a one-line summary for UIs and CLI help.
func (s Strategy) Description() string {
	switch s {
	case StrategyPreserveStructure:
		return "Preserve structure: serialize complex cells to JSON text, keep the original shape"
	case StrategyNormalizeOnly:
		return "Normalize only: expand nested mappings into flat columns, keep sequences as-is"
	case StrategyNormalizeExplode:
		return "Normalize + explode: expand mappings and explode the first array column into rows"
	case StrategyFlattenAll:
		return "Flatten all: expand mappings and explode every array column into rows"
	default:
		return "Unknown strategy"
	}
}

// ParseStrategy validates a strategy name. It returns
// core.ErrUnsupportedStrategy (wrapped with the offending name) for anything
// outside the four supported variants.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(name)
	if !s.Valid() {
		return "", core.NewUnsupportedStrategyError(name)
	}
	return s, nil
}

// DefaultSeparator joins nested key paths into column names.
const DefaultSeparator = "."

// Options tune a conversion. The zero value is not usable directly; call
// DefaultOptions and override.
type Options struct {
	// Separator joins a parent column name and a nested key,
	// e.g. {"a":{"b":1}} under column info becomes column "info.b".
	Separator string `json:"separator,omitempty"`

	// FillValue substitutes for cells absent after rectangularization and for
	// padding entries added by flatten_all.
	FillValue table.Value `json:"fill_value,omitempty"`
}

// DefaultOptions returns the standard conversion options: "." separator,
// null fill.
func DefaultOptions() Options {
	return Options{
		Separator: DefaultSeparator,
		FillValue: table.Null(),
	}
}

func (o Options) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}
