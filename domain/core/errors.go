package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Conversion errors
	ErrUnsupportedStrategy = errors.New("unsupported conversion strategy")

	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Input errors
	ErrEmptyTable        = errors.New("table has no rows")
	ErrNoHeader          = errors.New("input has no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNonNumericColumn  = errors.New("column is not numeric")

	// Cleaning errors
	ErrUnknownFillStrategy    = errors.New("unknown missing-value strategy")
	ErrUnknownOutlierStrategy = errors.New("unknown outlier strategy")
)

// NewUnsupportedStrategyError reports a strategy name that is not one of the
// four conversion strategies. It wraps ErrUnsupportedStrategy so callers can
// detect it with errors.Is. It signals a caller bug, never a data error, so
// no default-strategy substitution happens anywhere downstream.
func NewUnsupportedStrategyError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedStrategy, name)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Error checking helpers
func IsUnsupportedStrategy(err error) bool {
	return errors.Is(err, ErrUnsupportedStrategy)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrNoHeader) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnknownFillStrategy) ||
		errors.Is(err, ErrUnknownOutlierStrategy)
}
