package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrFileNotFound     = errors.New("data file not found")
	ErrUnsupportedInput = errors.New("unsupported input format")
	ErrMissingColumn    = errors.New("required column missing")
	ErrMalformedCell    = errors.New("malformed cell value")
	ErrDuplicateID      = errors.New("duplicate participant id")
	ErrEmptyDataset     = errors.New("dataset has no participant rows")

	// Statistical errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrZeroVariance     = errors.New("zero variance in sample")
	ErrMismatchedPairs  = errors.New("paired samples differ in length")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewMalformedCellError(row int, column, value string) error {
	return fmt.Errorf("%w: row %d column %s value %q", ErrMalformedCell, row, column, value)
}

func NewInsufficientDataError(test string, n, min int) error {
	return fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrInsufficientData, test, min, n)
}

// IsInputError reports whether err stems from a malformed or missing input file.
func IsInputError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrMalformedCell) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrEmptyDataset)
}

// IsStatisticalError reports whether err was raised by a test that could not run.
func IsStatisticalError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrZeroVariance) ||
		errors.Is(err, ErrMismatchedPairs)
}
