package features

import (
	"errors"
	"fmt"
)

// Sentinel kinds for feature preparation errors.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrNoFeatures       = errors.New("no features selected")
)

// InsufficientDataError reports a cohort below the minimum modeling size.
type InsufficientDataError struct {
	Size int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: cohort has %d records, need at least %d", e.Size, e.Min)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }
