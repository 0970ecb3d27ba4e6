package cluster

import (
	"errors"
	"fmt"
)

// Sentinel kinds for clustering errors.
var (
	ErrInvalidK      = errors.New("invalid cluster count")
	ErrTooFewPoints  = errors.New("fewer points than clusters")
	ErrNoScores      = errors.New("no clustering scores to select from")
	ErrDimensionSkew = errors.New("points have different dimensions")
)

// InvalidKError reports a requested cluster count outside the allowed range.
type InvalidKError struct {
	K   int
	Min int
	Max int
}

func (e *InvalidKError) Error() string {
	return fmt.Sprintf("invalid k %d: must be within [%d, %d]", e.K, e.Min, e.Max)
}

func (e *InvalidKError) Unwrap() error { return ErrInvalidK }
