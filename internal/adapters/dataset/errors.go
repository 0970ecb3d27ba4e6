package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	// ErrUnavailable wraps every failure to produce a table through the cache.
	ErrUnavailable   = errors.New("dataset unavailable")
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyDataset  = errors.New("empty dataset")
)
