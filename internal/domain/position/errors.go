package position

import "errors"

// Sentinel kinds for position errors.
var (
	ErrUnknownPosition = errors.New("unknown position class")
	ErrInvalidUsage    = errors.New("invalid usage threshold")
)
