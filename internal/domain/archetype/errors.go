package archetype

import "errors"

// Sentinel kinds for archetype errors.
var (
	ErrFactorization = errors.New("principal component factorization failed")
)
