package similarity

import (
	"errors"
	"fmt"
)

// Sentinel kinds for similarity errors.
var (
	ErrPlayerNotFound = errors.New("player not found")
)

// PlayerNotFoundError reports a query player absent from the active cohort,
// for instance because the usage threshold filtered them out.
type PlayerNotFoundError struct {
	PlayerName string
	Team       string
}

func (e *PlayerNotFoundError) Error() string {
	if e.Team != "" {
		return fmt.Sprintf("player not found in cohort: %s (%s)", e.PlayerName, e.Team)
	}
	return fmt.Sprintf("player not found in cohort: %s", e.PlayerName)
}

func (e *PlayerNotFoundError) Unwrap() error { return ErrPlayerNotFound }
