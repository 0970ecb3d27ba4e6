package service

import (
	"context"
	"errors"

	"github.com/okian/playbook/internal/adapters/dataset"
	"github.com/okian/playbook/internal/domain/cluster"
	"github.com/okian/playbook/internal/domain/features"
	"github.com/okian/playbook/internal/domain/position"
	"github.com/okian/playbook/internal/domain/similarity"
)

// Sentinel kinds for service errors.
var (
	ErrNoSource = errors.New("no dataset source configured")
	ErrNoPlayer = errors.New("player name is required")
)

// Error kinds reported in logs, metrics and API responses.
const (
	KindInsufficientData   = "insufficient_data"
	KindPlayerNotFound     = "player_not_found"
	KindInvalidK           = "invalid_k"
	KindUnknownPosition    = "unknown_position"
	KindInvalidUsage       = "invalid_usage"
	KindInvalidRequest     = "invalid_request"
	KindDatasetUnavailable = "dataset_unavailable"
	KindCanceled           = "canceled"
	KindInternal           = "internal"
)

// ErrorKind classifies err into one of the Kind* constants.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, features.ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, similarity.ErrPlayerNotFound):
		return KindPlayerNotFound
	case errors.Is(err, cluster.ErrInvalidK):
		return KindInvalidK
	case errors.Is(err, position.ErrUnknownPosition):
		return KindUnknownPosition
	case errors.Is(err, position.ErrInvalidUsage):
		return KindInvalidUsage
	case errors.Is(err, ErrNoPlayer):
		return KindInvalidRequest
	case errors.Is(err, dataset.ErrUnavailable), errors.Is(err, ErrNoSource):
		return KindDatasetUnavailable
	default:
		return KindInternal
	}
}
