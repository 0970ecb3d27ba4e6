package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/playbook/internal/app"
	"github.com/okian/playbook/internal/domain/model"
)

// SimilarDependencies defines the interface for similarity searches.
type SimilarDependencies interface {
	Similar(ctx context.Context, req service.SimilarRequest) (*service.SimilarReport, error)
}

// SimilarHandler handles similar-player requests.
type SimilarHandler struct {
	deps SimilarDependencies
}

// NewSimilarHandler creates a new similar-player handler.
func NewSimilarHandler(deps SimilarDependencies) *SimilarHandler {
	return &SimilarHandler{deps: deps}
}

// HandleGetSimilar handles GET /v1/similar?season=&position=&min_usage=&player=&team=&n= requests.
func (h *SimilarHandler) HandleGetSimilar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_similar"
	q, err := parseSimilarQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	report, err := h.deps.Similar(r.Context(), service.SimilarRequest{
		Season:   q.Season,
		Position: model.PositionClass(q.Position),
		MinUsage: q.MinUsage,
		Player:   q.Player,
		Team:     q.Team,
		N:        q.N,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
