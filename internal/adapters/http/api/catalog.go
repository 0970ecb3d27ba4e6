package api

import (
	"context"
	"net/http"

	"github.com/okian/playbook/internal/domain/position"
)

// CatalogDependencies lists what the selectors need.
type CatalogDependencies interface {
	Seasons(ctx context.Context) ([]int, error)
	Positions() []position.Profile
}

// CatalogHandler serves the season and position selectors.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type seasonsResponse struct {
	Seasons []int `json:"seasons"`
}

type positionsResponse struct {
	Positions []position.Profile `json:"positions"`
}

// HandleSeasons handles GET /v1/seasons requests.
func (h *CatalogHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.deps.Seasons(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonsResponse{Seasons: seasons})
}

// HandlePositions handles GET /v1/positions requests.
func (h *CatalogHandler) HandlePositions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, positionsResponse{Positions: h.deps.Positions()})
}
