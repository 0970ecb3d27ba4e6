package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/playbook/internal/app"
	"github.com/okian/playbook/internal/domain/model"
)

// ArchetypesDependencies defines the interface for modeling runs.
type ArchetypesDependencies interface {
	Model(ctx context.Context, req service.ModelRequest) (*service.ModelReport, error)
}

// ArchetypesHandler handles archetype modeling requests.
type ArchetypesHandler struct {
	deps ArchetypesDependencies
}

// NewArchetypesHandler creates a new archetypes handler.
func NewArchetypesHandler(deps ArchetypesDependencies) *ArchetypesHandler {
	return &ArchetypesHandler{deps: deps}
}

// HandleGetArchetypes handles GET /v1/archetypes?season=&position=&min_usage=&k= requests.
func (h *ArchetypesHandler) HandleGetArchetypes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_archetypes"
	q, err := parseArchetypesQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	report, err := h.deps.Model(r.Context(), service.ModelRequest{
		Season:   q.Season,
		Position: model.PositionClass(q.Position),
		MinUsage: q.MinUsage,
		K:        q.K,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
