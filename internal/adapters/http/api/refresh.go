// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
)

// RefreshDependencies defines the interface for triggering pipeline passes.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (repository.RunInfo, error)
}

// RefreshHandler handles pipeline refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh requests. The pass runs
// synchronously; readers keep the previous snapshot until it finishes.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	info, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "refresh_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
