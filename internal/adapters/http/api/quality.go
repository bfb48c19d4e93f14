// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/MrHarBear/riskboard/internal/domain/quality"
)

// QualityDependencies defines the interface for data-quality reads.
type QualityDependencies interface {
	Quality(ctx context.Context) (quality.Report, error)
}

// QualityHandler handles data-quality report requests.
type QualityHandler struct {
	deps QualityDependencies
}

// NewQualityHandler creates a new quality handler.
func NewQualityHandler(deps QualityDependencies) *QualityHandler {
	return &QualityHandler{deps: deps}
}

// HandleGetQuality handles GET /quality requests.
func (h *QualityHandler) HandleGetQuality(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_quality"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	report, err := h.deps.Quality(r.Context())
	if err != nil {
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
