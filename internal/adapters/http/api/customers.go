// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// CustomersDependencies defines the interface for customer lookups.
type CustomersDependencies interface {
	Customer(ctx context.Context, policyNumber string) ([]model.EnrichedRecord, error)
}

// CustomersHandler handles enriched customer requests.
type CustomersHandler struct {
	deps CustomersDependencies
}

// NewCustomersHandler creates a new customers handler.
func NewCustomersHandler(deps CustomersDependencies) *CustomersHandler {
	return &CustomersHandler{deps: deps}
}

// HandleGetCustomer handles GET /customers/{policy_number} requests.
// A policy joined to several claims returns one row per claim.
func (h *CustomersHandler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_customer"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /customers/
	policyNumber := strings.TrimPrefix(r.URL.Path, "/customers/")
	if policyNumber == "" || strings.Contains(policyNumber, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rows, err := h.deps.Customer(r.Context(), policyNumber)
	if err != nil {
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
