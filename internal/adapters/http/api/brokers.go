// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// BrokersDependencies defines the interface for broker lookups.
type BrokersDependencies interface {
	BrokerRank(ctx context.Context, brokerID string) (RankedBroker, error)
}

// BrokersHandler handles single-broker requests.
type BrokersHandler struct {
	deps BrokersDependencies
}

// NewBrokersHandler creates a new brokers handler.
func NewBrokersHandler(deps BrokersDependencies) *BrokersHandler {
	return &BrokersHandler{deps: deps}
}

// HandleGetBroker handles GET /brokers/{broker_id} requests.
func (h *BrokersHandler) HandleGetBroker(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_broker"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /brokers/
	brokerID := strings.TrimPrefix(r.URL.Path, "/brokers/")
	if brokerID == "" || strings.Contains(brokerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	entry, err := h.deps.BrokerRank(r.Context(), brokerID)
	if err != nil {
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
