// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the published snapshot.
	TopN(ctx context.Context, n int) ([]RankedBroker, error)
	BrokerRank(ctx context.Context, brokerID string) (RankedBroker, error)
	Customer(ctx context.Context, policyNumber string) ([]model.EnrichedRecord, error)
	Regions(ctx context.Context) ([]model.RegionSummary, error)
	Quality(ctx context.Context) (quality.Report, error)
	RunInfo(ctx context.Context) (repository.RunInfo, error)

	// Refresh re-runs the pipeline and publishes a fresh snapshot.
	Refresh(ctx context.Context) (repository.RunInfo, error)
}

// RankedBroker mirrors the read shape returned by ranking queries.
type RankedBroker = repository.RankedBroker

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	rankingsHandler *RankingsHandler
	brokersHandler  *BrokersHandler
	customerHandler *CustomersHandler
	regionsHandler  *RegionsHandler
	qualityHandler  *QualityHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		rankingsHandler: NewRankingsHandler(deps, maxLimit),
		brokersHandler:  NewBrokersHandler(deps),
		customerHandler: NewCustomersHandler(deps),
		regionsHandler:  NewRegionsHandler(deps),
		qualityHandler:  NewQualityHandler(deps),
		refreshHandler:  NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/brokers/", MetricsMiddleware(s.brokersHandler.HandleGetBroker, "brokers"))
	mux.HandleFunc("/customers/", MetricsMiddleware(s.customerHandler.HandleGetCustomer, "customers"))
	mux.HandleFunc("/regions", MetricsMiddleware(s.regionsHandler.HandleGetRegions, "regions"))
	mux.HandleFunc("/quality", MetricsMiddleware(s.qualityHandler.HandleGetQuality, "quality"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeReadError translates snapshot read failures into HTTP statuses:
// unknown keys become 404 and a not-yet-published snapshot becomes 503.
func writeReadError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "snapshot_unavailable", NewKind(op, err))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
