// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ppgmetrics/engiv/internal/domain/dedupe"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Import builds and installs a snapshot from a record batch.
	Import(ctx context.Context, batchID string, recs model.Records) (types.SnapshotInfo, error)

	// Read operations expose computed indicator data.
	Report(ctx context.Context) (types.Report, error)
	Indicator(ctx context.Context, name string) (types.IndicatorReport, error)
	Indicators(ctx context.Context) []string
	SnapshotInfo(ctx context.Context) (types.SnapshotInfo, error)
}

// validate checks import payloads against their struct tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	importHandler    *ImportHandler
	reportHandler    *ReportHandler
	indicatorHandler *IndicatorHandler
	snapshotHandler  *SnapshotHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		importHandler:    NewImportHandler(deps),
		reportHandler:    NewReportHandler(deps),
		indicatorHandler: NewIndicatorHandler(deps),
		snapshotHandler:  NewSnapshotHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/import", MetricsMiddleware(s.importHandler.HandlePostImport, "import"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("/indicators", MetricsMiddleware(s.indicatorHandler.HandleListIndicators, "indicators"))
	mux.HandleFunc("/indicators/", MetricsMiddleware(s.indicatorHandler.HandleGetIndicator, "indicator"))
}

type ackResponse struct {
	Status    string              `json:"status"`
	Duplicate bool                `json:"duplicate"`
	Snapshot  *types.SnapshotInfo `json:"snapshot,omitempty"`
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
