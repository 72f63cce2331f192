// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	repository "github.com/ppgmetrics/engiv/internal/adapters/repository"
	"github.com/ppgmetrics/engiv/internal/domain/indicator"
	"github.com/ppgmetrics/engiv/internal/domain/types"
)

// IndicatorDependencies defines the interface for single-indicator reads.
type IndicatorDependencies interface {
	Indicator(ctx context.Context, name string) (types.IndicatorReport, error)
	Indicators(ctx context.Context) []string
}

// IndicatorHandler handles indicator requests.
type IndicatorHandler struct {
	deps IndicatorDependencies
}

// NewIndicatorHandler creates a new indicator handler.
func NewIndicatorHandler(deps IndicatorDependencies) *IndicatorHandler {
	return &IndicatorHandler{deps: deps}
}

// indicatorListResponse mirrors the wire shape for GET /indicators.
type indicatorListResponse struct {
	Indicators []string `json:"indicators"`
}

// HandleListIndicators handles GET /indicators requests.
func (h *IndicatorHandler) HandleListIndicators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, indicatorListResponse{Indicators: h.deps.Indicators(r.Context())})
}

// HandleGetIndicator handles GET /indicators/{name} requests.
func (h *IndicatorHandler) HandleGetIndicator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /indicators/
	name := strings.TrimPrefix(r.URL.Path, "/indicators/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	report, err := h.deps.Indicator(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, indicator.ErrUnknownIndicator):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, repository.ErrNoSnapshot):
			writeError(w, http.StatusConflict, "no_snapshot", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}
