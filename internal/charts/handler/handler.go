// Package handler exposes the chart PNG endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agridash/internal/aggregate"
	"agridash/internal/charts"
	"agridash/internal/dataset/models"
	"agridash/internal/platform/metrics"
	"agridash/internal/platform/middleware"
	"agridash/internal/transport/http/shared"
	id "agridash/pkg/domain"
	dErrors "agridash/pkg/domain-errors"
)

// SnapshotProvider resolves a session's generated tables.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, sessionID id.SessionID) (*models.Snapshot, error)
	Config() models.Config
}

// Renderer computes the grouped aggregates the charts draw from.
type Renderer interface {
	Render(snap *models.Snapshot, f aggregate.FilterSelection) (*aggregate.Dashboard, error)
}

// Handler handles chart endpoints.
type Handler struct {
	logger   *slog.Logger
	sessions SnapshotProvider
	renderer Renderer
	metrics  *metrics.Metrics
}

// New creates a charts Handler.
func New(sessions SnapshotProvider, renderer Renderer, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
		renderer: renderer,
		metrics:  m,
	}
}

// Register registers the chart routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sessions/{sessionID}/charts/{filename}", h.handleChart)
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	chart, ok := strings.CutSuffix(chi.URLParam(r, "filename"), ".png")
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown chart format"))
		return
	}

	snap, err := h.sessions.Snapshot(ctx, sessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	filter, err := aggregate.ParseFilter(r.URL.Query(), h.sessions.Config())
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	dash, err := h.renderer.Render(snap, filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	switch chart {
	case charts.ChartYieldGainByRegion:
		err = charts.YieldGainByRegion(w, dash.ByRegion)
	case charts.ChartFarmersByYear:
		err = charts.FarmersByYear(w, dash.ByYear)
	case charts.ChartVegGainByTechnique:
		err = charts.VegetableGainByTechnique(w, dash.ByTechnique)
	default:
		w.Header().Del("Content-Type")
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown chart"))
		return
	}
	if err != nil {
		// PNG bytes may already be on the wire; log and stop.
		h.logger.ErrorContext(ctx, "failed to render chart",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID.String(),
			"chart", chart,
			"error", err.Error(),
		)
		return
	}
	h.metrics.IncrementCharts(chart)
}
