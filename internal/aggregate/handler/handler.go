// Package handler exposes the dashboard and table endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agridash/internal/aggregate"
	"agridash/internal/dataset/models"
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

// Aggregator computes filtered subsets and dashboard aggregates.
type Aggregator interface {
	Filter(snap *models.Snapshot, f aggregate.FilterSelection) (*aggregate.Tables, error)
	Render(snap *models.Snapshot, f aggregate.FilterSelection) (*aggregate.Dashboard, error)
}

// Handler handles dashboard endpoints.
type Handler struct {
	logger    *slog.Logger
	sessions  SnapshotProvider
	aggregate Aggregator
}

// New creates a dashboard Handler.
func New(sessions SnapshotProvider, agg Aggregator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		sessions:  sessions,
		aggregate: agg,
	}
}

// Register registers the dashboard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sessions/{sessionID}/dashboard", h.handleDashboard)
	r.Get("/sessions/{sessionID}/tables/{table}", h.handleTable)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	snap, err := h.sessions.Snapshot(ctx, sessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	filter, err := aggregate.ParseFilter(r.URL.Query(), h.sessions.Config())
	if err != nil {
		h.logger.WarnContext(ctx, "rejected dashboard filter",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	dash, err := h.aggregate.Render(snap, filter)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidFilter) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to render dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to render dashboard"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
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

	tables, err := h.aggregate.Filter(snap, filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	table := chi.URLParam(r, "table")
	var body any
	var count int
	switch table {
	case "ivs":
		body, count = tables.IVS, len(tables.IVS)
	case "treecrops":
		body, count = tables.TreeCrops, len(tables.TreeCrops)
	case "vegetables":
		body, count = tables.Vegetables, len(tables.Vegetables)
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown table"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"table": table,
		"rows":  body,
		"count": count,
	})
}
