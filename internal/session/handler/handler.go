// Package handler exposes the session lifecycle and archive endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agridash/internal/dataset/models"
	"agridash/internal/dataset/store"
	"agridash/internal/platform/metrics"
	"agridash/internal/platform/middleware"
	"agridash/internal/transport/http/shared"
	id "agridash/pkg/domain"
	dErrors "agridash/pkg/domain-errors"
)

// Service defines the interface for session operations.
type Service interface {
	Create(ctx context.Context, seed *uint64) (id.SessionID, *models.Snapshot, error)
	Snapshot(ctx context.Context, sessionID id.SessionID) (*models.Snapshot, error)
	End(ctx context.Context, sessionID id.SessionID) error
}

// Archive persists snapshots beyond their session TTL. Nil when the
// deployment runs without a database; archive endpoints then answer 503.
type Archive interface {
	Append(ctx context.Context, sessionID id.SessionID, snap *models.Snapshot) (id.ArchiveID, error)
	FindBySession(ctx context.Context, sessionID id.SessionID) ([]store.ArchiveEntry, error)
}

// Handler handles session endpoints.
type Handler struct {
	logger   *slog.Logger
	sessions Service
	archive  Archive
	metrics  *metrics.Metrics
}

// New creates a session Handler. archive may be nil.
func New(sessions Service, archive Archive, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
		archive:  archive,
		metrics:  m,
	}
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Delete("/sessions/{sessionID}", h.handleEndSession)
	r.Post("/sessions/{sessionID}/archive", h.handleArchiveSnapshot)
	r.Get("/sessions/{sessionID}/archive", h.handleListArchive)
}

type createSessionRequest struct {
	Seed *uint64 `json:"seed"`
}

type createSessionResponse struct {
	SessionID   string         `json:"session_id"`
	Seed        uint64         `json:"seed"`
	GeneratedAt time.Time      `json:"generated_at"`
	Rows        map[string]int `json:"rows"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "invalid create session request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sessionID, snap, err := h.sessions.Create(ctx, req.Seed)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create session",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	h.metrics.IncrementSessions()

	shared.WriteJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:   sessionID.String(),
		Seed:        snap.Seed,
		GeneratedAt: snap.GeneratedAt,
		Rows: map[string]int{
			"ivs":        len(snap.IVS),
			"treecrops":  len(snap.TreeCrops),
			"vegetables": len(snap.Vegetables),
		},
	})
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.sessions.End(ctx, sessionID); err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to end session",
				"request_id", middleware.GetRequestID(ctx),
				"session_id", sessionID.String(),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type archiveResponse struct {
	ArchiveID string `json:"archive_id"`
	SessionID string `json:"session_id"`
}

func (h *Handler) handleArchiveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if h.archive == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "archive store not configured"))
		return
	}

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

	archiveID, err := h.archive.Append(ctx, sessionID, snap)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to archive snapshot",
			"request_id", requestID,
			"session_id", sessionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to archive snapshot"))
		return
	}
	h.metrics.IncrementArchived()

	shared.WriteJSON(w, http.StatusCreated, archiveResponse{
		ArchiveID: archiveID.String(),
		SessionID: sessionID.String(),
	})
}

func (h *Handler) handleListArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.archive == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "archive store not configured"))
		return
	}

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.archive.FindBySession(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list archive",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list archive"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID.String(),
		"entries":    entries,
		"count":      len(entries),
	})
}
