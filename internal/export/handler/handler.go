// Package handler exposes the table download endpoints.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agridash/internal/aggregate"
	"agridash/internal/dataset/models"
	"agridash/internal/export"
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

// Filterer narrows a snapshot to the requested subset before serialization.
type Filterer interface {
	Filter(snap *models.Snapshot, f aggregate.FilterSelection) (*aggregate.Tables, error)
}

// Handler handles export endpoints.
type Handler struct {
	logger   *slog.Logger
	sessions SnapshotProvider
	filter   Filterer
	metrics  *metrics.Metrics
}

// New creates an export Handler.
func New(sessions SnapshotProvider, filter Filterer, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
		filter:   filter,
		metrics:  m,
	}
}

// Register registers the export routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sessions/{sessionID}/export/{filename}", h.handleExport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	table, format, err := splitFilename(chi.URLParam(r, "filename"))
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

	tables, err := h.filter.Filter(snap, filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var t export.Table
	switch table {
	case export.TableIVS:
		t = export.IVSTable(tables.IVS)
	case export.TableTreeCrops:
		t = export.TreeCropTable(tables.TreeCrops)
	case export.TableVegetables:
		t = export.VegetableTable(tables.Vegetables)
	}

	write := export.WriteCSV
	contentType := "text/csv"
	if format == "xlsx" {
		write = export.WriteXLSX
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", table+"."+format))

	if err := write(w, t); err != nil {
		// Headers are already out; all we can do is log and cut the body.
		h.logger.ErrorContext(ctx, "failed to write export",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", sessionID.String(),
			"table", table,
			"format", format,
			"error", err.Error(),
		)
		return
	}
	h.metrics.IncrementExports(format, table)
}

var validTables = map[string]bool{
	export.TableIVS:        true,
	export.TableTreeCrops:  true,
	export.TableVegetables: true,
}

// splitFilename parses "treecrops.xlsx" into table and format.
func splitFilename(filename string) (table, format string, err error) {
	stem, ext, ok := strings.Cut(filename, ".")
	if !ok || !validTables[stem] {
		return "", "", dErrors.New(dErrors.CodeNotFound, "unknown export table")
	}
	if ext != "csv" && ext != "xlsx" {
		return "", "", dErrors.New(dErrors.CodeNotFound, "unknown export format")
	}
	return stem, ext, nil
}
