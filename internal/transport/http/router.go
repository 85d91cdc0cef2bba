// Package httptransport assembles the public HTTP surface: the shared
// middleware stack, operational endpoints, and every feature's routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agridash/internal/platform/metrics"
	"agridash/internal/platform/middleware"
	"agridash/internal/transport/http/shared"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// DefaultRequestTimeout bounds synchronous rendering work per request.
const DefaultRequestTimeout = 30 * time.Second

// NewRouter builds the chi router with the shared middleware stack and
// mounts each feature's routes.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, features ...Registrar) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(DefaultRequestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	for _, f := range features {
		f.Register(r)
	}
	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
