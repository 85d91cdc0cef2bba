// Command server runs the dashboard API: sample-data sessions, filtered
// aggregates, exports, and charts. Wiring only; business logic lives in the
// internal services.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"agridash/internal/aggregate"
	aggregatehandler "agridash/internal/aggregate/handler"
	aggregatemetrics "agridash/internal/aggregate/metrics"
	chartshandler "agridash/internal/charts/handler"
	"agridash/internal/dataset/generator"
	"agridash/internal/dataset/models"
	"agridash/internal/dataset/store"
	exporthandler "agridash/internal/export/handler"
	"agridash/internal/platform/config"
	"agridash/internal/platform/httpserver"
	"agridash/internal/platform/logger"
	"agridash/internal/platform/metrics"
	platformredis "agridash/internal/platform/redis"
	"agridash/internal/session"
	sessionhandler "agridash/internal/session/handler"
	httptransport "agridash/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()
	aggMetrics := aggregatemetrics.New()

	// Snapshot store: Redis when configured, in-memory otherwise.
	var snapshots store.SnapshotStore = store.NewInMemory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		snapshots = store.NewRedis(redisClient.Client)
		log.Info("snapshot store", "backend", "redis")
	} else {
		log.Info("snapshot store", "backend", "memory")
	}

	// Archive: optional, only with a database.
	var archive sessionhandler.Archive
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err.Error())
			os.Exit(1)
		}
		archiveStore := store.NewArchive(db)
		if err := archiveStore.EnsureSchema(ctx); err != nil {
			log.Error("archive schema setup failed", "error", err.Error())
			os.Exit(1)
		}
		archive = archiveStore
		log.Info("snapshot archive enabled")
	}

	gen := generator.New(models.DefaultConfig())
	sessions := session.NewService(snapshots, gen, cfg.SessionTTL)
	agg := aggregate.NewService(gen.Config(), aggMetrics)

	router := httptransport.NewRouter(log, m,
		sessionhandler.New(sessions, archive, log, m),
		aggregatehandler.New(sessions, agg, log),
		exporthandler.New(sessions, agg, log, m),
		chartshandler.New(sessions, agg, log, m),
	)

	apiServer := httpserver.New(cfg.Addr, router)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = httpserver.New(cfg.MetricsAddr, mux)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting api server", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			log.Info("starting metrics server", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gctx.Done():
			return gctx.Err()
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if metricsServer != nil {
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
