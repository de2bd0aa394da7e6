package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/fanclub-cms/matchdesk/app/eventbus"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport"
	"github.com/fanclub-cms/matchdesk/app/observability"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	"github.com/fanclub-cms/matchdesk/config"
)

const shutdownTimeout = 10 * time.Second

// App holds the process-wide resources and the modules built on them.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.EventBus
	Router        chi.Router

	MatchImportModule *matchimport.Module

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// Initialize connects the database and event bus, then builds every module.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Logger

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(pgdb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	logger.InfoContext(ctx, "Connected to postgres")

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = eventBus

	app.Router = newHTTPRouter(logger)
	app.Router.Get("/healthz", app.handleHealthz)

	app.MatchImportModule, err = matchimport.NewModule(ctx, cfg, obs, app.DB, eventBus, app.Router)
	if err != nil {
		return fmt.Errorf("failed to initialize match import module: %w", err)
	}

	metricsHandler := promhttp.HandlerFor(obs.PrometheusRegistry, promhttp.HandlerOpts{})
	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		app.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	} else {
		app.Router.Handle("/metrics", metricsHandler)
	}

	app.httpServer = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      app.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return nil
}

func newHTTPRouter(logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "HTTP request",
				attr.ExtractCorrelationID(r.Context()),
				attr.String("method", r.Method),
				attr.String("path", r.URL.Path),
				attr.Int("status", ww.Status()),
				attr.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (app *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.DB.PingContext(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// Run serves HTTP and runs the modules until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(1)
	go app.MatchImportModule.Run(ctx, &app.wg)

	errCh := make(chan error, 2)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if app.metricsServer != nil {
		go func() {
			logger.InfoContext(ctx, "Metrics server listening", attr.String("addr", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts the servers down, stops the modules and releases connections.
func (app *App) Close() {
	logger := app.Observability.Logger
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.httpServer != nil {
		if err := app.httpServer.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down HTTP server", attr.Error(err))
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down metrics server", attr.Error(err))
		}
	}

	if app.MatchImportModule != nil {
		if err := app.MatchImportModule.Close(); err != nil {
			logger.Error("Error closing match import module", attr.Error(err))
		}
	}
	app.wg.Wait()

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Error closing database", attr.Error(err))
		}
	}

	if err := app.Observability.Shutdown(ctx); err != nil {
		logger.Error("Error flushing traces", attr.Error(err))
	}
	logger.Info("Application shut down gracefully")
}
