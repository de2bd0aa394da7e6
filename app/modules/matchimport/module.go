package matchimport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	"github.com/fanclub-cms/matchdesk/app/eventbus"
	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	matchimporthandlers "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/handlers"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	matchimportrouter "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/router"
	"github.com/fanclub-cms/matchdesk/app/observability"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	"github.com/fanclub-cms/matchdesk/config"
	"github.com/fanclub-cms/matchdesk/pkg/jwt"
)

// Module wires the match import service, its HTTP API and its audit subscriber.
type Module struct {
	config      *config.Config
	service     matchimportservice.Service
	auditRouter *matchimportrouter.AuditRouter
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewModule creates a new match import module and mounts its routes on httpRouter.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus *eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing match import module")

	repo := matchimportdb.NewRepository(db)
	pipeline, err := matchimportservice.NewPipeline(cfg.Import, matchimportservice.NewStoredCompetitions(repo))
	if err != nil {
		return nil, fmt.Errorf("failed to build import pipeline: %w", err)
	}

	var publisher message.Publisher
	if eventBus != nil {
		publisher = eventBus
	}
	service := matchimportservice.NewMatchImportService(repo, publisher, logger, obs.MatchImportMetrics, tracer, db, pipeline)

	if httpRouter != nil {
		handlers := matchimporthandlers.NewMatchImportHandlers(service, logger, tracer)
		matchimporthandlers.RegisterRoutes(httpRouter, handlers, matchimporthandlers.RouteConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Limiter:        matchimporthandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
			Tokens:         jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL, cfg.JWT.Issuer),
		})
	}

	module := &Module{
		config:  cfg,
		service: service,
		logger:  logger,
	}

	if eventBus != nil {
		wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create audit router: %w", err)
		}
		audit := matchimportrouter.NewAuditRouter(logger, wmRouter, eventBus, tracer, obs.MatchImportMetrics, obs.PrometheusRegistry)
		if err := audit.Configure(ctx); err != nil {
			return nil, fmt.Errorf("failed to configure audit router: %w", err)
		}
		module.auditRouter = audit
	}

	return module, nil
}

// Run starts the audit subscriber and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting match import module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.auditRouter != nil {
		if err := m.auditRouter.Run(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Audit router stopped with error", attr.Error(err))
			return
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Match import module goroutine stopped")
}

// Close stops the match import module.
func (m *Module) Close() error {
	m.logger.Info("Stopping match import module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.auditRouter != nil {
		if err := m.auditRouter.Close(); err != nil {
			m.logger.Error("Error stopping audit router", attr.Error(err))
			return fmt.Errorf("error stopping audit router: %w", err)
		}
	}

	m.logger.Info("Match import module stopped")
	return nil
}

// GetService returns the match import service for use by other modules.
func (m *Module) GetService() matchimportservice.Service {
	return m.service
}
