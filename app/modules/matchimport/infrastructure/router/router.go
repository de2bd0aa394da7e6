package matchimportrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	matchimportmetrics "github.com/fanclub-cms/matchdesk/app/observability/metrics/matchimport"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// AuditRouter consumes match import events and writes them to the audit log.
type AuditRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	tracer         trace.Tracer
	metrics        matchimportmetrics.MatchImportMetrics
	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

func NewAuditRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
	importMetrics matchimportmetrics.MatchImportMetrics,
	prometheusRegistry *prometheus.Registry,
) *AuditRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &AuditRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metrics:        importMetrics,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

// Configure adds middleware and registers the audit handlers.
func (r *AuditRouter) Configure(ctx context.Context) error {
	if r.metricsEnabled {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.InfoContext(ctx, "Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
		traceHandler(r.tracer),
	)

	return r.RegisterHandlers(ctx)
}

// RegisterHandlers subscribes one audit handler per match import topic.
func (r *AuditRouter) RegisterHandlers(ctx context.Context) error {
	handlers := map[string]message.NoPublishHandlerFunc{
		matchimportdomain.MatchImportCommittedV1:  r.HandleCommitted,
		matchimportdomain.MatchImportRolledBackV1: r.HandleRolledBack,
	}

	for topic, handler := range handlers {
		handlerName := fmt.Sprintf("matchimport.audit.%s", topic)
		r.Router.AddNoPublisherHandler(handlerName, topic, r.subscriber, handler)
		r.logger.DebugContext(ctx, "Registered audit handler", attr.String("handler", handlerName))
	}
	return nil
}

// HandleCommitted records a committed import.
func (r *AuditRouter) HandleCommitted(msg *message.Message) error {
	ctx := msg.Context()

	var payload matchimportdomain.MatchImportCommittedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		// Malformed events are dropped rather than retried.
		r.logger.ErrorContext(ctx, "Dropping malformed committed event",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	r.metrics.RecordAuditEvent(ctx, matchimportdomain.MatchImportCommittedV1)
	r.logger.InfoContext(ctx, "audit: match import committed",
		attr.String("message_id", msg.UUID),
		attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
		attr.String("history_id", payload.HistoryID.String()),
		attr.String("match_id", payload.MatchID.String()),
		attr.String("imported_by", payload.ImportedBy),
		attr.Bool("match_created", payload.MatchCreated),
		attr.Int("players_updated", payload.PlayersUpdated),
		attr.Int("total_goals", payload.Summary.TotalGoals),
	)
	return nil
}

// HandleRolledBack records a rolled back import.
func (r *AuditRouter) HandleRolledBack(msg *message.Message) error {
	ctx := msg.Context()

	var payload matchimportdomain.MatchImportRolledBackPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.ErrorContext(ctx, "Dropping malformed rolled back event",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	r.metrics.RecordAuditEvent(ctx, matchimportdomain.MatchImportRolledBackV1)
	r.logger.InfoContext(ctx, "audit: match import rolled back",
		attr.String("message_id", msg.UUID),
		attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
		attr.String("history_id", payload.HistoryID.String()),
		attr.String("match_id", payload.MatchID.String()),
		attr.Bool("match_deleted", payload.MatchDeleted),
		attr.Int("restored_stats", payload.RestoredStats),
	)
	return nil
}

// Run blocks until ctx is cancelled or the router stops.
func (r *AuditRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

func (r *AuditRouter) Close() error {
	return r.Router.Close()
}

// traceHandler wraps each handled message in a span named after its handler.
func traceHandler(tracer trace.Tracer) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			ctx, span := tracer.Start(msg.Context(), message.HandlerNameFromCtx(msg.Context()),
				trace.WithSpanKind(trace.SpanKindConsumer),
				trace.WithAttributes(
					attribute.String("message_id", msg.UUID),
					attribute.String("topic", message.SubscribeTopicFromCtx(msg.Context())),
				),
			)
			defer span.End()
			msg.SetContext(ctx)

			out, err := h(msg)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return out, err
		}
	}
}
