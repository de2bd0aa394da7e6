// Package observability bundles the logger, Prometheus registry, tracer and
// module metrics handed to every module.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	matchimportmetrics "github.com/fanclub-cms/matchdesk/app/observability/metrics/matchimport"
	"github.com/fanclub-cms/matchdesk/config"
)

const instrumentationName = "github.com/fanclub-cms/matchdesk"

// Observability holds the process-wide telemetry handles.
type Observability struct {
	Logger             *slog.Logger
	Tracer             trace.Tracer
	PrometheusRegistry *prometheus.Registry
	MatchImportMetrics matchimportmetrics.MatchImportMetrics

	shutdown func(context.Context) error
}

// Init wires telemetry from configuration. Spans are exported over OTLP/gRPC
// only when an endpoint is configured.
func Init(ctx context.Context, cfg config.ObservabilityConfig) (*Observability, error) {
	logger := NewLogger(os.Stdout, cfg.Environment, cfg.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := &Observability{
		Logger:             logger,
		Tracer:             noop.NewTracerProvider().Tracer(instrumentationName),
		PrometheusRegistry: registry,
		MatchImportMetrics: matchimportmetrics.NewPrometheusMetrics(registry),
		shutdown:           func(context.Context) error { return nil },
	}

	if cfg.OTLPEndpoint == "" {
		return obs, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := sdkresource.Merge(sdkresource.Default(), sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("matchdesk"),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	obs.Tracer = provider.Tracer(instrumentationName)
	obs.shutdown = provider.Shutdown
	logger.InfoContext(ctx, "OTLP tracing enabled", slog.String("endpoint", cfg.OTLPEndpoint))

	return obs, nil
}

// Shutdown flushes pending spans.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}

// NewNoop returns telemetry that discards everything.
func NewNoop() *Observability {
	return &Observability{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:             noop.NewTracerProvider().Tracer(instrumentationName),
		PrometheusRegistry: prometheus.NewRegistry(),
		MatchImportMetrics: matchimportmetrics.NewNoop(),
	}
}
