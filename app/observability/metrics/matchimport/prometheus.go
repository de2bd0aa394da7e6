package matchimportmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "matchdesk"

type prometheusMetrics struct {
	attempts        *prometheus.CounterVec
	successes       *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	resolutions     *prometheus.CounterVec
	commits         prometheus.Counter
	playersUpdated  prometheus.Counter
	rollbacks       prometheus.Counter
	payloadsByShape *prometheus.CounterVec
	auditEvents     *prometheus.CounterVec
}

// NewPrometheusMetrics registers the match import collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) MatchImportMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "operation_success_total",
			Help:      "Service operations that returned without an infrastructure error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "operation_failures_total",
			Help:      "Service operations that failed or panicked.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "name_resolutions_total",
			Help:      "Reconciled player names by resolution.",
		}, []string{"resolution"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "commits_total",
			Help:      "Committed imports.",
		}),
		playersUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "player_rows_written_total",
			Help:      "Player stat rows inserted or merged by commits.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "rollbacks_total",
			Help:      "Rolled back imports.",
		}),
		payloadsByShape: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "payloads_total",
			Help:      "Normalized payloads by detected shape.",
		}, []string{"shape"}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matchimport",
			Name:      "audit_events_total",
			Help:      "Domain events received by the audit subscriber.",
		}, []string{"topic"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.attempts, m.successes, m.failures, m.duration,
			m.resolutions, m.commits, m.playersUpdated, m.rollbacks, m.payloadsByShape, m.auditEvents,
		)
	}
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordNameResolution(_ context.Context, resolution string) {
	m.resolutions.WithLabelValues(resolution).Inc()
}

func (m *prometheusMetrics) RecordCommit(_ context.Context, playersUpdated int) {
	m.commits.Inc()
	m.playersUpdated.Add(float64(playersUpdated))
}

func (m *prometheusMetrics) RecordRollback(_ context.Context) {
	m.rollbacks.Inc()
}

func (m *prometheusMetrics) RecordPayloadShape(_ context.Context, shape string) {
	m.payloadsByShape.WithLabelValues(shape).Inc()
}

func (m *prometheusMetrics) RecordAuditEvent(_ context.Context, topic string) {
	m.auditEvents.WithLabelValues(topic).Inc()
}
