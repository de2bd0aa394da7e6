package matchimportservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/reconcile"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	matchimportmetrics "github.com/fanclub-cms/matchdesk/app/observability/metrics/matchimport"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

const serviceName = "MatchImportService"

// Pipeline groups the pure stages the service drives.
type Pipeline struct {
	Normalizer *normalizer.Normalizer
	Reconciler *reconcile.Reconciler
	Merge      matchimportdomain.MergePolicy
	// Now stamps events; defaults to time.Now.
	Now func() time.Time
}

// MatchImportService implements the Service interface.
type MatchImportService struct {
	repo      matchimportdb.Repository
	publisher message.Publisher
	logger    *slog.Logger
	metrics   matchimportmetrics.MatchImportMetrics
	tracer    trace.Tracer
	db        *bun.DB
	pipeline  Pipeline
}

// NewMatchImportService creates a new MatchImportService. publisher may be nil,
// in which case no domain events are emitted.
func NewMatchImportService(
	repo matchimportdb.Repository,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics matchimportmetrics.MatchImportMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	pipeline Pipeline,
) *MatchImportService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline.Normalizer == nil {
		pipeline.Normalizer = normalizer.New(normalizer.Options{})
	}
	if pipeline.Reconciler == nil {
		pipeline.Reconciler = reconcile.New(reconcile.Options{})
	}
	if pipeline.Merge == (matchimportdomain.MergePolicy{}) {
		pipeline.Merge = matchimportdomain.DefaultMergePolicy()
	}
	if pipeline.Now == nil {
		pipeline.Now = time.Now
	}
	return &MatchImportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		pipeline:  pipeline,
	}
}

var _ Service = (*MatchImportService)(nil)

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *MatchImportService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	// Start span
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	// Infrastructure error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Domain failure
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *MatchImportService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			// Domain failures discovered mid-transaction must not leave partial writes.
			return errDomainFailure
		}
		return txErr
	})
	if errors.Is(err, errDomainFailure) {
		return result, nil
	}

	return result, err
}

// unwrap converts an operation result into the (value, error) pair returned
// by the public methods.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}
