// Package matchimportmetrics records match import telemetry.
package matchimportmetrics

import (
	"context"
	"time"
)

// MatchImportMetrics is the metrics surface of the match import service.
type MatchImportMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordNameResolution counts reconciled names by resolution kind.
	RecordNameResolution(ctx context.Context, resolution string)
	// RecordCommit counts a commit and the player rows it touched.
	RecordCommit(ctx context.Context, playersUpdated int)
	RecordRollback(ctx context.Context)
	// RecordPayloadShape counts accepted payloads by detected shape.
	RecordPayloadShape(ctx context.Context, shape string)
	// RecordAuditEvent counts domain events seen by the audit subscriber.
	RecordAuditEvent(ctx context.Context, topic string)
}
