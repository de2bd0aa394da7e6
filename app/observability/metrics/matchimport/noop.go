package matchimportmetrics

import (
	"context"
	"time"
)

// NoOpMetrics discards every measurement.
type NoOpMetrics struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() MatchImportMetrics { return NoOpMetrics{} }

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordNameResolution(context.Context, string)                           {}
func (NoOpMetrics) RecordCommit(context.Context, int)                                      {}
func (NoOpMetrics) RecordRollback(context.Context)                                         {}
func (NoOpMetrics) RecordPayloadShape(context.Context, string)                             {}
func (NoOpMetrics) RecordAuditEvent(context.Context, string)                               {}
