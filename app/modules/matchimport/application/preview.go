package matchimportservice

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/preview"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

// Preview builds the per-player rows of a payload without writing anything.
// It fails with ErrUnresolvedNames while any club name is unconfirmed.
func (s *MatchImportService) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	previewTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*PreviewResult, error], error) {
		return s.previewLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "Preview", "", func(ctx context.Context) (results.OperationResult[*PreviewResult, error], error) {
		return runInTx(s, ctx, previewTx)
	})
	return unwrap(result, err)
}

func (s *MatchImportService) previewLogic(ctx context.Context, db bun.IDB, req PreviewRequest) (results.OperationResult[*PreviewResult, error], error) {
	rec, err := s.reconcilePayload(ctx, db, req.RawJSON, req.Mapping)
	if err != nil {
		return classify[*PreviewResult](err)
	}
	if err := rec.requireResolved(); err != nil {
		return classify[*PreviewResult](err)
	}

	rows := preview.Build(rec.match, rec.mapping(), rec.roster)
	if rows == nil {
		rows = []matchimportdomain.PreviewRow{}
	}
	return results.SuccessResult[*PreviewResult, error](&PreviewResult{
		State:   matchimportdomain.StatePreview,
		Match:   rec.match,
		Rows:    rows,
		Summary: preview.Totals(rows),
	}), nil
}
