package matchimportservice

import (
	"context"

	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

// Validate normalizes a payload and reconciles its names against the roster.
// A malformed payload fails with a *normalizer.ParseError.
func (s *MatchImportService) Validate(ctx context.Context, req ValidateRequest) (*ValidateResult, error) {
	validateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ValidateResult, error], error) {
		return s.validateLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "Validate", "", func(ctx context.Context) (results.OperationResult[*ValidateResult, error], error) {
		return runInTx(s, ctx, validateTx)
	})
	return unwrap(result, err)
}

func (s *MatchImportService) validateLogic(ctx context.Context, db bun.IDB, req ValidateRequest) (results.OperationResult[*ValidateResult, error], error) {
	rec, err := s.reconcilePayload(ctx, db, req.RawJSON, req.Overrides)
	if err != nil {
		return classify[*ValidateResult](err)
	}

	out := &ValidateResult{
		State:    matchimportdomain.StateValid,
		Shape:    string(rec.shape),
		Match:    rec.match,
		Resolved: []matchimportdomain.NameCandidate{},
		Pending:  []matchimportdomain.NameCandidate{},
		Mapping:  rec.mapping(),
	}
	for _, c := range rec.candidates {
		if c.Confirmed {
			out.Resolved = append(out.Resolved, c)
		} else {
			out.Pending = append(out.Pending, c)
		}
	}
	if len(out.Pending) > 0 {
		out.State = matchimportdomain.StatePlayerNameValidation
	}

	return results.SuccessResult[*ValidateResult, error](out), nil
}
