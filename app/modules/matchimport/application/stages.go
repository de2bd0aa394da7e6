package matchimportservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/reconcile"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

// isDomainFailure reports whether err is a user-correctable outcome rather
// than an infrastructure error.
func isDomainFailure(err error) bool {
	return normalizer.IsParseError(err) ||
		errors.Is(err, ErrEmptyPayload) ||
		errors.Is(err, ErrUnresolvedNames) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrHistoryNotFound) ||
		errors.Is(err, ErrHistoryNotLatest)
}

// classify routes err into a failure result or an infrastructure error.
func classify[S any](err error) (results.OperationResult[S, error], error) {
	if isDomainFailure(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}

// reconciled is the shared outcome of normalize + reconcile for one request.
type reconciled struct {
	match      *matchimportdomain.MatchRecord
	shape      normalizer.ShapeKind
	roster     *reconcile.Roster
	candidates []matchimportdomain.NameCandidate
}

func (r *reconciled) mapping() map[string]string {
	return reconcile.Mapping(r.candidates)
}

func (r *reconciled) pending() []matchimportdomain.NameCandidate {
	return reconcile.Pending(r.candidates)
}

// requireResolved fails with a *PendingNamesError while any name awaits a decision.
func (r *reconciled) requireResolved() error {
	if pending := r.pending(); len(pending) > 0 {
		return &PendingNamesError{Pending: pending}
	}
	return nil
}

func (s *MatchImportService) normalize(ctx context.Context, raw string) (*normalizer.Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyPayload
	}
	res, err := s.pipeline.Normalizer.Normalize(ctx, []byte(raw))
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPayloadShape(ctx, string(res.Shape))
	}
	return res, nil
}

// loadRoster reads the active roster once; the snapshot is passed down to every stage.
func (s *MatchImportService) loadRoster(ctx context.Context, db bun.IDB) (*reconcile.Roster, error) {
	players, err := s.repo.ListActivePlayers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return reconcile.NewRoster(players), nil
}

// reconcilePayload normalizes raw and reconciles its club player names.
func (s *MatchImportService) reconcilePayload(ctx context.Context, db bun.IDB, raw string, overrides map[string]string) (*reconciled, error) {
	res, err := s.normalize(ctx, raw)
	if err != nil {
		return nil, err
	}

	roster, err := s.loadRoster(ctx, db)
	if err != nil {
		return nil, err
	}

	candidates := s.pipeline.Reconciler.ReconcileAll(res.Match.ClubPlayerNames(), roster, reconcile.Overrides(overrides))
	if s.metrics != nil {
		for _, c := range candidates {
			s.metrics.RecordNameResolution(ctx, string(c.Resolution))
		}
	}

	return &reconciled{
		match:      res.Match,
		shape:      res.Shape,
		roster:     roster,
		candidates: candidates,
	}, nil
}
