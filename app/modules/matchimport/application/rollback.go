package matchimportservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

// Rollback restores the match and statistics captured by a history entry and
// deletes the entry, in one transaction. A snapshot without a previous match
// means the commit created it, so the match is deleted. Only the newest entry
// of a match can be rolled back; older ones fail with ErrHistoryNotLatest.
func (s *MatchImportService) Rollback(ctx context.Context, historyID uuid.UUID) (*RollbackResult, error) {
	rollbackTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RollbackResult, error], error) {
		return s.rollbackLogic(ctx, db, historyID)
	}

	result, err := withTelemetry(s, ctx, "Rollback", historyID.String(), func(ctx context.Context) (results.OperationResult[*RollbackResult, error], error) {
		return runInTx(s, ctx, rollbackTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRollback(ctx)
	}
	s.publish(ctx, matchimportdomain.MatchImportRolledBackV1, matchimportdomain.MatchImportRolledBackPayload{
		HistoryID:     out.HistoryID,
		MatchID:       out.MatchID,
		MatchDeleted:  out.MatchDeleted,
		RestoredStats: out.RestoredStats,
		OccurredAt:    s.pipeline.Now().UTC(),
	})
	return out, nil
}

func (s *MatchImportService) rollbackLogic(ctx context.Context, db bun.IDB, historyID uuid.UUID) (results.OperationResult[*RollbackResult, error], error) {
	entry, err := s.repo.GetHistory(ctx, db, historyID)
	if err != nil {
		if errors.Is(err, matchimportdb.ErrNotFound) {
			return results.FailureResult[*RollbackResult, error](ErrHistoryNotFound), nil
		}
		return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to load history entry: %w", err)
	}

	newest, err := s.repo.ListHistory(ctx, db, matchimportdb.HistoryFilter{MatchID: &entry.MatchID, Limit: 1})
	if err != nil {
		return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to load newest history entry: %w", err)
	}
	if len(newest) > 0 && newest[0].ID != entry.ID {
		return results.FailureResult[*RollbackResult, error](fmt.Errorf("%w: roll back %s first", ErrHistoryNotLatest, newest[0].ID)), nil
	}

	if _, err := s.repo.DeletePlayerStats(ctx, db, entry.MatchID); err != nil {
		return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to clear player stats: %w", err)
	}

	out := &RollbackResult{HistoryID: entry.ID, MatchID: entry.MatchID}

	if entry.PreviousMatch != nil {
		prev := *entry.PreviousMatch
		prev.ID = entry.MatchID
		if err := s.repo.UpsertMatch(ctx, db, &prev); err != nil {
			return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to restore match: %w", err)
		}
		if err := s.repo.InsertPlayerStats(ctx, db, entry.PreviousStats); err != nil {
			return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to restore player stats: %w", err)
		}
		out.RestoredStats = len(entry.PreviousStats)
	} else {
		if err := s.repo.DeleteMatch(ctx, db, entry.MatchID); err != nil && !errors.Is(err, matchimportdb.ErrNoRowsAffected) {
			return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to delete match: %w", err)
		}
		out.MatchDeleted = true
	}

	if err := s.repo.DeleteHistory(ctx, db, entry.ID); err != nil {
		return results.OperationResult[*RollbackResult, error]{}, fmt.Errorf("failed to delete history entry: %w", err)
	}

	return results.SuccessResult[*RollbackResult, error](out), nil
}
