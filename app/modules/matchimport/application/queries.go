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

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultSearchLimit  = 20
	defaultMatchLimit   = 50
	maxMatchLimit       = 200
)

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}

// ListHistory lists import snapshots, newest first.
func (s *MatchImportService) ListHistory(ctx context.Context, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
	filter.Limit = clampLimit(filter.Limit, defaultHistoryLimit, maxHistoryLimit)
	identifier := ""
	if filter.MatchID != nil {
		identifier = filter.MatchID.String()
	}

	result, err := withTelemetry(s, ctx, "ListHistory", identifier, func(ctx context.Context) (results.OperationResult[[]matchimportdomain.ImportHistoryEntry, error], error) {
		entries, err := s.repo.ListHistory(ctx, nil, filter)
		if err != nil {
			return results.OperationResult[[]matchimportdomain.ImportHistoryEntry, error]{}, fmt.Errorf("failed to list history: %w", err)
		}
		if entries == nil {
			entries = []matchimportdomain.ImportHistoryEntry{}
		}
		return results.SuccessResult[[]matchimportdomain.ImportHistoryEntry, error](entries), nil
	})
	return unwrap(result, err)
}

// GetHistory retrieves one import snapshot.
func (s *MatchImportService) GetHistory(ctx context.Context, historyID uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
	result, err := withTelemetry(s, ctx, "GetHistory", historyID.String(), func(ctx context.Context) (results.OperationResult[*matchimportdomain.ImportHistoryEntry, error], error) {
		entry, err := s.repo.GetHistory(ctx, nil, historyID)
		if err != nil {
			if errors.Is(err, matchimportdb.ErrNotFound) {
				return results.FailureResult[*matchimportdomain.ImportHistoryEntry, error](ErrHistoryNotFound), nil
			}
			return results.OperationResult[*matchimportdomain.ImportHistoryEntry, error]{}, fmt.Errorf("failed to get history: %w", err)
		}
		return results.SuccessResult[*matchimportdomain.ImportHistoryEntry, error](entry), nil
	})
	return unwrap(result, err)
}

// SearchPlayers does the roster substring search used for manual confirmation.
func (s *MatchImportService) SearchPlayers(ctx context.Context, query string, limit int) ([]matchimportdomain.Player, error) {
	limit = clampLimit(limit, defaultSearchLimit, defaultSearchLimit*5)

	result, err := withTelemetry(s, ctx, "SearchPlayers", query, func(ctx context.Context) (results.OperationResult[[]matchimportdomain.Player, error], error) {
		roster, err := s.loadRoster(ctx, nil)
		if err != nil {
			return results.OperationResult[[]matchimportdomain.Player, error]{}, err
		}
		players := roster.Search(query, limit)
		if players == nil {
			players = []matchimportdomain.Player{}
		}
		return results.SuccessResult[[]matchimportdomain.Player, error](players), nil
	})
	return unwrap(result, err)
}

// ListMatches lists stored matches, most recent first.
func (s *MatchImportService) ListMatches(ctx context.Context, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error) {
	filter.Limit = clampLimit(filter.Limit, defaultMatchLimit, maxMatchLimit)

	result, err := withTelemetry(s, ctx, "ListMatches", string(filter.Status), func(ctx context.Context) (results.OperationResult[[]matchimportdomain.MatchRecord, error], error) {
		matches, err := s.repo.ListMatches(ctx, nil, filter)
		if err != nil {
			return results.OperationResult[[]matchimportdomain.MatchRecord, error]{}, fmt.Errorf("failed to list matches: %w", err)
		}
		if matches == nil {
			matches = []matchimportdomain.MatchRecord{}
		}
		return results.SuccessResult[[]matchimportdomain.MatchRecord, error](matches), nil
	})
	return unwrap(result, err)
}

// GetMatch returns a match with its player statistics.
func (s *MatchImportService) GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchView, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*MatchView, error], error) {
		match, err := s.repo.GetMatch(ctx, db, matchID)
		if err != nil {
			if errors.Is(err, matchimportdb.ErrNotFound) {
				return results.FailureResult[*MatchView, error](ErrMatchNotFound), nil
			}
			return results.OperationResult[*MatchView, error]{}, fmt.Errorf("failed to get match: %w", err)
		}
		stats, err := s.repo.GetPlayerStats(ctx, db, matchID)
		if err != nil {
			return results.OperationResult[*MatchView, error]{}, fmt.Errorf("failed to get player stats: %w", err)
		}
		if stats == nil {
			stats = []matchimportdomain.PlayerStat{}
		}
		return results.SuccessResult[*MatchView, error](&MatchView{Match: match, PlayerStats: stats}), nil
	}

	result, err := withTelemetry(s, ctx, "GetMatch", matchID.String(), func(ctx context.Context) (results.OperationResult[*MatchView, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}
