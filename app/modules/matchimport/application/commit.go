package matchimportservice

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/preview"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	"github.com/fanclub-cms/matchdesk/pkg/results"
)

// Commit writes the match and its per-player statistics, merging with any
// stored rows, and records a history snapshot of what it replaced. Every write
// happens in one transaction.
func (s *MatchImportService) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	identifier := ""
	if req.MatchID != nil {
		identifier = req.MatchID.String()
	}

	commitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*CommitResult, error], error) {
		return s.commitLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "Commit", identifier, func(ctx context.Context) (results.OperationResult[*CommitResult, error], error) {
		return runInTx(s, ctx, commitTx)
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCommit(ctx, out.PlayersUpdated)
	}
	s.publish(ctx, matchimportdomain.MatchImportCommittedV1, matchimportdomain.MatchImportCommittedPayload{
		HistoryID:      out.HistoryID,
		MatchID:        out.MatchID,
		ImportedBy:     req.ImportedBy,
		MatchCreated:   out.MatchCreated,
		PlayersUpdated: out.PlayersUpdated,
		Summary:        out.Summary,
		OccurredAt:     s.pipeline.Now().UTC(),
	})
	return out, nil
}

func (s *MatchImportService) commitLogic(ctx context.Context, db bun.IDB, req CommitRequest) (results.OperationResult[*CommitResult, error], error) {
	rec, err := s.reconcilePayload(ctx, db, req.RawJSON, req.Mapping)
	if err != nil {
		return classify[*CommitResult](err)
	}
	if err := rec.requireResolved(); err != nil {
		return classify[*CommitResult](err)
	}

	match := rec.match
	switch {
	case req.MatchID != nil && *req.MatchID != uuid.Nil:
		match.ID = *req.MatchID
	case match.ID == uuid.Nil:
		match.ID = uuid.New()
	}

	// Snapshot
	previous, err := s.repo.GetMatch(ctx, db, match.ID)
	if err != nil {
		if !errors.Is(err, matchimportdb.ErrNotFound) {
			return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to snapshot match: %w", err)
		}
		previous = nil
	}
	previousStats, err := s.repo.GetPlayerStats(ctx, db, match.ID)
	if err != nil {
		return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to snapshot player stats: %w", err)
	}

	if err := s.repo.UpsertMatch(ctx, db, match); err != nil {
		return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to upsert match: %w", err)
	}

	incoming := collectStats(preview.Build(match, rec.mapping(), rec.roster), match.ID)

	var summary matchimportdomain.ImportSummary
	for _, stat := range incoming {
		summary.Add(stat)

		existing, err := s.repo.GetPlayerStat(ctx, db, stat.PlayerID, match.ID)
		switch {
		case err == nil:
			merged := s.pipeline.Merge.Merge(*existing, stat)
			if err := s.repo.UpdatePlayerStat(ctx, db, merged); err != nil {
				return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to update stats for %s: %w", stat.PlayerID, err)
			}
		case errors.Is(err, matchimportdb.ErrNotFound):
			if err := s.repo.InsertPlayerStat(ctx, db, stat); err != nil {
				return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to insert stats for %s: %w", stat.PlayerID, err)
			}
		default:
			return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to look up stats for %s: %w", stat.PlayerID, err)
		}
	}

	entry := &matchimportdomain.ImportHistoryEntry{
		ID:             uuid.New(),
		MatchID:        match.ID,
		ImportedBy:     req.ImportedBy,
		RawJSON:        req.RawJSON,
		PreviousMatch:  previous,
		PreviousStats:  previousStats,
		PlayersUpdated: len(incoming),
		Summary:        summary,
		CreatedAt:      s.pipeline.Now().UTC(),
	}
	if err := s.repo.InsertHistory(ctx, db, entry); err != nil {
		return results.OperationResult[*CommitResult, error]{}, fmt.Errorf("failed to record import history: %w", err)
	}

	return results.SuccessResult[*CommitResult, error](&CommitResult{
		State:          matchimportdomain.StateCommitted,
		MatchID:        match.ID,
		HistoryID:      entry.ID,
		MatchCreated:   previous == nil,
		PlayersUpdated: entry.PlayersUpdated,
		Summary:        summary,
	}), nil
}

// collectStats turns preview rows into stat rows, dropping names left unmatched
// and folding rows that resolved to the same player.
func collectStats(rows []matchimportdomain.PreviewRow, matchID uuid.UUID) []matchimportdomain.PlayerStat {
	byPlayer := make(map[string]matchimportdomain.PlayerStat, len(rows))
	for _, row := range rows {
		if row.PlayerID == "" {
			continue
		}
		stat := row.ToPlayerStat(matchID)
		prev, ok := byPlayer[stat.PlayerID]
		if !ok {
			byPlayer[stat.PlayerID] = stat
			continue
		}
		prev.Goals += stat.Goals
		prev.Assists += stat.Assists
		prev.YellowCards += stat.YellowCards
		prev.RedCards += stat.RedCards
		prev.MinutesPlayed = max(prev.MinutesPlayed, stat.MinutesPlayed)
		prev.Shots += stat.Shots
		prev.PassesCompleted += stat.PassesCompleted
		prev.Tackles += stat.Tackles
		prev.Interceptions += stat.Interceptions
		prev.Saves += stat.Saves
		prev.CleanSheets = max(prev.CleanSheets, stat.CleanSheets)
		byPlayer[stat.PlayerID] = prev
	}

	out := make([]matchimportdomain.PlayerStat, 0, len(byPlayer))
	for _, stat := range byPlayer {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
