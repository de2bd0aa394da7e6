package matchimportservice

import (
	"context"

	"github.com/google/uuid"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

// Service defines the match import operations.
type Service interface {
	Validate(ctx context.Context, req ValidateRequest) (*ValidateResult, error)
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error)
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
	Rollback(ctx context.Context, historyID uuid.UUID) (*RollbackResult, error)

	ListHistory(ctx context.Context, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error)
	GetHistory(ctx context.Context, historyID uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error)
	SearchPlayers(ctx context.Context, query string, limit int) ([]matchimportdomain.Player, error)

	ListMatches(ctx context.Context, filter matchimportdb.MatchFilter) ([]matchimportdomain.MatchRecord, error)
	GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchView, error)
}

// ValidateRequest carries a pasted payload and any names already confirmed.
type ValidateRequest struct {
	RawJSON   string            `json:"raw_json"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// ValidateResult reports the normalized match and how its names reconciled.
type ValidateResult struct {
	State    matchimportdomain.ImportState     `json:"state"`
	Shape    string                            `json:"shape"`
	Match    *matchimportdomain.MatchRecord    `json:"match"`
	Resolved []matchimportdomain.NameCandidate `json:"resolved"`
	Pending  []matchimportdomain.NameCandidate `json:"pending"`
	Mapping  map[string]string                 `json:"mapping"`
}

// PreviewRequest asks for the per-player rows of a payload.
type PreviewRequest struct {
	RawJSON string            `json:"raw_json"`
	Mapping map[string]string `json:"mapping,omitempty"`
}

// PreviewResult is what the administrator reviews before committing.
type PreviewResult struct {
	State   matchimportdomain.ImportState   `json:"state"`
	Match   *matchimportdomain.MatchRecord  `json:"match"`
	Rows    []matchimportdomain.PreviewRow  `json:"rows"`
	Summary matchimportdomain.ImportSummary `json:"summary"`
}

// CommitRequest writes a payload. A nil MatchID targets the id carried by the
// payload, or a new match.
type CommitRequest struct {
	MatchID    *uuid.UUID        `json:"match_id,omitempty"`
	RawJSON    string            `json:"raw_json"`
	Mapping    map[string]string `json:"mapping,omitempty"`
	ImportedBy string            `json:"-"`
}

// CommitResult reports a successful commit.
type CommitResult struct {
	State          matchimportdomain.ImportState   `json:"state"`
	MatchID        uuid.UUID                       `json:"match_id"`
	HistoryID      uuid.UUID                       `json:"history_id"`
	MatchCreated   bool                            `json:"match_created"`
	PlayersUpdated int                             `json:"players_updated"`
	Summary        matchimportdomain.ImportSummary `json:"statistics_summary"`
}

// RollbackResult reports a successful rollback.
type RollbackResult struct {
	HistoryID     uuid.UUID `json:"history_id"`
	MatchID       uuid.UUID `json:"match_id"`
	MatchDeleted  bool      `json:"match_deleted"`
	RestoredStats int       `json:"restored_stats"`
}

// MatchView is a match with its per-player statistics, for the public viewer.
type MatchView struct {
	Match       *matchimportdomain.MatchRecord `json:"match"`
	PlayerStats []matchimportdomain.PlayerStat `json:"player_stats"`
}
