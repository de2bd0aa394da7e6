package matchimportdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// MatchFilter narrows ListMatches.
type MatchFilter struct {
	Status matchimportdomain.MatchStatus
	Limit  int
	Offset int
}

// HistoryFilter narrows ListHistory. A nil MatchID lists every match.
type HistoryFilter struct {
	MatchID *uuid.UUID
	Limit   int
}

// Repository defines the contract for match import persistence. Every method
// takes the bun.IDB to run on so callers can pass a transaction; nil uses
// the repository's own connection.
type Repository interface {
	// GetMatch retrieves a match by id.
	GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error)

	// ListMatches lists matches, most recent first.
	ListMatches(ctx context.Context, db bun.IDB, filter MatchFilter) ([]matchimportdomain.MatchRecord, error)

	// UpsertMatch creates the match or overwrites every field of an existing one.
	UpsertMatch(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error

	// DeleteMatch removes a match row.
	DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error

	// GetPlayerStats returns every stat row of a match.
	GetPlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]matchimportdomain.PlayerStat, error)

	// GetPlayerStat returns the row for (playerID, matchID).
	GetPlayerStat(ctx context.Context, db bun.IDB, playerID string, matchID uuid.UUID) (*matchimportdomain.PlayerStat, error)

	// InsertPlayerStat inserts one row.
	InsertPlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error

	// UpdatePlayerStat overwrites the counters of an existing row.
	UpdatePlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error

	// DeletePlayerStats removes every row of a match and returns how many went.
	DeletePlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) (int, error)

	// InsertPlayerStats bulk inserts rows verbatim.
	InsertPlayerStats(ctx context.Context, db bun.IDB, stats []matchimportdomain.PlayerStat) error

	// ListActivePlayers returns the active roster.
	ListActivePlayers(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error)

	// InsertHistory appends a rollback snapshot.
	InsertHistory(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error

	// GetHistory retrieves a snapshot by id.
	GetHistory(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error)

	// ListHistory lists snapshots, newest first.
	ListHistory(ctx context.Context, db bun.IDB, filter HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error)

	// DeleteHistory removes a snapshot.
	DeleteHistory(ctx context.Context, db bun.IDB, id uuid.UUID) error

	// ResolveCompetition looks up a folded competition alias.
	ResolveCompetition(ctx context.Context, db bun.IDB, alias string) (string, error)
}
