package matchimportdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// GetPlayerStats returns every stat row of a match, ordered by player id.
func (r *Impl) GetPlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]matchimportdomain.PlayerStat, error) {
	db = r.resolveDB(db)
	var rows []PlayerStat
	err := db.NewSelect().
		Model(&rows).
		Where("match_id = ?", matchID).
		Order("player_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchimportdb.GetPlayerStats: %w", err)
	}

	out := make([]matchimportdomain.PlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// GetPlayerStat returns the row for (playerID, matchID).
func (r *Impl) GetPlayerStat(ctx context.Context, db bun.IDB, playerID string, matchID uuid.UUID) (*matchimportdomain.PlayerStat, error) {
	db = r.resolveDB(db)
	row := new(PlayerStat)
	err := db.NewSelect().
		Model(row).
		Where("player_id = ?", playerID).
		Where("match_id = ?", matchID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("matchimportdb.GetPlayerStat: %w", err)
	}
	stat := row.toDomain()
	return &stat, nil
}

// InsertPlayerStat inserts one row.
func (r *Impl) InsertPlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
	db = r.resolveDB(db)
	row := statFromDomain(stat)
	if _, err := db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("matchimportdb.InsertPlayerStat: %w", err)
	}
	return nil
}

// UpdatePlayerStat overwrites the counters of an existing row.
func (r *Impl) UpdatePlayerStat(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*PlayerStat)(nil)).
		Set("goals = ?", stat.Goals).
		Set("assists = ?", stat.Assists).
		Set("minutes_played = ?", stat.MinutesPlayed).
		Set("yellow_cards = ?", stat.YellowCards).
		Set("red_cards = ?", stat.RedCards).
		Set("shots = ?", stat.Shots).
		Set("passes_completed = ?", stat.PassesCompleted).
		Set("tackles = ?", stat.Tackles).
		Set("interceptions = ?", stat.Interceptions).
		Set("saves = ?", stat.Saves).
		Set("clean_sheets = ?", stat.CleanSheets).
		Set("updated_at = ?", time.Now().UTC()).
		Where("player_id = ?", stat.PlayerID).
		Where("match_id = ?", stat.MatchID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchimportdb.UpdatePlayerStat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// DeletePlayerStats removes every row of a match and returns how many went.
func (r *Impl) DeletePlayerStats(ctx context.Context, db bun.IDB, matchID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*PlayerStat)(nil)).
		Where("match_id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("matchimportdb.DeletePlayerStats: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

// InsertPlayerStats bulk inserts rows verbatim.
func (r *Impl) InsertPlayerStats(ctx context.Context, db bun.IDB, stats []matchimportdomain.PlayerStat) error {
	if len(stats) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	rows := make([]PlayerStat, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, statFromDomain(s))
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("matchimportdb.InsertPlayerStats: %w", err)
	}
	return nil
}
