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

// GetMatch retrieves a match by id.
func (r *Impl) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("matchimportdb.GetMatch: %w", err)
	}
	return match.toDomain(), nil
}

// ListMatches lists matches, most recent first.
func (r *Impl) ListMatches(ctx context.Context, db bun.IDB, filter MatchFilter) ([]matchimportdomain.MatchRecord, error) {
	db = r.resolveDB(db)
	var rows []Match
	q := db.NewSelect().
		Model(&rows).
		Order("match_date DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("matchimportdb.ListMatches: %w", err)
	}

	out := make([]matchimportdomain.MatchRecord, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

// UpsertMatch creates the match or overwrites every field of an existing one.
func (r *Impl) UpsertMatch(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error {
	db = r.resolveDB(db)
	if match.ID == uuid.Nil {
		return fmt.Errorf("matchimportdb.UpsertMatch: match id is required")
	}
	row := matchFromDomain(match)
	row.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("home_team = EXCLUDED.home_team").
		Set("away_team = EXCLUDED.away_team").
		Set("home_logo = EXCLUDED.home_logo").
		Set("away_logo = EXCLUDED.away_logo").
		Set("home_score = EXCLUDED.home_score").
		Set("away_score = EXCLUDED.away_score").
		Set("match_date = EXCLUDED.match_date").
		Set("venue = EXCLUDED.venue").
		Set("competition = EXCLUDED.competition").
		Set("status = EXCLUDED.status").
		Set("match_details = EXCLUDED.match_details").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchimportdb.UpsertMatch: %w", err)
	}
	return nil
}

// DeleteMatch removes a match row.
func (r *Impl) DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Match)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchimportdb.DeleteMatch: %w", err)
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
