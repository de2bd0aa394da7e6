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

// InsertHistory appends a rollback snapshot. Missing id and timestamp are filled in.
func (r *Impl) InsertHistory(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(historyFromDomain(entry)).Exec(ctx); err != nil {
		return fmt.Errorf("matchimportdb.InsertHistory: %w", err)
	}
	return nil
}

// GetHistory retrieves a snapshot by id.
func (r *Impl) GetHistory(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
	db = r.resolveDB(db)
	row := new(ImportHistory)
	err := db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("matchimportdb.GetHistory: %w", err)
	}
	return row.toDomain(), nil
}

// ListHistory lists snapshots, newest first.
func (r *Impl) ListHistory(ctx context.Context, db bun.IDB, filter HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
	db = r.resolveDB(db)
	var rows []ImportHistory
	q := db.NewSelect().
		Model(&rows).
		Order("created_at DESC")
	if filter.MatchID != nil {
		q = q.Where("match_id = ?", *filter.MatchID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("matchimportdb.ListHistory: %w", err)
	}

	out := make([]matchimportdomain.ImportHistoryEntry, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

// DeleteHistory removes a snapshot.
func (r *Impl) DeleteHistory(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*ImportHistory)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchimportdb.DeleteHistory: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
