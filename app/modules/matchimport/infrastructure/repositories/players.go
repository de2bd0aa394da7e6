package matchimportdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// ListActivePlayers returns the active roster ordered by name.
func (r *Impl) ListActivePlayers(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error) {
	db = r.resolveDB(db)
	var rows []Player
	err := db.NewSelect().
		Model(&rows).
		Where("active = TRUE").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchimportdb.ListActivePlayers: %w", err)
	}

	out := make([]matchimportdomain.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ResolveCompetition looks up a folded competition alias.
func (r *Impl) ResolveCompetition(ctx context.Context, db bun.IDB, alias string) (string, error) {
	db = r.resolveDB(db)
	row := new(CompetitionAlias)
	err := db.NewSelect().
		Model(row).
		Where("alias = ?", alias).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("matchimportdb.ResolveCompetition: %w", err)
	}
	return row.Name, nil
}
