package matchimportmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating match import tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS matches (
					id UUID PRIMARY KEY,
					home_team TEXT NOT NULL,
					away_team TEXT NOT NULL,
					home_logo TEXT,
					away_logo TEXT,
					home_score INTEGER,
					away_score INTEGER,
					match_date TIMESTAMPTZ NOT NULL,
					venue TEXT,
					competition TEXT,
					status VARCHAR(16) NOT NULL,
					match_details JSONB NOT NULL DEFAULT '{}'::jsonb,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_matches_match_date ON matches(match_date DESC);
			`); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					position TEXT,
					shirt_number INTEGER,
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS player_stats (
					id BIGSERIAL PRIMARY KEY,
					player_id TEXT NOT NULL,
					match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
					goals INTEGER NOT NULL DEFAULT 0,
					assists INTEGER NOT NULL DEFAULT 0,
					minutes_played INTEGER NOT NULL DEFAULT 0,
					yellow_cards INTEGER NOT NULL DEFAULT 0,
					red_cards INTEGER NOT NULL DEFAULT 0,
					shots INTEGER NOT NULL DEFAULT 0,
					passes_completed INTEGER NOT NULL DEFAULT 0,
					tackles INTEGER NOT NULL DEFAULT 0,
					interceptions INTEGER NOT NULL DEFAULT 0,
					saves INTEGER NOT NULL DEFAULT 0,
					clean_sheets INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_player_stats_player_match ON player_stats(player_id, match_id);
				CREATE INDEX IF NOT EXISTS idx_player_stats_match ON player_stats(match_id);
			`); err != nil {
				return fmt.Errorf("failed to create player_stats table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS import_history (
					id UUID PRIMARY KEY,
					match_id UUID NOT NULL,
					imported_by TEXT,
					raw_json TEXT NOT NULL,
					previous_match_data JSONB,
					previous_stats_data JSONB NOT NULL DEFAULT '[]'::jsonb,
					players_updated INTEGER NOT NULL DEFAULT 0,
					statistics_summary JSONB NOT NULL DEFAULT '{}'::jsonb,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_import_history_match_created ON import_history(match_id, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create import_history table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competition_aliases (
					alias TEXT PRIMARY KEY,
					name TEXT NOT NULL
				);
				INSERT INTO competition_aliases (alias, name) VALUES
					('laliga', 'LaLiga'),
					('la_liga', 'LaLiga'),
					('liga', 'LaLiga'),
					('champions_league', 'UEFA Champions League'),
					('ucl', 'UEFA Champions League'),
					('copa_del_rey', 'Copa del Rey'),
					('supercopa', 'Supercopa de España'),
					('club_world_cup', 'FIFA Club World Cup'),
					('mundial_de_clubes', 'FIFA Club World Cup'),
					('friendly', 'Friendly')
				ON CONFLICT (alias) DO NOTHING;
			`); err != nil {
				return fmt.Errorf("failed to create competition_aliases table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping match import tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range []string{"competition_aliases", "import_history", "player_stats", "players", "matches"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
					return fmt.Errorf("failed to drop %s: %w", table, err)
				}
			}
			return nil
		})
	})
}
