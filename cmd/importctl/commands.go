package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/preview"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/reconcile"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	"github.com/fanclub-cms/matchdesk/config"
	"github.com/fanclub-cms/matchdesk/pkg/jwt"
)

var errRosterRequired = errors.New("a roster is required: pass --roster or configure postgres.dsn")

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "importctl",
		Usage:     "offline match import tooling",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "print the normalized match for a payload",
				ArgsUsage: "<file|->",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					return runNormalize(c.Context, cfg, c.Args().First(), out)
				},
			},
			{
				Name:      "reconcile",
				Usage:     "reconcile the club player names of a payload against the roster",
				ArgsUsage: "<file|->",
				Flags:     rosterFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					overrides, err := parseOverrides(c.StringSlice("override"))
					if err != nil {
						return err
					}
					return runReconcile(c.Context, cfg, c.Args().First(), c.String("roster"), overrides, out)
				},
			},
			{
				Name:      "preview",
				Usage:     "print the per-player preview rows, or write them as a spreadsheet",
				ArgsUsage: "<file|->",
				Flags:     previewFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					overrides, err := parseOverrides(c.StringSlice("override"))
					if err != nil {
						return err
					}
					return runPreview(c.Context, cfg, c.Args().First(), c.String("roster"), overrides, c.String("xlsx"), out)
				},
			},
			{
				Name:  "token",
				Usage: "mint an admin API token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Required: true, Usage: "user id carried in the token"},
					&cli.StringFlag{Name: "role", Value: string(jwt.RoleEditor), Usage: "viewer, editor or admin"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to jwt.default_ttl"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					if cfg.JWT.Secret == "" {
						return errors.New("jwt.secret is not configured")
					}
					tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL, cfg.JWT.Issuer)
					token, err := tokens.GenerateToken(c.String("subject"), jwt.Role(c.String("role")), c.Duration("ttl"))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(out, token)
					return err
				},
			},
		},
	}
}

func previewFlags() []cli.Flag {
	return append(rosterFlags(),
		&cli.StringFlag{Name: "xlsx", Usage: "write the preview to this .xlsx file"},
	)
}

func rosterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "roster", Usage: "JSON file with the player roster; defaults to the database"},
		&cli.StringSliceFlag{Name: "override", Usage: "confirmed name as name=player_id (empty id leaves it unmatched)"},
	}
}

// loadConfig reads the config file when it exists and falls back to defaults
// so the tool works without a deployment config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.LoadConfig(path)
	}
	return config.Default(), nil
}

func readPayload(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func parseOverrides(values []string) (map[string]string, error) {
	overrides := make(map[string]string, len(values))
	for _, v := range values {
		name, id, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid override %q, want name=player_id", v)
		}
		overrides[strings.TrimSpace(name)] = strings.TrimSpace(id)
	}
	return overrides, nil
}

func newPipeline(cfg *config.Config) (matchimportservice.Pipeline, error) {
	return matchimportservice.NewPipeline(cfg.Import, normalizer.DefaultCompetitions())
}

func normalizePayload(ctx context.Context, cfg *config.Config, path string) (*normalizer.Result, matchimportservice.Pipeline, error) {
	pipeline, err := newPipeline(cfg)
	if err != nil {
		return nil, pipeline, err
	}
	raw, err := readPayload(path)
	if err != nil {
		return nil, pipeline, fmt.Errorf("failed to read payload: %w", err)
	}
	res, err := pipeline.Normalizer.Normalize(ctx, raw)
	if err != nil {
		return nil, pipeline, err
	}
	return res, pipeline, nil
}

func runNormalize(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	res, _, err := normalizePayload(ctx, cfg, path)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]any{
		"shape": res.Shape,
		"match": res.Match,
	})
}

type reconcileOutput struct {
	Resolved []matchimportdomain.NameCandidate `json:"resolved"`
	Pending  []matchimportdomain.NameCandidate `json:"pending"`
	Mapping  map[string]string                 `json:"mapping"`
}

func reconcilePayload(ctx context.Context, cfg *config.Config, path, rosterPath string, overrides map[string]string) (*normalizer.Result, *reconcile.Roster, []matchimportdomain.NameCandidate, error) {
	res, pipeline, err := normalizePayload(ctx, cfg, path)
	if err != nil {
		return nil, nil, nil, err
	}
	roster, err := loadRoster(ctx, cfg, rosterPath)
	if err != nil {
		return nil, nil, nil, err
	}
	candidates := pipeline.Reconciler.ReconcileAll(res.Match.ClubPlayerNames(), roster, reconcile.Overrides(overrides))
	return res, roster, candidates, nil
}

func runReconcile(ctx context.Context, cfg *config.Config, path, rosterPath string, overrides map[string]string, out io.Writer) error {
	_, _, candidates, err := reconcilePayload(ctx, cfg, path, rosterPath, overrides)
	if err != nil {
		return err
	}

	result := reconcileOutput{
		Resolved: []matchimportdomain.NameCandidate{},
		Pending:  reconcile.Pending(candidates),
		Mapping:  reconcile.Mapping(candidates),
	}
	for _, c := range candidates {
		if c.Confirmed {
			result.Resolved = append(result.Resolved, c)
		}
	}
	if result.Pending == nil {
		result.Pending = []matchimportdomain.NameCandidate{}
	}
	return writeJSON(out, result)
}

func runPreview(ctx context.Context, cfg *config.Config, path, rosterPath string, overrides map[string]string, xlsxPath string, out io.Writer) error {
	res, roster, candidates, err := reconcilePayload(ctx, cfg, path, rosterPath, overrides)
	if err != nil {
		return err
	}
	if pending := reconcile.Pending(candidates); len(pending) > 0 {
		return &matchimportservice.PendingNamesError{Pending: pending}
	}

	rows := preview.Build(res.Match, reconcile.Mapping(candidates), roster)
	if xlsxPath == "" {
		return writeJSON(out, map[string]any{
			"rows":    rows,
			"summary": preview.Totals(rows),
		})
	}

	f, err := os.Create(xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", xlsxPath, err)
	}
	if err := preview.WriteXLSX(f, res.Match, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "wrote %d rows to %s\n", len(rows), xlsxPath)
	return err
}

// loadRoster reads players from a JSON file, or from the database when no file is given.
func loadRoster(ctx context.Context, cfg *config.Config, path string) (*reconcile.Roster, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		var players []matchimportdomain.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return nil, fmt.Errorf("failed to parse roster: %w", err)
		}
		return reconcile.NewRoster(players), nil
	}

	if cfg.Postgres.DSN == "" {
		return nil, errRosterRequired
	}
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	players, err := matchimportdb.NewRepository(db).ListActivePlayers(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return reconcile.NewRoster(players), nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
