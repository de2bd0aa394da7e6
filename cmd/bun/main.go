package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	matchimportmigrations "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories/migrations"
	"github.com/fanclub-cms/matchdesk/config"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// migrations holds the connection opened by the Before hook.
type migrations struct {
	db       *bun.DB
	migrator *migrate.Migrator
	out      io.Writer
}

func newApp(out io.Writer) *cli.App {
	m := &migrations{out: out}
	return &cli.App{
		Name:  "bun",
		Usage: "matchdesk database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"MATCHDESK_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return nil
			}
			return m.open(c.String("config"))
		},
		After: func(c *cli.Context) error {
			if m.db != nil {
				return m.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "db",
				Usage: "manage the match import schema",
				Subcommands: []*cli.Command{
					{Name: "init", Usage: "create migration tables", Action: m.init},
					{Name: "migrate", Usage: "apply pending migrations", Action: m.migrate},
					{Name: "rollback", Usage: "roll back the last migration group", Action: m.rollback},
					{Name: "unlock", Usage: "release a stale migration lock", Action: m.unlock},
					{Name: "mark_applied", Usage: "mark pending migrations applied without running them", Action: m.markApplied},
					{Name: "create_go", Usage: "create a Go migration", ArgsUsage: "<name...>", Action: m.createGo},
					{Name: "status", Usage: "print migration status", Action: m.status},
				},
			},
		},
	}
}

func (m *migrations) open(configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn is not configured (set DATABASE_URL)")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	m.db = bun.NewDB(sqldb, pgdialect.New())
	m.migrator = migrate.NewMigrator(m.db, matchimportmigrations.Migrations)
	return nil
}

func (m *migrations) init(c *cli.Context) error {
	return m.migrator.Init(c.Context)
}

func (m *migrations) migrate(c *cli.Context) error {
	if err := m.migrator.Lock(c.Context); err != nil {
		return err
	}
	defer m.migrator.Unlock(c.Context) //nolint:errcheck

	group, err := m.migrator.Migrate(c.Context)
	if err != nil {
		return err
	}
	if group.IsZero() {
		fmt.Fprintln(m.out, "there are no new migrations to run (database is up to date)")
		return nil
	}
	fmt.Fprintf(m.out, "migrated to %s\n", group)
	return nil
}

func (m *migrations) rollback(c *cli.Context) error {
	if err := m.migrator.Lock(c.Context); err != nil {
		return err
	}
	defer m.migrator.Unlock(c.Context) //nolint:errcheck

	group, err := m.migrator.Rollback(c.Context)
	if err != nil {
		return err
	}
	if group.IsZero() {
		fmt.Fprintln(m.out, "there are no groups to roll back")
		return nil
	}
	fmt.Fprintf(m.out, "rolled back %s\n", group)
	return nil
}

func (m *migrations) unlock(c *cli.Context) error {
	return m.migrator.Unlock(c.Context)
}

func (m *migrations) markApplied(c *cli.Context) error {
	group, err := m.migrator.Migrate(c.Context, migrate.WithNopMigration())
	if err != nil {
		return err
	}
	if group.IsZero() {
		fmt.Fprintln(m.out, "there are no new migrations to mark as applied")
		return nil
	}
	fmt.Fprintf(m.out, "marked as applied %s\n", group)
	return nil
}

func (m *migrations) createGo(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New("migration name is required")
	}
	name := strings.Join(c.Args().Slice(), "_")
	mf, err := m.migrator.CreateGoMigration(c.Context, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "created migration %s (%s)\n", mf.Name, mf.Path)
	return nil
}

func (m *migrations) status(c *cli.Context) error {
	ms, err := m.migrator.MigrationsWithStatus(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "migrations: %s\n", ms)
	fmt.Fprintf(m.out, "unapplied migrations: %s\n", ms.Unapplied())
	fmt.Fprintf(m.out, "last migration group: %s\n", ms.LastGroup())
	return nil
}
