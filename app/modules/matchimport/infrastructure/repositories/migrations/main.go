package matchimportmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the match import schema migrations.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
