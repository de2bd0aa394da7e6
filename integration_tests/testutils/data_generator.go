package testutils

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

var positions = []string{"GK", "DF", "MF", "FW"}

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was built with.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// GeneratePlayer creates a random active roster member.
func (g *TestDataGenerator) GeneratePlayer() matchimportdomain.Player {
	return matchimportdomain.Player{
		ID:          "p-" + uuid.NewString()[:8],
		Name:        g.faker.FirstName() + " " + g.faker.LastName(),
		Position:    positions[g.faker.IntRange(0, len(positions)-1)],
		ShirtNumber: g.faker.IntRange(1, 99),
		Active:      true,
	}
}

// GeneratePlayers creates count random players.
func (g *TestDataGenerator) GeneratePlayers(count int) []matchimportdomain.Player {
	players := make([]matchimportdomain.Player, count)
	for i := range players {
		players[i] = g.GeneratePlayer()
	}
	return players
}

// GenerateMatch creates a finished match against a random opponent.
func (g *TestDataGenerator) GenerateMatch(home string) *matchimportdomain.MatchRecord {
	homeScore := g.faker.IntRange(0, 5)
	awayScore := g.faker.IntRange(0, 5)
	return &matchimportdomain.MatchRecord{
		ID:        uuid.New(),
		HomeTeam:  home,
		AwayTeam:  g.faker.City() + " FC",
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		MatchDate: g.faker.DateRange(
			time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		).UTC().Truncate(time.Second),
		Venue:       g.faker.Street(),
		Competition: "LaLiga",
		Status:      matchimportdomain.StatusFinished,
	}
}

// SeedPlayers writes roster rows straight to the players table.
func SeedPlayers(ctx context.Context, db bun.IDB, players ...matchimportdomain.Player) error {
	if len(players) == 0 {
		return nil
	}
	rows := make([]matchimportdb.Player, 0, len(players))
	for _, p := range players {
		rows = append(rows, matchimportdb.Player{
			ID:          p.ID,
			Name:        p.Name,
			Position:    p.Position,
			ShirtNumber: p.ShirtNumber,
			Active:      p.Active,
		})
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed players: %w", err)
	}
	return nil
}
