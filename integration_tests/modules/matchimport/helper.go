package matchimportintegrationtests

import (
	"context"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	matchimportmetrics "github.com/fanclub-cms/matchdesk/app/observability/metrics/matchimport"
	"github.com/fanclub-cms/matchdesk/integration_tests/testutils"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvOnce sync.Once
	testEnvErr  error
)

// roster matches the names used by the payloads below.
var roster = []matchimportdomain.Player{
	{ID: "p-vini", Name: "Vinícius Júnior", Position: "FW", ShirtNumber: 7, Active: true},
	{ID: "p-bell", Name: "Jude Bellingham", Position: "MF", ShirtNumber: 5, Active: true},
	{ID: "p-mbappe", Name: "Kylian Mbappé", Position: "FW", ShirtNumber: 9, Active: true},
	{ID: "p-valv", Name: "Federico Valverde", Position: "MF", ShirtNumber: 8, Active: true},
	{ID: "p-fran", Name: "Fran García", Position: "DF", ShirtNumber: 20, Active: true},
	{ID: "p-tc", Name: "Thibaut Courtois", Position: "GK", ShirtNumber: 1, Active: true},
}

const getafePayload = `{
  "match": {
    "teams": {"home": "real_madrid", "away": "getafe"},
    "score": {"real_madrid": 2, "getafe": 0},
    "date": "2025-10-19", "time": "21:00",
    "competition": "liga",
    "status": "termine"
  },
  "events": {
    "goals": [
      {"team": "real_madrid", "minute": 10, "scorer": "Vinicius", "assist": "Bellingham"},
      {"team": "real_madrid", "minute": 55, "scorer": "Mbappe"}
    ],
    "cards": [{"team": "real_madrid", "player": "Valverde", "minute": 40, "type": "yellow"}]
  }
}`

const pendingPayload = `{
  "match": {
    "teams": {"home": "real_madrid", "away": "getafe"},
    "score": {"real_madrid": 1, "getafe": 0},
    "date": "2025-10-19"
  },
  "events": {
    "goals": [{"team": "real_madrid", "minute": 10, "scorer": "Mbappe"}],
    "cards": [{"team": "real_madrid", "player": "Garcia", "minute": 30, "type": "yellow"}]
  }
}`

// TestDeps holds dependencies needed by individual tests.
type TestDeps struct {
	Ctx     context.Context
	BunDB   *bun.DB
	Repo    matchimportdb.Repository
	Service matchimportservice.Service
	Env     *testutils.TestEnvironment
}

// GetTestEnv lazily starts the shared containers.
func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()
	testEnvOnce.Do(func() {
		testEnv, testEnvErr = testutils.NewTestEnvironment(t)
	})
	if testEnvErr != nil {
		t.Fatalf("failed to set up test environment: %v", testEnvErr)
	}
	return testEnv
}

// SetupTestMatchImportService resets the database, seeds the roster and
// wires a service against the real repository. A nil publisher emits no events.
func SetupTestMatchImportService(t *testing.T, publisher message.Publisher) TestDeps {
	t.Helper()
	env := GetTestEnv(t)
	if err := env.Reset(); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}
	if err := testutils.SeedPlayers(env.Ctx, env.DB, roster...); err != nil {
		t.Fatalf("failed to seed roster: %v", err)
	}

	repo := matchimportdb.NewRepository(env.DB)
	pipeline, err := matchimportservice.NewPipeline(env.Config.Import, matchimportservice.NewStoredCompetitions(repo))
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	service := matchimportservice.NewMatchImportService(
		repo,
		publisher,
		env.Logger,
		matchimportmetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		env.DB,
		pipeline,
	)

	return TestDeps{
		Ctx:     env.Ctx,
		BunDB:   env.DB,
		Repo:    repo,
		Service: service,
		Env:     env,
	}
}

func statsByPlayer(stats []matchimportdomain.PlayerStat) map[string]matchimportdomain.PlayerStat {
	out := make(map[string]matchimportdomain.PlayerStat, len(stats))
	for _, s := range stats {
		out[s.PlayerID] = s
	}
	return out
}
