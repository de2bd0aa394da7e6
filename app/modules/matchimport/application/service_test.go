package matchimportservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	matchimportmetrics "github.com/fanclub-cms/matchdesk/app/observability/metrics/matchimport"
	"github.com/fanclub-cms/matchdesk/config"
)

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

var testRoster = []matchimportdomain.Player{
	{ID: "p-vini", Name: "Vinícius Júnior", Position: "FW", Active: true},
	{ID: "p-bell", Name: "Jude Bellingham", Position: "MF", Active: true},
	{ID: "p-mbappe", Name: "Kylian Mbappé", Position: "FW", Active: true},
	{ID: "p-valv", Name: "Federico Valverde", Position: "MF", Active: true},
	{ID: "p-fran", Name: "Fran García", Position: "DF", Active: true},
	{ID: "p-tc", Name: "Thibaut Courtois", Position: "GK", Active: true},
}

var fixedNow = time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo *FakeMatchImportRepo, pub *FakePublisher) *MatchImportService {
	t.Helper()
	if repo.ListActivePlayersFunc == nil {
		repo.ListActivePlayersFunc = func(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error) {
			return testRoster, nil
		}
	}
	pipeline, err := NewPipeline(config.ImportConfig{
		ClubKey:         "real_madrid",
		ClubDisplayName: "Real Madrid",
		Timezone:        "Europe/Madrid",
	}, nil)
	require.NoError(t, err)
	pipeline.Now = func() time.Time { return fixedNow }

	var publisher message.Publisher
	if pub != nil {
		publisher = pub
	}
	svc := NewMatchImportService(
		repo,
		publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		matchimportmetrics.NewNoop(),
		nil,
		nil,
		pipeline,
	)
	return svc
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		req          ValidateRequest
		wantState    matchimportdomain.ImportState
		wantResolved map[string]string
		wantPending  []string
		wantErr      func(t *testing.T, err error)
	}{
		{
			name:      "every name auto-confirmed",
			req:       ValidateRequest{RawJSON: getafePayload},
			wantState: matchimportdomain.StateValid,
			wantResolved: map[string]string{
				"Vinicius":   "p-vini",
				"Bellingham": "p-bell",
				"Mbappe":     "p-mbappe",
				"Valverde":   "p-valv",
			},
			wantPending: []string{},
		},
		{
			name:         "ambiguous name queued for review",
			req:          ValidateRequest{RawJSON: pendingPayload},
			wantState:    matchimportdomain.StatePlayerNameValidation,
			wantResolved: map[string]string{"Mbappe": "p-mbappe"},
			wantPending:  []string{"Garcia"},
		},
		{
			name:         "override resolves the ambiguous name",
			req:          ValidateRequest{RawJSON: pendingPayload, Overrides: map[string]string{"garcia": "p-fran"}},
			wantState:    matchimportdomain.StateValid,
			wantResolved: map[string]string{"Mbappe": "p-mbappe", "Garcia": "p-fran"},
			wantPending:  []string{},
		},
		{
			name:         "empty override leaves the name deliberately unmatched",
			req:          ValidateRequest{RawJSON: pendingPayload, Overrides: map[string]string{"Garcia": ""}},
			wantState:    matchimportdomain.StateValid,
			wantResolved: map[string]string{"Mbappe": "p-mbappe", "Garcia": ""},
			wantPending:  []string{},
		},
		{
			name: "invalid JSON",
			req:  ValidateRequest{RawJSON: `{"match":`},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, normalizer.IsParseError(err))
			},
		},
		{
			name: "empty payload",
			req:  ValidateRequest{RawJSON: "   "},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyPayload)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeMatchImportRepo()
			svc := newTestService(t, repo, nil)

			got, err := svc.Validate(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, "nested", got.Shape)
			assert.Equal(t, tt.wantResolved, got.Mapping)

			pending := []string{}
			for _, c := range got.Pending {
				pending = append(pending, c.OriginalName)
			}
			assert.Equal(t, tt.wantPending, pending)
			assert.Equal(t, []string{"ListActivePlayers"}, repo.Trace())
		})
	}
}

func TestValidate_PendingCarriesSuggestions(t *testing.T) {
	svc := newTestService(t, NewFakeMatchImportRepo(), nil)

	got, err := svc.Validate(context.Background(), ValidateRequest{RawJSON: pendingPayload})
	require.NoError(t, err)
	require.Len(t, got.Pending, 1)
	require.NotEmpty(t, got.Pending[0].Suggestions)
	assert.Equal(t, "p-fran", got.Pending[0].Suggestions[0].PlayerID)
	assert.False(t, got.Pending[0].Confirmed)
}

func TestValidate_RosterFailure(t *testing.T) {
	repo := NewFakeMatchImportRepo()
	repo.ListActivePlayersFunc = func(ctx context.Context, db bun.IDB) ([]matchimportdomain.Player, error) {
		return nil, errors.New("connection refused")
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Validate(context.Background(), ValidateRequest{RawJSON: getafePayload})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validate: failed to load roster: connection refused")
}

func TestPreview(t *testing.T) {
	t.Run("blocked while names are pending", func(t *testing.T) {
		svc := newTestService(t, NewFakeMatchImportRepo(), nil)

		_, err := svc.Preview(context.Background(), PreviewRequest{RawJSON: pendingPayload})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvedNames)

		var pending *PendingNamesError
		require.ErrorAs(t, err, &pending)
		require.Len(t, pending.Pending, 1)
		assert.Equal(t, "Garcia", pending.Pending[0].OriginalName)
	})

	t.Run("rows once resolved", func(t *testing.T) {
		repo := NewFakeMatchImportRepo()
		svc := newTestService(t, repo, nil)

		got, err := svc.Preview(context.Background(), PreviewRequest{RawJSON: getafePayload})
		require.NoError(t, err)
		assert.Equal(t, matchimportdomain.StatePreview, got.State)

		byName := map[string]matchimportdomain.PreviewRow{}
		for _, r := range got.Rows {
			byName[r.Name] = r
		}
		require.Len(t, byName, 4)
		assert.Equal(t, 1, byName["Vinicius"].Goals)
		assert.Equal(t, "p-vini", byName["Vinicius"].PlayerID)
		assert.Equal(t, 1, byName["Bellingham"].Assists)
		assert.Equal(t, 1, byName["Valverde"].YellowCards)
		assert.Equal(t, matchimportdomain.ImportSummary{TotalGoals: 2, TotalAssists: 1, YellowCards: 1}, got.Summary)

		// preview never writes
		for _, step := range repo.Trace() {
			assert.NotContains(t, []string{"UpsertMatch", "InsertPlayerStat", "UpdatePlayerStat", "InsertHistory"}, step)
		}
	})
}

func TestCommit_NewMatch(t *testing.T) {
	repo := NewFakeMatchImportRepo()
	pub := NewFakePublisher()

	var upserted *matchimportdomain.MatchRecord
	var inserted []matchimportdomain.PlayerStat
	var history *matchimportdomain.ImportHistoryEntry
	repo.UpsertMatchFunc = func(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error {
		upserted = match
		return nil
	}
	repo.InsertPlayerStatFunc = func(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
		inserted = append(inserted, stat)
		return nil
	}
	repo.InsertHistoryFunc = func(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error {
		history = entry
		return nil
	}

	svc := newTestService(t, repo, pub)
	got, err := svc.Commit(context.Background(), CommitRequest{RawJSON: getafePayload, ImportedBy: "admin@club"})
	require.NoError(t, err)

	assert.Equal(t, matchimportdomain.StateCommitted, got.State)
	assert.True(t, got.MatchCreated)
	assert.Equal(t, 4, got.PlayersUpdated)
	assert.NotEqual(t, uuid.Nil, got.MatchID)
	assert.Equal(t, matchimportdomain.ImportSummary{TotalGoals: 2, TotalAssists: 1, YellowCards: 1}, got.Summary)

	require.NotNil(t, upserted)
	assert.Equal(t, got.MatchID, upserted.ID)
	assert.Equal(t, "LaLiga", upserted.Competition)

	require.Len(t, inserted, 4)
	assert.Equal(t, "p-bell", inserted[0].PlayerID, "stats are written in player id order")
	for _, s := range inserted {
		assert.Equal(t, got.MatchID, s.MatchID)
	}

	require.NotNil(t, history)
	assert.Equal(t, got.HistoryID, history.ID)
	assert.Nil(t, history.PreviousMatch)
	assert.Empty(t, history.PreviousStats)
	assert.Equal(t, "admin@club", history.ImportedBy)
	assert.Equal(t, getafePayload, history.RawJSON)
	assert.Equal(t, fixedNow, history.CreatedAt)

	assert.Equal(t, []string{
		"ListActivePlayers",
		"GetMatch",
		"GetPlayerStats",
		"UpsertMatch",
		"GetPlayerStat", "InsertPlayerStat",
		"GetPlayerStat", "InsertPlayerStat",
		"GetPlayerStat", "InsertPlayerStat",
		"GetPlayerStat", "InsertPlayerStat",
		"InsertHistory",
	}, repo.Trace())

	msgs := pub.Messages(matchimportdomain.MatchImportCommittedV1)
	require.Len(t, msgs, 1)
	var payload matchimportdomain.MatchImportCommittedPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, got.HistoryID, payload.HistoryID)
	assert.Equal(t, 4, payload.PlayersUpdated)
	assert.True(t, payload.MatchCreated)
}

func TestCommit_MergesExistingStats(t *testing.T) {
	matchID := uuid.New()
	previous := &matchimportdomain.MatchRecord{ID: matchID, HomeTeam: "Real Madrid", AwayTeam: "Getafe", Status: matchimportdomain.StatusUpcoming}
	previousStats := []matchimportdomain.PlayerStat{
		{PlayerID: "p-vini", MatchID: matchID, Goals: 1, YellowCards: 1, MinutesPlayed: 90},
	}

	repo := NewFakeMatchImportRepo()
	repo.GetMatchFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error) {
		return previous, nil
	}
	repo.GetPlayerStatsFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]matchimportdomain.PlayerStat, error) {
		return previousStats, nil
	}
	repo.GetPlayerStatFunc = func(ctx context.Context, db bun.IDB, playerID string, id uuid.UUID) (*matchimportdomain.PlayerStat, error) {
		if playerID == "p-vini" {
			s := previousStats[0]
			return &s, nil
		}
		return nil, matchimportdb.ErrNotFound
	}
	var updated []matchimportdomain.PlayerStat
	repo.UpdatePlayerStatFunc = func(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
		updated = append(updated, stat)
		return nil
	}
	var history *matchimportdomain.ImportHistoryEntry
	repo.InsertHistoryFunc = func(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error {
		history = entry
		return nil
	}

	svc := newTestService(t, repo, nil)
	got, err := svc.Commit(context.Background(), CommitRequest{MatchID: &matchID, RawJSON: getafePayload})
	require.NoError(t, err)

	assert.Equal(t, matchID, got.MatchID)
	assert.False(t, got.MatchCreated)
	assert.Equal(t, 4, got.PlayersUpdated)

	require.Len(t, updated, 1)
	assert.Equal(t, "p-vini", updated[0].PlayerID)
	assert.Equal(t, 2, updated[0].Goals, "goals are summed")
	assert.Equal(t, 1, updated[0].YellowCards, "cards keep the max")
	assert.Equal(t, 90, updated[0].MinutesPlayed)

	require.NotNil(t, history)
	assert.Equal(t, previous, history.PreviousMatch)
	assert.Equal(t, previousStats, history.PreviousStats)
}

func TestCommit_Failures(t *testing.T) {
	tests := []struct {
		name      string
		req       CommitRequest
		setup     func(*FakeMatchImportRepo)
		wantErrIs error
		wantMsg   string
	}{
		{
			name:      "pending names",
			req:       CommitRequest{RawJSON: pendingPayload},
			wantErrIs: ErrUnresolvedNames,
		},
		{
			name: "snapshot read fails",
			req:  CommitRequest{RawJSON: getafePayload},
			setup: func(f *FakeMatchImportRepo) {
				f.GetMatchFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error) {
					return nil, errors.New("timeout")
				}
			},
			wantMsg: "Commit: failed to snapshot match: timeout",
		},
		{
			name: "stat insert fails",
			req:  CommitRequest{RawJSON: getafePayload},
			setup: func(f *FakeMatchImportRepo) {
				f.InsertPlayerStatFunc = func(ctx context.Context, db bun.IDB, stat matchimportdomain.PlayerStat) error {
					return errors.New("duplicate key")
				}
			},
			wantMsg: "Commit: failed to insert stats for p-bell: duplicate key",
		},
		{
			name: "history insert fails",
			req:  CommitRequest{RawJSON: getafePayload},
			setup: func(f *FakeMatchImportRepo) {
				f.InsertHistoryFunc = func(ctx context.Context, db bun.IDB, entry *matchimportdomain.ImportHistoryEntry) error {
					return errors.New("disk full")
				}
			},
			wantMsg: "Commit: failed to record import history: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeMatchImportRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			pub := NewFakePublisher()
			svc := newTestService(t, repo, pub)

			got, err := svc.Commit(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, got)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
			assert.Empty(t, pub.Messages(matchimportdomain.MatchImportCommittedV1), "nothing is published for a failed commit")
		})
	}
}

func TestCommit_PublishFailureDoesNotFail(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishFn = func(topic string, msgs ...*message.Message) error {
		return errors.New("broker down")
	}
	svc := newTestService(t, NewFakeMatchImportRepo(), pub)

	got, err := svc.Commit(context.Background(), CommitRequest{RawJSON: getafePayload})
	require.NoError(t, err)
	assert.Equal(t, 4, got.PlayersUpdated)
}

func TestRollback(t *testing.T) {
	matchID := uuid.New()
	historyID := uuid.New()
	previous := &matchimportdomain.MatchRecord{ID: matchID, HomeTeam: "Real Madrid", AwayTeam: "Getafe", Status: matchimportdomain.StatusUpcoming}
	previousStats := []matchimportdomain.PlayerStat{{PlayerID: "p-vini", MatchID: matchID, Goals: 1}}

	tests := []struct {
		name      string
		entry     *matchimportdomain.ImportHistoryEntry
		wantTrace []string
		want      *RollbackResult
		wantErrIs error
	}{
		{
			name: "restores the previous match and stats",
			entry: &matchimportdomain.ImportHistoryEntry{
				ID: historyID, MatchID: matchID, PreviousMatch: previous, PreviousStats: previousStats,
			},
			wantTrace: []string{"GetHistory", "ListHistory", "DeletePlayerStats", "UpsertMatch", "InsertPlayerStats", "DeleteHistory"},
			want:      &RollbackResult{HistoryID: historyID, MatchID: matchID, RestoredStats: 1},
		},
		{
			name:      "deletes a match the commit created",
			entry:     &matchimportdomain.ImportHistoryEntry{ID: historyID, MatchID: matchID},
			wantTrace: []string{"GetHistory", "ListHistory", "DeletePlayerStats", "DeleteMatch", "DeleteHistory"},
			want:      &RollbackResult{HistoryID: historyID, MatchID: matchID, MatchDeleted: true},
		},
		{
			name:      "unknown history entry",
			wantTrace: []string{"GetHistory"},
			wantErrIs: ErrHistoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeMatchImportRepo()
			if tt.entry != nil {
				repo.GetHistoryFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
					return tt.entry, nil
				}
			}
			var restoredMatch *matchimportdomain.MatchRecord
			var restoredStats []matchimportdomain.PlayerStat
			repo.UpsertMatchFunc = func(ctx context.Context, db bun.IDB, match *matchimportdomain.MatchRecord) error {
				restoredMatch = match
				return nil
			}
			repo.InsertPlayerStatsFunc = func(ctx context.Context, db bun.IDB, stats []matchimportdomain.PlayerStat) error {
				restoredStats = stats
				return nil
			}
			pub := NewFakePublisher()
			svc := newTestService(t, repo, pub)

			got, err := svc.Rollback(context.Background(), historyID)
			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Empty(t, pub.Messages(matchimportdomain.MatchImportRolledBackV1))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, pub.Messages(matchimportdomain.MatchImportRolledBackV1), 1)

			if tt.entry.PreviousMatch != nil {
				assert.Equal(t, previous, restoredMatch)
				assert.Equal(t, previousStats, restoredStats)
			}
		})
	}
}

func TestRollback_OnlyNewestEntry(t *testing.T) {
	matchID := uuid.New()
	olderID := uuid.New()
	newerID := uuid.New()
	older := &matchimportdomain.ImportHistoryEntry{ID: olderID, MatchID: matchID}

	tests := []struct {
		name      string
		newest    []matchimportdomain.ImportHistoryEntry
		wantTrace []string
		wantErrIs error
	}{
		{
			name:      "newer import recorded",
			newest:    []matchimportdomain.ImportHistoryEntry{{ID: newerID, MatchID: matchID}},
			wantTrace: []string{"GetHistory", "ListHistory"},
			wantErrIs: ErrHistoryNotLatest,
		},
		{
			name:      "entry is the newest",
			newest:    []matchimportdomain.ImportHistoryEntry{*older},
			wantTrace: []string{"GetHistory", "ListHistory", "DeletePlayerStats", "DeleteMatch", "DeleteHistory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeMatchImportRepo()
			repo.GetHistoryFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
				return older, nil
			}
			var seen matchimportdb.HistoryFilter
			repo.ListHistoryFunc = func(ctx context.Context, db bun.IDB, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
				seen = filter
				return tt.newest, nil
			}
			pub := NewFakePublisher()
			svc := newTestService(t, repo, pub)

			got, err := svc.Rollback(context.Background(), olderID)
			assert.Equal(t, tt.wantTrace, repo.Trace())
			require.NotNil(t, seen.MatchID)
			assert.Equal(t, matchID, *seen.MatchID)
			assert.Equal(t, 1, seen.Limit)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Contains(t, err.Error(), newerID.String())
				assert.Nil(t, got)
				assert.Empty(t, pub.Messages(matchimportdomain.MatchImportRolledBackV1))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.MatchDeleted)
		})
	}
}

func TestRollback_DeleteFailureSurfaces(t *testing.T) {
	repo := NewFakeMatchImportRepo()
	repo.GetHistoryFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.ImportHistoryEntry, error) {
		return &matchimportdomain.ImportHistoryEntry{ID: id, MatchID: uuid.New()}, nil
	}
	repo.DeletePlayerStatsFunc = func(ctx context.Context, db bun.IDB, matchID uuid.UUID) (int, error) {
		return 0, errors.New("lock timeout")
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Rollback(context.Background(), uuid.New())
	assert.EqualError(t, err, "Rollback: failed to clear player stats: lock timeout")
}

func TestGetMatch(t *testing.T) {
	matchID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		svc := newTestService(t, NewFakeMatchImportRepo(), nil)
		_, err := svc.GetMatch(context.Background(), matchID)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("match with stats", func(t *testing.T) {
		repo := NewFakeMatchImportRepo()
		repo.GetMatchFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*matchimportdomain.MatchRecord, error) {
			return &matchimportdomain.MatchRecord{ID: id, HomeTeam: "Real Madrid"}, nil
		}
		svc := newTestService(t, repo, nil)

		got, err := svc.GetMatch(context.Background(), matchID)
		require.NoError(t, err)
		assert.Equal(t, matchID, got.Match.ID)
		assert.NotNil(t, got.PlayerStats)
		assert.Empty(t, got.PlayerStats)
	})
}

func TestListHistory_ClampsLimit(t *testing.T) {
	repo := NewFakeMatchImportRepo()
	var seen matchimportdb.HistoryFilter
	repo.ListHistoryFunc = func(ctx context.Context, db bun.IDB, filter matchimportdb.HistoryFilter) ([]matchimportdomain.ImportHistoryEntry, error) {
		seen = filter
		return nil, nil
	}
	svc := newTestService(t, repo, nil)

	got, err := svc.ListHistory(context.Background(), matchimportdb.HistoryFilter{Limit: 10_000})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, maxHistoryLimit, seen.Limit)

	_, err = svc.ListHistory(context.Background(), matchimportdb.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, seen.Limit)
}

func TestGetHistory_NotFound(t *testing.T) {
	svc := newTestService(t, NewFakeMatchImportRepo(), nil)
	_, err := svc.GetHistory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestSearchPlayers(t *testing.T) {
	svc := newTestService(t, NewFakeMatchImportRepo(), nil)

	got, err := svc.SearchPlayers(context.Background(), "garc", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-fran", got[0].ID)

	got, err = svc.SearchPlayers(context.Background(), "zzz", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollectStats(t *testing.T) {
	matchID := uuid.New()
	rows := []matchimportdomain.PreviewRow{
		{Name: "Vini", PlayerID: "p-vini", Goals: 1, Minutes: matchimportdomain.IntPtr(60)},
		{Name: "Vinicius", PlayerID: "p-vini", Goals: 1, Assists: 1, Minutes: matchimportdomain.IntPtr(90)},
		{Name: "Unknown", PlayerID: "", Goals: 3},
		{Name: "Courtois", PlayerID: "p-tc", CleanSheet: true},
	}

	got := collectStats(rows, matchID)
	require.Len(t, got, 2)
	assert.Equal(t, matchimportdomain.PlayerStat{PlayerID: "p-tc", MatchID: matchID, CleanSheets: 1}, got[0])
	assert.Equal(t, matchimportdomain.PlayerStat{PlayerID: "p-vini", MatchID: matchID, Goals: 2, Assists: 1, MinutesPlayed: 90}, got[1])
}

func TestNewPipeline_InvalidMerge(t *testing.T) {
	_, err := NewPipeline(config.ImportConfig{Merge: config.MergeConfig{Goals: "average"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid merge policy")
}

func TestStoredCompetitions(t *testing.T) {
	repo := NewFakeMatchImportRepo()
	var asked []string
	repo.ResolveCompetitionFunc = func(ctx context.Context, db bun.IDB, alias string) (string, error) {
		asked = append(asked, alias)
		switch alias {
		case "copa_del_rey":
			return "Copa del Rey", nil
		case "boom":
			return "", errors.New("db down")
		}
		return "", matchimportdb.ErrNotFound
	}
	c := NewStoredCompetitions(repo)
	ctx := context.Background()

	name, ok, err := c.ResolveCompetition(ctx, " Copa del Rey ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Copa del Rey", name)

	_, ok, err = c.ResolveCompetition(ctx, "Trofeo Bernabéu")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.ResolveCompetition(ctx, "boom")
	assert.Error(t, err)

	_, ok, _ = c.ResolveCompetition(ctx, "  ")
	assert.False(t, ok)
	assert.Equal(t, []string{"copa_del_rey", "trofeo_bernabeu", "boom"}, asked)
}
