package matchimportintegrationtests

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

func TestCommitCreatesMatch(t *testing.T) {
	deps := SetupTestMatchImportService(t, nil)

	res, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{
		RawJSON:    getafePayload,
		ImportedBy: "editor@club",
	})
	require.NoError(t, err)
	assert.Equal(t, matchimportdomain.StateCommitted, res.State)
	assert.True(t, res.MatchCreated)
	assert.Equal(t, 4, res.PlayersUpdated)
	assert.Equal(t, matchimportdomain.ImportSummary{TotalGoals: 2, TotalAssists: 1, YellowCards: 1}, res.Summary)

	match, err := deps.Repo.GetMatch(deps.Ctx, nil, res.MatchID)
	require.NoError(t, err)
	assert.Equal(t, "Real Madrid", match.HomeTeam)
	assert.Equal(t, "LaLiga", match.Competition)
	assert.Equal(t, matchimportdomain.StatusFinished, match.Status)
	require.NotNil(t, match.HomeScore)
	assert.Equal(t, 2, *match.HomeScore)

	stats, err := deps.Repo.GetPlayerStats(deps.Ctx, nil, res.MatchID)
	require.NoError(t, err)
	byPlayer := statsByPlayer(stats)
	require.Len(t, byPlayer, 4)
	assert.Equal(t, 1, byPlayer["p-vini"].Goals)
	assert.Equal(t, 1, byPlayer["p-bell"].Assists)
	assert.Equal(t, 1, byPlayer["p-mbappe"].Goals)
	assert.Equal(t, 1, byPlayer["p-valv"].YellowCards)

	entry, err := deps.Service.GetHistory(deps.Ctx, res.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, "editor@club", entry.ImportedBy)
	assert.Equal(t, res.MatchID, entry.MatchID)
	assert.Nil(t, entry.PreviousMatch)
	assert.Empty(t, entry.PreviousStats)
}

func TestCommitBlockedByPendingNames(t *testing.T) {
	deps := SetupTestMatchImportService(t, nil)

	_, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{RawJSON: pendingPayload})
	require.Error(t, err)
	assert.True(t, errors.Is(err, matchimportservice.ErrUnresolvedNames))

	var pending *matchimportservice.PendingNamesError
	require.True(t, errors.As(err, &pending))
	require.Len(t, pending.Pending, 1)
	assert.Equal(t, "Garcia", pending.Pending[0].OriginalName)

	matches, err := deps.Repo.ListMatches(deps.Ctx, nil, matchimportdb.MatchFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches, "a blocked commit must not write anything")

	res, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{
		RawJSON: pendingPayload,
		Mapping: map[string]string{"Garcia": "p-fran"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.PlayersUpdated)
}

func TestRecommitMergesAndRollsBack(t *testing.T) {
	deps := SetupTestMatchImportService(t, nil)

	first, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{RawJSON: getafePayload})
	require.NoError(t, err)

	matchID := first.MatchID
	second, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{
		MatchID: &matchID,
		RawJSON: getafePayload,
	})
	require.NoError(t, err)
	assert.False(t, second.MatchCreated)
	assert.Equal(t, matchID, second.MatchID)

	stats, err := deps.Repo.GetPlayerStats(deps.Ctx, nil, matchID)
	require.NoError(t, err)
	byPlayer := statsByPlayer(stats)
	assert.Equal(t, 2, byPlayer["p-vini"].Goals, "goals are summed")
	assert.Equal(t, 2, byPlayer["p-bell"].Assists, "assists are summed")
	assert.Equal(t, 1, byPlayer["p-valv"].YellowCards, "cards keep the maximum")

	history, err := deps.Service.ListHistory(deps.Ctx, matchimportdb.HistoryFilter{MatchID: &matchID})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.HistoryID, history[0].ID, "newest first")

	_, err = deps.Service.Rollback(deps.Ctx, first.HistoryID)
	assert.ErrorIs(t, err, matchimportservice.ErrHistoryNotLatest)
	_, err = deps.Repo.GetMatch(deps.Ctx, nil, matchID)
	require.NoError(t, err, "an out-of-order rollback leaves the match in place")
	history, err = deps.Service.ListHistory(deps.Ctx, matchimportdb.HistoryFilter{MatchID: &matchID})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	rolled, err := deps.Service.Rollback(deps.Ctx, second.HistoryID)
	require.NoError(t, err)
	assert.False(t, rolled.MatchDeleted)
	assert.Equal(t, 4, rolled.RestoredStats)

	stats, err = deps.Repo.GetPlayerStats(deps.Ctx, nil, matchID)
	require.NoError(t, err)
	byPlayer = statsByPlayer(stats)
	assert.Equal(t, 1, byPlayer["p-vini"].Goals)
	assert.Equal(t, 1, byPlayer["p-bell"].Assists)

	rolled, err = deps.Service.Rollback(deps.Ctx, first.HistoryID)
	require.NoError(t, err)
	assert.True(t, rolled.MatchDeleted)

	_, err = deps.Repo.GetMatch(deps.Ctx, nil, matchID)
	assert.ErrorIs(t, err, matchimportdb.ErrNotFound)

	stats, err = deps.Repo.GetPlayerStats(deps.Ctx, nil, matchID)
	require.NoError(t, err)
	assert.Empty(t, stats)

	history, err = deps.Service.ListHistory(deps.Ctx, matchimportdb.HistoryFilter{MatchID: &matchID})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRollbackUnknownHistory(t *testing.T) {
	deps := SetupTestMatchImportService(t, nil)

	_, err := deps.Service.Rollback(deps.Ctx, uuid.New())
	assert.ErrorIs(t, err, matchimportservice.ErrHistoryNotFound)
}

func TestPublicMatchView(t *testing.T) {
	deps := SetupTestMatchImportService(t, nil)

	res, err := deps.Service.Commit(deps.Ctx, matchimportservice.CommitRequest{RawJSON: getafePayload})
	require.NoError(t, err)

	view, err := deps.Service.GetMatch(deps.Ctx, res.MatchID)
	require.NoError(t, err)
	assert.Equal(t, res.MatchID, view.Match.ID)
	assert.Len(t, view.PlayerStats, 4)

	list, err := deps.Service.ListMatches(deps.Ctx, matchimportdb.MatchFilter{Status: matchimportdomain.StatusFinished})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = deps.Service.ListMatches(deps.Ctx, matchimportdb.MatchFilter{Status: matchimportdomain.StatusUpcoming})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = deps.Service.GetMatch(deps.Ctx, uuid.New())
	assert.ErrorIs(t, err, matchimportservice.ErrMatchNotFound)
}
