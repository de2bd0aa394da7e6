package normalizer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeCompetitions struct {
	entries map[string]string
	err     error
	calls   []string
}

func (f *fakeCompetitions) ResolveCompetition(_ context.Context, raw string) (string, bool, error) {
	f.calls = append(f.calls, raw)
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.entries[raw]
	return name, ok, nil
}

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

func newTestNormalizer(t *testing.T, competitions CompetitionResolver) *Normalizer {
	return New(Options{
		ClubKey:         "real_madrid",
		ClubDisplayName: "Real Madrid",
		ClubAliases:     []string{"realmadrid"},
		Location:        madrid(t),
		Clock:           fixedClock{t: time.Date(2025, 11, 4, 12, 30, 0, 0, time.UTC)},
		Competitions:    competitions,
	})
}

func TestNormalize_NestedExample(t *testing.T) {
	n := newTestNormalizer(t, nil)
	raw := `{"match":{"teams":{"home":"liverpool","away":"real_madrid"},"score":{"liverpool":1,"real_madrid":0},"date":"2025-11-04","time":"20:00","status":"termine"},"events":{"goals":[{"team":"liverpool","minute":61,"scorer":"a_mac_allister"}]}}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, ShapeNested, res.Shape)

	m := res.Match
	assert.Equal(t, "Liverpool", m.HomeTeam)
	assert.Equal(t, "Real Madrid", m.AwayTeam)
	require.NotNil(t, m.HomeScore)
	require.NotNil(t, m.AwayScore)
	assert.Equal(t, 1, *m.HomeScore)
	assert.Equal(t, 0, *m.AwayScore)
	assert.Equal(t, matchimportdomain.StatusFinished, m.Status)
	assert.True(t, time.Date(2025, 11, 4, 20, 0, 0, 0, madrid(t)).Equal(m.MatchDate))
	assert.Equal(t, "Real Madrid", m.Details.ClubTeam)

	require.Len(t, m.Details.Goals, 1)
	assert.Equal(t, matchimportdomain.GoalEvent{Team: "Liverpool", Scorer: "a_mac_allister", Minute: 61}, m.Details.Goals[0])

	assert.Empty(t, m.ClubPlayerNames(), "opposition scorers are never reconciled")
}

func TestNormalize_NestedFullPayload(t *testing.T) {
	competitions := &fakeCompetitions{entries: map[string]string{"Liga": "LaLiga"}}
	n := newTestNormalizer(t, competitions)
	raw := `{
	  "Match": {
	    " Teams ": {"Home": {"name": "real_madrid", "logo": "https://cdn/rm.png"}, "Away": "atletico_madrid"},
	    "Score": "3-1",
	    "Date": "2025-09-27", "Time": "16:15",
	    "Venue": "Santiago Bernabéu",
	    "Competition": "Liga"
	  },
	  "Events": {
	    "Goals": [
	      {"team": "home", "minute": "45+2'", "scorer": "Mbappé", "assist": "Vinícius"},
	      {"team": "atletico_madrid", "minute": 70, "scorer": "Griezmann", "type": "penalty"},
	      {"team": "real_madrid", "minute": 80, "scorer": "Giménez", "own_goal": true}
	    ],
	    "Fouls": [
	      {"team": "real_madrid", "player": "Camavinga", "minute": 34, "card": "jaune"},
	      {"team": "atletico_madrid", "player": "Koke", "minute": 50}
	    ],
	    "Substitutions": [{"team": "real_madrid", "minute": 75, "in": "Brahim", "out": "Rodrygo"}]
	  },
	  "Statistics": {
	    "possession": {"real_madrid": "58%", "atletico_madrid": 42},
	    "shots": {"home": 17, "away": 9},
	    "players": [{"team": "real_madrid", "player": "Courtois", "position": "gk", "saves": 4, "minutes": 90}]
	  }
	}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	m := res.Match

	assert.Equal(t, "Real Madrid", m.HomeTeam)
	assert.Equal(t, "Atletico Madrid", m.AwayTeam)
	assert.Equal(t, "https://cdn/rm.png", m.HomeLogo)
	assert.Equal(t, 3, *m.HomeScore)
	assert.Equal(t, 1, *m.AwayScore)
	assert.Equal(t, "LaLiga", m.Competition)
	assert.Equal(t, "Santiago Bernabéu", m.Venue)
	assert.Equal(t, matchimportdomain.StatusFinished, m.Status)
	assert.Equal(t, []string{"Liga"}, competitions.calls)

	require.Len(t, m.Details.Goals, 3)
	assert.Equal(t, matchimportdomain.GoalEvent{Team: "Real Madrid", Scorer: "Mbappé", Assist: "Vinícius", Minute: 45, AddedTime: 2}, m.Details.Goals[0])
	assert.True(t, m.Details.Goals[1].Penalty)
	assert.True(t, m.Details.Goals[2].OwnGoal)

	require.Len(t, m.Details.Cards, 1, "cards are rebuilt from fouls carrying a card")
	assert.Equal(t, matchimportdomain.CardEvent{Team: "Real Madrid", Player: "Camavinga", Minute: 34, Type: matchimportdomain.CardYellow, Label: "Camavinga (34')"}, m.Details.Cards[0])

	assert.Equal(t, 58.0, m.Details.Statistics.Home.Possession)
	assert.Equal(t, 42.0, m.Details.Statistics.Away.Possession)
	assert.Equal(t, 17, m.Details.Statistics.Home.Shots)
	assert.Equal(t, 9, m.Details.Statistics.Away.Shots)

	require.Len(t, m.Details.PlayerStats, 1)
	assert.Equal(t, "GK", m.Details.PlayerStats[0].Position)
	assert.Equal(t, 4, m.Details.PlayerStats[0].Saves)

	assert.Equal(t, []string{"Mbappé", "Vinícius", "Camavinga", "Rodrygo", "Brahim", "Courtois"}, m.ClubPlayerNames())
}

func TestNormalize_ExplicitCardsWinOverFouls(t *testing.T) {
	n := newTestNormalizer(t, nil)
	raw := `{"match":{"teams":{"home":"real_madrid","away":"getafe"},"date":"2025-01-01"},
	  "events":{"cards":[{"team":"real_madrid","player":"Valverde","minute":"90+1","type":"second_yellow"}],
	            "fouls":[{"team":"real_madrid","player":"Tchouaméni","minute":10,"card":"yellow"}]}}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	require.Len(t, res.Match.Details.Cards, 1)
	c := res.Match.Details.Cards[0]
	assert.Equal(t, matchimportdomain.CardSecondYellow, c.Type)
	assert.Equal(t, "Valverde (90+1')", c.Label)
	assert.Equal(t, matchimportdomain.StatusUpcoming, res.Match.Status)
}

func TestNormalize_FlatShapeSideFromKeyOrder(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name     string
		raw      string
		wantHome string
		wantAway string
		homeGoal int
		awayGoal int
	}{
		{
			name:     "club listed second plays away",
			raw:      `{"score":{"getafe":0,"realmadrid_cf":2},"goals":[{"team":"realmadrid_cf","scorer":"Mbappé","minute":12}],"date":"2025-03-01"}`,
			wantHome: "Getafe",
			wantAway: "Real Madrid",
			homeGoal: 0,
			awayGoal: 2,
		},
		{
			name:     "club listed first plays home",
			raw:      `{"SCORE":{"Real_Madrid":4,"Girona":1},"possession":{"real_madrid":61,"girona":39},"date":"2025-03-08"}`,
			wantHome: "Real Madrid",
			wantAway: "Girona",
			homeGoal: 4,
			awayGoal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.Normalize(context.Background(), []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, ShapeFlat, res.Shape)
			assert.Equal(t, tt.wantHome, res.Match.HomeTeam)
			assert.Equal(t, tt.wantAway, res.Match.AwayTeam)
			assert.Equal(t, tt.homeGoal, *res.Match.HomeScore)
			assert.Equal(t, tt.awayGoal, *res.Match.AwayScore)
			assert.Equal(t, "Real Madrid", res.Match.Details.ClubTeam)
			assert.False(t, res.Match.MatchDate.IsZero())
		})
	}
}

func TestNormalize_FlatGoalsAttributedToClub(t *testing.T) {
	n := newTestNormalizer(t, nil)
	raw := `{"score":{"getafe":0,"realmadrid_cf":1},"possession":{"getafe":"40","realmadrid_cf":"60"},"goals":[{"team":"realmadrid_cf","scorer":"Bellingham","minute":12}]}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	m := res.Match
	assert.Equal(t, []string{"Bellingham"}, m.ClubPlayerNames())
	assert.Equal(t, 40.0, m.Details.Statistics.Home.Possession)
	assert.Equal(t, 60.0, m.Details.Statistics.Away.Possession)
	// missing date defaults to the clock's day in the configured zone
	assert.True(t, time.Date(2025, 11, 4, 0, 0, 0, 0, madrid(t)).Equal(m.MatchDate))
}

func TestNormalize_FlatGoalForms(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name      string
		raw       string
		wantGoals []matchimportdomain.GoalEvent
		wantNames []string
	}{
		{
			name: "goals keyed by team",
			raw: `{"score":{"barcelona":1,"real_madrid":2},"date":"2025-10-26",
			  "goals":{"real_madrid":[{"scorer":"Vinicius","minute":12},{"scorer":"Mbappe","minute":"45+1'","assist":"Bellingham"}],
			           "barcelona":[{"scorer":"Lewandowski","minute":70}]}}`,
			wantGoals: []matchimportdomain.GoalEvent{
				{Team: "Real Madrid", Scorer: "Vinicius", Minute: 12},
				{Team: "Real Madrid", Scorer: "Mbappe", Assist: "Bellingham", Minute: 45, AddedTime: 1},
				{Team: "Barcelona", Scorer: "Lewandowski", Minute: 70},
			},
			wantNames: []string{"Vinicius", "Mbappe", "Bellingham"},
		},
		{
			name: "goal list without team belongs to the club",
			raw:  `{"score":{"barcelona":1,"real_madrid":2},"date":"2025-10-26","goals":[{"scorer":"Vinicius","minute":12},{"team":"barcelona","scorer":"Lewandowski","minute":70}]}`,
			wantGoals: []matchimportdomain.GoalEvent{
				{Team: "Real Madrid", Scorer: "Vinicius", Minute: 12},
				{Team: "Barcelona", Scorer: "Lewandowski", Minute: 70},
			},
			wantNames: []string{"Vinicius"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.Normalize(context.Background(), []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, ShapeFlat, res.Shape)
			assert.Equal(t, tt.wantGoals, res.Match.Details.Goals)
			assert.Equal(t, tt.wantNames, res.Match.ClubPlayerNames())
		})
	}
}

func TestNormalize_FlatTeamlessGoalsWithoutClubStayUnattributed(t *testing.T) {
	n := newTestNormalizer(t, nil)
	raw := `{"score":{"barcelona":1,"girona":0},"date":"2025-10-26","goals":[{"scorer":"Lewandowski","minute":70}]}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	require.Len(t, res.Match.Details.Goals, 1)
	assert.Empty(t, res.Match.Details.Goals[0].Team)
	assert.Empty(t, res.Match.ClubPlayerNames())
}

func TestNormalize_LegacyShape(t *testing.T) {
	n := newTestNormalizer(t, nil)
	id := uuid.New()
	raw := `{"id":"` + id.String() + `","home_team":"Real Madrid","away_team":"Paris Saint-Germain","match_date":"2025-07-09T21:00:00+02:00",
	  "home_score":0,"away_score":4,"status":"finished","competition":"club_world_cup","venue":"MetLife Stadium",
	  "match_details":{"goals":[{"team":"Paris Saint-Germain","scorer":"Fabián Ruiz","minute":6}]}}`

	res, err := n.Normalize(context.Background(), []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, ShapeLegacy, res.Shape)

	m := res.Match
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "Real Madrid", m.HomeTeam)
	assert.Equal(t, "Paris Saint-Germain", m.AwayTeam)
	assert.Equal(t, "FIFA Club World Cup", m.Competition)
	assert.True(t, m.MatchDate.Equal(time.Date(2025, 7, 9, 19, 0, 0, 0, time.UTC)))
	require.Len(t, m.Details.Goals, 1)
	assert.Equal(t, "Paris Saint-Germain", m.Details.Goals[0].Team)
	assert.Empty(t, m.ClubPlayerNames())
}

func TestNormalize_CompetitionResolverErrorFallsBack(t *testing.T) {
	tests := []struct {
		name        string
		competition string
		want        string
	}{
		{name: "built-in alias", competition: "La Liga", want: "LaLiga"},
		{name: "unknown kept as given", competition: " trofeo Santiago Bernabéu ", want: "trofeo Santiago Bernabéu"},
		{name: "unknown lower case not recased", competition: "audi cup", want: "audi cup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNormalizer(t, &fakeCompetitions{err: errors.New("db down")})
			raw := fmt.Sprintf(`{"home_team":"Real Madrid","away_team":"Girona","match_date":"2025-03-08","competition":%q}`, tt.competition)

			res, err := n.Normalize(context.Background(), []byte(raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Match.Competition)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	n := newTestNormalizer(t, nil)

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{name: "empty", raw: "  ", wantMsg: "empty input"},
		{name: "invalid json", raw: `{"match": `, wantMsg: "not valid JSON"},
		{name: "array root", raw: `[1,2]`, wantMsg: "JSON object"},
		{name: "no shape", raw: `{"home_team":"Real Madrid"}`, wantMsg: "missing away_team, match_date"},
		{name: "nested without away", raw: `{"match":{"teams":{"home":"real_madrid"}}}`, wantMsg: "home and the away team"},
		{name: "flat with one team", raw: `{"score":{"real_madrid":1}}`, wantMsg: "two team keys"},
		{name: "bad kickoff", raw: `{"match":{"teams":{"home":"a","away":"b"},"date":"2025-01-01","time":"late"}}`, wantMsg: "kick-off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.Normalize(context.Background(), []byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, IsParseError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw      string
		hasScore bool
		want     matchimportdomain.MatchStatus
	}{
		{"terminé", false, matchimportdomain.StatusFinished},
		{"FT", false, matchimportdomain.StatusFinished},
		{"En cours", false, matchimportdomain.StatusLive},
		{"à venir", true, matchimportdomain.StatusUpcoming},
		{"Reporté", true, matchimportdomain.StatusPostponed},
		{"", true, matchimportdomain.StatusFinished},
		{"???", false, matchimportdomain.StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStatus(tt.raw, tt.hasScore))
		})
	}
}

func TestParseMinute(t *testing.T) {
	n := canonicalize([]byte(`{"a":61,"b":"90+3'","c":"45 + 1","d":"x","e":null}`))
	tests := []struct {
		key    string
		minute int
		added  int
	}{
		{"a", 61, 0},
		{"b", 90, 3},
		{"c", 45, 1},
		{"d", 0, 0},
		{"e", 0, 0},
	}
	for _, tt := range tests {
		m, a := parseMinute(n.Get(tt.key))
		assert.Equal(t, tt.minute, m, tt.key)
		assert.Equal(t, tt.added, a, tt.key)
	}
}

func TestCanonicalize_PreservesOrderAndFoldsKeys(t *testing.T) {
	root := canonicalize([]byte(`{" Zeta ":1,"ALPHA":{"Inner Key":[{"X":true}]}}`))
	assert.Equal(t, []string{"zeta", "alpha"}, objectKeys(root))
	assert.True(t, root.Get("alpha.inner key.0.x").Bool())
}
