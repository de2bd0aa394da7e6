package matchimportdomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusLive      MatchStatus = "live"
	StatusFinished  MatchStatus = "finished"
	StatusPostponed MatchStatus = "postponed"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusFinished, StatusPostponed:
		return true
	}
	return false
}

// CardType distinguishes bookings.
type CardType string

const (
	CardYellow       CardType = "yellow"
	CardRed          CardType = "red"
	CardSecondYellow CardType = "second_yellow"
)

// IsRed reports whether the card sends the player off.
func (c CardType) IsRed() bool {
	return c == CardRed || c == CardSecondYellow
}

// MatchRecord is the canonical match produced by the normalizer and stored by
// the commit step.
type MatchRecord struct {
	ID          uuid.UUID    `json:"id"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	HomeLogo    string       `json:"home_logo,omitempty"`
	AwayLogo    string       `json:"away_logo,omitempty"`
	HomeScore   *int         `json:"home_score"`
	AwayScore   *int         `json:"away_score"`
	MatchDate   time.Time    `json:"match_date"`
	Venue       string       `json:"venue,omitempty"`
	Competition string       `json:"competition,omitempty"`
	Status      MatchStatus  `json:"status"`
	Details     MatchDetails `json:"match_details"`
}

// MatchDetails holds the normalized events and statistics of a match.
type MatchDetails struct {
	// ClubTeam is the display name of the club side, empty when the club did not play.
	ClubTeam      string                `json:"club_team,omitempty"`
	Goals         []GoalEvent           `json:"goals,omitempty"`
	Cards         []CardEvent           `json:"cards,omitempty"`
	Substitutions []SubstitutionEvent   `json:"substitutions,omitempty"`
	Fouls         []FoulEvent           `json:"fouls,omitempty"`
	Statistics    TeamStatistics        `json:"statistics"`
	PlayerStats   []PlayerAdvancedStats `json:"player_stats,omitempty"`
}

// GoalEvent is a single goal. Team is the display name of the scoring side.
type GoalEvent struct {
	Team      string `json:"team"`
	Scorer    string `json:"scorer"`
	Assist    string `json:"assist,omitempty"`
	Minute    int    `json:"minute"`
	AddedTime int    `json:"added_time,omitempty"`
	OwnGoal   bool   `json:"own_goal,omitempty"`
	Penalty   bool   `json:"penalty,omitempty"`
}

// CardEvent is a booking. Label renders as "<player> (<minute>')".
type CardEvent struct {
	Team      string   `json:"team"`
	Player    string   `json:"player"`
	Minute    int      `json:"minute"`
	AddedTime int      `json:"added_time,omitempty"`
	Type      CardType `json:"type"`
	Label     string   `json:"label"`
}

// SubstitutionEvent replaces PlayerOut with PlayerIn.
type SubstitutionEvent struct {
	Team      string `json:"team"`
	PlayerIn  string `json:"player_in"`
	PlayerOut string `json:"player_out"`
	Minute    int    `json:"minute"`
	AddedTime int    `json:"added_time,omitempty"`
}

// FoulEvent is a foul, optionally punished with a card.
type FoulEvent struct {
	Team   string   `json:"team"`
	Player string   `json:"player"`
	Minute int      `json:"minute"`
	Card   CardType `json:"card,omitempty"`
}

// StatLine is one side's team statistics.
type StatLine struct {
	Possession    float64 `json:"possession"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	Passes        int     `json:"passes"`
	Corners       int     `json:"corners"`
	Tackles       int     `json:"tackles"`
	Offsides      int     `json:"offsides"`
	Saves         int     `json:"saves"`
	Fouls         int     `json:"fouls"`
}

// TeamStatistics pairs the home and away stat lines.
type TeamStatistics struct {
	Home StatLine `json:"home"`
	Away StatLine `json:"away"`
}

// PlayerAdvancedStats is an optional per-player line supplied in the payload.
type PlayerAdvancedStats struct {
	Team            string `json:"team"`
	Player          string `json:"player"`
	Position        string `json:"position,omitempty"`
	Minutes         *int   `json:"minutes,omitempty"`
	Shots           int    `json:"shots,omitempty"`
	PassesCompleted int    `json:"passes_completed,omitempty"`
	Tackles         int    `json:"tackles,omitempty"`
	Interceptions   int    `json:"interceptions,omitempty"`
	Saves           int    `json:"saves,omitempty"`
}

// IsClubTeam reports whether team names the club side of this match.
func (m *MatchRecord) IsClubTeam(team string) bool {
	if m.Details.ClubTeam == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(team), m.Details.ClubTeam)
}

// OpponentScore returns the goals conceded by the club side, or nil when the
// club did not play or the score is unknown.
func (m *MatchRecord) OpponentScore() *int {
	switch {
	case m.Details.ClubTeam == "":
		return nil
	case strings.EqualFold(m.HomeTeam, m.Details.ClubTeam):
		return m.AwayScore
	case strings.EqualFold(m.AwayTeam, m.Details.ClubTeam):
		return m.HomeScore
	}
	return nil
}

// ClubPlayerNames returns every distinct club player name appearing in goals,
// assists, cards, substitutions, fouls and advanced stats, in first-seen order.
func (m *MatchRecord) ClubPlayerNames() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(team, name string) {
		name = strings.TrimSpace(name)
		if name == "" || !m.IsClubTeam(team) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	d := m.Details
	for _, g := range d.Goals {
		// own goals credit nobody, so their names need no decision
		if g.OwnGoal {
			continue
		}
		add(g.Team, g.Scorer)
		add(g.Team, g.Assist)
	}
	for _, c := range d.Cards {
		add(c.Team, c.Player)
	}
	for _, s := range d.Substitutions {
		add(s.Team, s.PlayerOut)
		add(s.Team, s.PlayerIn)
	}
	for _, f := range d.Fouls {
		add(f.Team, f.Player)
	}
	for _, p := range d.PlayerStats {
		add(p.Team, p.Player)
	}
	return names
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
