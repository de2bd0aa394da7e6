package matchimportdomain

import (
	"time"

	"github.com/google/uuid"
)

// ImportSummary totals the statistics written by one commit.
type ImportSummary struct {
	TotalGoals   int `json:"total_goals"`
	TotalAssists int `json:"total_assists"`
	YellowCards  int `json:"yellow_cards"`
	RedCards     int `json:"red_cards"`
}

// Add accumulates one player's imported line.
func (s *ImportSummary) Add(stat PlayerStat) {
	s.TotalGoals += stat.Goals
	s.TotalAssists += stat.Assists
	s.YellowCards += stat.YellowCards
	s.RedCards += stat.RedCards
}

// ImportHistoryEntry snapshots the state a commit replaced, so it can be rolled back.
type ImportHistoryEntry struct {
	ID             uuid.UUID     `json:"id"`
	MatchID        uuid.UUID     `json:"match_id"`
	ImportedBy     string        `json:"imported_by"`
	RawJSON        string        `json:"raw_json"`
	PreviousMatch  *MatchRecord  `json:"previous_match_data"`
	PreviousStats  []PlayerStat  `json:"previous_stats_data"`
	PlayersUpdated int           `json:"players_updated"`
	Summary        ImportSummary `json:"statistics_summary"`
	CreatedAt      time.Time     `json:"created_at"`
}
