package matchimportdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// Match is the persisted match record.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID          uuid.UUID                      `bun:"id,pk,type:uuid"`
	HomeTeam    string                         `bun:"home_team,notnull"`
	AwayTeam    string                         `bun:"away_team,notnull"`
	HomeLogo    string                         `bun:"home_logo"`
	AwayLogo    string                         `bun:"away_logo"`
	HomeScore   *int                           `bun:"home_score"`
	AwayScore   *int                           `bun:"away_score"`
	MatchDate   time.Time                      `bun:"match_date,notnull"`
	Venue       string                         `bun:"venue"`
	Competition string                         `bun:"competition"`
	Status      string                         `bun:"status,notnull"`
	Details     matchimportdomain.MatchDetails `bun:"match_details,type:jsonb,notnull"`
	CreatedAt   time.Time                      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time                      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// PlayerStat is one player's aggregate for one match. (player_id, match_id) is unique.
type PlayerStat struct {
	bun.BaseModel `bun:"table:player_stats,alias:ps"`

	ID              int64     `bun:"id,pk,autoincrement"`
	PlayerID        string    `bun:"player_id,notnull"`
	MatchID         uuid.UUID `bun:"match_id,type:uuid,notnull"`
	Goals           int       `bun:"goals,notnull"`
	Assists         int       `bun:"assists,notnull"`
	MinutesPlayed   int       `bun:"minutes_played,notnull"`
	YellowCards     int       `bun:"yellow_cards,notnull"`
	RedCards        int       `bun:"red_cards,notnull"`
	Shots           int       `bun:"shots,notnull"`
	PassesCompleted int       `bun:"passes_completed,notnull"`
	Tackles         int       `bun:"tackles,notnull"`
	Interceptions   int       `bun:"interceptions,notnull"`
	Saves           int       `bun:"saves,notnull"`
	CleanSheets     int       `bun:"clean_sheets,notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Player is a roster member.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Position    string    `bun:"position"`
	ShirtNumber int       `bun:"shirt_number"`
	Active      bool      `bun:"active,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ImportHistory is the rollback snapshot written by each commit.
type ImportHistory struct {
	bun.BaseModel `bun:"table:import_history,alias:ih"`

	ID             uuid.UUID                       `bun:"id,pk,type:uuid"`
	MatchID        uuid.UUID                       `bun:"match_id,type:uuid,notnull"`
	ImportedBy     string                          `bun:"imported_by"`
	RawJSON        string                          `bun:"raw_json,notnull"`
	PreviousMatch  *matchimportdomain.MatchRecord  `bun:"previous_match_data,type:jsonb"`
	PreviousStats  []matchimportdomain.PlayerStat  `bun:"previous_stats_data,type:jsonb,notnull"`
	PlayersUpdated int                             `bun:"players_updated,notnull"`
	Summary        matchimportdomain.ImportSummary `bun:"statistics_summary,type:jsonb,notnull"`
	CreatedAt      time.Time                       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// CompetitionAlias maps a folded alias to a canonical competition name.
type CompetitionAlias struct {
	bun.BaseModel `bun:"table:competition_aliases,alias:ca"`

	Alias string `bun:"alias,pk"`
	Name  string `bun:"name,notnull"`
}

func matchFromDomain(m *matchimportdomain.MatchRecord) *Match {
	return &Match{
		ID:          m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeLogo:    m.HomeLogo,
		AwayLogo:    m.AwayLogo,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		MatchDate:   m.MatchDate,
		Venue:       m.Venue,
		Competition: m.Competition,
		Status:      string(m.Status),
		Details:     m.Details,
	}
}

func (m *Match) toDomain() *matchimportdomain.MatchRecord {
	return &matchimportdomain.MatchRecord{
		ID:          m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeLogo:    m.HomeLogo,
		AwayLogo:    m.AwayLogo,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		MatchDate:   m.MatchDate,
		Venue:       m.Venue,
		Competition: m.Competition,
		Status:      matchimportdomain.MatchStatus(m.Status),
		Details:     m.Details,
	}
}

func statFromDomain(s matchimportdomain.PlayerStat) PlayerStat {
	return PlayerStat{
		PlayerID:        s.PlayerID,
		MatchID:         s.MatchID,
		Goals:           s.Goals,
		Assists:         s.Assists,
		MinutesPlayed:   s.MinutesPlayed,
		YellowCards:     s.YellowCards,
		RedCards:        s.RedCards,
		Shots:           s.Shots,
		PassesCompleted: s.PassesCompleted,
		Tackles:         s.Tackles,
		Interceptions:   s.Interceptions,
		Saves:           s.Saves,
		CleanSheets:     s.CleanSheets,
	}
}

func (s PlayerStat) toDomain() matchimportdomain.PlayerStat {
	return matchimportdomain.PlayerStat{
		PlayerID:        s.PlayerID,
		MatchID:         s.MatchID,
		Goals:           s.Goals,
		Assists:         s.Assists,
		MinutesPlayed:   s.MinutesPlayed,
		YellowCards:     s.YellowCards,
		RedCards:        s.RedCards,
		Shots:           s.Shots,
		PassesCompleted: s.PassesCompleted,
		Tackles:         s.Tackles,
		Interceptions:   s.Interceptions,
		Saves:           s.Saves,
		CleanSheets:     s.CleanSheets,
	}
}

func (p Player) toDomain() matchimportdomain.Player {
	return matchimportdomain.Player{
		ID:          p.ID,
		Name:        p.Name,
		Position:    p.Position,
		ShirtNumber: p.ShirtNumber,
		Active:      p.Active,
	}
}

func historyFromDomain(e *matchimportdomain.ImportHistoryEntry) *ImportHistory {
	stats := e.PreviousStats
	if stats == nil {
		stats = []matchimportdomain.PlayerStat{}
	}
	return &ImportHistory{
		ID:             e.ID,
		MatchID:        e.MatchID,
		ImportedBy:     e.ImportedBy,
		RawJSON:        e.RawJSON,
		PreviousMatch:  e.PreviousMatch,
		PreviousStats:  stats,
		PlayersUpdated: e.PlayersUpdated,
		Summary:        e.Summary,
		CreatedAt:      e.CreatedAt,
	}
}

func (h *ImportHistory) toDomain() *matchimportdomain.ImportHistoryEntry {
	return &matchimportdomain.ImportHistoryEntry{
		ID:             h.ID,
		MatchID:        h.MatchID,
		ImportedBy:     h.ImportedBy,
		RawJSON:        h.RawJSON,
		PreviousMatch:  h.PreviousMatch,
		PreviousStats:  h.PreviousStats,
		PlayersUpdated: h.PlayersUpdated,
		Summary:        h.Summary,
		CreatedAt:      h.CreatedAt,
	}
}
