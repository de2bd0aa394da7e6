package matchimportdomain

import "github.com/google/uuid"

// ImportState is the user-facing step of an import session.
type ImportState string

const (
	StateIdle                 ImportState = "idle"
	StateValid                ImportState = "valid"
	StateInvalid              ImportState = "invalid"
	StatePlayerNameValidation ImportState = "player-name-validation"
	StatePreview              ImportState = "preview"
	StateCommitted            ImportState = "committed"
)

// PreviewRow is one player's aggregated line shown before commit.
type PreviewRow struct {
	Name            string `json:"name"`
	PlayerID        string `json:"player_id,omitempty"`
	Goals           int    `json:"goals"`
	Assists         int    `json:"assists"`
	YellowCards     int    `json:"yellow_cards"`
	RedCards        int    `json:"red_cards"`
	Minutes         *int   `json:"minutes,omitempty"`
	Shots           int    `json:"shots,omitempty"`
	PassesCompleted int    `json:"passes_completed,omitempty"`
	Tackles         int    `json:"tackles,omitempty"`
	Interceptions   int    `json:"interceptions,omitempty"`
	Saves           int    `json:"saves,omitempty"`
	CleanSheet      bool   `json:"clean_sheet,omitempty"`
}

// ToPlayerStat converts the row into the stored aggregate for a match.
func (r PreviewRow) ToPlayerStat(matchID uuid.UUID) PlayerStat {
	stat := PlayerStat{
		PlayerID:        r.PlayerID,
		MatchID:         matchID,
		Goals:           r.Goals,
		Assists:         r.Assists,
		YellowCards:     r.YellowCards,
		RedCards:        r.RedCards,
		Shots:           r.Shots,
		PassesCompleted: r.PassesCompleted,
		Tackles:         r.Tackles,
		Interceptions:   r.Interceptions,
		Saves:           r.Saves,
	}
	if r.Minutes != nil {
		stat.MinutesPlayed = *r.Minutes
	}
	if r.CleanSheet {
		stat.CleanSheets = 1
	}
	return stat
}
