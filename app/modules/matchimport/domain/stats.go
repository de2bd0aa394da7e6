package matchimportdomain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlayerStat is the per (player, match) aggregate.
type PlayerStat struct {
	PlayerID        string    `json:"player_id"`
	MatchID         uuid.UUID `json:"match_id"`
	Goals           int       `json:"goals"`
	Assists         int       `json:"assists"`
	MinutesPlayed   int       `json:"minutes_played"`
	YellowCards     int       `json:"yellow_cards"`
	RedCards        int       `json:"red_cards"`
	Shots           int       `json:"shots"`
	PassesCompleted int       `json:"passes_completed"`
	Tackles         int       `json:"tackles"`
	Interceptions   int       `json:"interceptions"`
	Saves           int       `json:"saves"`
	CleanSheets     int       `json:"clean_sheets"`
}

// MergeMode combines a stored value with an imported one.
type MergeMode string

const (
	MergeSum     MergeMode = "sum"
	MergeMax     MergeMode = "max"
	MergeReplace MergeMode = "replace"
)

// ParseMergeMode validates a configured merge mode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch m := MergeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MergeSum, MergeMax, MergeReplace:
		return m, nil
	}
	return "", fmt.Errorf("unknown merge mode %q", s)
}

func (m MergeMode) apply(existing, incoming int) int {
	switch m {
	case MergeSum:
		return existing + incoming
	case MergeMax:
		return max(existing, incoming)
	default:
		return incoming
	}
}

// MergePolicy decides how a re-import combines with stored statistics, per
// field group.
type MergePolicy struct {
	Goals    MergeMode `json:"goals"`
	Assists  MergeMode `json:"assists"`
	Cards    MergeMode `json:"cards"`
	Minutes  MergeMode `json:"minutes"`
	Advanced MergeMode `json:"advanced"`
}

// DefaultMergePolicy sums goals and assists and keeps the highest card counts.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{
		Goals:    MergeSum,
		Assists:  MergeSum,
		Cards:    MergeMax,
		Minutes:  MergeMax,
		Advanced: MergeReplace,
	}
}

// NewMergePolicy builds a policy from configured mode names. Empty names keep
// the default for that group.
func NewMergePolicy(goals, assists, cards, minutes, advanced string) (MergePolicy, error) {
	p := DefaultMergePolicy()
	fields := []struct {
		raw string
		dst *MergeMode
	}{
		{goals, &p.Goals},
		{assists, &p.Assists},
		{cards, &p.Cards},
		{minutes, &p.Minutes},
		{advanced, &p.Advanced},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		m, err := ParseMergeMode(f.raw)
		if err != nil {
			return MergePolicy{}, err
		}
		*f.dst = m
	}
	return p, nil
}

// Merge combines an existing row with freshly imported values. Identity fields
// come from existing.
func (p MergePolicy) Merge(existing, incoming PlayerStat) PlayerStat {
	out := existing
	out.Goals = p.Goals.apply(existing.Goals, incoming.Goals)
	out.Assists = p.Assists.apply(existing.Assists, incoming.Assists)
	out.YellowCards = p.Cards.apply(existing.YellowCards, incoming.YellowCards)
	out.RedCards = p.Cards.apply(existing.RedCards, incoming.RedCards)
	out.MinutesPlayed = p.Minutes.apply(existing.MinutesPlayed, incoming.MinutesPlayed)
	out.Shots = p.Advanced.apply(existing.Shots, incoming.Shots)
	out.PassesCompleted = p.Advanced.apply(existing.PassesCompleted, incoming.PassesCompleted)
	out.Tackles = p.Advanced.apply(existing.Tackles, incoming.Tackles)
	out.Interceptions = p.Advanced.apply(existing.Interceptions, incoming.Interceptions)
	out.Saves = p.Advanced.apply(existing.Saves, incoming.Saves)
	// a clean sheet is a per-match flag
	out.CleanSheets = max(existing.CleanSheets, incoming.CleanSheets)
	return out
}
