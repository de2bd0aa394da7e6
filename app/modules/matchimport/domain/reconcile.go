package matchimportdomain

// Player is a roster member.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position,omitempty"`
	ShirtNumber int    `json:"shirt_number,omitempty"`
	Active      bool   `json:"active"`
}

// IsGoalkeeper reports whether the roster position is a goalkeeper.
func (p Player) IsGoalkeeper() bool {
	switch p.Position {
	case "GK", "gk", "goalkeeper", "Goalkeeper":
		return true
	}
	return false
}

// Suggestion is one ranked roster match for a free-text name.
type Suggestion struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Similarity float64 `json:"similarity"`
}

// Resolution says how a name was mapped.
type Resolution string

const (
	ResolutionOverride Resolution = "override"
	ResolutionAuto     Resolution = "auto"
	ResolutionPending  Resolution = "pending"
)

// NameCandidate is the transient reconciliation state of one free-text name.
type NameCandidate struct {
	OriginalName     string       `json:"original_name"`
	Suggestions      []Suggestion `json:"suggestions"`
	SelectedPlayerID string       `json:"selected_player_id,omitempty"`
	Confirmed        bool         `json:"confirmed"`
	Resolution       Resolution   `json:"resolution"`
}
