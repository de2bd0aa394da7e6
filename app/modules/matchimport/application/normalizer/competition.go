package normalizer

import (
	"context"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
)

// CompetitionResolver maps a free-text competition to its canonical name. ok
// is false when the resolver has no entry for raw.
type CompetitionResolver interface {
	ResolveCompetition(ctx context.Context, raw string) (name string, ok bool, err error)
}

// StaticCompetitions is an in-memory alias table keyed by textnorm.Key.
type StaticCompetitions map[string]string

// DefaultCompetitions covers the competitions the club usually plays.
func DefaultCompetitions() StaticCompetitions {
	return StaticCompetitions{
		"laliga":                   "LaLiga",
		"la_liga":                  "LaLiga",
		"liga":                     "LaLiga",
		"primera_division":         "LaLiga",
		"laliga_ea_sports":         "LaLiga",
		"champions_league":         "UEFA Champions League",
		"uefa_champions_league":    "UEFA Champions League",
		"ucl":                      "UEFA Champions League",
		"ligue_des_champions":      "UEFA Champions League",
		"liga_de_campeones":        "UEFA Champions League",
		"copa_del_rey":             "Copa del Rey",
		"coupe_du_roi":             "Copa del Rey",
		"supercopa":                "Supercopa de España",
		"supercopa_de_espana":      "Supercopa de España",
		"uefa_super_cup":           "UEFA Super Cup",
		"supercoupe_de_l_uefa":     "UEFA Super Cup",
		"club_world_cup":           "FIFA Club World Cup",
		"fifa_club_world_cup":      "FIFA Club World Cup",
		"coupe_du_monde_des_clubs": "FIFA Club World Cup",
		"intercontinental_cup":     "FIFA Intercontinental Cup",
		"friendly":                 "Friendly",
		"amical":                   "Friendly",
		"match_amical":             "Friendly",
		"club_friendly":            "Friendly",
		"pre_season_friendly":      "Friendly",
	}
}

// ResolveCompetition looks raw up by its folded key.
func (s StaticCompetitions) ResolveCompetition(_ context.Context, raw string) (string, bool, error) {
	name, ok := s[textnorm.Key(raw)]
	return name, ok, nil
}

// normalizeCompetition consults the configured resolver, then the static
// defaults, and otherwise keeps the trimmed input.
func (n *Normalizer) normalizeCompetition(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	if n.competitions != nil {
		if name, ok, err := n.competitions.ResolveCompetition(ctx, raw); err == nil && ok {
			return name
		}
	}
	if name, ok, _ := DefaultCompetitions().ResolveCompetition(ctx, raw); ok {
		return name
	}
	return raw
}
