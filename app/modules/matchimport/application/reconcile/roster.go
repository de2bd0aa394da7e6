package reconcile

import (
	"sort"
	"strings"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

type rosterEntry struct {
	player matchimportdomain.Player
	key    string
	folded string
}

// Roster is an immutable snapshot of the squad, read once per import.
type Roster struct {
	entries []rosterEntry
	byID    map[string]int
}

// NewRoster snapshots players. Later changes to the slice are not observed.
func NewRoster(players []matchimportdomain.Player) *Roster {
	r := &Roster{
		entries: make([]rosterEntry, 0, len(players)),
		byID:    make(map[string]int, len(players)),
	}
	for _, p := range players {
		if p.ID == "" {
			continue
		}
		r.byID[p.ID] = len(r.entries)
		r.entries = append(r.entries, rosterEntry{
			player: p,
			key:    textnorm.Key(p.Name),
			folded: textnorm.Fold(p.Name),
		})
	}
	return r
}

// Len returns the number of players in the snapshot.
func (r *Roster) Len() int {
	return len(r.entries)
}

// Player returns the roster member with id.
func (r *Roster) Player(id string) (matchimportdomain.Player, bool) {
	i, ok := r.byID[id]
	if !ok {
		return matchimportdomain.Player{}, false
	}
	return r.entries[i].player, true
}

// Search returns players whose folded name contains query, ordered by name.
// An empty query lists the whole roster.
func (r *Roster) Search(query string, limit int) []matchimportdomain.Player {
	q := textnorm.Fold(query)
	qKey := textnorm.Key(query)
	var out []matchimportdomain.Player
	for _, e := range r.entries {
		if q == "" || strings.Contains(e.folded, q) || (qKey != "" && strings.Contains(e.key, qKey)) {
			out = append(out, e.player)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
