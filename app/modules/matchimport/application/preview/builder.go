// Package preview aggregates a normalized match into per-player rows for
// review before commit. It never touches storage.
package preview

import (
	"sort"
	"strings"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/reconcile"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// FullTime is the regulation length used to estimate minutes for substitutes.
// Added time and double substitutions are ignored.
const FullTime = 90

type acc struct {
	row   matchimportdomain.PreviewRow
	entry *int
	exit  *int
	gk    bool
}

// Build aggregates the club players of match. mapping carries reconciled
// player ids keyed by original name; roster, when given, supplies positions.
// The result is sorted by name and does not depend on event order.
func Build(match *matchimportdomain.MatchRecord, mapping map[string]string, roster *reconcile.Roster) []matchimportdomain.PreviewRow {
	if match == nil {
		return nil
	}

	rows := make(map[string]*acc)
	get := func(team, name string) *acc {
		name = strings.TrimSpace(name)
		if name == "" || !match.IsClubTeam(team) {
			return nil
		}
		a, ok := rows[name]
		if !ok {
			a = &acc{row: matchimportdomain.PreviewRow{Name: name}}
			rows[name] = a
		}
		return a
	}

	d := match.Details
	for _, g := range d.Goals {
		if g.OwnGoal {
			continue
		}
		if a := get(g.Team, g.Scorer); a != nil {
			a.row.Goals++
		}
		if a := get(g.Team, g.Assist); a != nil {
			a.row.Assists++
		}
	}

	for _, c := range d.Cards {
		a := get(c.Team, c.Player)
		if a == nil {
			continue
		}
		// a second yellow is listed as its own event after the first one
		if c.Type.IsRed() {
			a.row.RedCards++
		} else {
			a.row.YellowCards++
		}
	}

	for _, s := range d.Substitutions {
		if a := get(s.Team, s.PlayerOut); a != nil {
			if a.exit == nil || s.Minute > *a.exit {
				a.exit = matchimportdomain.IntPtr(s.Minute)
			}
		}
		if a := get(s.Team, s.PlayerIn); a != nil {
			if a.entry == nil || s.Minute < *a.entry {
				a.entry = matchimportdomain.IntPtr(s.Minute)
			}
		}
	}

	for _, f := range d.Fouls {
		get(f.Team, f.Player)
	}

	advancedMinutes := make(map[string]int)
	for _, p := range d.PlayerStats {
		a := get(p.Team, p.Player)
		if a == nil {
			continue
		}
		a.row.Shots += p.Shots
		a.row.PassesCompleted += p.PassesCompleted
		a.row.Tackles += p.Tackles
		a.row.Interceptions += p.Interceptions
		a.row.Saves += p.Saves
		if isGoalkeeperPosition(p.Position) {
			a.gk = true
		}
		if p.Minutes != nil {
			advancedMinutes[a.row.Name] = max(advancedMinutes[a.row.Name], *p.Minutes)
		}
	}

	opponent := match.OpponentScore()
	out := make([]matchimportdomain.PreviewRow, 0, len(rows))
	for name, a := range rows {
		if id, ok := mapping[name]; ok {
			a.row.PlayerID = id
		}
		if roster != nil && a.row.PlayerID != "" {
			if p, ok := roster.Player(a.row.PlayerID); ok && p.IsGoalkeeper() {
				a.gk = true
			}
		}

		if m, ok := advancedMinutes[name]; ok {
			a.row.Minutes = matchimportdomain.IntPtr(m)
		} else if mins, ok := substitutionMinutes(a.entry, a.exit); ok {
			a.row.Minutes = matchimportdomain.IntPtr(mins)
		}

		played := a.row.Minutes == nil || *a.row.Minutes > 0
		a.row.CleanSheet = a.gk && played && opponent != nil && *opponent == 0

		out = append(out, a.row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// substitutionMinutes estimates playing time: FullTime minus the entry minute
// for substitutes, the exit minute for replaced starters.
func substitutionMinutes(entry, exit *int) (int, bool) {
	switch {
	case entry != nil && exit != nil:
		return clampMinutes(*exit - *entry), true
	case entry != nil:
		return clampMinutes(FullTime - *entry), true
	case exit != nil:
		return clampMinutes(*exit), true
	}
	return 0, false
}

func clampMinutes(m int) int {
	return min(max(m, 0), FullTime)
}

func isGoalkeeperPosition(pos string) bool {
	switch strings.ToUpper(strings.TrimSpace(pos)) {
	case "GK", "G", "GOALKEEPER", "POR", "GB":
		return true
	}
	return false
}

// Totals sums a set of rows into the history summary.
func Totals(rows []matchimportdomain.PreviewRow) matchimportdomain.ImportSummary {
	var s matchimportdomain.ImportSummary
	for _, r := range rows {
		s.TotalGoals += r.Goals
		s.TotalAssists += r.Assists
		s.YellowCards += r.YellowCards
		s.RedCards += r.RedCards
	}
	return s
}
