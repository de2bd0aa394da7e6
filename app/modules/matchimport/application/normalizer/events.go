package normalizer

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// teams resolves the team references found inside event arrays.
type teams struct {
	n         *Normalizer
	home      string
	away      string
	homeKey   string
	awayKey   string
	substring bool
}

func (t teams) name(raw string) string {
	key := textnorm.Key(raw)
	switch key {
	case "":
		return ""
	case "home", "domicile", "local":
		return t.home
	case "away", "exterieur", "visitante", "visitor":
		return t.away
	case t.homeKey, textnorm.Key(t.home):
		return t.home
	case t.awayKey, textnorm.Key(t.away):
		return t.away
	}
	return t.n.teamName(key, t.substring)
}

func cardType(raw string) matchimportdomain.CardType {
	switch textnorm.Key(raw) {
	case "yellow", "jaune", "amarilla", "yellow_card", "carton_jaune", "y":
		return matchimportdomain.CardYellow
	case "red", "rouge", "roja", "red_card", "carton_rouge", "r":
		return matchimportdomain.CardRed
	case "second_yellow", "yellow_red", "double_yellow", "second_jaune", "deuxieme_jaune", "yr":
		return matchimportdomain.CardSecondYellow
	}
	return ""
}

func minuteLabel(minute, added int) string {
	if added > 0 {
		return fmt.Sprintf("%d+%d", minute, added)
	}
	return fmt.Sprintf("%d", minute)
}

// cardLabel renders "<player> (<minute>')".
func cardLabel(player string, minute, added int) string {
	return fmt.Sprintf("%s (%s')", player, minuteLabel(minute, added))
}

func readGoals(arr gjson.Result, t teams) []matchimportdomain.GoalEvent {
	var goals []matchimportdomain.GoalEvent
	arr.ForEach(func(_, g gjson.Result) bool {
		if !g.IsObject() {
			return true
		}
		minute, added := parseMinute(lookup(g, "minute", "min", "time"))
		kind := textnorm.Key(stringValue(lookup(g, "type", "kind")))
		goals = append(goals, matchimportdomain.GoalEvent{
			Team:      t.name(stringValue(lookup(g, "team", "side", "equipe"))),
			Scorer:    stringValue(lookup(g, "scorer", "player", "name", "buteur")),
			Assist:    stringValue(lookup(g, "assist", "assisted_by", "assister", "passeur")),
			Minute:    minute,
			AddedTime: added,
			OwnGoal:   boolValue(lookup(g, "own_goal", "og", "csc")) || kind == "own_goal" || kind == "og" || kind == "csc",
			Penalty:   boolValue(lookup(g, "penalty", "pen")) || kind == "penalty" || kind == "pen",
		})
		return true
	})
	return goals
}

// readTeamKeyedGoals reads {"<team>": [goal, ...]}. A goal without its own
// team field belongs to the key it is listed under.
func readTeamKeyedGoals(obj gjson.Result, t teams) []matchimportdomain.GoalEvent {
	var goals []matchimportdomain.GoalEvent
	obj.ForEach(func(key, arr gjson.Result) bool {
		team := t.name(key.String())
		for _, g := range readGoals(arr, t) {
			if g.Team == "" {
				g.Team = team
			}
			goals = append(goals, g)
		}
		return true
	})
	return goals
}

func readCards(arr gjson.Result, t teams) []matchimportdomain.CardEvent {
	var cards []matchimportdomain.CardEvent
	arr.ForEach(func(_, c gjson.Result) bool {
		if !c.IsObject() {
			return true
		}
		ct := cardType(stringValue(lookup(c, "type", "card", "color", "colour")))
		if ct == "" {
			ct = matchimportdomain.CardYellow
		}
		player := stringValue(lookup(c, "player", "name", "joueur"))
		minute, added := parseMinute(lookup(c, "minute", "min", "time"))
		cards = append(cards, matchimportdomain.CardEvent{
			Team:      t.name(stringValue(lookup(c, "team", "side", "equipe"))),
			Player:    player,
			Minute:    minute,
			AddedTime: added,
			Type:      ct,
			Label:     cardLabel(player, minute, added),
		})
		return true
	})
	return cards
}

func readFouls(arr gjson.Result, t teams) []matchimportdomain.FoulEvent {
	var fouls []matchimportdomain.FoulEvent
	arr.ForEach(func(_, f gjson.Result) bool {
		if !f.IsObject() {
			return true
		}
		minute, _ := parseMinute(lookup(f, "minute", "min", "time"))
		fouls = append(fouls, matchimportdomain.FoulEvent{
			Team:   t.name(stringValue(lookup(f, "team", "side", "equipe"))),
			Player: stringValue(lookup(f, "player", "name", "joueur")),
			Minute: minute,
			Card:   cardType(stringValue(lookup(f, "card", "type", "color"))),
		})
		return true
	})
	return fouls
}

// cardsFromFouls rebuilds the booking list from fouls that carry a card.
func cardsFromFouls(fouls []matchimportdomain.FoulEvent) []matchimportdomain.CardEvent {
	var cards []matchimportdomain.CardEvent
	for _, f := range fouls {
		if f.Card == "" || f.Player == "" {
			continue
		}
		cards = append(cards, matchimportdomain.CardEvent{
			Team:   f.Team,
			Player: f.Player,
			Minute: f.Minute,
			Type:   f.Card,
			Label:  cardLabel(f.Player, f.Minute, 0),
		})
	}
	return cards
}

func readSubstitutions(arr gjson.Result, t teams) []matchimportdomain.SubstitutionEvent {
	var subs []matchimportdomain.SubstitutionEvent
	arr.ForEach(func(_, s gjson.Result) bool {
		if !s.IsObject() {
			return true
		}
		minute, added := parseMinute(lookup(s, "minute", "min", "time"))
		subs = append(subs, matchimportdomain.SubstitutionEvent{
			Team:      t.name(stringValue(lookup(s, "team", "side", "equipe"))),
			PlayerIn:  stringValue(lookup(s, "player_in", "in", "on", "entrant")),
			PlayerOut: stringValue(lookup(s, "player_out", "out", "off", "sortant")),
			Minute:    minute,
			AddedTime: added,
		})
		return true
	})
	return subs
}

func readPlayerStats(arr gjson.Result, t teams) []matchimportdomain.PlayerAdvancedStats {
	var out []matchimportdomain.PlayerAdvancedStats
	arr.ForEach(func(_, p gjson.Result) bool {
		if !p.IsObject() {
			return true
		}
		line := matchimportdomain.PlayerAdvancedStats{
			Team:     t.name(stringValue(lookup(p, "team", "side", "equipe"))),
			Player:   stringValue(lookup(p, "player", "name", "joueur")),
			Position: strings.ToUpper(stringValue(lookup(p, "position", "pos"))),
		}
		if line.Player == "" {
			return true
		}
		if v, ok := intValue(lookup(p, "minutes", "minutes_played", "mins")); ok {
			line.Minutes = matchimportdomain.IntPtr(v)
		}
		line.Shots, _ = intValue(lookup(p, "shots", "tirs"))
		line.PassesCompleted, _ = intValue(lookup(p, "passes_completed", "passes", "completed_passes"))
		line.Tackles, _ = intValue(lookup(p, "tackles", "tacles"))
		line.Interceptions, _ = intValue(lookup(p, "interceptions"))
		line.Saves, _ = intValue(lookup(p, "saves", "arrets"))
		out = append(out, line)
		return true
	})
	return out
}

type statField struct {
	names []string
	set   func(*matchimportdomain.StatLine, float64)
}

var statFields = []statField{
	{[]string{"possession", "ball_possession"}, func(l *matchimportdomain.StatLine, v float64) { l.Possession = v }},
	{[]string{"shots", "total_shots", "tirs"}, func(l *matchimportdomain.StatLine, v float64) { l.Shots = int(v) }},
	{[]string{"shots_on_target", "on_target", "tirs_cadres"}, func(l *matchimportdomain.StatLine, v float64) { l.ShotsOnTarget = int(v) }},
	{[]string{"passes", "total_passes"}, func(l *matchimportdomain.StatLine, v float64) { l.Passes = int(v) }},
	{[]string{"corners", "corner_kicks"}, func(l *matchimportdomain.StatLine, v float64) { l.Corners = int(v) }},
	{[]string{"tackles", "tacles"}, func(l *matchimportdomain.StatLine, v float64) { l.Tackles = int(v) }},
	{[]string{"offsides", "hors_jeu"}, func(l *matchimportdomain.StatLine, v float64) { l.Offsides = int(v) }},
	{[]string{"saves", "arrets"}, func(l *matchimportdomain.StatLine, v float64) { l.Saves = int(v) }},
	{[]string{"fouls", "fautes"}, func(l *matchimportdomain.StatLine, v float64) { l.Fouls = int(v) }},
}

func statLineFrom(obj gjson.Result) matchimportdomain.StatLine {
	var line matchimportdomain.StatLine
	for _, f := range statFields {
		if v, ok := floatValue(lookup(obj, f.names...)); ok {
			f.set(&line, v)
		}
	}
	return line
}

// readStatistics accepts {"home": {...}, "away": {...}}, {"<team>": {...}} or
// {"<stat>": {"<team>": n}} layouts.
func readStatistics(stats gjson.Result, t teams) matchimportdomain.TeamStatistics {
	var out matchimportdomain.TeamStatistics
	if !stats.IsObject() {
		return out
	}

	home := lookup(stats, "home", t.homeKey, textnorm.Key(t.home))
	away := lookup(stats, "away", t.awayKey, textnorm.Key(t.away))
	if home.IsObject() || away.IsObject() {
		out.Home = statLineFrom(home)
		out.Away = statLineFrom(away)
		return out
	}

	for _, f := range statFields {
		byTeam := lookup(stats, f.names...)
		if !byTeam.IsObject() {
			continue
		}
		if v, ok := floatValue(lookup(byTeam, "home", t.homeKey, textnorm.Key(t.home))); ok {
			f.set(&out.Home, v)
		}
		if v, ok := floatValue(lookup(byTeam, "away", t.awayKey, textnorm.Key(t.away))); ok {
			f.set(&out.Away, v)
		}
	}
	return out
}

// readPossession fills possession from a {"<team>": n} object when the
// statistics block did not provide it.
func readPossession(obj gjson.Result, t teams, stats *matchimportdomain.TeamStatistics) {
	if !obj.IsObject() {
		return
	}
	if stats.Home.Possession == 0 {
		if v, ok := floatValue(lookup(obj, "home", t.homeKey, textnorm.Key(t.home))); ok {
			stats.Home.Possession = v
		}
	}
	if stats.Away.Possession == 0 {
		if v, ok := floatValue(lookup(obj, "away", t.awayKey, textnorm.Key(t.away))); ok {
			stats.Away.Possession = v
		}
	}
}

// readDetails gathers every event list found under container.
func readDetails(container, statistics gjson.Result, t teams) matchimportdomain.MatchDetails {
	d := matchimportdomain.MatchDetails{
		Goals:         readGoals(lookup(container, "goals", "buts"), t),
		Cards:         readCards(lookup(container, "cards", "cartons", "bookings"), t),
		Substitutions: readSubstitutions(lookup(container, "substitutions", "subs", "remplacements", "changements"), t),
		Fouls:         readFouls(lookup(container, "fouls", "fautes"), t),
	}
	if len(d.Cards) == 0 {
		d.Cards = cardsFromFouls(d.Fouls)
	}
	d.Statistics = readStatistics(statistics, t)
	readPossession(lookup(container, "possession"), t, &d.Statistics)

	players := lookup(container, "player_stats", "players")
	if !players.IsArray() {
		players = lookup(statistics, "players", "player_stats")
	}
	d.PlayerStats = readPlayerStats(players, t)
	return d
}
