package normalizer

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// teamRef reads a team given either as a key string or as {"name", "logo"}.
func teamRef(v gjson.Result) (name, logo string) {
	if v.IsObject() {
		return stringValue(lookup(v, "name", "key", "team", "id")), stringValue(lookup(v, "logo", "logo_url", "crest", "badge"))
	}
	return stringValue(v), ""
}

// readScore reads the home and away goals from a team-keyed object, a
// home/away object or a "2-1" string.
func readScore(score gjson.Result, t teams) (home, away *int) {
	switch {
	case score.IsObject():
		if v, ok := intValue(lookup(score, t.homeKey, "home", textnorm.Key(t.home))); ok {
			home = matchimportdomain.IntPtr(v)
		}
		if v, ok := intValue(lookup(score, t.awayKey, "away", textnorm.Key(t.away))); ok {
			away = matchimportdomain.IntPtr(v)
		}
	case score.Type == gjson.String:
		if h, a, ok := parseScoreline(score.String()); ok {
			home, away = matchimportdomain.IntPtr(h), matchimportdomain.IntPtr(a)
		}
	}
	return home, away
}

func (n *Normalizer) fromNested(ctx context.Context, s NestedShape) (*matchimportdomain.MatchRecord, error) {
	m := s.Match
	teamsObj := m.Get("teams")

	homeRaw, homeLogo := teamRef(lookup(teamsObj, "home", "domicile", "local"))
	awayRaw, awayLogo := teamRef(lookup(teamsObj, "away", "exterieur", "visitante", "visitor"))
	if homeRaw == "" || awayRaw == "" {
		return nil, parseErrorf("match.teams must name both the home and the away team")
	}

	t := teams{
		n:       n,
		home:    n.teamName(homeRaw, false),
		away:    n.teamName(awayRaw, false),
		homeKey: textnorm.Key(homeRaw),
		awayKey: textnorm.Key(awayRaw),
	}

	rec := &matchimportdomain.MatchRecord{
		HomeTeam: t.home,
		AwayTeam: t.away,
		HomeLogo: homeLogo,
		AwayLogo: awayLogo,
		Venue:    stringValue(lookup(m, "venue", "stadium", "stade")),
	}

	score := lookup(m, "score", "result")
	if !score.Exists() {
		score = lookup(s.Root, "score")
	}
	rec.HomeScore, rec.AwayScore = readScore(score, t)

	date, err := n.parseMatchDate(
		stringValue(lookup(m, "date", "match_date", "kickoff")),
		stringValue(lookup(m, "time", "kickoff_time", "heure")),
	)
	if err != nil {
		return nil, err
	}
	rec.MatchDate = date
	rec.Status = normalizeStatus(stringValue(lookup(m, "status", "state")), rec.HomeScore != nil && rec.AwayScore != nil)
	rec.Competition = n.normalizeCompetition(ctx, stringValue(lookup(m, "competition", "league", "tournament")))

	events := lookup(s.Root, "events")
	if !events.Exists() {
		events = lookup(m, "events")
	}
	stats := lookup(s.Root, "statistics", "stats")
	if !stats.Exists() {
		stats = lookup(m, "statistics", "stats")
	}
	rec.Details = readDetails(events, stats, t)
	readPossession(lookup(m, "possession"), t, &rec.Details.Statistics)
	rec.Details.ClubTeam = n.clubSide(rec.HomeTeam, rec.AwayTeam)
	return rec, nil
}
