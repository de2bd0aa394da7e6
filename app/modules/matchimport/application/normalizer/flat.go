package normalizer

import (
	"context"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// fromFlat reads the flat layout. The club side is not assumed: home and away
// follow the key order of score, then possession.
func (n *Normalizer) fromFlat(ctx context.Context, s FlatShape) (*matchimportdomain.MatchRecord, error) {
	root := s.Root
	score := root.Get("score")

	keys := objectKeys(score)
	if len(keys) < 2 {
		keys = objectKeys(lookup(root, "possession"))
	}
	if len(keys) < 2 {
		return nil, parseErrorf("flat format needs two team keys in score or possession")
	}

	t := teams{
		n:         n,
		home:      n.teamName(keys[0], true),
		away:      n.teamName(keys[1], true),
		homeKey:   textnorm.Key(keys[0]),
		awayKey:   textnorm.Key(keys[1]),
		substring: true,
	}

	rec := &matchimportdomain.MatchRecord{
		HomeTeam: t.home,
		AwayTeam: t.away,
		Venue:    stringValue(lookup(root, "venue", "stadium", "stade")),
	}
	if v, ok := intValue(lookup(score, keys[0])); ok {
		rec.HomeScore = matchimportdomain.IntPtr(v)
	}
	if v, ok := intValue(lookup(score, keys[1])); ok {
		rec.AwayScore = matchimportdomain.IntPtr(v)
	}

	date, err := n.parseMatchDate(
		stringValue(lookup(root, "date", "match_date", "kickoff")),
		stringValue(lookup(root, "time", "kickoff_time", "heure")),
	)
	if err != nil {
		return nil, err
	}
	rec.MatchDate = date
	rec.Status = normalizeStatus(stringValue(lookup(root, "status", "state")), rec.HomeScore != nil && rec.AwayScore != nil)
	rec.Competition = n.normalizeCompetition(ctx, stringValue(lookup(root, "competition", "league", "tournament")))

	container := root
	if events := lookup(root, "events"); events.IsObject() {
		container = events
	}
	rec.Details = readDetails(container, lookup(root, "statistics", "stats"), t)
	readPossession(lookup(root, "possession"), t, &rec.Details.Statistics)
	rec.Details.ClubTeam = n.clubSide(rec.HomeTeam, rec.AwayTeam)

	if goals := lookup(container, "goals", "buts"); goals.IsObject() {
		rec.Details.Goals = readTeamKeyedGoals(goals, t)
	}
	// a flat goal list without team fields describes the club's goals
	if club := rec.Details.ClubTeam; club != "" {
		for i := range rec.Details.Goals {
			if rec.Details.Goals[i].Team == "" {
				rec.Details.Goals[i].Team = club
			}
		}
	}
	return rec, nil
}
