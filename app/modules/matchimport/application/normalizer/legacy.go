package normalizer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// legacyTeamName keeps display names as given, only mapping the club key and
// snake_case keys.
func (n *Normalizer) legacyTeamName(raw string) string {
	raw = strings.TrimSpace(raw)
	if n.isClubKey(textnorm.Key(raw), false) {
		return n.clubName
	}
	if strings.Contains(raw, "_") && !strings.Contains(raw, " ") {
		return textnorm.Title(raw)
	}
	return raw
}

func (n *Normalizer) fromLegacy(ctx context.Context, s LegacyShape) (*matchimportdomain.MatchRecord, error) {
	root := s.Root

	t := teams{
		n:    n,
		home: n.legacyTeamName(stringValue(root.Get("home_team"))),
		away: n.legacyTeamName(stringValue(root.Get("away_team"))),
	}
	t.homeKey, t.awayKey = textnorm.Key(t.home), textnorm.Key(t.away)

	rec := &matchimportdomain.MatchRecord{
		HomeTeam: t.home,
		AwayTeam: t.away,
		HomeLogo: stringValue(root.Get("home_logo")),
		AwayLogo: stringValue(root.Get("away_logo")),
		Venue:    stringValue(root.Get("venue")),
	}
	if id, err := uuid.Parse(stringValue(root.Get("id"))); err == nil {
		rec.ID = id
	}
	if v, ok := intValue(root.Get("home_score")); ok {
		rec.HomeScore = matchimportdomain.IntPtr(v)
	}
	if v, ok := intValue(root.Get("away_score")); ok {
		rec.AwayScore = matchimportdomain.IntPtr(v)
	}

	date, err := n.parseMatchDate(stringValue(root.Get("match_date")), stringValue(lookup(root, "match_time", "time")))
	if err != nil {
		return nil, err
	}
	rec.MatchDate = date
	rec.Status = normalizeStatus(stringValue(root.Get("status")), rec.HomeScore != nil && rec.AwayScore != nil)
	rec.Competition = n.normalizeCompetition(ctx, stringValue(root.Get("competition")))

	details := lookup(root, "match_details", "details")
	if !details.IsObject() {
		details = lookup(root, "events")
	}
	stats := lookup(details, "statistics", "stats")
	if !stats.Exists() {
		stats = lookup(root, "statistics", "stats")
	}
	rec.Details = readDetails(details, stats, t)
	rec.Details.ClubTeam = n.clubSide(rec.HomeTeam, rec.AwayTeam)
	return rec, nil
}
