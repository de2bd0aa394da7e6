// Package normalizer turns the JSON match payloads pasted by administrators
// into a canonical MatchRecord.
package normalizer

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// Options configures a Normalizer.
type Options struct {
	// ClubKey is the payload key of the club team, e.g. "real_madrid".
	ClubKey string
	// ClubDisplayName replaces ClubKey in the canonical record.
	ClubDisplayName string
	// ClubAliases are extra compact spellings matched in the flat shape.
	ClubAliases  []string
	Location     *time.Location
	Clock        Clock
	Competitions CompetitionResolver
}

// Normalizer is safe for concurrent use.
type Normalizer struct {
	clubKey      string
	clubName     string
	clubAliases  []string
	loc          *time.Location
	clock        Clock
	competitions CompetitionResolver
}

// Result is a normalized match plus the shape it was read from.
type Result struct {
	Match *matchimportdomain.MatchRecord
	Shape ShapeKind
}

// New creates a Normalizer, defaulting to Real Madrid in Europe/Madrid time.
func New(opts Options) *Normalizer {
	n := &Normalizer{
		clubKey:      textnorm.Key(opts.ClubKey),
		clubName:     strings.TrimSpace(opts.ClubDisplayName),
		loc:          opts.Location,
		clock:        opts.Clock,
		competitions: opts.Competitions,
	}
	if n.clubKey == "" {
		n.clubKey = "real_madrid"
	}
	if n.clubName == "" {
		n.clubName = "Real Madrid"
	}
	for _, a := range opts.ClubAliases {
		if k := strings.ReplaceAll(textnorm.Key(a), "_", ""); k != "" {
			n.clubAliases = append(n.clubAliases, k)
		}
	}
	if n.loc == nil {
		n.loc = time.UTC
	}
	if n.clock == nil {
		n.clock = RealClock{}
	}
	return n
}

// Normalize parses raw JSON and reduces it to a MatchRecord, or fails with a
// *ParseError.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) (*Result, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, parseErrorf("empty input")
	}
	if !gjson.ValidBytes(raw) {
		return nil, parseErrorf("input is not valid JSON")
	}
	root := canonicalize(raw)
	if !root.IsObject() {
		return nil, parseErrorf("input must be a JSON object")
	}

	shape, err := detectShape(root)
	if err != nil {
		return nil, err
	}

	match, err := n.build(ctx, shape)
	if err != nil {
		return nil, err
	}
	if err := validateRecord(match); err != nil {
		return nil, err
	}
	return &Result{Match: match, Shape: shape.Kind()}, nil
}

// isClubKey reports whether a folded team key designates the club. The flat
// shape also accepts keys that merely contain the club key or an alias.
func (n *Normalizer) isClubKey(key string, substring bool) bool {
	if key == "" {
		return false
	}
	compact := strings.ReplaceAll(key, "_", "")
	if key == n.clubKey || compact == strings.ReplaceAll(n.clubKey, "_", "") {
		return true
	}
	for _, a := range n.clubAliases {
		if compact == a {
			return true
		}
	}
	if !substring {
		return false
	}
	if strings.Contains(key, n.clubKey) {
		return true
	}
	for _, a := range n.clubAliases {
		if strings.Contains(compact, a) {
			return true
		}
	}
	return false
}

// teamName renders a team key as a display name.
func (n *Normalizer) teamName(raw string, substring bool) string {
	key := textnorm.Key(raw)
	if n.isClubKey(key, substring) {
		return n.clubName
	}
	return textnorm.Title(key)
}

// clubSide returns the display name of the club team if it is playing.
func (n *Normalizer) clubSide(home, away string) string {
	switch {
	case strings.EqualFold(home, n.clubName):
		return home
	case strings.EqualFold(away, n.clubName):
		return away
	}
	return ""
}

func validateRecord(m *matchimportdomain.MatchRecord) error {
	var missing []string
	if strings.TrimSpace(m.HomeTeam) == "" {
		missing = append(missing, "home_team")
	}
	if strings.TrimSpace(m.AwayTeam) == "" {
		missing = append(missing, "away_team")
	}
	if m.MatchDate.IsZero() {
		missing = append(missing, "match_date")
	}
	if len(missing) > 0 {
		return parseErrorf("normalized match is missing %s", strings.Join(missing, ", "))
	}
	return nil
}
