package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Clock abstracts the current time for date defaults.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15h04",
	"15h",
}

// parseMatchDate combines a date and an optional kick-off time in loc. An
// empty date falls back to the start of the clock's current day.
func (n *Normalizer) parseMatchDate(date, kickoff string) (time.Time, error) {
	date = strings.TrimSpace(date)
	kickoff = strings.TrimSpace(kickoff)

	if date == "" {
		now := n.clock.Now().In(n.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, n.loc), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, date, n.loc); err == nil {
			return t, nil
		}
	}

	for _, layout := range dateLayouts {
		d, err := time.ParseInLocation(layout, date, n.loc)
		if err != nil {
			continue
		}
		if kickoff == "" {
			return d, nil
		}
		for _, tl := range timeLayouts {
			if k, err := time.Parse(tl, strings.ToLower(kickoff)); err == nil {
				return time.Date(d.Year(), d.Month(), d.Day(), k.Hour(), k.Minute(), k.Second(), 0, n.loc), nil
			}
		}
		return time.Time{}, parseErrorf("unrecognized kick-off time %q", kickoff)
	}

	// natural language fallback, e.g. "next saturday 21:00"
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	text := date
	if kickoff != "" {
		text = fmt.Sprintf("%s %s", date, kickoff)
	}
	r, err := w.Parse(text, n.clock.Now().In(n.loc))
	if err != nil || r == nil {
		return time.Time{}, parseErrorf("unrecognized match date %q", date)
	}
	return r.Time.In(n.loc), nil
}
