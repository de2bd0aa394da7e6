package normalizer

import (
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

var statusAliases = map[string]matchimportdomain.MatchStatus{
	"finished":    matchimportdomain.StatusFinished,
	"termine":     matchimportdomain.StatusFinished,
	"ft":          matchimportdomain.StatusFinished,
	"full_time":   matchimportdomain.StatusFinished,
	"fulltime":    matchimportdomain.StatusFinished,
	"ended":       matchimportdomain.StatusFinished,
	"final":       matchimportdomain.StatusFinished,
	"fin":         matchimportdomain.StatusFinished,
	"finalizado":  matchimportdomain.StatusFinished,
	"live":        matchimportdomain.StatusLive,
	"en_cours":    matchimportdomain.StatusLive,
	"en_direct":   matchimportdomain.StatusLive,
	"in_progress": matchimportdomain.StatusLive,
	"playing":     matchimportdomain.StatusLive,
	"ht":          matchimportdomain.StatusLive,
	"half_time":   matchimportdomain.StatusLive,
	"en_juego":    matchimportdomain.StatusLive,
	"upcoming":    matchimportdomain.StatusUpcoming,
	"a_venir":     matchimportdomain.StatusUpcoming,
	"scheduled":   matchimportdomain.StatusUpcoming,
	"not_started": matchimportdomain.StatusUpcoming,
	"ns":          matchimportdomain.StatusUpcoming,
	"prevu":       matchimportdomain.StatusUpcoming,
	"programado":  matchimportdomain.StatusUpcoming,
	"postponed":   matchimportdomain.StatusPostponed,
	"reporte":     matchimportdomain.StatusPostponed,
	"aplazado":    matchimportdomain.StatusPostponed,
	"cancelled":   matchimportdomain.StatusPostponed,
	"canceled":    matchimportdomain.StatusPostponed,
	"annule":      matchimportdomain.StatusPostponed,
	"suspended":   matchimportdomain.StatusPostponed,
}

// normalizeStatus maps a free-text status. Unknown or missing values become
// finished when a score is known and upcoming otherwise.
func normalizeStatus(raw string, hasScore bool) matchimportdomain.MatchStatus {
	if s, ok := statusAliases[textnorm.Key(raw)]; ok {
		return s
	}
	if hasScore {
		return matchimportdomain.StatusFinished
	}
	return matchimportdomain.StatusUpcoming
}
