// Package reconcile maps free-text player names from match payloads onto the
// club roster.
package reconcile

import (
	"sort"
	"strings"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// Options tunes the reconciler.
type Options struct {
	AutoConfirmThreshold float64
	MinSimilarity        float64
	MaxSuggestions       int
	// Corrections extends DefaultCorrections.
	Corrections map[string]string
}

// Reconciler is stateless apart from its configuration.
type Reconciler struct {
	autoConfirm    float64
	minSimilarity  float64
	maxSuggestions int
	corrections    corrections
}

// New creates a Reconciler with the 0.85 / 0.4 / 5 defaults for unset options.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		autoConfirm:    opts.AutoConfirmThreshold,
		minSimilarity:  opts.MinSimilarity,
		maxSuggestions: opts.MaxSuggestions,
		corrections:    newCorrections(DefaultCorrections(), opts.Corrections),
	}
	if r.autoConfirm <= 0 {
		r.autoConfirm = 0.85
	}
	if r.minSimilarity <= 0 {
		r.minSimilarity = 0.4
	}
	if r.maxSuggestions <= 0 {
		r.maxSuggestions = 5
	}
	return r
}

// ShouldAutoConfirm reports whether a score is confident enough to skip
// human review. The comparison is strict.
func (r *Reconciler) ShouldAutoConfirm(score float64) bool {
	return score > r.autoConfirm
}

// Overrides are name to player id choices confirmed by a human. An empty id
// marks a name as deliberately left unmatched.
type Overrides map[string]string

func (o Overrides) find(name string) (string, bool) {
	if id, ok := o[name]; ok {
		return id, true
	}
	key := textnorm.Key(name)
	for k, id := range o {
		if textnorm.Key(k) == key {
			return id, true
		}
	}
	return "", false
}

// Reconcile resolves one name against the roster snapshot.
func (r *Reconciler) Reconcile(name string, roster *Roster, overrides Overrides) matchimportdomain.NameCandidate {
	name = strings.TrimSpace(name)
	candidate := matchimportdomain.NameCandidate{
		OriginalName: name,
		Resolution:   matchimportdomain.ResolutionPending,
	}

	if id, ok := overrides.find(name); ok {
		candidate.SelectedPlayerID = id
		candidate.Confirmed = true
		candidate.Resolution = matchimportdomain.ResolutionOverride
		return candidate
	}

	candidate.Suggestions = r.Suggest(name, roster)
	if len(candidate.Suggestions) > 0 && r.ShouldAutoConfirm(candidate.Suggestions[0].Similarity) {
		candidate.SelectedPlayerID = candidate.Suggestions[0].PlayerID
		candidate.Confirmed = true
		candidate.Resolution = matchimportdomain.ResolutionAuto
	}
	return candidate
}

// Suggest ranks roster members for name: highest similarity first, ties by
// player name then id. Scores below the minimum are dropped.
func (r *Reconciler) Suggest(name string, roster *Roster) []matchimportdomain.Suggestion {
	if roster == nil {
		return nil
	}
	key := r.corrections.apply(textnorm.Key(name))
	if key == "" {
		return nil
	}

	var out []matchimportdomain.Suggestion
	for _, e := range roster.entries {
		score := keySimilarity(key, e.key)
		if score < r.minSimilarity {
			continue
		}
		out = append(out, matchimportdomain.Suggestion{
			PlayerID:   e.player.ID,
			PlayerName: e.player.Name,
			Similarity: score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > r.maxSuggestions {
		out = out[:r.maxSuggestions]
	}
	return out
}

// ReconcileAll resolves every distinct name once, keeping first-seen order.
func (r *Reconciler) ReconcileAll(names []string, roster *Roster, overrides Overrides) []matchimportdomain.NameCandidate {
	seen := make(map[string]struct{}, len(names))
	out := make([]matchimportdomain.NameCandidate, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, r.Reconcile(name, roster, overrides))
	}
	return out
}

// Mapping collects the confirmed name to player id choices. Names resolved to
// an empty id are kept so callers can tell them apart from unresolved ones.
func Mapping(candidates []matchimportdomain.NameCandidate) map[string]string {
	m := make(map[string]string, len(candidates))
	for _, c := range candidates {
		if c.Confirmed {
			m[c.OriginalName] = c.SelectedPlayerID
		}
	}
	return m
}

// Pending returns the candidates still waiting for a human decision.
func Pending(candidates []matchimportdomain.NameCandidate) []matchimportdomain.NameCandidate {
	var out []matchimportdomain.NameCandidate
	for _, c := range candidates {
		if !c.Confirmed {
			out = append(out, c)
		}
	}
	return out
}
