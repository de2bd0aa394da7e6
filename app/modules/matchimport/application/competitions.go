package matchimportservice

import (
	"context"
	"errors"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

// StoredCompetitions resolves competition names through the competition_aliases table.
type StoredCompetitions struct {
	repo matchimportdb.Repository
}

// NewStoredCompetitions creates a resolver backed by repo.
func NewStoredCompetitions(repo matchimportdb.Repository) *StoredCompetitions {
	return &StoredCompetitions{repo: repo}
}

var _ normalizer.CompetitionResolver = (*StoredCompetitions)(nil)

// ResolveCompetition looks up the folded form of raw. Unknown aliases are not an error.
func (c *StoredCompetitions) ResolveCompetition(ctx context.Context, raw string) (string, bool, error) {
	key := textnorm.Key(raw)
	if key == "" {
		return "", false, nil
	}
	name, err := c.repo.ResolveCompetition(ctx, nil, key)
	if err != nil {
		if errors.Is(err, matchimportdb.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}
