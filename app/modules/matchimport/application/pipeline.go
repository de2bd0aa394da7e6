package matchimportservice

import (
	"fmt"
	"time"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/reconcile"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	"github.com/fanclub-cms/matchdesk/config"
)

// NewPipeline builds the import stages from configuration.
func NewPipeline(cfg config.ImportConfig, competitions normalizer.CompetitionResolver) (Pipeline, error) {
	merge, err := matchimportdomain.NewMergePolicy(
		cfg.Merge.Goals,
		cfg.Merge.Assists,
		cfg.Merge.Cards,
		cfg.Merge.Minutes,
		cfg.Merge.Advanced,
	)
	if err != nil {
		return Pipeline{}, fmt.Errorf("invalid merge policy: %w", err)
	}

	return Pipeline{
		Normalizer: normalizer.New(normalizer.Options{
			ClubKey:         cfg.ClubKey,
			ClubDisplayName: cfg.ClubDisplayName,
			ClubAliases:     cfg.ClubAliases,
			Location:        cfg.Location(),
			Competitions:    competitions,
		}),
		Reconciler: reconcile.New(reconcile.Options{
			AutoConfirmThreshold: cfg.AutoConfirm,
			MinSimilarity:        cfg.MinSimilarity,
			MaxSuggestions:       cfg.MaxSuggestions,
			Corrections:          cfg.Corrections,
		}),
		Merge: merge,
		Now:   time.Now,
	}, nil
}
