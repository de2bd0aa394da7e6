package matchimportdomain

import (
	"time"

	"github.com/google/uuid"
)

// Topics published by the match import module.
const (
	MatchImportCommittedV1  = "matchimport.committed"
	MatchImportRolledBackV1 = "matchimport.rolled_back"
)

// MatchImportCommittedPayload is published once a commit transaction succeeds.
type MatchImportCommittedPayload struct {
	HistoryID      uuid.UUID     `json:"history_id"`
	MatchID        uuid.UUID     `json:"match_id"`
	ImportedBy     string        `json:"imported_by"`
	MatchCreated   bool          `json:"match_created"`
	PlayersUpdated int           `json:"players_updated"`
	Summary        ImportSummary `json:"statistics_summary"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// MatchImportRolledBackPayload is published once a rollback transaction succeeds.
type MatchImportRolledBackPayload struct {
	HistoryID     uuid.UUID `json:"history_id"`
	MatchID       uuid.UUID `json:"match_id"`
	MatchDeleted  bool      `json:"match_deleted"`
	RestoredStats int       `json:"restored_stats"`
	OccurredAt    time.Time `json:"occurred_at"`
}
