package matchimportservice

import (
	"errors"
	"fmt"
	"strings"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

var (
	// ErrMatchNotFound indicates the requested match does not exist.
	ErrMatchNotFound = errors.New("match not found")

	// ErrHistoryNotFound indicates the import history entry does not exist.
	ErrHistoryNotFound = errors.New("import history entry not found")

	// ErrHistoryNotLatest rejects rolling back a snapshot while newer imports
	// of the same match are still recorded.
	ErrHistoryNotLatest = errors.New("import history entry is not the newest for its match")

	// ErrUnresolvedNames blocks preview and commit while names await a human decision.
	ErrUnresolvedNames = errors.New("player names need confirmation")

	// ErrEmptyPayload is returned when no raw JSON was supplied.
	ErrEmptyPayload = errors.New("raw_json is required")

	errDomainFailure = errors.New("domain failure")
)

// PendingNamesError lists the names blocking progression past validation.
type PendingNamesError struct {
	Pending []matchimportdomain.NameCandidate
}

func (e *PendingNamesError) Error() string {
	names := make([]string, 0, len(e.Pending))
	for _, c := range e.Pending {
		names = append(names, c.OriginalName)
	}
	return fmt.Sprintf("%s: %s", ErrUnresolvedNames, strings.Join(names, ", "))
}

func (e *PendingNamesError) Is(target error) bool {
	return target == ErrUnresolvedNames
}
