package matchimporthandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/normalizer"
	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// maxBodyBytes caps pasted payloads.
const maxBodyBytes = 4 << 20

type errorBody struct {
	Error   string                            `json:"error"`
	State   matchimportdomain.ImportState     `json:"state,omitempty"`
	Pending []matchimportdomain.NameCandidate `json:"pending,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// statusFor maps a service error onto an HTTP status and response body.
func statusFor(err error) (int, errorBody) {
	var pending *matchimportservice.PendingNamesError
	switch {
	case normalizer.IsParseError(err), errors.Is(err, matchimportservice.ErrEmptyPayload):
		return http.StatusUnprocessableEntity, errorBody{Error: err.Error(), State: matchimportdomain.StateInvalid}
	case errors.As(err, &pending):
		return http.StatusConflict, errorBody{
			Error:   matchimportservice.ErrUnresolvedNames.Error(),
			State:   matchimportdomain.StatePlayerNameValidation,
			Pending: pending.Pending,
		}
	case errors.Is(err, matchimportservice.ErrUnresolvedNames):
		return http.StatusConflict, errorBody{Error: err.Error(), State: matchimportdomain.StatePlayerNameValidation}
	case errors.Is(err, matchimportservice.ErrHistoryNotLatest):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.Is(err, matchimportservice.ErrMatchNotFound), errors.Is(err, matchimportservice.ErrHistoryNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Error: err.Error()}
	}
}
