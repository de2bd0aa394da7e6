package matchimporthandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
)

func (h *MatchImportHandlers) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.ListMatches")
	defer span.End()

	filter := matchimportdb.MatchFilter{}
	if v := r.URL.Query().Get("status"); v != "" {
		status := matchimportdomain.MatchStatus(v)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = status
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	filter.Limit, filter.Offset = limit, offset

	matches, err := h.service.ListMatches(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "ListMatches", err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

func (h *MatchImportHandlers) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.GetMatch")
	defer span.End()

	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	view, err := h.service.GetMatch(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "GetMatch", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
