package matchimporthandlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/preview"
	matchimportdb "github.com/fanclub-cms/matchdesk/app/modules/matchimport/infrastructure/repositories"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// fail logs err and writes the mapped status.
func (h *MatchImportHandlers) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "Request failed", attr.String("operation", op), attr.Error(err))
	} else {
		h.logger.WarnContext(ctx, "Request rejected",
			attr.String("operation", op),
			attr.Int("status", status),
			attr.Error(err),
		)
	}
	writeJSON(w, status, body)
}

func (h *MatchImportHandlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Validate")
	defer span.End()

	var req matchimportservice.ValidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Validate(ctx, req)
	if err != nil {
		h.fail(ctx, w, "Validate", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *MatchImportHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Preview")
	defer span.End()

	var req matchimportservice.PreviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Preview(ctx, req)
	if err != nil {
		h.fail(ctx, w, "Preview", err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportName(res)+`"`)
		if err := preview.WriteXLSX(w, res.Match, res.Rows); err != nil {
			h.logger.ErrorContext(ctx, "Failed to write preview spreadsheet", attr.Error(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func exportName(res *matchimportservice.PreviewResult) string {
	if res.Match == nil || res.Match.MatchDate.IsZero() {
		return "preview.xlsx"
	}
	return "preview-" + res.Match.MatchDate.Format("2006-01-02") + ".xlsx"
}

func (h *MatchImportHandlers) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Commit")
	defer span.End()

	var req matchimportservice.CommitRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if claims, ok := ClaimsFromContext(ctx); ok {
		req.ImportedBy = claims.Subject
	}

	res, err := h.service.Commit(ctx, req)
	if err != nil {
		h.fail(ctx, w, "Commit", err)
		return
	}

	span.SetAttributes(attribute.String("match_id", res.MatchID.String()))
	h.logger.InfoContext(ctx, "Match import committed",
		attr.String("match_id", res.MatchID.String()),
		attr.String("history_id", res.HistoryID.String()),
		attr.String("imported_by", req.ImportedBy),
		attr.Int("players_updated", res.PlayersUpdated),
	)
	writeJSON(w, http.StatusOK, res)
}

func (h *MatchImportHandlers) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.ListHistory")
	defer span.End()

	var filter matchimportdb.HistoryFilter
	if v := r.URL.Query().Get("match_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid match_id")
			return
		}
		filter.MatchID = &id
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	filter.Limit = limit

	entries, err := h.service.ListHistory(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "ListHistory", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *MatchImportHandlers) HandleRollback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Rollback")
	defer span.End()

	historyID, err := uuid.Parse(chi.URLParam(r, "historyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	res, err := h.service.Rollback(ctx, historyID)
	if err != nil {
		h.fail(ctx, w, "Rollback", err)
		return
	}

	h.logger.InfoContext(ctx, "Match import rolled back",
		attr.String("history_id", res.HistoryID.String()),
		attr.String("match_id", res.MatchID.String()),
		attr.Bool("match_deleted", res.MatchDeleted),
	)
	writeJSON(w, http.StatusOK, res)
}

func (h *MatchImportHandlers) HandleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.SearchPlayers")
	defer span.End()

	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	players, err := h.service.SearchPlayers(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(ctx, w, "SearchPlayers", err)
		return
	}

	writeJSON(w, http.StatusOK, players)
}

// queryInt reads an optional non-negative integer parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
