package matchimporthandlers

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	matchimportservice "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application"
)

// Handlers serves the match import admin API and the public match viewer.
type Handlers interface {
	HandleValidate(w http.ResponseWriter, r *http.Request)
	HandlePreview(w http.ResponseWriter, r *http.Request)
	HandleCommit(w http.ResponseWriter, r *http.Request)
	HandleListHistory(w http.ResponseWriter, r *http.Request)
	HandleRollback(w http.ResponseWriter, r *http.Request)
	HandleSearchPlayers(w http.ResponseWriter, r *http.Request)
	HandleListMatches(w http.ResponseWriter, r *http.Request)
	HandleGetMatch(w http.ResponseWriter, r *http.Request)
}

// MatchImportHandlers implements Handlers on top of the match import service.
type MatchImportHandlers struct {
	service matchimportservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMatchImportHandlers creates a new MatchImportHandlers instance.
func NewMatchImportHandlers(
	service matchimportservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &MatchImportHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
