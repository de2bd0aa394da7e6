package matchimporthandlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/fanclub-cms/matchdesk/pkg/jwt"
)

// RouteConfig configures RegisterRoutes.
type RouteConfig struct {
	AllowedOrigins []string
	Limiter        *IPRateLimiter
	Tokens         jwt.Service
}

// RegisterRoutes mounts the admin import API and the public match viewer on r.
// Reads on the admin API need the viewer role, writes need editor.
func RegisterRoutes(r chi.Router, h Handlers, cfg RouteConfig) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter))
		}

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Tokens, jwt.RoleViewer))
			r.Get("/imports/history", h.HandleListHistory)
			r.Get("/players/search", h.HandleSearchPlayers)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Tokens, jwt.RoleEditor))
			r.Post("/imports/validate", h.HandleValidate)
			r.Post("/imports/preview", h.HandlePreview)
			r.Post("/imports/commit", h.HandleCommit)
			r.Post("/imports/history/{historyID}/rollback", h.HandleRollback)
		})
	})

	r.Route("/api/matches", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		r.Get("/", h.HandleListMatches)
		r.Get("/{matchID}", h.HandleGetMatch)
	})
}
