package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/flagbox/internal/auth"
	mw "github.com/dropDatabas3/flagbox/internal/http/middlewares"
)

// registerAPIRoutes registra los endpoints bajo /api/v1. La policy de clase
// de key se declara por grupo: secret-only para el runtime completo y la
// administración, public-only bajo /public, any para prompts.
func registerAPIRoutes(r chi.Router, deps Deps) {
	// ── Secret key ──
	r.Group(func(r chi.Router) {
		r.Use(guard(deps, auth.PolicySecretOnly), mw.WithMetrics("/api/v1"))

		r.Get("/health", deps.Health.Health)

		r.Get("/config", deps.Config.Get)
		r.Post("/config", deps.Config.Create)
		r.Put("/config/{id}", deps.Config.Update)
		r.Delete("/config/{id}", deps.Config.Delete)

		r.Get("/feature-flags", deps.Flags.Resolve)
		r.Post("/feature-flags", deps.Flags.Create)
		r.Put("/feature-flags/{id}", deps.Flags.Update)
		r.Delete("/feature-flags/{id}", deps.Flags.Delete)
	})

	// ── Public key: solo datos isPublic ──
	r.Route("/public", func(r chi.Router) {
		r.Use(guard(deps, auth.PolicyPublicOnly), mw.WithMetrics("/api/v1/public"))

		r.Get("/config", deps.Config.GetPublic)
		r.Get("/feature-flags", deps.Flags.ResolvePublic)
	})

	// ── Secret o public ──
	r.Group(func(r chi.Router) {
		r.Use(guard(deps, auth.PolicyAnyKey), mw.WithMetrics("/api/v1/prompts"))

		r.Get("/prompts", deps.Prompts.List)
		r.Get("/prompts/{id}", deps.Prompts.Get)
	})
}
