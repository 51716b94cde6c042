// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/flagbox/internal/auth"
	configctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/config"
	flagsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/flags"
	healthctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/health"
	promptsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/prompts"
	mw "github.com/dropDatabas3/flagbox/internal/http/middlewares"
	"github.com/dropDatabas3/flagbox/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Auth *auth.Service

	Health  *healthctrl.Controller
	Config  *configctrl.Controller
	Flags   *flagsctrl.Controller
	Prompts *promptsctrl.Controller

	// RateLimiter es opcional; nil desactiva el rate limiting.
	RateLimiter rate.Limiter
}

// New construye el handler raíz con todas las rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Infra básica para todo el árbol.
	r.Use(mw.WithRecover(), mw.WithRequestID())

	// Operacional: sin auth, sin logging (son muy frecuentes).
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.WithLogging(), mw.WithRateLimit(deps.RateLimiter))
		registerAPIRoutes(r, deps)
	})

	return r
}

// guard arma el middleware de auth para una policy de endpoint.
func guard(deps Deps, policy auth.Policy) mw.Middleware {
	return mw.WithAPIKey(deps.Auth, policy)
}
