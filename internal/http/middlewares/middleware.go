// Package middlewares contiene los decoradores HTTP del servicio: request id,
// recover, logging, métricas, rate limiting y autenticación por API key.
package middlewares

import "net/http"

// Middleware es un decorador de http.Handler. La firma es compatible con
// chi.Router.Use, así los middlewares se componen directo en el router.
type Middleware func(http.Handler) http.Handler
