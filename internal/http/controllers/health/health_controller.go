// Package health contiene el controller de health checks.
package health

import (
	"net/http"

	"github.com/dropDatabas3/flagbox/internal/http/dto"
	httperrors "github.com/dropDatabas3/flagbox/internal/http/errors"
	"github.com/dropDatabas3/flagbox/internal/http/helpers"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
)

// Controller maneja las rutas de health.
type Controller struct {
	service *svc.HealthService
}

// NewController crea el controller de health.
func NewController(service *svc.HealthService) *Controller {
	return &Controller{service: service}
}

// Health maneja GET /api/v1/health. Llega acá solo con una secret key
// válida (lo garantiza el middleware), así que la respuesta es fija.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "Ok"})
}

// Readyz maneja GET /readyz, sin auth: salud del proceso y del store.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Ready(r.Context()); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "Ok"})
}
