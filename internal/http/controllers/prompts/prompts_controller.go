// Package prompts contiene el controller de prompts (solo lectura por API).
package prompts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/http/dto"
	httperrors "github.com/dropDatabas3/flagbox/internal/http/errors"
	"github.com/dropDatabas3/flagbox/internal/http/helpers"
	mw "github.com/dropDatabas3/flagbox/internal/http/middlewares"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
)

// Controller maneja las rutas de prompts.
type Controller struct {
	service *svc.PromptService
}

// NewController crea el controller de prompts.
func NewController(service *svc.PromptService) *Controller {
	return &Controller{service: service}
}

// List maneja GET /api/v1/prompts (secret o public key).
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	records, err := c.service.List(r.Context(), actx)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}

	out := make([]dto.PromptResponse, 0, len(records))
	for _, p := range records {
		out = append(out, toResponse(p))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Get maneja GET /api/v1/prompts/{id}. Un id de otro proyecto u otro tenant
// es 404, sin más detalle.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetails("missing id"))
		return
	}

	p, err := c.service.Get(r.Context(), actx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			httperrors.WriteError(w, r, httperrors.ErrNotFound)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(*p))
}

func toResponse(p domain.Prompt) dto.PromptResponse {
	return dto.PromptResponse{
		ID:        p.ID,
		Name:      p.Name,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
