// Package flags contiene el controller de feature flags.
package flags

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/http/dto"
	httperrors "github.com/dropDatabas3/flagbox/internal/http/errors"
	"github.com/dropDatabas3/flagbox/internal/http/helpers"
	mw "github.com/dropDatabas3/flagbox/internal/http/middlewares"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
)

// Controller maneja resolución y escritura de flags.
type Controller struct {
	service *svc.FlagService
}

// NewController crea el controller de flags.
func NewController(service *svc.FlagService) *Controller {
	return &Controller{service: service}
}

// Resolve maneja GET /api/v1/feature-flags (secret key): cascada completa,
// sin restricción de visibilidad.
func (c *Controller) Resolve(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, false)
}

// ResolvePublic maneja GET /api/v1/public/feature-flags (public key): cada
// paso de la cascada exige isPublic.
func (c *Controller) ResolvePublic(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, true)
}

func (c *Controller) resolve(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	actx := mw.MustGetAuthContext(r.Context())
	q := r.URL.Query()

	out, err := c.service.Resolve(r.Context(), actx, svc.FlagQuery{
		Names:         parseNames(q["names"]),
		UserID:        q.Get("userId"),
		UserRole:      q.Get("userRole"),
		UserAccountID: q.Get("userAccountId"),
	}, publicOnly)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// parseNames acepta tanto ?names=a,b,c como ?names=a&names=b.
// Los vacíos se filtran.
func parseNames(raw []string) []string {
	var names []string
	for _, chunk := range raw {
		for _, name := range strings.Split(chunk, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// Create maneja POST /api/v1/feature-flags (secret key). Una tupla de
// targeting duplicada se rechaza en la escritura.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	var req dto.FlagUpsertRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	flag, appErr := flagFromRequest(req)
	if appErr != nil {
		httperrors.WriteError(w, r, appErr)
		return
	}

	if err := c.service.Create(r.Context(), actx, flag); err != nil {
		httperrors.WriteError(w, r, mapStoreError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, flag)
}

// Update maneja PUT /api/v1/feature-flags/{id} (secret key).
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetails("missing id"))
		return
	}

	var req dto.FlagUpsertRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	flag, appErr := flagFromRequest(req)
	if appErr != nil {
		httperrors.WriteError(w, r, appErr)
		return
	}
	flag.ID = id

	if err := c.service.Update(r.Context(), actx, flag); err != nil {
		httperrors.WriteError(w, r, mapStoreError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, flag)
}

// Delete maneja DELETE /api/v1/feature-flags/{id} (secret key).
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetails("missing id"))
		return
	}

	if err := c.service.Delete(r.Context(), actx, id); err != nil {
		httperrors.WriteError(w, r, mapStoreError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func flagFromRequest(req dto.FlagUpsertRequest) (*domain.FeatureFlag, *httperrors.AppError) {
	if req.Name == "" {
		return nil, httperrors.ErrBadRequest.WithDetails("name is required")
	}
	vt := domain.ValueType(req.ValueType)
	if !vt.Valid() {
		return nil, httperrors.ErrBadRequest.WithDetails("valueType must be string, number or boolean")
	}
	return &domain.FeatureFlag{
		Name:          req.Name,
		Description:   req.Description,
		ValueType:     vt,
		Value:         req.Value,
		IsPublic:      req.IsPublic,
		UserID:        req.UserID,
		UserRole:      req.UserRole,
		UserAccountID: req.UserAccountID,
	}, nil
}

func mapStoreError(err error) error {
	switch {
	case repository.IsNotFound(err):
		return httperrors.ErrNotFound
	case repository.IsConflict(err):
		return httperrors.ErrBadRequest.WithDetails("a variant with the same targeting already exists")
	default:
		return err
	}
}
