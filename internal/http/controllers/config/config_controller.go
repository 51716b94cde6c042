// Package config contiene el controller de configs del proyecto.
package config

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/http/dto"
	httperrors "github.com/dropDatabas3/flagbox/internal/http/errors"
	"github.com/dropDatabas3/flagbox/internal/http/helpers"
	mw "github.com/dropDatabas3/flagbox/internal/http/middlewares"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
)

// Controller maneja lecturas y escrituras de configs.
type Controller struct {
	service *svc.ConfigService
}

// NewController crea el controller de configs.
func NewController(service *svc.ConfigService) *Controller {
	return &Controller{service: service}
}

// Get maneja GET /api/v1/config (secret key): objeto plano con todos los
// configs del proyecto.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	out, err := c.service.GetAll(r.Context(), actx, false)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GetPublic maneja GET /api/v1/public/config (public key): solo isPublic.
func (c *Controller) GetPublic(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	out, err := c.service.GetAll(r.Context(), actx, true)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Create maneja POST /api/v1/config (secret key).
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	var req dto.ConfigUpsertRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	rec, appErr := configFromRequest(req)
	if appErr != nil {
		httperrors.WriteError(w, r, appErr)
		return
	}

	if err := c.service.Create(r.Context(), actx, rec); err != nil {
		httperrors.WriteError(w, r, mapStoreError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, rec)
}

// Update maneja PUT /api/v1/config/{id} (secret key).
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	actx := mw.MustGetAuthContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetails("missing id"))
		return
	}

	var req dto.ConfigUpsertRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	rec, appErr := configFromRequest(req)
	if appErr != nil {
		httperrors.WriteError(w, r, appErr)
		return
	}
	rec.ID = id

	if err := c.service.Update(r.Context(), actx, rec); err != nil {
		httperrors.WriteError(w, r, mapStoreError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rec)
}

// Delete maneja DELETE /api/v1/config/{id} (secret key).
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

func configFromRequest(req dto.ConfigUpsertRequest) (*domain.ConfigRecord, *httperrors.AppError) {
	if req.Name == "" {
		return nil, httperrors.ErrBadRequest.WithDetails("name is required")
	}
	vt := domain.ValueType(req.ValueType)
	if !vt.Valid() {
		return nil, httperrors.ErrBadRequest.WithDetails("valueType must be string, number or boolean")
	}
	return &domain.ConfigRecord{
		Name:        req.Name,
		Description: req.Description,
		ValueType:   vt,
		Value:       req.Value,
		IsPublic:    req.IsPublic,
	}, nil
}

func mapStoreError(err error) error {
	switch {
	case repository.IsNotFound(err):
		return httperrors.ErrNotFound
	case repository.IsConflict(err):
		return httperrors.ErrBadRequest.WithDetails("a record with the same identity already exists")
	default:
		return err
	}
}
