// Package services contiene la lógica de negocio detrás de los controllers.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/flagbox/internal/auth"
	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/values"
)

// ConfigService lee y administra los configs de un proyecto. Todo query sale
// scoped por el tenant/proyecto del auth.Context.
type ConfigService struct {
	configs repository.ConfigRepository
}

// NewConfigService crea el servicio de configs.
func NewConfigService(configs repository.ConfigRepository) *ConfigService {
	return &ConfigService{configs: configs}
}

// GetAll devuelve un objeto plano {nombre: valor parseado} con los configs
// del proyecto de la key. Con publicOnly solo entran los isPublic.
func (s *ConfigService) GetAll(ctx context.Context, actx auth.Context, publicOnly bool) (map[string]any, error) {
	records, err := s.configs.List(ctx, actx.TenantID, actx.ProjectID, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("config list: %w", err)
	}

	out := make(map[string]any, len(records))
	for _, rec := range records {
		out[rec.Name] = values.Parse(rec.Value, rec.ValueType)
	}
	return out, nil
}

// Create da de alta un config en el proyecto de la key.
func (s *ConfigService) Create(ctx context.Context, actx auth.Context, c *domain.ConfigRecord) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.TenantID = actx.TenantID
	c.ProjectID = actx.ProjectID
	return s.configs.Create(ctx, c)
}

// Update edita un config existente. ErrNotFound si el id no pertenece al
// proyecto de la key.
func (s *ConfigService) Update(ctx context.Context, actx auth.Context, c *domain.ConfigRecord) error {
	c.TenantID = actx.TenantID
	c.ProjectID = actx.ProjectID
	return s.configs.Update(ctx, c)
}

// Delete borra un config del proyecto de la key.
func (s *ConfigService) Delete(ctx context.Context, actx auth.Context, id string) error {
	return s.configs.Delete(ctx, id, actx.TenantID, actx.ProjectID)
}
