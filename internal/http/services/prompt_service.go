package services

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/flagbox/internal/auth"
	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

// PromptService lee los prompts de un proyecto.
type PromptService struct {
	prompts repository.PromptRepository
}

// NewPromptService crea el servicio de prompts.
func NewPromptService(prompts repository.PromptRepository) *PromptService {
	return &PromptService{prompts: prompts}
}

// List devuelve los prompts del proyecto de la key.
func (s *PromptService) List(ctx context.Context, actx auth.Context) ([]domain.Prompt, error) {
	out, err := s.prompts.List(ctx, actx.TenantID, actx.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("prompt list: %w", err)
	}
	return out, nil
}

// Get devuelve un prompt por id. ErrNotFound si el id pertenece a otro
// proyecto u otro tenant: no distinguimos "no existe" de "no es tuyo".
func (s *PromptService) Get(ctx context.Context, actx auth.Context, id string) (*domain.Prompt, error) {
	return s.prompts.GetByID(ctx, id, actx.TenantID, actx.ProjectID)
}
