package services

import (
	"context"

	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

// HealthService responde el estado del proceso y del store.
type HealthService struct {
	store repository.Store
}

// NewHealthService crea el servicio de health.
func NewHealthService(store repository.Store) *HealthService {
	return &HealthService{store: store}
}

// Ready verifica que el store responda. Usado por el /readyz sin auth.
func (s *HealthService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
