package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/flagbox/internal/auth"
	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/flags"
	"github.com/dropDatabas3/flagbox/internal/metrics"
	"github.com/dropDatabas3/flagbox/internal/values"
)

// FlagQuery son los parámetros de una resolución batch desde la API.
// Una dimensión vacía cuenta como no suministrada.
type FlagQuery struct {
	Names         []string
	UserID        string
	UserRole      string
	UserAccountID string
}

// FlagService resuelve y administra feature flags.
type FlagService struct {
	resolver *flags.Resolver
	repo     repository.FeatureFlagRepository
}

// NewFlagService crea el servicio de flags.
func NewFlagService(resolver *flags.Resolver, repo repository.FeatureFlagRepository) *FlagService {
	return &FlagService{resolver: resolver, repo: repo}
}

// Resolve corre la cascada para cada nombre y devuelve el objeto plano
// {nombre: valor parseado}. Los nombres sin resolución simplemente no
// aparecen en la respuesta.
func (s *FlagService) Resolve(ctx context.Context, actx auth.Context, q FlagQuery, publicOnly bool) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, flags.Request{
		TenantID:      actx.TenantID,
		ProjectID:     actx.ProjectID,
		Names:         q.Names,
		UserID:        q.UserID,
		UserRole:      q.UserRole,
		UserAccountID: q.UserAccountID,
		PublicOnly:    publicOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("flag resolve: %w", err)
	}

	out := make(map[string]any, len(resolved))
	for _, res := range resolved {
		out[res.Name] = values.Parse(res.Value, res.ValueType)
	}

	metrics.FlagResolutions.WithLabelValues("resolved").Add(float64(len(out)))
	// El resolver dedupea y filtra vacíos: los misses se cuentan contra ese
	// mismo conjunto, no contra la lista cruda del request.
	if missed := uniqueNames(q.Names) - len(out); missed > 0 {
		metrics.FlagResolutions.WithLabelValues("missed").Add(float64(missed))
	}
	return out, nil
}

func uniqueNames(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			seen[n] = struct{}{}
		}
	}
	return len(seen)
}

// Create da de alta una variante. La unicidad de la tupla de targeting se
// valida en el momento de escritura: un duplicado vuelve como ErrConflict.
func (s *FlagService) Create(ctx context.Context, actx auth.Context, f *domain.FeatureFlag) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.TenantID = actx.TenantID
	f.ProjectID = actx.ProjectID

	_, err := s.repo.FindVariant(ctx, repository.VariantQuery{
		TenantID:      f.TenantID,
		ProjectID:     f.ProjectID,
		Name:          f.Name,
		UserID:        f.UserID,
		UserRole:      f.UserRole,
		UserAccountID: f.UserAccountID,
	})
	if err == nil {
		return repository.ErrConflict
	}
	if !repository.IsNotFound(err) {
		return fmt.Errorf("flag create: variant check: %w", err)
	}

	return s.repo.Create(ctx, f)
}

// Update edita una variante existente del proyecto de la key.
func (s *FlagService) Update(ctx context.Context, actx auth.Context, f *domain.FeatureFlag) error {
	f.TenantID = actx.TenantID
	f.ProjectID = actx.ProjectID
	return s.repo.Update(ctx, f)
}

// Delete borra una variante del proyecto de la key.
func (s *FlagService) Delete(ctx context.Context, actx auth.Context, id string) error {
	return s.repo.Delete(ctx, id, actx.TenantID, actx.ProjectID)
}
