// Package flags implementa la resolución de feature flags por prioridad.
package flags

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

// Request describe una resolución batch. TenantID y ProjectID vienen SIEMPRE
// del contexto de autenticación, nunca del request del cliente. Una dimensión
// con string vacío cuenta como no suministrada.
type Request struct {
	TenantID  string
	ProjectID string

	Names []string

	UserID        string
	UserRole      string
	UserAccountID string

	// PublicOnly restringe CADA paso de la cascada a filas isPublic. Una fila
	// no pública jamás se devuelve, ni siquiera como fallback.
	PublicOnly bool
}

// Resolved es la variante ganadora para un nombre.
type Resolved struct {
	Name      string
	Value     string
	ValueType domain.ValueType
}

// Resolver selecciona la variante más específica para cada nombre pedido.
type Resolver struct {
	flags repository.FeatureFlagRepository
}

// NewResolver crea un resolver sobre el repositorio de flags.
func NewResolver(flags repository.FeatureFlagRepository) *Resolver {
	return &Resolver{flags: flags}
}

// Resolve corre la cascada para cada nombre de forma independiente y devuelve
// una entrada por nombre resuelto. Los nombres sin match se omiten en
// silencio: la ausencia no es un error. Nombres vacíos se filtran; repetidos
// resuelven una sola vez.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]Resolved, error) {
	out := make([]Resolved, 0, len(req.Names))
	seen := make(map[string]struct{}, len(req.Names))

	for _, name := range req.Names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		match, err := r.resolveOne(ctx, req, name)
		if err != nil {
			return nil, err
		}
		if match != nil {
			out = append(out, Resolved{Name: match.Name, Value: match.Value, ValueType: match.ValueType})
		}
	}
	return out, nil
}

// resolveOne corre la cascada determinista, de más específico a más general.
// Gana el primer match. NO es un match sobre el power-set de dimensiones:
// solo se intentan estos cuatro niveles, en este orden. En particular, un
// userID sin rol ni cuenta solo puede resolver el default del proyecto.
func (r *Resolver) resolveOne(ctx context.Context, req Request, name string) (*domain.FeatureFlag, error) {
	base := repository.VariantQuery{
		TenantID:   req.TenantID,
		ProjectID:  req.ProjectID,
		Name:       name,
		PublicOnly: req.PublicOnly,
	}

	steps := make([]repository.VariantQuery, 0, 4)

	// 1. usuario + rol + cuenta exactos
	if req.UserID != "" && req.UserRole != "" && req.UserAccountID != "" {
		q := base
		q.UserID, q.UserRole, q.UserAccountID = req.UserID, req.UserRole, req.UserAccountID
		steps = append(steps, q)
	}
	// 2. rol + cuenta, sin usuario
	if req.UserRole != "" && req.UserAccountID != "" {
		q := base
		q.UserRole, q.UserAccountID = req.UserRole, req.UserAccountID
		steps = append(steps, q)
	}
	// 3. solo cuenta
	if req.UserAccountID != "" {
		q := base
		q.UserAccountID = req.UserAccountID
		steps = append(steps, q)
	}
	// 4. default del proyecto (todas las dimensiones vacías)
	steps = append(steps, base)

	for _, q := range steps {
		f, err := r.flags.FindVariant(ctx, q)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("flags: find variant %q: %w", name, err)
		}
		return f, nil
	}
	return nil, nil
}
