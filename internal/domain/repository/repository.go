package repository

import (
	"context"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

// TenantRepository define operaciones sobre tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// Count devuelve la cantidad total de tenants. Usado para aplicar el
	// invariante de tenant único en el alta.
	Count(ctx context.Context) (int, error)
}

// ProjectRepository define operaciones sobre proyectos.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id, tenantID string) (*domain.Project, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Project, error)
}

// UserRepository define operaciones mínimas sobre usuarios del dashboard.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error)
}

// APIKeyRepository define operaciones sobre API keys.
// Ninguna lectura expone el secreto en claro: solo existe PrivateHash.
type APIKeyRepository interface {
	Create(ctx context.Context, k *domain.APIKey) error

	// GetByPublicPart busca por la parte pública (índice único global).
	// Es la única lectura sin scope de tenant: la parte pública ES la
	// identidad del llamador, el scope sale del registro encontrado.
	GetByPublicPart(ctx context.Context, publicPart string) (*domain.APIKey, error)

	ListByProject(ctx context.Context, tenantID, projectID string) ([]domain.APIKey, error)
	Delete(ctx context.Context, id, tenantID string) error
}

// ConfigRepository define operaciones sobre registros de configuración.
type ConfigRepository interface {
	Create(ctx context.Context, c *domain.ConfigRecord) error
	GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.ConfigRecord, error)
	// List devuelve los configs del proyecto. Con publicOnly solo los isPublic.
	List(ctx context.Context, tenantID, projectID string, publicOnly bool) ([]domain.ConfigRecord, error)
	Update(ctx context.Context, c *domain.ConfigRecord) error
	Delete(ctx context.Context, id, tenantID, projectID string) error
}

// VariantQuery describe una búsqueda exacta de variante de flag.
// Cada dimensión se compara literalmente: string vacío matchea filas cuya
// dimensión está vacía (ausente).
type VariantQuery struct {
	TenantID      string
	ProjectID     string
	Name          string
	UserID        string
	UserRole      string
	UserAccountID string
	PublicOnly    bool
}

// FeatureFlagRepository define operaciones sobre feature flags.
type FeatureFlagRepository interface {
	Create(ctx context.Context, f *domain.FeatureFlag) error
	GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.FeatureFlag, error)
	List(ctx context.Context, tenantID, projectID string) ([]domain.FeatureFlag, error)
	Update(ctx context.Context, f *domain.FeatureFlag) error
	Delete(ctx context.Context, id, tenantID, projectID string) error

	// FindVariant busca LA fila que matchea exactamente la tupla de targeting.
	// Si existieran duplicados históricos, gana el de creación más antigua
	// (orden created_at, id). ErrNotFound si no hay match.
	FindVariant(ctx context.Context, q VariantQuery) (*domain.FeatureFlag, error)
}

// PromptRepository define operaciones de lectura sobre prompts.
type PromptRepository interface {
	Create(ctx context.Context, p *domain.Prompt) error
	GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.Prompt, error)
	List(ctx context.Context, tenantID, projectID string) ([]domain.Prompt, error)
}

// Store agrupa todos los repositorios más un ping de salud.
type Store interface {
	Ping(ctx context.Context) error

	Tenants() TenantRepository
	Projects() ProjectRepository
	Users() UserRepository
	APIKeys() APIKeyRepository
	Configs() ConfigRepository
	FeatureFlags() FeatureFlagRepository
	Prompts() PromptRepository
}
