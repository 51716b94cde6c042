package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

type tenantRepo struct{ pool *pgxpool.Pool }

func (r *tenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	const query = `
		INSERT INTO tenant (id, name, is_active, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.pool.Exec(ctx, query, t.ID, t.Name, t.IsActive)
	return mapError(err)
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `SELECT id, name, is_active, created_at FROM tenant WHERE id = $1`
	var t domain.Tenant
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *tenantRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenant`).Scan(&n)
	return n, mapError(err)
}
