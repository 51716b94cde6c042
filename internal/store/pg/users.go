package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

type userRepo struct{ pool *pgxpool.Pool }

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	const query = `
		INSERT INTO app_user (id, tenant_id, email, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.pool.Exec(ctx, query, u.ID, u.TenantID, u.Email)
	return mapError(err)
}

func (r *userRepo) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	const query = `
		SELECT id, tenant_id, email, created_at
		FROM app_user WHERE tenant_id = $1 AND email = $2
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, tenantID, email).Scan(&u.ID, &u.TenantID, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
