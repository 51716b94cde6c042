package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

type projectRepo struct{ pool *pgxpool.Pool }

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	const query = `
		INSERT INTO project (id, tenant_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.TenantID, p.Name)
	return mapError(err)
}

func (r *projectRepo) GetByID(ctx context.Context, id, tenantID string) (*domain.Project, error) {
	const query = `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM project WHERE id = $1 AND tenant_id = $2
	`
	var p domain.Project
	err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *projectRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Project, error) {
	const query = `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM project WHERE tenant_id = $1 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
