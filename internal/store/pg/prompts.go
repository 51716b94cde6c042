package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

type promptRepo struct{ pool *pgxpool.Pool }

func (r *promptRepo) Create(ctx context.Context, p *domain.Prompt) error {
	const query = `
		INSERT INTO prompt (id, tenant_id, project_id, name, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.TenantID, p.ProjectID, p.Name, p.Content)
	return mapError(err)
}

func (r *promptRepo) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.Prompt, error) {
	const query = `
		SELECT id, tenant_id, project_id, name, content, created_at, updated_at
		FROM prompt WHERE id = $1 AND tenant_id = $2 AND project_id = $3
	`
	return scanPrompt(r.pool.QueryRow(ctx, query, id, tenantID, projectID))
}

func (r *promptRepo) List(ctx context.Context, tenantID, projectID string) ([]domain.Prompt, error) {
	const query = `
		SELECT id, tenant_id, project_id, name, content, created_at, updated_at
		FROM prompt WHERE tenant_id = $1 AND project_id = $2
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPrompt(rw row) (*domain.Prompt, error) {
	var p domain.Prompt
	err := rw.Scan(&p.ID, &p.TenantID, &p.ProjectID, &p.Name, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}
