package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

type configRepo struct{ pool *pgxpool.Pool }

func (r *configRepo) Create(ctx context.Context, c *domain.ConfigRecord) error {
	const query = `
		INSERT INTO config_record
			(id, tenant_id, project_id, name, description, value_type, value, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.TenantID, c.ProjectID, c.Name, c.Description, string(c.ValueType), c.Value, c.IsPublic,
	)
	return mapError(err)
}

func (r *configRepo) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.ConfigRecord, error) {
	const query = `
		SELECT id, tenant_id, project_id, name, description, value_type, value, is_public, created_at, updated_at
		FROM config_record WHERE id = $1 AND tenant_id = $2 AND project_id = $3
	`
	return scanConfig(r.pool.QueryRow(ctx, query, id, tenantID, projectID))
}

func (r *configRepo) List(ctx context.Context, tenantID, projectID string, publicOnly bool) ([]domain.ConfigRecord, error) {
	const query = `
		SELECT id, tenant_id, project_id, name, description, value_type, value, is_public, created_at, updated_at
		FROM config_record
		WHERE tenant_id = $1 AND project_id = $2 AND ($3 = false OR is_public = true)
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, tenantID, projectID, publicOnly)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.ConfigRecord
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *configRepo) Update(ctx context.Context, c *domain.ConfigRecord) error {
	const query = `
		UPDATE config_record
		SET name = $4, description = $5, value_type = $6, value = $7, is_public = $8, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND project_id = $3
	`
	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.TenantID, c.ProjectID, c.Name, c.Description, string(c.ValueType), c.Value, c.IsPublic,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *configRepo) Delete(ctx context.Context, id, tenantID, projectID string) error {
	const query = `DELETE FROM config_record WHERE id = $1 AND tenant_id = $2 AND project_id = $3`
	tag, err := r.pool.Exec(ctx, query, id, tenantID, projectID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// row abstrae pgx.Row / pgx.Rows para compartir el scan.
type row interface {
	Scan(dest ...any) error
}

func scanConfig(rw row) (*domain.ConfigRecord, error) {
	var c domain.ConfigRecord
	var vt string
	err := rw.Scan(
		&c.ID, &c.TenantID, &c.ProjectID, &c.Name, &c.Description, &vt, &c.Value, &c.IsPublic,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	c.ValueType = domain.ValueType(vt)
	return &c, nil
}
