package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

type flagRepo struct{ pool *pgxpool.Pool }

const flagColumns = `id, tenant_id, project_id, name, description, value_type, value, is_public,
	user_id, user_role, user_account_id, created_at, updated_at`

func (r *flagRepo) Create(ctx context.Context, f *domain.FeatureFlag) error {
	const query = `
		INSERT INTO feature_flag
			(id, tenant_id, project_id, name, description, value_type, value, is_public,
			 user_id, user_role, user_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		f.ID, f.TenantID, f.ProjectID, f.Name, f.Description, string(f.ValueType), f.Value, f.IsPublic,
		f.UserID, f.UserRole, f.UserAccountID,
	)
	return mapError(err)
}

func (r *flagRepo) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.FeatureFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flag WHERE id = $1 AND tenant_id = $2 AND project_id = $3`
	return scanFlag(r.pool.QueryRow(ctx, query, id, tenantID, projectID))
}

func (r *flagRepo) List(ctx context.Context, tenantID, projectID string) ([]domain.FeatureFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flag
		WHERE tenant_id = $1 AND project_id = $2
		ORDER BY name, created_at, id`
	rows, err := r.pool.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.FeatureFlag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *flagRepo) Update(ctx context.Context, f *domain.FeatureFlag) error {
	const query = `
		UPDATE feature_flag
		SET name = $4, description = $5, value_type = $6, value = $7, is_public = $8,
		    user_id = $9, user_role = $10, user_account_id = $11, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND project_id = $3
	`
	tag, err := r.pool.Exec(ctx, query,
		f.ID, f.TenantID, f.ProjectID, f.Name, f.Description, string(f.ValueType), f.Value, f.IsPublic,
		f.UserID, f.UserRole, f.UserAccountID,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *flagRepo) Delete(ctx context.Context, id, tenantID, projectID string) error {
	const query = `DELETE FROM feature_flag WHERE id = $1 AND tenant_id = $2 AND project_id = $3`
	tag, err := r.pool.Exec(ctx, query, id, tenantID, projectID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindVariant hace match EXACTO de la tupla de targeting: las dimensiones
// vacías matchean filas con la dimensión vacía, no "cualquier valor".
// El orden created_at, id hace determinista el desempate entre duplicados.
func (r *flagRepo) FindVariant(ctx context.Context, q repository.VariantQuery) (*domain.FeatureFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM feature_flag
		WHERE tenant_id = $1 AND project_id = $2 AND name = $3
		  AND user_id = $4 AND user_role = $5 AND user_account_id = $6
		  AND ($7 = false OR is_public = true)
		ORDER BY created_at, id
		LIMIT 1`
	return scanFlag(r.pool.QueryRow(ctx, query,
		q.TenantID, q.ProjectID, q.Name, q.UserID, q.UserRole, q.UserAccountID, q.PublicOnly,
	))
}

func scanFlag(rw row) (*domain.FeatureFlag, error) {
	var f domain.FeatureFlag
	var vt string
	err := rw.Scan(
		&f.ID, &f.TenantID, &f.ProjectID, &f.Name, &f.Description, &vt, &f.Value, &f.IsPublic,
		&f.UserID, &f.UserRole, &f.UserAccountID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	f.ValueType = domain.ValueType(vt)
	return &f, nil
}
