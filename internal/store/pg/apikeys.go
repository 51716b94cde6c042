package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

type apiKeyRepo struct{ pool *pgxpool.Pool }

func (r *apiKeyRepo) Create(ctx context.Context, k *domain.APIKey) error {
	const query = `
		INSERT INTO api_key (id, tenant_id, project_id, public_part, private_hash, key_class, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.pool.Exec(ctx, query, k.ID, k.TenantID, k.ProjectID, k.PublicPart, k.PrivateHash, string(k.KeyClass))
	return mapError(err)
}

// GetByPublicPart es el lookup de autenticación: la parte pública tiene
// índice único global, el scope sale de la fila.
func (r *apiKeyRepo) GetByPublicPart(ctx context.Context, publicPart string) (*domain.APIKey, error) {
	const query = `
		SELECT id, tenant_id, project_id, public_part, private_hash, key_class, created_at
		FROM api_key WHERE public_part = $1
	`
	var k domain.APIKey
	var class string
	err := r.pool.QueryRow(ctx, query, publicPart).Scan(
		&k.ID, &k.TenantID, &k.ProjectID, &k.PublicPart, &k.PrivateHash, &class, &k.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	k.KeyClass = domain.KeyClass(class)
	return &k, nil
}

func (r *apiKeyRepo) ListByProject(ctx context.Context, tenantID, projectID string) ([]domain.APIKey, error) {
	// El hash no sale del store en listados: ninguna lectura lo expone.
	const query = `
		SELECT id, tenant_id, project_id, public_part, key_class, created_at
		FROM api_key WHERE tenant_id = $1 AND project_id = $2 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.APIKey
	for rows.Next() {
		var k domain.APIKey
		var class string
		if err := rows.Scan(&k.ID, &k.TenantID, &k.ProjectID, &k.PublicPart, &class, &k.CreatedAt); err != nil {
			return nil, err
		}
		k.KeyClass = domain.KeyClass(class)
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *apiKeyRepo) Delete(ctx context.Context, id, tenantID string) error {
	const query = `DELETE FROM api_key WHERE id = $1 AND tenant_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
