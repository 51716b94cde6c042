// Package pg implementa los repositorios de dominio sobre PostgreSQL (pgx).
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

// Store agrupa los repositorios pg sobre un pool compartido.
type Store struct {
	pool *pgxpool.Pool

	tenants  *tenantRepo
	projects *projectRepo
	users    *userRepo
	apiKeys  *apiKeyRepo
	configs  *configRepo
	flags    *flagRepo
	prompts  *promptRepo
}

// New crea el store sobre un pool existente.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		tenants:  &tenantRepo{pool: pool},
		projects: &projectRepo{pool: pool},
		users:    &userRepo{pool: pool},
		apiKeys:  &apiKeyRepo{pool: pool},
		configs:  &configRepo{pool: pool},
		flags:    &flagRepo{pool: pool},
		prompts:  &promptRepo{pool: pool},
	}
}

// PoolOptions ajusta el pool pgx. Los valores en cero dejan el default del
// driver.
type PoolOptions struct {
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// Connect abre un pool contra el DSN con las opciones dadas y lo verifica
// con un ping.
func Connect(ctx context.Context, dsn string, opts PoolOptions) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Pool expone el pool subyacente (migraciones, health checks).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close cierra el pool.
func (s *Store) Close() { s.pool.Close() }

func (s *Store) Tenants() repository.TenantRepository           { return s.tenants }
func (s *Store) Projects() repository.ProjectRepository         { return s.projects }
func (s *Store) Users() repository.UserRepository               { return s.users }
func (s *Store) APIKeys() repository.APIKeyRepository           { return s.apiKeys }
func (s *Store) Configs() repository.ConfigRepository           { return s.configs }
func (s *Store) FeatureFlags() repository.FeatureFlagRepository { return s.flags }
func (s *Store) Prompts() repository.PromptRepository           { return s.prompts }

// mapError traduce errores pgx a los sentinels de dominio.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return repository.ErrConflict
	}
	return err
}
