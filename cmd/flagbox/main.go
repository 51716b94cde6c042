package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/flagbox/internal/auth"
	"github.com/dropDatabas3/flagbox/internal/config"
	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/flags"
	configctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/config"
	flagsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/flags"
	healthctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/health"
	promptsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/prompts"
	"github.com/dropDatabas3/flagbox/internal/http/router"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
	"github.com/dropDatabas3/flagbox/internal/metrics"
	"github.com/dropDatabas3/flagbox/internal/observability/logger"
	"github.com/dropDatabas3/flagbox/internal/rate"
	"github.com/dropDatabas3/flagbox/internal/security/apikey"
	"github.com/dropDatabas3/flagbox/internal/store/pg"
	migrations "github.com/dropDatabas3/flagbox/migrations/postgres"
)

func main() {
	// .env es opcional: en docker/prod las vars vienen del entorno.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:   "flagbox",
		Short: "Servicio multi-tenant de configuración y feature flags",
	}
	root.PersistentFlags().StringVar(&configPath, "config", envOr("CONFIG_PATH", "config.yaml"), "Ruta del config YAML")

	root.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		keysCmd(&configPath),
		seedCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// loadConfig carga YAML+env e inicializa el logger.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "flagbox"})
	return cfg, nil
}

func connectStore(ctx context.Context, cfg *config.Config) (*pg.Store, error) {
	if cfg.Storage.DSN == "" {
		return nil, errors.New("storage.dsn is required (or env STORAGE_DSN)")
	}
	opts := pg.PoolOptions{MaxConns: int32(cfg.Storage.Postgres.MaxConns)}
	if cfg.Storage.Postgres.ConnMaxLifetime != "" {
		// Load ya validó la duración.
		opts.ConnMaxLifetime, _ = time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
	}
	return pg.Connect(ctx, cfg.Storage.DSN, opts)
}

func newHasher(cfg *config.Config) *apikey.BcryptHasher {
	h := apikey.NewBcryptHasher()
	h.Cost = cfg.APIKeys.BcryptCost
	return h
}

func buildLimiter(cfg *config.Config) (rate.Limiter, error) {
	if !cfg.Rate.Enabled {
		return nil, nil
	}
	switch cfg.Rate.Backend {
	case "redis":
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Rate.Redis.Addr, DB: cfg.Rate.Redis.DB})
		return rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix, cfg.Rate.MaxRequests, cfg.RateWindow()), nil
	case "memory":
		return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow()), nil
	default:
		return nil, fmt.Errorf("unknown rate backend %q (memory|redis)", cfg.Rate.Backend)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.Named("serve")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := connectStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connecting to storage: %w", err)
			}
			defer store.Close()

			authSvc, err := auth.NewService(store.APIKeys(), newHasher(cfg))
			if err != nil {
				return fmt.Errorf("building auth service: %w", err)
			}

			limiter, err := buildLimiter(cfg)
			if err != nil {
				return err
			}
			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return fmt.Errorf("registering metrics: %w", err)
			}

			resolver := flags.NewResolver(store.FeatureFlags())
			handler := router.New(router.Deps{
				Auth:        authSvc,
				Health:      healthctrl.NewController(svc.NewHealthService(store)),
				Config:      configctrl.NewController(svc.NewConfigService(store.Configs())),
				Flags:       flagsctrl.NewController(svc.NewFlagService(resolver, store.FeatureFlags())),
				Prompts:     promptsctrl.NewController(svc.NewPromptService(store.Prompts())),
				RateLimiter: limiter,
			})

			readTimeout, _ := time.ParseDuration(cfg.Server.ReadTimeout)
			writeTimeout, _ := time.ParseDuration(cfg.Server.WriteTimeout)
			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      handler,
				ReadTimeout:  readTimeout,
				WriteTimeout: writeTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownTimeout, _ := time.ParseDuration(cfg.Server.ShutdownTimeout)
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				log.Info("shutting down")
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Administra el esquema de la base de datos",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			applied, err := pg.NewMigrator(migrations.FS, store.Pool()).Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("nothing to apply")
				return nil
			}
			for _, v := range applied {
				fmt.Printf("applied %04d\n", v)
			}
			return nil
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revierte la última migración aplicada",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			v, err := pg.NewMigrator(migrations.FS, store.Pool()).Down(cmd.Context())
			if err != nil {
				return err
			}
			if v == 0 {
				fmt.Println("nothing to revert")
				return nil
			}
			fmt.Printf("reverted %04d\n", v)
			return nil
		},
	})

	return migrate
}

func keysCmd(configPath *string) *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Administra API keys",
	}

	var tenantID, projectID, class string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea una API key e imprime el secreto (única vez que se muestra)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenantID == "" || projectID == "" {
				return errors.New("--tenant y --project son requeridos")
			}
			keyClass := domain.KeyClass(class)
			if !keyClass.Valid() {
				return fmt.Errorf("--class inválida %q (secret|public)", class)
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			gen, err := apikey.Generate(newHasher(cfg))
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}
			key := &domain.APIKey{
				ID:          uuid.NewString(),
				TenantID:    tenantID,
				ProjectID:   projectID,
				PublicPart:  gen.PublicPart,
				PrivateHash: gen.PrivateHash,
				KeyClass:    keyClass,
			}
			if err := store.APIKeys().Create(cmd.Context(), key); err != nil {
				return fmt.Errorf("storing key: %w", err)
			}

			fmt.Printf("id:    %s\n", key.ID)
			fmt.Printf("class: %s\n", key.KeyClass)
			// El secreto no se persiste en claro: guardalo ahora o regenerá.
			fmt.Printf("key:   %s\n", gen.FullKey)
			return nil
		},
	}
	create.Flags().StringVar(&tenantID, "tenant", "", "ID del tenant")
	create.Flags().StringVar(&projectID, "project", "", "ID del proyecto")
	create.Flags().StringVar(&class, "class", "secret", "Clase de key: secret|public")

	var listTenant, listProject string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista las keys de un proyecto (nunca muestra secretos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTenant == "" || listProject == "" {
				return errors.New("--tenant y --project son requeridos")
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.APIKeys().ListByProject(cmd.Context(), listTenant, listProject)
			if err != nil {
				return err
			}
			for _, k := range items {
				fmt.Printf("%s  %s_%s_****  %s  %s\n",
					k.ID, apikey.PrefixSecret, k.PublicPart, k.KeyClass, k.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	list.Flags().StringVar(&listTenant, "tenant", "", "ID del tenant")
	list.Flags().StringVar(&listProject, "project", "", "ID del proyecto")

	var delTenant, delID string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Revoca una API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if delTenant == "" || delID == "" {
				return errors.New("--tenant y --id son requeridos")
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.APIKeys().Delete(cmd.Context(), delID, delTenant); err != nil {
				return err
			}
			fmt.Println("revoked")
			return nil
		},
	}
	del.Flags().StringVar(&delTenant, "tenant", "", "ID del tenant")
	del.Flags().StringVar(&delID, "id", "", "ID de la key")

	keys.AddCommand(create, list, del)
	return keys
}

func seedCmd(configPath *string) *cobra.Command {
	var tenantName, projectName string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Crea un tenant y proyecto inicial",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := connectStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			// Modo single-tenant: con un tenant existente el alta se rechaza.
			if !cfg.Tenants.AllowMultiple {
				n, err := store.Tenants().Count(cmd.Context())
				if err != nil {
					return err
				}
				if n > 0 {
					return errors.New("a tenant already exists; set tenants.allow_multiple to create more")
				}
			}

			tenant := &domain.Tenant{ID: uuid.NewString(), Name: tenantName, IsActive: true}
			if err := store.Tenants().Create(cmd.Context(), tenant); err != nil {
				return fmt.Errorf("creating tenant: %w", err)
			}
			project := &domain.Project{ID: uuid.NewString(), TenantID: tenant.ID, Name: projectName}
			if err := store.Projects().Create(cmd.Context(), project); err != nil {
				return fmt.Errorf("creating project: %w", err)
			}

			// Registros de ejemplo para poder probar la API recién instalada.
			if err := store.Configs().Create(cmd.Context(), &domain.ConfigRecord{
				ID: uuid.NewString(), TenantID: tenant.ID, ProjectID: project.ID,
				Name: "welcomeMessage", ValueType: domain.ValueTypeString, Value: "hello", IsPublic: true,
			}); err != nil {
				return fmt.Errorf("seeding config: %w", err)
			}
			if err := store.FeatureFlags().Create(cmd.Context(), &domain.FeatureFlag{
				ID: uuid.NewString(), TenantID: tenant.ID, ProjectID: project.ID,
				Name: "sampleFlag", ValueType: domain.ValueTypeBoolean, Value: "false", IsPublic: true,
			}); err != nil {
				return fmt.Errorf("seeding flag: %w", err)
			}
			if err := store.Prompts().Create(cmd.Context(), &domain.Prompt{
				ID: uuid.NewString(), TenantID: tenant.ID, ProjectID: project.ID,
				Name: "welcome", Content: "You are a helpful assistant.",
			}); err != nil {
				return fmt.Errorf("seeding prompt: %w", err)
			}

			fmt.Printf("tenant:  %s (%s)\n", tenant.ID, tenant.Name)
			fmt.Printf("project: %s (%s)\n", project.ID, project.Name)
			fmt.Println("seeded: 1 config, 1 flag, 1 prompt")
			return nil
		},
	}
	seed.Flags().StringVar(&tenantName, "tenant-name", "default", "Nombre del tenant")
	seed.Flags().StringVar(&projectName, "project-name", "default", "Nombre del proyecto")
	return seed
}
