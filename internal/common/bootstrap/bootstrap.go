package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vincentyono/icp-smart-contract/internal/common/clock"
	"github.com/vincentyono/icp-smart-contract/internal/common/config"
	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commoncrypto "github.com/vincentyono/icp-smart-contract/internal/common/crypto"
	"github.com/vincentyono/icp-smart-contract/internal/common/db"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	"github.com/vincentyono/icp-smart-contract/internal/common/resilience"
	contentrepo "github.com/vincentyono/icp-smart-contract/internal/content/repository"
	"github.com/vincentyono/icp-smart-contract/internal/feed"
	"github.com/vincentyono/icp-smart-contract/internal/migrations"
	"github.com/vincentyono/icp-smart-contract/internal/session"
	"github.com/vincentyono/icp-smart-contract/internal/social/service"
	userrepo "github.com/vincentyono/icp-smart-contract/internal/user/repository"
)

type App struct {
	Config   config.Config
	Log      *logger.Logger
	Pool     *pgxpool.Pool
	SQLite   *sql.DB
	Users    userrepo.Repository
	Contents contentrepo.Repository
	Gate     *session.Gate
	Hub      *feed.Hub
	Social   *service.SocialService
}

// NewApp loads the configuration, builds the logger from it and wires the
// application for the configured store driver.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "social", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return Build(ctx, cfg, log)
}

func Build(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	var (
		users    userrepo.Repository
		contents contentrepo.Repository
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data will not survive restarts")
		users = userrepo.NewMemoryRepository()
		contents = contentrepo.NewMemoryRepository()

	case config.DriverPostgres:
		pool := db.NewPool(log, cfg.Store.DatabaseURL)
		if pool == nil {
			return nil, errors.New("failed to initialize database pool")
		}
		app.Pool = pool
		if err := migrations.ApplyPostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply postgres schema: %w", err)
		}
		users = userrepo.NewPgRepository(pool, log)
		contents = contentrepo.NewPgRepository(pool, log)

	case config.DriverSQLite:
		conn, err := migrations.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		app.SQLite = conn
		users = userrepo.NewSQLiteRepository(conn)
		contents = contentrepo.NewSQLiteRepository(conn)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	app.Users = userrepo.NewResilientRepository(users, breakerConfig(cfg, log, "user_store"))
	app.Contents = contentrepo.NewResilientRepository(contents, breakerConfig(cfg, log, "content_store"))

	ids := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	app.Gate = session.NewGate(ids, clk)
	app.Hub = feed.NewHub(log)
	app.Social = service.NewSocialService(
		app.Users,
		app.Contents,
		app.Gate,
		commoncrypto.NewPasswordHasher(cfg.PasswordHasher),
		ids,
		app.Hub,
		clk,
		service.Config{
			AuthzMode:       service.AuthzMode(cfg.AuthzMode),
			SessionSecret:   cfg.SessionSecret,
			SessionTokenTTL: cfg.SessionTokenTTL,
		},
		log,
	)

	log.Infof("social service wired: driver=%s authz=%s hasher=%s", cfg.Store.Driver, cfg.AuthzMode, cfg.PasswordHasher)
	return app, nil
}

// Close releases the store handles. It is safe to call on any driver.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.SQLite != nil {
		if err := a.SQLite.Close(); err != nil {
			return fmt.Errorf("failed to close sqlite: %w", err)
		}
	}
	return nil
}

func breakerConfig(cfg config.Config, log *logger.Logger, name string) resilience.CircuitBreakerConfig {
	bc := resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       name,
		Logger:     log,
	}
	if bc.Threshold <= 0 {
		bc.Threshold = constants.DefaultCircuitBreakerThreshold
	}
	if bc.Timeout <= 0 {
		bc.Timeout = constants.DefaultCircuitBreakerTimeout
	}
	if bc.ResetAfter <= 0 {
		bc.ResetAfter = constants.DefaultCircuitBreakerReset
	}
	return bc
}
