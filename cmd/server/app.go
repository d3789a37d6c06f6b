package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/platform/memory"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"

	accountsmongo "github.com/phrazzld/accounts-api/internal/platform/mongo"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Exactly one of db and mongoClient is set unless the memory driver is used.
	db          *sql.DB
	mongoClient *mongo.Client

	registry *prometheus.Registry

	accountStore   store.AccountStore
	accountService service.AccountService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.setupAccountStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	logger.Info("Password hasher initialized", "bcrypt_cost", hasher.Cost())

	paginator := pagination.New[domain.Account, store.AccountFilter](app.accountStore, pagination.Config{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
		DefaultSort:  store.SortCreatedAt,
		SortFields:   store.AccountSortFields,
	})

	var err error
	app.accountService, err = service.NewAccountService(app.accountStore, hasher, paginator, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupAccountStore connects the account store selected by database.driver.
func (app *application) setupAccountStore(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.accountStore = postgres.NewPostgresAccountStore(db, app.logger)

	case config.DriverMongo:
		client, db, err := setupMongo(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.mongoClient = client

		accounts := accountsmongo.NewAccountStore(db, app.logger)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		app.accountStore = accounts

	case config.DriverMemory:
		app.logger.Warn("Using in-memory account store; data is lost on restart")
		app.accountStore = memory.NewAccountStore(app.logger)

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}

	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	if app.mongoClient != nil {
		if err := app.mongoClient.Disconnect(context.Background()); err != nil {
			app.logger.Error("Error disconnecting from mongo", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
