package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/project-expenses/api"
	"github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/cache"
	"github.com/frahmantamala/project-expenses/internal/core/events"
	"github.com/frahmantamala/project-expenses/internal/expense"
	expensePostgres "github.com/frahmantamala/project-expenses/internal/expense/postgres"
	"github.com/frahmantamala/project-expenses/internal/product"
	productPostgres "github.com/frahmantamala/project-expenses/internal/product/postgres"
	"github.com/frahmantamala/project-expenses/internal/project"
	projectPostgres "github.com/frahmantamala/project-expenses/internal/project/postgres"
	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/frahmantamala/project-expenses/internal/transport/middleware"
	"github.com/frahmantamala/project-expenses/internal/transport/rest"
	"github.com/frahmantamala/project-expenses/internal/user"
	userPostgres "github.com/frahmantamala/project-expenses/internal/user/postgres"
	"github.com/frahmantamala/project-expenses/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving expenses, projects, users and products`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serve(server, deps.Logger, func() {
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	})
}

// serve runs server until SIGINT/SIGTERM, then shuts it down and runs
// cleanup.
func serve(server *http.Server, lg *slog.Logger, cleanup func()) {
	lg.Info("Starting HTTP server", "address", server.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		if cleanup != nil {
			cleanup()
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	cacheCfg := cache.Config{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.Cache.TTL,
		Size:    cfg.Cache.Size,
	}
	base := transport.NewBaseHandler(deps.Logger)

	expenses := expense.NewCachedRepository(
		expensePostgres.NewExpenseRepository(deps.DB),
		cacheCfg,
		expense.InvalidationPolicy(cfg.Cache.Invalidation),
		deps.Logger,
	)
	// Project and user writes change the joined summaries of cached expenses.
	deps.Bus.Subscribe(events.EventTypeProjectChanged, expenses.HandleRelatedChange)
	deps.Bus.Subscribe(events.EventTypeUserChanged, expenses.HandleRelatedChange)
	subscribeAuditLog(deps.Bus, deps.Logger)

	expenseService := expense.NewService(expenses, deps.Bus, deps.Logger)
	projectService := project.NewService(projectPostgres.NewProjectRepository(deps.Gorm), deps.Bus, deps.Logger)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.Bus, deps.Logger)
	productService := product.NewService(productPostgres.NewProductRepository(deps.Gorm), cacheCfg, deps.Bus, deps.Logger)

	var validator *middleware.RequestValidator
	if cfg.Server.ValidateRequests {
		v, err := middleware.NewRequestValidator(api.Spec, deps.Logger)
		if err != nil {
			return err
		}
		validator = v
	}

	health := rest.NewHealthHandler(deps.DB.DB, func() map[string]any {
		return map[string]any{
			"expenses": expenses.Stats(),
			"products": productService.Stats(),
		}
	})

	rest.RegisterAllRoutes(deps.Router, rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Validator:      validator,
		Health:         health,
		Expenses:       expense.NewHandler(expenseService),
		Projects:       project.NewHandler(base, projectService),
		Users:          user.NewHandler(base, userService),
		Products:       product.NewHandler(base, productService),
	}, deps.Logger)
	return nil
}

// subscribeAuditLog records every committed write on a separate bus so the
// log never delays a response.
func subscribeAuditLog(bus *events.EventBus, lg *slog.Logger) {
	audit := events.NewEventBus(lg)
	record := func(ctx context.Context, event events.Event) error {
		changed, ok := event.(*events.RecordChangedEvent)
		if !ok {
			return nil
		}
		lg.Info("record changed",
			"event_id", changed.EventID(),
			"event_type", changed.EventType(),
			"record_id", changed.RecordID,
			"owner_id", changed.OwnerID,
			"action", changed.Action)
		return nil
	}

	eventTypes := []string{
		events.EventTypeExpenseChanged,
		events.EventTypeProjectChanged,
		events.EventTypeUserChanged,
		events.EventTypeProductChanged,
	}
	for _, eventType := range eventTypes {
		audit.Subscribe(eventType, record)
	}
	bus.Relay(audit, eventTypes...)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Bus:    events.NewEventBus(lg),
		Router: chi.NewRouter(),
		Logger: lg,
	}, nil
}

// initDB opens the pgx pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
