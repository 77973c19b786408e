package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/audit"
	auditpg "github.com/merchantops/paytm-gateway/internal/audit/postgres"
	"github.com/merchantops/paytm-gateway/internal/core/events"
	"github.com/merchantops/paytm-gateway/internal/notification"
	"github.com/merchantops/paytm-gateway/internal/order"
	"github.com/merchantops/paytm-gateway/internal/payment"
	"github.com/merchantops/paytm-gateway/internal/paytm"
	"github.com/merchantops/paytm-gateway/internal/refund"
	"github.com/merchantops/paytm-gateway/internal/transport/rest"
	"github.com/merchantops/paytm-gateway/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Mailer *notification.Mailer
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if deps.Mailer != nil {
			deps.Mailer.Shutdown()
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	// Fail fast on a broken served API contract
	if _, err := rest.LoadOpenAPISpec("./api/openapi.yml"); err != nil {
		appLogger.Warn("openapi spec unavailable, swagger docs will be broken", "error", err)
	}

	gatewayClient := paytm.NewClient(paytm.Config{
		BaseURL:        config.Paytm.BaseURL,
		MID:            config.Paytm.MID,
		KeySecret:      config.Paytm.KeySecret,
		RequestTimeout: config.Paytm.RequestTimeout,
	}, appLogger)

	bus := events.NewEventBus(appLogger)

	var db *sqlx.DB
	var auditHandler *audit.Handler
	if config.Audit.Enabled {
		db, err = initDB(config.Audit)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit database: %w", err)
		}

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open gorm connection: %w", err)
		}

		auditService := audit.NewService(auditpg.NewAuditRepository(gormDB), appLogger)
		auditService.RegisterHandlers(bus)
		auditHandler = audit.NewHandler(auditService, appLogger)
	}

	var mailer *notification.Mailer
	if config.Notification.Enabled {
		mailer = notification.NewMailer(notification.Config{
			SMTPHost:     config.Notification.SMTPHost,
			SMTPPort:     config.Notification.SMTPPort,
			SMTPUser:     config.Notification.SMTPUsername,
			SMTPPass:     config.Notification.SMTPPassword,
			FromAddress:  config.Notification.FromAddress,
			FromName:     "Payments",
			MaxWorkers:   config.Notification.MaxWorkers,
			JobQueueSize: config.Notification.QueueSize,
		}, appLogger)

		notifyService := notification.NewService(mailer, appLogger)
		notifyService.RegisterHandlers(bus)
	}

	paymentHandler := payment.NewHandler(payment.NewService(gatewayClient, bus, appLogger), appLogger)
	refundHandler := refund.NewHandler(refund.NewService(gatewayClient, bus, appLogger), appLogger)
	orderHandler := order.NewHandler(order.NewService(gatewayClient, bus, appLogger), appLogger)

	router := chi.NewRouter()
	var auditDB *sql.DB
	if db != nil {
		auditDB = db.DB
	}
	rest.RegisterAllRoutes(router, auditDB, config.Security.APITokenSecret, paymentHandler, refundHandler, orderHandler, auditHandler, appLogger)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Mailer: mailer,
		Logger: appLogger,
	}, nil
}

// initDB initializes the audit database connection
func initDB(cfg internal.AuditConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
