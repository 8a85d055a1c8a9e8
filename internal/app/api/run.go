package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	"github.com/bookhaven/bookstore-api/internal/server"

	platformmigrations "github.com/bookhaven/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/bookhaven/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/bookhaven/bookstore-api/internal/platform/postgres"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"

	orderscatalog "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/catalog"
	orderskafka "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/events/kafka"
	ordersmemory "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"

	usermemory "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/memory"
	userpostgres "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/bookhaven/bookstore-api/internal/domains/users/application"
	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"

	fulfillmentclient "github.com/bookhaven/bookstore-api/internal/clients/http/fulfillment"
)

// Run boots the bookstore HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "bookstore-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()
	if db != nil {
		if err := platformmigrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	userService, catalogService, orderService := buildServices(cfg, db, logger, instruments)

	fulfillment := buildFulfillmentNotifier(cfg, logger)
	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService, fulfillment, ordersworkflows.WithLogger(logger))
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := server.NewRouter(server.Deps{
		Users:     userService,
		Catalog:   catalogService,
		Orders:    orderService,
		Workflows: orderWorkflows,
	}, otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("bookstore API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("bookstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}

func buildServices(cfg Config, db *gorm.DB, logger *slog.Logger, instruments *platformobservability.Instruments) (userports.Service, catalogports.Service, ordersports.Service) {
	var (
		userRepo     userports.Repository
		sessionStore userports.SessionStore
		catalogRepo  catalogports.Repository
		orderRepo    ordersports.Repository
	)
	if db != nil {
		userRepo = userpostgres.NewRepository(db)
		sessionStore = userpostgres.NewSessionStore(db)
		catalogRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
	} else {
		userRepo = usermemory.NewRepository()
		sessionStore = usermemory.NewSessionStore()
		catalogRepo = catalogmemory.NewRepository()
		orderRepo = ordersmemory.NewRepository()
	}

	var userOpts []userapp.Option
	if cfg.SessionTTL > 0 {
		userOpts = append(userOpts, userapp.WithSessionTTL(cfg.SessionTTL))
	}
	userService := userapp.NewService(userRepo, sessionStore, userOpts...)
	catalogService := catalogapp.NewService(catalogRepo)

	orderOpts := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if publisher := buildEventPublisher(cfg, logger); publisher != nil {
		orderOpts = append(orderOpts, ordersapp.WithEventPublisher(publisher))
	}
	coreOrderService := ordersapp.NewService(orderRepo, orderscatalog.NewAdapter(catalogService), orderOpts...)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return userService, catalogService, orderService
}

func buildEventPublisher(cfg Config, logger *slog.Logger) ordersports.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, status-changed events disabled")
		return nil
	}
	publisher, err := orderskafka.NewPublisher(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.Warn("failed to connect kafka publisher, status-changed events disabled", slog.String("error", err.Error()))
		return nil
	}
	return publisher
}

func buildFulfillmentNotifier(cfg Config, logger *slog.Logger) ordersports.FulfillmentNotifier {
	if cfg.FulfillmentURL == "" {
		logger.Warn("FULFILLMENT_URL not set, fulfillment notifications disabled")
		return nil
	}
	notifier, err := fulfillmentclient.NewClient(cfg.FulfillmentURL, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("failed to build fulfillment client, notifications disabled", slog.String("error", err.Error()))
		return nil
	}
	return notifier
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
