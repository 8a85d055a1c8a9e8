package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	fulfillmentclient "github.com/bookhaven/bookstore-api/internal/clients/http/fulfillment"
	orderactivities "github.com/bookhaven/bookstore-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/bookhaven/bookstore-api/internal/durable/temporal/workflows/orders"
	platformmigrations "github.com/bookhaven/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/bookhaven/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/bookhaven/bookstore-api/internal/platform/postgres"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	orderscatalog "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "bookstore-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()

	var (
		orderRepo   ordersports.Repository
		catalogRepo catalogports.Repository
	)
	if db != nil {
		if err := platformmigrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		orderRepo = orderspostgres.NewRepository(db)
		catalogRepo = catalogpostgres.NewRepository(db)
	} else {
		logger.Warn("worker running against in-memory repositories")
		orderRepo = ordersmemory.NewRepository()
		catalogRepo = catalogmemory.NewRepository()
	}

	catalogService := catalogapp.NewService(catalogRepo)
	orderService := ordersapp.NewService(
		orderRepo,
		orderscatalog.NewAdapter(catalogService),
		ordersapp.WithLogger(logger),
	)
	orderActivities := orderactivities.NewActivities(orderService, orderRepo, buildFulfillmentNotifier(logger))

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.NotifyFulfillment, activity.RegisterOptions{Name: orderactivities.NotifyFulfillmentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildFulfillmentNotifier(logger *slog.Logger) ordersports.FulfillmentNotifier {
	baseURL := strings.TrimSpace(os.Getenv("FULFILLMENT_URL"))
	if baseURL == "" {
		logger.Warn("FULFILLMENT_URL not set, fulfillment notifications disabled")
		return nil
	}
	notifier, err := fulfillmentclient.NewClient(baseURL, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("failed to build fulfillment client, notifications disabled", slog.String("error", err.Error()))
		return nil
	}
	return notifier
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
