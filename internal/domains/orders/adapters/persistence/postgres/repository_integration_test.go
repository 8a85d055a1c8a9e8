//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	"github.com/bookhaven/bookstore-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("bookstore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newStoredOrder(t *testing.T, repo *Repository) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.NewString(), uuid.NewString(), []domain.OrderItem{
		{BookID: uuid.NewString(), Title: "The Go Programming Language", Quantity: 2, UnitPriceCents: 3499},
	})
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := newStoredOrder(t, repo)
	assert.Equal(t, int64(1), saved.Version)
	assert.False(t, saved.CreatedAt.IsZero())

	retrieved, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, retrieved.Status)
	assert.Len(t, retrieved.Items, 1)
	assert.Equal(t, int64(2*3499), retrieved.TotalCents)
}

func TestPostgresRepository_VersionConditionalUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := newStoredOrder(t, repo)

	require.NoError(t, saved.ApplyStatus(domain.StatusShipped, time.Now()))
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, int64(2), updated.Version)

	// A writer holding the superseded version loses.
	stale := *saved
	require.NoError(t, stale.ApplyStatus(domain.StatusCancelled, time.Now()))
	_, err = repo.Save(ctx, &stale)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)

	current, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, current.Status)
}

func TestPostgresRepository_DeliveredColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := newStoredOrder(t, repo)
	deliveredAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, saved.ApplyStatus(domain.StatusDelivered, deliveredAt))

	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.True(t, updated.IsDelivered)
	require.NotNil(t, updated.DeliveredAt)
	assert.Equal(t, deliveredAt.Unix(), updated.DeliveredAt.Unix())

	// The timestamp survives a later move away from Delivered.
	require.NoError(t, updated.ApplyStatus(domain.StatusProcessing, time.Now()))
	reverted, err := repo.Save(ctx, updated)
	require.NoError(t, err)
	assert.False(t, reverted.IsDelivered)
	require.NotNil(t, reverted.DeliveredAt)
	assert.Equal(t, deliveredAt.Unix(), reverted.DeliveredAt.Unix())
}

func TestPostgresRepository_UpdateMissingOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)

	missing, err := domain.NewOrder(uuid.NewString(), uuid.NewString(), []domain.OrderItem{
		{BookID: uuid.NewString(), Title: "Ghost Book", Quantity: 1, UnitPriceCents: 100},
	})
	require.NoError(t, err)
	missing.Version = 3

	_, err = repo.Save(context.Background(), missing)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first := newStoredOrder(t, repo)
	newStoredOrder(t, repo)

	mine, err := repo.ListByUser(ctx, first.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
