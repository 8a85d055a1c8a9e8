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

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
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

func seedBook(t *testing.T, repo *Repository, title string, stock int32, tags ...string) *domain.Book {
	t.Helper()
	book, err := domain.NewBook(uuid.NewString(), title, "Some Author", 1999, stock)
	require.NoError(t, err)
	book.Tags = tags
	saved, err := repo.Save(context.Background(), book)
	require.NoError(t, err)
	return saved
}

func TestPostgresRepository_SaveAndUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBook(t, repo, "First Edition", 5, "go")
	assert.Equal(t, []string{"go"}, book.Tags)

	book.Title = "Second Edition"
	book.Stock = 7
	updated, err := repo.Save(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, "Second Edition", updated.Title)
	assert.Equal(t, int32(7), updated.Stock)
	assert.Equal(t, book.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestPostgresRepository_ListFiltersByTag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBook(t, repo, "Gopher Tales", 3, "go", "fiction")
	seedBook(t, repo, "Rustaceans", 3, "rust")

	goBooks, err := repo.List(ctx, "go")
	require.NoError(t, err)
	require.Len(t, goBooks, 1)
	assert.Equal(t, "Gopher Tales", goBooks[0].Title)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostgresRepository_ReserveStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBook(t, repo, "Gopher Tales", 3)

	reserved, err := repo.ReserveStock(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(1), reserved.Stock)

	_, err = repo.ReserveStock(ctx, book.ID, 2)
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	_, err = repo.ReserveStock(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.ReleaseStock(ctx, book.ID, 2))
	restored, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(3), restored.Stock)

	assert.ErrorIs(t, repo.ReleaseStock(ctx, uuid.NewString(), 1), ports.ErrNotFound)
}

func TestPostgresRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBook(t, repo, "ToDelete", 1)

	require.NoError(t, repo.Delete(ctx, book.ID))

	_, err := repo.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, book.ID), ports.ErrNotFound)
}
