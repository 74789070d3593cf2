//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	orderspostgres "github.com/openmarket/orders/internal/domains/orders/adapters/persistence/postgres"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
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

func seedOrder(t *testing.T, repo *orderspostgres.Repository, userID int64) (*domain.Order, []domain.OrderItem) {
	t.Helper()
	order, items, err := domain.NewOrder(userID, []domain.OrderItem{
		{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("9.99")},
		{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("5.00")},
	}, "221B Baker Street", "")
	require.NoError(t, err)
	saved, savedItems, err := repo.Create(context.Background(), order, items)
	require.NoError(t, err)
	return saved, savedItems
}

func TestPostgresRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	saved, items := seedOrder(t, repo, 7)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, int64(1), saved.Version)
	assert.False(t, saved.CreatedAt.IsZero())
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, saved.ID, item.OrderID)
		assert.NotZero(t, item.ID)
	}

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("24.98")), "total was %s", got.TotalPrice)

	batch, err := repo.ItemsByOrderIDs(ctx, []int64{saved.ID})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

func TestPostgresRepository_ListPageFiltersAndOrders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedOrder(t, repo, 7)
	}
	seedOrder(t, repo, 8)

	all, total, err := repo.ListPage(ctx, ports.ListFilter{}, ports.PageRequest{Page: 1, PageSize: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].ID, all[i].ID, "newest first with id tiebreak")
	}

	userID := int64(8)
	mine, total, err := repo.ListPage(ctx, ports.ListFilter{UserID: &userID}, ports.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, userID, mine[0].UserID)
}

func TestPostgresRepository_UpdateVersionGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	saved, _ := seedOrder(t, repo, 7)

	fresh, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	fresh.Notes = "ring the bell twice"
	updated, err := repo.Update(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// A second write against the superseded version must conflict.
	stale := *saved
	stale.Notes = "stale write"
	_, err = repo.Update(ctx, &stale)
	require.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestPostgresRepository_SoftDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	saved, _ := seedOrder(t, repo, 7)

	require.NoError(t, repo.SoftDelete(ctx, saved.ID))

	_, err := repo.GetByID(ctx, saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	raw, err := repo.GetAny(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, raw.IsDeleted)

	_, total, err := repo.ListPage(ctx, ports.ListFilter{}, ports.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, repo.SoftDelete(ctx, saved.ID), "repeat delete stays successful")
}
