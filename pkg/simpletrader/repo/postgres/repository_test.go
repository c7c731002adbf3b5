package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
	"github.com/tendant/simple-trader/pkg/simpletrader/repo/postgres"
)

// setupTestRepository connects to SIMPLETRADER_TEST_DATABASE_URL and wraps
// every test in a transaction that is rolled back afterwards.
func setupTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()
	dbURL := os.Getenv("SIMPLETRADER_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("SIMPLETRADER_TEST_DATABASE_URL not set, skipping postgres tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	repo := postgres.New(tx)
	require.NoError(t, repo.Migrate(ctx))
	_, err = tx.Exec(ctx, `DELETE FROM orders`)
	require.NoError(t, err)
	return repo
}

func TestPostgresRepository_OrderLifecycle(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := &simpletrader.Order{
		ID:     uuid.New(),
		UserID: "player-1",
		Mode:   catalog.ModeSell,
		Lines: []simpletrader.OrderLine{{
			Category: "Vehicles", Item: "Truck", Variant: "Blue", Quantity: 2,
			Price: decimal.RequireFromString("3166.67"), Subtotal: decimal.RequireFromString("6333.34"),
		}},
		Total:     decimal.RequireFromString("6333.34"),
		Status:    simpletrader.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.ErrorIs(t, repo.CreateOrder(ctx, order), simpletrader.ErrOrderExists)

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "player-1", got.UserID)
	assert.Equal(t, catalog.ModeSell, got.Mode)
	assert.True(t, order.Total.Equal(got.Total))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Blue", got.Lines[0].Variant)

	got.Status = simpletrader.OrderStatusConfirmed
	got.ConfirmedBy = "admin-1"
	require.NoError(t, repo.UpdateOrder(ctx, got, simpletrader.OrderStatusPending))

	got.ConfirmedBy = "admin-2"
	err = repo.UpdateOrder(ctx, got, simpletrader.OrderStatusPending)
	assert.ErrorIs(t, err, simpletrader.ErrInvalidOrderStatus)

	list, err := repo.ListOrders(ctx, "player-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, simpletrader.OrderStatusConfirmed, list[0].Status)
	assert.Equal(t, "admin-1", list[0].ConfirmedBy)

	n, err := repo.DeleteAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, simpletrader.ErrOrderNotFound)
}
