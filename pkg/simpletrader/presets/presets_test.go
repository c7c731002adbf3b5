package presets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

func TestNewDevelopment(t *testing.T) {
	t.Run("publishes sample price list", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dev-data")
		svc, cleanup, err := NewDevelopment(WithDevDataDir(dir))
		require.NoError(t, err)
		require.NotNil(t, cleanup)

		ctx := context.Background()
		variants, err := svc.Variants(ctx, "Supplies", "Medkit")
		require.NoError(t, err)
		assert.Equal(t, []string{"Small", "Large"}, variants)

		_, err = svc.SubmitOrderText(ctx, simpletrader.SubmitOrderTextRequest{UserID: "dev", Mode: catalog.ModeBuy, Text: "Supplies: Water: Default x3"})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "orders.db"))
		assert.FileExists(t, filepath.Join(dir, "pricelists", simpletrader.DefaultCatalogKey))

		cleanup()
		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err), "data directory should be removed after cleanup")
	})

	t.Run("without price list", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dev-data")
		svc, cleanup, err := NewDevelopment(WithDevDataDir(dir), WithDevPriceList(""))
		require.NoError(t, err)
		defer cleanup()

		_, err = svc.Categories(context.Background())
		assert.ErrorIs(t, err, simpletrader.ErrCatalogNotFound)
	})
}

func TestNewTesting(t *testing.T) {
	t.Run("sample price list", func(t *testing.T) {
		svc := NewTesting(t)

		categories, err := svc.Categories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Weapons", "Vehicles", "Supplies"}, categories)
	})

	t.Run("custom price list and options", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		svc := NewTesting(t,
			WithTestPriceList(`{"categories": {"Fish": {"Salmon": {"Raw": 9, "Cooked": 15}}}}`),
			WithTestServiceOptions(simpletrader.WithClock(func() time.Time { return start })),
		)

		sess, err := svc.StartSession(context.Background(), simpletrader.StartSessionRequest{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, start.Add(simpletrader.DefaultSessionTTL), sess.ExpiresAt)

		name, ok, err := svc.MatchVariant(context.Background(), "Fish", "Salmon", "cooked")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Cooked", name)
	})

	t.Run("isolated instances", func(t *testing.T) {
		ctx := context.Background()
		a := NewTesting(t)
		b := NewTesting(t)

		_, err := a.SubmitOrderText(ctx, simpletrader.SubmitOrderTextRequest{UserID: "u1", Text: "Weapons: Rifle: Default x1"})
		require.NoError(t, err)

		orders, err := b.ListOrders(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}
