package stock

import (
	"testing"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T) *StockItem {
	item, err := NewStockItem("ATK-001", "Kertas A4 80gsm", "rim", "kertas", 10, 100)
	require.NoError(t, err)
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates stock item successfully", func(t *testing.T) {
		item, err := NewStockItem("ATK-001", "Kertas A4 80gsm", "rim", "kertas", 10, 100)

		require.NoError(t, err)
		assert.Equal(t, "ATK-001", item.Code)
		assert.Equal(t, int64(0), item.CurrentStock)
		assert.Equal(t, int64(10), item.MinStock)
		assert.True(t, item.AveragePrice.IsZero())
		assert.Equal(t, 1, item.Version)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		item, err := NewStockItem("", "Kertas A4", "rim", "kertas", 0, 0)

		require.Error(t, err)
		assert.Nil(t, item)
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		_, err := NewStockItem("ATK-001", "Kertas A4", "", "kertas", 0, 0)
		require.Error(t, err)
	})

	t.Run("fails with negative threshold", func(t *testing.T) {
		_, err := NewStockItem("ATK-001", "Kertas A4", "rim", "kertas", -1, 0)
		require.Error(t, err)
	})
}

func TestStockItem_ApplyDelta(t *testing.T) {
	t.Run("positive delta raises stock", func(t *testing.T) {
		item := createTestItem(t)

		before, after, err := item.ApplyDelta(50)

		require.NoError(t, err)
		assert.Equal(t, int64(0), before)
		assert.Equal(t, int64(50), after)
		assert.Equal(t, int64(50), item.CurrentStock)
	})

	t.Run("negative delta lowers stock", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = 50

		before, after, err := item.ApplyDelta(-30)

		require.NoError(t, err)
		assert.Equal(t, int64(50), before)
		assert.Equal(t, int64(20), after)
	})

	t.Run("rejects delta that would go negative", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = 5

		_, _, err := item.ApplyDelta(-6)

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(5), item.CurrentStock)
	})

	t.Run("draining to exactly zero is allowed", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = 5

		_, after, err := item.ApplyDelta(-5)

		require.NoError(t, err)
		assert.Equal(t, int64(0), after)
	})

	t.Run("bumps the version", func(t *testing.T) {
		item := createTestItem(t)
		v := item.Version

		_, _, err := item.ApplyDelta(10)

		require.NoError(t, err)
		assert.Equal(t, v+1, item.Version)
	})
}

func TestStockItem_RecordPurchase(t *testing.T) {
	t.Run("first purchase sets average to unit price", func(t *testing.T) {
		item := createTestItem(t)

		err := item.RecordPurchase(100, decimal.NewFromInt(50000), 0)

		require.NoError(t, err)
		assert.True(t, item.AveragePrice.Equal(decimal.NewFromInt(50000)))
		assert.True(t, item.LastPurchasePrice.Equal(decimal.NewFromInt(50000)))
	})

	t.Run("weighted average over existing stock", func(t *testing.T) {
		item := createTestItem(t)
		require.NoError(t, item.RecordPurchase(100, decimal.NewFromInt(50000), 0))

		// (100*50000 + 100*60000) / 200 = 55000
		err := item.RecordPurchase(100, decimal.NewFromInt(60000), 100)

		require.NoError(t, err)
		assert.True(t, item.AveragePrice.Equal(decimal.NewFromInt(55000)), "got %s", item.AveragePrice)
		assert.True(t, item.LastPurchasePrice.Equal(decimal.NewFromInt(60000)))
	})

	t.Run("zero stock before resets average", func(t *testing.T) {
		item := createTestItem(t)
		require.NoError(t, item.RecordPurchase(100, decimal.NewFromInt(50000), 0))

		err := item.RecordPurchase(20, decimal.NewFromInt(80000), 0)

		require.NoError(t, err)
		assert.True(t, item.AveragePrice.Equal(decimal.NewFromInt(80000)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := createTestItem(t)
		require.Error(t, item.RecordPurchase(0, decimal.NewFromInt(100), 0))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		item := createTestItem(t)
		require.Error(t, item.RecordPurchase(1, decimal.NewFromInt(-1), 0))
	})
}

func TestStockItem_IsBelowMinimum(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		min     int64
		want    bool
	}{
		{"above minimum", 50, 10, false},
		{"at minimum", 10, 10, true},
		{"below minimum", 5, 10, true},
		{"zero minimum disables alert", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := createTestItem(t)
			item.CurrentStock = tt.current
			item.MinStock = tt.min

			assert.Equal(t, tt.want, item.IsBelowMinimum())
		})
	}
}

func TestStockItem_CanFulfill(t *testing.T) {
	item := createTestItem(t)
	item.CurrentStock = 10

	assert.True(t, item.CanFulfill(10))
	assert.True(t, item.CanFulfill(3))
	assert.False(t, item.CanFulfill(11))
}
