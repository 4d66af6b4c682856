package purchase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPurchaseLines() []NewLineInput {
	return []NewLineInput{
		{StockItemID: uuid.New(), ItemCode: "ATK-001", ItemName: "Kertas A4", Unit: "rim", Quantity: 10, UnitPrice: decimal.NewFromInt(52000)},
		{StockItemID: uuid.New(), ItemCode: "ATK-002", ItemName: "Tinta Printer", Unit: "botol", Quantity: 4, UnitPrice: decimal.NewFromInt(85000)},
	}
}

func createTestPurchase(t *testing.T) *Purchase {
	p, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin Gudang", "", testPurchaseLines())
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestNewPurchase(t *testing.T) {
	t.Run("creates draft purchase with computed totals", func(t *testing.T) {
		p, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin Gudang", "pengadaan rutin", testPurchaseLines())

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, p.Status)
		assert.Len(t, p.Lines, 2)
		// 10*52000 + 4*85000 = 860000
		assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(860000)), "got %s", p.TotalAmount)
		assert.True(t, p.Lines[0].Subtotal.Equal(decimal.NewFromInt(520000)))

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseCreated, events[0].EventType())
	})

	t.Run("rejects empty supplier", func(t *testing.T) {
		_, err := NewPurchase("PO-2025-0001", "", time.Now(), uuid.New(), "Admin", "", testPurchaseLines())
		require.Error(t, err)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin", "", nil)
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		lines := testPurchaseLines()
		lines[0].Quantity = 0
		_, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin", "", lines)
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		lines := testPurchaseLines()
		lines[0].UnitPrice = decimal.NewFromInt(-1)
		_, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin", "", lines)
		require.Error(t, err)
	})

	t.Run("rejects duplicate stock item", func(t *testing.T) {
		lines := testPurchaseLines()
		lines[1].StockItemID = lines[0].StockItemID
		_, err := NewPurchase("PO-2025-0001", "CV Sumber Makmur", time.Now(), uuid.New(), "Admin", "", lines)
		require.Error(t, err)
	})
}

func TestPurchase_Workflow(t *testing.T) {
	t.Run("draft to received to completed", func(t *testing.T) {
		p := createTestPurchase(t)

		require.NoError(t, p.MarkReceived())
		assert.Equal(t, StatusReceived, p.Status)
		assert.NotNil(t, p.ReceivedAt)

		require.NoError(t, p.Complete())
		assert.Equal(t, StatusCompleted, p.Status)
		assert.NotNil(t, p.CompletedAt)
		assert.True(t, p.Status.IsTerminal())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseCompleted, events[0].EventType())
	})

	t.Run("cannot complete a draft", func(t *testing.T) {
		p := createTestPurchase(t)
		require.Error(t, p.Complete())
	})

	t.Run("cannot receive twice", func(t *testing.T) {
		p := createTestPurchase(t)
		require.NoError(t, p.MarkReceived())
		require.Error(t, p.MarkReceived())
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		p := createTestPurchase(t)
		require.NoError(t, p.MarkReceived())
		require.NoError(t, p.Complete())
		require.Error(t, p.Complete())
	})
}

func TestPurchase_Cancel(t *testing.T) {
	t.Run("cancels a draft with reason", func(t *testing.T) {
		p := createTestPurchase(t)

		require.NoError(t, p.Cancel("supplier tidak sanggup"))

		assert.Equal(t, StatusCancelled, p.Status)
		assert.Equal(t, "supplier tidak sanggup", p.CancelReason)
		assert.NotNil(t, p.CancelledAt)
	})

	t.Run("requires a reason", func(t *testing.T) {
		p := createTestPurchase(t)
		require.Error(t, p.Cancel(""))
	})

	t.Run("received goods cannot be cancelled", func(t *testing.T) {
		p := createTestPurchase(t)
		require.NoError(t, p.MarkReceived())

		require.Error(t, p.Cancel("berubah pikiran"))
	})
}
