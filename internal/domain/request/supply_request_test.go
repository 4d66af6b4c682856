package request

import (
	"testing"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []NewLineInput {
	return []NewLineInput{
		{StockItemID: uuid.New(), ItemCode: "ATK-001", ItemName: "Kertas A4", Unit: "rim", Quantity: 5},
		{StockItemID: uuid.New(), ItemCode: "ATK-002", ItemName: "Pulpen Hitam", Unit: "pcs", Quantity: 12},
	}
}

func createTestRequest(t *testing.T, variant Variant) *SupplyRequest {
	r, err := NewSupplyRequest(variant, "REQ-2025-0001", uuid.New(), "Budi Santoso", uuid.New(), "Bagian Umum", time.Now(), testLines())
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

// approveThrough walks an ATK request up to the given level
func approveThrough(t *testing.T, r *SupplyRequest, level int) {
	for l := 1; l <= level; l++ {
		require.NoError(t, r.ApproveLevel(l, uuid.New(), "Approver"))
	}
}

func TestNewSupplyRequest(t *testing.T) {
	t.Run("creates pending request with approved pre-filled", func(t *testing.T) {
		r, err := NewSupplyRequest(VariantATK, "REQ-2025-0001", uuid.New(), "Budi", uuid.New(), "Bagian Umum", time.Now(), testLines())

		require.NoError(t, err)
		assert.Equal(t, StatusPending, r.Status)
		assert.Len(t, r.Items, 2)
		assert.Equal(t, int64(5), r.Items[0].ApprovedOrZero())
		assert.Nil(t, r.Items[0].QuantityGiven)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRequestCreated, events[0].EventType())
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewSupplyRequest(VariantATK, "REQ-2025-0001", uuid.New(), "Budi", uuid.New(), "Bagian Umum", time.Now(), nil)
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		lines := testLines()
		lines[0].Quantity = 0
		_, err := NewSupplyRequest(VariantATK, "REQ-2025-0001", uuid.New(), "Budi", uuid.New(), "Bagian Umum", time.Now(), lines)
		require.Error(t, err)
	})

	t.Run("rejects duplicate stock item", func(t *testing.T) {
		lines := testLines()
		lines[1].StockItemID = lines[0].StockItemID
		_, err := NewSupplyRequest(VariantATK, "REQ-2025-0001", uuid.New(), "Budi", uuid.New(), "Bagian Umum", time.Now(), lines)
		require.Error(t, err)
	})

	t.Run("rejects unknown variant", func(t *testing.T) {
		_, err := NewSupplyRequest(Variant("internal"), "REQ-2025-0001", uuid.New(), "Budi", uuid.New(), "Bagian Umum", time.Now(), testLines())
		require.Error(t, err)
	})
}

func TestSupplyRequest_ApproveLevel(t *testing.T) {
	t.Run("walks the three levels in order", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)

		require.NoError(t, r.ApproveLevel(1, uuid.New(), "Kasubbag"))
		assert.Equal(t, StatusLevel1Approved, r.Status)
		assert.NotNil(t, r.Level1ApprovedAt)

		require.NoError(t, r.ApproveLevel(2, uuid.New(), "Kabag"))
		assert.Equal(t, StatusLevel2Approved, r.Status)

		require.NoError(t, r.ApproveLevel(3, uuid.New(), "Sekretaris"))
		assert.Equal(t, StatusLevel3Approved, r.Status)
	})

	t.Run("level skip is rejected", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)

		err := r.ApproveLevel(2, uuid.New(), "Kabag")

		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
		assert.Equal(t, StatusPending, r.Status)
	})

	t.Run("repeating a level is rejected", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 1)

		err := r.ApproveLevel(1, uuid.New(), "Kasubbag")
		require.Error(t, err)
	})

	t.Run("intermediate approvals raise approval-needed for the next level", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		require.NoError(t, r.ApproveLevel(1, uuid.New(), "Kasubbag"))

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		e, ok := events[0].(*ApprovalNeededEvent)
		require.True(t, ok)
		assert.Equal(t, 2, e.NextLevel)
	})

	t.Run("final approval raises fully-approved", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 2)
		r.ClearDomainEvents()

		require.NoError(t, r.ApproveLevel(3, uuid.New(), "Sekretaris"))

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRequestFullyApproved, events[0].EventType())
	})

	t.Run("office variant has no level approval", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		err := r.ApproveLevel(1, uuid.New(), "Admin")
		require.Error(t, err)
	})

	t.Run("no approval on rejected request", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		require.NoError(t, r.Reject(uuid.New(), "Kasubbag", "anggaran habis"))

		err := r.ApproveLevel(1, uuid.New(), "Kasubbag")
		require.Error(t, err)
	})
}

func TestSupplyRequest_Reject(t *testing.T) {
	t.Run("rejects pending request and keeps the reason", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)

		require.NoError(t, r.Reject(uuid.New(), "Kasubbag", "stok masih cukup"))

		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "stok masih cukup", r.RejectReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		require.Error(t, r.Reject(uuid.New(), "Kasubbag", ""))
	})

	t.Run("keeps earlier approval records", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 2)

		require.NoError(t, r.Reject(uuid.New(), "Sekretaris", "tidak sesuai kebutuhan"))

		assert.Equal(t, StatusRejected, r.Status)
		assert.NotNil(t, r.Level1ApprovedAt)
		assert.NotNil(t, r.Level2ApprovedAt)
	})

	t.Run("no rejection after full approval", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)

		err := r.Reject(uuid.New(), "Sekretaris", "terlambat")
		require.Error(t, err)
	})
}

func TestSupplyRequest_Distribute(t *testing.T) {
	t.Run("records given quantities and moves to diserahkan", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)

		err := r.Distribute(uuid.New(), "Admin Gudang", []Allocation{
			{LineItemID: r.Items[0].ID, Quantity: 5},
			{LineItemID: r.Items[1].ID, Quantity: 10},
		})

		require.NoError(t, err)
		assert.Equal(t, StatusDiserahkan, r.Status)
		assert.Equal(t, int64(5), r.Items[0].GivenOrZero())
		assert.Equal(t, int64(10), r.Items[1].GivenOrZero())
		assert.NotNil(t, r.DistributedAt)
	})

	t.Run("unallocated lines get zero", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)

		err := r.Distribute(uuid.New(), "Admin Gudang", []Allocation{
			{LineItemID: r.Items[0].ID, Quantity: 5},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), r.Items[1].GivenOrZero())
	})

	t.Run("given cannot exceed approved", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)

		err := r.Distribute(uuid.New(), "Admin Gudang", []Allocation{
			{LineItemID: r.Items[0].ID, Quantity: 6},
		})
		require.Error(t, err)
	})

	t.Run("unknown line item is rejected", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)

		err := r.Distribute(uuid.New(), "Admin Gudang", []Allocation{
			{LineItemID: uuid.New(), Quantity: 1},
		})
		require.Error(t, err)
	})

	t.Run("only fully approved requests can be distributed", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 2)

		err := r.Distribute(uuid.New(), "Admin Gudang", nil)
		require.Error(t, err)
	})
}

func TestSupplyRequest_ConfirmReceive(t *testing.T) {
	distributed := func(t *testing.T) *SupplyRequest {
		r := createTestRequest(t, VariantATK)
		approveThrough(t, r, 3)
		require.NoError(t, r.Distribute(uuid.New(), "Admin Gudang", []Allocation{
			{LineItemID: r.Items[0].ID, Quantity: 5},
		}))
		r.ClearDomainEvents()
		return r
	}

	t.Run("requester confirms and request terminates", func(t *testing.T) {
		r := distributed(t)

		require.NoError(t, r.ConfirmReceive(r.RequesterID))

		assert.Equal(t, StatusDiterima, r.Status)
		assert.NotNil(t, r.ReceivedAt)
		assert.True(t, r.Status.IsTerminal())
	})

	t.Run("only the requester may confirm", func(t *testing.T) {
		r := distributed(t)

		err := r.ConfirmReceive(uuid.New())

		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", shared.CodeOf(err))
	})

	t.Run("double confirmation is rejected", func(t *testing.T) {
		r := distributed(t)
		require.NoError(t, r.ConfirmReceive(r.RequesterID))

		err := r.ConfirmReceive(r.RequesterID)
		require.Error(t, err)
	})

	t.Run("LinesToFulfill skips zero-given lines", func(t *testing.T) {
		r := distributed(t)

		lines := r.LinesToFulfill()

		require.Len(t, lines, 1)
		assert.Equal(t, r.Items[0].ID, lines[0].ID)
	})
}

func TestSupplyRequest_ApproveOffice(t *testing.T) {
	t.Run("single step completes the request", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		given := map[uuid.UUID]int64{
			r.Items[0].ID: 5,
			r.Items[1].ID: 3, // clamped by available stock
		}

		require.NoError(t, r.ApproveOffice(uuid.New(), "Admin Gudang", given))

		assert.Equal(t, StatusCompleted, r.Status)
		assert.Equal(t, int64(5), r.Items[0].GivenOrZero())
		assert.Equal(t, int64(3), r.Items[1].GivenOrZero())
		assert.NotNil(t, r.ReceivedAt)
	})

	t.Run("zero given is allowed when stock ran out", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		given := map[uuid.UUID]int64{
			r.Items[0].ID: 0,
			r.Items[1].ID: 0,
		}

		require.NoError(t, r.ApproveOffice(uuid.New(), "Admin Gudang", given))
		assert.Empty(t, r.LinesToFulfill())
	})

	t.Run("given above requested is rejected", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		given := map[uuid.UUID]int64{
			r.Items[0].ID: 6,
			r.Items[1].ID: 0,
		}

		err := r.ApproveOffice(uuid.New(), "Admin Gudang", given)
		require.Error(t, err)
	})

	t.Run("every line needs an allocation", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		given := map[uuid.UUID]int64{r.Items[0].ID: 5}

		err := r.ApproveOffice(uuid.New(), "Admin Gudang", given)
		require.Error(t, err)
	})

	t.Run("not applicable to ATK requests", func(t *testing.T) {
		r := createTestRequest(t, VariantATK)
		err := r.ApproveOffice(uuid.New(), "Admin Gudang", map[uuid.UUID]int64{})
		require.Error(t, err)
	})

	t.Run("only from pending", func(t *testing.T) {
		r := createTestRequest(t, VariantOffice)
		require.NoError(t, r.Reject(uuid.New(), "Admin", "salah input"))

		err := r.ApproveOffice(uuid.New(), "Admin Gudang", map[uuid.UUID]int64{})
		require.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	t.Run("terminal states", func(t *testing.T) {
		assert.True(t, StatusDiterima.IsTerminal())
		assert.True(t, StatusCompleted.IsTerminal())
		assert.True(t, StatusRejected.IsTerminal())
		assert.False(t, StatusPending.IsTerminal())
		assert.False(t, StatusDiserahkan.IsTerminal())
	})

	t.Run("rejection window closes after level 2", func(t *testing.T) {
		assert.True(t, StatusPending.CanBeRejected())
		assert.True(t, StatusLevel2Approved.CanBeRejected())
		assert.False(t, StatusLevel3Approved.CanBeRejected())
		assert.False(t, StatusDiserahkan.CanBeRejected())
	})
}
