package opname

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOpname(t *testing.T) *StockOpname {
	so, err := NewStockOpname("SO-2025-0001", time.Now(), uuid.New(), "Admin Gudang", "opname triwulan")
	require.NoError(t, err)
	so.ClearDomainEvents()
	return so
}

func addCountedLine(t *testing.T, so *StockOpname, code string, system, actual int64) uuid.UUID {
	itemID := uuid.New()
	require.NoError(t, so.AddLine(itemID, code, "Item "+code, "pcs", system))
	require.NoError(t, so.RecordCount(itemID, actual, ""))
	return itemID
}

func TestNewStockOpname(t *testing.T) {
	t.Run("creates draft sheet", func(t *testing.T) {
		so, err := NewStockOpname("SO-2025-0001", time.Now(), uuid.New(), "Admin Gudang", "")

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, so.Status)
		assert.Equal(t, 0, so.TotalLines)

		events := so.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOpnameCreated, events[0].EventType())
	})

	t.Run("requires a number and creator", func(t *testing.T) {
		_, err := NewStockOpname("", time.Now(), uuid.New(), "Admin", "")
		require.Error(t, err)

		_, err = NewStockOpname("SO-2025-0001", time.Now(), uuid.Nil, "Admin", "")
		require.Error(t, err)
	})
}

func TestStockOpname_Lines(t *testing.T) {
	t.Run("adding a line freezes the system quantity", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := uuid.New()

		require.NoError(t, so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42))

		require.Len(t, so.Lines, 1)
		assert.Equal(t, int64(42), so.Lines[0].SystemQuantity)
		assert.False(t, so.Lines[0].Counted)
		assert.Equal(t, 1, so.TotalLines)
	})

	t.Run("duplicate item is rejected", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := uuid.New()
		require.NoError(t, so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42))

		err := so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42)
		require.Error(t, err)
	})

	t.Run("remove line", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := uuid.New()
		require.NoError(t, so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42))

		require.NoError(t, so.RemoveLine(itemID))
		assert.Empty(t, so.Lines)
		assert.Equal(t, 0, so.TotalLines)
	})

	t.Run("removing an unknown line fails", func(t *testing.T) {
		so := createTestOpname(t)
		require.Error(t, so.RemoveLine(uuid.New()))
	})

	t.Run("recording a count computes the difference", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := uuid.New()
		require.NoError(t, so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42))

		require.NoError(t, so.RecordCount(itemID, 40, "dua rim rusak"))

		assert.Equal(t, int64(-2), so.Lines[0].Difference)
		assert.True(t, so.Lines[0].Counted)
		assert.Equal(t, 1, so.CountedLines)
		assert.Equal(t, 1, so.DifferenceLines)
	})

	t.Run("recount does not double count", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := addCountedLine(t, so, "ATK-001", 42, 40)

		require.NoError(t, so.RecordCount(itemID, 42, ""))

		assert.Equal(t, 1, so.CountedLines)
		assert.Equal(t, 0, so.DifferenceLines)
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := uuid.New()
		require.NoError(t, so.AddLine(itemID, "ATK-001", "Kertas A4", "rim", 42))

		require.Error(t, so.RecordCount(itemID, -1, ""))
	})
}

func TestStockOpname_Submit(t *testing.T) {
	t.Run("submits a fully counted sheet", func(t *testing.T) {
		so := createTestOpname(t)
		addCountedLine(t, so, "ATK-001", 42, 40)
		addCountedLine(t, so, "ATK-002", 10, 10)
		so.ClearDomainEvents()

		require.NoError(t, so.Submit())

		assert.Equal(t, StatusSubmitted, so.Status)
		assert.NotNil(t, so.SubmittedAt)
	})

	t.Run("rejects partial counts", func(t *testing.T) {
		so := createTestOpname(t)
		addCountedLine(t, so, "ATK-001", 42, 40)
		require.NoError(t, so.AddLine(uuid.New(), "ATK-002", "Pulpen", "pcs", 10))

		require.Error(t, so.Submit())
	})

	t.Run("rejects empty sheet", func(t *testing.T) {
		so := createTestOpname(t)
		require.Error(t, so.Submit())
	})

	t.Run("no line edits after submission", func(t *testing.T) {
		so := createTestOpname(t)
		itemID := addCountedLine(t, so, "ATK-001", 42, 40)
		require.NoError(t, so.Submit())

		require.Error(t, so.AddLine(uuid.New(), "ATK-002", "Pulpen", "pcs", 10))
		require.Error(t, so.RecordCount(itemID, 41, ""))
		require.Error(t, so.RemoveLine(itemID))
	})
}

func TestStockOpname_Approval(t *testing.T) {
	submitted := func(t *testing.T) *StockOpname {
		so := createTestOpname(t)
		addCountedLine(t, so, "ATK-001", 42, 40)
		addCountedLine(t, so, "ATK-002", 10, 10)
		require.NoError(t, so.Submit())
		so.ClearDomainEvents()
		return so
	}

	t.Run("approval records the decision", func(t *testing.T) {
		so := submitted(t)
		approverID := uuid.New()

		require.NoError(t, so.Approve(approverID, "Kasubbag", "selisih wajar"))

		assert.Equal(t, StatusApproved, so.Status)
		assert.Equal(t, &approverID, so.ApprovedByID)
		assert.Equal(t, "selisih wajar", so.ApprovalNote)

		events := so.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOpnameApproved, events[0].EventType())
	})

	t.Run("only differing lines become adjustments", func(t *testing.T) {
		so := submitted(t)

		lines := so.LinesWithDifference()

		require.Len(t, lines, 1)
		assert.Equal(t, "ATK-001", lines[0].ItemCode)
		assert.Equal(t, int64(-2), lines[0].Difference)
	})

	t.Run("draft cannot be approved", func(t *testing.T) {
		so := createTestOpname(t)
		require.Error(t, so.Approve(uuid.New(), "Kasubbag", ""))
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		so := submitted(t)
		require.Error(t, so.Reject(uuid.New(), "Kasubbag", ""))
	})

	t.Run("rejection leaves terminal state", func(t *testing.T) {
		so := submitted(t)

		require.NoError(t, so.Reject(uuid.New(), "Kasubbag", "hitung ulang"))

		assert.Equal(t, StatusRejected, so.Status)
		require.Error(t, so.Approve(uuid.New(), "Kasubbag", ""))
	})
}

func TestStockOpname_Progress(t *testing.T) {
	so := createTestOpname(t)
	assert.Equal(t, float64(0), so.Progress())

	addCountedLine(t, so, "ATK-001", 42, 40)
	require.NoError(t, so.AddLine(uuid.New(), "ATK-002", "Pulpen", "pcs", 10))

	assert.InDelta(t, 50.0, so.Progress(), 0.001)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusApproved, false},
		{StatusSubmitted, StatusApproved, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
