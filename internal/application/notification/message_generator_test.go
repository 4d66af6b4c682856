package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageGenerator_RequestCreated(t *testing.T) {
	g := NewMessageGenerator()

	msg, err := g.Generate(&RequestCreatedData{
		RequestNumber:  "REQ-20250820-0007",
		RequesterName:  "Budi Santoso",
		DepartmentName: "Bagian Umum",
		Lines: []Line{
			{Name: "Kertas A4 80gsm", Quantity: 5, Unit: "rim"},
			{Name: "Pulpen Hitam", Quantity: 12, Unit: "pcs"},
		},
	})

	require.NoError(t, err)
	want := "📝 *Permintaan Barang Baru*\n\n" +
		"No: REQ-20250820-0007\n" +
		"Pemohon: Budi Santoso\n" +
		"Bagian: Bagian Umum\n" +
		"\nBarang:\n" +
		"• Kertas A4 80gsm - 5 rim\n" +
		"• Pulpen Hitam - 12 pcs\n" +
		"\nMohon segera diproses.\n\n" +
		"_Pesan otomatis dari Sistem Inventaris._"
	assert.Equal(t, want, msg)
}

func TestMessageGenerator_ApprovalNeeded(t *testing.T) {
	g := NewMessageGenerator()

	msg, err := g.Generate(ApprovalNeededData{
		RequestNumber:  "REQ-20250820-0007",
		RequesterName:  "Budi Santoso",
		DepartmentName: "Bagian Umum",
		Level:          2,
		Lines:          []Line{{Name: "Kertas A4 80gsm", Quantity: 5, Unit: "rim"}},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "✅ *Persetujuan Diperlukan*\n\n"))
	assert.Contains(t, msg, "Menunggu persetujuan level 2.")
	assert.Contains(t, msg, "• Kertas A4 80gsm - 5 rim")
	assert.True(t, strings.HasSuffix(msg, "_Pesan otomatis dari Sistem Inventaris._"))
}

func TestMessageGenerator_ReorderAlert(t *testing.T) {
	g := NewMessageGenerator()

	msg, err := g.Generate(&ReorderAlertData{
		ItemCode:     "ATK-001",
		ItemName:     "Kertas A4 80gsm",
		Unit:         "rim",
		CurrentStock: 8,
		MinStock:     10,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "⚠️ *Stok Menipis*\n\n"))
	assert.Contains(t, msg, "Barang: Kertas A4 80gsm (ATK-001)")
	assert.Contains(t, msg, "Sisa stok: 8 rim")
	assert.Contains(t, msg, "Stok minimum: 10 rim")
	assert.Contains(t, msg, "Segera lakukan pengadaan.")
}

func TestMessageGenerator_EmptyLines(t *testing.T) {
	g := NewMessageGenerator()

	msg, err := g.Generate(&RequestCreatedData{
		RequestNumber:  "REQ-20250820-0008",
		RequesterName:  "Budi Santoso",
		DepartmentName: "Bagian Umum",
	})

	require.NoError(t, err)
	assert.NotContains(t, msg, "Barang:")
}

func TestMessageGenerator_UnknownPayload(t *testing.T) {
	g := NewMessageGenerator()

	_, err := g.Generate(struct{ X int }{1})
	require.Error(t, err)
}
