package notification

import (
	"fmt"
	"strings"

	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
)

const messageFooter = "_Pesan otomatis dari Sistem Inventaris._"

// Line is one item row rendered into a message
type Line struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     string `json:"unit"`
}

// RequestCreatedData is the payload for a new-request notification
type RequestCreatedData struct {
	RequestNumber  string `json:"request_number"`
	RequesterName  string `json:"requester_name"`
	DepartmentName string `json:"department_name"`
	Lines          []Line `json:"lines"`
}

// ApprovalNeededData is the payload for a pending-approval notification
type ApprovalNeededData struct {
	RequestNumber  string `json:"request_number"`
	RequesterName  string `json:"requester_name"`
	DepartmentName string `json:"department_name"`
	Level          int    `json:"level"`
	Lines          []Line `json:"lines"`
}

// ReorderAlertData is the payload for a low-stock notification
type ReorderAlertData struct {
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	Unit         string `json:"unit"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
}

// MessageGenerator renders WhatsApp message bodies from event payloads.
// It is a pure formatter: no lookups, no clock, no side effects.
type MessageGenerator struct{}

// NewMessageGenerator creates a MessageGenerator
func NewMessageGenerator() *MessageGenerator {
	return &MessageGenerator{}
}

// Generate renders the message for an event payload. The payload type
// determines the template; unknown payloads are an error.
func (g *MessageGenerator) Generate(data any) (string, error) {
	switch d := data.(type) {
	case *RequestCreatedData:
		return g.requestCreated(d), nil
	case RequestCreatedData:
		return g.requestCreated(&d), nil
	case *ApprovalNeededData:
		return g.approvalNeeded(d), nil
	case ApprovalNeededData:
		return g.approvalNeeded(&d), nil
	case *ReorderAlertData:
		return g.reorderAlert(d), nil
	case ReorderAlertData:
		return g.reorderAlert(&d), nil
	}
	return "", shared.NewValidationError(fmt.Sprintf("No message template for payload type %T", data))
}

func (g *MessageGenerator) requestCreated(d *RequestCreatedData) string {
	var b strings.Builder
	b.WriteString("📝 *Permintaan Barang Baru*\n\n")
	fmt.Fprintf(&b, "No: %s\n", d.RequestNumber)
	fmt.Fprintf(&b, "Pemohon: %s\n", d.RequesterName)
	fmt.Fprintf(&b, "Bagian: %s\n", d.DepartmentName)
	writeLines(&b, d.Lines)
	b.WriteString("\nMohon segera diproses.\n\n")
	b.WriteString(messageFooter)
	return b.String()
}

func (g *MessageGenerator) approvalNeeded(d *ApprovalNeededData) string {
	var b strings.Builder
	b.WriteString("✅ *Persetujuan Diperlukan*\n\n")
	fmt.Fprintf(&b, "No: %s\n", d.RequestNumber)
	fmt.Fprintf(&b, "Pemohon: %s\n", d.RequesterName)
	fmt.Fprintf(&b, "Bagian: %s\n", d.DepartmentName)
	fmt.Fprintf(&b, "Menunggu persetujuan level %d.\n", d.Level)
	writeLines(&b, d.Lines)
	b.WriteString("\n")
	b.WriteString(messageFooter)
	return b.String()
}

func (g *MessageGenerator) reorderAlert(d *ReorderAlertData) string {
	var b strings.Builder
	b.WriteString("⚠️ *Stok Menipis*\n\n")
	fmt.Fprintf(&b, "Barang: %s (%s)\n", d.ItemName, d.ItemCode)
	fmt.Fprintf(&b, "Sisa stok: %d %s\n", d.CurrentStock, d.Unit)
	fmt.Fprintf(&b, "Stok minimum: %d %s\n", d.MinStock, d.Unit)
	b.WriteString("\nSegera lakukan pengadaan.\n\n")
	b.WriteString(messageFooter)
	return b.String()
}

func writeLines(b *strings.Builder, lines []Line) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\nBarang:\n")
	for _, l := range lines {
		fmt.Fprintf(b, "• %s - %d %s\n", l.Name, l.Quantity, l.Unit)
	}
}

// eventTypeFor maps a payload to its notification toggle category
func eventTypeFor(data any) (notification.EventType, bool) {
	switch data.(type) {
	case *RequestCreatedData, RequestCreatedData:
		return notification.EventRequestCreated, true
	case *ApprovalNeededData, ApprovalNeededData:
		return notification.EventApprovalNeeded, true
	case *ReorderAlertData, ReorderAlertData:
		return notification.EventReorderAlert, true
	}
	return "", false
}
