package purchase

import (
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchaseCreated   = "PurchaseCreated"
	EventTypePurchaseCompleted = "PurchaseCompleted"
)

// EventLine is the line snapshot carried inside purchase events
type EventLine struct {
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ItemName    string          `json:"item_name"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func eventLines(p *Purchase) []EventLine {
	out := make([]EventLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		out = append(out, EventLine{
			StockItemID: l.StockItemID,
			ItemName:    l.ItemName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return out
}

// PurchaseCreatedEvent is raised when a draft purchase is created
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID     uuid.UUID       `json:"purchase_id"`
	PurchaseNumber string          `json:"purchase_number"`
	Supplier       string          `json:"supplier"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Lines          []EventLine     `json:"lines"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		PurchaseNumber:  p.PurchaseNumber,
		Supplier:        p.Supplier,
		TotalAmount:     p.TotalAmount,
		Lines:           eventLines(p),
	}
}

// EventType returns the event type name
func (e *PurchaseCreatedEvent) EventType() string {
	return EventTypePurchaseCreated
}

// PurchaseCompletedEvent is raised when a purchase is finalized and its
// lines are booked into the stock ledger
type PurchaseCompletedEvent struct {
	shared.BaseDomainEvent
	PurchaseID     uuid.UUID       `json:"purchase_id"`
	PurchaseNumber string          `json:"purchase_number"`
	Supplier       string          `json:"supplier"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Lines          []EventLine     `json:"lines"`
}

// NewPurchaseCompletedEvent creates a new PurchaseCompletedEvent
func NewPurchaseCompletedEvent(p *Purchase) *PurchaseCompletedEvent {
	return &PurchaseCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCompleted, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		PurchaseNumber:  p.PurchaseNumber,
		Supplier:        p.Supplier,
		TotalAmount:     p.TotalAmount,
		Lines:           eventLines(p),
	}
}

// EventType returns the event type name
func (e *PurchaseCompletedEvent) EventType() string {
	return EventTypePurchaseCompleted
}
