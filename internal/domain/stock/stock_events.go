package stock

import (
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockMutated      = "StockMutated"
	EventTypeReorderPointAlert = "ReorderPointAlert"
)

// StockMutatedEvent is raised after the ledger records a movement
type StockMutatedEvent struct {
	shared.BaseDomainEvent
	StockItemID   uuid.UUID     `json:"stock_item_id"`
	ItemCode      string        `json:"item_code"`
	ItemName      string        `json:"item_name"`
	JenisMutasi   MutationKind  `json:"jenis_mutasi"`
	Quantity      int64         `json:"quantity"`
	StockBefore   int64         `json:"stock_before"`
	StockAfter    int64         `json:"stock_after"`
	ReferenceType ReferenceType `json:"reference_type"`
	ReferenceID   uuid.UUID     `json:"reference_id"`
}

// NewStockMutatedEvent creates a new StockMutatedEvent
func NewStockMutatedEvent(item *StockItem, m *StockMutation) *StockMutatedEvent {
	return &StockMutatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMutated, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemCode:        item.Code,
		ItemName:        item.Name,
		JenisMutasi:     m.JenisMutasi,
		Quantity:        m.Quantity,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
	}
}

// EventType returns the event type name
func (e *StockMutatedEvent) EventType() string {
	return EventTypeStockMutated
}

// ReorderPointAlertEvent is raised when stock drops to or below the
// minimum threshold. The ledger never fires this itself; the calling
// service checks the returned stock level and publishes explicitly.
type ReorderPointAlertEvent struct {
	shared.BaseDomainEvent
	StockItemID  uuid.UUID `json:"stock_item_id"`
	ItemCode     string    `json:"item_code"`
	ItemName     string    `json:"item_name"`
	Unit         string    `json:"unit"`
	CurrentStock int64     `json:"current_stock"`
	MinStock     int64     `json:"min_stock"`
}

// NewReorderPointAlertEvent creates a new ReorderPointAlertEvent
func NewReorderPointAlertEvent(item *StockItem) *ReorderPointAlertEvent {
	return &ReorderPointAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReorderPointAlert, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemCode:        item.Code,
		ItemName:        item.Name,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
		MinStock:        item.MinStock,
	}
}

// EventType returns the event type name
func (e *ReorderPointAlertEvent) EventType() string {
	return EventTypeReorderPointAlert
}
