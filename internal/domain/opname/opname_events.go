package opname

import (
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeStockOpname = "StockOpname"

// Event type constants
const (
	EventTypeOpnameCreated   = "OpnameCreated"
	EventTypeOpnameSubmitted = "OpnameSubmitted"
	EventTypeOpnameApproved  = "OpnameApproved"
	EventTypeOpnameRejected  = "OpnameRejected"
)

// OpnameCreatedEvent is raised when a count sheet is opened
type OpnameCreatedEvent struct {
	shared.BaseDomainEvent
	OpnameID      uuid.UUID `json:"opname_id"`
	OpnameNumber  string    `json:"opname_number"`
	CreatedByName string    `json:"created_by_name"`
}

// NewOpnameCreatedEvent creates a new OpnameCreatedEvent
func NewOpnameCreatedEvent(so *StockOpname) *OpnameCreatedEvent {
	return &OpnameCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpnameCreated, AggregateTypeStockOpname, so.ID),
		OpnameID:        so.ID,
		OpnameNumber:    so.OpnameNumber,
		CreatedByName:   so.CreatedByName,
	}
}

// EventType returns the event type name
func (e *OpnameCreatedEvent) EventType() string {
	return EventTypeOpnameCreated
}

// OpnameSubmittedEvent is raised when a fully counted sheet awaits approval
type OpnameSubmittedEvent struct {
	shared.BaseDomainEvent
	OpnameID        uuid.UUID `json:"opname_id"`
	OpnameNumber    string    `json:"opname_number"`
	TotalLines      int       `json:"total_lines"`
	DifferenceLines int       `json:"difference_lines"`
}

// NewOpnameSubmittedEvent creates a new OpnameSubmittedEvent
func NewOpnameSubmittedEvent(so *StockOpname) *OpnameSubmittedEvent {
	return &OpnameSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpnameSubmitted, AggregateTypeStockOpname, so.ID),
		OpnameID:        so.ID,
		OpnameNumber:    so.OpnameNumber,
		TotalLines:      so.TotalLines,
		DifferenceLines: so.DifferenceLines,
	}
}

// EventType returns the event type name
func (e *OpnameSubmittedEvent) EventType() string {
	return EventTypeOpnameSubmitted
}

// OpnameApprovedEvent is raised when the count is accepted and the
// ledger adjustments are booked
type OpnameApprovedEvent struct {
	shared.BaseDomainEvent
	OpnameID        uuid.UUID `json:"opname_id"`
	OpnameNumber    string    `json:"opname_number"`
	ApprovedByName  string    `json:"approved_by_name"`
	DifferenceLines int       `json:"difference_lines"`
}

// NewOpnameApprovedEvent creates a new OpnameApprovedEvent
func NewOpnameApprovedEvent(so *StockOpname) *OpnameApprovedEvent {
	return &OpnameApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpnameApproved, AggregateTypeStockOpname, so.ID),
		OpnameID:        so.ID,
		OpnameNumber:    so.OpnameNumber,
		ApprovedByName:  so.ApprovedByName,
		DifferenceLines: so.DifferenceLines,
	}
}

// EventType returns the event type name
func (e *OpnameApprovedEvent) EventType() string {
	return EventTypeOpnameApproved
}

// OpnameRejectedEvent is raised when the count is declined
type OpnameRejectedEvent struct {
	shared.BaseDomainEvent
	OpnameID     uuid.UUID `json:"opname_id"`
	OpnameNumber string    `json:"opname_number"`
	Reason       string    `json:"reason"`
}

// NewOpnameRejectedEvent creates a new OpnameRejectedEvent
func NewOpnameRejectedEvent(so *StockOpname) *OpnameRejectedEvent {
	return &OpnameRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpnameRejected, AggregateTypeStockOpname, so.ID),
		OpnameID:        so.ID,
		OpnameNumber:    so.OpnameNumber,
		Reason:          so.ApprovalNote,
	}
}

// EventType returns the event type name
func (e *OpnameRejectedEvent) EventType() string {
	return EventTypeOpnameRejected
}
