package request

import (
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSupplyRequest = "SupplyRequest"

// Event type constants
const (
	EventTypeRequestCreated       = "RequestCreated"
	EventTypeApprovalNeeded       = "ApprovalNeeded"
	EventTypeRequestFullyApproved = "RequestFullyApproved"
	EventTypeRequestRejected      = "RequestRejected"
	EventTypeRequestDistributed   = "RequestDistributed"
	EventTypeRequestReceived      = "RequestReceived"
	EventTypeRequestCompleted     = "RequestCompleted"
)

// EventLine is the line-item snapshot carried inside request events so
// notification handlers need no extra lookup
type EventLine struct {
	StockItemID uuid.UUID `json:"stock_item_id"`
	ItemName    string    `json:"item_name"`
	Unit        string    `json:"unit"`
	Quantity    int64     `json:"quantity"`
}

func requestedLines(r *SupplyRequest) []EventLine {
	out := make([]EventLine, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, EventLine{
			StockItemID: it.StockItemID,
			ItemName:    it.ItemName,
			Unit:        it.Unit,
			Quantity:    it.QuantityRequested,
		})
	}
	return out
}

func givenLines(r *SupplyRequest) []EventLine {
	out := make([]EventLine, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, EventLine{
			StockItemID: it.StockItemID,
			ItemName:    it.ItemName,
			Unit:        it.Unit,
			Quantity:    it.GivenOrZero(),
		})
	}
	return out
}

// RequestCreatedEvent is raised when a new request enters the workflow
type RequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID   `json:"request_id"`
	RequestNumber  string      `json:"request_number"`
	Variant        Variant     `json:"variant"`
	RequesterID    uuid.UUID   `json:"requester_id"`
	RequesterName  string      `json:"requester_name"`
	DepartmentName string      `json:"department_name"`
	RequestDate    time.Time   `json:"request_date"`
	Lines          []EventLine `json:"lines"`
}

// NewRequestCreatedEvent creates a new RequestCreatedEvent
func NewRequestCreatedEvent(r *SupplyRequest) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCreated, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		Variant:         r.Variant,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		DepartmentName:  r.DepartmentName,
		RequestDate:     r.RequestDate,
		Lines:           requestedLines(r),
	}
}

// EventType returns the event type name
func (e *RequestCreatedEvent) EventType() string {
	return EventTypeRequestCreated
}

// ApprovalNeededEvent is raised after a level is approved and a higher
// level still has to act
type ApprovalNeededEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID   `json:"request_id"`
	RequestNumber  string      `json:"request_number"`
	RequesterName  string      `json:"requester_name"`
	DepartmentName string      `json:"department_name"`
	NextLevel      int         `json:"next_level"`
	Lines          []EventLine `json:"lines"`
}

// NewApprovalNeededEvent creates a new ApprovalNeededEvent
func NewApprovalNeededEvent(r *SupplyRequest, nextLevel int) *ApprovalNeededEvent {
	return &ApprovalNeededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalNeeded, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterName:   r.RequesterName,
		DepartmentName:  r.DepartmentName,
		NextLevel:       nextLevel,
		Lines:           requestedLines(r),
	}
}

// EventType returns the event type name
func (e *ApprovalNeededEvent) EventType() string {
	return EventTypeApprovalNeeded
}

// RequestFullyApprovedEvent is raised when the last approval level
// passes and the request is ready for distribution
type RequestFullyApprovedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID   `json:"request_id"`
	RequestNumber string      `json:"request_number"`
	RequesterID   uuid.UUID   `json:"requester_id"`
	RequesterName string      `json:"requester_name"`
	Lines         []EventLine `json:"lines"`
}

// NewRequestFullyApprovedEvent creates a new RequestFullyApprovedEvent
func NewRequestFullyApprovedEvent(r *SupplyRequest) *RequestFullyApprovedEvent {
	return &RequestFullyApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestFullyApproved, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		Lines:           requestedLines(r),
	}
}

// EventType returns the event type name
func (e *RequestFullyApprovedEvent) EventType() string {
	return EventTypeRequestFullyApproved
}

// RequestRejectedEvent is raised when any approval level rejects
type RequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	RequesterID   uuid.UUID `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	RejecterID    uuid.UUID `json:"rejecter_id"`
	RejecterName  string    `json:"rejecter_name"`
	Reason        string    `json:"reason"`
}

// NewRequestRejectedEvent creates a new RequestRejectedEvent
func NewRequestRejectedEvent(r *SupplyRequest, rejecterID uuid.UUID, rejecterName, reason string) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestRejected, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		RejecterID:      rejecterID,
		RejecterName:    rejecterName,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *RequestRejectedEvent) EventType() string {
	return EventTypeRequestRejected
}

// RequestDistributedEvent is raised when goods are handed over and the
// requester must confirm receipt
type RequestDistributedEvent struct {
	shared.BaseDomainEvent
	RequestID       uuid.UUID   `json:"request_id"`
	RequestNumber   string      `json:"request_number"`
	RequesterID     uuid.UUID   `json:"requester_id"`
	RequesterName   string      `json:"requester_name"`
	DistributorName string      `json:"distributor_name"`
	Lines           []EventLine `json:"lines"`
}

// NewRequestDistributedEvent creates a new RequestDistributedEvent
func NewRequestDistributedEvent(r *SupplyRequest) *RequestDistributedEvent {
	return &RequestDistributedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestDistributed, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		DistributorName: r.DistributorName,
		Lines:           givenLines(r),
	}
}

// EventType returns the event type name
func (e *RequestDistributedEvent) EventType() string {
	return EventTypeRequestDistributed
}

// RequestReceivedEvent is raised when the requester confirms receipt;
// this is the event that accompanies the outbound stock mutations
type RequestReceivedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID   `json:"request_id"`
	RequestNumber string      `json:"request_number"`
	RequesterID   uuid.UUID   `json:"requester_id"`
	RequesterName string      `json:"requester_name"`
	Lines         []EventLine `json:"lines"`
}

// NewRequestReceivedEvent creates a new RequestReceivedEvent
func NewRequestReceivedEvent(r *SupplyRequest) *RequestReceivedEvent {
	return &RequestReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestReceived, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		Lines:           givenLines(r),
	}
}

// EventType returns the event type name
func (e *RequestReceivedEvent) EventType() string {
	return EventTypeRequestReceived
}

// RequestCompletedEvent is raised when an office request finishes its
// single-step approve-and-fulfill
type RequestCompletedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID   `json:"request_id"`
	RequestNumber string      `json:"request_number"`
	RequesterID   uuid.UUID   `json:"requester_id"`
	RequesterName string      `json:"requester_name"`
	ApproverName  string      `json:"approver_name"`
	Lines         []EventLine `json:"lines"`
}

// NewRequestCompletedEvent creates a new RequestCompletedEvent
func NewRequestCompletedEvent(r *SupplyRequest) *RequestCompletedEvent {
	return &RequestCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCompleted, AggregateTypeSupplyRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		ApproverName:    r.Level1ApproverName,
		Lines:           givenLines(r),
	}
}

// EventType returns the event type name
func (e *RequestCompletedEvent) EventType() string {
	return EventTypeRequestCompleted
}
