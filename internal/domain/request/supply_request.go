package request

import (
	"fmt"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Variant distinguishes the two parallel request workflows
type Variant string

const (
	// VariantATK requests go through three sequential approval levels,
	// then distribution and receipt confirmation
	VariantATK Variant = "atk"
	// VariantOffice requests collapse approval into a single step that
	// also fulfills the request (stock leaves at approval time)
	VariantOffice Variant = "office"
)

// IsValid returns true if the variant is known
func (v Variant) IsValid() bool {
	return v == VariantATK || v == VariantOffice
}

// Status represents the workflow state of a supply request
type Status string

const (
	StatusPending        Status = "pending"
	StatusLevel1Approved Status = "level1_approved"
	StatusLevel2Approved Status = "level2_approved"
	StatusLevel3Approved Status = "level3_approved"
	StatusDiserahkan     Status = "diserahkan" // distributed, awaiting receipt
	StatusDiterima       Status = "diterima"   // received, terminal
	StatusCompleted      Status = "completed"  // office variant terminal
	StatusRejected       Status = "rejected"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that allow no further transition
func (s Status) IsTerminal() bool {
	return s == StatusDiterima || s == StatusCompleted || s == StatusRejected
}

// ApprovalLevel returns how many ATK approval levels the status has
// passed (pending = 0, level3_approved = 3)
func (s Status) ApprovalLevel() int {
	switch s {
	case StatusLevel1Approved:
		return 1
	case StatusLevel2Approved:
		return 2
	case StatusLevel3Approved:
		return 3
	}
	return 0
}

// statusForLevel maps an ATK approval level to the resulting status
func statusForLevel(level int) (Status, bool) {
	switch level {
	case 1:
		return StatusLevel1Approved, true
	case 2:
		return StatusLevel2Approved, true
	case 3:
		return StatusLevel3Approved, true
	}
	return "", false
}

// CanBeRejected returns true if a rejection is still allowed. A fully
// approved request can only be distributed or left alone.
func (s Status) CanBeRejected() bool {
	return s == StatusPending || s == StatusLevel1Approved || s == StatusLevel2Approved
}

// LineItem is one requested stock item. Approved and given quantities
// stay nil until the corresponding workflow step fills them.
type LineItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplyRequestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StockItemID       uuid.UUID `gorm:"type:uuid;not null"`
	ItemCode          string    `gorm:"size:32;not null"`
	ItemName          string    `gorm:"size:160;not null"`
	Unit              string    `gorm:"size:24;not null"`
	QuantityRequested int64     `gorm:"not null"`
	QuantityApproved  *int64
	QuantityGiven     *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "request_line_items"
}

// ApprovedOrZero returns the approved quantity, or 0 when not yet set
func (l *LineItem) ApprovedOrZero() int64 {
	if l.QuantityApproved == nil {
		return 0
	}
	return *l.QuantityApproved
}

// GivenOrZero returns the given quantity, or 0 when not yet set
func (l *LineItem) GivenOrZero() int64 {
	if l.QuantityGiven == nil {
		return 0
	}
	return *l.QuantityGiven
}

// NewLineInput carries the data needed to add a line item at creation
type NewLineInput struct {
	StockItemID uuid.UUID
	ItemCode    string
	ItemName    string
	Unit        string
	Quantity    int64
}

// Allocation assigns a given quantity to a line item at distribution
type Allocation struct {
	LineItemID uuid.UUID
	Quantity   int64
}

// SupplyRequest is the aggregate root for the request workflow.
// Requests are never hard-deleted; rejection and soft delete are the
// only ways out.
type SupplyRequest struct {
	shared.BaseAggregateRoot
	RequestNumber  string    `gorm:"size:32;not null;uniqueIndex"`
	Variant        Variant   `gorm:"size:12;not null;index"`
	RequesterID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterName  string    `gorm:"size:120;not null"`
	DepartmentID   uuid.UUID `gorm:"type:uuid;not null"`
	DepartmentName string    `gorm:"size:120;not null"`
	RequestDate    time.Time `gorm:"not null"`
	Status         Status    `gorm:"size:24;not null;index"`
	RejectReason   string    `gorm:"size:255"`

	Level1ApproverID   *uuid.UUID `gorm:"type:uuid"`
	Level1ApproverName string     `gorm:"size:120"`
	Level1ApprovedAt   *time.Time
	Level2ApproverID   *uuid.UUID `gorm:"type:uuid"`
	Level2ApproverName string     `gorm:"size:120"`
	Level2ApprovedAt   *time.Time
	Level3ApproverID   *uuid.UUID `gorm:"type:uuid"`
	Level3ApproverName string     `gorm:"size:120"`
	Level3ApprovedAt   *time.Time

	DistributorID   *uuid.UUID `gorm:"type:uuid"`
	DistributorName string     `gorm:"size:120"`
	DistributedAt   *time.Time
	ReceivedAt      *time.Time

	Items     []LineItem     `gorm:"foreignKey:SupplyRequestID;references:ID"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (SupplyRequest) TableName() string {
	return "supply_requests"
}

// NewSupplyRequest creates a request in pending state. Approved
// quantities are pre-filled from the requested quantities so approvers
// only adjust what they want to cut.
func NewSupplyRequest(variant Variant, requestNumber string, requesterID uuid.UUID, requesterName string, departmentID uuid.UUID, departmentName string, requestDate time.Time, lines []NewLineInput) (*SupplyRequest, error) {
	if !variant.IsValid() {
		return nil, shared.NewValidationError("Unknown request variant")
	}
	if requestNumber == "" {
		return nil, shared.NewValidationError("Request number cannot be empty")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewValidationError("Requester is required")
	}
	if departmentID == uuid.Nil {
		return nil, shared.NewValidationError("Department is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Request must contain at least one line item")
	}

	r := &SupplyRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		Variant:           variant,
		RequesterID:       requesterID,
		RequesterName:     requesterName,
		DepartmentID:      departmentID,
		DepartmentName:    departmentName,
		RequestDate:       requestDate,
		Status:            StatusPending,
		Items:             make([]LineItem, 0, len(lines)),
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	now := time.Now()
	for _, in := range lines {
		if in.StockItemID == uuid.Nil {
			return nil, shared.NewValidationError("Line item references no stock item")
		}
		if in.Quantity < 1 {
			return nil, shared.NewValidationError(fmt.Sprintf("Requested quantity for %s must be at least 1", in.ItemName))
		}
		if seen[in.StockItemID] {
			return nil, shared.NewValidationError(fmt.Sprintf("Duplicate line item for %s", in.ItemName))
		}
		seen[in.StockItemID] = true

		approved := in.Quantity
		r.Items = append(r.Items, LineItem{
			ID:                uuid.New(),
			SupplyRequestID:   r.ID,
			StockItemID:       in.StockItemID,
			ItemCode:          in.ItemCode,
			ItemName:          in.ItemName,
			Unit:              in.Unit,
			QuantityRequested: in.Quantity,
			QuantityApproved:  &approved,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	r.AddDomainEvent(NewRequestCreatedEvent(r))
	return r, nil
}

// ApproveLevel advances an ATK request by exactly one approval level.
// Skipping levels is rejected; the caller must be in the state
// immediately preceding the requested level.
func (r *SupplyRequest) ApproveLevel(level int, approverID uuid.UUID, approverName string) error {
	if r.Variant != VariantATK {
		return shared.NewInvalidStateError("Level approval only applies to ATK requests")
	}
	target, ok := statusForLevel(level)
	if !ok {
		return shared.NewValidationError(fmt.Sprintf("Unknown approval level %d", level))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver is required")
	}
	if r.Status.ApprovalLevel() != level-1 || r.Status.IsTerminal() || r.Status == StatusDiserahkan {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot approve level %d from status %s", level, r.Status))
	}

	now := time.Now()
	switch level {
	case 1:
		r.Level1ApproverID = &approverID
		r.Level1ApproverName = approverName
		r.Level1ApprovedAt = &now
	case 2:
		r.Level2ApproverID = &approverID
		r.Level2ApproverName = approverName
		r.Level2ApprovedAt = &now
	case 3:
		r.Level3ApproverID = &approverID
		r.Level3ApproverName = approverName
		r.Level3ApprovedAt = &now
	}
	r.Status = target
	r.UpdatedAt = now
	r.IncrementVersion()

	// Authorization is separate from fulfillment: no stock moves here.
	if level < 3 {
		r.AddDomainEvent(NewApprovalNeededEvent(r, level+1))
	} else {
		r.AddDomainEvent(NewRequestFullyApprovedEvent(r))
	}
	return nil
}

// ApproveOffice completes an office-supply request in a single step.
// given holds the clamped quantity per line item, decided by the caller
// against available stock (the request succeeds even when stock runs
// short; the shortfall is simply not given).
func (r *SupplyRequest) ApproveOffice(approverID uuid.UUID, approverName string, given map[uuid.UUID]int64) error {
	if r.Variant != VariantOffice {
		return shared.NewInvalidStateError("Single-step approval only applies to office requests")
	}
	if r.Status != StatusPending {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot approve office request from status %s", r.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver is required")
	}

	now := time.Now()
	for i := range r.Items {
		qty, ok := given[r.Items[i].ID]
		if !ok {
			return shared.NewValidationError(fmt.Sprintf("Missing allocation for %s", r.Items[i].ItemName))
		}
		if qty < 0 || qty > r.Items[i].QuantityRequested {
			return shared.NewValidationError(fmt.Sprintf("Allocation for %s out of bounds", r.Items[i].ItemName))
		}
		q := qty
		r.Items[i].QuantityGiven = &q
		r.Items[i].UpdatedAt = now
	}

	r.Level1ApproverID = &approverID
	r.Level1ApproverName = approverName
	r.Level1ApprovedAt = &now
	r.Status = StatusCompleted
	r.ReceivedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestCompletedEvent(r))
	return nil
}

// Reject terminates the request with a mandatory reason. Earlier
// approval records are preserved as an audit trail; only the status and
// reason change.
func (r *SupplyRequest) Reject(rejecterID uuid.UUID, rejecterName, reason string) error {
	if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}
	if rejecterID == uuid.Nil {
		return shared.NewValidationError("Rejecter is required")
	}
	if !r.Status.CanBeRejected() {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot reject request in status %s", r.Status))
	}

	r.Status = StatusRejected
	r.RejectReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestRejectedEvent(r, rejecterID, rejecterName, reason))
	return nil
}

// Distribute hands the approved goods over. Stock is not touched yet;
// it leaves the ledger only when the requester confirms receipt.
func (r *SupplyRequest) Distribute(distributorID uuid.UUID, distributorName string, allocations []Allocation) error {
	if r.Variant != VariantATK {
		return shared.NewInvalidStateError("Distribution only applies to ATK requests")
	}
	if r.Status != StatusLevel3Approved {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot distribute request in status %s", r.Status))
	}
	if distributorID == uuid.Nil {
		return shared.NewValidationError("Distributor is required")
	}

	byLine := make(map[uuid.UUID]int64, len(allocations))
	for _, a := range allocations {
		if _, dup := byLine[a.LineItemID]; dup {
			return shared.NewValidationError("Duplicate allocation for line item")
		}
		byLine[a.LineItemID] = a.Quantity
	}

	now := time.Now()
	for i := range r.Items {
		qty, ok := byLine[r.Items[i].ID]
		if !ok {
			qty = 0 // unallocated lines are simply not given
		} else {
			delete(byLine, r.Items[i].ID)
		}
		if qty < 0 || qty > r.Items[i].ApprovedOrZero() {
			return shared.NewValidationError(fmt.Sprintf("Given quantity for %s exceeds approved quantity", r.Items[i].ItemName))
		}
		q := qty
		r.Items[i].QuantityGiven = &q
		r.Items[i].UpdatedAt = now
	}
	if len(byLine) > 0 {
		return shared.NewValidationError("Allocation references unknown line item")
	}

	r.DistributorID = &distributorID
	r.DistributorName = distributorName
	r.DistributedAt = &now
	r.Status = StatusDiserahkan
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestDistributedEvent(r))
	return nil
}

// ConfirmReceive acknowledges physical receipt. Only the original
// requester may confirm, and only once; this is the point where stock
// actually leaves the ledger (done by the calling service in the same
// transaction).
func (r *SupplyRequest) ConfirmReceive(confirmerID uuid.UUID) error {
	if r.Status != StatusDiserahkan {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot confirm receipt of request in status %s", r.Status))
	}
	if confirmerID != r.RequesterID {
		return shared.NewDomainError("FORBIDDEN", "Only the requester may confirm receipt")
	}

	now := time.Now()
	r.ReceivedAt = &now
	r.Status = StatusDiterima
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestReceivedEvent(r))
	return nil
}

// LinesToFulfill returns the line items with a positive given quantity,
// i.e. the lines whose stock must be debited on receipt confirmation
func (r *SupplyRequest) LinesToFulfill() []LineItem {
	out := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.GivenOrZero() > 0 {
			out = append(out, it)
		}
	}
	return out
}
