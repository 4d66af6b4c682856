package opname

import (
	"fmt"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the status of a stock opname document
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// IsValid checks if the status is a valid opname Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSubmitted
	case StatusSubmitted:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved, StatusRejected:
		return false // terminal
	}
	return false
}

// OpnameLine is one counted stock item. The system quantity is frozen at
// the moment the line is added; the difference is what becomes a
// penyesuaian mutation on approval.
type OpnameLine struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockOpnameID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StockItemID    uuid.UUID `gorm:"type:uuid;not null"`
	ItemCode       string    `gorm:"size:32;not null"`
	ItemName       string    `gorm:"size:160;not null"`
	Unit           string    `gorm:"size:24;not null"`
	SystemQuantity int64     `gorm:"not null"`
	ActualQuantity int64     `gorm:"not null"`
	Difference     int64     `gorm:"not null"` // actual - system
	Counted        bool      `gorm:"not null;default:false"`
	Note           string    `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (OpnameLine) TableName() string {
	return "stock_opname_lines"
}

// RecordCount records the physical count for this line
func (l *OpnameLine) RecordCount(actual int64, note string) error {
	if actual < 0 {
		return shared.NewValidationError("Actual quantity cannot be negative")
	}
	l.ActualQuantity = actual
	l.Difference = actual - l.SystemQuantity
	l.Counted = true
	l.Note = note
	l.UpdatedAt = time.Now()
	return nil
}

// HasDifference returns true if the count deviates from the system quantity
func (l *OpnameLine) HasDifference() bool {
	return l.Counted && l.Difference != 0
}

// StockOpname is the aggregate root for the physical count workflow.
// Approval is the only path that writes adjustments into the stock
// ledger.
type StockOpname struct {
	shared.BaseAggregateRoot
	OpnameNumber    string    `gorm:"size:32;not null;uniqueIndex"`
	OpnameDate      time.Time `gorm:"not null"`
	Status          Status    `gorm:"size:16;not null;index"`
	CreatedByID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedByName   string    `gorm:"size:120;not null"`
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedByID    *uuid.UUID `gorm:"type:uuid"`
	ApprovedByName  string     `gorm:"size:120"`
	ApprovalNote    string     `gorm:"size:255"`
	TotalLines      int        `gorm:"not null;default:0"`
	CountedLines    int        `gorm:"not null;default:0"`
	DifferenceLines int        `gorm:"not null;default:0"`
	Note            string     `gorm:"size:255"`
	Lines           []OpnameLine   `gorm:"foreignKey:StockOpnameID;references:ID"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (StockOpname) TableName() string {
	return "stock_opnames"
}

// NewStockOpname creates a new opname document in draft state
func NewStockOpname(opnameNumber string, opnameDate time.Time, createdByID uuid.UUID, createdByName, note string) (*StockOpname, error) {
	if opnameNumber == "" {
		return nil, shared.NewValidationError("Opname number cannot be empty")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewValidationError("Creator is required")
	}

	so := &StockOpname{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OpnameNumber:      opnameNumber,
		OpnameDate:        opnameDate,
		Status:            StatusDraft,
		CreatedByID:       createdByID,
		CreatedByName:     createdByName,
		Note:              note,
		Lines:             make([]OpnameLine, 0),
	}

	so.AddDomainEvent(NewOpnameCreatedEvent(so))
	return so, nil
}

// AddLine adds a stock item to the count sheet with its frozen system
// quantity
func (so *StockOpname) AddLine(itemID uuid.UUID, itemCode, itemName, unit string, systemQty int64) error {
	if so.Status != StatusDraft {
		return shared.NewInvalidStateError("Can only add lines in draft status")
	}
	if itemID == uuid.Nil {
		return shared.NewValidationError("Stock item ID cannot be empty")
	}
	for _, l := range so.Lines {
		if l.StockItemID == itemID {
			return shared.NewValidationError(fmt.Sprintf("Item %s is already on the count sheet", itemCode))
		}
	}

	now := time.Now()
	so.Lines = append(so.Lines, OpnameLine{
		ID:             uuid.New(),
		StockOpnameID:  so.ID,
		StockItemID:    itemID,
		ItemCode:       itemCode,
		ItemName:       itemName,
		Unit:           unit,
		SystemQuantity: systemQty,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	so.TotalLines++
	so.UpdatedAt = now
	so.IncrementVersion()
	return nil
}

// RemoveLine removes an uncounted stock item from the count sheet
func (so *StockOpname) RemoveLine(itemID uuid.UUID) error {
	if so.Status != StatusDraft {
		return shared.NewInvalidStateError("Can only remove lines in draft status")
	}
	for i, l := range so.Lines {
		if l.StockItemID == itemID {
			so.Lines = append(so.Lines[:i], so.Lines[i+1:]...)
			so.TotalLines--
			so.recalculate()
			so.UpdatedAt = time.Now()
			so.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Item not found on the count sheet")
}

// RecordCount records the physical count for a stock item
func (so *StockOpname) RecordCount(itemID uuid.UUID, actual int64, note string) error {
	if so.Status != StatusDraft {
		return shared.NewInvalidStateError("Can only record counts in draft status")
	}
	for i := range so.Lines {
		if so.Lines[i].StockItemID == itemID {
			wasCounted := so.Lines[i].Counted
			if err := so.Lines[i].RecordCount(actual, note); err != nil {
				return err
			}
			if !wasCounted {
				so.CountedLines++
			}
			so.recalculate()
			so.UpdatedAt = time.Now()
			so.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Item not found on the count sheet")
}

func (so *StockOpname) recalculate() {
	so.DifferenceLines = 0
	for _, l := range so.Lines {
		if l.HasDifference() {
			so.DifferenceLines++
		}
	}
}

// Submit sends the fully counted sheet for approval
func (so *StockOpname) Submit() error {
	if !so.Status.CanTransitionTo(StatusSubmitted) {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot submit opname in status %s", so.Status))
	}
	if so.TotalLines == 0 {
		return shared.NewValidationError("Cannot submit an opname with no lines")
	}
	if so.CountedLines != so.TotalLines {
		return shared.NewValidationError(fmt.Sprintf("Not all lines have been counted (%d/%d)", so.CountedLines, so.TotalLines))
	}

	now := time.Now()
	so.Status = StatusSubmitted
	so.SubmittedAt = &now
	so.UpdatedAt = now
	so.IncrementVersion()

	so.AddDomainEvent(NewOpnameSubmittedEvent(so))
	return nil
}

// Approve accepts the count. The calling service writes a penyesuaian
// mutation per differing line in the same transaction; the aggregate
// only records the decision.
func (so *StockOpname) Approve(approverID uuid.UUID, approverName, note string) error {
	if !so.Status.CanTransitionTo(StatusApproved) {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot approve opname in status %s", so.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver is required")
	}

	now := time.Now()
	so.Status = StatusApproved
	so.ApprovedAt = &now
	so.ApprovedByID = &approverID
	so.ApprovedByName = approverName
	so.ApprovalNote = note
	so.UpdatedAt = now
	so.IncrementVersion()

	so.AddDomainEvent(NewOpnameApprovedEvent(so))
	return nil
}

// Reject declines the count; stock stays untouched
func (so *StockOpname) Reject(approverID uuid.UUID, approverName, reason string) error {
	if !so.Status.CanTransitionTo(StatusRejected) {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot reject opname in status %s", so.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver is required")
	}
	if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}

	now := time.Now()
	so.Status = StatusRejected
	so.ApprovedAt = &now
	so.ApprovedByID = &approverID
	so.ApprovedByName = approverName
	so.ApprovalNote = reason
	so.UpdatedAt = now
	so.IncrementVersion()

	so.AddDomainEvent(NewOpnameRejectedEvent(so))
	return nil
}

// LinesWithDifference returns the lines whose count deviates from the
// system quantity, i.e. the lines that produce ledger adjustments
func (so *StockOpname) LinesWithDifference() []OpnameLine {
	out := make([]OpnameLine, 0)
	for _, l := range so.Lines {
		if l.HasDifference() {
			out = append(out, l)
		}
	}
	return out
}

// Progress returns the counting progress as a percentage
func (so *StockOpname) Progress() float64 {
	if so.TotalLines == 0 {
		return 0
	}
	return float64(so.CountedLines) / float64(so.TotalLines) * 100
}
