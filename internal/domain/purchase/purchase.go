package purchase

import (
	"fmt"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents the workflow state of a purchase
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReceived  Status = "received"  // goods arrived, stock not yet booked
	StatusCompleted Status = "completed" // stock booked into the ledger
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that allow no further transition
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PurchaseLine is one purchased stock item with its actual unit cost
type PurchaseLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemCode    string          `gorm:"size:32;not null"`
	ItemName    string          `gorm:"size:160;not null"`
	Unit        string          `gorm:"size:24;not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}

// NewLineInput carries the data needed to add a purchase line
type NewLineInput struct {
	StockItemID uuid.UUID
	ItemCode    string
	ItemName    string
	Unit        string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// Purchase is the aggregate root for the purchasing workflow. Completing
// a purchase is what books stock in and moves the weighted-average cost.
type Purchase struct {
	shared.BaseAggregateRoot
	PurchaseNumber string          `gorm:"size:32;not null;uniqueIndex"`
	Supplier       string          `gorm:"size:160;not null"`
	PurchaseDate   time.Time       `gorm:"not null"`
	Status         Status          `gorm:"size:16;not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Note           string          `gorm:"size:255"`
	CreatedByID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedByName  string          `gorm:"size:120;not null"`
	ReceivedAt     *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string         `gorm:"size:255"`
	Lines          []PurchaseLine `gorm:"foreignKey:PurchaseID;references:ID"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a purchase in draft state
func NewPurchase(purchaseNumber, supplier string, purchaseDate time.Time, createdByID uuid.UUID, createdByName, note string, lines []NewLineInput) (*Purchase, error) {
	if purchaseNumber == "" {
		return nil, shared.NewValidationError("Purchase number cannot be empty")
	}
	if supplier == "" {
		return nil, shared.NewValidationError("Supplier cannot be empty")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewValidationError("Creator is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Purchase must contain at least one line")
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseNumber:    purchaseNumber,
		Supplier:          supplier,
		PurchaseDate:      purchaseDate,
		Status:            StatusDraft,
		CreatedByID:       createdByID,
		CreatedByName:     createdByName,
		Note:              note,
		Lines:             make([]PurchaseLine, 0, len(lines)),
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	total := decimal.Zero
	now := time.Now()
	for _, in := range lines {
		if in.StockItemID == uuid.Nil {
			return nil, shared.NewValidationError("Purchase line references no stock item")
		}
		if in.Quantity < 1 {
			return nil, shared.NewValidationError(fmt.Sprintf("Quantity for %s must be at least 1", in.ItemName))
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError(fmt.Sprintf("Unit price for %s cannot be negative", in.ItemName))
		}
		if seen[in.StockItemID] {
			return nil, shared.NewValidationError(fmt.Sprintf("Duplicate purchase line for %s", in.ItemName))
		}
		seen[in.StockItemID] = true

		subtotal := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
		total = total.Add(subtotal)
		p.Lines = append(p.Lines, PurchaseLine{
			ID:          uuid.New(),
			PurchaseID:  p.ID,
			StockItemID: in.StockItemID,
			ItemCode:    in.ItemCode,
			ItemName:    in.ItemName,
			Unit:        in.Unit,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    subtotal,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	p.TotalAmount = total

	p.AddDomainEvent(NewPurchaseCreatedEvent(p))
	return p, nil
}

// MarkReceived records that the goods physically arrived. Stock is not
// booked yet; that happens at completion.
func (p *Purchase) MarkReceived() error {
	if p.Status != StatusDraft {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot receive purchase in status %s", p.Status))
	}
	now := time.Now()
	p.Status = StatusReceived
	p.ReceivedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Complete finalizes the purchase. The calling service books each line
// into the stock ledger (kind masuk) and updates item prices in the same
// transaction.
func (p *Purchase) Complete() error {
	if p.Status != StatusReceived {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot complete purchase in status %s", p.Status))
	}
	now := time.Now()
	p.Status = StatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPurchaseCompletedEvent(p))
	return nil
}

// Cancel abandons a draft purchase. Received goods can no longer be
// cancelled; they must be completed or adjusted through stock opname.
func (p *Purchase) Cancel(reason string) error {
	if p.Status != StatusDraft {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot cancel purchase in status %s", p.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancellation reason is required")
	}
	now := time.Now()
	p.Status = StatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}
