package stock

import (
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockItem represents a single supply item tracked in the warehouse.
// It is the aggregate root for stock operations; every change to
// CurrentStock must be paired with a StockMutation in the same
// transaction (enforced by the ledger service, the single write path).
type StockItem struct {
	shared.BaseAggregateRoot
	Code              string          `gorm:"size:32;not null;uniqueIndex"`
	Name              string          `gorm:"size:160;not null"`
	Unit              string          `gorm:"size:24;not null"` // pcs, box, rim, ...
	Category          string          `gorm:"size:64;index"`
	CurrentStock      int64           `gorm:"not null;default:0"`
	MinStock          int64           `gorm:"not null;default:0"` // reorder point
	MaxStock          int64           `gorm:"not null;default:0"`
	LastPurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AveragePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // moving weighted average
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item
func NewStockItem(code, name, unit, category string, minStock, maxStock int64) (*StockItem, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Item unit cannot be empty")
	}
	if minStock < 0 || maxStock < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Stock thresholds cannot be negative")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		Category:          category,
		CurrentStock:      0,
		MinStock:          minStock,
		MaxStock:          maxStock,
		LastPurchasePrice: decimal.Zero,
		AveragePrice:      decimal.Zero,
	}, nil
}

// ApplyDelta moves the stock level by delta (negative for outbound) and
// returns the before/after snapshot. The item never goes negative; callers
// that clamp (office-request approval) must pre-clamp the delta.
func (i *StockItem) ApplyDelta(delta int64) (before, after int64, err error) {
	before = i.CurrentStock
	after = before + delta
	if after < 0 {
		return before, before, shared.ErrInsufficientStock
	}

	i.CurrentStock = after
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return before, after, nil
}

// RecordPurchase updates pricing after a completed purchase of quantity
// units at unitPrice. The moving weighted average only considers the
// stock on hand before the purchase was booked into the ledger.
func (i *StockItem) RecordPurchase(quantity int64, unitPrice decimal.Decimal, stockBefore int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Purchase quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	oldQty := decimal.NewFromInt(stockBefore)
	inQty := decimal.NewFromInt(quantity)

	if stockBefore <= 0 || i.AveragePrice.IsZero() {
		i.AveragePrice = unitPrice
	} else {
		totalValue := oldQty.Mul(i.AveragePrice).Add(inQty.Mul(unitPrice))
		i.AveragePrice = totalValue.Div(oldQty.Add(inQty)).Round(4)
	}
	i.LastPurchasePrice = unitPrice
	i.UpdatedAt = time.Now()
	return nil
}

// IsBelowMinimum returns true if the item has dropped to or below its
// reorder point
func (i *StockItem) IsBelowMinimum() bool {
	return i.MinStock > 0 && i.CurrentStock <= i.MinStock
}

// CanFulfill returns true if current stock covers the requested quantity
func (i *StockItem) CanFulfill(quantity int64) bool {
	return i.CurrentStock >= quantity
}
