package stock

import (
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MutationKind classifies a stock movement
type MutationKind string

const (
	// KindMasuk is inbound stock (purchase receiving)
	KindMasuk MutationKind = "masuk"
	// KindKeluar is outbound stock (request fulfillment)
	KindKeluar MutationKind = "keluar"
	// KindPenyesuaian is a signed stock-opname adjustment
	KindPenyesuaian MutationKind = "penyesuaian"
)

// IsValid returns true if the mutation kind is known
func (k MutationKind) IsValid() bool {
	switch k {
	case KindMasuk, KindKeluar, KindPenyesuaian:
		return true
	}
	return false
}

// String returns the string representation of MutationKind
func (k MutationKind) String() string {
	return string(k)
}

// ReferenceType identifies the originating document of a mutation
type ReferenceType string

const (
	ReferencePurchase      ReferenceType = "purchase"
	ReferenceAtkRequest    ReferenceType = "atk_request"
	ReferenceOfficeRequest ReferenceType = "office_request"
	ReferenceStockOpname   ReferenceType = "stock_opname"
	ReferenceManual        ReferenceType = "manual"
)

// IsValid returns true if the reference type is known
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferencePurchase, ReferenceAtkRequest, ReferenceOfficeRequest, ReferenceStockOpname, ReferenceManual:
		return true
	}
	return false
}

// StockMutation is one append-only ledger entry. Rows are created once
// and never updated or deleted; together they form the stock card.
type StockMutation struct {
	shared.BaseEntity
	StockItemID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	JenisMutasi   MutationKind  `gorm:"column:jenis_mutasi;size:16;not null;index"`
	Quantity      int64         `gorm:"not null"` // signed for penyesuaian
	StockBefore   int64         `gorm:"not null"`
	StockAfter    int64         `gorm:"not null"`
	ReferenceType ReferenceType `gorm:"size:32;not null;index:idx_stock_mutations_reference"`
	ReferenceID   uuid.UUID     `gorm:"type:uuid;index:idx_stock_mutations_reference"`
	Note          string        `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (StockMutation) TableName() string {
	return "stock_mutations"
}

// NewStockMutation creates a ledger entry for a stock movement
func NewStockMutation(itemID uuid.UUID, kind MutationKind, quantity, before, after int64, refType ReferenceType, refID uuid.UUID, note string) (*StockMutation, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Stock item ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown mutation kind")
	}
	if !refType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Unknown reference type")
	}
	if after != before+quantity {
		return nil, shared.NewDomainError("INVALID_SNAPSHOT", "Stock after must equal stock before plus quantity")
	}

	return &StockMutation{
		BaseEntity:    shared.NewBaseEntity(),
		StockItemID:   itemID,
		JenisMutasi:   kind,
		Quantity:      quantity,
		StockBefore:   before,
		StockAfter:    after,
		ReferenceType: refType,
		ReferenceID:   refID,
		Note:          note,
	}, nil
}
