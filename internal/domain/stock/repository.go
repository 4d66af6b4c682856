package stock

import (
	"context"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByCode finds a stock item by its unique code
	FindByCode(ctx context.Context, code string) (*StockItem, error)

	// FindByIDs finds multiple stock items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockItem, error)

	// FindAll finds stock items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindBelowMinimum finds items at or below their reorder point
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// ExistsByCode checks whether an item code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockMutationRepository is the append-only ledger store. There is
// deliberately no update or delete.
type StockMutationRepository interface {
	// Create appends a mutation row
	Create(ctx context.Context, m *StockMutation) error

	// FindByItem finds mutations for a stock item, newest first
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]StockMutation, error)

	// FindByReference finds mutations created by a source document
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]StockMutation, error)

	// FindByDateRange finds mutations within a date range (stock card reporting)
	FindByDateRange(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]StockMutation, error)

	// CountByItem counts mutations for a stock item
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}
