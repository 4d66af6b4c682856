package opname

import (
	"context"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockOpnameRepository defines the interface for stock opname persistence
type StockOpnameRepository interface {
	// FindByID finds an opname by ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*StockOpname, error)

	// FindByNumber finds an opname by its human-readable number
	FindByNumber(ctx context.Context, number string) (*StockOpname, error)

	// FindAll finds opnames matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockOpname, error)

	// FindByStatus finds opnames in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]StockOpname, error)

	// Save creates or updates an opname together with its lines
	Save(ctx context.Context, so *StockOpname) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, so *StockOpname) error

	// Count counts opnames matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextOpnameNumber allocates the next sequential number for the
	// given day, e.g. SO-20250115-0002
	NextOpnameNumber(ctx context.Context, date time.Time) (string, error)
}
