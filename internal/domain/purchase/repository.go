package purchase

import (
	"context"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase by ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByNumber finds a purchase by its human-readable number
	FindByNumber(ctx context.Context, number string) (*Purchase, error)

	// FindAll finds purchases matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, error)

	// FindByStatus finds purchases in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Purchase, error)

	// Save creates or updates a purchase together with its lines
	Save(ctx context.Context, p *Purchase) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, p *Purchase) error

	// Count counts purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextPurchaseNumber allocates the next sequential number for the
	// given day, e.g. PO-20250115-0003
	NextPurchaseNumber(ctx context.Context, date time.Time) (string, error)
}
