package request

import (
	"context"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplyRequestRepository defines the interface for supply request persistence
type SupplyRequestRepository interface {
	// FindByID finds a request by ID, line items included
	FindByID(ctx context.Context, id uuid.UUID) (*SupplyRequest, error)

	// FindByNumber finds a request by its human-readable number
	FindByNumber(ctx context.Context, number string) (*SupplyRequest, error)

	// FindAll finds requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SupplyRequest, error)

	// FindByRequester finds requests created by a user
	FindByRequester(ctx context.Context, requesterID uuid.UUID, filter shared.Filter) ([]SupplyRequest, error)

	// FindByStatus finds requests in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]SupplyRequest, error)

	// Save creates or updates a request together with its line items
	Save(ctx context.Context, r *SupplyRequest) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, r *SupplyRequest) error

	// Count counts requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextRequestNumber allocates the next sequential number for the
	// given day, e.g. REQ-20250115-0007
	NextRequestNumber(ctx context.Context, variant Variant, date time.Time) (string, error)
}
