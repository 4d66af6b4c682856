package notification

import (
	"context"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingRepository defines the interface for notification setting persistence
type SettingRepository interface {
	// FindByUser finds a user's settings; shared.ErrNotFound when absent
	FindByUser(ctx context.Context, userID uuid.UUID) (*Setting, error)

	// Save creates or updates settings
	Save(ctx context.Context, s *Setting) error
}

// LogRepository defines the interface for notification log persistence
type LogRepository interface {
	// FindByID finds a log row by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Log, error)

	// FindByUser finds log rows for a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Log, error)

	// FindByStatus finds log rows in a given delivery status
	FindByStatus(ctx context.Context, status DeliveryStatus, filter shared.Filter) ([]Log, error)

	// FindByEventType finds log rows for a notification category
	FindByEventType(ctx context.Context, eventType EventType, filter shared.Filter) ([]Log, error)

	// Save creates or updates a log row
	Save(ctx context.Context, l *Log) error

	// Count counts log rows matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
