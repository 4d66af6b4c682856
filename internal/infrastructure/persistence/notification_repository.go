package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationSettingRepository implements notification.SettingRepository using GORM
type GormNotificationSettingRepository struct {
	db *gorm.DB
}

// NewGormNotificationSettingRepository creates a new GormNotificationSettingRepository
func NewGormNotificationSettingRepository(db *gorm.DB) *GormNotificationSettingRepository {
	return &GormNotificationSettingRepository{db: db}
}

// FindByUser finds a user's settings; shared.ErrNotFound when absent
func (r *GormNotificationSettingRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*notification.Setting, error) {
	var s notification.Setting
	if err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save creates or updates settings
func (r *GormNotificationSettingRepository) Save(ctx context.Context, s *notification.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ notification.SettingRepository = (*GormNotificationSettingRepository)(nil)

// GormNotificationLogRepository implements notification.LogRepository using GORM
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GormNotificationLogRepository
func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// FindByID finds a log row by ID
func (r *GormNotificationLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Log, error) {
	var l notification.Log
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindByUser finds log rows for a user, newest first
func (r *GormNotificationLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]notification.Log, error) {
	var logs []notification.Log
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&notification.Log{}).Where("user_id = ?", userID),
		filter,
	)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByStatus finds log rows in a given delivery status
func (r *GormNotificationLogRepository) FindByStatus(ctx context.Context, status notification.DeliveryStatus, filter shared.Filter) ([]notification.Log, error) {
	var logs []notification.Log
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&notification.Log{}).Where("status = ?", status),
		filter,
	)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByEventType finds log rows for a notification category
func (r *GormNotificationLogRepository) FindByEventType(ctx context.Context, eventType notification.EventType, filter shared.Filter) ([]notification.Log, error) {
	var logs []notification.Log
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&notification.Log{}).Where("event_type = ?", eventType),
		filter,
	)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Save creates or updates a log row
func (r *GormNotificationLogRepository) Save(ctx context.Context, l *notification.Log) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Count counts log rows matching the filter
func (r *GormNotificationLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&notification.Log{})
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if eventType, ok := filter.Filters["event_type"].(string); ok && eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, NotificationLogSortFields, "created_at")
	return query.Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir)))
}

var _ notification.LogRepository = (*GormNotificationLogRepository)(nil)
