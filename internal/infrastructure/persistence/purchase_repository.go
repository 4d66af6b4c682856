package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inventaris/backend/internal/domain/purchase"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements purchase.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by ID, lines included
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.db.WithContext(ctx).Preload("Lines").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByNumber finds a purchase by its human-readable number
func (r *GormPurchaseRepository) FindByNumber(ctx context.Context, number string) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.db.WithContext(ctx).Preload("Lines").
		First(&p, "purchase_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.Purchase, error) {
	var ps []purchase.Purchase
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchase.Purchase{}).Preload("Lines"), filter)
	if err := query.Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// FindByStatus finds purchases in a given status
func (r *GormPurchaseRepository) FindByStatus(ctx context.Context, status purchase.Status, filter shared.Filter) ([]purchase.Purchase, error) {
	var ps []purchase.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Purchase{}).Preload("Lines").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// Save creates or updates a purchase together with its lines
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(p).Error; err != nil {
			return err
		}
		for i := range p.Lines {
			p.Lines[i].PurchaseID = p.ID
			if err := tx.Save(&p.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPurchaseRepository) SaveWithLock(ctx context.Context, p *purchase.Purchase) error {
	loadedVersion := p.Version - 1
	result := r.db.WithContext(ctx).Model(&purchase.Purchase{}).
		Where("id = ? AND version = ?", p.ID, loadedVersion).
		Updates(map[string]any{
			"status":        p.Status,
			"received_at":   p.ReceivedAt,
			"completed_at":  p.CompletedAt,
			"cancelled_at":  p.CancelledAt,
			"cancel_reason": p.CancelReason,
			"version":       p.Version,
			"updated_at":    p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&purchase.Purchase{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(purchase_number) LIKE ? OR LOWER(supplier) LIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextPurchaseNumber allocates the next sequential number for the given
// day, e.g. PO-20250115-0003
func (r *GormPurchaseRepository) NextPurchaseNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("PO-%s-", date.Format("20060102"))

	var maxNumber string
	err := r.db.WithContext(ctx).Model(&purchase.Purchase{}).
		Select("purchase_number").
		Where("purchase_number LIKE ?", prefix+"%").
		Order("purchase_number DESC").
		Limit(1).
		Pluck("purchase_number", &maxNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	seq := 1
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		var last int
		if _, err := fmt.Sscanf(parts[len(parts)-1], "%04d", &last); err == nil {
			seq = last + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(purchase_number) LIKE ? OR LOWER(supplier) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	return query.Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir)))
}

var _ purchase.PurchaseRepository = (*GormPurchaseRepository)(nil)
