package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMutationRepository implements the append-only ledger store.
// The interface deliberately offers no update or delete; the rows are
// the audit trail.
type GormStockMutationRepository struct {
	db *gorm.DB
}

// NewGormStockMutationRepository creates a new GormStockMutationRepository
func NewGormStockMutationRepository(db *gorm.DB) *GormStockMutationRepository {
	return &GormStockMutationRepository{db: db}
}

// Create appends a mutation row
func (r *GormStockMutationRepository) Create(ctx context.Context, m *stock.StockMutation) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByItem finds mutations for a stock item, newest first
func (r *GormStockMutationRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]stock.StockMutation, error) {
	var mutations []stock.StockMutation
	query := r.db.WithContext(ctx).Model(&stock.StockMutation{}).
		Where("stock_item_id = ?", itemID)

	if kind, ok := filter.Filters["jenis_mutasi"].(string); ok && kind != "" {
		query = query.Where("jenis_mutasi = ?", kind)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StockMutationSortFields, "created_at")
	query = query.Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir)))

	if err := query.Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}

// FindByReference finds mutations created by a source document
func (r *GormStockMutationRepository) FindByReference(ctx context.Context, refType stock.ReferenceType, refID uuid.UUID) ([]stock.StockMutation, error) {
	var mutations []stock.StockMutation
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}

// FindByDateRange finds mutations within a date range, oldest first so
// the stock card reads chronologically
func (r *GormStockMutationRepository) FindByDateRange(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]stock.StockMutation, error) {
	var mutations []stock.StockMutation
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ? AND created_at >= ? AND created_at <= ?", itemID, start, end).
		Order("created_at ASC").
		Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}

// CountByItem counts mutations for a stock item
func (r *GormStockMutationRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.StockMutation{}).
		Where("stock_item_id = ?", itemID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ stock.StockMutationRepository = (*GormStockMutationRepository)(nil)
