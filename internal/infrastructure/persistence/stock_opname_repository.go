package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockOpnameRepository implements opname.StockOpnameRepository using GORM
type GormStockOpnameRepository struct {
	db *gorm.DB
}

// NewGormStockOpnameRepository creates a new GormStockOpnameRepository
func NewGormStockOpnameRepository(db *gorm.DB) *GormStockOpnameRepository {
	return &GormStockOpnameRepository{db: db}
}

// FindByID finds an opname by ID, lines included
func (r *GormStockOpnameRepository) FindByID(ctx context.Context, id uuid.UUID) (*opname.StockOpname, error) {
	var so opname.StockOpname
	if err := r.db.WithContext(ctx).Preload("Lines").First(&so, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindByNumber finds an opname by its human-readable number
func (r *GormStockOpnameRepository) FindByNumber(ctx context.Context, number string) (*opname.StockOpname, error) {
	var so opname.StockOpname
	if err := r.db.WithContext(ctx).Preload("Lines").
		First(&so, "opname_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindAll finds opnames matching the filter
func (r *GormStockOpnameRepository) FindAll(ctx context.Context, filter shared.Filter) ([]opname.StockOpname, error) {
	var sos []opname.StockOpname
	query := r.applyFilter(r.db.WithContext(ctx).Model(&opname.StockOpname{}).Preload("Lines"), filter)
	if err := query.Find(&sos).Error; err != nil {
		return nil, err
	}
	return sos, nil
}

// FindByStatus finds opnames in a given status
func (r *GormStockOpnameRepository) FindByStatus(ctx context.Context, status opname.Status, filter shared.Filter) ([]opname.StockOpname, error) {
	var sos []opname.StockOpname
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&opname.StockOpname{}).Preload("Lines").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&sos).Error; err != nil {
		return nil, err
	}
	return sos, nil
}

// Save creates or updates an opname together with its lines. Lines
// removed from the aggregate are deleted.
func (r *GormStockOpnameRepository) Save(ctx context.Context, so *opname.StockOpname) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(so).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(so.Lines))
		for _, l := range so.Lines {
			keep = append(keep, l.ID)
		}
		del := tx.Where("stock_opname_id = ?", so.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&opname.OpnameLine{}).Error; err != nil {
			return err
		}

		for i := range so.Lines {
			so.Lines[i].StockOpnameID = so.ID
			if err := tx.Save(&so.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockOpnameRepository) SaveWithLock(ctx context.Context, so *opname.StockOpname) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loadedVersion := so.Version - 1
		result := tx.Model(&opname.StockOpname{}).
			Where("id = ? AND version = ?", so.ID, loadedVersion).
			Updates(map[string]any{
				"status":           so.Status,
				"submitted_at":     so.SubmittedAt,
				"approved_at":      so.ApprovedAt,
				"approved_by_id":   so.ApprovedByID,
				"approved_by_name": so.ApprovedByName,
				"approval_note":    so.ApprovalNote,
				"total_lines":      so.TotalLines,
				"counted_lines":    so.CountedLines,
				"difference_lines": so.DifferenceLines,
				"version":          so.Version,
				"updated_at":       so.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		for i := range so.Lines {
			so.Lines[i].StockOpnameID = so.ID
			if err := tx.Save(&so.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts opnames matching the filter
func (r *GormStockOpnameRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&opname.StockOpname{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(opname_number) LIKE ? OR LOWER(created_by_name) LIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextOpnameNumber allocates the next sequential number for the given
// day, e.g. SO-20250115-0002
func (r *GormStockOpnameRepository) NextOpnameNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("SO-%s-", date.Format("20060102"))

	var maxNumber string
	err := r.db.WithContext(ctx).Model(&opname.StockOpname{}).
		Select("opname_number").
		Where("opname_number LIKE ?", prefix+"%").
		Order("opname_number DESC").
		Limit(1).
		Pluck("opname_number", &maxNumber).Error
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

func (r *GormStockOpnameRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(opname_number) LIKE ? OR LOWER(created_by_name) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockOpnameSortFields, "created_at")
	return query.Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir)))
}

var _ opname.StockOpnameRepository = (*GormStockOpnameRepository)(nil)
