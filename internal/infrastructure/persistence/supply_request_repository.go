package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplyRequestRepository implements request.SupplyRequestRepository using GORM
type GormSupplyRequestRepository struct {
	db *gorm.DB
}

// NewGormSupplyRequestRepository creates a new GormSupplyRequestRepository
func NewGormSupplyRequestRepository(db *gorm.DB) *GormSupplyRequestRepository {
	return &GormSupplyRequestRepository{db: db}
}

// FindByID finds a request by ID, line items included
func (r *GormSupplyRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.SupplyRequest, error) {
	var req request.SupplyRequest
	if err := r.db.WithContext(ctx).Preload("Items").First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByNumber finds a request by its human-readable number
func (r *GormSupplyRequestRepository) FindByNumber(ctx context.Context, number string) (*request.SupplyRequest, error) {
	var req request.SupplyRequest
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&req, "request_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll finds requests matching the filter
func (r *GormSupplyRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]request.SupplyRequest, error) {
	var reqs []request.SupplyRequest
	query := r.applyFilter(r.db.WithContext(ctx).Model(&request.SupplyRequest{}).Preload("Items"), filter)
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindByRequester finds requests created by a user
func (r *GormSupplyRequestRepository) FindByRequester(ctx context.Context, requesterID uuid.UUID, filter shared.Filter) ([]request.SupplyRequest, error) {
	var reqs []request.SupplyRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&request.SupplyRequest{}).Preload("Items").
			Where("requester_id = ?", requesterID),
		filter,
	)
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindByStatus finds requests in a given status
func (r *GormSupplyRequestRepository) FindByStatus(ctx context.Context, status request.Status, filter shared.Filter) ([]request.SupplyRequest, error) {
	var reqs []request.SupplyRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&request.SupplyRequest{}).Preload("Items").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Save creates or updates a request together with its line items
func (r *GormSupplyRequestRepository) Save(ctx context.Context, req *request.SupplyRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(req).Error; err != nil {
			return err
		}
		for i := range req.Items {
			req.Items[i].SupplyRequestID = req.ID
			if err := tx.Save(&req.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormSupplyRequestRepository) SaveWithLock(ctx context.Context, req *request.SupplyRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loadedVersion := req.Version - 1
		result := tx.Model(&request.SupplyRequest{}).
			Where("id = ? AND version = ?", req.ID, loadedVersion).
			Updates(map[string]any{
				"status":               req.Status,
				"reject_reason":        req.RejectReason,
				"level1_approver_id":   req.Level1ApproverID,
				"level1_approver_name": req.Level1ApproverName,
				"level1_approved_at":   req.Level1ApprovedAt,
				"level2_approver_id":   req.Level2ApproverID,
				"level2_approver_name": req.Level2ApproverName,
				"level2_approved_at":   req.Level2ApprovedAt,
				"level3_approver_id":   req.Level3ApproverID,
				"level3_approver_name": req.Level3ApproverName,
				"level3_approved_at":   req.Level3ApprovedAt,
				"distributor_id":       req.DistributorID,
				"distributor_name":     req.DistributorName,
				"distributed_at":       req.DistributedAt,
				"received_at":          req.ReceivedAt,
				"version":              req.Version,
				"updated_at":           req.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		for i := range req.Items {
			req.Items[i].SupplyRequestID = req.ID
			if err := tx.Save(&req.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts requests matching the filter
func (r *GormSupplyRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&request.SupplyRequest{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(request_number) LIKE ? OR LOWER(requester_name) LIKE ?", pattern, pattern)
	}
	if variant, ok := filter.Filters["variant"].(string); ok && variant != "" {
		query = query.Where("variant = ?", variant)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextRequestNumber allocates the next sequential number for the given
// day, e.g. REQ-20250115-0007. Office requests use the OREQ prefix so
// the two sequences stay independent.
func (r *GormSupplyRequestRepository) NextRequestNumber(ctx context.Context, variant request.Variant, date time.Time) (string, error) {
	prefix := "REQ"
	if variant == request.VariantOffice {
		prefix = "OREQ"
	}
	full := fmt.Sprintf("%s-%s-", prefix, date.Format("20060102"))

	var maxNumber string
	err := r.db.WithContext(ctx).Model(&request.SupplyRequest{}).
		Select("request_number").
		Where("request_number LIKE ?", full+"%").
		Order("request_number DESC").
		Limit(1).
		Pluck("request_number", &maxNumber).Error
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
	return fmt.Sprintf("%s%04d", full, seq), nil
}

func (r *GormSupplyRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(request_number) LIKE ? OR LOWER(requester_name) LIKE ?", pattern, pattern)
	}
	if variant, ok := filter.Filters["variant"].(string); ok && variant != "" {
		query = query.Where("variant = ?", variant)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SupplyRequestSortFields, "created_at")
	return query.Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir)))
}

var _ request.SupplyRequestRepository = (*GormSupplyRequestRepository)(nil)
