package stock

import (
	"context"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService manages the stock item master data
type ItemService struct {
	items     stock.StockItemRepository
	mutations stock.StockMutationRepository
	logger    *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(items stock.StockItemRepository, mutations stock.StockMutationRepository, logger *zap.Logger) *ItemService {
	return &ItemService{
		items:     items,
		mutations: mutations,
		logger:    logger,
	}
}

// CreateItemInput carries the data for a new stock item
type CreateItemInput struct {
	Code     string
	Name     string
	Unit     string
	Category string
	MinStock int64
	MaxStock int64
}

// CreateItem registers a new stock item with zero stock. Initial stock
// arrives through a purchase or a manual adjustment so the ledger stays
// complete from day one.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*stock.StockItem, error) {
	taken, err := s.items.ExistsByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists
	}

	item, err := stock.NewStockItem(in.Code, in.Name, in.Unit, in.Category, in.MinStock, in.MaxStock)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("stock item created",
		zap.String("code", item.Code),
		zap.String("name", item.Name),
	)
	return item, nil
}

// UpdateItemInput carries the mutable master data fields
type UpdateItemInput struct {
	Name     string
	Unit     string
	Category string
	MinStock int64
	MaxStock int64
}

// UpdateItem updates master data. Stock levels are out of reach here;
// they only move through the ledger.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*stock.StockItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}
	if in.MinStock < 0 || in.MaxStock < 0 {
		return nil, shared.NewValidationError("Stock thresholds cannot be negative")
	}
	if in.MaxStock > 0 && in.MinStock > in.MaxStock {
		return nil, shared.NewValidationError("Minimum stock cannot exceed maximum stock")
	}

	item.Name = in.Name
	item.Unit = in.Unit
	item.Category = in.Category
	item.MinStock = in.MinStock
	item.MaxStock = in.MaxStock
	item.UpdatedAt = time.Now()
	item.IncrementVersion()

	if err := s.items.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns a single stock item
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*stock.StockItem, error) {
	return s.items.FindByID(ctx, id)
}

// ListItems returns stock items matching the filter together with the
// total count
func (s *ItemService) ListItems(ctx context.Context, filter shared.Filter) (*shared.Paginated[stock.StockItem], error) {
	items, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ListBelowMinimum returns items at or below their reorder point
func (s *ItemService) ListBelowMinimum(ctx context.Context, filter shared.Filter) ([]stock.StockItem, error) {
	return s.items.FindBelowMinimum(ctx, filter)
}

// StockCard returns the chronological mutation history of an item for a
// date range
func (s *ItemService) StockCard(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]stock.StockMutation, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.mutations.FindByDateRange(ctx, itemID, start, end)
}
