package stock

import (
	"context"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdjustmentInput describes one stock movement to record
type AdjustmentInput struct {
	StockItemID   uuid.UUID
	Kind          stock.MutationKind
	Quantity      int64 // signed; negative only for penyesuaian
	ReferenceType stock.ReferenceType
	ReferenceID   uuid.UUID
	Note          string
}

// AdjustmentResult carries the outcome of a ledger adjustment
type AdjustmentResult struct {
	Item         *stock.StockItem
	Mutation     *stock.StockMutation
	BelowMinimum bool
}

// LedgerService is the single choke point for stock level changes. No
// code path mutates CurrentStock without a paired mutation row, and the
// ledger itself never clamps: a movement that would go negative fails
// with ErrInsufficientStock.
type LedgerService struct {
	scope  TransactionScope
	events shared.EventPublisher
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope, events shared.EventPublisher, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:  scope,
		events: events,
		logger: logger,
	}
}

// Adjust applies one movement inside the caller's transaction: load the
// item, apply the delta, append the mutation row, save with optimistic
// lock. Signs are normalized from the mutation kind: masuk adds,
// keluar subtracts, penyesuaian carries its own sign.
func (s *LedgerService) Adjust(ctx context.Context, repos TransactionalRepositories, in AdjustmentInput) (*AdjustmentResult, error) {
	item, err := repos.StockItems().FindByID(ctx, in.StockItemID)
	if err != nil {
		return nil, err
	}

	delta := in.Quantity
	switch in.Kind {
	case stock.KindMasuk:
		if delta <= 0 {
			return nil, shared.NewValidationError("Inbound quantity must be positive")
		}
	case stock.KindKeluar:
		if delta <= 0 {
			return nil, shared.NewValidationError("Outbound quantity must be positive")
		}
		delta = -delta
	case stock.KindPenyesuaian:
		if delta == 0 {
			return nil, shared.NewValidationError("Adjustment quantity cannot be zero")
		}
	default:
		return nil, shared.NewValidationError("Unknown mutation kind")
	}

	before, after, err := item.ApplyDelta(delta)
	if err != nil {
		return nil, err
	}

	mutation, err := stock.NewStockMutation(item.ID, in.Kind, delta, before, after, in.ReferenceType, in.ReferenceID, in.Note)
	if err != nil {
		return nil, err
	}

	item.IncrementVersion()
	if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if err := repos.StockMutations().Create(ctx, mutation); err != nil {
		return nil, err
	}

	item.AddDomainEvent(stock.NewStockMutatedEvent(item, mutation))

	return &AdjustmentResult{
		Item:         item,
		Mutation:     mutation,
		BelowMinimum: item.IsBelowMinimum(),
	}, nil
}

// ManualAdjustment records a standalone penyesuaian outside any source
// document, in its own transaction. Events publish after commit.
func (s *LedgerService) ManualAdjustment(ctx context.Context, itemID uuid.UUID, quantity int64, note string) (*AdjustmentResult, error) {
	var result *AdjustmentResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = s.Adjust(ctx, repos, AdjustmentInput{
			StockItemID:   itemID,
			Kind:          stock.KindPenyesuaian,
			Quantity:      quantity,
			ReferenceType: stock.ReferenceManual,
			ReferenceID:   uuid.Nil,
			Note:          note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.PublishAdjustmentEvents(ctx, result)
	return result, nil
}

// PublishAdjustmentEvents publishes the pending events of an adjusted
// item after its transaction committed, raising the reorder alert when
// the movement left the item at or below its minimum. The alert is an
// explicit step here, never a side effect inside the ledger write.
func (s *LedgerService) PublishAdjustmentEvents(ctx context.Context, result *AdjustmentResult) {
	if result == nil || result.Item == nil {
		return
	}

	events := result.Item.GetDomainEvents()
	result.Item.ClearDomainEvents()

	if result.BelowMinimum {
		events = append(events, stock.NewReorderPointAlertEvent(result.Item))
	}

	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish stock events",
			zap.String("stock_item_id", result.Item.ID.String()),
			zap.Error(err),
		)
	}
}
