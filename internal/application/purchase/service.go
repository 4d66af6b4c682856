package purchase

import (
	"context"
	"fmt"
	"time"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/purchase"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service orchestrates the purchasing workflow. A purchase only touches
// stock when it completes: each line then books an inbound mutation and
// moves the item's weighted-average cost.
type Service struct {
	scope  appstock.TransactionScope
	ledger *appstock.LedgerService
	users  identity.UserRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewService creates a new purchase Service
func NewService(
	scope appstock.TransactionScope,
	ledger *appstock.LedgerService,
	users identity.UserRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:  scope,
		ledger: ledger,
		users:  users,
		events: events,
		logger: logger,
	}
}

// CreateInput carries the data for a new purchase
type CreateInput struct {
	Supplier     string
	PurchaseDate time.Time
	CreatedByID  uuid.UUID
	Note         string
	Lines        []CreateLineInput
}

// CreateLineInput is one purchased item
type CreateLineInput struct {
	StockItemID uuid.UUID
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// Create opens a new purchase in draft state
func (s *Service) Create(ctx context.Context, in CreateInput) (*purchase.Purchase, error) {
	creator, err := s.users.FindByID(ctx, in.CreatedByID)
	if err != nil {
		return nil, err
	}
	if in.PurchaseDate.IsZero() {
		in.PurchaseDate = time.Now()
	}

	var p *purchase.Purchase
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		lines := make([]purchase.NewLineInput, 0, len(in.Lines))
		for _, l := range in.Lines {
			item, err := repos.StockItems().FindByID(ctx, l.StockItemID)
			if err != nil {
				return err
			}
			lines = append(lines, purchase.NewLineInput{
				StockItemID: item.ID,
				ItemCode:    item.Code,
				ItemName:    item.Name,
				Unit:        item.Unit,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
			})
		}

		number, err := repos.Purchases().NextPurchaseNumber(ctx, in.PurchaseDate)
		if err != nil {
			return err
		}

		p, err = purchase.NewPurchase(number, in.Supplier, in.PurchaseDate, creator.ID, creator.Name, in.Note, lines)
		if err != nil {
			return err
		}
		return repos.Purchases().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, p)
	s.logger.Info("purchase created",
		zap.String("purchase_number", p.PurchaseNumber),
		zap.String("supplier", p.Supplier),
	)
	return p, nil
}

// MarkReceived records that the goods arrived
func (s *Service) MarkReceived(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p *purchase.Purchase
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		p, err = repos.Purchases().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.MarkReceived(); err != nil {
			return err
		}
		return repos.Purchases().SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, p)
	return p, nil
}

// Complete books every line into the ledger and updates item pricing,
// all in one transaction with the status change
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var (
		p       *purchase.Purchase
		results []*appstock.AdjustmentResult
	)
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		p, err = repos.Purchases().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Complete(); err != nil {
			return err
		}

		for _, line := range p.Lines {
			result, err := s.ledger.Adjust(ctx, repos, appstock.AdjustmentInput{
				StockItemID:   line.StockItemID,
				Kind:          stock.KindMasuk,
				Quantity:      line.Quantity,
				ReferenceType: stock.ReferencePurchase,
				ReferenceID:   p.ID,
				Note:          fmt.Sprintf("Penerimaan %s", p.PurchaseNumber),
			})
			if err != nil {
				return err
			}

			item := result.Item
			if err := item.RecordPurchase(line.Quantity, line.UnitPrice, result.Mutation.StockBefore); err != nil {
				return err
			}
			item.IncrementVersion()
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			results = append(results, result)
		}

		return repos.Purchases().SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, p)
	for _, result := range results {
		s.ledger.PublishAdjustmentEvents(ctx, result)
	}
	s.logger.Info("purchase completed",
		zap.String("purchase_number", p.PurchaseNumber),
		zap.Int("lines", len(p.Lines)),
	)
	return p, nil
}

// Cancel voids a draft purchase
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*purchase.Purchase, error) {
	var p *purchase.Purchase
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		p, err = repos.Purchases().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Cancel(reason); err != nil {
			return err
		}
		return repos.Purchases().SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, p)
	return p, nil
}

// Get returns a single purchase with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p *purchase.Purchase
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		p, err = repos.Purchases().FindByID(ctx, id)
		return err
	})
	return p, err
}

// List returns purchases matching the filter together with the total count
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[purchase.Purchase], error) {
	var page *shared.Paginated[purchase.Purchase]
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		items, err := repos.Purchases().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Purchases().Count(ctx, filter)
		if err != nil {
			return err
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	return page, err
}

func (s *Service) publish(ctx context.Context, p *purchase.Purchase) {
	if p == nil {
		return
	}
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish purchase events",
			zap.String("purchase_number", p.PurchaseNumber),
			zap.Error(err),
		)
	}
}
