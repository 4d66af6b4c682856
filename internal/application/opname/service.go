package opname

import (
	"context"
	"fmt"
	"time"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service orchestrates the stock opname workflow. The count sheet
// freezes system quantities when lines are added; approval writes one
// signed penyesuaian per differing line.
type Service struct {
	scope  appstock.TransactionScope
	ledger *appstock.LedgerService
	users  identity.UserRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewService creates a new opname Service
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

// CreateInput carries the data for a new opname document
type CreateInput struct {
	OpnameDate  time.Time
	CreatedByID uuid.UUID
	Note        string
	StockItems  []uuid.UUID
}

// Create opens a count sheet in draft state. Each listed item is added
// with its current stock frozen as the system quantity.
func (s *Service) Create(ctx context.Context, in CreateInput) (*opname.StockOpname, error) {
	creator, err := s.users.FindByID(ctx, in.CreatedByID)
	if err != nil {
		return nil, err
	}
	if in.OpnameDate.IsZero() {
		in.OpnameDate = time.Now()
	}

	var so *opname.StockOpname
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		number, err := repos.Opnames().NextOpnameNumber(ctx, in.OpnameDate)
		if err != nil {
			return err
		}

		so, err = opname.NewStockOpname(number, in.OpnameDate, creator.ID, creator.Name, in.Note)
		if err != nil {
			return err
		}

		for _, itemID := range in.StockItems {
			item, err := repos.StockItems().FindByID(ctx, itemID)
			if err != nil {
				return err
			}
			if err := so.AddLine(item.ID, item.Code, item.Name, item.Unit, item.CurrentStock); err != nil {
				return err
			}
		}

		return repos.Opnames().Save(ctx, so)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, so)
	s.logger.Info("stock opname created",
		zap.String("opname_number", so.OpnameNumber),
		zap.Int("lines", so.TotalLines),
	)
	return so, nil
}

// AddLine adds one more item to a draft count sheet
func (s *Service) AddLine(ctx context.Context, opnameID, itemID uuid.UUID) (*opname.StockOpname, error) {
	var so *opname.StockOpname
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		item, err := repos.StockItems().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := so.AddLine(item.ID, item.Code, item.Name, item.Unit, item.CurrentStock); err != nil {
			return err
		}
		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// RemoveLine drops an item from a draft count sheet
func (s *Service) RemoveLine(ctx context.Context, opnameID, itemID uuid.UUID) (*opname.StockOpname, error) {
	var so *opname.StockOpname
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if err := so.RemoveLine(itemID); err != nil {
			return err
		}
		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// RecordCount stores the physical count for one item on the sheet
func (s *Service) RecordCount(ctx context.Context, opnameID, itemID uuid.UUID, actual int64, note string) (*opname.StockOpname, error) {
	var so *opname.StockOpname
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if err := so.RecordCount(itemID, actual, note); err != nil {
			return err
		}
		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// Submit sends the fully counted sheet for approval
func (s *Service) Submit(ctx context.Context, opnameID uuid.UUID) (*opname.StockOpname, error) {
	var so *opname.StockOpname
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if err := so.Submit(); err != nil {
			return err
		}
		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, so)
	return so, nil
}

// Approve accepts the count and, in the same transaction, books one
// signed penyesuaian per line whose count deviates from the frozen
// system quantity
func (s *Service) Approve(ctx context.Context, opnameID, approverID uuid.UUID, note string) (*opname.StockOpname, error) {
	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if approver.Role.ApprovalLevel() == 0 && approver.Role != identity.RoleAdminGudang {
		return nil, shared.NewDomainError("FORBIDDEN", "Only approver roles may approve an opname")
	}

	var (
		so      *opname.StockOpname
		results []*appstock.AdjustmentResult
	)
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if err := so.Approve(approver.ID, approver.Name, note); err != nil {
			return err
		}

		for _, line := range so.LinesWithDifference() {
			result, err := s.ledger.Adjust(ctx, repos, appstock.AdjustmentInput{
				StockItemID:   line.StockItemID,
				Kind:          stock.KindPenyesuaian,
				Quantity:      line.Difference,
				ReferenceType: stock.ReferenceStockOpname,
				ReferenceID:   so.ID,
				Note:          fmt.Sprintf("Penyesuaian %s", so.OpnameNumber),
			})
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, so)
	for _, result := range results {
		s.ledger.PublishAdjustmentEvents(ctx, result)
	}
	s.logger.Info("stock opname approved",
		zap.String("opname_number", so.OpnameNumber),
		zap.Int("adjustments", len(results)),
	)
	return so, nil
}

// Reject declines the count; stock stays untouched
func (s *Service) Reject(ctx context.Context, opnameID, approverID uuid.UUID, reason string) (*opname.StockOpname, error) {
	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		return nil, err
	}

	var so *opname.StockOpname
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if err := so.Reject(approver.ID, approver.Name, reason); err != nil {
			return err
		}
		return repos.Opnames().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, so)
	return so, nil
}

// Get returns a single opname with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*opname.StockOpname, error) {
	var so *opname.StockOpname
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		so, err = repos.Opnames().FindByID(ctx, id)
		return err
	})
	return so, err
}

// List returns opnames matching the filter together with the total count
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[opname.StockOpname], error) {
	var page *shared.Paginated[opname.StockOpname]
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		items, err := repos.Opnames().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Opnames().Count(ctx, filter)
		if err != nil {
			return err
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	return page, err
}

func (s *Service) publish(ctx context.Context, so *opname.StockOpname) {
	if so == nil {
		return
	}
	events := so.GetDomainEvents()
	so.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish opname events",
			zap.String("opname_number", so.OpnameNumber),
			zap.Error(err),
		)
	}
}
