package request

import (
	"context"
	"fmt"
	"time"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service orchestrates the supply request workflow. Approvals only move
// the status; stock leaves the ledger at receipt confirmation (ATK) or
// at the single approval step (office).
type Service struct {
	scope       appstock.TransactionScope
	ledger      *appstock.LedgerService
	users       identity.UserRepository
	departments identity.DepartmentRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewService creates a new request Service
func NewService(
	scope appstock.TransactionScope,
	ledger *appstock.LedgerService,
	users identity.UserRepository,
	departments identity.DepartmentRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:       scope,
		ledger:      ledger,
		users:       users,
		departments: departments,
		events:      events,
		logger:      logger,
	}
}

// CreateInput carries the data for a new supply request
type CreateInput struct {
	Variant     request.Variant
	RequesterID uuid.UUID
	RequestDate time.Time
	Lines       []CreateLineInput
}

// CreateLineInput is one requested item
type CreateLineInput struct {
	StockItemID uuid.UUID
	Quantity    int64
}

// Create opens a new request in pending state
func (s *Service) Create(ctx context.Context, in CreateInput) (*request.SupplyRequest, error) {
	requester, err := s.users.FindByID(ctx, in.RequesterID)
	if err != nil {
		return nil, err
	}
	if requester.DepartmentID == nil {
		return nil, shared.NewValidationError("Requester has no department")
	}
	department, err := s.departments.FindByID(ctx, *requester.DepartmentID)
	if err != nil {
		return nil, err
	}
	if in.RequestDate.IsZero() {
		in.RequestDate = time.Now()
	}

	var req *request.SupplyRequest
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		lines := make([]request.NewLineInput, 0, len(in.Lines))
		for _, l := range in.Lines {
			item, err := repos.StockItems().FindByID(ctx, l.StockItemID)
			if err != nil {
				return err
			}
			lines = append(lines, request.NewLineInput{
				StockItemID: item.ID,
				ItemCode:    item.Code,
				ItemName:    item.Name,
				Unit:        item.Unit,
				Quantity:    l.Quantity,
			})
		}

		number, err := repos.Requests().NextRequestNumber(ctx, in.Variant, in.RequestDate)
		if err != nil {
			return err
		}

		req, err = request.NewSupplyRequest(in.Variant, number, requester.ID, requester.Name, department.ID, department.Name, in.RequestDate, lines)
		if err != nil {
			return err
		}
		return repos.Requests().Save(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	s.logger.Info("supply request created",
		zap.String("request_number", req.RequestNumber),
		zap.String("variant", string(req.Variant)),
	)
	return req, nil
}

// ApproveLevel advances an ATK request one approval level. The approver
// must hold the role for exactly that level.
func (s *Service) ApproveLevel(ctx context.Context, requestID, approverID uuid.UUID, level int) (*request.SupplyRequest, error) {
	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if approver.Role.ApprovalLevel() != level {
		return nil, shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Role %s cannot approve at level %d", approver.Role, level))
	}

	var req *request.SupplyRequest
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		req, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.ApproveLevel(level, approver.ID, approver.Name); err != nil {
			return err
		}
		return repos.Requests().SaveWithLock(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	return req, nil
}

// Reject terminates the request with a reason. Allowed for any approver
// role while the request is still short of full approval.
func (s *Service) Reject(ctx context.Context, requestID, rejecterID uuid.UUID, reason string) (*request.SupplyRequest, error) {
	rejecter, err := s.users.FindByID(ctx, rejecterID)
	if err != nil {
		return nil, err
	}
	if rejecter.Role.ApprovalLevel() == 0 {
		return nil, shared.NewDomainError("FORBIDDEN", "Only approver roles may reject requests")
	}

	var req *request.SupplyRequest
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		req, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.Reject(rejecter.ID, rejecter.Name, reason); err != nil {
			return err
		}
		return repos.Requests().SaveWithLock(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	return req, nil
}

// DistributeInput assigns given quantities per line item
type DistributeInput struct {
	DistributorID uuid.UUID
	Allocations   []request.Allocation
}

// Distribute hands goods over on a fully approved ATK request. Only the
// warehouse admin distributes, and stock stays untouched until receipt
// is confirmed.
func (s *Service) Distribute(ctx context.Context, requestID uuid.UUID, in DistributeInput) (*request.SupplyRequest, error) {
	distributor, err := s.users.FindByID(ctx, in.DistributorID)
	if err != nil {
		return nil, err
	}
	if distributor.Role != identity.RoleAdminGudang {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the warehouse admin may distribute")
	}

	var req *request.SupplyRequest
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		req, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.Distribute(distributor.ID, distributor.Name, in.Allocations); err != nil {
			return err
		}
		return repos.Requests().SaveWithLock(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	return req, nil
}

// ConfirmReceive acknowledges receipt and, in the same transaction,
// debits the ledger for every line that was given
func (s *Service) ConfirmReceive(ctx context.Context, requestID, confirmerID uuid.UUID) (*request.SupplyRequest, error) {
	var (
		req     *request.SupplyRequest
		results []*appstock.AdjustmentResult
	)
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		req, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.ConfirmReceive(confirmerID); err != nil {
			return err
		}

		for _, line := range req.LinesToFulfill() {
			result, err := s.ledger.Adjust(ctx, repos, appstock.AdjustmentInput{
				StockItemID:   line.StockItemID,
				Kind:          stock.KindKeluar,
				Quantity:      line.GivenOrZero(),
				ReferenceType: stock.ReferenceAtkRequest,
				ReferenceID:   req.ID,
				Note:          fmt.Sprintf("Pengeluaran %s", req.RequestNumber),
			})
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		return repos.Requests().SaveWithLock(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	for _, result := range results {
		s.ledger.PublishAdjustmentEvents(ctx, result)
	}
	return req, nil
}

// ApproveOffice completes an office request in one step. Given
// quantities are clamped to the available stock so the approval cannot
// fail on shortage; what is missing is simply not handed out.
func (s *Service) ApproveOffice(ctx context.Context, requestID, approverID uuid.UUID) (*request.SupplyRequest, error) {
	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if approver.Role.ApprovalLevel() == 0 {
		return nil, shared.NewDomainError("FORBIDDEN", "Only approver roles may approve office requests")
	}

	var (
		req     *request.SupplyRequest
		results []*appstock.AdjustmentResult
	)
	err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		req, err = repos.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}

		given := make(map[uuid.UUID]int64, len(req.Items))
		for _, line := range req.Items {
			item, err := repos.StockItems().FindByID(ctx, line.StockItemID)
			if err != nil {
				return err
			}
			qty := line.QuantityRequested
			if item.CurrentStock < qty {
				qty = item.CurrentStock
			}
			if qty < 0 {
				qty = 0
			}
			given[line.ID] = qty
		}

		if err := req.ApproveOffice(approver.ID, approver.Name, given); err != nil {
			return err
		}

		for _, line := range req.LinesToFulfill() {
			result, err := s.ledger.Adjust(ctx, repos, appstock.AdjustmentInput{
				StockItemID:   line.StockItemID,
				Kind:          stock.KindKeluar,
				Quantity:      line.GivenOrZero(),
				ReferenceType: stock.ReferenceOfficeRequest,
				ReferenceID:   req.ID,
				Note:          fmt.Sprintf("Pengeluaran %s", req.RequestNumber),
			})
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		return repos.Requests().SaveWithLock(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req)
	for _, result := range results {
		s.ledger.PublishAdjustmentEvents(ctx, result)
	}
	return req, nil
}

// Get returns a single request with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*request.SupplyRequest, error) {
	var req *request.SupplyRequest
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		var err error
		req, err = repos.Requests().FindByID(ctx, id)
		return err
	})
	return req, err
}

// List returns requests matching the filter together with the total count
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[request.SupplyRequest], error) {
	var page *shared.Paginated[request.SupplyRequest]
	err := s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		reqs, err := repos.Requests().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Requests().Count(ctx, filter)
		if err != nil {
			return err
		}
		page = shared.NewPaginated(reqs, total, filter.Page, filter.PageSize)
		return nil
	})
	return page, err
}

// publish flushes the aggregate's pending events after commit. Failures
// are logged, never surfaced: the workflow change is already durable.
func (s *Service) publish(ctx context.Context, req *request.SupplyRequest) {
	if req == nil {
		return
	}
	events := req.GetDomainEvents()
	req.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish request events",
			zap.String("request_number", req.RequestNumber),
			zap.Error(err),
		)
	}
}
