package stock

import (
	"context"

	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/purchase"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories.
// Everything executed inside one scope commits or rolls back atomically,
// which is what keeps a workflow transition and its ledger mutations in
// step.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories bound to the
// current transaction
type TransactionalRepositories interface {
	StockItems() stock.StockItemRepository
	StockMutations() stock.StockMutationRepository
	Requests() request.SupplyRequestRepository
	Purchases() purchase.PurchaseRepository
	Opnames() opname.StockOpnameRepository
	NotificationLogs() notification.LogRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests with in-memory repositories.
type NoOpTransactionScope struct {
	ItemRepo     stock.StockItemRepository
	MutationRepo stock.StockMutationRepository
	RequestRepo  request.SupplyRequestRepository
	PurchaseRepo purchase.PurchaseRepository
	OpnameRepo   opname.StockOpnameRepository
	LogRepo      notification.LogRepository
}

// Execute runs fn directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockItems returns the stock item repository
func (s *NoOpTransactionScope) StockItems() stock.StockItemRepository { return s.ItemRepo }

// StockMutations returns the stock mutation repository
func (s *NoOpTransactionScope) StockMutations() stock.StockMutationRepository {
	return s.MutationRepo
}

// Requests returns the supply request repository
func (s *NoOpTransactionScope) Requests() request.SupplyRequestRepository { return s.RequestRepo }

// Purchases returns the purchase repository
func (s *NoOpTransactionScope) Purchases() purchase.PurchaseRepository { return s.PurchaseRepo }

// Opnames returns the stock opname repository
func (s *NoOpTransactionScope) Opnames() opname.StockOpnameRepository { return s.OpnameRepo }

// NotificationLogs returns the notification log repository
func (s *NoOpTransactionScope) NotificationLogs() notification.LogRepository { return s.LogRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
