package persistence

import (
	"context"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/purchase"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements appstock.TransactionScope using GORM
// transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockItems() stock.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockMutations() stock.StockMutationRepository {
	return NewGormStockMutationRepository(r.tx)
}

func (r *gormTransactionalRepositories) Requests() request.SupplyRequestRepository {
	return NewGormSupplyRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) Purchases() purchase.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) Opnames() opname.StockOpnameRepository {
	return NewGormStockOpnameRepository(r.tx)
}

func (r *gormTransactionalRepositories) NotificationLogs() notification.LogRepository {
	return NewGormNotificationLogRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
