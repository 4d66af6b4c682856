// Package testutil provides common test utilities for the inventory
// backend. It contains helper functions for setting up test environments,
// creating mock objects, and performing common test assertions.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/purchase"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
)

// CollectingPublisher records every published event for assertions.
type CollectingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

// Publish stores the events, or returns the configured error.
func (p *CollectingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

// SetError makes subsequent Publish calls fail.
func (p *CollectingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Events returns a copy of everything published so far.
func (p *CollectingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventTypes returns the types of all published events, in order.
func (p *CollectingPublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

var _ shared.EventPublisher = (*CollectingPublisher)(nil)

// MemoryStockItemRepository is an in-memory stock.StockItemRepository.
type MemoryStockItemRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*stock.StockItem
}

// NewMemoryStockItemRepository creates an empty repository.
func NewMemoryStockItemRepository() *MemoryStockItemRepository {
	return &MemoryStockItemRepository{items: make(map[uuid.UUID]*stock.StockItem)}
}

// Add seeds an item.
func (r *MemoryStockItemRepository) Add(item *stock.StockItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

// FindByID finds an item by ID.
func (r *MemoryStockItemRepository) FindByID(_ context.Context, id uuid.UUID) (*stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

// FindByCode finds an item by code.
func (r *MemoryStockItemRepository) FindByCode(_ context.Context, code string) (*stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Code == code {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByIDs finds multiple items.
func (r *MemoryStockItemRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

// FindAll returns every item.
func (r *MemoryStockItemRepository) FindAll(_ context.Context, _ shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

// FindBelowMinimum returns items at or below their reorder point.
func (r *MemoryStockItemRepository) FindBelowMinimum(_ context.Context, _ shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockItem, 0)
	for _, item := range r.items {
		if item.IsBelowMinimum() {
			out = append(out, *item)
		}
	}
	return out, nil
}

// Save stores the item.
func (r *MemoryStockItemRepository) Save(_ context.Context, item *stock.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// SaveWithLock stores the item. The in-memory store has no concurrent
// writers, so the version check is a plain save.
func (r *MemoryStockItemRepository) SaveWithLock(_ context.Context, item *stock.StockItem) error {
	return r.Save(context.Background(), item)
}

// ExistsByCode checks whether a code is taken.
func (r *MemoryStockItemRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// Count counts stored items.
func (r *MemoryStockItemRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

var _ stock.StockItemRepository = (*MemoryStockItemRepository)(nil)

// MemoryStockMutationRepository is an in-memory append-only ledger store.
type MemoryStockMutationRepository struct {
	mu        sync.Mutex
	Mutations []*stock.StockMutation
}

// NewMemoryStockMutationRepository creates an empty repository.
func NewMemoryStockMutationRepository() *MemoryStockMutationRepository {
	return &MemoryStockMutationRepository{}
}

// Create appends a mutation row.
func (r *MemoryStockMutationRepository) Create(_ context.Context, m *stock.StockMutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mutations = append(r.Mutations, m)
	return nil
}

// FindByItem finds mutations for a stock item.
func (r *MemoryStockMutationRepository) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]stock.StockMutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMutation, 0)
	for _, m := range r.Mutations {
		if m.StockItemID == itemID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// FindByReference finds mutations created by a source document.
func (r *MemoryStockMutationRepository) FindByReference(_ context.Context, refType stock.ReferenceType, refID uuid.UUID) ([]stock.StockMutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMutation, 0)
	for _, m := range r.Mutations {
		if m.ReferenceType == refType && m.ReferenceID == refID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// FindByDateRange finds mutations within a date range.
func (r *MemoryStockMutationRepository) FindByDateRange(_ context.Context, itemID uuid.UUID, start, end time.Time) ([]stock.StockMutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockMutation, 0)
	for _, m := range r.Mutations {
		if m.StockItemID == itemID && !m.CreatedAt.Before(start) && !m.CreatedAt.After(end) {
			out = append(out, *m)
		}
	}
	return out, nil
}

// CountByItem counts mutations for a stock item.
func (r *MemoryStockMutationRepository) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.Mutations {
		if m.StockItemID == itemID {
			n++
		}
	}
	return n, nil
}

var _ stock.StockMutationRepository = (*MemoryStockMutationRepository)(nil)

// MemorySupplyRequestRepository is an in-memory request.SupplyRequestRepository.
type MemorySupplyRequestRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*request.SupplyRequest
	seq      int
}

// NewMemorySupplyRequestRepository creates an empty repository.
func NewMemorySupplyRequestRepository() *MemorySupplyRequestRepository {
	return &MemorySupplyRequestRepository{requests: make(map[uuid.UUID]*request.SupplyRequest)}
}

// Add seeds a request.
func (r *MemorySupplyRequestRepository) Add(req *request.SupplyRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
}

// FindByID finds a request by ID.
func (r *MemorySupplyRequestRepository) FindByID(_ context.Context, id uuid.UUID) (*request.SupplyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return req, nil
}

// FindByNumber finds a request by number.
func (r *MemorySupplyRequestRepository) FindByNumber(_ context.Context, number string) (*request.SupplyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.RequestNumber == number {
			return req, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every request.
func (r *MemorySupplyRequestRepository) FindAll(_ context.Context, _ shared.Filter) ([]request.SupplyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]request.SupplyRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, nil
}

// FindByRequester finds requests created by a user.
func (r *MemorySupplyRequestRepository) FindByRequester(_ context.Context, requesterID uuid.UUID, _ shared.Filter) ([]request.SupplyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]request.SupplyRequest, 0)
	for _, req := range r.requests {
		if req.RequesterID == requesterID {
			out = append(out, *req)
		}
	}
	return out, nil
}

// FindByStatus finds requests in a given status.
func (r *MemorySupplyRequestRepository) FindByStatus(_ context.Context, status request.Status, _ shared.Filter) ([]request.SupplyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]request.SupplyRequest, 0)
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

// Save stores the request.
func (r *MemorySupplyRequestRepository) Save(_ context.Context, req *request.SupplyRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return nil
}

// SaveWithLock stores the request.
func (r *MemorySupplyRequestRepository) SaveWithLock(_ context.Context, req *request.SupplyRequest) error {
	return r.Save(context.Background(), req)
}

// Count counts stored requests.
func (r *MemorySupplyRequestRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.requests)), nil
}

// NextRequestNumber allocates sequential numbers per call.
func (r *MemorySupplyRequestRepository) NextRequestNumber(_ context.Context, variant request.Variant, date time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	prefix := "REQ"
	if variant == request.VariantOffice {
		prefix = "OREQ"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("20060102"), r.seq), nil
}

var _ request.SupplyRequestRepository = (*MemorySupplyRequestRepository)(nil)

// MemoryPurchaseRepository is an in-memory purchase.PurchaseRepository.
type MemoryPurchaseRepository struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*purchase.Purchase
	seq       int
}

// NewMemoryPurchaseRepository creates an empty repository.
func NewMemoryPurchaseRepository() *MemoryPurchaseRepository {
	return &MemoryPurchaseRepository{purchases: make(map[uuid.UUID]*purchase.Purchase)}
}

// Add seeds a purchase.
func (r *MemoryPurchaseRepository) Add(p *purchase.Purchase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[p.ID] = p
}

// FindByID finds a purchase by ID.
func (r *MemoryPurchaseRepository) FindByID(_ context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// FindByNumber finds a purchase by number.
func (r *MemoryPurchaseRepository) FindByNumber(_ context.Context, number string) (*purchase.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if p.PurchaseNumber == number {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every purchase.
func (r *MemoryPurchaseRepository) FindAll(_ context.Context, _ shared.Filter) ([]purchase.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]purchase.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

// FindByStatus finds purchases in a given status.
func (r *MemoryPurchaseRepository) FindByStatus(_ context.Context, status purchase.Status, _ shared.Filter) ([]purchase.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]purchase.Purchase, 0)
	for _, p := range r.purchases {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Save stores the purchase.
func (r *MemoryPurchaseRepository) Save(_ context.Context, p *purchase.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[p.ID] = p
	return nil
}

// SaveWithLock stores the purchase.
func (r *MemoryPurchaseRepository) SaveWithLock(_ context.Context, p *purchase.Purchase) error {
	return r.Save(context.Background(), p)
}

// Count counts stored purchases.
func (r *MemoryPurchaseRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.purchases)), nil
}

// NextPurchaseNumber allocates sequential numbers per call.
func (r *MemoryPurchaseRepository) NextPurchaseNumber(_ context.Context, date time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("PO-%s-%04d", date.Format("20060102"), r.seq), nil
}

var _ purchase.PurchaseRepository = (*MemoryPurchaseRepository)(nil)

// MemoryStockOpnameRepository is an in-memory opname.StockOpnameRepository.
type MemoryStockOpnameRepository struct {
	mu      sync.Mutex
	opnames map[uuid.UUID]*opname.StockOpname
	seq     int
}

// NewMemoryStockOpnameRepository creates an empty repository.
func NewMemoryStockOpnameRepository() *MemoryStockOpnameRepository {
	return &MemoryStockOpnameRepository{opnames: make(map[uuid.UUID]*opname.StockOpname)}
}

// Add seeds an opname.
func (r *MemoryStockOpnameRepository) Add(so *opname.StockOpname) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opnames[so.ID] = so
}

// FindByID finds an opname by ID.
func (r *MemoryStockOpnameRepository) FindByID(_ context.Context, id uuid.UUID) (*opname.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	so, ok := r.opnames[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return so, nil
}

// FindByNumber finds an opname by number.
func (r *MemoryStockOpnameRepository) FindByNumber(_ context.Context, number string) (*opname.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, so := range r.opnames {
		if so.OpnameNumber == number {
			return so, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns every opname.
func (r *MemoryStockOpnameRepository) FindAll(_ context.Context, _ shared.Filter) ([]opname.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]opname.StockOpname, 0, len(r.opnames))
	for _, so := range r.opnames {
		out = append(out, *so)
	}
	return out, nil
}

// FindByStatus finds opnames in a given status.
func (r *MemoryStockOpnameRepository) FindByStatus(_ context.Context, status opname.Status, _ shared.Filter) ([]opname.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]opname.StockOpname, 0)
	for _, so := range r.opnames {
		if so.Status == status {
			out = append(out, *so)
		}
	}
	return out, nil
}

// Save stores the opname.
func (r *MemoryStockOpnameRepository) Save(_ context.Context, so *opname.StockOpname) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opnames[so.ID] = so
	return nil
}

// SaveWithLock stores the opname.
func (r *MemoryStockOpnameRepository) SaveWithLock(_ context.Context, so *opname.StockOpname) error {
	return r.Save(context.Background(), so)
}

// Count counts stored opnames.
func (r *MemoryStockOpnameRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.opnames)), nil
}

// NextOpnameNumber allocates sequential numbers per call.
func (r *MemoryStockOpnameRepository) NextOpnameNumber(_ context.Context, date time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("SO-%s-%04d", date.Format("20060102"), r.seq), nil
}

var _ opname.StockOpnameRepository = (*MemoryStockOpnameRepository)(nil)

// MemoryUserRepository is an in-memory identity.UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

// Add seeds a user.
func (r *MemoryUserRepository) Add(u *identity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// FindByID finds a user by ID.
func (r *MemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

// FindByRole finds active users with the given role.
func (r *MemoryUserRepository) FindByRole(_ context.Context, role identity.Role) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]identity.User, 0)
	for _, u := range r.users {
		if u.Role == role && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

// FindAll returns every user.
func (r *MemoryUserRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

// Save stores the user.
func (r *MemoryUserRepository) Save(_ context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

var _ identity.UserRepository = (*MemoryUserRepository)(nil)

// MemoryDepartmentRepository is an in-memory identity.DepartmentRepository.
type MemoryDepartmentRepository struct {
	mu    sync.Mutex
	depts map[uuid.UUID]*identity.Department
}

// NewMemoryDepartmentRepository creates an empty repository.
func NewMemoryDepartmentRepository() *MemoryDepartmentRepository {
	return &MemoryDepartmentRepository{depts: make(map[uuid.UUID]*identity.Department)}
}

// Add seeds a department.
func (r *MemoryDepartmentRepository) Add(d *identity.Department) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depts[d.ID] = d
}

// FindByID finds a department by ID.
func (r *MemoryDepartmentRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.depts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

// FindAll returns every department.
func (r *MemoryDepartmentRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]identity.Department, 0, len(r.depts))
	for _, d := range r.depts {
		out = append(out, *d)
	}
	return out, nil
}

// Save stores the department.
func (r *MemoryDepartmentRepository) Save(_ context.Context, d *identity.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depts[d.ID] = d
	return nil
}

var _ identity.DepartmentRepository = (*MemoryDepartmentRepository)(nil)

// MemorySettingRepository is an in-memory notification.SettingRepository.
type MemorySettingRepository struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*notification.Setting
}

// NewMemorySettingRepository creates an empty repository.
func NewMemorySettingRepository() *MemorySettingRepository {
	return &MemorySettingRepository{settings: make(map[uuid.UUID]*notification.Setting)}
}

// Add seeds a setting.
func (r *MemorySettingRepository) Add(s *notification.Setting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.UserID] = s
}

// FindByUser finds settings by user.
func (r *MemorySettingRepository) FindByUser(_ context.Context, userID uuid.UUID) (*notification.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

// Save stores the setting.
func (r *MemorySettingRepository) Save(_ context.Context, s *notification.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.UserID] = s
	return nil
}

var _ notification.SettingRepository = (*MemorySettingRepository)(nil)

// MemoryLogRepository is an in-memory notification.LogRepository.
type MemoryLogRepository struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*notification.Log
}

// NewMemoryLogRepository creates an empty repository.
func NewMemoryLogRepository() *MemoryLogRepository {
	return &MemoryLogRepository{logs: make(map[uuid.UUID]*notification.Log)}
}

// FindByID finds a log row by ID.
func (r *MemoryLogRepository) FindByID(_ context.Context, id uuid.UUID) (*notification.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

// FindByUser finds log rows for a user.
func (r *MemoryLogRepository) FindByUser(_ context.Context, userID uuid.UUID, _ shared.Filter) ([]notification.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Log, 0)
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

// FindByStatus finds log rows in a given status.
func (r *MemoryLogRepository) FindByStatus(_ context.Context, status notification.DeliveryStatus, _ shared.Filter) ([]notification.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Log, 0)
	for _, l := range r.logs {
		if l.Status == status {
			out = append(out, *l)
		}
	}
	return out, nil
}

// FindByEventType finds log rows for a notification category.
func (r *MemoryLogRepository) FindByEventType(_ context.Context, eventType notification.EventType, _ shared.Filter) ([]notification.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Log, 0)
	for _, l := range r.logs {
		if l.EventType == eventType {
			out = append(out, *l)
		}
	}
	return out, nil
}

// Save stores the log row.
func (r *MemoryLogRepository) Save(_ context.Context, l *notification.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[l.ID] = l
	return nil
}

// Count counts stored log rows.
func (r *MemoryLogRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.logs)), nil
}

// All returns a copy of every stored log row.
func (r *MemoryLogRepository) All() []notification.Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Log, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out
}

var _ notification.LogRepository = (*MemoryLogRepository)(nil)
