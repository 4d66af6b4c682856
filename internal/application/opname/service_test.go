package opname

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appstock "github.com/inventaris/backend/internal/application/stock"
	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/opname"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/inventaris/backend/tests/testutil"
)

type serviceFixture struct {
	service   *Service
	items     *testutil.MemoryStockItemRepository
	mutations *testutil.MemoryStockMutationRepository
	opnames   *testutil.MemoryStockOpnameRepository
	publisher *testutil.CollectingPublisher
	gudang    *identity.User
	kasubbag  *identity.User
	staff     *identity.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	items := testutil.NewMemoryStockItemRepository()
	mutations := testutil.NewMemoryStockMutationRepository()
	opnames := testutil.NewMemoryStockOpnameRepository()
	users := testutil.NewMemoryUserRepository()
	publisher := &testutil.CollectingPublisher{}

	scope := &appstock.NoOpTransactionScope{
		ItemRepo:     items,
		MutationRepo: mutations,
		OpnameRepo:   opnames,
	}
	ledger := appstock.NewLedgerService(scope, publisher, zap.NewNop())

	f := &serviceFixture{
		service:   NewService(scope, ledger, users, publisher, zap.NewNop()),
		items:     items,
		mutations: mutations,
		opnames:   opnames,
		publisher: publisher,
	}

	addUser := func(name string, role identity.Role) *identity.User {
		u := &identity.User{
			BaseEntity: shared.NewBaseEntity(),
			Name:       name,
			Email:      name + "@kantor.go.id",
			Role:       role,
			Active:     true,
		}
		users.Add(u)
		return u
	}
	f.gudang = addUser("Joko Susilo", identity.RoleAdminGudang)
	f.kasubbag = addUser("Siti Rahayu", identity.RoleKasubbag)
	f.staff = addUser("Budi Santoso", identity.RoleStaff)

	return f
}

func (f *serviceFixture) seedItem(t *testing.T, code string, currentStock int64) *stock.StockItem {
	t.Helper()
	item, err := stock.NewStockItem(code, "Kertas A4 80gsm", "rim", "kertas", 5, 500)
	require.NoError(t, err)
	item.CurrentStock = currentStock
	f.items.Add(item)
	return item
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes current stock per listed item", func(t *testing.T) {
		f := newServiceFixture(t)
		item := f.seedItem(t, "ATK-001", 42)

		so, err := f.service.Create(ctx, CreateInput{
			CreatedByID: f.gudang.ID,
			Note:        "opname triwulan",
			StockItems:  []uuid.UUID{item.ID},
		})

		require.NoError(t, err)
		assert.Equal(t, opname.StatusDraft, so.Status)
		assert.Contains(t, so.OpnameNumber, "SO-")
		require.Len(t, so.Lines, 1)
		assert.Equal(t, int64(42), so.Lines[0].SystemQuantity)
		assert.Contains(t, f.publisher.EventTypes(), opname.EventTypeOpnameCreated)
	})

	t.Run("unknown item fails the sheet", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.Create(ctx, CreateInput{
			CreatedByID: f.gudang.ID,
			StockItems:  []uuid.UUID{uuid.New()},
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_CountAndSubmit(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	item := f.seedItem(t, "ATK-001", 42)

	so, err := f.service.Create(ctx, CreateInput{
		CreatedByID: f.gudang.ID,
		StockItems:  []uuid.UUID{item.ID},
	})
	require.NoError(t, err)

	so, err = f.service.RecordCount(ctx, so.ID, item.ID, 40, "dua rim rusak")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), so.Lines[0].Difference)

	so, err = f.service.Submit(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, opname.StatusSubmitted, so.Status)
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()

	submitted := func(t *testing.T, f *serviceFixture, item *stock.StockItem, actual int64) *opname.StockOpname {
		t.Helper()
		so, err := f.service.Create(ctx, CreateInput{
			CreatedByID: f.gudang.ID,
			StockItems:  []uuid.UUID{item.ID},
		})
		require.NoError(t, err)
		_, err = f.service.RecordCount(ctx, so.ID, item.ID, actual, "")
		require.NoError(t, err)
		so, err = f.service.Submit(ctx, so.ID)
		require.NoError(t, err)
		return so
	}

	t.Run("approval books one adjustment per differing line", func(t *testing.T) {
		f := newServiceFixture(t)
		item := f.seedItem(t, "ATK-001", 42)
		so := submitted(t, f, item, 40)

		so, err := f.service.Approve(ctx, so.ID, f.kasubbag.ID, "selisih wajar")

		require.NoError(t, err)
		assert.Equal(t, opname.StatusApproved, so.Status)

		reloaded, err := f.items.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(40), reloaded.CurrentStock)

		require.Len(t, f.mutations.Mutations, 1)
		m := f.mutations.Mutations[0]
		assert.Equal(t, stock.KindPenyesuaian, m.JenisMutasi)
		assert.Equal(t, int64(-2), m.Quantity)
		assert.Equal(t, stock.ReferenceStockOpname, m.ReferenceType)
		assert.Equal(t, so.ID, m.ReferenceID)
	})

	t.Run("matching count books nothing", func(t *testing.T) {
		f := newServiceFixture(t)
		item := f.seedItem(t, "ATK-001", 42)
		so := submitted(t, f, item, 42)

		so, err := f.service.Approve(ctx, so.ID, f.gudang.ID, "")

		require.NoError(t, err)
		assert.Equal(t, opname.StatusApproved, so.Status)
		assert.Empty(t, f.mutations.Mutations)
	})

	t.Run("staff cannot approve", func(t *testing.T) {
		f := newServiceFixture(t)
		item := f.seedItem(t, "ATK-001", 42)
		so := submitted(t, f, item, 40)

		_, err := f.service.Approve(ctx, so.ID, f.staff.ID, "")
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", shared.CodeOf(err))
	})
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	item := f.seedItem(t, "ATK-001", 42)

	so, err := f.service.Create(ctx, CreateInput{
		CreatedByID: f.gudang.ID,
		StockItems:  []uuid.UUID{item.ID},
	})
	require.NoError(t, err)
	_, err = f.service.RecordCount(ctx, so.ID, item.ID, 40, "")
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, so.ID)
	require.NoError(t, err)

	so, err = f.service.Reject(ctx, so.ID, f.kasubbag.ID, "hitung ulang")

	require.NoError(t, err)
	assert.Equal(t, opname.StatusRejected, so.Status)
	assert.Empty(t, f.mutations.Mutations)

	reloaded, err := f.items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), reloaded.CurrentStock)
}
