package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/shared"
)

func TestGormDepartmentRepository_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("lists departments ordered by name", func(t *testing.T) {
		db, mock, sqlDB := newMockDatabase(t)
		defer sqlDB.Close()
		repo := NewGormDepartmentRepository(db.DB)

		rows := sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.New(), "Bagian Keuangan").
			AddRow(uuid.New(), "Bagian Umum")
		mock.ExpectQuery(`SELECT \* FROM "departments" ORDER BY name ASC`).
			WillReturnRows(rows)

		ds, err := repo.FindAll(ctx, shared.Filter{})

		require.NoError(t, err)
		require.Len(t, ds, 2)
		assert.Equal(t, "Bagian Keuangan", ds[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies search and pagination", func(t *testing.T) {
		db, mock, sqlDB := newMockDatabase(t)
		defer sqlDB.Close()
		repo := NewGormDepartmentRepository(db.DB)

		rows := sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.New(), "Bagian Umum")
		mock.ExpectQuery(`SELECT \* FROM "departments" WHERE LOWER\(name\) LIKE .+ ORDER BY name ASC LIMIT .+`).
			WithArgs("%umum%", 10).
			WillReturnRows(rows)

		ds, err := repo.FindAll(ctx, shared.Filter{Search: "Umum", Page: 1, PageSize: 10})

		require.NoError(t, err)
		require.Len(t, ds, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindByRole(t *testing.T) {
	db, mock, sqlDB := newMockDatabase(t)
	defer sqlDB.Close()
	repo := NewGormUserRepository(db.DB)

	rows := sqlmock.NewRows([]string{"id", "name", "role", "active"}).
		AddRow(uuid.New(), "Rina Wulandari", string(identity.RoleAdminGudang), true)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = .+ AND active = .+ ORDER BY name ASC`).
		WithArgs(string(identity.RoleAdminGudang), true).
		WillReturnRows(rows)

	users, err := repo.FindByRole(context.Background(), identity.RoleAdminGudang)

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, identity.RoleAdminGudang, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
