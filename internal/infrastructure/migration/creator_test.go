package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add stock opname tables", "persediaan fisik vs sistem")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.True(t, strings.HasSuffix(mf.UpPath, "_add_stock_opname_tables.up.sql"))
		assert.True(t, strings.HasSuffix(mf.DownPath, "_add_stock_opname_tables.down.sql"))

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add stock opname tables")
		assert.Contains(t, string(up), "persediaan fisik vs sistem")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "(rollback)")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users--Table", "add_users_table"},
		{"  spasi  di  mana-mana  ", "spasi_di_mana_mana"},
		{"versi 2", "versi_2"},
		{"trailing_", "trailing"},
		{"tanda!aneh?dibuang", "tandaanehdibuang"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slugify(tt.input), "input %q", tt.input)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists one entry per pair", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260101000000_init.up.sql",
			"20260101000000_init.down.sql",
			"20260102000000_add_ledger.up.sql",
			"20260102000000_add_ledger.down.sql",
			"catatan.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20260101000000_init", "20260102000000_add_ledger"}, names)
	})

	t.Run("missing directory lists nothing", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "tidak-ada"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
