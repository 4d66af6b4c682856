package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/tests/testutil"
)

func newSettingsService(t *testing.T) (*SettingsService, *testutil.MemorySettingRepository, *testutil.MemoryLogRepository) {
	t.Helper()
	settings := testutil.NewMemorySettingRepository()
	logs := testutil.NewMemoryLogRepository()
	return NewSettingsService(settings, logs, zap.NewNop()), settings, logs
}

func TestSettingsService_GetSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns defaults when no row exists", func(t *testing.T) {
		service, settings, _ := newSettingsService(t)
		userID := uuid.New()

		setting, err := service.GetSettings(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, setting.UserID)
		assert.False(t, setting.WhatsappEnabled)

		// The fallback must not be persisted.
		_, err = settings.FindByUser(ctx, userID)
		require.Error(t, err)
	})

	t.Run("returns the stored row", func(t *testing.T) {
		service, settings, _ := newSettingsService(t)
		userID := uuid.New()
		stored, err := notification.NewSetting(userID)
		require.NoError(t, err)
		stored.WhatsappEnabled = true
		settings.Add(stored)

		setting, err := service.GetSettings(ctx, userID)

		require.NoError(t, err)
		assert.True(t, setting.WhatsappEnabled)
	})
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the row on first save", func(t *testing.T) {
		service, settings, _ := newSettingsService(t)
		userID := uuid.New()
		start, end := "22:00", "06:00"

		setting, err := service.UpdateSettings(ctx, userID, UpdateSettingsInput{
			WhatsappEnabled:  true,
			OnRequestCreated: true,
			QuietHoursStart:  &start,
			QuietHoursEnd:    &end,
		})

		require.NoError(t, err)
		assert.True(t, setting.WhatsappEnabled)
		assert.True(t, setting.OnRequestCreated)
		assert.False(t, setting.OnApprovalNeeded)
		require.NotNil(t, setting.QuietHoursStart)
		assert.Equal(t, "22:00", *setting.QuietHoursStart)

		stored, err := settings.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, stored.WhatsappEnabled)
	})

	t.Run("clears quiet hours when a boundary is missing", func(t *testing.T) {
		service, settings, _ := newSettingsService(t)
		userID := uuid.New()
		stored, err := notification.NewSetting(userID)
		require.NoError(t, err)
		require.NoError(t, stored.SetQuietHours("22:00", "06:00"))
		settings.Add(stored)

		setting, err := service.UpdateSettings(ctx, userID, UpdateSettingsInput{WhatsappEnabled: true})

		require.NoError(t, err)
		assert.Nil(t, setting.QuietHoursStart)
		assert.Nil(t, setting.QuietHoursEnd)
	})

	t.Run("rejects malformed quiet hours", func(t *testing.T) {
		service, _, _ := newSettingsService(t)
		start, end := "2200", "06:00"

		_, err := service.UpdateSettings(ctx, uuid.New(), UpdateSettingsInput{
			QuietHoursStart: &start,
			QuietHoursEnd:   &end,
		})
		require.Error(t, err)
	})
}

func TestSettingsService_ListLogs(t *testing.T) {
	ctx := context.Background()
	service, _, logs := newSettingsService(t)
	userID := uuid.New()

	mine, err := notification.NewLog(userID, notification.EventRequestCreated, "+628123456789", "halo")
	require.NoError(t, err)
	require.NoError(t, logs.Save(ctx, mine))

	other, err := notification.NewLog(uuid.New(), notification.EventRequestCreated, "+628987654321", "halo")
	require.NoError(t, err)
	require.NoError(t, logs.Save(ctx, other))

	page, err := service.ListLogs(ctx, userID, shared.Filter{Page: 1, PageSize: 20})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, userID, page.Items[0].UserID)
}
