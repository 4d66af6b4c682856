package notification

import (
	"context"
	"errors"

	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingsService manages per-user notification preferences and exposes
// the delivery log for auditing
type SettingsService struct {
	settings notification.SettingRepository
	logs     notification.LogRepository
	logger   *zap.Logger
}

// NewSettingsService creates a SettingsService
func NewSettingsService(
	settings notification.SettingRepository,
	logs notification.LogRepository,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settings: settings,
		logs:     logs,
		logger:   logger,
	}
}

// GetSettings returns a user's preferences, falling back to the
// defaults (whatsapp off) when no row exists yet. The fallback is not
// persisted; a row only appears once the user saves something.
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*notification.Setting, error) {
	setting, err := s.settings.FindByUser(ctx, userID)
	if err == nil {
		return setting, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return notification.NewSetting(userID)
	}
	return nil, err
}

// UpdateSettingsInput carries the full preference set; quiet hours are
// cleared when either boundary is nil
type UpdateSettingsInput struct {
	WhatsappEnabled  bool
	OnRequestCreated bool
	OnApprovalNeeded bool
	OnReorderAlert   bool
	QuietHoursStart  *string
	QuietHoursEnd    *string
}

// UpdateSettings upserts a user's preferences
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, in UpdateSettingsInput) (*notification.Setting, error) {
	setting, err := s.settings.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		setting, err = notification.NewSetting(userID)
		if err != nil {
			return nil, err
		}
	}

	setting.WhatsappEnabled = in.WhatsappEnabled
	setting.OnRequestCreated = in.OnRequestCreated
	setting.OnApprovalNeeded = in.OnApprovalNeeded
	setting.OnReorderAlert = in.OnReorderAlert

	if in.QuietHoursStart != nil && in.QuietHoursEnd != nil {
		if err := setting.SetQuietHours(*in.QuietHoursStart, *in.QuietHoursEnd); err != nil {
			return nil, err
		}
	} else {
		setting.ClearQuietHours()
	}

	if err := s.settings.Save(ctx, setting); err != nil {
		return nil, err
	}
	s.logger.Info("notification settings updated",
		zap.String("user_id", userID.String()),
		zap.Bool("whatsapp_enabled", setting.WhatsappEnabled),
	)
	return setting, nil
}

// ListLogs returns delivery log rows matching the filter, newest first
func (s *SettingsService) ListLogs(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[notification.Log], error) {
	rows, err := s.logs.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.logs.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(rows, total, filter.Page, filter.PageSize), nil
}
