package handler

import (
	appnotification "github.com/inventaris/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes per-user notification preferences and the
// delivery log
type NotificationHandler struct {
	BaseHandler
	settings *appnotification.SettingsService
}

// NewNotificationHandler creates a NotificationHandler
func NewNotificationHandler(settings *appnotification.SettingsService) *NotificationHandler {
	return &NotificationHandler{settings: settings}
}

// GetSettings returns the acting user's preferences
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	setting, err := h.settings.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

type updateSettingsRequest struct {
	WhatsappEnabled  bool    `json:"whatsapp_enabled"`
	OnRequestCreated bool    `json:"on_request_created"`
	OnApprovalNeeded bool    `json:"on_approval_needed"`
	OnReorderAlert   bool    `json:"on_reorder_alert"`
	QuietHoursStart  *string `json:"quiet_hours_start" binding:"omitempty,len=5"`
	QuietHoursEnd    *string `json:"quiet_hours_end" binding:"omitempty,len=5"`
}

// UpdateSettings upserts the acting user's preferences
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	setting, err := h.settings.UpdateSettings(c.Request.Context(), userID, appnotification.UpdateSettingsInput{
		WhatsappEnabled:  req.WhatsappEnabled,
		OnRequestCreated: req.OnRequestCreated,
		OnApprovalNeeded: req.OnApprovalNeeded,
		OnReorderAlert:   req.OnReorderAlert,
		QuietHoursStart:  req.QuietHoursStart,
		QuietHoursEnd:    req.QuietHoursEnd,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// ListLogs returns the acting user's delivery log, newest first
func (h *NotificationHandler) ListLogs(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if eventType := c.Query("event_type"); eventType != "" {
		filter.Filters["event_type"] = eventType
	}

	page, err := h.settings.ListLogs(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
