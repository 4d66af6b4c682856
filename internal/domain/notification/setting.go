package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventType tags the notification categories a user can toggle
type EventType string

const (
	EventRequestCreated EventType = "request_created"
	EventApprovalNeeded EventType = "approval_needed"
	EventReorderAlert   EventType = "reorder_alert"
)

// IsValid returns true if the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventRequestCreated, EventApprovalNeeded, EventReorderAlert:
		return true
	}
	return false
}

// String returns the string representation of EventType
func (t EventType) String() string {
	return string(t)
}

// Setting holds a user's WhatsApp notification preferences. Absent
// settings mean no notifications at all; dispatchers must treat a
// missing row as opt-out.
type Setting struct {
	shared.BaseEntity
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	WhatsappEnabled  bool      `gorm:"not null;default:false"`
	OnRequestCreated bool      `gorm:"not null;default:true"`
	OnApprovalNeeded bool      `gorm:"not null;default:true"`
	OnReorderAlert   bool      `gorm:"not null;default:true"`
	QuietHoursStart  *string   `gorm:"size:5"` // "HH:MM", nil disables quiet hours
	QuietHoursEnd    *string   `gorm:"size:5"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "notification_settings"
}

// NewSetting creates default settings for a user (whatsapp off until
// explicitly enabled)
func NewSetting(userID uuid.UUID) (*Setting, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID cannot be empty")
	}
	return &Setting{
		BaseEntity:       shared.NewBaseEntity(),
		UserID:           userID,
		WhatsappEnabled:  false,
		OnRequestCreated: true,
		OnApprovalNeeded: true,
		OnReorderAlert:   true,
	}, nil
}

// AllowsEvent returns true if the per-event toggle for the given type is on
func (s *Setting) AllowsEvent(t EventType) bool {
	switch t {
	case EventRequestCreated:
		return s.OnRequestCreated
	case EventApprovalNeeded:
		return s.OnApprovalNeeded
	case EventReorderAlert:
		return s.OnReorderAlert
	}
	return false
}

// SetQuietHours sets the do-not-disturb window. The window may wrap
// midnight (start later than end).
func (s *Setting) SetQuietHours(start, end string) error {
	if _, err := parseClock(start); err != nil {
		return err
	}
	if _, err := parseClock(end); err != nil {
		return err
	}
	s.QuietHoursStart = &start
	s.QuietHoursEnd = &end
	s.UpdatedAt = time.Now()
	return nil
}

// ClearQuietHours removes the do-not-disturb window
func (s *Setting) ClearQuietHours() {
	s.QuietHoursStart = nil
	s.QuietHoursEnd = nil
	s.UpdatedAt = time.Now()
}

// InQuietHours reports whether now falls inside the configured window.
// With no window configured it is always false. A window whose start is
// later than its end wraps midnight: 22:00-06:00 covers late evening
// and early morning. Both boundaries count as inside.
func (s *Setting) InQuietHours(now time.Time) bool {
	if s.QuietHoursStart == nil || s.QuietHoursEnd == nil {
		return false
	}
	start, err := parseClock(*s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := parseClock(*s.QuietHoursEnd)
	if err != nil {
		return false
	}
	cur := now.Hour()*60 + now.Minute()

	if start == end {
		return cur == start
	}
	if start > end {
		return cur >= start || cur <= end
	}
	return cur >= start && cur <= end
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, shared.NewValidationError(fmt.Sprintf("Invalid time %q, expected HH:MM", v))
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, shared.NewValidationError(fmt.Sprintf("Invalid hour in %q", v))
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, shared.NewValidationError(fmt.Sprintf("Invalid minute in %q", v))
	}
	return h*60 + m, nil
}
