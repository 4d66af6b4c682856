package notification

import (
	"time"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryStatus represents the delivery state of a notification log row
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// IsValid returns true if the delivery status is known
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	}
	return false
}

// Log is one delivery attempt record. A row is created just before the
// first gateway call and then resolved to sent or failed; skipped
// notifications leave no row at all.
type Log struct {
	shared.BaseEntity
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType       EventType      `gorm:"size:32;not null;index"`
	Phone           string         `gorm:"size:24;not null"`
	Message         string         `gorm:"type:text;not null"`
	Status          DeliveryStatus `gorm:"size:12;not null;index"`
	GatewayResponse string         `gorm:"type:text"`
	LastError       string         `gorm:"size:512"`
	RetryCount      int            `gorm:"not null;default:0"`
	SentAt          *time.Time
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "notification_logs"
}

// NewLog creates a pending log row for an outgoing message
func NewLog(userID uuid.UUID, eventType EventType, phone, message string) (*Log, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID cannot be empty")
	}
	if !eventType.IsValid() {
		return nil, shared.NewValidationError("Unknown notification event type")
	}
	if phone == "" {
		return nil, shared.NewValidationError("Phone cannot be empty")
	}
	if message == "" {
		return nil, shared.NewValidationError("Message cannot be empty")
	}
	return &Log{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		EventType:  eventType,
		Phone:      phone,
		Message:    message,
		Status:     StatusPending,
	}, nil
}

// MarkSent resolves the row as delivered. retryCount is the number of
// attempts that failed before this one succeeded.
func (l *Log) MarkSent(gatewayResponse string, retryCount int, at time.Time) {
	l.Status = StatusSent
	l.GatewayResponse = gatewayResponse
	l.RetryCount = retryCount
	l.SentAt = &at
	l.UpdatedAt = at
}

// MarkFailed resolves the row as undeliverable, preserving phone and
// message for manual follow-up
func (l *Log) MarkFailed(gatewayResponse, lastError string, retryCount int) {
	l.Status = StatusFailed
	l.GatewayResponse = gatewayResponse
	l.LastError = lastError
	l.RetryCount = retryCount
	l.UpdatedAt = time.Now()
}
