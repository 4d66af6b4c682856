package whatsapp

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway implements Gateway without sending anything. Used when the
// WhatsApp integration is disabled so the delivery pipeline still runs
// end to end in development.
type LogGateway struct {
	logger *zap.Logger
}

// NewLogGateway creates a log-only gateway
func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// SendMessage logs the message and reports success
func (g *LogGateway) SendMessage(_ context.Context, phone, message string) (string, error) {
	g.logger.Info("whatsapp disabled, message not sent",
		zap.String("phone", phone),
		zap.Int("message_length", len(message)),
	)
	return `{"status":true,"reason":"whatsapp disabled"}`, nil
}

var _ Gateway = (*LogGateway)(nil)
