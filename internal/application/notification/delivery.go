package notification

import (
	"context"
	"errors"
	"time"

	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/infrastructure/queue"
	"github.com/inventaris/backend/internal/infrastructure/telemetry"
	"github.com/inventaris/backend/internal/infrastructure/whatsapp"
	"go.uber.org/zap"
)

// RetryPolicy controls the in-job retry loop. Backoff holds the delay
// before attempt 2, 3, ... so len(Backoff) should be MaxAttempts-1;
// missing entries reuse the last delay.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// DefaultRetryPolicy mirrors the gateway's transient-failure behavior:
// three total attempts spaced a minute, five minutes and thirty minutes
// apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Minute, 5 * time.Minute, 30 * time.Minute},
	}
}

func (p RetryPolicy) delayBefore(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	idx := attempt - 2 // delay before attempt N sits at index N-2
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}

// DeliveryProcessor executes one notification delivery end to end:
// re-check preferences, render, create the log row, call the gateway
// with retries, resolve the row to sent or failed. Retries are
// sequential inside a single Process call; the job never re-enters the
// queue.
type DeliveryProcessor struct {
	settings  notification.SettingRepository
	logs      notification.LogRepository
	users     identity.UserRepository
	gateway   whatsapp.Gateway
	generator *MessageGenerator
	policy    RetryPolicy
	clock     shared.Clock
	sleep     func(ctx context.Context, d time.Duration) error
	metrics   *telemetry.NotificationMetrics
	logger    *zap.Logger
}

// NewDeliveryProcessor creates a DeliveryProcessor
func NewDeliveryProcessor(
	settings notification.SettingRepository,
	logs notification.LogRepository,
	users identity.UserRepository,
	gateway whatsapp.Gateway,
	generator *MessageGenerator,
	policy RetryPolicy,
	clock shared.Clock,
	logger *zap.Logger,
) *DeliveryProcessor {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &DeliveryProcessor{
		settings:  settings,
		logs:      logs,
		users:     users,
		gateway:   gateway,
		generator: generator,
		policy:    policy,
		clock:     clock,
		sleep:     sleepWithContext,
		logger:    logger,
	}
}

// SetSleep replaces the inter-attempt delay function. Tests use this to
// run the backoff loop without waiting.
func (p *DeliveryProcessor) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	p.sleep = fn
}

// SetMetrics attaches delivery instruments; nil metrics are a no-op
func (p *DeliveryProcessor) SetMetrics(m *telemetry.NotificationMetrics) {
	p.metrics = m
}

// Process runs one delivery. Skip conditions (quiet hours, toggles
// turned off since enqueue, phone removed) end the job silently with
// zero log rows; everything past the skip checks leaves a durable row.
func (p *DeliveryProcessor) Process(ctx context.Context, job *queue.Job) error {
	eventType := notification.EventType(job.EventType)
	if !eventType.IsValid() {
		p.logger.Warn("delivery job with unknown event type", zap.String("event_type", job.EventType))
		return nil
	}

	user, err := p.users.FindByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.HasPhone() {
		return nil
	}

	setting, err := p.settings.FindByUser(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !setting.WhatsappEnabled || !setting.AllowsEvent(eventType) {
		return nil
	}
	if setting.InQuietHours(p.clock.Now()) {
		p.logger.Debug("delivery skipped during quiet hours",
			zap.String("user_id", job.UserID.String()),
			zap.String("event_type", job.EventType),
		)
		return nil
	}

	message, err := p.generator.Generate(job.Data)
	if err != nil {
		return err
	}

	logRow, err := notification.NewLog(job.UserID, eventType, user.Phone, message)
	if err != nil {
		return err
	}
	if err := p.logs.Save(ctx, logRow); err != nil {
		return err
	}

	return p.attemptLoop(ctx, logRow)
}

// attemptLoop drives the gateway calls against the retry policy. The
// log row's retry_count ends up as the number of attempts before the
// final outcome: 0 for first-try success or a non-retryable failure.
func (p *DeliveryProcessor) attemptLoop(ctx context.Context, logRow *notification.Log) error {
	var (
		lastErr  error
		lastBody string
	)

	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.sleep(ctx, p.policy.delayBefore(attempt)); err != nil {
				break
			}
		}

		response, err := p.gateway.SendMessage(ctx, logRow.Phone, logRow.Message)
		if err == nil {
			logRow.MarkSent(response, attempt-1, p.clock.Now())
			if saveErr := p.logs.Save(ctx, logRow); saveErr != nil {
				return saveErr
			}
			p.metrics.RecordDelivered(ctx, logRow.EventType.String(), attempt)
			p.logger.Info("notification delivered",
				zap.String("phone", logRow.Phone),
				zap.String("event_type", logRow.EventType.String()),
				zap.Int("retry_count", logRow.RetryCount),
			)
			return nil
		}

		lastErr = err
		lastBody = gatewayBody(err, response)

		if !whatsapp.IsRetryable(err) {
			break
		}
		if attempt < p.policy.MaxAttempts {
			logRow.RetryCount = attempt
			logRow.UpdatedAt = p.clock.Now()
			if saveErr := p.logs.Save(ctx, logRow); saveErr != nil {
				p.logger.Error("failed to persist retry count", zap.Error(saveErr))
			}
			p.logger.Warn("notification attempt failed, will retry",
				zap.String("phone", logRow.Phone),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	logRow.MarkFailed(lastBody, errorMessage(lastErr), logRow.RetryCount)
	if saveErr := p.logs.Save(ctx, logRow); saveErr != nil {
		return saveErr
	}
	p.metrics.RecordFailed(ctx, logRow.EventType.String(), logRow.RetryCount+1)
	p.logger.Error("notification delivery failed",
		zap.String("phone", logRow.Phone),
		zap.String("event_type", logRow.EventType.String()),
		zap.Int("retry_count", logRow.RetryCount),
		zap.Error(lastErr),
	)
	return nil
}

// OnTerminalFailure is the panic backstop: it makes a best effort to
// leave a failed log row so the delivery is not silently lost
func (p *DeliveryProcessor) OnTerminalFailure(ctx context.Context, job *queue.Job, cause error) {
	eventType := notification.EventType(job.EventType)
	if !eventType.IsValid() {
		return
	}

	phone := "-"
	if user, err := p.users.FindByID(ctx, job.UserID); err == nil && user.HasPhone() {
		phone = user.Phone
	}
	message, err := p.generator.Generate(job.Data)
	if err != nil || message == "" {
		message = "-"
	}

	logRow, err := notification.NewLog(job.UserID, eventType, phone, message)
	if err != nil {
		p.logger.Error("failed to record terminal delivery failure", zap.Error(err))
		return
	}
	logRow.MarkFailed("", errorMessage(cause), 0)
	if err := p.logs.Save(ctx, logRow); err != nil {
		p.logger.Error("failed to persist terminal delivery failure", zap.Error(err))
	}
}

func gatewayBody(err error, response string) string {
	var ge *whatsapp.GatewayError
	if errors.As(err, &ge) && ge.Body != "" {
		return ge.Body
	}
	return response
}

func errorMessage(err error) string {
	if err == nil {
		return "delivery aborted"
	}
	return err.Error()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ queue.Processor = (*DeliveryProcessor)(nil)
