package notification

import (
	"context"
	"errors"

	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/request"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/domain/stock"
	"github.com/inventaris/backend/internal/infrastructure/queue"
	"github.com/inventaris/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Enqueuer submits delivery jobs; satisfied by queue.DeliveryQueue
type Enqueuer interface {
	Enqueue(job *queue.Job) error
}

// Dispatcher listens on the event bus and turns domain events into
// delivery jobs. All filtering on user preferences happens here except
// quiet hours, which the delivery side re-checks because dispatch and
// delivery can be minutes apart. A skipped notification leaves no
// trace: no log row, no error.
type Dispatcher struct {
	settings notification.SettingRepository
	users    identity.UserRepository
	queue    Enqueuer
	metrics  *telemetry.NotificationMetrics
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(
	settings notification.SettingRepository,
	users identity.UserRepository,
	q Enqueuer,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		settings: settings,
		users:    users,
		queue:    q,
		logger:   logger,
	}
}

// SetMetrics attaches dispatch instruments; nil metrics are a no-op
func (d *Dispatcher) SetMetrics(m *telemetry.NotificationMetrics) {
	d.metrics = m
}

// EventTypes returns the domain events this dispatcher listens for
func (d *Dispatcher) EventTypes() []string {
	return []string{
		request.EventTypeRequestCreated,
		request.EventTypeApprovalNeeded,
		stock.EventTypeReorderPointAlert,
	}
}

// Handle fans an event out to its recipients. It never returns an
// error: notification is best effort and must not disturb the workflow
// that fired the event.
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *request.RequestCreatedEvent:
		d.dispatchRequestCreated(ctx, e)
	case *request.ApprovalNeededEvent:
		d.dispatchApprovalNeeded(ctx, e)
	case *stock.ReorderPointAlertEvent:
		d.dispatchReorderAlert(ctx, e)
	}
	return nil
}

// dispatchRequestCreated notifies whoever acts first on a new request:
// the level-1 approver chain for ATK, the warehouse admin for office
// requests.
func (d *Dispatcher) dispatchRequestCreated(ctx context.Context, e *request.RequestCreatedEvent) {
	role := identity.RoleKasubbag
	if e.Variant == request.VariantOffice {
		role = identity.RoleAdminGudang
	}
	data := &RequestCreatedData{
		RequestNumber:  e.RequestNumber,
		RequesterName:  e.RequesterName,
		DepartmentName: e.DepartmentName,
		Lines:          toLines(e.Lines),
	}
	d.fanOutToRole(ctx, role, data)
}

func (d *Dispatcher) dispatchApprovalNeeded(ctx context.Context, e *request.ApprovalNeededEvent) {
	role, ok := identity.RoleForApprovalLevel(e.NextLevel)
	if !ok {
		d.logger.Warn("approval event with unknown level",
			zap.String("request_number", e.RequestNumber),
			zap.Int("next_level", e.NextLevel),
		)
		return
	}
	data := &ApprovalNeededData{
		RequestNumber:  e.RequestNumber,
		RequesterName:  e.RequesterName,
		DepartmentName: e.DepartmentName,
		Level:          e.NextLevel,
		Lines:          toLines(e.Lines),
	}
	d.fanOutToRole(ctx, role, data)
}

func (d *Dispatcher) dispatchReorderAlert(ctx context.Context, e *stock.ReorderPointAlertEvent) {
	data := &ReorderAlertData{
		ItemCode:     e.ItemCode,
		ItemName:     e.ItemName,
		Unit:         e.Unit,
		CurrentStock: e.CurrentStock,
		MinStock:     e.MinStock,
	}
	d.fanOutToRole(ctx, identity.RoleAdminGudang, data)
}

func (d *Dispatcher) fanOutToRole(ctx context.Context, role identity.Role, data any) {
	users, err := d.users.FindByRole(ctx, role)
	if err != nil {
		d.logger.Error("failed to resolve notification recipients",
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return
	}
	for i := range users {
		d.dispatchTo(ctx, &users[i], data)
	}
}

// dispatchTo applies the skip rules for one recipient and enqueues the
// job if all pass. Skips are silent; only infrastructure trouble gets
// logged.
func (d *Dispatcher) dispatchTo(ctx context.Context, user *identity.User, data any) {
	eventType, ok := eventTypeFor(data)
	if !ok {
		return
	}
	if !user.HasPhone() {
		return
	}

	setting, err := d.settings.FindByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			d.logger.Error("failed to load notification settings",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
		// No settings row means the user never opted in.
		return
	}
	if !setting.WhatsappEnabled || !setting.AllowsEvent(eventType) {
		return
	}

	job := queue.NewJob(user.ID, eventType.String(), data)
	if err := d.queue.Enqueue(job); err != nil {
		d.logger.Warn("failed to enqueue notification delivery",
			zap.String("user_id", user.ID.String()),
			zap.String("event_type", eventType.String()),
			zap.Error(err),
		)
		return
	}
	d.metrics.RecordEnqueued(ctx, eventType.String())
}

func toLines(in []request.EventLine) []Line {
	out := make([]Line, 0, len(in))
	for _, l := range in {
		out = append(out, Line{
			Name:     l.ItemName,
			Quantity: l.Quantity,
			Unit:     l.Unit,
		})
	}
	return out
}

var _ shared.EventHandler = (*Dispatcher)(nil)
