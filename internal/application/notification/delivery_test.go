package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inventaris/backend/internal/domain/identity"
	"github.com/inventaris/backend/internal/domain/notification"
	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/infrastructure/queue"
	"github.com/inventaris/backend/internal/infrastructure/whatsapp"
	"github.com/inventaris/backend/tests/testutil"
)

type gatewayCall struct {
	response string
	err      error
}

// scriptGateway replays a fixed sequence of responses. The last entry
// repeats when more calls arrive than scripted.
type scriptGateway struct {
	script []gatewayCall
	phones []string
	calls  int
}

func (g *scriptGateway) SendMessage(_ context.Context, phone, _ string) (string, error) {
	g.phones = append(g.phones, phone)
	idx := g.calls
	if idx >= len(g.script) {
		idx = len(g.script) - 1
	}
	g.calls++
	call := g.script[idx]
	return call.response, call.err
}

func retryableErr(body string) error {
	return &whatsapp.GatewayError{StatusCode: 500, Body: body, Message: "gateway error", Retryable: true}
}

type deliveryFixture struct {
	processor *DeliveryProcessor
	gateway   *scriptGateway
	logs      *testutil.MemoryLogRepository
	settings  *testutil.MemorySettingRepository
	users     *testutil.MemoryUserRepository
	user      *identity.User
	slept     []time.Duration
}

func newDeliveryFixture(t *testing.T, script ...gatewayCall) *deliveryFixture {
	t.Helper()

	users := testutil.NewMemoryUserRepository()
	settings := testutil.NewMemorySettingRepository()
	logs := testutil.NewMemoryLogRepository()
	gateway := &scriptGateway{script: script}

	user := &identity.User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Siti Rahayu",
		Email:      "siti@kantor.go.id",
		Phone:      "+628123456789",
		Role:       identity.RoleKasubbag,
		Active:     true,
	}
	users.Add(user)

	setting, err := notification.NewSetting(user.ID)
	require.NoError(t, err)
	setting.WhatsappEnabled = true
	settings.Add(setting)

	clock := shared.FixedClock{Time: time.Date(2025, 8, 20, 14, 0, 0, 0, time.Local)}
	f := &deliveryFixture{
		gateway:  gateway,
		logs:     logs,
		settings: settings,
		users:    users,
		user:     user,
	}
	f.processor = NewDeliveryProcessor(settings, logs, users, gateway, NewMessageGenerator(),
		RetryPolicy{MaxAttempts: 3, Backoff: []time.Duration{time.Minute, 5 * time.Minute}},
		clock, zap.NewNop())
	f.processor.SetSleep(func(_ context.Context, d time.Duration) error {
		f.slept = append(f.slept, d)
		return nil
	})
	return f
}

func (f *deliveryFixture) job() *queue.Job {
	return queue.NewJob(f.user.ID, notification.EventRequestCreated.String(), &RequestCreatedData{
		RequestNumber:  "REQ-20250820-0001",
		RequesterName:  "Budi Santoso",
		DepartmentName: "Bagian Umum",
	})
}

func (f *deliveryFixture) singleLog(t *testing.T) notification.Log {
	t.Helper()
	rows := f.logs.All()
	require.Len(t, rows, 1)
	return rows[0]
}

func TestDeliveryProcessor_Success(t *testing.T) {
	f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})

	require.NoError(t, f.processor.Process(context.Background(), f.job()))

	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, []string{"+628123456789"}, f.gateway.phones)

	row := f.singleLog(t)
	assert.Equal(t, notification.StatusSent, row.Status)
	assert.Equal(t, 0, row.RetryCount)
	assert.Equal(t, `{"status":true}`, row.GatewayResponse)
	require.NotNil(t, row.SentAt)
	assert.Contains(t, row.Message, "Permintaan Barang Baru")
	assert.Empty(t, f.slept)
}

func TestDeliveryProcessor_RetriesThenSucceeds(t *testing.T) {
	f := newDeliveryFixture(t,
		gatewayCall{err: retryableErr(`{"status":false}`)},
		gatewayCall{err: retryableErr(`{"status":false}`)},
		gatewayCall{response: `{"status":true}`},
	)

	require.NoError(t, f.processor.Process(context.Background(), f.job()))

	assert.Equal(t, 3, f.gateway.calls)
	assert.Equal(t, []time.Duration{time.Minute, 5 * time.Minute}, f.slept)

	row := f.singleLog(t)
	assert.Equal(t, notification.StatusSent, row.Status)
	assert.Equal(t, 2, row.RetryCount)
}

func TestDeliveryProcessor_NonRetryableFailsImmediately(t *testing.T) {
	authErr := &whatsapp.GatewayError{
		StatusCode: 401,
		Body:       `{"reason":"invalid token"}`,
		Message:    "authentication rejected",
		Retryable:  false,
	}
	f := newDeliveryFixture(t, gatewayCall{err: authErr})

	require.NoError(t, f.processor.Process(context.Background(), f.job()))

	assert.Equal(t, 1, f.gateway.calls)
	assert.Empty(t, f.slept)

	row := f.singleLog(t)
	assert.Equal(t, notification.StatusFailed, row.Status)
	assert.Equal(t, 0, row.RetryCount)
	assert.Equal(t, `{"reason":"invalid token"}`, row.GatewayResponse)
	assert.Contains(t, row.LastError, "authentication rejected")
}

func TestDeliveryProcessor_ExhaustsRetries(t *testing.T) {
	f := newDeliveryFixture(t, gatewayCall{err: retryableErr(`{"status":false}`)})

	require.NoError(t, f.processor.Process(context.Background(), f.job()))

	assert.Equal(t, 3, f.gateway.calls)

	row := f.singleLog(t)
	assert.Equal(t, notification.StatusFailed, row.Status)
	assert.Equal(t, 2, row.RetryCount)
	assert.Nil(t, row.SentAt)
}

func TestDeliveryProcessor_SkipConditions(t *testing.T) {
	ctx := context.Background()

	t.Run("quiet hours skip the delivery without a log row", func(t *testing.T) {
		f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})
		setting, err := f.settings.FindByUser(ctx, f.user.ID)
		require.NoError(t, err)
		require.NoError(t, setting.SetQuietHours("13:00", "15:00"))

		require.NoError(t, f.processor.Process(ctx, f.job()))

		assert.Zero(t, f.gateway.calls)
		assert.Empty(t, f.logs.All())
	})

	t.Run("whatsapp disabled since enqueue", func(t *testing.T) {
		f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})
		setting, err := f.settings.FindByUser(ctx, f.user.ID)
		require.NoError(t, err)
		setting.WhatsappEnabled = false

		require.NoError(t, f.processor.Process(ctx, f.job()))

		assert.Zero(t, f.gateway.calls)
		assert.Empty(t, f.logs.All())
	})

	t.Run("phone removed since enqueue", func(t *testing.T) {
		f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})
		f.user.Phone = ""

		require.NoError(t, f.processor.Process(ctx, f.job()))

		assert.Zero(t, f.gateway.calls)
		assert.Empty(t, f.logs.All())
	})

	t.Run("unknown event type", func(t *testing.T) {
		f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})
		job := queue.NewJob(f.user.ID, "bogus", nil)

		require.NoError(t, f.processor.Process(ctx, job))
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("recipient deleted since enqueue", func(t *testing.T) {
		f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})
		job := queue.NewJob(uuid.New(), notification.EventRequestCreated.String(), &RequestCreatedData{})

		require.NoError(t, f.processor.Process(ctx, job))
		assert.Zero(t, f.gateway.calls)
	})
}

func TestDeliveryProcessor_OnTerminalFailure(t *testing.T) {
	f := newDeliveryFixture(t, gatewayCall{response: `{"status":true}`})

	f.processor.OnTerminalFailure(context.Background(), f.job(), errors.New("panic: boom"))

	row := f.singleLog(t)
	assert.Equal(t, notification.StatusFailed, row.Status)
	assert.Equal(t, "+628123456789", row.Phone)
	assert.Contains(t, row.LastError, "boom")
}
