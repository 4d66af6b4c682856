package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/inventaris/backend/internal/infrastructure/cache"
	"github.com/inventaris/backend/tests/testutil"
)

func newIdempotentHandler(t *testing.T, inner shared.EventHandler, config shared.IdempotencyConfig) *IdempotentHandler {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewIdempotentHandler(inner, store, config, zap.NewNop())
}

func TestIdempotentHandler_DuplicateSuppression(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockEventHandler("OrderPlaced")
	handler := newIdempotentHandler(t, inner, shared.DefaultIdempotencyConfig())

	event := testutil.NewTestEvent("OrderPlaced")
	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, event))

	assert.Equal(t, 1, inner.HandledCount())
	assert.Equal(t, int64(1), handler.Metrics().EventsProcessed.Load())
	assert.Equal(t, int64(1), handler.Metrics().EventsDuplicate.Load())
}

func TestIdempotentHandler_DistinctEvents(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockEventHandler("OrderPlaced")
	handler := newIdempotentHandler(t, inner, shared.DefaultIdempotencyConfig())

	require.NoError(t, handler.Handle(ctx, testutil.NewTestEvent("OrderPlaced")))
	require.NoError(t, handler.Handle(ctx, testutil.NewTestEvent("OrderPlaced")))

	assert.Equal(t, 2, inner.HandledCount())
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockEventHandler("OrderPlaced")
	handler := newIdempotentHandler(t, inner, shared.IdempotencyConfig{Enabled: false})

	event := testutil.NewTestEvent("OrderPlaced")
	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, event))

	assert.Equal(t, 2, inner.HandledCount())
}

func TestIdempotentHandler_InnerFailure(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockEventHandler("OrderPlaced")
	inner.SetError(errors.New("handler broken"))
	handler := newIdempotentHandler(t, inner, shared.DefaultIdempotencyConfig())

	err := handler.Handle(ctx, testutil.NewTestEvent("OrderPlaced"))

	require.Error(t, err)
	assert.Equal(t, int64(1), handler.Metrics().EventsFailed.Load())
}

func TestIdempotentHandler_ExpiredKeyProcessesAgain(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockEventHandler("OrderPlaced")
	handler := newIdempotentHandler(t, inner, shared.IdempotencyConfig{TTL: 10 * time.Millisecond, Enabled: true})

	event := testutil.NewTestEventWithID(uuid.New(), "OrderPlaced")
	require.NoError(t, handler.Handle(ctx, event))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, handler.Handle(ctx, event))

	assert.Equal(t, 2, inner.HandledCount())
}

func TestIdempotentHandler_EventTypes(t *testing.T) {
	inner := testutil.NewMockEventHandler("OrderPlaced", "OrderCancelled")
	handler := newIdempotentHandler(t, inner, shared.DefaultIdempotencyConfig())

	assert.Equal(t, inner.EventTypes(), handler.EventTypes())
}
