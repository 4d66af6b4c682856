package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:  server.URL,
		APIToken: "test-token",
		Sender:   "6281200000000",
	}, zap.NewNop())
}

func TestClient_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers and returns the raw body", func(t *testing.T) {
		var gotAuth string
		var gotPayload sendRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.Write([]byte(`{"status":true,"reason":""}`))
		})

		body, err := client.SendMessage(ctx, "+628123456789", "halo")

		require.NoError(t, err)
		assert.Equal(t, `{"status":true,"reason":""}`, body)
		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.Equal(t, "+628123456789", gotPayload.Target)
		assert.Equal(t, "halo", gotPayload.Message)
		assert.Equal(t, "6281200000000", gotPayload.Sender)
	})

	t.Run("missing token is non-retryable", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://localhost:1"}, zap.NewNop())

		_, err := client.SendMessage(ctx, "+628123456789", "halo")

		require.Error(t, err)
		assert.False(t, IsRetryable(err))
	})

	t.Run("401 is non-retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"reason":"invalid token"}`))
		})

		body, err := client.SendMessage(ctx, "+628123456789", "halo")

		require.Error(t, err)
		assert.False(t, IsRetryable(err))
		assert.Equal(t, `{"reason":"invalid token"}`, body)

		var ge *GatewayError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, http.StatusUnauthorized, ge.StatusCode)
		assert.Equal(t, `{"reason":"invalid token"}`, ge.Body)
	})

	t.Run("429 is non-retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.SendMessage(ctx, "+628123456789", "halo")
		require.Error(t, err)
		assert.False(t, IsRetryable(err))
	})

	t.Run("5xx is retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.SendMessage(ctx, "+628123456789", "halo")
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
	})

	t.Run("2xx with failure body is retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":false,"reason":"device disconnected"}`))
		})

		_, err := client.SendMessage(ctx, "+628123456789", "halo")
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
		assert.Contains(t, err.Error(), "device disconnected")
	})

	t.Run("2xx with garbage body is retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := client.SendMessage(ctx, "+628123456789", "halo")
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
	})

	t.Run("connection failure is retryable", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", APIToken: "test-token"}, zap.NewNop())

		_, err := client.SendMessage(ctx, "+628123456789", "halo")
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
	})
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("some transport error")))
	assert.False(t, IsRetryable(&GatewayError{Retryable: false}))
	assert.True(t, IsRetryable(&GatewayError{Retryable: true}))
}

func TestLogGateway(t *testing.T) {
	g := NewLogGateway(zap.NewNop())

	body, err := g.SendMessage(context.Background(), "+628123456789", "halo")

	require.NoError(t, err)
	assert.Contains(t, body, `"status":true`)
}
