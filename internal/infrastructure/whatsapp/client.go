package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Gateway sends a WhatsApp text message to a phone number. The returned
// string is the raw gateway response body, stored on the notification
// log for auditing.
type Gateway interface {
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

// GatewayError is a classified delivery failure. Retryable errors are
// transient (5xx, timeouts, malformed success responses); non-retryable
// ones need operator action (bad credentials, rate limiting).
type GatewayError struct {
	StatusCode int
	Body       string
	Message    string
	Retryable  bool
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("whatsapp gateway: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("whatsapp gateway: %s", e.Message)
}

// IsRetryable reports whether err is a retryable gateway failure.
// Unknown error types (network failures wrapped by net/http) count as
// retryable.
func IsRetryable(err error) bool {
	if ge, ok := err.(*GatewayError); ok {
		return ge.Retryable
	}
	return err != nil
}

// Config holds gateway connection settings
type Config struct {
	BaseURL  string
	APIToken string
	Sender   string
	Timeout  time.Duration
}

// Client talks to a Fonnte-style WhatsApp HTTP gateway: bearer token
// auth, JSON request, JSON response with an explicit success flag.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sendRequest struct {
	Target  string `json:"target"`
	Message string `json:"message"`
	Sender  string `json:"sender,omitempty"`
}

type sendResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
}

// SendMessage delivers one text message. Classification:
//   - 2xx with success body: delivered
//   - 2xx with failure body, 5xx, transport errors: retryable
//   - 401, 403, 429, missing token: non-retryable
func (c *Client) SendMessage(ctx context.Context, phone, message string) (string, error) {
	if c.cfg.APIToken == "" {
		return "", &GatewayError{
			Message:   "api token not configured",
			Retryable: false,
		}
	}

	payload, err := json.Marshal(sendRequest{
		Target:  phone,
		Message: message,
		Sender:  c.cfg.Sender,
	})
	if err != nil {
		return "", &GatewayError{Message: fmt.Sprintf("encode request: %v", err), Retryable: false}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return "", &GatewayError{Message: fmt.Sprintf("build request: %v", err), Retryable: false}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GatewayError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("read response: %v", err),
			Retryable:  true,
		}
	}
	rawBody := string(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    "authentication rejected",
			Retryable:  false,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    "rate limited",
			Retryable:  false,
		}
	case resp.StatusCode >= 500:
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    "gateway error",
			Retryable:  true,
		}
	case resp.StatusCode >= 400:
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    "request rejected",
			Retryable:  false,
		}
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		// A 2xx with an unreadable body counts as transient.
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    fmt.Sprintf("decode response: %v", err),
			Retryable:  true,
		}
	}
	if !sr.Status {
		return rawBody, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       rawBody,
			Message:    fmt.Sprintf("gateway reported failure: %s", sr.Reason),
			Retryable:  true,
		}
	}

	c.logger.Debug("whatsapp message delivered", zap.String("phone", phone))
	return rawBody, nil
}

var _ Gateway = (*Client)(nil)
