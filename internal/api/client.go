// Package api is the remote client for the device-management backend. It
// attaches the session credential, normalizes transport and HTTP failures
// into one error type, and exposes a typed wrapper per REST endpoint.
// It never retries; callers decide how failures reach the user.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request. A hung backend call must not hang
// the console forever.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token() string
}

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// falls back to DefaultTimeout.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		logger:     logger,
	}
}

// requestOptions control per-call behavior.
type requestOptions struct {
	useAuth bool
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// NoAuth skips the Authorization header. Only the pre-authentication
// endpoints (login, register, password reset) use this.
func NoAuth() RequestOption {
	return func(o *requestOptions) { o.useAuth = false }
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Request performs one backend call and returns the envelope's data field.
// payload, when non-nil, is sent as a JSON body. Every failure comes back
// as an *Error; response bodies are not interpreted beyond JSON decoding.
func (c *Client) Request(ctx context.Context, method, path string, payload any, opts ...RequestOption) (json.RawMessage, error) {
	options := requestOptions{useAuth: true}
	for _, opt := range opts {
		opt(&options)
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, ValidationError(fmt.Errorf("encoding request body: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, transportErr(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if options.useAuth {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, transportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := errorMessage(resp.StatusCode, body)
		c.logger.Warn("Backend returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, httpErr(resp.StatusCode, message)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, parseErr(fmt.Errorf("decoding response: %w", err))
	}
	return env.Data, nil
}

// errorMessage extracts a structured message from an error body, falling
// back to the HTTP status line when the body is not parseable JSON.
func errorMessage(status int, body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

// decode unmarshals an envelope's data field into out, mapping failures
// into the parse kind.
func decode(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return parseErr(fmt.Errorf("decoding payload: %w", err))
	}
	return nil
}
