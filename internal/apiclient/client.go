package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const bearerPrefix = "Bearer "

// Client performs JSON calls against one backend service. It never retries
// and never caches.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type callOptions struct {
	authorization string
}

// CallOption configures a single call
type CallOption func(*callOptions)

// WithToken attaches "Authorization: Bearer <token>". A stored token that
// already carries the prefix is not prefixed twice, and a bare prefix counts
// as no token.
func WithToken(token string) CallOption {
	raw := strings.TrimSpace(token)
	if raw == strings.TrimSpace(bearerPrefix) {
		raw = ""
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	return func(o *callOptions) {
		if raw == "" {
			o.authorization = ""
			return
		}
		o.authorization = bearerPrefix + raw
	}
}

// WithAuthorization forwards an Authorization header value unmodified.
func WithAuthorization(header string) CallOption {
	return func(o *callOptions) { o.authorization = header }
}

// Call sends body (if non-nil) as JSON and decodes a 2xx response into out
// (if non-nil). Non-2xx responses come back as *AuthError, *NotFoundError or
// *ServiceError.
func (c *Client) Call(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	authorization := ResolveAuthorization(opts...)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend call failed", "method", method, "path", path, "error", err)
		return &ServiceError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServiceError{Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	c.logger.DebugContext(ctx, "backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, path, errorMessage(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

// errorMessage extracts a human readable message from an error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func orEmptyList(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return json.RawMessage("[]")
	}
	return raw
}

// decodeData decodes a payload returned by one of the Raw calls.
func decodeData(raw json.RawMessage, out any) error {
	if isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ServiceError{Status: http.StatusOK, Message: "invalid response body", Err: err}
	}
	return nil
}

// ResolveAuthorization returns the Authorization header a call with opts
// would send.
func ResolveAuthorization(opts ...CallOption) string {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.authorization
}
