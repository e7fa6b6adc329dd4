package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/calcuttafresh/storefront/pkg/config"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

const responseBodyReadLimit int64 = 1 << 20

var errBaseURLRequired = errors.New("backend base url is required")

// latencyObserver receives per-call durations; satisfied by
// metrics.CheckoutMetrics.
type latencyObserver interface {
	ObserveBackend(operation string, duration time.Duration)
}

// Client wraps the grocery backend's REST API. All identity-scoped
// calls take the session's bearer token; payment order creation is
// deliberately unauthenticated, matching the upstream contract.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
	observer   latencyObserver
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithObserver wires a latency observer.
func WithObserver(observer latencyObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds the backend client from configuration.
func NewClient(cfg config.BackendConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// do performs one JSON round trip. A transport failure maps to the
// NetworkFailure kind; non-2xx statuses are returned to the caller for
// operation-specific mapping.
func (c *Client) do(ctx context.Context, operation, method, path, token string, body any) (int, []byte, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log(ctx, "request", operation, map[string]any{"method": method, "path": path})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observer != nil {
		c.observer.ObserveBackend(operation, time.Since(start))
	}
	if err != nil {
		c.log(ctx, "error", operation, map[string]any{"error": err.Error()})
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeNetworkFailure, err, operation)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return resp.StatusCode, nil, pkgerrors.Wrap(pkgerrors.CodeNetworkFailure, err, operation)
	}

	c.log(ctx, "response", operation, map[string]any{"status": resp.StatusCode})
	return resp.StatusCode, raw, nil
}

func (c *Client) log(ctx context.Context, stage, operation string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	merged := map[string]any{"backend_op": operation, "stage": stage}
	for k, v := range fields {
		merged[k] = v
	}
	c.logger.Info(c.logger.WithFields(ctx, merged), "backend."+operation)
}

func (c *Client) warn(ctx context.Context, msg string, err error, status int) {
	if c.logger == nil {
		return
	}
	fields := map[string]any{}
	if err != nil {
		fields["error"] = err.Error()
	}
	if status != 0 {
		fields["status"] = status
	}
	c.logger.Warn(c.logger.WithFields(ctx, fields), msg)
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// serverMessage extracts the backend's error message from a non-2xx
// body, falling back to the provided default.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if strings.TrimSpace(body.Error) != "" {
			return body.Error
		}
		if strings.TrimSpace(body.Message) != "" {
			return body.Message
		}
	}
	return fallback
}

func decodeInto(raw []byte, out any, operation string) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetworkFailure, err, fmt.Sprintf("decode %s response", operation))
	}
	return nil
}
