// ABOUTME: HTTP client for the sales CRM backend REST API
// ABOUTME: Adds request ids, bearer auth and client timeouts and decodes {success, ...} envelopes

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/salesdesk/logging"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 32 << 20

type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	logger    *zap.Logger
	userAgent string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(logger) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    zap.NewNop(),
		userAgent: "salesdesk/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a backend rejection: a non-2xx status or {success: false}.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: backend error (%d): %s", e.Endpoint, e.Status, msg)
}

// IsAPIError reports whether err wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type envelope map[string]interface{}

func (e envelope) message() string {
	for _, key := range []string{"error", "message"} {
		if s, ok := e[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (e envelope) total() (int, bool) {
	switch v := e["total"].(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err == nil {
			return n, true
		}
		f, err := v.Float64()
		return int(f), err == nil
	}
	return 0, false
}

// do issues one request and returns the decoded envelope. A nil error means
// a 2xx status and a body that is not {success: false}.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload interface{}) (envelope, error) {
	endpoint := method + " " + path

	// path is already escaped; parsing keeps RawPath intact
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", endpoint))
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	log.Debug("backend response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(data)))

	env, decodeErr := decodeEnvelope(data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return env, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Message: env.message()}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, decodeErr)
	}
	if ok, present := env["success"].(bool); present && !ok {
		return env, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Message: env.message()}
	}
	return env, nil
}

func decodeEnvelope(data []byte) (envelope, error) {
	env := envelope{}
	if len(bytes.TrimSpace(data)) == 0 {
		return env, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return envelope{}, err
	}
	return env, nil
}
