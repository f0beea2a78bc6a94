// Package clinicapi is the HTTP client for the clinic backend REST API.
package clinicapi

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

	"github.com/rs/zerolog"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
	"github.com/smartclinic/clinic-portal/internal/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.ClinicAPI over HTTP+JSON.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// messageBody is the envelope the backend uses for messages and errors.
type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m messageBody) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do performs r and returns the raw response body of a 2xx response.
// Transport errors become NetworkFailure, 404 NotFound, any other non-2xx
// RejectedByBackend carrying the backend's message.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", r.op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(r.op, "network_error").Observe(time.Since(start).Seconds())
		c.log.Warn().Err(err).Str("op", r.op).Str("method", r.method).Str("path", r.path).Msg("backend unreachable")
		return nil, &domain.Failure{Kind: domain.ErrNetworkFailure, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.BackendRequestDuration.WithLabelValues(r.op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &domain.Failure{Kind: domain.ErrNetworkFailure, Cause: fmt.Errorf("%s: read body: %w", r.op, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var mb messageBody
		_ = json.Unmarshal(data, &mb)
		kind := domain.ErrRejectedByBackend
		if resp.StatusCode == http.StatusNotFound {
			kind = domain.ErrNotFound
		}
		c.log.Debug().Str("op", r.op).Int("status", resp.StatusCode).Str("message", mb.text()).Msg("backend rejected request")
		return nil, &domain.Failure{
			Kind:    kind,
			Message: mb.text(),
			Status:  resp.StatusCode,
			Cause:   fmt.Errorf("%s: backend returned %d", r.op, resp.StatusCode),
		}
	}
	return data, nil
}

func decode(op string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.Failure{Kind: domain.ErrRejectedByBackend, Cause: fmt.Errorf("%s: decode response: %w", op, err)}
	}
	return nil
}

func message(data []byte) string {
	var mb messageBody
	_ = json.Unmarshal(data, &mb)
	return mb.Message
}

// Ping reports whether the backend answers at all. Any HTTP response below
// 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/doctor", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}

// emptyOnNotFound turns a NotFound listing into an empty result.
func emptyOnNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
