package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/askadit/content-service/internal/adapters/http/middleware"
	"github.com/askadit/content-service/internal/platform/config"
	"github.com/askadit/content-service/internal/platform/logging"
)

const defaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g. "https://api.github.com".
	BaseURL string

	// ServiceName identifies the remote in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a whole request including reading response headers.
	Timeout time.Duration

	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Headers are defaults applied when a request does not set them.
	Headers map[string]string

	Logger *slog.Logger
}

// RequestOption adjusts a single outbound request.
type RequestOption func(*http.Request)

// WithBearerToken sets the Authorization header.
func WithBearerToken(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// Client sends one attempt per call to a single remote. It never retries;
// a circuit breaker rejects calls while the remote keeps failing. Request
// and correlation ids from the caller's context travel with each request.
type Client struct {
	http     *http.Client
	baseURL  string
	defaults http.Header
	logger   *slog.Logger
	breaker  *CircuitBreaker
	inst     *instruments
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	switch {
	case cfg.ServiceName == "":
		return nil, errors.New("service name is required")
	case cfg.BaseURL == "":
		return nil, errors.New("base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"), slog.String("downstream", cfg.ServiceName))

	inst, err := newInstruments(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("remote circuit changed state", slog.String("from", from.String()), slog.String("to", to.String()))
	})

	defaults := make(http.Header, len(cfg.Headers))
	for k, v := range cfg.Headers {
		defaults.Set(k, v)
	}

	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		defaults: defaults,
		logger:   logger,
		breaker:  breaker,
		inst:     inst,
	}, nil
}

// newTransport clones the default transport, overriding pool sizes that
// are set in cfg.
func newTransport(cfg config.TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}

	return t
}

// ServiceName returns the configured remote name.
func (c *Client) ServiceName() string {
	return c.inst.remote
}

// CircuitState reports the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// Do sends req once and returns the response whatever its status. Transport
// errors and 5xx responses count as failures toward opening the circuit.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	began := time.Now()
	log := logging.FromContext(ctx).With(
		slog.String("downstream", c.inst.remote),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.inst.finish(ctx, nil, req.Method, 0, time.Since(began), nil)
		log.Warn("remote call rejected, circuit open")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.inst.start(ctx, req)
	defer span.End()

	c.decorate(ctx, req.Header)

	resp, err := c.http.Do(req.WithContext(ctx))
	elapsed := time.Since(began)

	if err != nil {
		c.breaker.RecordFailure()
		c.inst.finish(ctx, span, req.Method, 0, elapsed, err)
		log.Error("remote call failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}

	c.inst.finish(ctx, span, req.Method, resp.StatusCode, elapsed, nil)
	log.Debug("remote call completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// Get performs a GET against path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, nil, opts)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body []byte, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, body, opts)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body []byte, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, opts []RequestOption) (*http.Response, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var req *http.Request

	var err error

	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, url, http.NoBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}

	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}

	for _, opt := range opts {
		opt(req)
	}

	return c.Do(ctx, req)
}

// decorate fills default headers the request left unset and forwards the
// caller's request and correlation ids.
func (c *Client) decorate(ctx context.Context, h http.Header) {
	for k, vs := range c.defaults {
		if h.Get(k) == "" && len(vs) > 0 {
			h.Set(k, vs[0])
		}
	}

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		h.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		h.Set(middleware.HeaderCorrelationID, id)
	}
}
