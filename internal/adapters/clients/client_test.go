package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askadit/content-service/internal/adapters/http/middleware"
	"github.com/askadit/content-service/internal/platform/config"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		ServiceName: "gist",
		Timeout:     2 * time.Second,
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   2,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
		Headers: map[string]string{"Accept": "application/vnd.github.v3+json"},
	}
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: "service name is required"},
		{name: "missing base URL", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "base URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("https://api.example.com")
			tt.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_TrimsBaseURL(t *testing.T) {
	client, err := New(testConfig("https://api.example.com/"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, "gist", client.ServiceName())
}

func TestClient_SendsHeadersAndBody(t *testing.T) {
	var (
		gotAuth, gotAccept, gotRequestID, gotCorrelationID, gotContentType string
		gotBody                                                            []byte
		gotMethod, gotPath                                                 string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get(middleware.HeaderRequestID)
		gotCorrelationID = r.Header.Get(middleware.HeaderCorrelationID)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	ctx := middleware.ContextWithRequestID(context.Background(), "req-1")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-1")

	resp, err := client.Patch(ctx, "gists/abc", []byte(`{"files":{}}`), WithBearerToken("secret"))
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/gists/abc", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, "corr-1", gotCorrelationID)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"files":{}}`, string(gotBody))
}

func TestClient_MakesExactlyOneAttempt(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/gists/abc")
	require.NoError(t, err, "server errors are returned as responses")
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CircuitOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	for range 2 {
		resp, err := client.Get(context.Background(), "/")
		require.NoError(t, err)
		closeBody(t, resp)
	}

	assert.Equal(t, StateOpen, client.CircuitState())

	_, err = client.Get(context.Background(), "/")
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ClientErrorsDoNotTripCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	for range 5 {
		resp, err := client.Get(context.Background(), "/")
		require.NoError(t, err)
		closeBody(t, resp)
	}

	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestClient_TransportErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/")
	require.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond

	client, err := New(cfg)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/")
	require.ErrorIs(t, err, ErrRequestFailed)
}
