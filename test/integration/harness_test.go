//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	httpadapter "github.com/askadit/content-service/internal/adapters/http"
	"github.com/askadit/content-service/internal/adapters/http/handlers"
	"github.com/askadit/content-service/internal/bootstrap"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/config"
)

const (
	remoteGistID = "gist-integration"
	remoteToken  = "ghp_integration"
	remoteFile   = "askadit-db.json"
)

// fakeRemote serves the gist endpoints the sync service calls.
type fakeRemote struct {
	*httptest.Server

	mu      sync.Mutex
	files   map[string]map[string]string
	failing bool
	patches int
}

func newFakeRemote() *fakeRemote {
	r := &fakeRemote{files: map[string]map[string]string{}}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))

	return r
}

func (r *fakeRemote) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failing {
		http.Error(w, `{"message":"upstream unavailable"}`, http.StatusBadGateway)
		return
	}

	if req.Header.Get("Authorization") != "Bearer "+remoteToken {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
		return
	}

	var body struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}

	_ = json.NewDecoder(req.Body).Decode(&body)

	id := strings.TrimPrefix(req.URL.Path, "/gists/")

	w.Header().Set("Content-Type", "application/json")

	switch req.Method {
	case http.MethodPost:
		id = fmt.Sprintf("gist-%d", len(r.files)+1)
		r.files[id] = map[string]string{}

		for name, f := range body.Files {
			r.files[id][name] = f.Content
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	case http.MethodPatch:
		files, ok := r.files[id]
		if !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}

		for name, f := range body.Files {
			files[name] = f.Content
		}

		r.patches++
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	case http.MethodGet:
		files, ok := r.files[id]
		if !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}

		out := map[string]map[string]string{}
		for name, content := range files {
			out[name] = map[string]string{"filename": name, "content": content}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "files": out})
	default:
		http.Error(w, "", http.StatusMethodNotAllowed)
	}
}

func (r *fakeRemote) seed(id string, files map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files[id] = files
}

func (r *fakeRemote) setFailing(failing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failing = failing
}

func (r *fakeRemote) patchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.patches
}

// snapshot decodes the snapshot file of the configured gist.
func (r *fakeRemote) snapshot() (domain.Snapshot, error) {
	r.mu.Lock()
	content, ok := r.files[remoteGistID][remoteFile]
	r.mu.Unlock()

	if !ok {
		return domain.Snapshot{}, errors.New("remote has no snapshot file")
	}

	return domain.DecodeSnapshot([]byte(content))
}

// service is the whole application served in-process.
type service struct {
	*httptest.Server

	components *bootstrap.Components
	client     *http.Client
}

type serviceOptions struct {
	remoteURL string
	connected bool
}

func testServiceConfig(opts serviceOptions) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.Options{Dir: "testdata/none"})
	if err != nil {
		return nil, err
	}

	cfg.App.Environment = "test"
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Blob.Driver = "memory"
	cfg.Sync.BaseURL = opts.remoteURL
	cfg.Sync.PullOnStart = false

	if opts.connected {
		cfg.Sync.GistID = remoteGistID
		cfg.Sync.Token = remoteToken
	}

	return cfg, cfg.Validate()
}

func startService(opts serviceOptions) (*service, error) {
	cfg, err := testServiceConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	components, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	gate, err := bootstrap.NewGate(cfg, logger)
	if err != nil {
		_ = components.Close()
		return nil, err
	}

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Timeout:   cfg.Server.RequestTimeout,
		Gate:      gate,
		AuthMode:  cfg.Auth.Mode,
		LoginRate: &cfg.Auth.LoginRate,
		Health:    handlers.NewHealthHandler(components.Health, handlers.NewBuildInfo("test", "test", "test"), components.Metrics),
		Content:   components.Content,
		Sync:      components.Sync,
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		_ = components.Close()
		return nil, err
	}

	return &service{
		Server:     httptest.NewServer(server.Engine()),
		components: components,
		client:     &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

func (s *service) stop() {
	s.Close()
	_ = s.components.Close()
}

// do sends a request and returns the status and body.
func (s *service) do(method, path, body string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.URL+path, reader)
	if err != nil {
		return 0, nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	return resp.StatusCode, data, err
}

func (s *service) login() error {
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, config.DefaultAdminUsername, config.DefaultAdminPassword)

	status, data, err := s.do(http.MethodPost, "/api/v1/auth/login", body)
	if err != nil {
		return err
	}

	if status != http.StatusNoContent {
		return fmt.Errorf("login: status %d: %s", status, data)
	}

	return nil
}
