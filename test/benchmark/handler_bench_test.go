package benchmark

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/blob"
	"github.com/askadit/content-service/internal/adapters/embedded"
	httpadapter "github.com/askadit/content-service/internal/adapters/http"
	"github.com/askadit/content-service/internal/adapters/http/handlers"
	"github.com/askadit/content-service/internal/adapters/http/middleware"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// denyAll is a gate without sessions; the read path never consults it.
type denyAll struct{}

func (denyAll) IsAuthenticated(*http.Request) bool { return false }
func (denyAll) Logout(http.ResponseWriter)          {}

// setupRouter serves the seeded embedded store through the full router.
func setupRouter(b *testing.B) (*gin.Engine, *embedded.Store) {
	b.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := embedded.Open(context.Background(), embedded.Config{Blobs: blob.NewMemoryStore(), Logger: logger})
	if err != nil {
		b.Fatal(err)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		b.Fatal(err)
	}

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Gate:    denyAll{},
		Health:  handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z"), nil),
		Content: app.NewContentService(app.ContentServiceConfig{Store: store, Logger: logger}),
	})

	return engine, store
}

func serve(b *testing.B, engine *gin.Engine, method, target string) {
	b.Helper()

	req := httptest.NewRequest(method, target, http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("%s %s: status %d", method, target, w.Code)
		}
	}
}

// BenchmarkLiveness measures the liveness probe through the full middleware chain.
func BenchmarkLiveness(b *testing.B) {
	engine, _ := setupRouter(b)
	serve(b, engine, http.MethodGet, "/-/live")
}

// BenchmarkReadiness includes running the content store check.
func BenchmarkReadiness(b *testing.B) {
	engine, _ := setupRouter(b)
	serve(b, engine, http.MethodGet, "/-/ready")
}

// BenchmarkListTopics is the hot reader path.
func BenchmarkListTopics(b *testing.B) {
	engine, _ := setupRouter(b)
	serve(b, engine, http.MethodGet, "/api/v1/topics?section=countries")
}

func BenchmarkGetTopic(b *testing.B) {
	engine, store := setupRouter(b)

	topics, err := store.ListTopics(context.Background(), domain.SectionCountries)
	if err != nil || len(topics) == 0 {
		b.Fatalf("no seeded countries: %v", err)
	}

	serve(b, engine, http.MethodGet, "/api/v1/topics/countries/"+topics[0].ID)
}

func BenchmarkListQuotes(b *testing.B) {
	engine, _ := setupRouter(b)
	serve(b, engine, http.MethodGet, "/api/v1/quotes")
}

// BenchmarkEncodeSnapshot measures the work done before every push.
func BenchmarkEncodeSnapshot(b *testing.B) {
	_, store := setupRouter(b)

	d, err := store.Export(context.Background())
	if err != nil {
		b.Fatal(err)
	}

	snap := domain.NewSnapshot(d, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	b.ReportAllocs()

	for b.Loop() {
		if _, err := domain.EncodeSnapshot(snap); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMiddlewareChain measures the service middleware without a handler body.
func BenchmarkMiddlewareChain(b *testing.B) {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.Logging(),
	)

	engine.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	serve(b, engine, http.MethodGet, "/test")
}
