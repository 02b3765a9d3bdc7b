package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/askadit/content-service/internal/adapters/http/handlers"
	"github.com/askadit/content-service/internal/adapters/http/middleware"
	"github.com/askadit/content-service/internal/platform/config"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/platform/telemetry"
	"github.com/askadit/content-service/internal/ports"
)

// RouterConfig holds what SetupRouter wires together.
type RouterConfig struct {
	ServiceName string

	// Timeout bounds every /api/v1 request. Zero disables it.
	Timeout time.Duration

	Gate     ports.AuthGate
	AuthMode string

	// LoginRate limits login attempts per client IP. Nil disables limiting.
	LoginRate *config.RateConfig

	Health  *handlers.HealthHandler
	Content handlers.ContentService
	Sync    handlers.SyncService
}

// SetupRouter installs the middleware chain and every route on engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry span, trace id header and HTTP metrics
//  5. Logging (skips /-/)
//  6. Timeout, on /api/v1 only
//
// Route groups:
//   - /-/: operational endpoints, no auth
//   - /api/v1/: reader and auth routes
//   - /api/v1/admin/: content mutation, sync and snapshot routes behind the auth gate
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)

	if cfg.ServiceName != "" {
		engine.Use(
			telemetry.Tracing(cfg.ServiceName),
			telemetry.Middleware(),
			traceLogging(),
		)
	}

	engine.Use(middleware.Logging())

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutes(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	content := handlers.NewContentHandler(cfg.Content)
	content.RegisterPublicRoutes(api)

	var loginLimit []gin.HandlerFunc
	if cfg.LoginRate != nil {
		limiter := middleware.NewRateLimiter(cfg.LoginRate.Requests, cfg.LoginRate.Window, cfg.LoginRate.Burst)
		loginLimit = append(loginLimit, middleware.RateLimit(limiter))
	}

	handlers.NewAuthHandler(cfg.Gate, cfg.AuthMode).RegisterAuthRoutes(api, loginLimit...)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.Gate))

	content.RegisterAdminRoutes(admin)
	handlers.NewSnapshotHandler(cfg.Content).RegisterSnapshotRoutes(admin)

	if cfg.Sync != nil {
		handlers.NewSyncHandler(cfg.Sync).RegisterSyncRoutes(admin)
	}
}

// traceLogging adds the span's trace id to the context logger.
func traceLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, sc.TraceID().String()))
		}

		c.Next()
	}
}
