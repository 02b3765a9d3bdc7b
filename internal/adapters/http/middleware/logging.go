package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/platform/logging"
)

// Logging writes one line per finished request through the context logger,
// plus a debug line when it starts. Probes under /-/ and skipPaths are
// silent. Server errors log at error level, client errors at warn.
func Logging(skipPaths ...string) gin.HandlerFunc {
	silent := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		silent[p] = true
	}

	return func(c *gin.Context) {
		u := c.Request.URL
		if silent[u.Path] || strings.HasPrefix(u.Path, "/-/") {
			c.Next()
			return
		}

		began := time.Now()
		ctx := c.Request.Context()
		log := logging.FromContext(ctx).With(
			slog.String("method", c.Request.Method),
			slog.String("path", u.RequestURI()),
		)

		log.Debug("request started", slog.String("client_ip", c.ClientIP()))

		c.Next()

		status := c.Writer.Status()
		log.Log(ctx, levelFor(status), "request completed",
			slog.Int("status", status),
			slog.Duration("latency", time.Since(began)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
