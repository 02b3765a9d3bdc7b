package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/ports"
)

// ContextKeyAdmin marks a gin context whose request passed RequireAdmin.
const ContextKeyAdmin = "admin"

// RequireAdmin rejects requests without an admin session with 401.
func RequireAdmin(gate ports.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.IsAuthenticated(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "authentication required").WithTraceID(dto.GetTraceID(c)))

			return
		}

		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}

// IsAdmin reports whether RequireAdmin admitted the request.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyAdmin)
}
