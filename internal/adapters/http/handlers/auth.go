package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askadit/content-service/internal/adapters/auth"
	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/ports"
)

type sessionReader interface {
	Session(r *http.Request) (*auth.Session, bool)
}

// AuthHandler serves login, logout and session introspection.
type AuthHandler struct {
	gate ports.AuthGate
	mode string
}

// NewAuthHandler creates an auth handler for gate. mode is reported by the
// session endpoint.
func NewAuthHandler(gate ports.AuthGate, mode string) *AuthHandler {
	return &AuthHandler{gate: gate, mode: mode}
}

// Login handles POST /api/v1/auth/login. Gates whose sessions are issued
// elsewhere answer 403.
func (h *AuthHandler) Login(c *gin.Context) {
	login, ok := h.gate.(ports.PasswordLogin)
	if !ok {
		dto.HandleError(c, domain.NewForbiddenError("login", "sessions are issued by the identity provider"))
		return
	}

	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if err := login.Login(c.Writer, req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			logging.FromContext(c.Request.Context()).Info("login rejected",
				slog.String("username", req.Username),
				slog.String("client_ip", c.ClientIP()),
			)
		}

		dto.HandleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// Logout handles POST /api/v1/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.gate.Logout(c.Writer)
	c.Status(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	resp := dto.SessionResponse{Mode: h.mode}

	if sr, ok := h.gate.(sessionReader); ok {
		if s, ok := sr.Session(c.Request); ok {
			resp.Authenticated = true
			resp.Subject = s.Subject

			expires := s.ExpiresAt.UTC()
			resp.ExpiresAt = &expires
		}
	} else {
		resp.Authenticated = h.gate.IsAuthenticated(c.Request)
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterAuthRoutes registers the auth routes on rg. Middleware in
// loginLimit runs in front of the login handler only.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, loginLimit ...gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", append(loginLimit, h.Login)...)
	a.POST("/logout", h.Logout)
	a.GET("/session", h.Session)
}
