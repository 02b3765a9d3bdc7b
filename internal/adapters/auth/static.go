package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/askadit/content-service/internal/domain"
)

const staticIssuer = "askadit"

// StaticConfig configures a StaticGate.
type StaticConfig struct {
	Username string

	// PasswordHash is a bcrypt hash. When empty, Password is hashed at startup.
	Password     string
	PasswordHash string

	CookieName string
	Secret     string
	TTL        time.Duration

	// Secure marks the cookie HTTPS-only.
	Secure bool

	Logger *slog.Logger
	Now    func() time.Time
}

// StaticGate authenticates one credential pair and issues a signed session
// cookie holding an HS256 token.
type StaticGate struct {
	username   string
	hash       []byte
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
	verifier   verifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewStaticGate creates a gate. The plain password, when used, never leaves
// this function.
func NewStaticGate(cfg StaticConfig) (*StaticGate, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("static auth: username is required")
	}

	if len(cfg.Secret) < 16 {
		return nil, fmt.Errorf("static auth: cookie secret must be at least 16 bytes")
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, fmt.Errorf("static auth: a password or password hash is required")
		}

		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("static auth: hashing password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("static auth: invalid password hash: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StaticGate{
		username:   cfg.Username,
		hash:       hash,
		cookieName: cfg.CookieName,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		verifier:   verifier{secret: []byte(cfg.Secret), issuer: staticIssuer, now: now},
		logger:     logger.With(slog.String("component", "auth.static")),
		now:        now,
	}, nil
}

// Login checks the credentials and writes the session cookie.
func (g *StaticGate) Login(w http.ResponseWriter, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.hash, []byte(password))

	if !userOK || passErr != nil {
		g.logger.Warn("rejected admin login", slog.String("username", username))
		return domain.ErrUnauthenticated
	}

	now := g.now()
	expires := now.Add(g.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   g.username,
		Issuer:    staticIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString(g.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})

	g.logger.Info("admin logged in", slog.String("username", username))

	return nil
}

// Session returns the session carried by r's cookie.
func (g *StaticGate) Session(r *http.Request) (*Session, bool) {
	s, err := g.verifier.parse(cookieValue(r, g.cookieName))
	if err != nil {
		return nil, false
	}

	return s, true
}

// IsAuthenticated reports whether r carries a valid, unexpired session cookie.
func (g *StaticGate) IsAuthenticated(r *http.Request) bool {
	_, ok := g.Session(r)
	return ok
}

// Logout expires the session cookie.
func (g *StaticGate) Logout(w http.ResponseWriter) {
	clearCookie(w, g.cookieName, g.secure)
}
