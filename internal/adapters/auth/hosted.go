package auth

import (
	"fmt"
	"net/http"
	"time"
)

// HostedConfig configures a HostedGate.
type HostedConfig struct {
	// Secret is the provider's JWT signing secret.
	Secret   string
	Issuer   string
	Audience string

	// CookieName is the cookie the provider's client stores the access token in.
	CookieName string
	Secure     bool

	Now func() time.Time
}

// HostedGate accepts access tokens issued by a hosted auth provider, sent
// as a bearer token or in the provider's cookie. The session lifetime is
// the token's own.
type HostedGate struct {
	cookieName string
	secure     bool
	verifier   verifier
}

// NewHostedGate creates a gate.
func NewHostedGate(cfg HostedConfig) (*HostedGate, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("hosted auth: jwt secret is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &HostedGate{
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		verifier: verifier{
			secret:   []byte(cfg.Secret),
			issuer:   cfg.Issuer,
			audience: cfg.Audience,
			now:      now,
		},
	}, nil
}

// Session returns the session of the request's token. The bearer header
// wins over the cookie.
func (g *HostedGate) Session(r *http.Request) (*Session, bool) {
	raw := bearerToken(r)
	if raw == "" {
		raw = cookieValue(r, g.cookieName)
	}

	s, err := g.verifier.parse(raw)
	if err != nil {
		return nil, false
	}

	return s, true
}

// IsAuthenticated reports whether r carries a valid provider token.
func (g *HostedGate) IsAuthenticated(r *http.Request) bool {
	_, ok := g.Session(r)
	return ok
}

// Logout clears the provider cookie. Provider-side sessions are not revoked.
func (g *HostedGate) Logout(w http.ResponseWriter) {
	clearCookie(w, g.cookieName, g.secure)
}
