package ports

import "net/http"

// AuthGate decides whether a request carries an admin session.
type AuthGate interface {
	IsAuthenticated(r *http.Request) bool

	// Logout ends the session carried by the response's client.
	Logout(w http.ResponseWriter)
}

// PasswordLogin is implemented by gates that accept credentials directly.
type PasswordLogin interface {
	// Login writes the session to w. Returns domain.ErrUnauthenticated on bad credentials.
	Login(w http.ResponseWriter, username, password string) error
}
