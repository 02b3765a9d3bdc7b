// Package clients provides the instrumented HTTP client used for outbound
// calls to remote services.
package clients

import "errors"

// Transport-level failures. Adapters translate them to domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the remote is considered unhealthy.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps transport errors such as timeouts and refused connections.
	ErrRequestFailed = errors.New("request failed")
)
