package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/askadit/content-service/internal/adapters/clients"
	"github.com/askadit/content-service/internal/domain"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// remoteError is the error body returned by the GitHub REST API.
type remoteError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

// mapClientError translates transport failures to domain errors.
func mapClientError(err error, service, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatus translates a non-2xx response to a domain error. The body is
// consumed but not closed.
func mapStatus(resp *http.Response, service, operation, entity, id string) error {
	message := http.StatusText(resp.StatusCode)

	var body remoteError
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(entity, id)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %s", operation, domain.ErrRemoteUnauthorized, message)
	case status == http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return domain.NewValidationError("", message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(service, "rate limit exceeded")
	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(service, message)
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed with status %d", operation, status))
	}
}
