// Package dto provides the request and response shapes of the HTTP API.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/logging"
)

// ErrorResponse is the error envelope of every failed request.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code such as NOT_FOUND.
	Code string `json:"code"`

	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeConflict      = "CONFLICT"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeForbidden     = "FORBIDDEN"
	ErrorCodeUnauthorized  = "UNAUTHORIZED"
	ErrorCodeUnavailable   = "SERVICE_UNAVAILABLE"
	ErrorCodeNotConfigured = "NOT_CONFIGURED"
	ErrorCodeRateLimited   = "RATE_LIMITED"
	ErrorCodeInternal      = "INTERNAL_ERROR"
	ErrorCodeTimeout       = "TIMEOUT"
	ErrorCodeBadRequest    = "BAD_REQUEST"

	// ErrorCodeRemoteUnauthorized reports a sync token rejected by the remote
	// document store, as opposed to a missing admin session.
	ErrorCodeRemoteUnauthorized = "REMOTE_UNAUTHORIZED"
)

// NewErrorResponse creates an error envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace id when one is known.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	if traceID != "" {
		e.TraceID = traceID
	}

	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeRemoteUnauthorized:
		return http.StatusBadGateway
	case ErrorCodeNotConfigured:
		return http.StatusPreconditionFailed
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps an error to a status and envelope. Errors outside the
// domain taxonomy become a generic 500 so store internals are not leaked.
func MapDomainError(err error) (int, *ErrorResponse) {
	var code string

	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = ErrorCodeNotFound
	case errors.Is(err, domain.ErrConflict):
		code = ErrorCodeConflict
	case errors.Is(err, domain.ErrValidation):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrUnauthenticated):
		code = ErrorCodeUnauthorized
	case errors.Is(err, domain.ErrRemoteUnauthorized):
		code = ErrorCodeRemoteUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = ErrorCodeForbidden
	case errors.Is(err, domain.ErrNotConfigured):
		code = ErrorCodeNotConfigured
	case errors.Is(err, domain.ErrUnavailable):
		code = ErrorCodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = ErrorCodeTimeout
	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(code), NewErrorResponse(code, err.Error())
}

// HandleError writes the envelope for err. Internal errors are logged with
// their full text; the client sees a generic message.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	logger := logging.FromContext(c.Request.Context())

	switch {
	case status == http.StatusServiceUnavailable:
		logger.Warn("dependency unavailable", slog.Any("error", err))
	case resp.Error.Code == ErrorCodeRemoteUnauthorized:
		logger.Warn("remote rejected sync token", slog.Any("error", err))
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", slog.Any("error", err), slog.String("trace_id", resp.TraceID))
	default:
		logger.Debug("request rejected", slog.Any("error", err), slog.Int("status", status))
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithErrorCode writes an envelope with an explicit code.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 with field-level messages.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors).WithTraceID(GetTraceID(c)))
}

// HandleBindError answers a BindAndValidate failure: field messages for
// validation failures, BAD_REQUEST for malformed bodies.
func HandleBindError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, ValidationErrors(err))
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request body")
}

// GetTraceID returns the id of the request's OpenTelemetry trace, or "".
func GetTraceID(c *gin.Context) string {
	sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}
