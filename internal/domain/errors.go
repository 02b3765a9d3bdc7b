// Package domain contains the content model and its errors.
// Domain errors describe content and sync failures, not transport failures;
// adapters translate them to HTTP statuses or CLI exit messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels, matched with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnavailable covers stores and remotes that could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrRemoteUnauthorized means the remote document store rejected the sync
	// token. It is distinct from ErrUnauthenticated, which concerns the caller.
	ErrRemoteUnauthorized = errors.New("remote rejected credentials")

	// ErrNotConfigured means remote sync lacks a document reference or token.
	ErrNotConfigured = errors.New("not configured")
)

// NotFoundError names the missing entity. ID is empty for singletons such
// as the snapshot file.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that entity id does not exist.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries the offending field, if one can be named.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError rejects input before it reaches a store.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports an id that is already taken.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s %q already exists", e.Entity, e.ID) }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError reports that entity id already exists.
func NewConflictError(entity, id string) error {
	return &ConflictError{Entity: entity, ID: id}
}

// ForbiddenError refuses an operation, optionally saying why.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	return withReason(fmt.Sprintf("operation %q forbidden", e.Operation), e.Reason)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError reports a store or remote that failed to respond.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string { return withReason(e.Service+" unavailable", e.Reason) }
func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ConfigurationError reports an operation that needs settings which are absent.
type ConfigurationError struct {
	Operation string
	Missing   string
}

func (e *ConfigurationError) Error() string { return e.Operation + " requires " + e.Missing }
func (e *ConfigurationError) Unwrap() error { return ErrNotConfigured }

func NewConfigurationError(operation, missing string) error {
	return &ConfigurationError{Operation: operation, Missing: missing}
}

func withReason(msg, reason string) string {
	if reason == "" {
		return msg
	}

	return msg + ": " + reason
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool      { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsNotConfigured(err error) bool { return errors.Is(err, ErrNotConfigured) }
