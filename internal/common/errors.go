package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by services. Handlers map them onto HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// DomainError carries a client-safe message together with its kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error for the named resource.
func NotFound(resource string) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Conflictf builds a conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &DomainError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// StatusFor maps an error onto an HTTP status and a client-safe message.
// Errors that are not domain errors become a generic 500.
func StatusFor(err error) (int, string) {
	var de *DomainError
	if errors.As(err, &de) {
		switch {
		case errors.Is(de.Kind, ErrValidation):
			return http.StatusBadRequest, de.Message
		case errors.Is(de.Kind, ErrNotFound):
			return http.StatusNotFound, de.Message
		case errors.Is(de.Kind, ErrConflict):
			return http.StatusConflict, de.Message
		case errors.Is(de.Kind, ErrForbidden):
			return http.StatusForbidden, de.Message
		}
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// SecureErrorMessage creates standardized error messages to prevent information leakage.
// The original error stays in the chain for logging.
func SecureErrorMessage(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
