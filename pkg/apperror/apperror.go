package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel bases for the error taxonomy. Callers branch with errors.Is on
// these tags, never on message text.
var (
	ErrConfig       = errors.New("configuration error")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrMalformedID  = errors.New("malformed identifier")
	ErrInternal     = errors.New("internal server error")
)

// AppError carries a taxonomy tag, a stable client-facing message, optional
// per-field details for validation failures, and the underlying cause which
// is logged server-side but never returned to the caller.
type AppError struct {
	Base    error
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Base.Error(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Base
}

func New(base error, msg string, err error) *AppError {
	return &AppError{Base: base, Message: msg, Err: err}
}

func NewConfig(msg string) *AppError {
	return &AppError{Base: ErrConfig, Message: msg}
}

func NewUnavailable(msg string, err error) *AppError {
	return &AppError{Base: ErrUnavailable, Message: msg, Err: err}
}

func NewInvalidInput(msg string, details ...string) *AppError {
	return &AppError{Base: ErrInvalidInput, Message: msg, Details: details}
}

func NewNotFound(resource string) *AppError {
	return &AppError{Base: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewMalformedID(resource string) *AppError {
	return &AppError{Base: ErrMalformedID, Message: fmt.Sprintf("Invalid %s ID format", resource)}
}

func NewInternal(msg string, err error) *AppError {
	return &AppError{Base: ErrInternal, Message: msg, Err: err}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrConfig), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMalformedID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Details returns the per-field detail messages when err is a validation
// AppError, nil otherwise.
func Details(err error) []string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Details
	}
	return nil
}

// Message returns the stable client-facing message carried by err, or the
// empty string when err is not an AppError.
func Message(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}
