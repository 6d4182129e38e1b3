package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is the typed failure every planner operation returns. Code and Status
// travel to the client, Err stays server side.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code, so a clone of ErrNotFound still satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of the sentinel e carrying cause and message.
func (e *Error) Wrap(cause error, message string) *Error {
	out := Clone(e, message)
	out.Err = cause
	return out
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrPersistence  = New("PERSISTENCE_ERROR", http.StatusServiceUnavailable, "snapshot store unavailable")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// NotFound reports a missing record, e.g. "lesson l-42 not found".
func NotFound(kind, id string) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("%s %s not found", kind, id))
}

// Invalid wraps cause as a validation error. Struct tag failures reported by
// validator are listed per field so clients can point at the offending input.
func Invalid(cause error, message string) *Error {
	out := ErrValidation.Wrap(cause, message)
	var fieldErrs validator.ValidationErrors
	if errors.As(cause, &fieldErrs) {
		out.Fields = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			out.Fields[lowerFirst(fe.Field())] = fe.Tag()
		}
	}
	return out
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
