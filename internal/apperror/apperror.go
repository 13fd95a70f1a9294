package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the backend layer can produce.
// Callers branch on these with errors.Is rather than inspecting messages.
var (
	ErrNetwork      = errors.New("network failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrMalformed    = errors.New("malformed response")
	ErrValidation   = errors.New("validation error")
)

// AppError carries a failure kind (Err), a human-readable message, and the
// HTTP status that produced it (0 when the request never reached the server).
type AppError struct {
	Err     error  // sentinel kind, matched via errors.Is
	Message string // human-readable error message
	Status  int    // HTTP status code, when one was received
	Field   string // optional: form field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Network wraps a transport-level failure (connection refused, timeout, DNS).
// No HTTP status exists for these — the request never completed.
func Network(err error) *AppError {
	return &AppError{
		Err:     ErrNetwork,
		Message: fmt.Sprintf("could not reach the server: %v", err),
	}
}

// Unauthorized marks a 401 response. Handlers treat this kind specially:
// the session is torn down no matter which operation was in flight.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "session is no longer valid",
		Status:  401,
	}
}

// Server wraps a non-2xx response other than 401. The message is the
// server-provided one when parseable, otherwise the HTTP status text.
func Server(status int, message string) *AppError {
	return &AppError{
		Err:     ErrServer,
		Message: message,
		Status:  status,
	}
}

// Malformed marks a 2xx response whose body did not match the expected shape.
func Malformed(detail string) *AppError {
	return &AppError{
		Err:     ErrMalformed,
		Message: fmt.Sprintf("unexpected response shape: %s", detail),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
