package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// RedisTimeoutMessage describes a Redis command cut off by its context.
	RedisTimeoutMessage = "redis operation timed out"
	// StructuralMessage describes an inbound payload missing required fields.
	StructuralMessage = "malformed webhook payload"
	// UpstreamMessage describes a failed call to the LLM or messaging provider.
	UpstreamMessage = "upstream provider unavailable"
	// UnknownFunctionMessage describes a model request for an unregistered action.
	UnknownFunctionMessage = "unknown function"
	// ArgumentDecodeMessage describes function-call arguments that could not be used.
	ArgumentDecodeMessage = "invalid function arguments"
	// StorageMessage describes a failed session store access.
	StorageMessage = "session storage failed"
)

// Kind classifies an AppError so callers can pick an outcome without string matching.
type Kind string

const (
	KindUnknown             Kind = ""
	KindStructural          Kind = "structural"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUnknownFunction     Kind = "unknown_function"
	KindArgumentDecode      Kind = "argument_decode"
	KindStorage             Kind = "storage"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Structural reports a webhook payload that lacks a required nested field.
func Structural(format string, args ...any) *AppError {
	return &AppError{
		Err:     fmt.Errorf(format, args...),
		Status:  http.StatusBadRequest,
		Message: StructuralMessage,
		Kind:    KindStructural,
	}
}

// Upstream wraps a network or provider failure.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: UpstreamMessage,
		Kind:    KindUpstreamUnavailable,
	}
}

// UnknownFunction reports a function name that is not part of the active registry.
func UnknownFunction(name string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%q is not registered", name),
		Status:  http.StatusUnprocessableEntity,
		Message: UnknownFunctionMessage,
		Kind:    KindUnknownFunction,
	}
}

// ArgumentDecode wraps a failure to decode or accept function-call arguments.
func ArgumentDecode(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusUnprocessableEntity,
		Message: ArgumentDecodeMessage,
		Kind:    KindArgumentDecode,
	}
}

// Storage wraps a session file failure.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusInternalServerError,
		Message: StorageMessage,
		Kind:    KindStorage,
	}
}

// KindOf returns the Kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
