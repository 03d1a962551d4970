package hook

import (
	"errors"
	"net/http"
)

// Kind classifies request failures. Each kind maps to one HTTP status.
type Kind int

const (
	// KindAuth covers a missing, undecodable, or mismatched signature.
	KindAuth Kind = iota

	// KindValidation covers malformed payloads, missing required fields,
	// and repositories not configured for deployment.
	KindValidation

	// KindConfig covers server-side misconfiguration such as an
	// unavailable webhook secret.
	KindConfig

	// KindExecution covers failures to spawn the automation tool on the
	// synchronous path.
	KindExecution
)

// Error is the single error type the request pipeline produces. It
// carries the HTTP status and the public message verbatim; Message is
// safe to return to the webhook caller.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func authErr(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func validationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func configErr(msg string, cause error) *Error {
	return &Error{Kind: KindConfig, Message: msg, cause: cause}
}

// ValidationError builds a caller-visible 400 error. Exported for the
// handler's unconfigured-repository response.
func ValidationError(msg string) *Error {
	return validationErr(msg)
}

// AsError unwraps err into *Error, or wraps unknown errors as a generic
// internal failure so the handler never leaks internals.
func AsError(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return &Error{Kind: KindExecution, Message: "internal server error", cause: err}
}
