// Package apperror defines the error taxonomy shared by the tenant and quota
// packages. Every failure returned to a handler is one of these kinds, or an
// unclassified internal error.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindForbidden     Kind = "forbidden"
	KindConflict      Kind = "conflict"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

// Sentinels for errors.Is checks.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrUnavailable   = errors.New("storage unavailable")
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrQuotaExceeded:
		return e.Kind == KindQuotaExceeded
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	}
	return false
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindUnavailable
}

// QuotaExceededError is returned when a plan limit blocks a creation.
type QuotaExceededError struct {
	GymID    int
	Resource string
	Current  int
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s quota exceeded for gym %d: %d/%d", e.Resource, e.GymID, e.Current, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// Forbidden never carries detail about the target so that a denied request
// does not reveal which gyms exist.
func Forbidden(op string) error {
	return &Error{Kind: KindForbidden, Op: op, Message: "access denied"}
}

func Conflict(op, message string) error {
	return &Error{Kind: KindConflict, Op: op, Message: message}
}

func Unavailable(op string, err error) error {
	return &Error{Kind: KindUnavailable, Op: op, Message: "storage unavailable", Err: err}
}

func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return KindQuotaExceeded
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe.Error()
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		if ae.Message != "" {
			return ae.Message
		}
	}
	return "internal server error"
}
