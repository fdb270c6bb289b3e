// Package apperrors defines the error kinds services report to handlers.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUploadFailed
	KindPersistence
	KindAuthorization
	KindNotFound
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUploadFailed:
		return "upload_failed"
	case KindPersistence:
		return "persistence"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Error is a classified error. Message is safe to show to the caller, Err is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a missing or malformed input
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// UploadFailed reports an object storage write that exhausted its retries
func UploadFailed(err error) error {
	return &Error{Kind: KindUploadFailed, Message: fmt.Sprintf("Failed to upload file: %v", err), Err: err}
}

// Persistence reports a failed database write. message is what the caller sees.
func Persistence(message string, err error) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// Authorization reports a caller lacking ownership or role
func Authorization(message string) error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound reports a missing or hidden entity
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a uniqueness clash
func Conflict(message string, err error) error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// Unauthenticated reports bad credentials or an unusable token
func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message returns the caller-safe message of err, or fallback when err is not classified
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
