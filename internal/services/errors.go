package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can pick a response without
// inspecting messages.
type ErrorKind string

const (
	KindInputValidation     ErrorKind = "INPUT_VALIDATION"
	KindDecode              ErrorKind = "DECODE"
	KindProcessingDegraded  ErrorKind = "PROCESSING_DEGRADED"
	KindNoMatch             ErrorKind = "NO_MATCH"
	KindPersistenceConflict ErrorKind = "PERSISTENCE_CONFLICT"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindUnexpected          ErrorKind = "UNEXPECTED"
)

// WardrobeError is returned by every service operation that fails.
type WardrobeError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *WardrobeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WardrobeError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, message string, err error) *WardrobeError {
	return &WardrobeError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of a WardrobeError anywhere in err's chain, or
// KindUnexpected.
func KindOf(err error) ErrorKind {
	var we *WardrobeError
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindUnexpected
}
