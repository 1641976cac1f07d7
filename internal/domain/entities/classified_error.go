package entities

import (
	"errors"
	"fmt"
)

// ErrorKind is the fixed classification of a failure in this layer.
type ErrorKind string

const (
	ErrorKindAuthentication    ErrorKind = "authentication"
	ErrorKindNotFound          ErrorKind = "not-found"
	ErrorKindNetwork           ErrorKind = "network"
	ErrorKindLockContention    ErrorKind = "lock-contention"
	ErrorKindShallowCorruption ErrorKind = "shallow-corruption"
	ErrorKindToolMissing       ErrorKind = "tool-missing"
	ErrorKindReadOnly          ErrorKind = "read-only"
	ErrorKindValidation        ErrorKind = "validation"
	ErrorKindUnknown           ErrorKind = "unknown"
)

// ClassifiedError carries a failure kind plus two messages with different
// audiences: Detail holds raw tool output and is for logs only, UserMessage
// is safe to display. Once constructed it is propagated unchanged; callers
// must not downgrade it to a generic error.
type ClassifiedError struct {
	Kind        ErrorKind
	Detail      string
	UserMessage string
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewClassifiedError builds an error of the given kind.
func NewClassifiedError(kind ErrorKind, detail, userMessage string) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Detail: detail, UserMessage: userMessage}
}

// NewReadOnlyError is returned by every write-style operation; the layer
// never mutates the remote repository.
func NewReadOnlyError(operation string) *ClassifiedError {
	return &ClassifiedError{
		Kind:        ErrorKindReadOnly,
		Detail:      fmt.Sprintf("operation %q rejected: repository access is read-only", operation),
		UserMessage: "This repository is read-only.",
	}
}

// NewValidationError reports a caller mistake, distinct from not-found.
func NewValidationError(detail string) *ClassifiedError {
	return &ClassifiedError{
		Kind:        ErrorKindValidation,
		Detail:      detail,
		UserMessage: "The request is invalid.",
	}
}

// AsClassified unwraps err into a *ClassifiedError, wrapping unclassified
// errors as ErrorKindUnknown so the caller always sees the taxonomy.
func AsClassified(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}
	return &ClassifiedError{
		Kind:        ErrorKindUnknown,
		Detail:      err.Error(),
		UserMessage: "An unexpected error occurred while reading the repository.",
	}
}

// KindOf returns the classification of err, or ErrorKindUnknown for plain
// errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsClassified(err).Kind
}
