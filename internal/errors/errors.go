// Package errors defines the domain error taxonomy and its HTTP mapping.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a DomainError for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed input, missing field
	KindAuth                       // missing or invalid tenant
	KindDependency                 // store unavailable, aggregation failure
	KindStream                     // session delivery failure
	KindSync                       // client delta on nil baseline
)

// DomainError carries a stable code, a human message and an optional cause.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is lets sentinel DomainErrors match wrapped copies carrying a cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of e wrapping err.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// HTTPStatus maps an error to the status the query surface should return.
// Unrecognized errors are treated as internal failures.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return 500
	}
	switch de.Kind {
	case KindValidation:
		return 400
	case KindAuth:
		return 401
	case KindDependency:
		return 502
	default:
		return 500
	}
}
