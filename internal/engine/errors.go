package engine

import (
	"errors"
	"fmt"
)

// QueryError represents an error detected while serving a query.
//
// Client errors (every code except ErrCodeStoreFailure) are detected before
// the store is touched. A request with any invalid part fails as a whole.
type QueryError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Component names the offending part of the request.
	Component Component

	// Index is the position of the offending entry in its list, or -1.
	Index int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes query errors.
type ErrorCode string

const (
	// ErrCodeEmptyFilterList indicates the request has no filters.
	ErrCodeEmptyFilterList ErrorCode = "EMPTY_FILTER_LIST"

	// ErrCodeEmptyTransformerList indicates the request has no result transformers.
	ErrCodeEmptyTransformerList ErrorCode = "EMPTY_TRANSFORMER_LIST"

	// ErrCodeInvalidFilter indicates an unknown filter name or a bad filter field.
	ErrCodeInvalidFilter ErrorCode = "INVALID_FILTER"

	// ErrCodeInvalidTransformer indicates an unknown transformer name.
	ErrCodeInvalidTransformer ErrorCode = "INVALID_TRANSFORMER"

	// ErrCodeMalformedPayload indicates the body is not a request envelope.
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"

	// ErrCodeStoreFailure indicates the record store could not be read.
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
)

// Component is the part of a request an error refers to.
type Component string

const (
	ComponentEnvelope    Component = "envelope"
	ComponentFilter      Component = "filter"
	ComponentTransformer Component = "transformer"
	ComponentStore       Component = "store"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	msg := e.Message
	if e.Err != nil && e.Err.Error() != e.Message {
		msg += ": " + e.Err.Error()
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s %d: %s", e.Code, e.Component, e.Index, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Component, msg)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the QueryError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsClientError returns true if the error was caused by the request rather
// than the store. Uses errors.As to handle wrapped errors.
func IsClientError(err error) bool {
	code := CodeOf(err)
	return code != "" && code != ErrCodeStoreFailure
}

// IsStoreError returns true if the error is a store failure.
func IsStoreError(err error) bool {
	return CodeOf(err) == ErrCodeStoreFailure
}

func newMalformedError(err error) *QueryError {
	return &QueryError{
		Code:      ErrCodeMalformedPayload,
		Component: ComponentEnvelope,
		Index:     -1,
		Message:   err.Error(),
		Err:       err,
	}
}

func newEmptyError(code ErrorCode, component Component, message string) *QueryError {
	return &QueryError{Code: code, Component: component, Index: -1, Message: message}
}

func newFilterError(index int, err error) *QueryError {
	return &QueryError{
		Code:      ErrCodeInvalidFilter,
		Component: ComponentFilter,
		Index:     index,
		Message:   err.Error(),
		Err:       err,
	}
}

func newTransformerError(index int, err error) *QueryError {
	return &QueryError{
		Code:      ErrCodeInvalidTransformer,
		Component: ComponentTransformer,
		Index:     index,
		Message:   err.Error(),
		Err:       err,
	}
}

func newStoreError(err error) *QueryError {
	return &QueryError{
		Code:      ErrCodeStoreFailure,
		Component: ComponentStore,
		Index:     -1,
		Message:   "read salaries",
		Err:       err,
	}
}
