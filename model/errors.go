package model

import (
	"fmt"
	"strings"
)

// Failure codes surfaced by the engine. Catalog parse errors are recovered
// internally (the offending definition is skipped) and never carry a code.
const (
	ErrNotFound          = "NOT_FOUND"
	ErrUnknownService    = "UNKNOWN_SERVICE"
	ErrMissingParameter  = "MISSING_PARAMETER"
	ErrInvalidType       = "INVALID_TYPE"
	ErrNetwork           = "NETWORK_ERROR"
	ErrTimeout           = "TIMEOUT"
	ErrProtocolFault     = "PROTOCOL_FAULT"
	ErrMalformedResponse = "MALFORMED_RESPONSE"
)

// CallError is the uniform failure result of an execution attempt.
// It implements the error interface.
type CallError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Numeric carries the UPnP error code when the remote returned one, or
	// the HTTP status otherwise. Zero when neither applies.
	Numeric int `json:"numeric_code,omitempty"`

	// FaultCode is the SOAP faultcode from a structured fault, if any.
	FaultCode string `json:"fault_code,omitempty"`
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Numeric != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Code, e.Message, e.Numeric)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFoundError reports an unresolved operation name. The known sample is
// included to aid the caller; pass a bounded slice.
func NewNotFoundError(name string, known []string) *CallError {
	msg := fmt.Sprintf("operation %q not found", name)
	if len(known) > 0 {
		msg += "; known operations include: " + strings.Join(known, ", ")
	}
	return &CallError{Code: ErrNotFound, Message: msg}
}

// NewUnknownServiceError reports a service absent from the registry.
func NewUnknownServiceError(service, operation string) *CallError {
	return &CallError{
		Code:    ErrUnknownService,
		Message: fmt.Sprintf("unknown service %q for operation %q", service, operation),
	}
}

// NewMissingParameterError reports an unfilled required field.
func NewMissingParameterError(field string) *CallError {
	return &CallError{
		Code:    ErrMissingParameter,
		Message: fmt.Sprintf("required parameter %q not provided", field),
	}
}

// NewInvalidTypeError reports a value that failed type coercion.
func NewInvalidTypeError(field string, value any) *CallError {
	return &CallError{
		Code:    ErrInvalidType,
		Message: fmt.Sprintf("parameter %q: cannot convert %v to the declared type", field, value),
	}
}

// NewNetworkError reports an unreachable target or refused connection.
func NewNetworkError(err error) *CallError {
	return &CallError{Code: ErrNetwork, Message: fmt.Sprintf("network error: %v", err)}
}

// NewTimeoutError reports an elapsed request deadline.
func NewTimeoutError(host string) *CallError {
	return &CallError{Code: ErrTimeout, Message: fmt.Sprintf("request to %s timed out", host)}
}

// NewProtocolFaultError reports a structured fault returned by the remote.
func NewProtocolFaultError(message string, code int, faultCode string) *CallError {
	return &CallError{
		Code:      ErrProtocolFault,
		Message:   message,
		Numeric:   code,
		FaultCode: faultCode,
	}
}

// NewMalformedResponseError reports a body that could not be parsed as markup.
// The excerpt is truncated by the caller.
func NewMalformedResponseError(httpStatus int, excerpt string) *CallError {
	return &CallError{
		Code:    ErrMalformedResponse,
		Message: fmt.Sprintf("HTTP %d: %s", httpStatus, excerpt),
		Numeric: httpStatus,
	}
}
