// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package idoit

import "fmt"

// JSON-RPC 2.0 error codes as reported by the CMDB endpoint
const (
	// CodeParseError indicates the server could not parse the request JSON
	CodeParseError = -32700

	// CodeInvalidRequest indicates a malformed JSON-RPC request envelope
	CodeInvalidRequest = -32600

	// CodeMethodNotFound indicates an unknown JSON-RPC method name
	CodeMethodNotFound = -32601

	// CodeInvalidParams indicates invalid method parameters
	CodeInvalidParams = -32602

	// CodeInternalError indicates an internal JSON-RPC server error
	CodeInternalError = -32603
)

// ErrorModel represents a single error reported for a request
//
// It carries the JSON-RPC error triple when the server answered with an
// error envelope, or a local message when the request never produced one.
type ErrorModel struct {
	// Code is the JSON-RPC error code (zero for local errors)
	Code int

	// Message is the error message
	Message string

	// Data contains additional error information provided by the server
	Data string
}

// TransportError represents a network or HTTP layer failure
//
// The request never produced a usable JSON-RPC response: connection refused,
// timeout, interrupted body, or a non-2xx HTTP status. The underlying cause
// is available via Unwrap, so errors.Is(err, context.DeadlineExceeded) and
// friends work as expected.
type TransportError struct {
	// Operation name that failed
	Operation string

	// Err is the underlying transport failure, if any
	Err error

	// StatusCode is the HTTP status code for non-2xx responses (zero otherwise)
	StatusCode int
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("idoit: %s failed: unexpected HTTP status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("idoit: %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport failure
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError represents a malformed JSON-RPC response envelope
//
// The server answered, but the body was not a JSON-RPC 2.0 response: not
// JSON at all, neither result nor error present, or a result delivered
// under a different request id.
type ProtocolError struct {
	// Operation name that failed
	Operation string

	// Reason describes what was wrong with the envelope
	Reason string
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("idoit: %s failed: invalid JSON-RPC response: %s", e.Operation, e.Reason)
}

// RemoteError represents an error envelope reported by the CMDB server
//
// The request reached the server and was answered with a JSON-RPC error
// object. Code and Message carry the server-reported values unmodified.
//
// Example:
//
//	res, err := client.ReadObject(ctx, 42)
//	var remoteErr *idoit.RemoteError
//	if errors.As(err, &remoteErr) {
//	    fmt.Printf("server rejected request: %d %s\n", remoteErr.Code, remoteErr.Message)
//	}
type RemoteError struct {
	// Operation name that failed
	Operation string

	// Code is the JSON-RPC error code
	Code int

	// Message is the server-reported error message
	Message string

	// Data contains additional error information, if provided
	Data string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("idoit: %s failed: server error %d: %s", e.Operation, e.Code, e.Message)
}

// AuthenticationError represents a missing or rejected session
//
// Raised before any network call when a session-scoped method is invoked
// without a session, and when idoit.login itself is rejected. Callers can
// react by calling Login and repeating the request.
type AuthenticationError struct {
	// Operation name that failed
	Operation string

	// Reason describes the authentication failure
	Reason string

	// Err is the underlying cause when login failed on the wire, if any
	Err error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("idoit: %s failed: %s: %v", e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("idoit: %s failed: %s", e.Operation, e.Reason)
}

// Unwrap returns the underlying cause of a rejected login
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
