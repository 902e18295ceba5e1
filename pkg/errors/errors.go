// Package errors defines the typed error surface of the Boosty API client.
//
// Two taxonomies live here: AuthError covers failures of the token-refresh
// flow itself, while the remaining types classify the outcome of a regular
// API call. Every error that wraps an underlying cause implements Unwrap so
// callers can use errors.Is and errors.As.
package errors

import (
	"fmt"
	"strings"
)

// AuthErrorKind classifies why a token refresh failed.
type AuthErrorKind int

const (
	// AuthInvalidCredentials means the refresh endpoint rejected the
	// refresh token / device id pair.
	AuthInvalidCredentials AuthErrorKind = iota
	// AuthNetwork means the refresh request never completed.
	AuthNetwork
	// AuthDecode means the refresh response body could not be parsed.
	AuthDecode
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthNetwork:
		return "network failure"
	case AuthDecode:
		return "malformed response"
	default:
		return fmt.Sprintf("unknown kind %d", int(k))
	}
}

// AuthError indicates a failure of the token-refresh flow.
type AuthError struct {
	// Kind classifies the failure.
	Kind AuthErrorKind
	// StatusCode is the HTTP status of the refresh response, if one was received.
	StatusCode int
	// Body contains the raw refresh response body, which may hold more details.
	Body string
	// Err is the underlying error, e.g. a transport or JSON parsing error.
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error: ")
	sb.WriteString(e.Kind.String())

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ", status code %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// UnauthorizedError indicates the server signalled token expiry while the
// client holds no refreshable credential, so no retry was possible.
type UnauthorizedError struct {
	// Endpoint is the API path that was being accessed.
	Endpoint string
}

func (e *UnauthorizedError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("unauthorized: invalid or missing token for %s", e.Endpoint)
	}
	return "unauthorized: invalid or missing token"
}

// AuthFailedError indicates a token refresh was attempted in response to an
// auth-expiry signal and the refresh itself failed. The original request is
// not retried in this case.
type AuthFailedError struct {
	// Err is the refresh failure.
	Err *AuthError
}

func (e *AuthFailedError) Error() string {
	return "token refresh failed: " + e.Err.Error()
}

func (e *AuthFailedError) Unwrap() error { return e.Err }

// RequestError indicates the API rejected the request with a non-auth 4xx
// status. These represent caller errors and are never retried.
type RequestError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Endpoint is the API path that was being accessed.
	Endpoint string
	// Body contains the raw response body, if available.
	Body string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request rejected with status %d for %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("request rejected with status %d for %s", e.StatusCode, e.Endpoint)
}

// ServerError indicates a 5xx response from the API.
type ServerError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Endpoint is the API path that was being accessed.
	Endpoint string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server unavailable, status %d for %s", e.StatusCode, e.Endpoint)
}

// NetworkError indicates the HTTP request never completed.
type NetworkError struct {
	// Op names the operation that was in flight.
	Op string
	// Err is the underlying transport error.
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError indicates a success-path response body could not be decoded.
type DecodeError struct {
	// Endpoint is the API path whose response failed to decode.
	Endpoint string
	// Err is the underlying decoding error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("decode error for %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error.
	Field string
	// Message contains the detailed error message.
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// StateError indicates an operation was attempted in a credential state that
// does not support it, e.g. installing a refreshed token while a static
// bearer token is active.
type StateError struct {
	// Operation is the name of the operation that was attempted.
	Operation string
	// Message contains the detailed error message.
	Message string
}

func (e *StateError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("state error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("state error: %s", e.Message)
}
