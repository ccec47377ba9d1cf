package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/inbox/internal/model"
)

// NetworkError indicates the request could not be sent or no response
// was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError indicates the server answered with a non-success status.
type ServerError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server error %d on %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf(
		"server error %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Body,
	)
}

// ParseError indicates the response body was not valid JSON or did not
// have the expected shape.
type ParseError struct {
	Method string
	Path   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing response from %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AuthError indicates that authentication has failed or expired.
// It is returned by the client when a 401 response is received and
// wraps the underlying ServerError.
type AuthError struct {
	Message string
	Err     *ServerError
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err (or any error in its chain) is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsServerError reports whether err (or any error in its chain) is a ServerError.
func IsServerError(err error) bool {
	var srvErr *ServerError
	return errors.As(err, &srvErr)
}

// IsParseError reports whether err (or any error in its chain) is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Describe returns a short human-readable cause for display in the UI.
func Describe(err error) string {
	var (
		timeout  interface{ Timeout() bool }
		authErr  *AuthError
		srvErr   *ServerError
		netErr   *NetworkError
		parseErr *ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeout) && timeout.Timeout():
		return "request timed out"
	case errors.As(err, &authErr):
		return "not authorized"
	case errors.As(err, &srvErr):
		return fmt.Sprintf("server error %d", srvErr.StatusCode)
	case errors.As(err, &netErr):
		return "server unreachable"
	case errors.As(err, &parseErr):
		return "invalid server response"
	default:
		return err.Error()
	}
}

// MessageSource is the contract of the messages API client. Every method
// either succeeds or returns a NetworkError, ServerError or ParseError
// (possibly wrapped); callers must not apply local changes on error.
type MessageSource interface {
	// FetchAll retrieves every message in server order.
	FetchAll(ctx context.Context) ([]model.Message, error)

	// Patch applies a batch command. The response body is ignored.
	Patch(ctx context.Context, req model.PatchRequest) error

	// Create sends a new message and returns it as stored by the server.
	Create(ctx context.Context, draft model.Draft) (model.Message, error)
}
