package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken is returned before any network call when an authenticated
// operation is attempted without a session token.
var ErrNoToken = errors.New("no authentication token found, please log in")

// AuthError reports a 401 from an authenticated call or a missing token
// detected pre-flight.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return fmt.Sprintf("authentication required: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError reports a 404.
type NotFoundError struct {
	Path    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("not found: %s", e.Message)
	}
	return fmt.Sprintf("not found: %s", e.Path)
}

// ServiceError is any other non-2xx response or a transport failure. Status
// is zero when no response was received.
type ServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("service unavailable: %s", e.Message)
	}
	return fmt.Sprintf("service error (%d): %s", e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// MissingToken builds the pre-flight AuthError.
func MissingToken() *AuthError {
	return &AuthError{Message: ErrNoToken.Error(), Err: ErrNoToken}
}

// IsAuth reports whether err carries an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsService reports whether err carries a ServiceError.
func IsService(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

// StatusCode maps an adapter error to the HTTP status the proxy exposes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAuth(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func classify(status int, path, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Status: status, Message: message}
	case status == http.StatusNotFound:
		return &NotFoundError{Path: path, Message: message}
	default:
		if message == "" {
			message = http.StatusText(status)
		}
		return &ServiceError{Status: status, Message: message}
	}
}

// ServerMessage returns the message the backend put in its error body, or
// "" when err carries none. Transport failures never carry one.
func ServerMessage(err error) string {
	var (
		authErr     *AuthError
		notFoundErr *NotFoundError
		serviceErr  *ServiceError
	)
	switch {
	case errors.As(err, &authErr):
		if errors.Is(authErr.Err, ErrNoToken) {
			return ""
		}
		return authErr.Message
	case errors.As(err, &notFoundErr):
		return notFoundErr.Message
	case errors.As(err, &serviceErr):
		if serviceErr.Status == 0 {
			return ""
		}
		return serviceErr.Message
	}
	return ""
}
