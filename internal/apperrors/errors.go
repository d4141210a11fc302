// Package apperrors defines the error values shared between the service and
// handler layers, and their mapping to HTTP status codes. Services return
// these values (possibly wrapped); handlers classify them with errors.Is at
// the response boundary instead of matching on message text.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates that the referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailExists indicates a registration or update with an email
	// that is already taken.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so a login failure never reveals whether the account
	// exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken indicates a missing, malformed, or expired bearer
	// token.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidData indicates request data that failed validation.
	ErrInvalidData = errors.New("invalid user data")

	// ErrForbidden indicates an authenticated caller without the required
	// admin flag.
	ErrForbidden = errors.New("admin access required")
)

// Status maps an error to its HTTP status code. Unclassified errors are
// treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailExists), errors.Is(err, ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
