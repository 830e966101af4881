package errors

import (
	"errors"
	"fmt"
)

// Common error types for the API client
var (
	// Session errors
	ErrNoAccessToken   = errors.New("no access token")
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrWrongPassphrase = errors.New("wrong session passphrase")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrMissingRefreshToken = errors.New("refresh response carried no access token")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTimeout        = errors.New("request timed out")
	ErrTransport      = errors.New("transport error")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
