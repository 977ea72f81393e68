package errors

import (
	"errors"
	"fmt"
)

// Common error types for the banking agent
var (
	// Authentication errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOTP         = errors.New("invalid otp code")
	ErrSubjectBlocked     = errors.New("subject is blocked")
	ErrAuthRequired       = errors.New("authentication required")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Input errors
	ErrInputRejected = errors.New("input rejected")
	ErrRateLimited   = errors.New("rate limit exceeded")

	// Bank data errors
	ErrAccountNotFound = errors.New("account not found")
	ErrCardNotFound    = errors.New("card not found")

	// Model errors
	ErrEmptyCompletion = errors.New("model returned no completion")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
