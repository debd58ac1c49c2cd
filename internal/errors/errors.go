package errors

import (
	"errors"
	"fmt"
)

// Common error types shared by the client, storage and mock backend
var (
	// Credential errors
	ErrNoCredential      = errors.New("no credential stored")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrCredentialCorrupt = errors.New("credential store corrupt")

	// OTP errors
	ErrOTPNotFound        = errors.New("OTP not found. Please request a new one.")
	ErrOTPExpired         = errors.New("OTP expired. Please request a new one.")
	ErrOTPTooManyAttempts = errors.New("Too many failed attempts. Please request a new OTP.")
	ErrInvalidOTP         = errors.New("Invalid OTP")

	// User errors
	ErrUserExists   = errors.New("User already exists")
	ErrUserNotFound = errors.New("User not found")

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

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
