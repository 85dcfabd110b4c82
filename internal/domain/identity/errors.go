package identity

import "errors"

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("missing or invalid required fields")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on any authentication failure. It is
	// deliberately uniform: callers cannot tell an unknown email from a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when the referenced identity does not exist.
	ErrNotFound = errors.New("user not found")
)
