package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that the username is claimed by another user
	ErrUsernameTaken = errors.New("username already registered")

	// ErrEmailTaken indicates that the email is claimed by another user
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates an authentication failure.
	// It deliberately does not distinguish unknown identifier from wrong password.
	ErrInvalidCredentials = errors.New("incorrect username, email or password")
)
