package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already taken")
	ErrEmailExists    = errors.New("email already registered")

	// Challenge errors
	ErrChallengeNotFound = errors.New("challenge not found")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")
)
