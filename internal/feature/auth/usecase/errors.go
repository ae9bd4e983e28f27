package usecase

import "task_backend/internal/shared/apperror"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperror.NotFound("User not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperror.Conflict("Email already in use")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike,
	// so callers cannot tell which check failed.
	ErrInvalidCredentials = apperror.Auth("Invalid credentials")
)
