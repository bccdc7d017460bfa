// Package usecase implements the business logic for the user feature.
package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserNotFound is returned by repositories when no user matches.
	// NotFoundError wraps it so callers can match with errors.Is.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the email already belongs to a user.
	// Repositories also return it when a unique constraint rejects a write.
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrInvalidArgument is returned for a missing or non-positive user ID.
	ErrInvalidArgument = errors.New("user ID must be a positive number")

	// ErrStorageInconsistency signals that the repository broke its own contract,
	// e.g. a row that existed a moment ago could not be deleted.
	ErrStorageInconsistency = errors.New("storage inconsistency")
)

// ValidationError carries every rule violation found by UserValidator.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NotFoundError reports that no user exists with the given ID.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user not found with ID: %d", e.ID)
}

// Is makes errors.Is(err, ErrUserNotFound) hold for a NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrUserNotFound
}
