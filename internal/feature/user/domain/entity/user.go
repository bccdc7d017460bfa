// Package entity defines the domain entities for the user feature.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidUserState is returned when a User would be constructed or updated
// with values that break its invariants.
var ErrInvalidUserState = errors.New("invalid user state")

// now is replaced in tests to make timestamps deterministic.
var now = time.Now

// User represents a user managed by the service.
// A User always holds a non-blank name and an email that contains '@' and '.'.
// The check is intentionally looser than the use-case validator.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a transient user (no ID yet) stamped with the current time.
func NewUser(name, email string) (*User, error) {
	if err := validate(name, email); err != nil {
		return nil, err
	}
	ts := now()
	return &User{
		name:      name,
		email:     email,
		createdAt: ts,
		updatedAt: ts,
	}, nil
}

// RestoreUser rehydrates a persisted user. The same invariants apply.
func RestoreUser(id int64, name, email string, createdAt, updatedAt time.Time) (*User, error) {
	if err := validate(name, email); err != nil {
		return nil, err
	}
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the storage-assigned identifier, or 0 for a transient user.
func (u *User) ID() int64 { return u.id }

// Name returns the user's name.
func (u *User) Name() string { return u.name }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the timestamp of the last mutation.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsNew reports whether the user has not been persisted yet.
func (u *User) IsNew() bool { return u.id == 0 }

// Update replaces name and email and refreshes UpdatedAt.
// The new values are checked before any field changes, so a failed update
// leaves the user as it was.
func (u *User) Update(name, email string) error {
	if err := validate(name, email); err != nil {
		return err
	}
	u.name = name
	u.email = email
	u.updatedAt = now()
	return nil
}

// Equal reports whether two users denote the same logical entity (ID and email).
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.id == other.id && u.email == other.email
}

// String implements fmt.Stringer.
func (u *User) String() string {
	return fmt.Sprintf("User{id=%d, name=%q, email=%q, createdAt=%s, updatedAt=%s}",
		u.id, u.name, u.email, u.createdAt.Format(time.RFC3339), u.updatedAt.Format(time.RFC3339))
}

func validate(name, email string) error {
	if isBlank(name) {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidUserState)
	}
	if isBlank(email) {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidUserState)
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("%w: email format is invalid", ErrInvalidUserState)
	}
	return nil
}

// isBlank reports whether s holds only runes up to U+0020.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' }) == ""
}
