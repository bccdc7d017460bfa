package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minNameLength  = 2
	maxNameLength  = 100
	maxEmailLength = 254
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)
)

// DefaultDisposableDomains is the deny-list used when none is configured.
var DefaultDisposableDomains = []string{"10minutemail.com", "tempmail.org", "guerrillamail.com"}

// CreateUserRequest is the input of UserUsecase.CreateUser.
type CreateUserRequest struct {
	Name  string
	Email string
}

// UpdateUserRequest is the input of UserUsecase.UpdateUser.
type UpdateUserRequest struct {
	Name  string
	Email string
}

// ValidationResult is the outcome of a single validation call.
type ValidationResult struct {
	valid  bool
	errors []string
}

func newValidationResult(errs []string) ValidationResult {
	return ValidationResult{valid: len(errs) == 0, errors: errs}
}

// Valid reports whether no rule was violated.
func (r ValidationResult) Valid() bool { return r.valid }

// Errors returns the violations in the order they were found.
func (r ValidationResult) Errors() []string {
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

// ErrorsAsString joins the violations with "; ".
func (r ValidationResult) ErrorsAsString() string {
	return strings.Join(r.errors, "; ")
}

// UserValidator checks user input against the business rules.
// It holds no mutable state and is safe for concurrent use.
type UserValidator struct {
	disposableSuffixes []string
}

// NewUserValidator builds a validator with the given disposable-domain deny-list.
// An empty list falls back to DefaultDisposableDomains.
func NewUserValidator(disposableDomains ...string) *UserValidator {
	if len(disposableDomains) == 0 {
		disposableDomains = DefaultDisposableDomains
	}
	suffixes := make([]string, 0, len(disposableDomains))
	for _, d := range disposableDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		suffixes = append(suffixes, "@"+d)
	}
	return &UserValidator{disposableSuffixes: suffixes}
}

// ValidateForCreate validates the input of a user creation.
func (v *UserValidator) ValidateForCreate(req *CreateUserRequest) ValidationResult {
	if req == nil {
		return newValidationResult([]string{"request cannot be null"})
	}
	return v.validate(req.Name, req.Email)
}

// ValidateForUpdate validates the input of a user update.
// The rules are the same as for creation.
func (v *UserValidator) ValidateForUpdate(req *UpdateUserRequest) ValidationResult {
	if req == nil {
		return newValidationResult([]string{"request cannot be null"})
	}
	return v.validate(req.Name, req.Email)
}

func (v *UserValidator) validate(name, email string) ValidationResult {
	var errs []string

	if trimControl(name) == "" {
		errs = append(errs, "Name is required")
	} else {
		errs = v.checkName(name, errs)
	}

	if trimControl(email) == "" {
		errs = append(errs, "Email is required")
	} else {
		errs = v.checkEmail(email, errs)
	}

	return newValidationResult(errs)
}

func (v *UserValidator) checkName(name string, errs []string) []string {
	trimmed := trimControl(name)
	n := utf8.RuneCountInString(trimmed)

	if n < minNameLength {
		errs = append(errs, "Name must be at least 2 characters long")
	}
	if n > maxNameLength {
		errs = append(errs, "Name must not exceed 100 characters")
	}
	if !namePattern.MatchString(trimmed) {
		errs = append(errs, "Name must contain only letters and spaces")
	}
	if strings.Contains(trimmed, "  ") {
		errs = append(errs, "Name cannot contain consecutive spaces")
	}
	return errs
}

func (v *UserValidator) checkEmail(email string, errs []string) []string {
	normalized := strings.ToLower(trimControl(email))

	if utf8.RuneCountInString(normalized) > maxEmailLength {
		errs = append(errs, "Email must not exceed 254 characters")
	}
	if !emailPattern.MatchString(normalized) {
		errs = append(errs, "Email format is invalid")
	}
	for _, suffix := range v.disposableSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			errs = append(errs, "Disposable email addresses are not allowed")
			break
		}
	}
	return errs
}

// trimControl strips leading and trailing runes up to U+0020 (ASCII controls
// and space). Unicode spaces such as U+00A0 are kept and fail the patterns.
func trimControl(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
