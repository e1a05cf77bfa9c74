// Package validate provides a chainable validator that collects field
// errors and returns them as a single apperr validation error.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"review-backend/internal/apperr"
)

const (
	UsernameMaxLength = 150
	EmailMaxLength    = 254
	NameMaxLength     = 256
	SlugMaxLength     = 50
	ScoreMin          = 1
	ScoreMax          = 10

	// ReservedUsername would collide with the /users/me route.
	ReservedUsername = "me"
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Validator is not safe for concurrent use; create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Ensure this field has no more than %d characters", max))
	}
	return v
}

func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "Enter a valid email address")
		return v
	}
	return v.MaxLen(field, value, EmailMaxLength)
}

// Username applies the permissive username pattern and rejects the
// reserved literal.
func (v *Validator) Username(field, value string) *Validator {
	switch {
	case value == "":
		v.add(field, "This field is required")
	case value == ReservedUsername:
		v.add(field, fmt.Sprintf("%q is not a valid username", ReservedUsername))
	case !usernameRegex.MatchString(value):
		v.add(field, "The username may contain only letters, digits and @/./+/-/_")
	case utf8.RuneCountInString(value) > UsernameMaxLength:
		v.add(field, fmt.Sprintf("Ensure this field has no more than %d characters", UsernameMaxLength))
	}
	return v
}

func (v *Validator) Slug(field, value string) *Validator {
	if !slugRegex.MatchString(value) {
		v.add(field, "Enter a valid slug consisting of letters, numbers, underscores or hyphens")
		return v
	}
	return v.MaxLen(field, value, SlugMaxLength)
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.Validation("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
