// Package validation collects per-field input errors so handlers can
// report every problem with a request at once.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Errors maps a field name to the first problem found with it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return strings.Join(parts, "; ")
}

// Validator defines validation methods
type Validator struct {
	Errors Errors
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(Errors)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Err returns the collected errors, or nil when the input was valid.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return v.Errors
}

// AddError records message for field unless the field already has one.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Required(field, email)
	if email == "" {
		return
	}
	v.Check(len(email) <= MaxEmailLength, field, "must be a valid email address")
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Min checks that value is at least min, using message as the error text.
func (v *Validator) Min(field string, value, min float64, message string) {
	v.Check(value >= min, field, message)
}

// OneOf checks that a non-empty value belongs to allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}
