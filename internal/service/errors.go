package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")

	ErrUnauthenticated    = errors.New("authentication credentials were not provided")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
	ErrEmailTaken         = errors.New("user with this email already exists")

	// ErrConstraint means an attribute and a recipe disagree on ownership.
	// Reconciliation never produces that state, so seeing it is a bug.
	ErrConstraint = errors.New("attribute owner does not match recipe owner")
)

// ValidationError represents a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields maps each rejected field to its message
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, ve := range e {
		out[ve.Field] = ve.Message
	}
	return out
}

// AsValidation unwraps err into ValidationErrors, promoting a lone
// ValidationError to a one-element slice.
func AsValidation(err error) (ValidationErrors, bool) {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many, true
	}
	var one ValidationError
	if errors.As(err, &one) {
		return ValidationErrors{one}, true
	}
	return nil, false
}
