package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity does not exist, or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is the single outcome for every failed login,
	// regardless of which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates an authenticated caller acting outside its own data.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field-level messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateRegistrationError reports which of username/email conflicted.
type DuplicateRegistrationError struct {
	Fields []string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("already taken: %s", strings.Join(e.Fields, ", "))
}
