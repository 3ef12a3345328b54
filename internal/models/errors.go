package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors used throughout the application
var (
	ErrUnauthorized             = errors.New("unauthorized access")
	ErrNotFound                 = errors.New("not found")
	ErrValidationFailed         = errors.New("validation failed")
	ErrArtifactGenerationFailed = errors.New("artifact generation failed")
	ErrKeyCollision             = errors.New("ticket key collision")
	ErrDuplicatePurchase        = errors.New("offer already purchased")
	ErrDuplicateEntry           = errors.New("duplicate entry")
	ErrInvalidCredentials       = errors.New("invalid username or password")

	ErrOfferNotFound   = fmt.Errorf("offer %w", ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("ticket %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
)

// ValidationErrors maps form fields to their messages. It matches ErrValidationFailed
// so handlers can re-render a form without discarding the rest of the input.
type ValidationErrors map[string][]string

// Add appends a message for a field
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Err returns nil when no field failed
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v[field], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrValidationFailed) hold for any ValidationErrors
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}
