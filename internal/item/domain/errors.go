package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both missing items and items owned by another user.
var ErrNotFound = errors.New("item not found")

// ValidationError rejects input before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
