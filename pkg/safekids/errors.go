package safekids

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotParent    = errors.New("only parents can perform this action")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// OwnershipError lists geofences the caller tried to change without owning
// them. It matches ErrForbidden.
type OwnershipError struct {
	Verb         string
	Unauthorized []string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("Không có quyền %s %d vùng (%s)", e.Verb, len(e.Unauthorized), strings.Join(e.Unauthorized, ", "))
}

func (e *OwnershipError) Is(target error) bool {
	return target == ErrForbidden
}
