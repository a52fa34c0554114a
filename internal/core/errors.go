package core

import (
	"fmt"

	"github.com/inkpost/inkpost/internal/validator"
	"github.com/mdobak/go-xerrors"
)

// The error kinds every operation can return. Callers match them with
// errors.Is (or errors.As for *ValidationError) instead of parsing messages.
var (
	NoRecordFound             = xerrors.Message("No record found")
	ErrForbidden              = xerrors.Message("Forbidden")
	ErrAuthenticationRequired = xerrors.Message("Authentication required")
	ErrDuplicateEmail         = xerrors.Message("Duplicate email")
	ErrDuplicateUsername      = xerrors.Message("Duplicate username")
	ErrDuplicatedSlug         = xerrors.Message("Duplicate slug")
)

// ValidationError reports every failed field at once, each field carrying
// one or more messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func NewValidationError(v *validator.Validator) *ValidationError {
	return &ValidationError{Fields: v.Errors}
}
