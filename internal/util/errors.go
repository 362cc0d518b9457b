package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrExamNotFound      = errors.New("exam not found")
	ErrResultNotFound    = errors.New("result not found")
	ErrDuplicateCode     = errors.New("exam code already in use")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrConflict          = errors.New("concurrent modification, refetch and retry")
	ErrComputation       = errors.New("computation error")
)

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one validation
// pass. Callers never see a partial list: validators collect all
// violations before returning.
type ValidationError struct {
	Scope  string       `json:"scope"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Scope, strings.Join(msgs, "; "))
}

// NewValidationError returns nil when no violations were collected so
// validators can return it unconditionally.
func NewValidationError(scope string, fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Scope: scope, Fields: fields}
}

// MergeValidationErrors flattens the field lists of several validation
// errors into one. Non-validation errors take precedence and are
// returned as-is.
func MergeValidationErrors(errs ...error) error {
	var fields []FieldError
	scope := ""
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		if scope == "" {
			scope = ve.Scope
		} else if scope != ve.Scope {
			scope = "exam"
		}
		fields = append(fields, ve.Fields...)
	}
	return NewValidationError(scope, fields)
}
