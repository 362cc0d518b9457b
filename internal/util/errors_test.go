package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Scope: "markScheme",
		Fields: []FieldError{
			{Field: "totalMarks", Message: "must be positive"},
			{Field: "passingMarks", Message: "must not exceed totalMarks"},
		},
	}
	assert.Equal(t,
		"invalid markScheme: totalMarks: must be positive; passingMarks: must not exceed totalMarks",
		err.Error())
}

func TestNewValidationError(t *testing.T) {
	assert.NoError(t, NewValidationError("schedule", nil))
	assert.NoError(t, NewValidationError("schedule", []FieldError{}))

	err := NewValidationError("schedule", []FieldError{{Field: "date", Message: "required"}})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "schedule", ve.Scope)
	assert.Len(t, ve.Fields, 1)
}

func TestMergeValidationErrors(t *testing.T) {
	sched := NewValidationError("schedule", []FieldError{{Field: "date", Message: "required"}})
	marks := NewValidationError("markScheme", []FieldError{{Field: "totalMarks", Message: "must be positive"}})

	t.Run("all nil", func(t *testing.T) {
		assert.NoError(t, MergeValidationErrors(nil, nil))
	})

	t.Run("same scope preserved", func(t *testing.T) {
		other := NewValidationError("schedule", []FieldError{{Field: "startTime", Message: "bad clock"}})
		merged := MergeValidationErrors(sched, nil, other)
		var ve *ValidationError
		assert.True(t, errors.As(merged, &ve))
		assert.Equal(t, "schedule", ve.Scope)
		assert.Len(t, ve.Fields, 2)
	})

	t.Run("mixed scopes widen to exam", func(t *testing.T) {
		merged := MergeValidationErrors(sched, marks)
		var ve *ValidationError
		assert.True(t, errors.As(merged, &ve))
		assert.Equal(t, "exam", ve.Scope)
		assert.Len(t, ve.Fields, 2)
	})

	t.Run("non-validation error wins", func(t *testing.T) {
		merged := MergeValidationErrors(sched, ErrConflict, marks)
		assert.ErrorIs(t, merged, ErrConflict)
	})
}
