package service

import (
	"errors"
	"testing"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestValidateMarkScheme_Valid(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:   100,
		PassingMarks: 33,
	}

	out, err := ValidateMarkScheme(in)
	assert.NoError(t, err)
	assert.Equal(t, 100, out.TotalMarks)
	assert.Equal(t, 33, out.PassingMarks)
}

func TestValidateMarkScheme_RecomputesTheoryMarks(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:     100,
		PassingMarks:   40,
		HasPractical:   true,
		PracticalMarks: 30,
		// Stale client-side value must be ignored.
		TheoryMarks: 55,
	}

	out, err := ValidateMarkScheme(in)
	assert.NoError(t, err)
	assert.Equal(t, 70, out.TheoryMarks)
	assert.Equal(t, out.TotalMarks, out.PracticalMarks+out.TheoryMarks)
}

func TestValidateMarkScheme_Idempotent(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:               80,
		PassingMarks:             28,
		NegativeMarking:          true,
		NegativeMarksPerQuestion: 0.25,
		HasPractical:             true,
		PracticalMarks:           20,
		TheoryMarks:              60,
	}

	first, err := ValidateMarkScheme(in)
	assert.NoError(t, err)
	second, err := ValidateMarkScheme(first)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateMarkScheme_AggregatesAllViolations(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:               0,
		PassingMarks:             10,
		NegativeMarking:          true,
		NegativeMarksPerQuestion: 2,
	}

	_, err := ValidateMarkScheme(in)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "marks", ve.Scope)

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["totalMarks"])
	assert.True(t, fields["passingMarks"])
	assert.True(t, fields["negativeMarksPerQuestion"])
}

func TestValidateMarkScheme_NormalizesDisabledFlags(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:               50,
		PassingMarks:             20,
		NegativeMarking:          false,
		NegativeMarksPerQuestion: 0.5,
		HasPractical:             false,
		PracticalMarks:           10,
		TheoryMarks:              40,
	}

	out, err := ValidateMarkScheme(in)
	assert.NoError(t, err)
	assert.Zero(t, out.NegativeMarksPerQuestion)
	assert.Zero(t, out.PracticalMarks)
	assert.Zero(t, out.TheoryMarks)
}

func TestValidateMarkScheme_PracticalOutOfRange(t *testing.T) {
	in := model.MarkScheme{
		TotalMarks:     100,
		PassingMarks:   35,
		HasPractical:   true,
		PracticalMarks: 120,
	}

	_, err := ValidateMarkScheme(in)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "practicalMarks", ve.Fields[0].Field)
}
