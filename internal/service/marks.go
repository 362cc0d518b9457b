package service

import (
	"fmt"
	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"
)

// ValidateMarkScheme checks the marks distribution of an exam and
// returns a normalized copy. Every violation is collected before
// returning; a failing scheme is never partially applied.
//
// TheoryMarks is always recomputed as TotalMarks - PracticalMarks when
// HasPractical is set. The value sent by the client is stale the moment
// either of the other two fields changes, so it is never trusted.
func ValidateMarkScheme(m model.MarkScheme) (model.MarkScheme, error) {
	var fields []util.FieldError

	if m.TotalMarks <= 0 {
		fields = append(fields, util.FieldError{
			Field:   "totalMarks",
			Message: "must be a positive integer",
		})
	}

	if m.PassingMarks < 0 || m.PassingMarks > m.TotalMarks {
		fields = append(fields, util.FieldError{
			Field:   "passingMarks",
			Message: fmt.Sprintf("must be between 0 and %d", m.TotalMarks),
		})
	}

	if m.NegativeMarking {
		if m.NegativeMarksPerQuestion < 0 || m.NegativeMarksPerQuestion > 1 {
			fields = append(fields, util.FieldError{
				Field:   "negativeMarksPerQuestion",
				Message: "must be between 0 and 1",
			})
		}
	} else {
		m.NegativeMarksPerQuestion = 0
	}

	if m.HasPractical {
		if m.PracticalMarks < 0 || m.PracticalMarks > m.TotalMarks {
			fields = append(fields, util.FieldError{
				Field:   "practicalMarks",
				Message: fmt.Sprintf("must be between 0 and %d", m.TotalMarks),
			})
		} else {
			m.TheoryMarks = m.TotalMarks - m.PracticalMarks
		}
	} else {
		m.PracticalMarks = 0
		m.TheoryMarks = 0
	}

	if err := util.NewValidationError("marks", fields); err != nil {
		return model.MarkScheme{}, err
	}
	return m, nil
}
