package service

import (
	"errors"
	"testing"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestComposeQuestionPaper_NormalizesTypes(t *testing.T) {
	in := model.QuestionPaper{
		TotalQuestions: 40,
		QuestionTypes:  model.StringList{"short", "mcq", "mcq", "truefalse"},
	}

	out, _, err := ComposeQuestionPaper(in, nil, 100)
	assert.NoError(t, err)
	assert.Equal(t, model.StringList{"mcq", "truefalse", "short"}, out.QuestionTypes)
	assert.Equal(t, model.DifficultyMedium, out.Difficulty)
}

func TestComposeQuestionPaper_UnknownType(t *testing.T) {
	in := model.QuestionPaper{
		TotalQuestions: 10,
		QuestionTypes:  model.StringList{"mcq", "essay"},
	}

	_, _, err := ComposeQuestionPaper(in, nil, 100)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "questions", ve.Scope)
	assert.Equal(t, "questionTypes", ve.Fields[0].Field)
}

func TestComposeQuestionPaper_SectionSums(t *testing.T) {
	paper := model.QuestionPaper{
		TotalQuestions: 50,
		QuestionTypes:  model.StringList{"mcq", "written"},
		HasSections:    true,
	}
	sections := []model.ExamSection{
		{Name: "Section A", QuestionCount: 30, Marks: 60, Type: "mcq"},
		{Name: "Section B", QuestionCount: 20, Marks: 40, Type: "written"},
	}

	out, normalized, err := ComposeQuestionPaper(paper, sections, 100)
	assert.NoError(t, err)
	assert.True(t, out.HasSections)
	assert.Len(t, normalized, 2)
	assert.Equal(t, 1, normalized[0].Position)
	assert.Equal(t, 2, normalized[1].Position)

	questionSum, markSum := 0, 0
	for _, sec := range normalized {
		questionSum += sec.QuestionCount
		markSum += sec.Marks
	}
	assert.Equal(t, out.TotalQuestions, questionSum)
	assert.Equal(t, 100, markSum)
}

func TestComposeQuestionPaper_SectionSumMismatch(t *testing.T) {
	paper := model.QuestionPaper{
		TotalQuestions: 50,
		QuestionTypes:  model.StringList{"mcq"},
		HasSections:    true,
	}
	sections := []model.ExamSection{
		{Name: "Section A", QuestionCount: 30, Marks: 50},
		{Name: "Section B", QuestionCount: 10, Marks: 30},
	}

	_, _, err := ComposeQuestionPaper(paper, sections, 100)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	// Both sum invariants are violated and both are reported.
	count := 0
	for _, f := range ve.Fields {
		if f.Field == "sections" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestComposeQuestionPaper_BadSection(t *testing.T) {
	paper := model.QuestionPaper{
		TotalQuestions: 5,
		QuestionTypes:  model.StringList{"mcq"},
		HasSections:    true,
	}
	sections := []model.ExamSection{
		{Name: "", QuestionCount: 0, Marks: -5},
	}

	_, _, err := ComposeQuestionPaper(paper, sections, 100)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["sections[0].name"])
	assert.True(t, fields["sections[0].questionCount"])
	assert.True(t, fields["sections[0].marks"])
}

func TestComposeQuestionPaper_EmptyTypes(t *testing.T) {
	in := model.QuestionPaper{TotalQuestions: 10}

	_, _, err := ComposeQuestionPaper(in, nil, 100)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "questionTypes", ve.Fields[0].Field)
}
