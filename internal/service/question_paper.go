package service

import (
	"fmt"
	"sort"
	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"
)

// questionTypeCatalog fixes the set of legal question type identifiers
// and their display order on a composed paper.
var questionTypeCatalog = []string{
	model.QuestionMCQ,
	model.QuestionTrueFalse,
	model.QuestionFillBlank,
	model.QuestionShort,
	model.QuestionLong,
	model.QuestionWritten,
	model.QuestionPractical,
}

func catalogIndex(t string) int {
	for i, known := range questionTypeCatalog {
		if known == t {
			return i
		}
	}
	return -1
}

var difficulties = map[model.Difficulty]bool{
	model.DifficultyEasy:   true,
	model.DifficultyMedium: true,
	model.DifficultyHard:   true,
}

// ComposeQuestionPaper validates the question configuration against the
// mark scheme it belongs to and returns a normalized paper: question
// types deduplicated and ordered by catalog position, sections numbered.
//
// When HasSections is set the section question counts must sum to
// TotalQuestions and the section marks must sum to totalMarks.
func ComposeQuestionPaper(p model.QuestionPaper, sections []model.ExamSection, totalMarks int) (model.QuestionPaper, []model.ExamSection, error) {
	var fields []util.FieldError

	if p.TotalQuestions <= 0 {
		fields = append(fields, util.FieldError{
			Field:   "totalQuestions",
			Message: "must be a positive integer",
		})
	}

	if len(p.QuestionTypes) == 0 {
		fields = append(fields, util.FieldError{
			Field:   "questionTypes",
			Message: "at least one question type is required",
		})
	}

	seen := make(map[string]bool, len(p.QuestionTypes))
	normalized := make(model.StringList, 0, len(p.QuestionTypes))
	for _, t := range p.QuestionTypes {
		if catalogIndex(t) < 0 {
			fields = append(fields, util.FieldError{
				Field:   "questionTypes",
				Message: fmt.Sprintf("unknown question type %q", t),
			})
			continue
		}
		if !seen[t] {
			seen[t] = true
			normalized = append(normalized, t)
		}
	}
	sort.Slice(normalized, func(i, j int) bool {
		return catalogIndex(normalized[i]) < catalogIndex(normalized[j])
	})
	p.QuestionTypes = normalized

	if p.Difficulty == "" {
		p.Difficulty = model.DifficultyMedium
	} else if !difficulties[p.Difficulty] {
		fields = append(fields, util.FieldError{
			Field:   "difficulty",
			Message: "must be one of easy, medium, hard",
		})
	}

	out := make([]model.ExamSection, 0, len(sections))
	if p.HasSections {
		questionSum, markSum := 0, 0
		for i, sec := range sections {
			if sec.Name == "" {
				fields = append(fields, util.FieldError{
					Field:   fmt.Sprintf("sections[%d].name", i),
					Message: "section name is required",
				})
			}
			if sec.QuestionCount <= 0 {
				fields = append(fields, util.FieldError{
					Field:   fmt.Sprintf("sections[%d].questionCount", i),
					Message: "must be a positive integer",
				})
			}
			if sec.Marks < 0 {
				fields = append(fields, util.FieldError{
					Field:   fmt.Sprintf("sections[%d].marks", i),
					Message: "must not be negative",
				})
			}
			if sec.Type != "" && catalogIndex(sec.Type) < 0 {
				fields = append(fields, util.FieldError{
					Field:   fmt.Sprintf("sections[%d].type", i),
					Message: fmt.Sprintf("unknown question type %q", sec.Type),
				})
			}
			questionSum += sec.QuestionCount
			markSum += sec.Marks
			sec.Position = i + 1
			out = append(out, sec)
		}
		if questionSum != p.TotalQuestions {
			fields = append(fields, util.FieldError{
				Field:   "sections",
				Message: fmt.Sprintf("section questions sum to %d, expected totalQuestions %d", questionSum, p.TotalQuestions),
			})
		}
		if markSum != totalMarks {
			fields = append(fields, util.FieldError{
				Field:   "sections",
				Message: fmt.Sprintf("section marks sum to %d, expected totalMarks %d", markSum, totalMarks),
			})
		}
	}

	if err := util.NewValidationError("questions", fields); err != nil {
		return model.QuestionPaper{}, nil, err
	}
	return p, out, nil
}
