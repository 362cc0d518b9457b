package service

import (
	"errors"
	"strings"
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"
)

// ExamRequest carries everything a client submits to create or edit an
// exam. The builder never trusts derived fields on it (duration,
// theoryMarks): they are recomputed on every pass.
type ExamRequest struct {
	Title        string              `json:"title"`
	Code         string              `json:"code"`
	SubjectID    uint                `json:"subjectId"`
	ClassID      uint                `json:"classId"`
	AcademicYear string              `json:"academicYear"`
	Term         model.Term          `json:"term"`
	Schedule     model.Schedule      `json:"schedule"`
	Marks        model.MarkScheme    `json:"marks"`
	Questions    model.QuestionPaper `json:"questions"`
	Sections     []model.ExamSection `json:"sections"`
	Rules        model.ExamRules     `json:"rules"`
	Access       model.AccessPolicy  `json:"access"`
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse(util.ClockFormat, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// DeriveDuration computes exam length in minutes from its start and end
// clock times. An end time at or before the start wraps past midnight:
// (end - start) mod 1440. "22:00" to "01:00" is 180 minutes.
func DeriveDuration(startTime, endTime string) (int, error) {
	var fields []util.FieldError

	start, ok := parseClock(startTime)
	if !ok {
		fields = append(fields, util.FieldError{Field: "startTime", Message: "must be in HH:MM format"})
	}
	end, ok := parseClock(endTime)
	if !ok {
		fields = append(fields, util.FieldError{Field: "endTime", Message: "must be in HH:MM format"})
	}
	if err := util.NewValidationError("schedule", fields); err != nil {
		return 0, err
	}

	duration := (end - start) % util.MinutesPerDay
	if duration < 0 {
		duration += util.MinutesPerDay
	}
	return duration, nil
}

var terms = map[model.Term]bool{
	model.TermFirst:  true,
	model.TermSecond: true,
	model.TermFinal:  true,
}

func validateBasicInfo(req *ExamRequest) error {
	var fields []util.FieldError

	req.Title = strings.TrimSpace(req.Title)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	if req.Title == "" {
		fields = append(fields, util.FieldError{Field: "title", Message: "title is required"})
	}
	if req.Code == "" {
		fields = append(fields, util.FieldError{Field: "code", Message: "code is required"})
	}
	if req.SubjectID == 0 {
		fields = append(fields, util.FieldError{Field: "subjectId", Message: "subject is required"})
	}
	if req.ClassID == 0 {
		fields = append(fields, util.FieldError{Field: "classId", Message: "class is required"})
	}
	if req.AcademicYear == "" {
		fields = append(fields, util.FieldError{Field: "academicYear", Message: "academic year is required"})
	}
	if !terms[req.Term] {
		fields = append(fields, util.FieldError{Field: "term", Message: "must be one of first, second, final"})
	}
	return util.NewValidationError("basicInfo", fields)
}

func validateSchedule(s *model.Schedule) error {
	var fields []util.FieldError

	if s.Date.IsZero() {
		fields = append(fields, util.FieldError{Field: "date", Message: "exam date is required"})
	}
	// A malformed clock must not hide the other schedule violations.
	duration, err := DeriveDuration(s.StartTime, s.EndTime)
	if err != nil {
		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = append(fields, ve.Fields...)
	} else {
		if duration == 0 {
			fields = append(fields, util.FieldError{Field: "endTime", Message: "end time must differ from start time"})
		}
		s.Duration = duration
	}
	if !s.IsOnline && s.Venue == "" {
		fields = append(fields, util.FieldError{Field: "venue", Message: "venue is required for an offline exam"})
	}
	return util.NewValidationError("schedule", fields)
}

// BuildExam runs the full validator chain (marks -> questions -> basic
// info and schedule) over one submission and assembles the exam
// definition. All field violations across the chain are aggregated into
// a single error. The returned value is complete and self-consistent;
// callers must treat it as immutable and rebuild on any edit.
func BuildExam(req ExamRequest, createdBy uint) (*model.Exam, error) {
	basicErr := validateBasicInfo(&req)
	scheduleErr := validateSchedule(&req.Schedule)
	marks, marksErr := ValidateMarkScheme(req.Marks)
	paper, sections, paperErr := ComposeQuestionPaper(req.Questions, req.Sections, req.Marks.TotalMarks)

	if err := util.MergeValidationErrors(basicErr, scheduleErr, marksErr, paperErr); err != nil {
		return nil, err
	}

	status := model.StatusDraft
	if req.Access.IsPublished {
		status = model.StatusScheduled
	}

	return &model.Exam{
		Title:        req.Title,
		Code:         req.Code,
		SubjectID:    req.SubjectID,
		ClassID:      req.ClassID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		Schedule:     req.Schedule,
		Marks:        marks,
		Paper:        paper,
		Sections:     sections,
		Rules:        req.Rules,
		Access:       req.Access,
		Status:       status,
		CreatedBy:    createdBy,
	}, nil
}
