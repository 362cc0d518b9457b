package service

import (
	"errors"
	"testing"
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDuration(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"same day", "09:00", "12:00", 180},
		{"overnight wrap", "22:00", "01:00", 180},
		{"just before midnight", "23:30", "00:15", 45},
		{"full hour", "10:00", "11:00", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveDuration(tt.start, tt.end)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveDuration_BadFormat(t *testing.T) {
	_, err := DeriveDuration("9am", "25:00")
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
}

func validExamRequest() ExamRequest {
	return ExamRequest{
		Title:        "Midterm Mathematics",
		Code:         "math-mid-2026",
		SubjectID:    3,
		ClassID:      7,
		AcademicYear: "2026",
		Term:         model.TermFirst,
		Schedule: model.Schedule{
			Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00",
			EndTime:   "12:00",
			Venue:     "Main Hall",
		},
		Marks: model.MarkScheme{
			TotalMarks:   100,
			PassingMarks: 33,
		},
		Questions: model.QuestionPaper{
			TotalQuestions: 50,
			QuestionTypes:  model.StringList{"mcq", "short"},
		},
	}
}

func TestBuildExam_DerivesAndNormalizes(t *testing.T) {
	exam, err := BuildExam(validExamRequest(), 42)
	assert.NoError(t, err)
	assert.Equal(t, "MATH-MID-2026", exam.Code)
	assert.Equal(t, 180, exam.Schedule.Duration)
	assert.Equal(t, model.StatusDraft, exam.Status)
	assert.Equal(t, uint(42), exam.CreatedBy)
}

func TestBuildExam_PublishedStartsScheduled(t *testing.T) {
	req := validExamRequest()
	req.Access.IsPublished = true

	exam, err := BuildExam(req, 42)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, exam.Status)
}

func TestBuildExam_IgnoresClientDuration(t *testing.T) {
	req := validExamRequest()
	req.Schedule.Duration = 9999

	exam, err := BuildExam(req, 1)
	assert.NoError(t, err)
	assert.Equal(t, 180, exam.Schedule.Duration)
}

func TestBuildExam_OvernightSchedule(t *testing.T) {
	req := validExamRequest()
	req.Schedule.StartTime = "22:00"
	req.Schedule.EndTime = "01:00"

	exam, err := BuildExam(req, 1)
	assert.NoError(t, err)
	assert.Equal(t, 180, exam.Schedule.Duration)
}

func TestBuildExam_AggregatesAcrossScopes(t *testing.T) {
	req := validExamRequest()
	req.Title = ""
	req.Marks.PassingMarks = 200
	req.Questions.TotalQuestions = 0

	_, err := BuildExam(req, 1)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["passingMarks"])
	assert.True(t, fields["totalQuestions"])
}

func TestBuildExam_BadClockDoesNotHideOtherScheduleViolations(t *testing.T) {
	req := validExamRequest()
	req.Schedule.Date = time.Time{}
	req.Schedule.StartTime = "9am"
	req.Schedule.Venue = ""

	_, err := BuildExam(req, 1)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["date"])
	assert.True(t, fields["startTime"])
	assert.True(t, fields["venue"])
}

func TestBuildExam_ZeroLengthScheduleRejected(t *testing.T) {
	req := validExamRequest()
	req.Schedule.StartTime = "09:00"
	req.Schedule.EndTime = "09:00"

	_, err := BuildExam(req, 1)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestBuildExam_OfflineNeedsVenue(t *testing.T) {
	req := validExamRequest()
	req.Schedule.Venue = ""
	req.Schedule.IsOnline = false

	_, err := BuildExam(req, 1)
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	req.Schedule.IsOnline = true
	_, err = BuildExam(req, 1)
	assert.NoError(t, err)
}
