package service

import (
	"testing"
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func scheduledExam(date time.Time, start, end string, duration int) *model.Exam {
	return &model.Exam{
		Status: model.StatusScheduled,
		Schedule: model.Schedule{
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Duration:  duration,
		},
	}
}

func TestEffectiveStatus_TimeDriven(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	exam := scheduledExam(date, "09:00", "12:00", 180)

	tests := []struct {
		name string
		now  time.Time
		want model.ExamStatus
	}{
		{"before window", date.Add(8 * time.Hour), model.StatusScheduled},
		{"at start", date.Add(9 * time.Hour), model.StatusOngoing},
		{"inside window", date.Add(10 * time.Hour), model.StatusOngoing},
		{"at end", date.Add(12 * time.Hour), model.StatusCompleted},
		{"after window", date.Add(15 * time.Hour), model.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatus(exam, tt.now))
		})
	}
}

func TestEffectiveStatus_OvernightWindow(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	exam := scheduledExam(date, "22:00", "01:00", 180)

	// 23:30 on the exam date is inside the window.
	assert.Equal(t, model.StatusOngoing,
		EffectiveStatus(exam, date.Add(23*time.Hour+30*time.Minute)))
	// 00:30 the next day still is.
	assert.Equal(t, model.StatusOngoing,
		EffectiveStatus(exam, date.Add(24*time.Hour+30*time.Minute)))
	// 01:30 the next day is past it.
	assert.Equal(t, model.StatusCompleted,
		EffectiveStatus(exam, date.Add(25*time.Hour+30*time.Minute)))
}

func TestEffectiveStatus_DraftNeverAdvances(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	exam := scheduledExam(date, "09:00", "12:00", 180)
	exam.Status = model.StatusDraft

	assert.Equal(t, model.StatusDraft, EffectiveStatus(exam, date.Add(10*time.Hour)))
}

func TestEffectiveStatus_TerminalIsSticky(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	exam := scheduledExam(date, "09:00", "12:00", 180)
	exam.Status = model.StatusCancelled

	// Inside the would-be window, cancelled stays cancelled.
	assert.Equal(t, model.StatusCancelled, EffectiveStatus(exam, date.Add(10*time.Hour)))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(model.StatusDraft, model.StatusScheduled))
	assert.True(t, CanTransition(model.StatusDraft, model.StatusCancelled))
	assert.True(t, CanTransition(model.StatusScheduled, model.StatusOngoing))
	assert.True(t, CanTransition(model.StatusScheduled, model.StatusCancelled))
	assert.True(t, CanTransition(model.StatusOngoing, model.StatusCompleted))

	assert.False(t, CanTransition(model.StatusOngoing, model.StatusCancelled))
	assert.False(t, CanTransition(model.StatusCompleted, model.StatusCancelled))
	assert.False(t, CanTransition(model.StatusCancelled, model.StatusScheduled))
	assert.False(t, CanTransition(model.StatusCompleted, model.StatusOngoing))
}

func TestCancel(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	exam := scheduledExam(date, "09:00", "12:00", 180)
	assert.NoError(t, Cancel(exam, date.Add(8*time.Hour)))
	assert.Equal(t, model.StatusCancelled, exam.Status)

	// Already ongoing: too late to cancel.
	exam = scheduledExam(date, "09:00", "12:00", 180)
	assert.ErrorIs(t, Cancel(exam, date.Add(10*time.Hour)), util.ErrInvalidTransition)

	// Completed: same.
	exam = scheduledExam(date, "09:00", "12:00", 180)
	assert.ErrorIs(t, Cancel(exam, date.Add(13*time.Hour)), util.ErrInvalidTransition)
}

func TestCanDelete(t *testing.T) {
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	draft := scheduledExam(date, "09:00", "12:00", 180)
	draft.Status = model.StatusDraft
	assert.True(t, CanDelete(draft, date))

	scheduled := scheduledExam(date, "09:00", "12:00", 180)
	assert.False(t, CanDelete(scheduled, date))
}
