package service

import (
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"
)

// legal user/system-invoked transitions. Time-driven moves to ongoing
// and completed go through EffectiveStatus instead.
var transitions = map[model.ExamStatus][]model.ExamStatus{
	model.StatusDraft:     {model.StatusScheduled, model.StatusCancelled},
	model.StatusScheduled: {model.StatusOngoing, model.StatusCancelled},
	model.StatusOngoing:   {model.StatusCompleted},
}

func CanTransition(from, to model.ExamStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// examWindow returns the absolute start and end of the exam. The end is
// start + duration so an overnight exam ends on the following day.
func examWindow(e *model.Exam) (time.Time, time.Time) {
	start := e.Schedule.Date
	if mins, ok := parseClock(e.Schedule.StartTime); ok {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()).
			Add(time.Duration(mins) * time.Minute)
	}
	end := start.Add(time.Duration(e.Schedule.Duration) * time.Minute)
	return start, end
}

// EffectiveStatus recomputes the lifecycle status of an exam from its
// schedule. Terminal states (completed, cancelled) are sticky and
// returned as stored; drafts never advance by time because they were
// never scheduled. Everything else is derived from where the current
// time falls relative to [start, end).
func EffectiveStatus(e *model.Exam, now time.Time) model.ExamStatus {
	if e.Status.IsTerminal() || e.Status == model.StatusDraft {
		return e.Status
	}

	start, end := examWindow(e)
	switch {
	case now.Before(start):
		return model.StatusScheduled
	case now.Before(end):
		return model.StatusOngoing
	default:
		return model.StatusCompleted
	}
}

// Cancel moves an exam to cancelled. Only drafts and scheduled exams
// may be cancelled; an exam that has started or finished cannot.
func Cancel(e *model.Exam, now time.Time) error {
	status := EffectiveStatus(e, now)
	if !CanTransition(status, model.StatusCancelled) {
		return util.ErrInvalidTransition
	}
	e.Status = model.StatusCancelled
	return nil
}

// CanDelete reports whether destroying the exam is legal. Deletion is
// restricted to drafts.
func CanDelete(e *model.Exam, now time.Time) bool {
	return EffectiveStatus(e, now) == model.StatusDraft
}
