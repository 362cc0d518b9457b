package service

import (
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/repository"
	"smart_exam_backend/internal/util"
	"smart_exam_backend/pkg/monitoring"
)

type ResultService struct {
	Results  *repository.ResultRepository
	Exams    *repository.ExamRepository
	Users    *repository.UserRepository
	Notifier *NotifyService
}

func NewResultService(results *repository.ResultRepository, exams *repository.ExamRepository, users *repository.UserRepository, notifier *NotifyService) *ResultService {
	return &ResultService{
		Results:  results,
		Exams:    exams,
		Users:    users,
		Notifier: notifier,
	}
}

type EvaluationRequest struct {
	StudentID     uint    `json:"studentId" binding:"required"`
	ObtainedMarks float64 `json:"obtainedMarks"`
	WrongAnswers  int     `json:"wrongAnswers"`
}

// Evaluate enters (or re-enters) one student's score for an exam and
// derives percentage, grade and pass/fail. There is one result row per
// (exam, student); re-evaluation mutates it, never duplicates it. The
// whole cohort is re-ranked afterwards from a fresh snapshot.
func (s *ResultService) Evaluate(examID uint, req EvaluationRequest, actor *util.Claims) (*model.Result, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && exam.CreatedBy != actor.UserID {
		return nil, util.ErrPermissionDenied
	}

	if req.ObtainedMarks < 0 || req.ObtainedMarks > float64(exam.Marks.TotalMarks) {
		return nil, util.NewValidationError("result", []util.FieldError{
			{Field: "obtainedMarks", Message: "must be within 0 and the exam's total marks"},
		})
	}
	if req.WrongAnswers < 0 || req.WrongAnswers > exam.Paper.TotalQuestions {
		return nil, util.NewValidationError("result", []util.FieldError{
			{Field: "wrongAnswers", Message: "must be within 0 and the exam's total questions"},
		})
	}

	eval, err := ComputeEvaluation(req.ObtainedMarks, req.WrongAnswers, exam.Marks)
	if err != nil {
		return nil, err
	}

	result, err := s.Results.FindByExamAndStudent(examID, req.StudentID)
	if err == util.ErrResultNotFound {
		result = &model.Result{ExamID: examID, StudentID: req.StudentID}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	result.ObtainedMarks = req.ObtainedMarks
	result.WrongAnswers = req.WrongAnswers
	result.EffectiveMarks = eval.EffectiveMarks
	result.Percentage = eval.Percentage
	result.Grade = eval.Grade
	result.Status = eval.Status
	result.EvaluatedBy = actor.UserID
	result.EvaluatedAt = &now

	if err := s.Results.Save(result); err != nil {
		return nil, err
	}

	if err := s.rerank(examID); err != nil {
		return nil, err
	}
	// Re-read so the caller sees the rank assigned to this student.
	return s.Results.FindByExamAndStudent(examID, req.StudentID)
}

// rerank recomputes cohort ranks against a single snapshot of every
// result for the exam.
func (s *ResultService) rerank(examID uint) error {
	cohort, err := s.Results.ListByExam(examID)
	if err != nil {
		return err
	}
	AssignRanks(cohort)
	return s.Results.SaveRanks(cohort)
}

// PublishResults opens the publication gate for every evaluated result
// of the exam, re-ranking first so published ranks are final.
func (s *ResultService) PublishResults(examID uint, actor *util.Claims) (int64, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		return 0, err
	}
	if actor.Role != model.Admin && exam.CreatedBy != actor.UserID {
		return 0, util.ErrPermissionDenied
	}

	if err := s.rerank(examID); err != nil {
		return 0, err
	}
	published, err := s.Results.PublishByExam(examID)
	if err != nil {
		return 0, err
	}

	if published > 0 {
		monitoring.ResultsPublished.Add(float64(published))
		s.Notifier.Fire(EventResultsPublished, exam)
	}
	return published, nil
}

// GatedResult is a result as exposed to its subject: review visibility
// is attached and unpublished rows never leave the service.
type GatedResult struct {
	model.Result
	ReviewAvailable bool `json:"reviewAvailable"`
}

// ResultsForExam returns the cohort for staff, or only the caller's own
// gated result for students and parents.
func (s *ResultService) ResultsForExam(examID uint, actor *util.Claims, now time.Time) (interface{}, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		return nil, err
	}

	if actor.IsStaff() {
		return s.Results.ListByExam(examID)
	}

	studentID, err := s.subjectStudentID(actor)
	if err != nil {
		return nil, err
	}

	result, err := s.Results.FindByExamAndStudent(examID, studentID)
	if err != nil {
		return nil, err
	}

	status := EffectiveStatus(exam, now)
	visibility := GateResult(result.Published, exam.Access, status)
	if !visibility.Result {
		return nil, util.ErrResultNotFound
	}
	return &GatedResult{Result: *result, ReviewAvailable: visibility.Review}, nil
}

// MyResults lists the caller's published results across exams, each one
// passed through the publication gate of its own exam.
func (s *ResultService) MyResults(actor *util.Claims, now time.Time) ([]GatedResult, error) {
	studentID, err := s.subjectStudentID(actor)
	if err != nil {
		return nil, err
	}

	results, err := s.Results.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	out := make([]GatedResult, 0, len(results))
	for _, r := range results {
		exam, err := s.Exams.FindByID(r.ExamID)
		if err != nil {
			continue
		}
		visibility := GateResult(r.Published, exam.Access, EffectiveStatus(exam, now))
		if !visibility.Result {
			continue
		}
		out = append(out, GatedResult{Result: r, ReviewAvailable: visibility.Review})
	}
	return out, nil
}

// subjectStudentID resolves whose results the caller is entitled to:
// students see their own, parents see their linked child's.
func (s *ResultService) subjectStudentID(actor *util.Claims) (uint, error) {
	switch actor.Role {
	case model.Student:
		return actor.UserID, nil
	case model.Parent:
		user, err := s.Users.FindByID(actor.UserID)
		if err != nil {
			return 0, err
		}
		if user.ChildID == nil {
			return 0, util.ErrPermissionDenied
		}
		return *user.ChildID, nil
	default:
		return 0, util.ErrPermissionDenied
	}
}
