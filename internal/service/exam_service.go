package service

import (
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/repository"
	"smart_exam_backend/internal/util"
	"smart_exam_backend/pkg/logger"
	"smart_exam_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type ExamService struct {
	Exams    *repository.ExamRepository
	Results  *repository.ResultRepository
	Notifier *NotifyService
}

func NewExamService(exams *repository.ExamRepository, results *repository.ResultRepository, notifier *NotifyService) *ExamService {
	return &ExamService{
		Exams:    exams,
		Results:  results,
		Notifier: notifier,
	}
}

func (s *ExamService) canMutate(exam *model.Exam, actor *util.Claims) bool {
	return actor.Role == model.Admin ||
		(actor.Role == model.Teacher && exam.CreatedBy == actor.UserID)
}

// CreateExam runs the full builder chain and persists the definition.
// A published definition starts life scheduled, otherwise as a draft.
func (s *ExamService) CreateExam(req ExamRequest, actor *util.Claims) (*model.Exam, error) {
	exam, err := BuildExam(req, actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.Exams.Create(exam); err != nil {
		return nil, err
	}

	monitoring.ExamsCreated.Inc()
	s.Notifier.Fire(EventExamCreated, exam)
	return exam, nil
}

// GetExam loads a definition and recomputes its lifecycle status from
// the schedule; the stored value is only trusted for terminal states.
// A time-driven move is persisted best-effort so listings converge.
func (s *ExamService) GetExam(id uint, now time.Time) (*model.Exam, error) {
	exam, err := s.Exams.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(exam, now)
	return exam, nil
}

func (s *ExamService) refreshStatus(exam *model.Exam, now time.Time) {
	effective := EffectiveStatus(exam, now)
	if effective == exam.Status {
		return
	}
	exam.Status = effective
	if err := s.Exams.UpdateStatus(exam.ID, effective); err != nil {
		logger.Log.Warn("persist exam status",
			zap.Uint("examId", exam.ID), zap.Error(err))
	}
}

func (s *ExamService) ListExams(classID, subjectID uint, page, limit int, now time.Time) ([]model.Exam, int64, error) {
	exams, total, err := s.Exams.List(classID, subjectID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range exams {
		exams[i].Status = EffectiveStatus(&exams[i], now)
	}
	return exams, total, nil
}

// UpdateExam replaces the whole definition after re-running the full
// validator chain; single fields are never patched in isolation. The
// caller's expectedVersion guards against a concurrent edit.
func (s *ExamService) UpdateExam(id uint, req ExamRequest, expectedVersion int, actor *util.Claims, now time.Time) (*model.Exam, error) {
	current, err := s.Exams.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !s.canMutate(current, actor) {
		return nil, util.ErrPermissionDenied
	}
	// An exam that has started, finished or been cancelled is frozen.
	switch EffectiveStatus(current, now) {
	case model.StatusDraft, model.StatusScheduled:
	default:
		return nil, util.ErrInvalidTransition
	}

	rebuilt, err := BuildExam(req, current.CreatedBy)
	if err != nil {
		return nil, err
	}
	rebuilt.ID = id

	if err := s.Exams.UpdateWithVersion(rebuilt, expectedVersion); err != nil {
		return nil, err
	}
	return rebuilt, nil
}

func (s *ExamService) CancelExam(id uint, actor *util.Claims, now time.Time) (*model.Exam, error) {
	exam, err := s.Exams.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !s.canMutate(exam, actor) {
		return nil, util.ErrPermissionDenied
	}

	if err := Cancel(exam, now); err != nil {
		return nil, err
	}
	if err := s.Exams.UpdateStatus(id, model.StatusCancelled); err != nil {
		return nil, err
	}

	s.Notifier.Fire(EventExamCancelled, exam)
	return exam, nil
}

func (s *ExamService) DeleteExam(id uint, actor *util.Claims, now time.Time) error {
	exam, err := s.Exams.FindByID(id)
	if err != nil {
		return err
	}
	if !s.canMutate(exam, actor) {
		return util.ErrPermissionDenied
	}
	if !CanDelete(exam, now) {
		return util.ErrInvalidTransition
	}
	return s.Exams.Delete(id)
}

// Bulk actions over exam definitions.
const (
	BulkPublish   = "publish"
	BulkUnpublish = "unpublish"
	BulkDelete    = "delete"
)

type BulkItemResult struct {
	ExamID uint   `json:"examId"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// BulkAction applies one action per item, atomically per exam: a
// failure on one item is recorded and the rest proceed, so the caller
// can retry failures individually.
func (s *ExamService) BulkAction(action string, ids []uint, actor *util.Claims, now time.Time) ([]BulkItemResult, error) {
	if action != BulkPublish && action != BulkUnpublish && action != BulkDelete {
		return nil, util.NewValidationError("bulk", []util.FieldError{
			{Field: "action", Message: "must be one of publish, unpublish, delete"},
		})
	}

	out := make([]BulkItemResult, 0, len(ids))
	for _, id := range ids {
		var err error
		switch action {
		case BulkPublish:
			err = s.setPublished(id, true, actor, now)
		case BulkUnpublish:
			err = s.setPublished(id, false, actor, now)
		case BulkDelete:
			err = s.DeleteExam(id, actor, now)
		}
		item := BulkItemResult{ExamID: id, OK: err == nil}
		if err != nil {
			item.Error = err.Error()
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *ExamService) setPublished(id uint, published bool, actor *util.Claims, now time.Time) error {
	exam, err := s.Exams.FindByID(id)
	if err != nil {
		return err
	}
	if !s.canMutate(exam, actor) {
		return util.ErrPermissionDenied
	}

	status := EffectiveStatus(exam, now)
	if published {
		if status != model.StatusDraft && status != model.StatusScheduled {
			return util.ErrInvalidTransition
		}
		exam.Access.IsPublished = true
		exam.Status = model.StatusScheduled
	} else {
		// Unpublishing is only meaningful before the exam starts.
		if status != model.StatusScheduled && status != model.StatusDraft {
			return util.ErrInvalidTransition
		}
		exam.Access.IsPublished = false
		exam.Status = model.StatusDraft
	}

	return s.Exams.UpdateWithVersion(exam, exam.Version)
}

// SyncStatuses advances scheduled/ongoing exams whose window has moved
// on. Driven by the background ticker; terminal exams are never read.
func (s *ExamService) SyncStatuses(now time.Time) error {
	exams, err := s.Exams.ListNonTerminal()
	if err != nil {
		return err
	}
	for i := range exams {
		effective := EffectiveStatus(&exams[i], now)
		if effective == exams[i].Status {
			continue
		}
		if err := s.Exams.UpdateStatus(exams[i].ID, effective); err != nil {
			logger.Log.Warn("sync exam status",
				zap.Uint("examId", exams[i].ID), zap.Error(err))
		}
	}
	return nil
}

type StatsOverview struct {
	TotalExams    int64                        `json:"totalExams"`
	ByStatus      map[model.ExamStatus]int64   `json:"byStatus"`
	ResultsByGate map[model.ResultStatus]int64 `json:"resultsByStatus"`
	PassRate      float64                      `json:"passRate"`
}

// Stats summarizes exams by effective status plus cohort pass rates.
func (s *ExamService) Stats(now time.Time) (*StatsOverview, error) {
	exams, err := s.Exams.ListAll()
	if err != nil {
		return nil, err
	}

	overview := &StatsOverview{
		TotalExams: int64(len(exams)),
		ByStatus:   make(map[model.ExamStatus]int64),
	}
	for i := range exams {
		overview.ByStatus[EffectiveStatus(&exams[i], now)]++
	}

	counts, err := s.Results.CountByStatus()
	if err != nil {
		return nil, err
	}
	overview.ResultsByGate = counts

	evaluated := counts[model.ResultPassed] + counts[model.ResultFailed]
	if evaluated > 0 {
		overview.PassRate = float64(counts[model.ResultPassed]) / float64(evaluated) * 100
	}
	return overview, nil
}
