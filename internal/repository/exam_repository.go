package repository

import (
	"errors"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// Create persists a new exam definition. The unique index on code
// performs the institution-wide uniqueness check; its conflict signal
// surfaces as ErrDuplicateCode.
func (r *ExamRepository) Create(exam *model.Exam) error {
	err := r.DB.Create(exam).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateCode
	}
	return err
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&exam, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	return &exam, err
}

func (r *ExamRepository) List(classID, subjectID uint, page, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	query := r.DB.Model(&model.Exam{})
	if classID > 0 {
		query = query.Where("class_id = ?", classID)
	}
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Sections").Order("schedule_date desc, created_at desc").
		Offset(offset).Limit(limit).Find(&exams).Error
	return exams, total, err
}

// ListAll returns every exam definition for statistics computation.
func (r *ExamRepository) ListAll() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Find(&exams).Error
	return exams, err
}

// UpdateWithVersion writes back an edited exam only if nobody else has
// modified it since it was read: the row lock plus version check
// implements optimistic concurrency, and a stale write fails with
// ErrConflict instead of silently overwriting. Sections are replaced
// wholesale because the aggregate was revalidated as a unit.
func (r *ExamRepository) UpdateWithVersion(exam *model.Exam, expectedVersion int) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var current model.Exam
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, exam.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrExamNotFound
			}
			return err
		}
		if current.Version != expectedVersion {
			return util.ErrConflict
		}

		exam.Version = expectedVersion + 1
		exam.CreatedAt = current.CreatedAt

		if err := tx.Where("exam_id = ?", exam.ID).Delete(&model.ExamSection{}).Error; err != nil {
			return err
		}
		for i := range exam.Sections {
			exam.Sections[i].ID = 0
			exam.Sections[i].ExamID = exam.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(exam).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateCode
	}
	return err
}

// UpdateStatus persists a lifecycle move without touching the rest of
// the definition (used by the time-driven sync and cancel).
func (r *ExamRepository) UpdateStatus(id uint, status model.ExamStatus) error {
	return r.DB.Model(&model.Exam{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *ExamRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, id).Error
	})
}

// ListNonTerminal feeds the background status sync; terminal exams are
// sticky and never revisited.
func (r *ExamRepository) ListNonTerminal() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("status IN ?", []model.ExamStatus{
		model.StatusScheduled, model.StatusOngoing,
	}).Find(&exams).Error
	return exams, err
}
