package repository

import (
	"errors"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) FindByExamAndStudent(examID, studentID uint) (*model.Result, error) {
	var res model.Result
	err := r.DB.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	return &res, err
}

func (r *ResultRepository) Save(res *model.Result) error {
	return r.DB.Save(res).Error
}

// ListByExam returns the whole cohort for one exam in a single query,
// giving rank computation its point-in-time snapshot.
func (r *ResultRepository) ListByExam(examID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Where("exam_id = ?", examID).
		Order("effective_marks desc").Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListByStudent(studentID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at desc").Find(&results).Error
	return results, err
}

// SaveRanks writes recomputed ranks for an exam cohort in one
// transaction so readers never observe a half-ranked cohort.
func (r *ResultRepository) SaveRanks(results []model.Result) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range results {
			if err := tx.Model(&model.Result{}).
				Where("id = ?", results[i].ID).
				Update("rank", results[i].Rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByStatus aggregates results across all exams for the stats
// dashboard.
func (r *ResultRepository) CountByStatus() (map[model.ResultStatus]int64, error) {
	type row struct {
		Status model.ResultStatus
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.Result{}).
		Select("status, count(*) as count").
		Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ResultStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// PublishByExam flips the published flag for every evaluated result of
// the exam and reports how many rows it touched.
func (r *ResultRepository) PublishByExam(examID uint) (int64, error) {
	res := r.DB.Model(&model.Result{}).
		Where("exam_id = ? AND status <> ?", examID, model.ResultPending).
		Update("published", true)
	return res.RowsAffected, res.Error
}
