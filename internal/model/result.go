package model

import (
	"time"
)

type ResultStatus string

const (
	ResultPassed  ResultStatus = "passed"
	ResultFailed  ResultStatus = "failed"
	ResultPending ResultStatus = "pending"
)

// Result is one student's outcome for one exam. One row per
// (examId, studentId); re-evaluation mutates the row in place.
// swagger:model Result
type Result struct {
	BaseModel
	ExamID    uint `gorm:"uniqueIndex:idx_results_exam_student;not null" json:"examId"`
	StudentID uint `gorm:"uniqueIndex:idx_results_exam_student;not null" json:"studentId"`
	// ObtainedMarks is the raw entered score before negative marking.
	ObtainedMarks  float64      `json:"obtainedMarks"`
	WrongAnswers   int          `gorm:"default:0" json:"wrongAnswers"`
	EffectiveMarks float64      `json:"effectiveMarks"`
	Percentage     float64      `json:"percentage"`
	Grade          string       `gorm:"size:5" json:"grade"`
	Status         ResultStatus `gorm:"size:10;default:'pending'" json:"status"`
	Rank           int          `gorm:"default:0" json:"rank"`
	Published      bool         `gorm:"default:false;index" json:"published"`
	EvaluatedBy    uint         `json:"evaluatedBy"`
	EvaluatedAt    *time.Time   `json:"evaluatedAt,omitempty"`
}

func (Result) TableName() string {
	return "results"
}
