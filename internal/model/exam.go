package model

import (
	"time"
)

type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusScheduled ExamStatus = "scheduled"
	StatusOngoing   ExamStatus = "ongoing"
	StatusCompleted ExamStatus = "completed"
	StatusCancelled ExamStatus = "cancelled"
)

// IsTerminal reports whether the status is sticky: once an exam is
// completed or cancelled it never recomputes from the schedule again.
func (s ExamStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Term string

const (
	TermFirst  Term = "first"
	TermSecond Term = "second"
	TermFinal  Term = "final"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question type catalog. QuestionPaper.QuestionTypes must only contain
// these identifiers.
const (
	QuestionMCQ       = "mcq"
	QuestionWritten   = "written"
	QuestionTrueFalse = "truefalse"
	QuestionFillBlank = "fillblank"
	QuestionShort     = "short"
	QuestionLong      = "long"
	QuestionPractical = "practical"
)

// Schedule holds the date/time window of an exam. Duration is derived
// from StartTime/EndTime and wraps past midnight for overnight exams.
type Schedule struct {
	Date         time.Time  `gorm:"type:date" json:"date"`
	StartTime    string     `gorm:"size:5" json:"startTime"` // "HH:MM"
	EndTime      string     `gorm:"size:5" json:"endTime"`   // "HH:MM"
	Duration     int        `json:"duration"`                // minutes, derived
	IsOnline     bool       `gorm:"default:false" json:"isOnline"`
	Venue        string     `gorm:"size:255" json:"venue,omitempty"`
	Room         string     `gorm:"size:100" json:"room,omitempty"`
	Invigilators StringList `gorm:"type:json" json:"invigilators,omitempty"`
}

// MarkScheme is the marks distribution of an exam.
// Invariant: PracticalMarks + TheoryMarks == TotalMarks whenever
// HasPractical is set.
type MarkScheme struct {
	TotalMarks               int     `json:"totalMarks"`
	PassingMarks             int     `json:"passingMarks"`
	NegativeMarking          bool    `gorm:"default:false" json:"negativeMarking"`
	NegativeMarksPerQuestion float64 `gorm:"default:0" json:"negativeMarksPerQuestion"`
	HasPractical             bool    `gorm:"default:false" json:"hasPractical"`
	PracticalMarks           int     `gorm:"default:0" json:"practicalMarks"`
	TheoryMarks              int     `gorm:"default:0" json:"theoryMarks"`
}

// PassingPercentage returns PassingMarks as a percentage of TotalMarks.
// Callers must ensure TotalMarks > 0.
func (m MarkScheme) PassingPercentage() float64 {
	return float64(m.PassingMarks) / float64(m.TotalMarks) * 100
}

// QuestionPaper is the question composition of an exam.
// Invariant: when HasSections is set the section question counts sum to
// TotalQuestions and the section marks sum to the scheme's TotalMarks.
type QuestionPaper struct {
	TotalQuestions int        `json:"totalQuestions"`
	QuestionTypes  StringList `gorm:"type:json" json:"questionTypes"`
	Difficulty     Difficulty `gorm:"size:10;default:'medium'" json:"difficulty"`
	HasSections    bool       `gorm:"default:false" json:"hasSections"`
}

type ExamSection struct {
	BaseModel
	ExamID        uint   `gorm:"index;not null" json:"-"`
	Name          string `gorm:"size:100;not null" json:"name"`
	QuestionCount int    `json:"questionCount"`
	Marks         int    `json:"marks"`
	Type          string `gorm:"size:20" json:"type,omitempty"`
	Position      int    `gorm:"default:0" json:"position"`
}

func (ExamSection) TableName() string {
	return "exam_sections"
}

type ExamRules struct {
	Instructions         string     `gorm:"type:text" json:"instructions"`
	AllowedItems         StringList `gorm:"type:json" json:"allowedItems,omitempty"`
	ProhibitedItems      StringList `gorm:"type:json" json:"prohibitedItems,omitempty"`
	LateSubmissionPolicy string     `gorm:"size:255" json:"lateSubmissionPolicy,omitempty"`
}

type AccessPolicy struct {
	IsPublished          bool       `gorm:"default:false" json:"isPublished"`
	AllowResultView      bool       `gorm:"default:true" json:"allowResultView"`
	AllowReview          bool       `gorm:"default:false" json:"allowReview"`
	ShowAnswersAfterExam bool       `gorm:"default:false" json:"showAnswersAfterExam"`
	RequireRegistration  bool       `gorm:"default:false" json:"requireRegistration"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
}

// swagger:model Exam
type Exam struct {
	BaseModel
	Title        string        `gorm:"size:255;not null" json:"title"`
	Code         string        `gorm:"size:50;uniqueIndex;not null" json:"code"`
	SubjectID    uint          `gorm:"index;not null" json:"subjectId"`
	ClassID      uint          `gorm:"index;not null" json:"classId"`
	AcademicYear string        `gorm:"size:20" json:"academicYear"`
	Term         Term          `gorm:"size:10" json:"term"`
	Schedule     Schedule      `gorm:"embedded;embeddedPrefix:schedule_" json:"schedule"`
	Marks        MarkScheme    `gorm:"embedded;embeddedPrefix:marks_" json:"marks"`
	Paper        QuestionPaper `gorm:"embedded;embeddedPrefix:paper_" json:"questions"`
	Sections     []ExamSection `gorm:"foreignKey:ExamID" json:"sections,omitempty"`
	Rules        ExamRules     `gorm:"embedded;embeddedPrefix:rules_" json:"rules"`
	Access       AccessPolicy  `gorm:"embedded;embeddedPrefix:access_" json:"access"`
	Status       ExamStatus    `gorm:"size:10;default:'draft';index" json:"status"`
	CreatedBy    uint          `gorm:"index;not null" json:"createdBy"`
	// Version backs optimistic locking on edits; a stale write fails
	// with a conflict instead of silently overwriting.
	Version int `gorm:"default:1" json:"version"`
}

func (Exam) TableName() string {
	return "exams"
}
