package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExamResult is the single persisted outcome of one student's attempt at
// one exam. The composite unique index on (student_id, exam_id) is the
// storage-level authority for the one-attempt rule; application checks are
// advisory only. A result is immutable after insert and is removed only by
// cascade deletion of its exam.
type ExamResult struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_exam_results_student_exam" validate:"required"`
	ExamID    uint `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_results_student_exam" validate:"required"`

	// Submitted data
	Answers   datatypes.JSONType[map[string]string] `json:"answers" gorm:"type:jsonb"`
	TimeSpent int                                   `json:"time_spent"` // seconds
	StartTime time.Time                             `json:"start_time"`
	EndTime   time.Time                             `json:"end_time"`

	// Derived data, computed once at submission
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	TotalMarks     int  `json:"total_marks"`
	ObtainedMarks  int  `json:"obtained_marks"`
	Percentage     int  `json:"percentage"`
	Passed         bool `json:"passed"`

	QuestionAnalysis datatypes.JSONSlice[QuestionAnalysis] `json:"question_analysis" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Exam    *Exam    `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// QuestionAnalysis is one row of the per-question breakdown stored with a
// result, in exam question order.
type QuestionAnalysis struct {
	QuestionID    uint    `json:"question_id"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Marks         int     `json:"marks"`
	MarksObtained int     `json:"marks_obtained"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}

// Summary returns the compact view carried by duplicate-submission
// responses so callers can render a review state without a second fetch.
func (r *ExamResult) Summary() ResultSummary {
	return ResultSummary{
		ResultID:      r.ID,
		ObtainedMarks: r.ObtainedMarks,
		TotalMarks:    r.TotalMarks,
		Percentage:    r.Percentage,
		Passed:        r.Passed,
		EndTime:       r.EndTime,
	}
}

type ResultSummary struct {
	ResultID      uint      `json:"result_id"`
	ObtainedMarks int       `json:"obtained_marks"`
	TotalMarks    int       `json:"total_marks"`
	Percentage    int       `json:"percentage"`
	Passed        bool      `json:"passed"`
	EndTime       time.Time `json:"end_time"`
}
