package validator

import (
	"time"

	"github.com/edusphere/exam-service/internal/models"
)

// QuestionRequest carries one question of an exam draft. Position is
// implied by slice order.
type QuestionRequest struct {
	Text          string                  `json:"text" validate:"required,min=1,max=2000"`
	Options       []string                `json:"options" validate:"required,min=2,max=6,dive,required,max=500"`
	CorrectAnswer string                  `json:"correct_answer" validate:"required,option_letter"`
	Marks         int                     `json:"marks" validate:"omitempty,min=1,max=100"`
	Difficulty    *models.DifficultyLevel `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Category      *string                 `json:"category" validate:"omitempty,max=100"`
	Explanation   *string                 `json:"explanation" validate:"omitempty,max=1000"`
}

// ExamCreateRequest represents the request structure for creating exams
type ExamCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	SubjectID uint `json:"subject_id" validate:"required"`
	ClassID   uint `json:"class_id"`
	SchoolID  uint `json:"school_id"`
	TeacherID uint `json:"teacher_id"`

	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`

	// TotalMarks overrides the question-mark sum when positive.
	// PassingMarks defaults to ceil(totalMarks * 0.6) when omitted.
	TotalMarks   *int `json:"total_marks" validate:"omitempty,min=1"`
	PassingMarks *int `json:"passing_marks" validate:"omitempty,min=0"`

	ScheduleType   *models.ScheduleType `json:"schedule_type" validate:"omitempty,oneof=fixed flexible"`
	StartTime      *time.Time           `json:"start_time"`
	EndTime        *time.Time           `json:"end_time"`
	AvailableFrom  *time.Time           `json:"available_from"`
	AvailableUntil *time.Time           `json:"available_until"`

	RandomizeQuestions     *bool `json:"randomize_questions"`
	ShowResultsImmediately *bool `json:"show_results_immediately"`
}

// ExamUpdateRequest is a patch. Nil fields are left untouched. A non-nil
// Questions slice replaces the question set and recomputes total marks.
// When ScheduleType is supplied the whole scheduling block is replaced:
// time bounds present in the request are set, absent ones are cleared.
type ExamUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	Questions []QuestionRequest `json:"questions" validate:"omitempty,min=1,dive"`

	TotalMarks   *int `json:"total_marks" validate:"omitempty,min=1"`
	PassingMarks *int `json:"passing_marks" validate:"omitempty,min=0"`
	// PassingPercent recomputes passing marks as ceil(totalMarks * pct / 100)
	// against the post-update total. Mutually exclusive with PassingMarks.
	PassingPercent *int `json:"passing_percent" validate:"omitempty,min=0,max=100"`

	ScheduleType   *models.ScheduleType `json:"schedule_type" validate:"omitempty,oneof=fixed flexible"`
	StartTime      *time.Time           `json:"start_time"`
	EndTime        *time.Time           `json:"end_time"`
	AvailableFrom  *time.Time           `json:"available_from"`
	AvailableUntil *time.Time           `json:"available_until"`

	IsActive               *bool `json:"is_active"`
	RandomizeQuestions     *bool `json:"randomize_questions"`
	ShowResultsImmediately *bool `json:"show_results_immediately"`
}

// SubmitExamRequest represents one student's answer set for an exam.
// Answers maps question ID (decimal string) to the selected option letter.
// Unanswered questions are simply absent and are graded as incorrect.
type SubmitExamRequest struct {
	StudentID uint              `json:"student_id" validate:"required"`
	Answers   map[string]string `json:"answers"`
	TimeSpent int               `json:"time_spent" validate:"min=0"`
	StartTime *time.Time        `json:"start_time"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
