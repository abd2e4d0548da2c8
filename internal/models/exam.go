package models

import (
	"time"

	"gorm.io/datatypes"
)

type ScheduleType string

const (
	ScheduleFixed    ScheduleType = "fixed"
	ScheduleFlexible ScheduleType = "flexible"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Exam struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`

	// External references, validated for existence but owned elsewhere
	SubjectID uint `json:"subject_id" gorm:"not null;index" validate:"required"`
	ClassID   uint `json:"class_id" gorm:"index"`
	SchoolID  uint `json:"school_id" gorm:"index"`
	TeacherID uint `json:"teacher_id" gorm:"index"`

	// Scoring configuration
	TotalMarks   int `json:"total_marks" gorm:"not null" validate:"min=1"`
	PassingMarks int `json:"passing_marks" gorm:"not null" validate:"min=0"`

	// Scheduling: fixed uses StartTime/EndTime, flexible uses AvailableFrom/AvailableUntil
	ScheduleType   ScheduleType `json:"schedule_type" gorm:"default:flexible;index" validate:"omitempty,oneof=fixed flexible"`
	StartTime      *time.Time   `json:"start_time"`
	EndTime        *time.Time   `json:"end_time"`
	AvailableFrom  *time.Time   `json:"available_from"`
	AvailableUntil *time.Time   `json:"available_until"`

	IsActive               bool `json:"is_active" gorm:"default:true;index"`
	RandomizeQuestions     bool `json:"randomize_questions" gorm:"default:false"`
	ShowResultsImmediately bool `json:"show_results_immediately" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:ExamID"`
	Subject   *Subject   `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Class     *Class     `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Teacher   *Teacher   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// Availability is a read-time projection derived from the exam's schedule
// and the evaluation clock. It is never persisted; read responses carry it
// alongside the exam.
type Availability struct {
	IsCurrentlyAvailable bool `json:"is_currently_available"`
	IsUpcoming           bool `json:"is_upcoming"`
	HasEnded             bool `json:"has_ended"`
}

type Question struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ExamID   uint `json:"exam_id" gorm:"not null;index"`
	Position int  `json:"position" gorm:"not null;index"`

	Text          string          `json:"text" gorm:"not null;type:text" validate:"required,min=1,max=2000"`
	Options       datatypes.JSON  `json:"options" gorm:"not null;type:jsonb"`
	CorrectAnswer string          `json:"correct_answer" gorm:"not null;size:5" validate:"required"`
	Marks         int             `json:"marks" gorm:"default:1" validate:"min=1,max=100"`
	Difficulty    DifficultyLevel `json:"difficulty" gorm:"size:20" validate:"omitempty,oneof=easy medium hard"`
	Category      *string         `json:"category" gorm:"size:100" validate:"omitempty,max=100"`
	Explanation   *string         `json:"explanation" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exams"
}

func (Question) TableName() string {
	return "exam_questions"
}

// EffectiveMarks returns the marks awarded for a correct answer,
// defaulting to 1 when the question was stored without a weight.
func (q *Question) EffectiveMarks() int {
	if q.Marks <= 0 {
		return 1
	}
	return q.Marks
}
