package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	SubjectID *uint      `json:"subject_id"`
	ClassID   *uint      `json:"class_id"`
	TeacherID *uint      `json:"teacher_id"`
	IsActive  *bool      `json:"is_active"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "title"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type ResultFilters struct {
	StudentID *uint      `json:"student_id"`
	Passed    *bool      `json:"passed"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ExamResultStats struct {
	TotalResults     int     `json:"total_results"`
	PassedResults    int     `json:"passed_results"`
	PassRate         float64 `json:"pass_rate"`
	AveragePercent   float64 `json:"average_percent"`
	AverageTimeSpent int     `json:"average_time_spent"`
}

// ===== REPOSITORY INTERFACES =====

// ExamRepository owns exam rows and their ordered question rows. Callers
// pass a transaction handle for operations that must be atomic; nil falls
// back to the default connection.
type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	UpdateActive(ctx context.Context, tx *gorm.DB, id uint, active bool) error

	// Delete removes the exam row only; the service layer drives the full
	// cascade (results, questions, exam) inside one transaction.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Question set management
	ReplaceQuestions(ctx context.Context, tx *gorm.DB, examID uint, questions []models.Question) error

	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, int64, error)
	ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint, filters ExamFilters) ([]*models.Exam, int64, error)

	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// ResultRepository owns exam result rows. Create relies on the composite
// unique index on (student_id, exam_id); duplicate inserts surface as an
// error classified by IsDuplicateError.
type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.ExamResult) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ExamResult, error)
	GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.ExamResult, error)

	ListByExam(ctx context.Context, tx *gorm.DB, examID uint, filters ResultFilters) ([]*models.ExamResult, int64, error)
	ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint, filters ResultFilters) ([]*models.ExamResult, int64, error)

	// DeleteByExam exists only for the exam deletion cascade.
	DeleteByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error)

	CountByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error)
	GetExamStats(ctx context.Context, tx *gorm.DB, examID uint) (*ExamResultStats, error)
}

// ReferenceRepository gives the core narrow read access to externally
// owned entities. Only existence checks are exposed; display names come
// from preloaded relations on exam and result reads.
type ReferenceRepository interface {
	SubjectExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ClassExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	SchoolExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	TeacherExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	StudentExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
