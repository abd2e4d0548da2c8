package services

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateExamRequest = validator.ExamCreateRequest
type UpdateExamRequest = validator.ExamUpdateRequest
type SubmitExamRequest = validator.SubmitExamRequest
type SetActiveRequest = validator.SetActiveRequest

// ExamResponse is the read-side view of an exam. Display-only fields
// (availability projection, counts, resolved reference names) live here,
// never on the stored entity.
type ExamResponse struct {
	*models.Exam
	SubjectName    string               `json:"subject_name,omitempty"`
	TeacherName    string               `json:"teacher_name,omitempty"`
	QuestionsCount int                  `json:"questions_count"`
	Availability   *models.Availability `json:"availability,omitempty"`
}

type ExamListResponse struct {
	Exams []*ExamResponse `json:"exams"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// ===== SUBMISSION RELATED DTOs =====

// SubmissionResponse is the read-side view of a result. QuestionAnalysis
// shadows the embedded entity's field so submission responses can withhold
// the per-question breakdown without mutating the stored row.
type SubmissionResponse struct {
	*models.ExamResult
	ExamTitle        string                                       `json:"exam_title,omitempty"`
	QuestionAnalysis datatypes.JSONSlice[models.QuestionAnalysis] `json:"question_analysis,omitempty"`
}

type ResultListResponse struct {
	Results []*SubmissionResponse `json:"results"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Size    int                   `json:"size"`
}

type ExamStatsResponse struct {
	ExamID uint                          `json:"exam_id"`
	Stats  *repositories.ExamResultStats `json:"stats"`
}

// ===== SERVICE INTERFACES =====

type ExamService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateExamRequest) (*ExamResponse, error)
	GetByID(ctx context.Context, id uint) (*ExamResponse, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest) (*ExamResponse, error)
	Delete(ctx context.Context, id uint) error

	// List operations
	List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error)
	ListBySubject(ctx context.Context, subjectID uint, filters repositories.ExamFilters) (*ExamListResponse, error)

	// State management
	SetActive(ctx context.Context, id uint, active bool) (*ExamResponse, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, examID uint, req *SubmitExamRequest) (*SubmissionResponse, error)
}

type ResultService interface {
	GetByID(ctx context.Context, id uint) (*SubmissionResponse, error)
	GetByStudentAndExam(ctx context.Context, studentID, examID uint) (*SubmissionResponse, error)
	ListByExam(ctx context.Context, examID uint, filters repositories.ResultFilters) (*ResultListResponse, error)
	ListBySubject(ctx context.Context, subjectID uint, filters repositories.ResultFilters) (*ResultListResponse, error)
	GetExamStats(ctx context.Context, examID uint) (*ExamStatsResponse, error)
}

type ExportService interface {
	ExportResultsByExam(ctx context.Context, examID uint) (*excelize.File, string, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager provides access to all services
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Exam() ExamService
	Submission() SubmissionService
	Result() ResultService
	Export() ExportService

	// Health and lifecycle
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// now returns the current time; replaceable in tests
var now = time.Now
