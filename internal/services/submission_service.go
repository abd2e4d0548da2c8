package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/events"
	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/validator"
)

type submissionService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// Submit grades a student's answer set and records the result. A student
// gets exactly one attempt per exam; the composite unique index on
// (student_id, exam_id) backs the guarantee under concurrent submissions.
func (s *submissionService) Submit(ctx context.Context, examID uint, req *SubmitExamRequest) (*SubmissionResponse, error) {
	s.logger.Info("Processing exam submission", "exam_id", examID, "student_id", req.StudentID)

	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	exists, err := s.repo.Reference().StudentExists(ctx, nil, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	// Advisory pre-check; the unique index below is the real guard. It runs
	// before the availability check so a student who already submitted gets
	// the prior-result payload even after the window closes.
	if prior, err := s.repo.Result().GetByStudentAndExam(ctx, nil, req.StudentID, examID); err == nil {
		return nil, &AlreadySubmittedError{Previous: prior.Summary()}
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check prior submission: %w", err)
	}

	// Availability is re-checked at submission time, not trusted from an
	// earlier read.
	submittedAt := now()
	availability := EvaluateAvailability(exam, submittedAt)
	if !availability.IsCurrentlyAvailable {
		return nil, &NotAvailableError{Availability: availability}
	}

	outcome := GradeSubmission(exam, req.Answers)

	startTime := submittedAt.Add(-time.Duration(req.TimeSpent) * time.Second)
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	result := &models.ExamResult{
		StudentID:        req.StudentID,
		ExamID:           examID,
		Answers:          datatypes.NewJSONType(req.Answers),
		TimeSpent:        req.TimeSpent,
		StartTime:        startTime,
		EndTime:          submittedAt,
		Score:            outcome.Score,
		TotalQuestions:   outcome.TotalQuestions,
		TotalMarks:       outcome.TotalMarks,
		ObtainedMarks:    outcome.ObtainedMarks,
		Percentage:       outcome.Percentage,
		Passed:           outcome.Passed,
		QuestionAnalysis: datatypes.NewJSONSlice(outcome.Analysis),
	}

	if err := s.repo.Result().Create(ctx, nil, result); err != nil {
		if repositories.IsDuplicateError(err) {
			// Lost the race against a concurrent submission; surface the
			// winner's result the same way the pre-check would have.
			prior, readErr := s.repo.Result().GetByStudentAndExam(ctx, nil, req.StudentID, examID)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read prior submission: %w", readErr)
			}
			return nil, &AlreadySubmittedError{Previous: prior.Summary()}
		}
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	s.logger.Info("Exam submission recorded",
		"exam_id", examID,
		"student_id", req.StudentID,
		"result_id", result.ID,
		"percentage", result.Percentage,
		"passed", result.Passed)

	s.publishEvent(ctx, events.TopicResultEvents, events.EventResultRecorded, events.ResultRecordedEvent{
		ResultID:   result.ID,
		ExamID:     examID,
		StudentID:  req.StudentID,
		Percentage: result.Percentage,
		Passed:     result.Passed,
	})

	return s.buildSubmissionResponse(result, exam), nil
}

func (s *submissionService) buildSubmissionResponse(result *models.ExamResult, exam *models.Exam) *SubmissionResponse {
	resp := &SubmissionResponse{
		ExamResult: result,
		ExamTitle:  exam.Title,
	}
	// The per-question breakdown is withheld from students when the exam
	// keeps results hidden; teacher read paths always see the full row.
	if exam.ShowResultsImmediately {
		resp.QuestionAnalysis = result.QuestionAnalysis
	}
	return resp
}

func (s *submissionService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, topic, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
