package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/events"
	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/validator"
)

type examService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewExamService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ExamService {
	return &examService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *examService) Create(ctx context.Context, req *CreateExamRequest) (*ExamResponse, error) {
	s.logger.Info("Creating exam", "title", req.Title, "subject_id", req.SubjectID)

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidateExamCreate(req); len(errs) > 0 {
		return nil, errs
	}

	// Verify external references
	if err := s.checkReferences(ctx, req.SubjectID, req.ClassID, req.SchoolID, req.TeacherID); err != nil {
		return nil, err
	}

	totalMarks := validator.EffectiveTotalMarks(req.TotalMarks, req.Questions)
	passingMarks := PassingMarksDefault(totalMarks)
	if req.PassingMarks != nil {
		passingMarks = *req.PassingMarks
	}

	scheduleType := models.ScheduleFlexible
	if req.ScheduleType != nil {
		scheduleType = *req.ScheduleType
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	exam := &models.Exam{
		Title:          req.Title,
		Description:    req.Description,
		SubjectID:      req.SubjectID,
		ClassID:        req.ClassID,
		SchoolID:       req.SchoolID,
		TeacherID:      req.TeacherID,
		TotalMarks:     totalMarks,
		PassingMarks:   passingMarks,
		ScheduleType:   scheduleType,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
		IsActive:       true,
		Questions:      questions,
	}

	if req.RandomizeQuestions != nil {
		exam.RandomizeQuestions = *req.RandomizeQuestions
	}
	exam.ShowResultsImmediately = true
	if req.ShowResultsImmediately != nil {
		exam.ShowResultsImmediately = *req.ShowResultsImmediately
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Create(ctx, nil, exam); err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam created successfully", "exam_id", exam.ID)

	s.publishEvent(ctx, events.TopicExamEvents, events.EventExamCreated, events.ExamCreatedEvent{
		ExamID:    exam.ID,
		SubjectID: exam.SubjectID,
		Title:     exam.Title,
	})

	return s.GetByID(ctx, exam.ID)
}

func (s *examService) GetByID(ctx context.Context, id uint) (*ExamResponse, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	return s.buildExamResponse(exam), nil
}

func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest) (*ExamResponse, error) {
	s.logger.Info("Updating exam", "exam_id", id)

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateExamUpdate(req, exam); len(errs) > 0 {
		return nil, errs
	}

	var newQuestions []models.Question
	if len(req.Questions) > 0 {
		newQuestions, err = buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
	}

	applyExamPatch(exam, req)

	// Passing marks can never exceed the post-update total
	if exam.PassingMarks > exam.TotalMarks {
		return nil, validator.ValidationErrors{{
			Field:   "passing_marks",
			Message: fmt.Sprintf("cannot exceed total marks (%d)", exam.TotalMarks),
			Value:   exam.PassingMarks,
			Rule:    "business_logic",
		}}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if newQuestions != nil {
			if err := txRepo.Exam().ReplaceQuestions(ctx, nil, exam.ID, newQuestions); err != nil {
				return fmt.Errorf("failed to replace questions: %w", err)
			}
		}
		if err := txRepo.Exam().Update(ctx, nil, exam); err != nil {
			return fmt.Errorf("failed to update exam: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam updated successfully", "exam_id", exam.ID)

	s.publishEvent(ctx, events.TopicExamEvents, events.EventExamUpdated, events.ExamUpdatedEvent{
		ExamID:    exam.ID,
		SubjectID: exam.SubjectID,
	})

	return s.GetByID(ctx, exam.ID)
}

func (s *examService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting exam", "exam_id", id)

	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to get exam: %w", err)
	}

	// Results, questions and the exam row go in one transaction so a
	// partial cascade is never observable.
	var resultsRemoved int64
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		removed, err := txRepo.Result().DeleteByExam(ctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to delete exam results: %w", err)
		}
		resultsRemoved = removed

		if err := txRepo.Exam().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete exam: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Exam deleted successfully", "exam_id", id, "results_removed", resultsRemoved)

	s.publishEvent(ctx, events.TopicExamEvents, events.EventExamDeleted, events.ExamDeletedEvent{
		ExamID:         id,
		SubjectID:      exam.SubjectID,
		ResultsRemoved: resultsRemoved,
	})

	return nil
}

// ===== LIST OPERATIONS =====

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error) {
	exams, total, err := s.repo.Exam().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	return s.buildExamListResponse(exams, total, filters.Limit, filters.Offset), nil
}

func (s *examService) ListBySubject(ctx context.Context, subjectID uint, filters repositories.ExamFilters) (*ExamListResponse, error) {
	exists, err := s.repo.Reference().SubjectExists(ctx, nil, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject: %w", err)
	}
	if !exists {
		return nil, ErrSubjectNotFound
	}

	exams, total, err := s.repo.Exam().ListBySubject(ctx, nil, subjectID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams by subject: %w", err)
	}

	return s.buildExamListResponse(exams, total, filters.Limit, filters.Offset), nil
}

// ===== STATE MANAGEMENT =====

func (s *examService) SetActive(ctx context.Context, id uint, active bool) (*ExamResponse, error) {
	s.logger.Info("Setting exam active state", "exam_id", id, "active", active)

	exists, err := s.repo.Exam().Exists(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam: %w", err)
	}
	if !exists {
		return nil, ErrExamNotFound
	}

	if err := s.repo.Exam().UpdateActive(ctx, nil, id, active); err != nil {
		return nil, fmt.Errorf("failed to update exam active state: %w", err)
	}

	return s.GetByID(ctx, id)
}

// ===== HELPERS =====

func (s *examService) checkReferences(ctx context.Context, subjectID, classID, schoolID, teacherID uint) error {
	exists, err := s.repo.Reference().SubjectExists(ctx, nil, subjectID)
	if err != nil {
		return fmt.Errorf("failed to check subject: %w", err)
	}
	if !exists {
		return ErrSubjectNotFound
	}

	if classID != 0 {
		exists, err := s.repo.Reference().ClassExists(ctx, nil, classID)
		if err != nil {
			return fmt.Errorf("failed to check class: %w", err)
		}
		if !exists {
			return ErrClassNotFound
		}
	}

	if schoolID != 0 {
		exists, err := s.repo.Reference().SchoolExists(ctx, nil, schoolID)
		if err != nil {
			return fmt.Errorf("failed to check school: %w", err)
		}
		if !exists {
			return ErrSchoolNotFound
		}
	}

	if teacherID != 0 {
		exists, err := s.repo.Reference().TeacherExists(ctx, nil, teacherID)
		if err != nil {
			return fmt.Errorf("failed to check teacher: %w", err)
		}
		if !exists {
			return ErrTeacherNotFound
		}
	}

	return nil
}

func (s *examService) buildExamResponse(exam *models.Exam) *ExamResponse {
	availability := EvaluateAvailability(exam, now())
	resp := &ExamResponse{
		Exam:           exam,
		QuestionsCount: len(exam.Questions),
		Availability:   &availability,
	}
	if exam.Subject != nil {
		resp.SubjectName = exam.Subject.Name
	}
	if exam.Teacher != nil {
		resp.TeacherName = exam.Teacher.Name
	}
	return resp
}

func (s *examService) buildExamListResponse(exams []*models.Exam, total int64, limit, offset int) *ExamListResponse {
	responses := make([]*ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, s.buildExamResponse(exam))
	}

	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}

	return &ExamListResponse{
		Exams: responses,
		Total: total,
		Page:  page,
		Size:  len(responses),
	}
}

func (s *examService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, topic, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}

// buildQuestions converts question DTOs into models with positional order.
func buildQuestions(reqs []validator.QuestionRequest) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(reqs))
	for i, q := range reqs {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode question options: %w", err)
		}

		question := models.Question{
			Position:      i + 1,
			Text:          q.Text,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
			Category:      q.Category,
			Explanation:   q.Explanation,
		}
		if question.Marks <= 0 {
			question.Marks = 1
		}
		if q.Difficulty != nil {
			question.Difficulty = *q.Difficulty
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// applyExamPatch copies the non-nil fields of the patch onto the exam and
// recomputes the dependent scoring fields.
func applyExamPatch(exam *models.Exam, req *UpdateExamRequest) {
	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}

	if len(req.Questions) > 0 {
		exam.TotalMarks = validator.EffectiveTotalMarks(req.TotalMarks, req.Questions)
	} else if req.TotalMarks != nil && *req.TotalMarks > 0 {
		exam.TotalMarks = *req.TotalMarks
	}

	if req.PassingMarks != nil {
		exam.PassingMarks = *req.PassingMarks
	} else if req.PassingPercent != nil {
		exam.PassingMarks = passingMarksFromPercent(exam.TotalMarks, *req.PassingPercent)
	} else if len(req.Questions) > 0 && exam.PassingMarks > exam.TotalMarks {
		exam.PassingMarks = PassingMarksDefault(exam.TotalMarks)
	}

	// A supplied schedule type replaces the whole scheduling block; bounds
	// absent from the request are cleared, not carried over.
	if req.ScheduleType != nil {
		exam.ScheduleType = *req.ScheduleType
		exam.StartTime = req.StartTime
		exam.EndTime = req.EndTime
		exam.AvailableFrom = req.AvailableFrom
		exam.AvailableUntil = req.AvailableUntil
	}

	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if req.RandomizeQuestions != nil {
		exam.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.ShowResultsImmediately != nil {
		exam.ShowResultsImmediately = *req.ShowResultsImmediately
	}
}

func passingMarksFromPercent(totalMarks, percent int) int {
	return (totalMarks*percent + 99) / 100
}
