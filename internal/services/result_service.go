package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
)

type resultService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewResultService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ResultService {
	return &resultService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *resultService) GetByID(ctx context.Context, id uint) (*SubmissionResponse, error) {
	result, err := s.repo.Result().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return buildResultResponse(result), nil
}

func (s *resultService) GetByStudentAndExam(ctx context.Context, studentID, examID uint) (*SubmissionResponse, error) {
	result, err := s.repo.Result().GetByStudentAndExam(ctx, nil, studentID, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return buildResultResponse(result), nil
}

func (s *resultService) ListByExam(ctx context.Context, examID uint, filters repositories.ResultFilters) (*ResultListResponse, error) {
	exists, err := s.repo.Exam().Exists(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam: %w", err)
	}
	if !exists {
		return nil, ErrExamNotFound
	}

	results, total, err := s.repo.Result().ListByExam(ctx, nil, examID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return buildResultListResponse(results, total, filters.Limit, filters.Offset), nil
}

func (s *resultService) ListBySubject(ctx context.Context, subjectID uint, filters repositories.ResultFilters) (*ResultListResponse, error) {
	exists, err := s.repo.Reference().SubjectExists(ctx, nil, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject: %w", err)
	}
	if !exists {
		return nil, ErrSubjectNotFound
	}

	results, total, err := s.repo.Result().ListBySubject(ctx, nil, subjectID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results by subject: %w", err)
	}

	return buildResultListResponse(results, total, filters.Limit, filters.Offset), nil
}

func (s *resultService) GetExamStats(ctx context.Context, examID uint) (*ExamStatsResponse, error) {
	exists, err := s.repo.Exam().Exists(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam: %w", err)
	}
	if !exists {
		return nil, ErrExamNotFound
	}

	stats, err := s.repo.Result().GetExamStats(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam stats: %w", err)
	}

	return &ExamStatsResponse{
		ExamID: examID,
		Stats:  stats,
	}, nil
}

func buildResultResponse(result *models.ExamResult) *SubmissionResponse {
	resp := &SubmissionResponse{
		ExamResult:       result,
		QuestionAnalysis: result.QuestionAnalysis,
	}
	if result.Exam != nil {
		resp.ExamTitle = result.Exam.Title
	}
	return resp
}

func buildResultListResponse(results []*models.ExamResult, total int64, limit, offset int) *ResultListResponse {
	responses := make([]*SubmissionResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, buildResultResponse(result))
	}

	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}

	return &ResultListResponse{
		Results: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}
}
