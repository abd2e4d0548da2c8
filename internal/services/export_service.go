package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportResultsByExam builds an xlsx workbook with one row per recorded
// result. Returns the workbook and a suggested filename.
func (s *exportService) ExportResultsByExam(ctx context.Context, examID uint) (*excelize.File, string, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", fmt.Errorf("failed to get exam: %w", err)
	}

	// Export is unpaginated on purpose; pull everything in result order.
	results, _, err := s.repo.Result().ListByExam(ctx, nil, examID, repositories.ResultFilters{
		SortBy:    "end_time",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Results"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"Student ID", "Student Name", "Score", "Obtained Marks", "Total Marks", "Percentage", "Passed", "Time Spent (s)", "Submitted At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, result := range results {
		studentName := ""
		if result.Student != nil {
			studentName = result.Student.Name
		}

		row := []interface{}{
			result.StudentID,
			studentName,
			result.Score,
			result.ObtainedMarks,
			result.TotalMarks,
			result.Percentage,
			result.Passed,
			result.TimeSpent,
			result.EndTime.Format(time.RFC3339),
		}

		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write result row: %w", err)
			}
		}
	}

	s.logger.Info("Exported exam results", "exam_id", examID, "rows", len(results))

	filename := fmt.Sprintf("exam_%d_results_%s.xlsx", exam.ID, time.Now().Format("20060102"))
	return f, filename, nil
}
