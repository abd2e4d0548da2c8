package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/cache"
	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewResultPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a result row. The composite unique index on
// (student_id, exam_id) rejects concurrent duplicates; callers classify
// the failure with repositories.IsDuplicateError. The raw error is
// wrapped, not swallowed, so classification still works through the chain.
func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.ExamResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create exam result: %w", err)
	}

	cache.SafeDelete(ctx, r.cacheManager.Stats, fmt.Sprintf("exam:%d", result.ExamID))

	return nil
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ExamResult, error) {
	var result models.ExamResult
	err := r.getDB(tx).WithContext(ctx).
		Preload("Student").
		First(&result, id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByStudentAndExam is the duplicate-detection read used by the
// submission path. Not cached: it must observe committed writes.
func (r *ResultPostgreSQL) GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.ExamResult, error) {
	var result models.ExamResult
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListByExam retrieves results for one exam
func (r *ResultPostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID uint, filters repositories.ResultFilters) ([]*models.ExamResult, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.ExamResult{}).
		Where("exam_id = ?", examID)

	query = r.helpers.ApplyResultFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var results []*models.ExamResult
	err := query.Preload("Student").Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// ListBySubject joins through exams to collect results for a subject
func (r *ResultPostgreSQL) ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint, filters repositories.ResultFilters) ([]*models.ExamResult, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.ExamResult{}).
		Joins("JOIN exams ON exams.id = exam_results.exam_id").
		Where("exams.subject_id = ?", subjectID)

	query = r.helpers.ApplyResultFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var results []*models.ExamResult
	err := query.Preload("Student").Preload("Exam").Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// DeleteByExam removes every result of an exam and reports how many rows
// went away. Only the exam deletion cascade calls this.
func (r *ResultPostgreSQL) DeleteByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error) {
	db := r.getDB(tx)

	res := db.WithContext(ctx).Where("exam_id = ?", examID).Delete(&models.ExamResult{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete exam results: %w", res.Error)
	}

	cache.SafeDelete(ctx, r.cacheManager.Stats, fmt.Sprintf("exam:%d", examID))

	return res.RowsAffected, nil
}

func (r *ResultPostgreSQL) CountByExam(ctx context.Context, tx *gorm.DB, examID uint) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.ExamResult{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, err
}

// GetExamStats aggregates pass rate and averages for one exam, cached
func (r *ResultPostgreSQL) GetExamStats(ctx context.Context, tx *gorm.DB, examID uint) (*repositories.ExamResultStats, error) {
	cacheKey := fmt.Sprintf("exam:%d", examID)
	var stats repositories.ExamResultStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		db := r.getDB(tx)
		fresh := &repositories.ExamResultStats{}

		total, err := r.CountByExam(ctx, tx, examID)
		if err != nil {
			return nil, err
		}

		if total == 0 {
			return fresh, nil
		}

		var passed int64
		db.WithContext(ctx).
			Model(&models.ExamResult{}).
			Where("exam_id = ? AND passed = ?", examID, true).
			Count(&passed)

		var avgPercent, avgTimeSpent float64
		db.WithContext(ctx).
			Model(&models.ExamResult{}).
			Select("AVG(percentage), AVG(time_spent)").
			Where("exam_id = ?", examID).
			Row().
			Scan(&avgPercent, &avgTimeSpent)

		fresh.TotalResults = int(total)
		fresh.PassedResults = int(passed)
		fresh.PassRate = float64(passed) / float64(total) * 100
		fresh.AveragePercent = avgPercent
		fresh.AverageTimeSpent = int(avgTimeSpent)

		return fresh, nil
	})

	if err != nil {
		return nil, err
	}

	return &stats, nil
}
