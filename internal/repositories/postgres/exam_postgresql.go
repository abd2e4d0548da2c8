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

type ExamPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewExamPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExamRepository {
	return &ExamPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (e *ExamPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// Create persists a new exam together with its question rows and
// invalidates list caches
func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, e.cacheManager.Exam, fmt.Sprintf("subject:%d:*", exam.SubjectID))
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Exam, "list:*")

	return nil
}

// GetByID retrieves an exam without its question rows, cached
func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var exam models.Exam

	err := e.cacheManager.Exam.CacheOrExecute(ctx, cacheKey, &exam, cache.ExamCacheConfig.TTL, func() (interface{}, error) {
		var dbExam models.Exam
		err := e.getDB(tx).WithContext(ctx).
			Preload("Subject").
			First(&dbExam, id).Error
		if err != nil {
			return nil, err
		}
		return &dbExam, nil
	})

	if err != nil {
		return nil, err
	}

	return &exam, nil
}

// GetByIDWithQuestions retrieves an exam with its full ordered question set
func (e *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var exam models.Exam

	err := e.cacheManager.Exam.CacheOrExecute(ctx, cacheKey, &exam, cache.ExamCacheConfig.TTL, func() (interface{}, error) {
		var dbExam models.Exam
		err := e.getDB(tx).WithContext(ctx).
			Preload("Subject").
			Preload("Teacher").
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("exam_questions.position ASC")
			}).
			First(&dbExam, id).Error
		if err != nil {
			return nil, err
		}

		return &dbExam, nil
	})

	if err != nil {
		return nil, err
	}

	return &exam, nil
}

// Update saves the mutable exam columns and invalidates cached reads
func (e *ExamPostgreSQL) Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	db := e.getDB(tx)

	if err := db.WithContext(ctx).Model(&models.Exam{}).Where("id = ?", exam.ID).Updates(map[string]interface{}{
		"title":                    exam.Title,
		"description":              exam.Description,
		"total_marks":              exam.TotalMarks,
		"passing_marks":            exam.PassingMarks,
		"schedule_type":            exam.ScheduleType,
		"start_time":               exam.StartTime,
		"end_time":                 exam.EndTime,
		"available_from":           exam.AvailableFrom,
		"available_until":          exam.AvailableUntil,
		"is_active":                exam.IsActive,
		"randomize_questions":      exam.RandomizeQuestions,
		"show_results_immediately": exam.ShowResultsImmediately,
		"updated_at":               exam.UpdatedAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, exam.ID, exam.SubjectID)

	return nil
}

// UpdateActive toggles the stored Active/Inactive state
func (e *ExamPostgreSQL) UpdateActive(ctx context.Context, tx *gorm.DB, id uint, active bool) error {
	db := e.getDB(tx)

	var exam models.Exam
	if err := db.WithContext(ctx).Select("id, subject_id").First(&exam, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return err
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, id, exam.SubjectID)

	return nil
}

// Delete removes the exam row. The service layer is responsible for
// running this after DeleteByExam on results, inside one transaction.
func (e *ExamPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)

	var exam models.Exam
	if err := db.WithContext(ctx).Select("id, subject_id").First(&exam, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete exam questions: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Exam{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, id, exam.SubjectID)

	return nil
}

// ReplaceQuestions swaps the full question set of an exam. Position is
// reassigned from slice order.
func (e *ExamPostgreSQL) ReplaceQuestions(ctx context.Context, tx *gorm.DB, examID uint, questions []models.Question) error {
	db := e.getDB(tx)

	if err := db.WithContext(ctx).Where("exam_id = ?", examID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to clear exam questions: %w", err)
	}

	for i := range questions {
		questions[i].ID = 0
		questions[i].ExamID = examID
		questions[i].Position = i + 1
	}

	if err := db.WithContext(ctx).Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to insert exam questions: %w", err)
	}

	cache.SafeDelete(ctx, e.cacheManager.Exam,
		fmt.Sprintf("id:%d", examID),
		fmt.Sprintf("details:%d", examID))

	return nil
}

// List retrieves exams with filters and pagination
func (e *ExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	query := e.getDB(tx).WithContext(ctx).Model(&models.Exam{})

	query = e.helpers.ApplyExamFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var exams []*models.Exam
	err := query.Preload("Subject").Find(&exams).Error
	if err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

// ListBySubject retrieves exams belonging to one subject
func (e *ExamPostgreSQL) ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	filters.SubjectID = &subjectID
	return e.List(ctx, tx, filters)
}

// Exists checks exam existence without loading the row
func (e *ExamPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Count(&count).Error

	return count > 0, err
}
