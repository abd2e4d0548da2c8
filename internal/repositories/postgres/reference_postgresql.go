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

// ReferencePostgreSQL reads externally owned entities. Existence checks
// are cached briefly since these rows change rarely and are hit on every
// exam creation and submission.
type ReferencePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewReferencePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ReferenceRepository {
	return &ReferencePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ReferencePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ReferencePostgreSQL) exists(ctx context.Context, tx *gorm.DB, model interface{}, kind string, id uint) (bool, error) {
	cacheKey := fmt.Sprintf("%s:%d", kind, id)

	var cached bool
	if err := r.cacheManager.Exists.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	found := count > 0
	if found {
		// Only positive results are cached; a missing row may be created
		// at any moment by its owning service.
		_ = r.cacheManager.Exists.Set(ctx, cacheKey, found, cache.ExistsCacheConfig.TTL)
	}

	return found, nil
}

func (r *ReferencePostgreSQL) SubjectExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	return r.exists(ctx, tx, &models.Subject{}, "subject", id)
}

func (r *ReferencePostgreSQL) ClassExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	return r.exists(ctx, tx, &models.Class{}, "class", id)
}

func (r *ReferencePostgreSQL) SchoolExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	return r.exists(ctx, tx, &models.School{}, "school", id)
}

func (r *ReferencePostgreSQL) TeacherExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	return r.exists(ctx, tx, &models.Teacher{}, "teacher", id)
}

func (r *ReferencePostgreSQL) StudentExists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	return r.exists(ctx, tx, &models.Student{}, "student", id)
}
