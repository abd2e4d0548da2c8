package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edusphere/exam-service/internal/config"
	"github.com/edusphere/exam-service/internal/models"
)

// InitDatabase opens the PostgreSQL connection and runs schema
// migrations. TranslateError is enabled so unique index violations
// surface as gorm.ErrDuplicatedKey.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
	}
	if cfg.Environment == "production" {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Subject{},
		&models.Class{},
		&models.School{},
		&models.Teacher{},
		&models.Student{},
		&models.Exam{},
		&models.Question{},
		&models.ExamResult{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
