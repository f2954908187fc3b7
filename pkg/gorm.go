package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/config"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not configured")
	}

	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables read by the analytics service
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Course{}, &models.Quiz{}, &models.QuizSubmission{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
