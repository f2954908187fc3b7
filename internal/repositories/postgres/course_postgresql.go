package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) GetTitle(ctx context.Context, courseID string) (string, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).Select("id", "title").Where("id = ?", courseID).First(&course).Error; err != nil {
		return "", notFound(err)
	}
	return course.Title, nil
}
