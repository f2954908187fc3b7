package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, notFound(err)
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) ListByEducator(ctx context.Context, educatorID string, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz

	query := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("educator_id = ?", educatorID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	query = applySort(query, filters.SortBy, filters.SortOrder, quizSortColumns, "updated_at")
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
