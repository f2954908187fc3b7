package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id string) (*models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, notFound(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) ListByQuiz(ctx context.Context, quizID string, filters repositories.SubmissionFilters) ([]*models.QuizSubmission, error) {
	var submissions []*models.QuizSubmission

	query := s.db.WithContext(ctx).Model(&models.QuizSubmission{}).Where("quiz_id = ?", quizID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	query = applyPagination(query.Order("submitted_at asc"), filters.Limit, filters.Offset)

	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) UpdateGrading(ctx context.Context, submission *models.QuizSubmission, expectedVersion int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.QuizSubmission{}).
			Where("id = ? AND version = ?", submission.ID, expectedVersion).
			Updates(map[string]interface{}{
				"answers":   submission.Answers,
				"score":     submission.Score,
				"status":    submission.Status,
				"graded_at": submission.GradedAt,
				"version":   gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			submission.Version = expectedVersion + 1
			return nil
		}

		// Nothing matched: either the row is gone or someone else graded first
		var count int64
		if err := tx.Model(&models.QuizSubmission{}).Where("id = ?", submission.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return repositories.ErrVersionConflict
	})
}
