package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
)

const courseTitlePrefix = "course:title:"

// warnInvalidQuiz reports question invariant violations. Quizzes are authored elsewhere,
// so a broken quiz is still aggregated as stored and only flagged here.
func warnInvalidQuiz(ctx context.Context, logger *slog.Logger, v *validator.Validator, quiz *models.Quiz) {
	errs := v.Question().ValidateQuiz(quiz)
	if len(errs) == 0 {
		return
	}
	logger.WarnContext(ctx, "Quiz violates question invariants",
		"quiz_id", quiz.ID,
		"violations", len(errs),
		"error", errs.Error(),
	)
}

// canViewQuiz allows admins and the quiz's own educator
func canViewQuiz(user models.User, quiz *models.Quiz) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.CanViewResults() && quiz.EducatorID == user.ID
}

// loadOwnedQuiz fetches a quiz and checks the caller may read its results
func loadOwnedQuiz(ctx context.Context, repo repositories.QuizRepository, quizID string, user models.User, action string) (*models.Quiz, error) {
	quiz, err := repo.GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %s: %w", quizID, err)
	}
	if !canViewQuiz(user, quiz) {
		return nil, NewPermissionError(user.ID, quizID, "quiz", action, "not owner or insufficient role")
	}
	return quiz, nil
}
