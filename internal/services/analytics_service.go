package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
)

// NarrativeGenerator turns statistics into commentary. It is optional.
type NarrativeGenerator interface {
	GenerateInsights(ctx context.Context, analytics models.QuizAnalytics) (*models.QuizInsights, error)
}

// AnalyticsService exposes quiz statistics to the educator who owns the quiz
type AnalyticsService interface {
	GetQuizAnalytics(ctx context.Context, quizID string, user models.User) (*models.QuizAnalytics, error)
	GetQuizInsights(ctx context.Context, quizID string, user models.User) (*QuizInsightsResponse, error)
	ListPendingReview(ctx context.Context, quizID string, user models.User) ([]*models.QuizSubmission, error)
	RemindPendingReview(ctx context.Context, quizID string, user models.User) (int, error)
}

// QuizInsightsResponse always carries statistics; Insights is nil when no narrative is available
type QuizInsightsResponse struct {
	Analytics models.QuizAnalytics `json:"analytics"`
	Insights  *models.QuizInsights `json:"insights"`
}

type analyticsService struct {
	repo      repositories.Repository
	validator *validator.Validator
	narrator  NarrativeGenerator
	publisher events.EventPublisher
	logger    *slog.Logger
}

type AnalyticsOption func(*analyticsService)

func WithNarrativeGenerator(g NarrativeGenerator) AnalyticsOption {
	return func(s *analyticsService) { s.narrator = g }
}

func WithEventPublisher(p events.EventPublisher) AnalyticsOption {
	return func(s *analyticsService) { s.publisher = p }
}

// NewAnalyticsService recomputes statistics on every call; results are never cached.
func NewAnalyticsService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger, opts ...AnalyticsOption) AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validator.New()
	}
	s := &analyticsService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *analyticsService) GetQuizAnalytics(ctx context.Context, quizID string, user models.User) (*models.QuizAnalytics, error) {
	quiz, err := loadOwnedQuiz(ctx, s.repo.Quiz(), quizID, user, "view_analytics")
	if err != nil {
		return nil, err
	}
	warnInvalidQuiz(ctx, s.logger, s.validator, quiz)

	submissions, err := s.repo.Submission().ListByQuiz(ctx, quizID, repositories.SubmissionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for quiz %s: %w", quizID, err)
	}

	analytics := ComputeAnalytics(quiz, submissions)
	return &analytics, nil
}

func (s *analyticsService) GetQuizInsights(ctx context.Context, quizID string, user models.User) (*QuizInsightsResponse, error) {
	analytics, err := s.GetQuizAnalytics(ctx, quizID, user)
	if err != nil {
		return nil, err
	}

	resp := &QuizInsightsResponse{Analytics: *analytics}
	if s.narrator == nil || analytics.TotalSubmissions == 0 {
		return resp, nil
	}

	insights, err := s.narrator.GenerateInsights(ctx, *analytics)
	if err != nil {
		s.logger.WarnContext(ctx, "Narrative insights unavailable", "quiz_id", quizID, "error", err)
		return resp, nil
	}
	resp.Insights = insights
	return resp, nil
}

func (s *analyticsService) ListPendingReview(ctx context.Context, quizID string, user models.User) ([]*models.QuizSubmission, error) {
	if _, err := loadOwnedQuiz(ctx, s.repo.Quiz(), quizID, user, "list_pending"); err != nil {
		return nil, err
	}

	pending := models.SubmissionPendingReview
	submissions, err := s.repo.Submission().ListByQuiz(ctx, quizID, repositories.SubmissionFilters{Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending submissions for quiz %s: %w", quizID, err)
	}
	if submissions == nil {
		submissions = []*models.QuizSubmission{}
	}
	return submissions, nil
}

// RemindPendingReview emits a manual grading reminder and returns how many submissions wait
func (s *analyticsService) RemindPendingReview(ctx context.Context, quizID string, user models.User) (int, error) {
	quiz, err := loadOwnedQuiz(ctx, s.repo.Quiz(), quizID, user, "remind_pending")
	if err != nil {
		return 0, err
	}
	pending, err := s.ListPendingReview(ctx, quizID, user)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 || s.publisher == nil {
		return len(pending), nil
	}

	ids := make([]string, len(pending))
	for i, sub := range pending {
		ids[i] = sub.ID
	}
	event := events.NewManualGradingRequiredEvent(quiz.ID, quiz.Title, quiz.EducatorID, ids)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return 0, fmt.Errorf("failed to publish grading reminder: %w", err)
	}
	return len(pending), nil
}
