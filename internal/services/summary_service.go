package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultSummaryConcurrency = 4

type SummaryService interface {
	BuildSummaries(ctx context.Context, educatorID string) ([]models.QuizResultsSummary, error)
}

type summaryService struct {
	repo        repositories.Repository
	courses     CourseTitleLookup
	concurrency int
	logger      *slog.Logger
	log         *ServiceLogger
}

func NewSummaryService(repo repositories.Repository, courses CourseTitleLookup, concurrency int, logger *slog.Logger) SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultSummaryConcurrency
	}
	return &summaryService{
		repo:        repo,
		courses:     courses,
		concurrency: concurrency,
		logger:      logger,
		log:         NewServiceLogger(logger, LogConfig{Service: "quiz-analytics", Component: "summaries"}),
	}
}

// BuildSummaries returns one row per published quiz that has submissions, in listing order.
// A quiz whose submissions cannot be fetched is logged and left out.
func (s *summaryService) BuildSummaries(ctx context.Context, educatorID string) (rows []models.QuizResultsSummary, err error) {
	op := s.log.WithOperation(ctx, "build_summaries", educatorID)
	defer func() { op.LogResult(educatorID, "educator", err) }()

	published := models.QuizStatusPublished
	quizzes, err := s.repo.Quiz().ListByEducator(ctx, educatorID, repositories.QuizFilters{Status: &published})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for educator %s: %w", educatorID, err)
	}

	slots := make([]*models.QuizResultsSummary, len(quizzes))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, quiz := range quizzes {
		g.Go(func() error {
			submissions, err := s.repo.Submission().ListByQuiz(ctx, quiz.ID, repositories.SubmissionFilters{})
			if err != nil {
				s.logger.WarnContext(ctx, "Skipping quiz in summaries", "quiz_id", quiz.ID, "error", err)
				return nil
			}
			if len(submissions) == 0 {
				return nil
			}
			row := SummarizeQuiz(quiz, submissions, s.courses.Title(ctx, quiz.CourseID))
			slots[i] = &row
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows = make([]models.QuizResultsSummary, 0, len(slots))
	for _, row := range slots {
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

// SummarizeQuiz expects at least one submission.
func SummarizeQuiz(quiz *models.Quiz, submissions []*models.QuizSubmission, courseTitle string) models.QuizResultsSummary {
	row := models.QuizResultsSummary{
		QuizID:           quiz.ID,
		QuizTitle:        quiz.Title,
		CourseID:         quiz.CourseID,
		CourseTitle:      courseTitle,
		TotalSubmissions: len(submissions),
	}

	total := 0
	for _, sub := range submissions {
		total += sub.Score
		if sub.SubmittedAt.After(row.LastSubmissionDate) {
			row.LastSubmissionDate = sub.SubmittedAt
		}
		if sub.Status == models.SubmissionPendingReview {
			row.NeedsGrading++
		}
	}
	if len(submissions) > 0 {
		row.AverageScore = float64(total) / float64(len(submissions))
	}
	return row
}
