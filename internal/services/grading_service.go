package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
)

// GradeAnswerRequest is the body of a manual grading call
type GradeAnswerRequest struct {
	Points   *int    `json:"points" validate:"required,min=0"`
	Feedback *string `json:"feedback" validate:"omitempty,max=5000"`
}

type GradingService interface {
	// GradeDescriptiveAnswer loads the submission, applies the grade and persists it.
	GradeDescriptiveAnswer(ctx context.Context, submissionID, questionID string, points int, feedback *string, grader models.User) (*models.QuizSubmission, error)
	// GradeSubmission grades an already loaded submission. The argument is never mutated.
	GradeSubmission(ctx context.Context, submission *models.QuizSubmission, questionID string, points int, feedback *string, grader models.User) (*models.QuizSubmission, error)
}

type gradingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	log       *ServiceLogger
	now       func() time.Time
}

func NewGradingService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) GradingService {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validator.New()
	}
	return &gradingService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
		log:       NewServiceLogger(logger, LogConfig{Service: "quiz-analytics", Component: "grading"}),
		now:       time.Now,
	}
}

func (s *gradingService) GradeDescriptiveAnswer(ctx context.Context, submissionID, questionID string, points int, feedback *string, grader models.User) (*models.QuizSubmission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, NewPersistenceError("load submission", err)
	}
	return s.GradeSubmission(ctx, submission, questionID, points, feedback, grader)
}

func (s *gradingService) GradeSubmission(ctx context.Context, submission *models.QuizSubmission, questionID string, points int, feedback *string, grader models.User) (result *models.QuizSubmission, err error) {
	op := s.log.WithOperation(ctx, "grade_answer", grader.ID)
	defer func() { op.LogResult(submission.ID, "submission", err) }()

	question, err := s.resolveQuestion(ctx, submission.QuizID, questionID, grader)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Question().ValidateGradePoints(question, points); err != nil {
		return nil, errors.Join(ErrGradingInvalidScore, err)
	}
	if question != nil && !question.NeedsManualGrading() {
		s.logger.InfoContext(ctx, "Overriding auto-scored answer", "submission_id", submission.ID, "question_id", questionID, "grader_id", grader.ID)
	}

	graded, err := ApplyManualGrade(submission, questionID, points, feedback, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Submission().UpdateGrading(ctx, graded, submission.Version); err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionConflict):
			return nil, ErrSubmissionConflict
		case repositories.IsNotFoundError(err):
			return nil, ErrSubmissionNotFound
		default:
			return nil, NewPersistenceError("update submission", err)
		}
	}

	s.publishGradingEvents(ctx, submission, graded, questionID, points, grader)

	return graded, nil
}

// resolveQuestion returns nil without error when the quiz is gone so grading stays possible
func (s *gradingService) resolveQuestion(ctx context.Context, quizID, questionID string, grader models.User) (*models.Question, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "Grading submission of missing quiz", "quiz_id", quizID)
			if !grader.CanViewResults() {
				return nil, NewPermissionError(grader.ID, quizID, "submission", "grade", "insufficient role")
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load quiz %s: %w", quizID, err)
	}
	if !canViewQuiz(grader, quiz) {
		return nil, NewPermissionError(grader.ID, quizID, "submission", "grade", "not owner or insufficient role")
	}
	warnInvalidQuiz(ctx, s.logger, s.validator, quiz)
	question, _ := quiz.Question(questionID)
	return question, nil
}

func (s *gradingService) publishGradingEvents(ctx context.Context, before, after *models.QuizSubmission, questionID string, points int, grader models.User) {
	if s.publisher == nil {
		return
	}

	remaining := 0
	for _, a := range after.Answers {
		if !a.IsGraded() {
			remaining++
		}
	}
	answerEvent := events.NewAnswerGradedEvent(events.AnswerGradedEvent{
		SubmissionID: after.ID,
		QuizID:       after.QuizID,
		QuestionID:   questionID,
		Points:       points,
		GraderID:     grader.ID,
		Remaining:    remaining,
	})
	if err := s.publisher.PublishNotificationEvent(ctx, answerEvent); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish answer graded event", "submission_id", after.ID, "error", err)
	}

	if after.Status != models.SubmissionGraded || before.Status == models.SubmissionGraded {
		return
	}
	gradedEvent := events.NewSubmissionGradedEvent(events.SubmissionGradedEvent{
		SubmissionID: after.ID,
		QuizID:       after.QuizID,
		LearnerID:    after.LearnerID,
		Score:        after.Score,
		TotalPoints:  after.TotalPoints,
		GradedAt:     *after.GradedAt,
		GraderID:     grader.ID,
	})
	if err := s.publisher.PublishNotificationEvent(ctx, gradedEvent); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish submission graded event", "submission_id", after.ID, "error", err)
	}
}

// ApplyManualGrade returns a graded copy of submission. Correctness is inferred as points > 0.
// Once every answer is graded the status becomes graded and GradedAt is stamped; a regrade that
// leaves answers ungraded moves back to pending review but keeps any earlier GradedAt.
func ApplyManualGrade(submission *models.QuizSubmission, questionID string, points int, feedback *string, now time.Time) (*models.QuizSubmission, error) {
	graded := submission.Clone()

	answer, ok := graded.Answer(questionID)
	if !ok {
		return nil, ErrAnswerNotFound
	}

	correct := points > 0
	answer.PointsEarned = points
	answer.IsCorrect = &correct
	answer.Feedback = nil
	if feedback != nil {
		text := *feedback
		answer.Feedback = &text
	}

	graded.Score = graded.SumPoints()
	if graded.AllGraded() {
		graded.Status = models.SubmissionGraded
		stamp := now
		graded.GradedAt = &stamp
	} else {
		graded.Status = models.SubmissionPendingReview
	}
	return graded, nil
}
