package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockNarrativeGenerator struct {
	mock.Mock
}

func (m *MockNarrativeGenerator) GenerateInsights(ctx context.Context, analytics models.QuizAnalytics) (*models.QuizInsights, error) {
	args := m.Called(ctx, analytics)
	insights, _ := args.Get(0).(*models.QuizInsights)
	return insights, args.Error(1)
}

func seededStore() *memory.Store {
	store := memory.NewStore()
	store.PutQuiz(gradingQuiz())
	store.PutSubmission(pendingSubmission())
	store.PutSubmission(&models.QuizSubmission{
		ID: "sub-2", QuizID: "quiz-1", LearnerName: "Lan", Score: 8, TotalPoints: 8,
		Status:      models.SubmissionGraded,
		SubmittedAt: day,
		Answers: models.Answers{
			{QuestionID: "q1", SelectedOptionIndices: []int{1}, IsCorrect: boolPtr(true), PointsEarned: 2},
			{QuestionID: "q2", IsCorrect: boolPtr(true), PointsEarned: 3},
			{QuestionID: "q3", IsCorrect: boolPtr(true), PointsEarned: 3},
		},
	})
	return store
}

func TestGetQuizAnalytics(t *testing.T) {
	store := seededStore()
	svc := NewAnalyticsService(memory.NewRepository(store), validator.New(), discardLogger())
	ctx := context.Background()

	got, err := svc.GetQuizAnalytics(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSubmissions)
	assert.InDelta(t, 5.0, got.AverageScore, 1e-9)
	assert.Len(t, got.QuestionAnalytics, 3)

	_, err = svc.GetQuizAnalytics(ctx, "quiz-1", educator("edu-2"))
	assert.True(t, IsUnauthorized(err))

	_, err = svc.GetQuizAnalytics(ctx, "missing", educator("edu-1"))
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = svc.GetQuizAnalytics(ctx, "quiz-1", models.User{ID: "edu-1", Role: models.RoleLearner})
	assert.True(t, IsUnauthorized(err))
}

func TestGetQuizAnalytics_RecomputedOnEveryCall(t *testing.T) {
	store := seededStore()
	repo := memory.NewRepository(store)
	analytics := NewAnalyticsService(repo, validator.New(), discardLogger())
	grading := NewGradingService(repo, nil, discardLogger(), validator.New())
	ctx := context.Background()

	before, err := analytics.GetQuizAnalytics(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, before.TotalSubmissions)
	assert.InDelta(t, 5.0, before.AverageScore, 1e-9)

	store.PutSubmission(&models.QuizSubmission{
		ID: "sub-3", QuizID: "quiz-1", Score: 2, TotalPoints: 8,
		Status:      models.SubmissionPendingReview,
		SubmittedAt: day.Add(time.Hour),
		Answers: models.Answers{
			{QuestionID: "q1", SelectedOptionIndices: []int{1}, IsCorrect: boolPtr(true), PointsEarned: 2},
		},
	})

	added, err := analytics.GetQuizAnalytics(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, added.TotalSubmissions)
	assert.InDelta(t, 4.0, added.AverageScore, 1e-9)

	_, err = grading.GradeDescriptiveAnswer(ctx, "sub-1", "q2", 3, nil, educator("edu-1"))
	require.NoError(t, err)

	after, err := analytics.GetQuizAnalytics(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, after.AverageScore, 1e-9)
}

func TestGetQuizAnalytics_WarnsOnBrokenQuestions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	store := memory.NewStore()
	quiz := gradingQuiz()
	quiz.Questions[0].Options = []string{"only", "three", "options"}
	store.PutQuiz(quiz)
	store.PutSubmission(pendingSubmission())

	svc := NewAnalyticsService(memory.NewRepository(store), validator.New(), logger)
	got, err := svc.GetQuizAnalytics(context.Background(), "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalSubmissions)
	assert.Contains(t, buf.String(), "Quiz violates question invariants")
	assert.Contains(t, buf.String(), "questions[0].options")

	buf.Reset()
	clean := memory.NewStore()
	clean.PutQuiz(gradingQuiz())
	_, err = NewAnalyticsService(memory.NewRepository(clean), validator.New(), logger).
		GetQuizAnalytics(context.Background(), "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Quiz violates question invariants")
}

func TestGetQuizInsights(t *testing.T) {
	ctx := context.Background()

	t.Run("without generator", func(t *testing.T) {
		svc := NewAnalyticsService(memory.NewRepository(seededStore()), nil, discardLogger())
		resp, err := svc.GetQuizInsights(ctx, "quiz-1", educator("edu-1"))
		require.NoError(t, err)
		assert.Nil(t, resp.Insights)
		assert.Equal(t, 2, resp.Analytics.TotalSubmissions)
	})

	t.Run("generator failure degrades", func(t *testing.T) {
		gen := &MockNarrativeGenerator{}
		gen.On("GenerateInsights", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

		svc := NewAnalyticsService(memory.NewRepository(seededStore()), nil, discardLogger(), WithNarrativeGenerator(gen))
		resp, err := svc.GetQuizInsights(ctx, "quiz-1", educator("edu-1"))
		require.NoError(t, err)
		assert.Nil(t, resp.Insights)
		gen.AssertExpectations(t)
	})

	t.Run("generator output attached", func(t *testing.T) {
		gen := &MockNarrativeGenerator{}
		gen.On("GenerateInsights", mock.Anything, mock.MatchedBy(func(a models.QuizAnalytics) bool {
			return a.QuizID == "quiz-1"
		})).Return(&models.QuizInsights{Summary: "Good progress"}, nil)

		svc := NewAnalyticsService(memory.NewRepository(seededStore()), nil, discardLogger(), WithNarrativeGenerator(gen))
		resp, err := svc.GetQuizInsights(ctx, "quiz-1", educator("edu-1"))
		require.NoError(t, err)
		require.NotNil(t, resp.Insights)
		assert.Equal(t, "Good progress", resp.Insights.Summary)
	})
}

func TestListAndRemindPendingReview(t *testing.T) {
	publisher := events.NewMockEventPublisher(discardLogger())
	svc := NewAnalyticsService(memory.NewRepository(seededStore()), nil, discardLogger(), WithEventPublisher(publisher))
	ctx := context.Background()

	pending, err := svc.ListPendingReview(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "sub-1", pending[0].ID)

	count, err := svc.RemindPendingReview(ctx, "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventManualGradingRequired, published[0].Type)
	assert.Equal(t, []string{"sub-1"}, published[0].Data.(events.ManualGradingRequiredEvent).PendingSubmissionIDs)
}

func TestExportQuizResults(t *testing.T) {
	svc := NewExportService(memory.NewRepository(seededStore()), discardLogger())

	data, filename, err := svc.ExportQuizResults(context.Background(), "quiz-1", educator("edu-1"))
	require.NoError(t, err)
	assert.Equal(t, "Concurrency_results.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Submissions", "Questions"}, f.GetSheetList())

	rows, err := f.GetRows("Submissions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Learner", rows[0][0])

	questionRows, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, questionRows, 4)
	assert.Equal(t, "Question q1", questionRows[1][0])

	_, _, err = svc.ExportQuizResults(context.Background(), "quiz-1", educator("edu-2"))
	assert.True(t, IsUnauthorized(err))
}
