package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) ListByEducator(ctx context.Context, educatorID string, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	args := m.Called(ctx, educatorID, filters)
	quizzes, _ := args.Get(0).([]*models.Quiz)
	return quizzes, args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id string) (*models.QuizSubmission, error) {
	args := m.Called(ctx, id)
	submission, _ := args.Get(0).(*models.QuizSubmission)
	return submission, args.Error(1)
}

func (m *MockSubmissionRepository) ListByQuiz(ctx context.Context, quizID string, filters repositories.SubmissionFilters) ([]*models.QuizSubmission, error) {
	args := m.Called(ctx, quizID, filters)
	submissions, _ := args.Get(0).([]*models.QuizSubmission)
	return submissions, args.Error(1)
}

func (m *MockSubmissionRepository) UpdateGrading(ctx context.Context, submission *models.QuizSubmission, expectedVersion int) error {
	args := m.Called(ctx, submission, expectedVersion)
	return args.Error(0)
}

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetTitle(ctx context.Context, courseID string) (string, error) {
	args := m.Called(ctx, courseID)
	return args.String(0), args.Error(1)
}

// MockRepository groups the mocks behind the repository manager interface
type MockRepository struct {
	quizRepo       *MockQuizRepository
	submissionRepo *MockSubmissionRepository
	courseRepo     *MockCourseRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		quizRepo:       &MockQuizRepository{},
		submissionRepo: &MockSubmissionRepository{},
		courseRepo:     &MockCourseRepository{},
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository             { return m.quizRepo }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.submissionRepo }
func (m *MockRepository) Course() repositories.CourseRepository         { return m.courseRepo }

func (m *MockRepository) assertExpectations(t mock.TestingT) {
	m.quizRepo.AssertExpectations(t)
	m.submissionRepo.AssertExpectations(t)
	m.courseRepo.AssertExpectations(t)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool       { return &b }
func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }

func educator(id string) models.User {
	return models.User{ID: id, Role: models.RoleEducator}
}

func choice(id string, points int, correct ...int) models.Question {
	return models.Question{
		ID:                   id,
		Text:                 "Question " + id,
		Type:                 models.QuestionSingleChoice,
		Options:              []string{"A", "B", "C", "D"},
		CorrectOptionIndices: correct,
		Points:               points,
	}
}

func descriptive(id string, points int) models.Question {
	return models.Question{ID: id, Text: "Explain " + id, Type: models.QuestionDescriptive, Points: points}
}
