package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Status    *models.QuizStatus `json:"status"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "updated_at", "created_at", "title"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	Status   *models.SubmissionStatus `json:"status"`
	DateFrom *time.Time               `json:"date_from"`
	DateTo   *time.Time               `json:"date_to"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// QuizRepository reads quiz definitions
type QuizRepository interface {
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	// ListByEducator returns quizzes ordered by updated_at desc unless filters say otherwise
	ListByEducator(ctx context.Context, educatorID string, filters QuizFilters) ([]*models.Quiz, error)
}

// SubmissionRepository reads submissions and persists grading changes
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*models.QuizSubmission, error)
	ListByQuiz(ctx context.Context, quizID string, filters SubmissionFilters) ([]*models.QuizSubmission, error)

	// UpdateGrading writes answers, score, status and graded_at only if the stored
	// version still equals expectedVersion. On success submission.Version is advanced.
	UpdateGrading(ctx context.Context, submission *models.QuizSubmission, expectedVersion int) error
}

// CourseRepository resolves course metadata owned by the course catalogue
type CourseRepository interface {
	GetTitle(ctx context.Context, courseID string) (string, error)
}

// Repository groups the stores used by the service layer
type Repository interface {
	Quiz() QuizRepository
	Submission() SubmissionRepository
	Course() CourseRepository
}
