package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
)

// Store keeps quizzes, submissions and course titles in process memory.
// Reads hand out copies so callers cannot mutate stored state.
type Store struct {
	mu          sync.RWMutex
	quizzes     map[string]models.Quiz
	submissions map[string]*models.QuizSubmission
	courses     map[string]string
}

func NewStore() *Store {
	return &Store{
		quizzes:     make(map[string]models.Quiz),
		submissions: make(map[string]*models.QuizSubmission),
		courses:     make(map[string]string),
	}
}

// NewRepository exposes the store through the repository manager interface
func NewRepository(store *Store) repositories.Repository {
	return repositoryManager{store: store}
}

type repositoryManager struct {
	store *Store
}

func (r repositoryManager) Quiz() repositories.QuizRepository {
	return quizRepository{r.store}
}

func (r repositoryManager) Submission() repositories.SubmissionRepository {
	return submissionRepository{r.store}
}

func (r repositoryManager) Course() repositories.CourseRepository {
	return courseRepository{r.store}
}

func (s *Store) PutQuiz(quiz models.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.Questions = append(models.Questions(nil), quiz.Questions...)
	s.quizzes[quiz.ID] = quiz
}

func (s *Store) PutSubmission(submission *models.QuizSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := submission.Clone()
	if stored.Version == 0 {
		stored.Version = 1
	}
	s.submissions[stored.ID] = stored
}

func (s *Store) PutCourse(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[id] = title
}

type quizRepository struct{ s *Store }

func (r quizRepository) GetByID(_ context.Context, id string) (*models.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	quiz, ok := r.s.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	quiz.Questions = append(models.Questions(nil), quiz.Questions...)
	return &quiz, nil
}

func (r quizRepository) ListByEducator(_ context.Context, educatorID string, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	r.s.mu.RLock()
	var out []*models.Quiz
	for _, quiz := range r.s.quizzes {
		if quiz.EducatorID != educatorID {
			continue
		}
		if filters.Status != nil && quiz.Status != *filters.Status {
			continue
		}
		q := quiz
		q.Questions = append(models.Questions(nil), quiz.Questions...)
		out = append(out, &q)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filters.Limit, filters.Offset), nil
}

type submissionRepository struct{ s *Store }

func (r submissionRepository) GetByID(_ context.Context, id string) (*models.QuizSubmission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	submission, ok := r.s.submissions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return submission.Clone(), nil
}

func (r submissionRepository) ListByQuiz(_ context.Context, quizID string, filters repositories.SubmissionFilters) ([]*models.QuizSubmission, error) {
	r.s.mu.RLock()
	var out []*models.QuizSubmission
	for _, submission := range r.s.submissions {
		if submission.QuizID != quizID {
			continue
		}
		if filters.Status != nil && submission.Status != *filters.Status {
			continue
		}
		if filters.DateFrom != nil && submission.SubmittedAt.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && submission.SubmittedAt.After(*filters.DateTo) {
			continue
		}
		out = append(out, submission.Clone())
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filters.Limit, filters.Offset), nil
}

func (r submissionRepository) UpdateGrading(_ context.Context, submission *models.QuizSubmission, expectedVersion int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.submissions[submission.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}

	updated := stored.Clone()
	grading := submission.Clone()
	updated.Answers = grading.Answers
	updated.Score = grading.Score
	updated.Status = grading.Status
	updated.GradedAt = grading.GradedAt
	updated.Version = expectedVersion + 1
	r.s.submissions[submission.ID] = updated

	submission.Version = updated.Version
	return nil
}

type courseRepository struct{ s *Store }

func (r courseRepository) GetTitle(_ context.Context, courseID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	title, ok := r.s.courses[courseID]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return title, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
