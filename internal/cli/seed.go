package cli

import (
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/memory"
)

// seedDemoData loads one quiz with a graded and a pending submission for local runs.
func seedDemoData(store *memory.Store) {
	now := time.Now().UTC()
	store.PutCourse("course-demo", "Intro to Go")
	store.PutQuiz(models.Quiz{
		ID:         "quiz-demo",
		Title:      "Concurrency Basics",
		CourseID:   "course-demo",
		EducatorID: "educator-demo",
		Status:     models.QuizStatusPublished,
		Questions: models.Questions{
			{
				ID:                   "q1",
				Text:                 "Which keyword starts a goroutine?",
				Type:                 models.QuestionSingleChoice,
				Options:              []string{"go", "async", "spawn", "thread"},
				CorrectOptionIndices: []int{0},
				Points:               5,
			},
			{
				ID:     "q2",
				Text:   "Explain when to prefer a channel over a mutex.",
				Type:   models.QuestionDescriptive,
				Points: 5,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})

	correct, wrong := true, false
	essay := "Channels when ownership moves between goroutines."
	gradedAt := now.Add(-time.Hour)
	store.PutSubmission(&models.QuizSubmission{
		ID:          "sub-demo-1",
		QuizID:      "quiz-demo",
		LearnerID:   "learner-1",
		LearnerName: "Ada",
		Answers: models.Answers{
			{ID: "a1", QuestionID: "q1", SelectedOptionIndices: []int{0}, IsCorrect: &correct, PointsEarned: 5},
			{ID: "a2", QuestionID: "q2", TextAnswer: &essay, IsCorrect: &correct, PointsEarned: 4},
		},
		Score:       9,
		TotalPoints: 10,
		Status:      models.SubmissionGraded,
		SubmittedAt: now.Add(-2 * time.Hour),
		GradedAt:    &gradedAt,
	})
	store.PutSubmission(&models.QuizSubmission{
		ID:          "sub-demo-2",
		QuizID:      "quiz-demo",
		LearnerID:   "learner-2",
		LearnerName: "Linus",
		Answers: models.Answers{
			{ID: "a3", QuestionID: "q1", SelectedOptionIndices: []int{2}, IsCorrect: &wrong},
			{ID: "a4", QuestionID: "q2", TextAnswer: &essay},
		},
		TotalPoints: 10,
		Status:      models.SubmissionPendingReview,
		SubmittedAt: now.Add(-30 * time.Minute),
	})
}
