package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionSubmitted     SubmissionStatus = "submitted"
	SubmissionPendingReview SubmissionStatus = "pending_review"
	SubmissionGraded        SubmissionStatus = "graded"
)

type QuizSubmission struct {
	ID           string           `json:"id" gorm:"primaryKey;size:36"`
	QuizID       string           `json:"quiz_id" gorm:"not null;index;size:36"`
	LearnerID    string           `json:"learner_id" gorm:"not null;index;size:255"`
	LearnerName  string           `json:"learner_name" gorm:"size:100"`
	LearnerEmail string           `json:"learner_email" gorm:"size:255"`
	Answers      Answers          `json:"answers" gorm:"type:jsonb"`
	Score        int              `json:"score" gorm:"not null;default:0"`
	TotalPoints  int              `json:"total_points" gorm:"not null;default:0"` // snapshot at submission time
	Status       SubmissionStatus `json:"status" gorm:"default:submitted;index"`

	SubmittedAt      time.Time  `json:"submitted_at" gorm:"index"`
	GradedAt         *time.Time `json:"graded_at"`
	TimeSpentSeconds *int       `json:"time_spent_seconds"`

	// Optimistic concurrency token, bumped on every grading write
	Version int `json:"version" gorm:"not null;default:1"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

type QuizAnswer struct {
	ID                    string  `json:"id"`
	QuestionID            string  `json:"question_id"`
	SelectedOptionIndices []int   `json:"selected_option_indices"`
	TextAnswer            *string `json:"text_answer,omitempty"`
	IsCorrect             *bool   `json:"is_correct"` // nil until graded
	PointsEarned          int     `json:"points_earned"`
	Feedback              *string `json:"feedback,omitempty"`
}

func (a QuizAnswer) IsGraded() bool {
	return a.IsCorrect != nil
}

// Answer returns the first answer for the question, if any.
func (s *QuizSubmission) Answer(questionID string) (*QuizAnswer, bool) {
	for i := range s.Answers {
		if s.Answers[i].QuestionID == questionID {
			return &s.Answers[i], true
		}
	}
	return nil, false
}

// SumPoints is the sum of points earned across all answers.
func (s *QuizSubmission) SumPoints() int {
	total := 0
	for _, answer := range s.Answers {
		total += answer.PointsEarned
	}
	return total
}

func (s *QuizSubmission) AllGraded() bool {
	for _, answer := range s.Answers {
		if !answer.IsGraded() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so grading can be applied without touching the original.
func (s *QuizSubmission) Clone() *QuizSubmission {
	out := *s
	if s.GradedAt != nil {
		t := *s.GradedAt
		out.GradedAt = &t
	}
	if s.TimeSpentSeconds != nil {
		v := *s.TimeSpentSeconds
		out.TimeSpentSeconds = &v
	}
	if s.Answers != nil {
		out.Answers = make(Answers, len(s.Answers))
		for i, a := range s.Answers {
			out.Answers[i] = a.clone()
		}
	}
	return &out
}

func (a QuizAnswer) clone() QuizAnswer {
	out := a
	if a.SelectedOptionIndices != nil {
		out.SelectedOptionIndices = append([]int(nil), a.SelectedOptionIndices...)
	}
	if a.TextAnswer != nil {
		v := *a.TextAnswer
		out.TextAnswer = &v
	}
	if a.IsCorrect != nil {
		v := *a.IsCorrect
		out.IsCorrect = &v
	}
	if a.Feedback != nil {
		v := *a.Feedback
		out.Feedback = &v
	}
	return out
}
