package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionDescriptive    QuestionType = "descriptive"
)

// ChoiceOptionCount is the number of options every choice question carries.
const ChoiceOptionCount = 4

type Quiz struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	Title      string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	CourseID   string     `json:"course_id" gorm:"not null;index;size:36" validate:"required"`
	EducatorID string     `json:"educator_id" gorm:"not null;index;size:255" validate:"required"`
	Questions  Questions  `json:"questions" gorm:"type:jsonb" validate:"dive"`
	Status     QuizStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,quiz_status"`

	// Metadata
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints is derived from the questions on every call.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Question returns the question with the given id, if present.
func (q *Quiz) Question(id string) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}

type Question struct {
	ID                    string       `json:"id" validate:"required"`
	Text                  string       `json:"text" validate:"required"`
	Type                  QuestionType `json:"type" validate:"required,question_type"`
	Options               []string     `json:"options,omitempty"`
	CorrectOptionIndices  []int        `json:"correct_option_indices,omitempty"`
	Points                int          `json:"points" validate:"required,min=1"`
	Explanation           *string      `json:"explanation,omitempty"`
	RequiresManualGrading bool         `json:"requires_manual_grading"`
}

func (q Question) IsChoice() bool {
	return q.Type == QuestionSingleChoice || q.Type == QuestionMultipleChoice
}

// NeedsManualGrading is always true for descriptive questions.
func (q Question) NeedsManualGrading() bool {
	return q.Type == QuestionDescriptive || q.RequiresManualGrading
}

// OptionText maps an option index to its text. Out of range indices report false.
func (q Question) OptionText(index int) (string, bool) {
	if index < 0 || index >= len(q.Options) {
		return "", false
	}
	return q.Options[index], true
}
