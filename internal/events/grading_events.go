package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "quiz-analytics-service"
	eventVersion = "1.0"
)

// EventType represents different types of notification events
type EventType string

const (
	EventSubmissionGraded      EventType = "submission.graded"
	EventManualGradingRequired EventType = "grading.manual_required"
	EventAnswerGraded          EventType = "grading.answer_graded"
)

// NotificationEvent is the envelope for every event this service emits
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Grading event payloads

type SubmissionGradedEvent struct {
	SubmissionID string    `json:"submission_id"`
	QuizID       string    `json:"quiz_id"`
	LearnerID    string    `json:"learner_id"`
	Score        int       `json:"score"`
	TotalPoints  int       `json:"total_points"`
	GradedAt     time.Time `json:"graded_at"`
	GraderID     string    `json:"grader_id"`
}

type AnswerGradedEvent struct {
	SubmissionID string `json:"submission_id"`
	QuizID       string `json:"quiz_id"`
	QuestionID   string `json:"question_id"`
	Points       int    `json:"points"`
	GraderID     string `json:"grader_id"`
	Remaining    int    `json:"remaining_ungraded"`
}

type ManualGradingRequiredEvent struct {
	QuizID               string    `json:"quiz_id"`
	QuizTitle            string    `json:"quiz_title"`
	RequiredAt           time.Time `json:"required_at"`
	PendingSubmissionIDs []string  `json:"pending_submission_ids"`
	EducatorID           string    `json:"educator_id"`
}

// Event factory functions

func newEvent(eventType EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSubmissionGradedEvent(payload SubmissionGradedEvent) *NotificationEvent {
	return newEvent(EventSubmissionGraded, payload)
}

func NewAnswerGradedEvent(payload AnswerGradedEvent) *NotificationEvent {
	return newEvent(EventAnswerGraded, payload)
}

func NewManualGradingRequiredEvent(quizID, title, educatorID string, pending []string) *NotificationEvent {
	return newEvent(EventManualGradingRequired, ManualGradingRequiredEvent{
		QuizID:               quizID,
		QuizTitle:            title,
		RequiredAt:           time.Now(),
		PendingSubmissionIDs: pending,
		EducatorID:           educatorID,
	})
}

// GenerateEventID returns a random UUID used as the Watermill message id
func GenerateEventID() string {
	return uuid.NewString()
}
