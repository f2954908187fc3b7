package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmissionGradedEvent(t *testing.T) {
	event := NewSubmissionGradedEvent(SubmissionGradedEvent{SubmissionID: "s1", QuizID: "q1", Score: 4})

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, EventSubmissionGraded, event.Type)
	assert.Equal(t, "quiz-analytics-service", event.Source)

	payload, ok := event.Data.(SubmissionGradedEvent)
	require.True(t, ok)
	assert.Equal(t, 4, payload.Score)
}

func TestEventIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}

func TestMockEventPublisherConcurrent(t *testing.T) {
	m := NewMockEventPublisher(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.PublishNotificationEvent(context.Background(), NewAnswerGradedEvent(AnswerGradedEvent{QuestionID: "q"}))
		}()
	}
	wg.Wait()

	assert.Len(t, m.GetPublishedEvents(), 20)
	m.ClearEvents()
	assert.Empty(t, m.GetPublishedEvents())
}

func TestMockEventPublisherError(t *testing.T) {
	m := NewMockEventPublisher(nil)
	m.Err = errors.New("broker down")

	err := m.PublishNotificationEvent(context.Background(), NewManualGradingRequiredEvent("q", "Quiz", "e", nil))
	assert.EqualError(t, err, "broker down")
	assert.Empty(t, m.GetPublishedEvents())
}
