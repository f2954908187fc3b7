package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuizTotalPointsIsDerived(t *testing.T) {
	quiz := &Quiz{Questions: Questions{{ID: "q1", Points: 2}, {ID: "q2", Points: 3}}}
	assert.Equal(t, 5, quiz.TotalPoints())

	quiz.Questions = append(quiz.Questions, Question{ID: "q3", Points: 4})
	assert.Equal(t, 9, quiz.TotalPoints())

	assert.Equal(t, 0, (&Quiz{}).TotalPoints())
}

func TestQuestionNeedsManualGrading(t *testing.T) {
	assert.True(t, Question{Type: QuestionDescriptive}.NeedsManualGrading())
	assert.False(t, Question{Type: QuestionSingleChoice}.NeedsManualGrading())
	assert.True(t, Question{Type: QuestionMultipleChoice, RequiresManualGrading: true}.NeedsManualGrading())
}

func TestQuestionOptionText(t *testing.T) {
	q := Question{Options: []string{"A", "B", "C", "D"}}
	text, ok := q.OptionText(2)
	assert.True(t, ok)
	assert.Equal(t, "C", text)

	_, ok = q.OptionText(4)
	assert.False(t, ok)
	_, ok = q.OptionText(-1)
	assert.False(t, ok)
}

func TestSubmissionCloneIsDeep(t *testing.T) {
	correct := true
	graded := time.Now()
	original := &QuizSubmission{
		ID:       "s1",
		GradedAt: &graded,
		Answers: Answers{
			{QuestionID: "q1", SelectedOptionIndices: []int{1}, IsCorrect: &correct, PointsEarned: 2},
		},
	}

	clone := original.Clone()
	*clone.Answers[0].IsCorrect = false
	clone.Answers[0].SelectedOptionIndices[0] = 3
	clone.Answers[0].PointsEarned = 0
	*clone.GradedAt = graded.Add(time.Hour)

	assert.True(t, *original.Answers[0].IsCorrect)
	assert.Equal(t, []int{1}, original.Answers[0].SelectedOptionIndices)
	assert.Equal(t, 2, original.Answers[0].PointsEarned)
	assert.Equal(t, graded, *original.GradedAt)
}

func TestSubmissionAllGraded(t *testing.T) {
	yes := true
	s := &QuizSubmission{Answers: Answers{{QuestionID: "q1", IsCorrect: &yes}, {QuestionID: "q2"}}}
	assert.False(t, s.AllGraded())

	s.Answers[1].IsCorrect = &yes
	assert.True(t, s.AllGraded())
	assert.True(t, (&QuizSubmission{}).AllGraded())
}
