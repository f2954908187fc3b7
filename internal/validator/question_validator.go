package validator

import (
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/errors"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
)

// QuestionValidator checks the invariants that struct tags cannot express
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion enforces option count and correct index rules for choice questions.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) ValidationErrors {
	var errs ValidationErrors

	if question.Points < 1 {
		errs = append(errs, *errors.NewValidationErrorWithRule("points", "must be at least 1", "min", question.Points))
	}

	if !question.IsChoice() {
		return errs
	}

	if len(question.Options) != models.ChoiceOptionCount {
		errs = append(errs, *errors.NewValidationErrorWithRule("options",
			fmt.Sprintf("must contain exactly %d options", models.ChoiceOptionCount),
			"choice_options", len(question.Options)))
	}

	if len(question.CorrectOptionIndices) == 0 {
		errs = append(errs, *errors.NewValidationErrorWithRule("correct_option_indices",
			"must contain at least one index", "correct_indices", question.CorrectOptionIndices))
		return errs
	}

	seen := make(map[int]bool, len(question.CorrectOptionIndices))
	for _, index := range question.CorrectOptionIndices {
		if index < 0 || index >= len(question.Options) {
			errs = append(errs, *errors.NewValidationErrorWithRule("correct_option_indices",
				"index "+strconv.Itoa(index)+" is out of range", "correct_indices", index))
		}
		if seen[index] {
			errs = append(errs, *errors.NewValidationErrorWithRule("correct_option_indices",
				"index "+strconv.Itoa(index)+" is duplicated", "correct_indices", index))
		}
		seen[index] = true
	}

	if question.Type == models.QuestionSingleChoice && len(question.CorrectOptionIndices) != 1 {
		errs = append(errs, *errors.NewValidationErrorWithRule("correct_option_indices",
			"single choice questions need exactly one correct index", "correct_indices", question.CorrectOptionIndices))
	}

	return errs
}

// ValidateQuiz validates every question and prefixes field names with the question position.
func (v *QuestionValidator) ValidateQuiz(quiz *models.Quiz) ValidationErrors {
	var errs ValidationErrors
	for i := range quiz.Questions {
		for _, e := range v.ValidateQuestion(&quiz.Questions[i]) {
			e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	return errs
}

// ValidateGradePoints checks a manual grade against the question's point value.
func (v *QuestionValidator) ValidateGradePoints(question *models.Question, points int) error {
	if points < 0 || (question != nil && points > question.Points) {
		limit := "the question's point value"
		if question != nil {
			limit = strconv.Itoa(question.Points)
		}
		return errors.NewValidationErrorWithRule("points", "must be between 0 and "+limit, "grade_points", points)
	}
	return nil
}
