package services

import (
	"sort"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
)

const (
	// completion is reported as full because no enrollment data reaches this service
	fixedCompletionRate   = 100.0
	maxCommonWrongAnswers = 3
)

// ComputeAnalytics aggregates every submission of a quiz regardless of status.
// Pending submissions contribute their current partial score.
func ComputeAnalytics(quiz *models.Quiz, submissions []*models.QuizSubmission) models.QuizAnalytics {
	analytics := models.QuizAnalytics{
		QuizID:            quiz.ID,
		QuizTitle:         quiz.Title,
		TotalPoints:       quiz.TotalPoints(),
		QuestionAnalytics: []models.QuestionAnalytics{},
	}
	if len(submissions) == 0 {
		return analytics
	}

	total := 0
	highest, lowest := submissions[0].Score, submissions[0].Score
	timeSum, timeCount := 0, 0
	for _, s := range submissions {
		total += s.Score
		if s.Score > highest {
			highest = s.Score
		}
		if s.Score < lowest {
			lowest = s.Score
		}
		if s.TimeSpentSeconds != nil {
			timeSum += *s.TimeSpentSeconds
			timeCount++
		}
	}

	analytics.TotalSubmissions = len(submissions)
	analytics.AverageScore = float64(total) / float64(len(submissions))
	if analytics.TotalPoints > 0 {
		analytics.AveragePercentage = analytics.AverageScore / float64(analytics.TotalPoints) * 100
	}
	analytics.HighestScore = highest
	analytics.LowestScore = lowest
	analytics.CompletionRate = fixedCompletionRate
	if timeCount > 0 {
		avg := float64(timeSum) / float64(timeCount)
		analytics.AverageTimeSeconds = &avg
	}

	analytics.QuestionAnalytics = make([]models.QuestionAnalytics, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		analytics.QuestionAnalytics = append(analytics.QuestionAnalytics, ComputeQuestionAnalytics(&quiz.Questions[i], submissions))
	}
	return analytics
}

// ComputeQuestionAnalytics scans every submission for its first answer to the question.
func ComputeQuestionAnalytics(question *models.Question, submissions []*models.QuizSubmission) models.QuestionAnalytics {
	qa := models.QuestionAnalytics{
		QuestionID:         question.ID,
		QuestionText:       question.Text,
		QuestionType:       question.Type,
		MaxPoints:          question.Points,
		CommonWrongAnswers: []models.WrongAnswer{},
	}

	pointsSum := 0
	wrong := newOptionCounter()
	for _, s := range submissions {
		answer, ok := s.Answer(question.ID)
		if !ok {
			continue
		}
		qa.TotalAttempts++
		pointsSum += answer.PointsEarned

		correct := answer.IsCorrect != nil && *answer.IsCorrect
		if correct {
			qa.CorrectAttempts++
			continue
		}
		if question.Type != models.QuestionDescriptive {
			for _, index := range answer.SelectedOptionIndices {
				wrong.add(index)
			}
		}
	}

	if qa.TotalAttempts > 0 {
		qa.AveragePoints = float64(pointsSum) / float64(qa.TotalAttempts)
		qa.SuccessRate = float64(qa.CorrectAttempts) / float64(qa.TotalAttempts) * 100
	}
	qa.Difficulty = ClassifyDifficulty(qa.SuccessRate)

	for _, entry := range wrong.top(maxCommonWrongAnswers) {
		text, ok := question.OptionText(entry.index)
		if !ok {
			continue
		}
		qa.CommonWrongAnswers = append(qa.CommonWrongAnswers, models.WrongAnswer{
			OptionIndex: entry.index,
			OptionText:  text,
			Count:       entry.count,
		})
	}
	return qa
}

// ClassifyDifficulty maps a success rate onto Easy [80,100], Medium [50,80) and Hard [0,50).
func ClassifyDifficulty(successRate float64) models.Difficulty {
	switch {
	case successRate >= 80:
		return models.DifficultyEasy
	case successRate >= 50:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

type optionCount struct {
	index int
	count int
}

// optionCounter counts selections and remembers first-seen order for stable ranking.
type optionCounter struct {
	position map[int]int
	counts   []optionCount
}

func newOptionCounter() *optionCounter {
	return &optionCounter{position: make(map[int]int)}
}

func (c *optionCounter) add(index int) {
	pos, ok := c.position[index]
	if !ok {
		pos = len(c.counts)
		c.position[index] = pos
		c.counts = append(c.counts, optionCount{index: index})
	}
	c.counts[pos].count++
}

// top selects the n highest counts before out-of-range indices are dropped,
// so a bad index can still take one of the n slots.
func (c *optionCounter) top(n int) []optionCount {
	ranked := append([]optionCount(nil), c.counts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
