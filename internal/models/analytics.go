package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// WrongAnswer is an incorrect option and how often it was picked.
type WrongAnswer struct {
	OptionIndex int    `json:"option_index"`
	OptionText  string `json:"option_text"`
	Count       int    `json:"count"`
}

// QuestionAnalytics is derived per question and never persisted.
type QuestionAnalytics struct {
	QuestionID         string        `json:"question_id"`
	QuestionText       string        `json:"question_text"`
	QuestionType       QuestionType  `json:"question_type"`
	TotalAttempts      int           `json:"total_attempts"`
	CorrectAttempts    int           `json:"correct_attempts"`
	AveragePoints      float64       `json:"average_points"`
	MaxPoints          int           `json:"max_points"`
	SuccessRate        float64       `json:"success_rate"`
	Difficulty         Difficulty    `json:"difficulty"`
	CommonWrongAnswers []WrongAnswer `json:"common_wrong_answers"`
}

// QuizAnalytics is derived per quiz and never persisted.
type QuizAnalytics struct {
	QuizID             string              `json:"quiz_id"`
	QuizTitle          string              `json:"quiz_title"`
	TotalSubmissions   int                 `json:"total_submissions"`
	AverageScore       float64             `json:"average_score"`
	AveragePercentage  float64             `json:"average_percentage"`
	HighestScore       int                 `json:"highest_score"`
	LowestScore        int                 `json:"lowest_score"`
	TotalPoints        int                 `json:"total_points"`
	CompletionRate     float64             `json:"completion_rate"` // always 100, no enrollment data
	AverageTimeSeconds *float64            `json:"average_time_seconds"`
	QuestionAnalytics  []QuestionAnalytics `json:"question_analytics"`
}

// QuizResultsSummary is one row of an educator's results list.
type QuizResultsSummary struct {
	QuizID             string    `json:"quiz_id"`
	QuizTitle          string    `json:"quiz_title"`
	CourseID           string    `json:"course_id"`
	CourseTitle        string    `json:"course_title"`
	TotalSubmissions   int       `json:"total_submissions"`
	AverageScore       float64   `json:"average_score"`
	LastSubmissionDate time.Time `json:"last_submission_date"`
	NeedsGrading       int       `json:"needs_grading"`
}

// QuizInsights is natural-language commentary on a QuizAnalytics value.
type QuizInsights struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}
