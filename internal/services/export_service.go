package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	submissionsSheet = "Submissions"
	questionsSheet   = "Questions"
)

type ExportService interface {
	// ExportQuizResults renders submissions and per-question statistics as an xlsx workbook
	ExportQuizResults(ctx context.Context, quizID string, user models.User) ([]byte, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportQuizResults(ctx context.Context, quizID string, user models.User) ([]byte, string, error) {
	quiz, err := loadOwnedQuiz(ctx, s.repo.Quiz(), quizID, user, "export")
	if err != nil {
		return nil, "", err
	}
	submissions, err := s.repo.Submission().ListByQuiz(ctx, quizID, repositories.SubmissionFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list submissions for quiz %s: %w", quizID, err)
	}

	data, err := BuildResultsWorkbook(quiz, submissions)
	if err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "Exported quiz results", "quiz_id", quizID, "user_id", user.ID, "rows", len(submissions))
	return data, exportFilename(quiz), nil
}

// BuildResultsWorkbook writes one row per submission and one row per question
func BuildResultsWorkbook(quiz *models.Quiz, submissions []*models.QuizSubmission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", submissionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	submissionRows := [][]interface{}{{
		"Learner", "Email", "Score", "Total Points", "Percentage", "Status", "Submitted At", "Graded At", "Time Spent (s)",
	}}
	for _, sub := range submissions {
		percentage := 0.0
		if sub.TotalPoints > 0 {
			percentage = float64(sub.Score) / float64(sub.TotalPoints) * 100
		}
		gradedAt, timeSpent := "", ""
		if sub.GradedAt != nil {
			gradedAt = sub.GradedAt.Format("2006-01-02 15:04")
		}
		if sub.TimeSpentSeconds != nil {
			timeSpent = fmt.Sprint(*sub.TimeSpentSeconds)
		}
		submissionRows = append(submissionRows, []interface{}{
			sub.LearnerName, sub.LearnerEmail, sub.Score, sub.TotalPoints,
			fmt.Sprintf("%.1f", percentage), string(sub.Status),
			sub.SubmittedAt.Format("2006-01-02 15:04"), gradedAt, timeSpent,
		})
	}
	if err := writeRows(f, submissionsSheet, submissionRows); err != nil {
		return nil, err
	}

	analytics := ComputeAnalytics(quiz, submissions)
	questionRows := [][]interface{}{{
		"Question", "Type", "Attempts", "Correct", "Success Rate", "Average Points", "Max Points", "Difficulty", "Common Wrong Answers",
	}}
	for _, qa := range analytics.QuestionAnalytics {
		wrong := make([]string, 0, len(qa.CommonWrongAnswers))
		for _, w := range qa.CommonWrongAnswers {
			wrong = append(wrong, fmt.Sprintf("%s (%d)", w.OptionText, w.Count))
		}
		questionRows = append(questionRows, []interface{}{
			qa.QuestionText, string(qa.QuestionType), qa.TotalAttempts, qa.CorrectAttempts,
			fmt.Sprintf("%.1f", qa.SuccessRate), fmt.Sprintf("%.2f", qa.AveragePoints),
			qa.MaxPoints, string(qa.Difficulty), strings.Join(wrong, "; "),
		})
	}
	if err := writeRows(f, questionsSheet, questionRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func exportFilename(quiz *models.Quiz) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, quiz.Title)
	if name == "" {
		name = quiz.ID
	}
	return fmt.Sprintf("%s_results.xlsx", name)
}
