package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrGeneratorDisabled = errors.New("narrative generator has no API key")

// GeminiGenerator turns quiz statistics into educator-facing commentary.
// Without an API key it stays constructible and every call reports ErrGeneratorDisabled.
type GeminiGenerator struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
	logger   *slog.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*GeminiGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &GeminiGenerator{logger: logger.With("component", "gemini_insights")}
	if apiKey == "" {
		g.logger.Warn("GEMINI_API_KEY is not set, quiz insights will be statistics only")
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.3)

	g.client = client
	g.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", errors.New("gemini returned no content")
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		return sb.String(), nil
	}
	return g, nil
}

func (g *GeminiGenerator) Enabled() bool {
	return g != nil && g.generate != nil
}

func (g *GeminiGenerator) GenerateInsights(ctx context.Context, analytics models.QuizAnalytics) (*models.QuizInsights, error) {
	if !g.Enabled() {
		return nil, ErrGeneratorDisabled
	}

	raw, err := g.generate(ctx, BuildPrompt(analytics))
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini request failed", "quiz_id", analytics.QuizID, "error", err)
		return nil, err
	}

	out, err := ParseInsights(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "Gemini response was not valid insights JSON", "quiz_id", analytics.QuizID, "error", err)
		return nil, err
	}
	return out, nil
}

func (g *GeminiGenerator) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// BuildPrompt renders the statistics the model is allowed to reason about
func BuildPrompt(a models.QuizAnalytics) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant helping an educator understand quiz results.\n")
	sb.WriteString("Respond with JSON only, shaped as ")
	sb.WriteString(`{"summary": string, "strengths": [string], "improvements": [string], "recommendations": [string]}.`)
	sb.WriteString("\nKeep each list to at most 3 short items.\n\n")

	fmt.Fprintf(&sb, "Quiz: %s\n", a.QuizTitle)
	fmt.Fprintf(&sb, "Submissions: %d\n", a.TotalSubmissions)
	fmt.Fprintf(&sb, "Average score: %.2f of %d (%.1f%%)\n", a.AverageScore, a.TotalPoints, a.AveragePercentage)
	fmt.Fprintf(&sb, "Highest: %d, lowest: %d\n", a.HighestScore, a.LowestScore)
	if a.AverageTimeSeconds != nil {
		fmt.Fprintf(&sb, "Average time: %.0f seconds\n", *a.AverageTimeSeconds)
	}

	sb.WriteString("\nQuestions:\n")
	for i, q := range a.QuestionAnalytics {
		fmt.Fprintf(&sb, "%d. [%s, %s] %q success %.1f%% over %d attempts, avg %.2f/%d points\n",
			i+1, q.QuestionType, q.Difficulty, q.QuestionText, q.SuccessRate, q.TotalAttempts, q.AveragePoints, q.MaxPoints)
		for _, w := range q.CommonWrongAnswers {
			fmt.Fprintf(&sb, "   wrong choice %q picked %d times\n", w.OptionText, w.Count)
		}
	}
	return sb.String()
}

// ParseInsights accepts bare JSON or JSON wrapped in a markdown code fence
func ParseInsights(raw string) (*models.QuizInsights, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out models.QuizInsights
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	if out.Summary == "" {
		return nil, errors.New("decode insights: empty summary")
	}
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Improvements == nil {
		out.Improvements = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return &out, nil
}
