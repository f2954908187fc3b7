package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/config"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("port"))
	assert.NotNil(t, serve.Flags().Lookup("memory"))

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", migrate.Name())
}

func TestSeedDemoData(t *testing.T) {
	store := memory.NewStore()
	seedDemoData(store)
	repo := memory.NewRepository(store)
	ctx := context.Background()

	quiz, err := repo.Quiz().GetByID(ctx, "quiz-demo")
	require.NoError(t, err)
	assert.Equal(t, 10, quiz.TotalPoints())

	subs, err := repo.Submission().ListByQuiz(ctx, "quiz-demo", repositories.SubmissionFilters{})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	for _, s := range subs {
		assert.Equal(t, s.SumPoints(), s.Score)
	}
}

func TestBuildAuthRequiresCasdoorInProduction(t *testing.T) {
	_, err := buildAuth(&config.Config{Environment: "production"}, discardLogger())
	assert.Error(t, err)

	auth, err := buildAuth(&config.Config{Environment: "development"}, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, auth)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
