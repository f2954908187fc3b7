package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router    *gin.Engine
	store     *memory.Store
	publisher *events.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.PutCourse("c1", "Go Basics")
	store.PutQuiz(models.Quiz{
		ID:         "q1",
		Title:      "Loops",
		CourseID:   "c1",
		EducatorID: "edu-1",
		Status:     models.QuizStatusPublished,
		Questions: models.Questions{
			{ID: "mc", Text: "Pick", Type: models.QuestionSingleChoice, Options: []string{"a", "b", "c", "d"}, CorrectOptionIndices: []int{0}, Points: 5},
			{ID: "essay", Text: "Explain", Type: models.QuestionDescriptive, Points: 5},
		},
		UpdatedAt: time.Now(),
	})
	correct := true
	store.PutSubmission(&models.QuizSubmission{
		ID:          "s1",
		QuizID:      "q1",
		LearnerID:   "l1",
		LearnerName: "Ada",
		Status:      models.SubmissionPendingReview,
		SubmittedAt: time.Now(),
		TotalPoints: 10,
		Score:       5,
		Answers: models.Answers{
			{ID: "a1", QuestionID: "mc", SelectedOptionIndices: []int{0}, IsCorrect: &correct, PointsEarned: 5},
			{ID: "a2", QuestionID: "essay"},
		},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	manager := services.NewServiceManager(services.Dependencies{
		Repo:      memory.NewRepository(store),
		Publisher: publisher,
		Validator: v,
		Logger:    logger,
	})

	appLogger := utils.NewSlogLogger(logger)
	router := NewRouter(appLogger, []string{"*"})
	NewHandlerManager(manager, v, appLogger, DevAuthMiddleware()).SetupRoutes(router)
	return &testEnv{router: router, store: store, publisher: publisher}
}

func (e *testEnv) do(method, path, userID, role string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(devUserIDHeader, userID)
		req.Header.Set(devUserRoleHeader, role)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quiz-analytics-service")
}

func TestRoutesRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/analytics", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetQuizAnalytics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/analytics", "edu-1", "educator", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var analytics models.QuizAnalytics
	decodeData(t, w, &analytics)
	assert.Equal(t, 1, analytics.TotalSubmissions)
	assert.Equal(t, 10, analytics.TotalPoints)
	assert.InDelta(t, 50.0, analytics.AveragePercentage, 0.001)
	assert.Len(t, analytics.QuestionAnalytics, 2)
}

func TestGetQuizAnalyticsErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/analytics", "edu-2", "educator", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/v1/quizzes/missing/analytics", "edu-1", "educator", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/quizzes/q1/analytics", "admin-1", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetQuizInsightsWithoutGenerator(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/insights", "edu-1", "educator", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.QuizInsightsResponse
	decodeData(t, w, &resp)
	assert.Nil(t, resp.Insights)
	assert.Equal(t, "q1", resp.Analytics.QuizID)
}

func TestGradeAnswer(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/grading/submissions/s1/answers/essay", "edu-1", "educator",
		map[string]interface{}{"points": 4, "feedback": "Good"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var graded models.QuizSubmission
	decodeData(t, w, &graded)
	assert.Equal(t, models.SubmissionGraded, graded.Status)
	assert.Equal(t, 9, graded.Score)
	assert.Equal(t, 2, graded.Version)
	require.NotNil(t, graded.GradedAt)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventAnswerGraded, published[0].Type)
	assert.Equal(t, events.EventSubmissionGraded, published[1].Type)
}

func TestGradeAnswerErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		user   string
		body   interface{}
		status int
	}{
		{"missing points", "/api/v1/grading/submissions/s1/answers/essay", "edu-1", map[string]interface{}{"feedback": "x"}, http.StatusBadRequest},
		{"negative points", "/api/v1/grading/submissions/s1/answers/essay", "edu-1", map[string]interface{}{"points": -1}, http.StatusBadRequest},
		{"points above max", "/api/v1/grading/submissions/s1/answers/essay", "edu-1", map[string]interface{}{"points": 6}, http.StatusBadRequest},
		{"choice question above max", "/api/v1/grading/submissions/s1/answers/mc", "edu-1", map[string]interface{}{"points": 6}, http.StatusBadRequest},
		{"unknown submission", "/api/v1/grading/submissions/nope/answers/essay", "edu-1", map[string]interface{}{"points": 1}, http.StatusNotFound},
		{"unknown answer", "/api/v1/grading/submissions/s1/answers/ghost", "edu-1", map[string]interface{}{"points": 1}, http.StatusNotFound},
		{"other educator", "/api/v1/grading/submissions/s1/answers/essay", "edu-2", map[string]interface{}{"points": 1}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(http.MethodPost, tt.path, tt.user, "educator", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestGradeAnswerOverridesChoiceAnswer(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/grading/submissions/s1/answers/mc", "edu-1", "educator",
		map[string]interface{}{"points": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var graded models.QuizSubmission
	decodeData(t, w, &graded)
	assert.Equal(t, 2, graded.Score)
	assert.Equal(t, models.SubmissionPendingReview, graded.Status)
}

func TestGradeAnswerMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grading/submissions/s1/answers/essay", strings.NewReader("{"))
	req.Header.Set(devUserIDHeader, "edu-1")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingReviewAndRemind(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/pending-review", "edu-1", "educator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []models.QuizSubmission
	decodeData(t, w, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "s1", pending[0].ID)

	w = env.do(http.MethodPost, "/api/v1/quizzes/q1/pending-review/remind", "edu-1", "educator", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"pending_submissions":1`)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventManualGradingRequired, published[0].Type)
}

func TestExportQuizResults(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/quizzes/q1/export", "edu-1", "educator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Loops_results.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestGetMySummaries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/educators/me/summaries", "edu-1", "educator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.QuizResultsSummary
	decodeData(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Go Basics", rows[0].CourseTitle)

	w = env.do(http.MethodGet, "/api/v1/educators/me/summaries", "l1", "learner", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type stubVerifier struct {
	user models.User
	err  error
}

func (s stubVerifier) Verify(string) (models.User, error) { return s.user, s.err }

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newRouter := func(v TokenVerifier) *gin.Engine {
		r := gin.New()
		r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(userIDKey))
		})
		return r
	}

	call := func(r *gin.Engine, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	ok := newRouter(stubVerifier{user: models.User{ID: "u1", Role: models.RoleEducator}})
	w := call(ok, "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(ok, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(ok, "Basic abc").Code)

	bad := newRouter(stubVerifier{err: errors.New("expired")})
	assert.Equal(t, http.StatusUnauthorized, call(bad, "Bearer token").Code)
}

func TestUserFromClaims(t *testing.T) {
	admin := UserFromClaims(&casdoorsdk.Claims{User: casdoorsdk.User{Id: "a", Name: "root", IsAdmin: true}})
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "root", admin.FullName)

	tagged := UserFromClaims(&casdoorsdk.Claims{User: casdoorsdk.User{Id: "t", DisplayName: "Grace", Tag: "Teacher"}})
	assert.Equal(t, models.RoleEducator, tagged.Role)
	assert.Equal(t, "Grace", tagged.FullName)

	byRole := UserFromClaims(&casdoorsdk.Claims{User: casdoorsdk.User{Id: "r", Roles: []*casdoorsdk.Role{{Name: "educator"}}}})
	assert.Equal(t, models.RoleEducator, byRole.Role)

	learner := UserFromClaims(&casdoorsdk.Claims{User: casdoorsdk.User{Id: "l"}})
	assert.Equal(t, models.RoleLearner, learner.Role)
}
