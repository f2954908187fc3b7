package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	analyticsHandler *AnalyticsHandler
	summaryHandler   *SummaryHandler
	gradingHandler   *GradingHandler
	auth             gin.HandlerFunc
}

// NewHandlerManager wires handlers to services. auth guards every /api/v1 route.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	auth gin.HandlerFunc,
) *HandlerManager {
	return &HandlerManager{
		analyticsHandler: NewAnalyticsHandler(serviceManager.Analytics(), serviceManager.Export(), logger),
		summaryHandler:   NewSummaryHandler(serviceManager.Summary(), logger),
		gradingHandler:   NewGradingHandler(serviceManager.Grading(), validator, logger),
		auth:             auth,
	}
}

// NewRouter builds the engine with the shared middleware chain
func NewRouter(logger utils.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestID(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.auth)
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id/analytics", hm.analyticsHandler.GetQuizAnalytics)
			quizzes.GET("/:id/insights", hm.analyticsHandler.GetQuizInsights)
			quizzes.GET("/:id/export", hm.analyticsHandler.ExportQuizResults)
			quizzes.GET("/:id/pending-review", hm.analyticsHandler.ListPendingReview)
			quizzes.POST("/:id/pending-review/remind", hm.analyticsHandler.RemindPendingReview)
		}

		v1.GET("/educators/me/summaries", hm.summaryHandler.GetMySummaries)

		grading := v1.Group("/grading")
		{
			grading.POST("/submissions/:id/answers/:question_id", hm.gradingHandler.GradeAnswer)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-analytics-service",
	})
}
