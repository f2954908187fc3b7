package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetQuizAnalytics returns aggregate and per-question statistics for a quiz
// @Summary Get quiz analytics
// @Tags analytics
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=models.QuizAnalytics}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/analytics [get]
func (h *AnalyticsHandler) GetQuizAnalytics(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.GetQuizAnalytics(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Quiz analytics retrieved", analytics)
}

// GetQuizInsights returns analytics plus the generated narrative when one is available
// @Router /quizzes/{id}/insights [get]
func (h *AnalyticsHandler) GetQuizInsights(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.GetQuizInsights(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Quiz insights retrieved", resp)
}

// ExportQuizResults streams the results workbook
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /quizzes/{id}/export [get]
func (h *AnalyticsHandler) ExportQuizResults(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting quiz results", "quiz_id", quizID)
	data, filename, err := h.exportService.ExportQuizResults(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ListPendingReview lists submissions still waiting for manual grading
// @Router /quizzes/{id}/pending-review [get]
func (h *AnalyticsHandler) ListPendingReview(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	submissions, err := h.analyticsService.ListPendingReview(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Pending submissions retrieved", submissions)
}

// RemindPendingReview publishes a manual grading reminder for the quiz owner
// @Router /quizzes/{id}/pending-review/remind [post]
func (h *AnalyticsHandler) RemindPendingReview(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	count, err := h.analyticsService.RemindPendingReview(c.Request.Context(), quizID, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusAccepted, "Reminder queued", gin.H{"pending_submissions": count})
}
