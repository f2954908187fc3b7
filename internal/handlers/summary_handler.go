package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	BaseHandler
	summaryService services.SummaryService
}

func NewSummaryHandler(summaryService services.SummaryService, logger utils.Logger) *SummaryHandler {
	return &SummaryHandler{
		BaseHandler:    NewBaseHandler(logger),
		summaryService: summaryService,
	}
}

// GetMySummaries returns one row per quiz of the caller that has submissions
// @Summary Get results summaries
// @Tags analytics
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.QuizResultsSummary}
// @Router /educators/me/summaries [get]
func (h *SummaryHandler) GetMySummaries(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !user.CanViewResults() {
		h.RespondWithError(c, http.StatusForbidden, "Only educators can view results summaries", nil)
		return
	}

	rows, err := h.summaryService.BuildSummaries(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Results summaries retrieved", rows)
}
