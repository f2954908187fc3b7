package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	validator      *validator.Validator
}

func NewGradingHandler(
	gradingService services.GradingService,
	validator *validator.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		validator:      validator,
	}
}

// GradeAnswer sets the points of one answer of a submission manually
// @Summary Grade answer
// @Tags grading
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param question_id path string true "Question ID"
// @Param grade body services.GradeAnswerRequest true "Grading data"
// @Success 200 {object} SuccessResponse{data=models.QuizSubmission}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /grading/submissions/{id}/answers/{question_id} [post]
func (h *GradingHandler) GradeAnswer(c *gin.Context) {
	submissionID := ParseStringIDParam(c, "id")
	if submissionID == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var req services.GradeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Grading answer", "submission_id", submissionID, "question_id", questionID)
	result, err := h.gradingService.GradeDescriptiveAnswer(c.Request.Context(), submissionID, questionID, *req.Points, req.Feedback, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Answer graded", result)
}
