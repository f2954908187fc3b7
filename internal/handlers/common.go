package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) contextFields(c *gin.Context, extra []interface{}) []interface{} {
	fields := []interface{}{
		"request_id", utils.GetRequestID(c),
		"user_id", c.GetString(userIDKey),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	return append(fields, extra...)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append(h.contextFields(c, additionalFields), "remote_addr", c.ClientIP())
	h.logger.InfoContext(c.Request.Context(), message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.logger.LogError(err, message, h.contextFields(c, additionalFields)...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.WarnContext(c.Request.Context(), message, h.contextFields(c, additionalFields)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{Message: message}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

// currentUser writes a 401 and returns false when the auth middleware did not run
func (h *BaseHandler) currentUser(c *gin.Context) (models.User, bool) {
	if value, exists := c.Get(userKey); exists {
		if user, ok := value.(models.User); ok && user.ID != "" {
			return user, true
		}
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	return models.User{}, false
}

// handleServiceError maps service errors onto HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	var persistenceError *services.PersistenceError
	switch {
	case errors.Is(err, services.ErrGradingInvalidScore):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid score value", err, err.Error())
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err)
	case errors.Is(err, services.ErrQuizNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Quiz not found", err)
	case errors.Is(err, services.ErrSubmissionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Submission not found", err)
	case errors.Is(err, services.ErrAnswerNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Answer not found", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Submission was modified concurrently, reload and retry", err)
	case errors.As(err, &persistenceError):
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to persist changes", err, persistenceError.Op)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
