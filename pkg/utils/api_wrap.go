package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

// HandleServiceError maps service errors onto the response envelope.
// Upstream details are logged, never echoed back to the caller.
func HandleServiceError(c *gin.Context, err error) {
	logger := zap.L().With(zap.String("trace_id", traceIDOf(c)))

	var notFound *LocationNotFoundError
	switch {
	case errors.As(err, &notFound):
		RespondError(c, http.StatusNotFound, fmt.Sprintf("Could not find a location for '%s'.", notFound.Place))
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStructuredOutput):
		logger.Warn("structured output rejected", zap.Error(err))
		RespondError(c, http.StatusUnprocessableEntity, "I could not produce a structured plan. Please rephrase your request.")
	case errors.Is(err, ErrUnexpectedBehaviorOfAI):
		logger.Error("llm call failed", zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Failed to process your request. Please try again.")
	case errors.Is(err, ErrLocationNotFound):
		RespondError(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrLocationServiceUnavailable):
		logger.Error("location service failed", zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Location service unavailable")
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrDatabaseError):
		logger.Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unknown error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}
