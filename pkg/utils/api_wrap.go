package utils

import (
	"errors"
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

// RequiresQuestionnaire is the payload returned instead of recommendations
// when the user has no answers yet.
type RequiresQuestionnaire struct {
	RequiresQuestionnaire bool   `json:"requires_questionnaire"`
	Message               string `json:"message"`
}

func traceIDFrom(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDFrom(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDFrom(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	traceID := traceIDFrom(c)

	switch {
	case errors.Is(err, ErrNoPreviousQuestion):
		RespondError(c, http.StatusBadRequest, "No previous question")
	case errors.Is(err, ErrQuestionnaireRequired):
		RespondSuccess(c, RequiresQuestionnaire{
			RequiresQuestionnaire: true,
			Message:               "Please complete the questionnaire first",
		}, "Questionnaire required")
	case errors.Is(err, ErrNeighborhoodNotFound):
		RespondError(c, http.StatusNotFound, "Neighborhood not found")
	case errors.Is(err, ErrInvalidAnswers):
		RespondError(c, http.StatusBadRequest, "Answers must be an object keyed by question id")
	case errors.Is(err, ErrNoAnswers):
		RespondError(c, http.StatusBadRequest, "No answers to finalize")
	case errors.Is(err, ErrMissingUserID):
		RespondError(c, http.StatusUnauthorized, "Missing user id")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", traceID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unhandled error", zap.String("trace_id", traceID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
