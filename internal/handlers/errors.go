package handlers

import (
	"errors"
	"net/http"

	"quizadmin/internal/metrics"
	"quizadmin/internal/models"
	"quizadmin/internal/services"
	"quizadmin/internal/utils"

	"go.uber.org/zap"
)

// response messages kept stable for the admin frontend
const (
	msgQuestionUnique  = "Question must be unique"
	msgQuestionsUnique = "Questions must be unique"
	msgQuizUnique      = "Quiz must be unique"
	msgQuizHasQuestion = "Cannot delete quiz with questions"
	msgQuizNotFound    = "Quiz not found"
	msgQuestionMissing = "Question not found"
	msgInvalidPayload  = "Invalid request payload"
	msgServerError     = "Server error"
)

// writeServiceError maps a service error onto the HTTP error contract.
// notFound is the message used when the target record does not exist.
func writeServiceError(writer http.ResponseWriter, logger *zap.Logger, resource, notFound string, err error) {
	var dup *services.DuplicateError
	switch {
	case errors.As(err, &dup):
		metrics.RecordRejection(resource, metrics.ReasonDuplicate)
		message := msgQuestionUnique
		if dup.Resource == services.ResourceQuiz {
			message = msgQuizUnique
		}
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "duplicate",
			Message: message,
		})
	case errors.Is(err, services.ErrConflict):
		metrics.RecordRejection(resource, metrics.ReasonConflict)
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "quiz_has_questions",
			Message: msgQuizHasQuestion,
		})
	case errors.Is(err, services.ErrNotFound):
		metrics.RecordRejection(resource, metrics.ReasonNotFound)
		utils.JSON(writer, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: notFound,
		})
	case errors.Is(err, services.ErrInvalid):
		metrics.RecordRejection(resource, metrics.ReasonInvalid)
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		logger.Error("request failed", zap.String("resource", resource), zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: msgServerError,
		})
	}
}

func writeBadPayload(writer http.ResponseWriter) {
	utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
		Code:    "invalid_request",
		Message: msgInvalidPayload,
	})
}
