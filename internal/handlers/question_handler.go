package handlers

import (
	"context"
	"net/http"

	"quizadmin/internal/models"
	"quizadmin/internal/services"
	"quizadmin/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuestionService interface {
	ListQuestions(ctx context.Context) ([]models.Question, error)
	CreateQuestion(ctx context.Context, draft models.QuestionDraft) (*models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type QuestionHandler struct {
	service QuestionService
	logger  *zap.Logger
}

func NewQuestionHandler(s QuestionService, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{service: s, logger: logger}
}

func (handler *QuestionHandler) GetQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	questions, err := handler.service.ListQuestions(request.Context())
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, questions)
}

func (handler *QuestionHandler) CreateQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	var draft models.QuestionDraft
	if err := utils.DecodeJSON(writer, request, &draft); err != nil {
		writeBadPayload(writer)
		return
	}

	created, err := handler.service.CreateQuestion(request.Context(), draft)
	if err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("question created", zap.String("question_id", created.ID))
	writer.Header().Set("Location", "/questions/"+created.ID)
	utils.JSON(writer, http.StatusOK, created)
}

func (handler *QuestionHandler) GetQuestionByIDHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	question, err := handler.service.GetQuestion(request.Context(), id)
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, question)
}

func (handler *QuestionHandler) UpdateQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var patch models.QuestionPatch
	if err := utils.DecodeJSON(writer, request, &patch); err != nil {
		writeBadPayload(writer)
		return
	}

	updated, err := handler.service.UpdateQuestion(request.Context(), id, patch)
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, updated)
}

func (handler *QuestionHandler) DeleteQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.service.DeleteQuestion(request.Context(), id); err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("question deleted", zap.String("question_id", id))
	utils.JSON(writer, http.StatusOK, models.MessageResponse{Message: "Question deleted"})
}

func (handler *QuestionHandler) fail(writer http.ResponseWriter, err error) {
	writeServiceError(writer, handler.logger, services.ResourceQuestion, msgQuestionMissing, err)
}
