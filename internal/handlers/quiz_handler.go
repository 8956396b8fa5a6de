package handlers

import (
	"context"
	"errors"
	"net/http"

	"quizadmin/internal/metrics"
	"quizadmin/internal/models"
	"quizadmin/internal/services"
	"quizadmin/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuizService interface {
	ListQuizzes(ctx context.Context) ([]models.PopulatedQuiz, error)
	CreateQuiz(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*models.PopulatedQuiz, error)
	GetQuizFiltered(ctx context.Context, id string) (*models.PopulatedQuiz, error)
	UpdateQuiz(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	AddQuestionToQuiz(ctx context.Context, quizID string, draft models.QuestionDraft) (*models.Question, error)
	AddQuestionsToQuiz(ctx context.Context, quizID string, drafts []models.QuestionDraft) ([]models.Question, error)
}

type QuizHandler struct {
	service QuizService
	logger  *zap.Logger
}

func NewQuizHandler(s QuizService, logger *zap.Logger) *QuizHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizHandler{service: s, logger: logger}
}

func (handler *QuizHandler) GetQuizzesHandler(writer http.ResponseWriter, request *http.Request) {
	quizzes, err := handler.service.ListQuizzes(request.Context())
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, quizzes)
}

func (handler *QuizHandler) CreateQuizHandler(writer http.ResponseWriter, request *http.Request) {
	var draft models.QuizDraft
	if err := utils.DecodeJSON(writer, request, &draft); err != nil {
		writeBadPayload(writer)
		return
	}

	created, err := handler.service.CreateQuiz(request.Context(), draft)
	if err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("quiz created", zap.String("quiz_id", created.ID), zap.String("title", created.Title))
	writer.Header().Set("Location", "/quizzes/"+created.ID)
	utils.JSON(writer, http.StatusOK, created)
}

func (handler *QuizHandler) GetQuizByIDHandler(writer http.ResponseWriter, request *http.Request) {
	quiz, err := handler.service.GetQuiz(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, quiz)
}

// PopulateQuizHandler returns the quiz with only its "capital" questions.
func (handler *QuizHandler) PopulateQuizHandler(writer http.ResponseWriter, request *http.Request) {
	quiz, err := handler.service.GetQuizFiltered(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, quiz)
}

func (handler *QuizHandler) UpdateQuizHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var patch models.QuizPatch
	if err := utils.DecodeJSON(writer, request, &patch); err != nil {
		writeBadPayload(writer)
		return
	}

	updated, err := handler.service.UpdateQuiz(request.Context(), id, patch)
	if err != nil {
		handler.fail(writer, err)
		return
	}
	utils.JSON(writer, http.StatusOK, updated)
}

func (handler *QuizHandler) DeleteQuizHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.service.DeleteQuiz(request.Context(), id); err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("quiz deleted", zap.String("quiz_id", id))
	utils.JSON(writer, http.StatusOK, models.MessageResponse{Message: "Quiz deleted successfully"})
}

func (handler *QuizHandler) AddQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	quizID := chi.URLParam(request, "id")

	var draft models.QuestionDraft
	if err := utils.DecodeJSON(writer, request, &draft); err != nil {
		writeBadPayload(writer)
		return
	}

	created, err := handler.service.AddQuestionToQuiz(request.Context(), quizID, draft)
	if err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("question attached", zap.String("quiz_id", quizID), zap.String("question_id", created.ID))
	utils.JSON(writer, http.StatusOK, created)
}

func (handler *QuizHandler) AddQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	quizID := chi.URLParam(request, "id")

	var drafts []models.QuestionDraft
	if err := utils.DecodeJSON(writer, request, &drafts); err != nil {
		writeBadPayload(writer)
		return
	}

	created, err := handler.service.AddQuestionsToQuiz(request.Context(), quizID, drafts)
	var dup *services.DuplicateError
	if errors.As(err, &dup) {
		metrics.RecordRejection(services.ResourceQuiz, metrics.ReasonDuplicate)
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:       "duplicate",
			Message:    msgQuestionsUnique,
			Duplicates: dup.Texts,
		})
		return
	}
	if err != nil {
		handler.fail(writer, err)
		return
	}

	handler.logger.Info("questions attached", zap.String("quiz_id", quizID), zap.Int("count", len(created)))
	utils.JSON(writer, http.StatusOK, created)
}

func (handler *QuizHandler) fail(writer http.ResponseWriter, err error) {
	writeServiceError(writer, handler.logger, services.ResourceQuiz, msgQuizNotFound, err)
}
