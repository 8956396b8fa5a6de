package routers

import (
	"quizadmin/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func QuestionRoutes(r chi.Router, questionHandler *handlers.QuestionHandler) {
	r.Route("/questions", func(r chi.Router) {
		r.Get("/", questionHandler.GetQuestionsHandler)
		r.Post("/", questionHandler.CreateQuestionHandler)
		r.Get("/{id}", questionHandler.GetQuestionByIDHandler)
		r.Put("/{id}", questionHandler.UpdateQuestionHandler)
		r.Delete("/{id}", questionHandler.DeleteQuestionHandler)
	})
}
