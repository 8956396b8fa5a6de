package routers

import (
	"quizadmin/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func QuizRoutes(r chi.Router, quizHandler *handlers.QuizHandler) {
	r.Route("/quizzes", func(r chi.Router) {
		r.Get("/", quizHandler.GetQuizzesHandler)
		r.Post("/", quizHandler.CreateQuizHandler)
		r.Get("/{id}", quizHandler.GetQuizByIDHandler)
		r.Put("/{id}", quizHandler.UpdateQuizHandler)
		r.Delete("/{id}", quizHandler.DeleteQuizHandler)

		r.Get("/{id}/populate", quizHandler.PopulateQuizHandler)
		r.Post("/{id}/question", quizHandler.AddQuestionHandler)
		r.Post("/{id}/questions", quizHandler.AddQuestionsHandler)
	})
}
