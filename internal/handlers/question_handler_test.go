package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"quizadmin/internal/handlers"
	"quizadmin/internal/models"
	"quizadmin/internal/services"
)

type fakeQuestionService struct {
	listFn   func() ([]models.Question, error)
	createFn func(models.QuestionDraft) (*models.Question, error)
	getFn    func(string) (*models.Question, error)
	updateFn func(string, models.QuestionPatch) (*models.Question, error)
	deleteFn func(string) error
}

var errUnexpected = errors.New("unexpected call")

func (f *fakeQuestionService) ListQuestions(context.Context) ([]models.Question, error) {
	if f.listFn != nil {
		return f.listFn()
	}
	return []models.Question{}, nil
}
func (f *fakeQuestionService) CreateQuestion(_ context.Context, d models.QuestionDraft) (*models.Question, error) {
	if f.createFn != nil {
		return f.createFn(d)
	}
	return nil, errUnexpected
}
func (f *fakeQuestionService) GetQuestion(_ context.Context, id string) (*models.Question, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	return nil, errUnexpected
}
func (f *fakeQuestionService) UpdateQuestion(_ context.Context, id string, p models.QuestionPatch) (*models.Question, error) {
	if f.updateFn != nil {
		return f.updateFn(id, p)
	}
	return nil, errUnexpected
}
func (f *fakeQuestionService) DeleteQuestion(_ context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return errUnexpected
}

func questionRouter(svc handlers.QuestionService) *chi.Mux {
	h := handlers.NewQuestionHandler(svc, nil)
	r := chi.NewRouter()
	r.Get("/questions", h.GetQuestionsHandler)
	r.Post("/questions", h.CreateQuestionHandler)
	r.Get("/questions/{id}", h.GetQuestionByIDHandler)
	r.Put("/questions/{id}", h.UpdateQuestionHandler)
	r.Delete("/questions/{id}", h.DeleteQuestionHandler)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var got models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v\nbody=%s", err, rr.Body.String())
	}
	return got
}

// GET /questions
func TestGetQuestions_OK(t *testing.T) {
	svc := &fakeQuestionService{
		listFn: func() ([]models.Question, error) {
			return []models.Question{
				{ID: "q1", Text: "Capital of France?", Options: []string{"Paris"}},
				{ID: "q2", Text: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswerIndex: 1},
			}, nil
		},
	}

	rr := serve(questionRouter(svc), http.MethodGet, "/questions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got []models.Question
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v\nbody=%s", err, rr.Body.String())
	}
	if len(got) != 2 || got[1].CorrectAnswerIndex != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGetQuestions_StoreFailure(t *testing.T) {
	svc := &fakeQuestionService{
		listFn: func() ([]models.Question, error) { return nil, errors.New("connection reset") },
	}

	rr := serve(questionRouter(svc), http.MethodGet, "/questions", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decodeError(t, rr); got.Message != "Server error" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

// POST /questions (valid)
func TestCreateQuestion_Valid(t *testing.T) {
	svc := &fakeQuestionService{
		createFn: func(d models.QuestionDraft) (*models.Question, error) {
			q := d.ToQuestion()
			q.ID = "q101"
			return &q, nil
		},
	}

	rr := serve(questionRouter(svc), http.MethodPost, "/questions",
		`{"text":"Capital of France?","options":["Paris","Lyon"],"keywords":["geo"],"correctAnswerIndex":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var created models.Question
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if created.ID != "q101" || created.Text != "Capital of France?" || len(created.Keywords) != 1 {
		t.Fatalf("unexpected created: %+v", created)
	}
	if loc := rr.Header().Get("Location"); loc != "/questions/q101" {
		t.Fatalf("unexpected Location: %q", loc)
	}
}

// POST /questions (duplicate text)
func TestCreateQuestion_Duplicate(t *testing.T) {
	svc := &fakeQuestionService{
		createFn: func(d models.QuestionDraft) (*models.Question, error) {
			return nil, &services.DuplicateError{Resource: services.ResourceQuestion, Texts: []string{d.Text}}
		},
	}

	rr := serve(questionRouter(svc), http.MethodPost, "/questions", `{"text":"Capital of France?"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeError(t, rr); got.Message != "Question must be unique" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

// POST /questions (bad JSON)
func TestCreateQuestion_BadJSON(t *testing.T) {
	svc := &fakeQuestionService{} // createFn not used

	// invalid: text should be string, not number
	rr := serve(questionRouter(svc), http.MethodPost, "/questions", `{"text":123}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateQuestion_MissingText(t *testing.T) {
	svc := &fakeQuestionService{
		createFn: func(models.QuestionDraft) (*models.Question, error) {
			return nil, fmt.Errorf("%w: text is required", services.ErrInvalid)
		},
	}

	rr := serve(questionRouter(svc), http.MethodPost, "/questions", `{"options":["a"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

// GET /questions/{id} (found)
func TestGetQuestionByID_Found(t *testing.T) {
	svc := &fakeQuestionService{
		getFn: func(id string) (*models.Question, error) {
			return &models.Question{ID: id, Text: "Capital of Japan?", Options: []string{"Tokyo"}}, nil
		},
	}

	rr := serve(questionRouter(svc), http.MethodGet, "/questions/abc", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got models.Question
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if got.ID != "abc" || got.Text == "" {
		t.Fatalf("unexpected question: %+v", got)
	}
}

// GET /questions/{id} (not found)
func TestGetQuestionByID_NotFound(t *testing.T) {
	svc := &fakeQuestionService{
		getFn: func(id string) (*models.Question, error) {
			return nil, fmt.Errorf("get question: question %w", services.ErrNotFound)
		},
	}

	rr := serve(questionRouter(svc), http.MethodGet, "/questions/9999", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeError(t, rr); got.Message != "Question not found" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

// PUT /questions/{id}
func TestUpdateQuestion_OnlyPresentFieldsPatched(t *testing.T) {
	var gotPatch models.QuestionPatch
	svc := &fakeQuestionService{
		updateFn: func(id string, p models.QuestionPatch) (*models.Question, error) {
			gotPatch = p
			q := models.Question{ID: id, Text: "Capital of France?", Options: []string{"Paris", "Lyon"}}
			p.Apply(&q)
			return &q, nil
		},
	}

	rr := serve(questionRouter(svc), http.MethodPut, "/questions/q1", `{"correctAnswerIndex":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotPatch.Text != nil || gotPatch.Options != nil || gotPatch.CorrectAnswerIndex == nil {
		t.Fatalf("unexpected patch: %+v", gotPatch)
	}

	var got models.Question
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if got.CorrectAnswerIndex != 1 || got.Text != "Capital of France?" {
		t.Fatalf("unexpected updated: %+v", got)
	}
}

// DELETE /questions/{id}
func TestDeleteQuestion_OK(t *testing.T) {
	called := false
	svc := &fakeQuestionService{
		deleteFn: func(id string) error {
			called = true
			return nil
		},
	}

	rr := serve(questionRouter(svc), http.MethodDelete, "/questions/123", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !called {
		t.Fatalf("expected delete to be called")
	}

	var got models.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if got.Message != "Question deleted" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestDeleteQuestion_NotFound(t *testing.T) {
	svc := &fakeQuestionService{
		deleteFn: func(string) error { return services.ErrNotFound },
	}

	rr := serve(questionRouter(svc), http.MethodDelete, "/questions/123", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
