package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizadmin/internal/models"

	"github.com/pkg/errors"
)

// ListQuizzesTimeout bounds the quiz list request, the only call with its own deadline.
const ListQuizzesTimeout = 5 * time.Second

// APIError is a non-2xx response from the quiz API.
type APIError struct {
	Status     int
	Message    string
	Duplicates []string
}

func (e *APIError) Error() string {
	if len(e.Duplicates) > 0 {
		return fmt.Sprintf("http %d: %s: %s", e.Status, e.Message, strings.Join(e.Duplicates, ", "))
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Client talks to the quiz admin API. Requests are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
}

// New returns a client for baseURL. A nil cache disables caching.
func New(baseURL string, cache Cache) *Client {
	if cache == nil {
		cache = nopCache{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		cache:   cache,
	}
}

func (c *Client) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	if err := c.cachedGet(ctx, ResourceQuestions, "", "/questions", &out); err != nil {
		return nil, errors.Wrap(err, "list questions")
	}
	return out, nil
}

func (c *Client) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var out models.Question
	if err := c.cachedGet(ctx, ResourceQuestions, id, "/questions/"+url.PathEscape(id), &out); err != nil {
		return nil, errors.Wrapf(err, "get question %s", id)
	}
	return &out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, draft models.QuestionDraft) (*models.Question, error) {
	var out models.Question
	if err := c.do(ctx, http.MethodPost, "/questions", draft, &out); err != nil {
		return nil, errors.Wrap(err, "create question")
	}
	c.cache.Invalidate(ResourceQuestions, "")
	return &out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	var out models.Question
	if err := c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, errors.Wrapf(err, "update question %s", id)
	}
	c.questionChanged(id)
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "delete question %s", id)
	}
	c.questionChanged(id)
	return nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]models.PopulatedQuiz, error) {
	ctx, cancel := context.WithTimeout(ctx, ListQuizzesTimeout)
	defer cancel()

	var out []models.PopulatedQuiz
	if err := c.cachedGet(ctx, ResourceQuizzes, "", "/quizzes", &out); err != nil {
		return nil, errors.Wrap(err, "list quizzes")
	}
	return out, nil
}

func (c *Client) GetQuiz(ctx context.Context, id string) (*models.PopulatedQuiz, error) {
	var out models.PopulatedQuiz
	if err := c.cachedGet(ctx, ResourceQuizzes, id, "/quizzes/"+url.PathEscape(id), &out); err != nil {
		return nil, errors.Wrapf(err, "get quiz %s", id)
	}
	return &out, nil
}

// PopulateQuiz returns the quiz with only its filtered questions resolved.
func (c *Client) PopulateQuiz(ctx context.Context, id string) (*models.PopulatedQuiz, error) {
	var out models.PopulatedQuiz
	if err := c.cachedGet(ctx, ResourceQuizzes, id+"/populate", "/quizzes/"+url.PathEscape(id)+"/populate", &out); err != nil {
		return nil, errors.Wrapf(err, "populate quiz %s", id)
	}
	return &out, nil
}

func (c *Client) CreateQuiz(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error) {
	var out models.Quiz
	if err := c.do(ctx, http.MethodPost, "/quizzes", draft, &out); err != nil {
		return nil, errors.Wrap(err, "create quiz")
	}
	c.cache.Invalidate(ResourceQuizzes, "")
	return &out, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error) {
	var out models.Quiz
	if err := c.do(ctx, http.MethodPut, "/quizzes/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, errors.Wrapf(err, "update quiz %s", id)
	}
	c.quizChanged(id)
	return &out, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "delete quiz %s", id)
	}
	c.quizChanged(id)
	return nil
}

func (c *Client) AddQuestion(ctx context.Context, quizID string, draft models.QuestionDraft) (*models.Question, error) {
	var out models.Question
	if err := c.do(ctx, http.MethodPost, "/quizzes/"+url.PathEscape(quizID)+"/question", draft, &out); err != nil {
		return nil, errors.Wrapf(err, "add question to quiz %s", quizID)
	}
	c.quizChanged(quizID)
	c.cache.Invalidate(ResourceQuestions, "")
	return &out, nil
}

func (c *Client) AddQuestions(ctx context.Context, quizID string, drafts []models.QuestionDraft) ([]models.Question, error) {
	if drafts == nil {
		drafts = []models.QuestionDraft{}
	}
	var out []models.Question
	if err := c.do(ctx, http.MethodPost, "/quizzes/"+url.PathEscape(quizID)+"/questions", drafts, &out); err != nil {
		return nil, errors.Wrapf(err, "add questions to quiz %s", quizID)
	}
	c.quizChanged(quizID)
	c.cache.Invalidate(ResourceQuestions, "")
	return out, nil
}

// questionChanged drops every view that may embed the question.
func (c *Client) questionChanged(id string) {
	c.cache.Invalidate(ResourceQuestions, id)
	c.cache.Invalidate(ResourceQuestions, "")
	c.cache.InvalidateResource(ResourceQuizzes)
}

func (c *Client) quizChanged(id string) {
	c.cache.Invalidate(ResourceQuizzes, id)
	c.cache.Invalidate(ResourceQuizzes, id+"/populate")
	c.cache.Invalidate(ResourceQuizzes, "")
}

func (c *Client) cachedGet(ctx context.Context, resource, id, path string, dest any) error {
	if body, ok := c.cache.Get(resource, id); ok {
		if err := json.Unmarshal(body, dest); err == nil {
			return nil
		}
		c.cache.Invalidate(resource, id)
	}
	body, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, "decode response")
	}
	c.cache.Set(resource, id, body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var raw []byte
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}
	body, err := c.send(ctx, method, path, raw)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, dest), "decode response")
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var resp models.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return &APIError{Status: status, Message: resp.Message, Duplicates: resp.Duplicates}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// ParseKeywords splits comma separated keyword input, dropping blanks.
func ParseKeywords(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
