package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"quizadmin/internal/models"

	"github.com/google/uuid"
)

// QuestionRepository keeps questions in memory. It enforces the same unique
// text constraint as the Mongo index so both backends behave alike.
type QuestionRepository struct {
	mu     sync.RWMutex
	byID   map[string]models.Question
	byText map[string]string
	order  []string
}

// NewQuestionRepository creates an empty in-memory question store.
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{
		byID:   make(map[string]models.Question),
		byText: make(map[string]string),
	}
}

func (r *QuestionRepository) List(ctx context.Context) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Question, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneQuestion(r.byID[id]))
	}
	return out, nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	q = cloneQuestion(q)
	return &q, nil
}

func (r *QuestionRepository) FindByText(ctx context.Context, text string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byText[text]
	if !ok {
		return nil, ErrNotFound
	}
	q := cloneQuestion(r.byID[id])
	return &q, nil
}

func (r *QuestionRepository) FindByTexts(ctx context.Context, texts []string) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(texts))
	out := []models.Question{}
	for _, text := range texts {
		id, ok := r.byText[text]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, cloneQuestion(r.byID[id]))
	}
	return out, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) (*models.Question, error) {
	created, err := r.CreateMany(ctx, []models.Question{*question})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateMany inserts all questions or none of them.
func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]bool, len(questions))
	for _, q := range questions {
		if _, exists := r.byText[q.Text]; exists || batch[q.Text] {
			return nil, fmt.Errorf("%w: text %q", ErrDuplicateKey, q.Text)
		}
		batch[q.Text] = true
	}

	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		q = cloneQuestion(q)
		q.ID = uuid.NewString()
		r.byID[q.ID] = q
		r.byText[q.Text] = q.ID
		r.order = append(r.order, q.ID)
		out = append(out, cloneQuestion(q))
	}
	return out, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	oldText := q.Text
	patch.Apply(&q)
	if q.Text != oldText {
		if _, exists := r.byText[q.Text]; exists {
			return nil, fmt.Errorf("%w: text %q", ErrDuplicateKey, q.Text)
		}
		delete(r.byText, oldText)
		r.byText[q.Text] = id
	}
	q = cloneQuestion(q)
	r.byID[id] = q
	out := cloneQuestion(q)
	return &out, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.remove(id) {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes whichever of ids exist.
func (r *QuestionRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		r.remove(id)
	}
	return nil
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string, filter models.QuestionFilter) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(filter.TextContains)
	seen := make(map[string]bool, len(ids))
	out := []models.Question{}
	for _, id := range ids {
		q, ok := r.byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if needle != "" && !strings.Contains(strings.ToLower(q.Text), needle) {
			continue
		}
		out = append(out, cloneQuestion(q))
	}
	return out, nil
}

func (r *QuestionRepository) Ping(ctx context.Context) error {
	return nil
}

// remove expects r.mu to be held.
func (r *QuestionRepository) remove(id string) bool {
	q, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byText, q.Text)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func cloneQuestion(q models.Question) models.Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	if q.Keywords != nil {
		q.Keywords = append([]string(nil), q.Keywords...)
	}
	return q
}
