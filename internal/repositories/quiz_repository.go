package repositories

import (
	"context"
	"fmt"
	"sync"

	"quizadmin/internal/models"

	"github.com/google/uuid"
)

// QuizRepository is the in-memory counterpart of the Mongo quiz store.
type QuizRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Quiz
	byTitle map[string]string
	order   []string
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{
		byID:    make(map[string]models.Quiz),
		byTitle: make(map[string]string),
	}
}

func (r *QuizRepository) List(ctx context.Context) ([]models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Quiz, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneQuiz(r.byID[id]))
	}
	return out, nil
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quiz, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	quiz = cloneQuiz(quiz)
	return &quiz, nil
}

func (r *QuizRepository) FindByTitle(ctx context.Context, title string) (*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTitle[title]
	if !ok {
		return nil, ErrNotFound
	}
	quiz := cloneQuiz(r.byID[id])
	return &quiz, nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTitle[quiz.Title]; exists {
		return nil, fmt.Errorf("%w: title %q", ErrDuplicateKey, quiz.Title)
	}
	created := cloneQuiz(*quiz)
	created.ID = uuid.NewString()
	r.byID[created.ID] = created
	r.byTitle[created.Title] = created.ID
	r.order = append(r.order, created.ID)

	out := cloneQuiz(created)
	return &out, nil
}

func (r *QuizRepository) Update(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quiz, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	oldTitle := quiz.Title
	patch.Apply(&quiz)
	if quiz.Title != oldTitle {
		if _, exists := r.byTitle[quiz.Title]; exists {
			return nil, fmt.Errorf("%w: title %q", ErrDuplicateKey, quiz.Title)
		}
		delete(r.byTitle, oldTitle)
		r.byTitle[quiz.Title] = id
	}
	r.byID[id] = quiz
	out := cloneQuiz(quiz)
	return &out, nil
}

// DeleteIfEmpty removes the quiz only while it references no questions.
func (r *QuizRepository) DeleteIfEmpty(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quiz, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if len(quiz.Questions) > 0 {
		return ErrNotEmpty
	}
	delete(r.byID, id)
	delete(r.byTitle, quiz.Title)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AppendQuestions pushes ids onto the quiz as given, without dedup.
func (r *QuizRepository) AppendQuestions(ctx context.Context, id string, questionIDs []string) (*models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quiz, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	quiz.Questions = append(append([]string{}, quiz.Questions...), questionIDs...)
	r.byID[id] = quiz
	out := cloneQuiz(quiz)
	return &out, nil
}

// RemoveQuestionRefs drops every reference to questionID and reports how
// many quizzes changed.
func (r *QuizRepository) RemoveQuestionRefs(ctx context.Context, questionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for id, quiz := range r.byID {
		kept := make([]string, 0, len(quiz.Questions))
		for _, ref := range quiz.Questions {
			if ref != questionID {
				kept = append(kept, ref)
			}
		}
		if len(kept) != len(quiz.Questions) {
			quiz.Questions = kept
			r.byID[id] = quiz
			modified++
		}
	}
	return modified, nil
}

func (r *QuizRepository) Ping(ctx context.Context) error {
	return nil
}

func cloneQuiz(q models.Quiz) models.Quiz {
	refs := make([]string, len(q.Questions))
	copy(refs, q.Questions)
	q.Questions = refs
	return q
}
