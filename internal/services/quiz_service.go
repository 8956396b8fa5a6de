package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizadmin/internal/cache"
	"quizadmin/internal/models"
	"quizadmin/internal/repositories"

	"go.uber.org/zap"
)

// PopulateFilter is the fixed text filter behind GET /quizzes/{id}/populate.
const PopulateFilter = "capital"

const (
	ResourceQuestion = "Question"
	ResourceQuiz     = "Quiz"
)

// QuestionStore is the persistence the service needs for questions.
type QuestionStore interface {
	List(ctx context.Context) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	FindByText(ctx context.Context, text string) (*models.Question, error)
	FindByTexts(ctx context.Context, texts []string) ([]models.Question, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	CreateMany(ctx context.Context, qs []models.Question) ([]models.Question, error)
	Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	FindByIDs(ctx context.Context, ids []string, filter models.QuestionFilter) ([]models.Question, error)
}

// QuizStore is the persistence the service needs for quizzes.
type QuizStore interface {
	List(ctx context.Context) ([]models.Quiz, error)
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	FindByTitle(ctx context.Context, title string) (*models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	Update(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error)
	DeleteIfEmpty(ctx context.Context, id string) error
	AppendQuestions(ctx context.Context, id string, questionIDs []string) (*models.Quiz, error)
	RemoveQuestionRefs(ctx context.Context, questionID string) (int64, error)
}

// QuizService owns every mutation of quizzes and questions and keeps the
// two collections consistent with each other.
type QuizService struct {
	questions QuestionStore
	quizzes   QuizStore
	cache     cache.Store
	logger    *zap.Logger
}

func NewQuizService(questions QuestionStore, quizzes QuizStore, store cache.Store, logger *zap.Logger) *QuizService {
	if store == nil {
		store = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{questions: questions, quizzes: quizzes, cache: store, logger: logger}
}

// Questions

func (s *QuizService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return readThrough(ctx, s, cache.AllQuestions, func() ([]models.Question, error) {
		questions, err := s.questions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		return questions, nil
	})
}

func (s *QuizService) CreateQuestion(ctx context.Context, draft models.QuestionDraft) (*models.Question, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if err := s.ensureQuestionTextFree(ctx, draft.Text); err != nil {
		return nil, err
	}

	q := draft.ToQuestion()
	created, err := s.questions.Create(ctx, &q)
	if err != nil {
		return nil, questionStoreErr("create question", err, draft.Text)
	}

	s.invalidate(ctx, []string{cache.AllQuestions})
	return created, nil
}

func (s *QuizService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	q, err := readThrough(ctx, s, cache.QuestionKey(id), func() (models.Question, error) {
		q, err := s.questions.GetByID(ctx, id)
		if err != nil {
			return models.Question{}, questionStoreErr("get question", err, "")
		}
		return *q, nil
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuestion applies the fields present in patch. Text uniqueness is
// enforced by the store; the answer index is not range checked.
func (s *QuizService) UpdateQuestion(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalid)
	}
	text := ""
	if patch.Text != nil {
		text = *patch.Text
	}

	updated, err := s.questions.Update(ctx, id, patch)
	if err != nil {
		return nil, questionStoreErr("update question", err, text)
	}

	// populated quizzes embed question bodies
	s.invalidate(ctx, []string{cache.AllQuestions, cache.QuestionKey(id)}, cache.QuizzesPrefix)
	return updated, nil
}

// DeleteQuestion removes the question and every quiz reference to it.
func (s *QuizService) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return questionStoreErr("delete question", err, "")
	}
	defer s.invalidate(ctx, []string{cache.AllQuestions, cache.QuestionKey(id)}, cache.QuizzesPrefix)

	modified, err := s.quizzes.RemoveQuestionRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("remove references to question %s: %w", id, err)
	}
	if modified > 0 {
		s.logger.Info("removed question references",
			zap.String("question_id", id), zap.Int64("quizzes", modified))
	}
	return nil
}

// Quizzes

func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.PopulatedQuiz, error) {
	return readThrough(ctx, s, cache.AllQuizzes, func() ([]models.PopulatedQuiz, error) {
		quizzes, err := s.quizzes.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list quizzes: %w", err)
		}

		var refs []string
		for _, quiz := range quizzes {
			refs = append(refs, quiz.Questions...)
		}
		byID, err := s.resolve(ctx, refs, models.QuestionFilter{})
		if err != nil {
			return nil, err
		}

		out := make([]models.PopulatedQuiz, 0, len(quizzes))
		for _, quiz := range quizzes {
			out = append(out, quiz.Populate(ordered(quiz.Questions, byID)))
		}
		return out, nil
	})
}

func (s *QuizService) CreateQuiz(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}

	existing, err := s.quizzes.FindByTitle(ctx, draft.Title)
	switch {
	case err == nil && existing != nil:
		return nil, &DuplicateError{Resource: ResourceQuiz, Texts: []string{draft.Title}}
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("look up quiz title: %w", err)
	}

	quiz := draft.ToQuiz()
	created, err := s.quizzes.Create(ctx, &quiz)
	if err != nil {
		return nil, quizStoreErr("create quiz", err, draft.Title)
	}

	s.invalidate(ctx, []string{cache.AllQuizzes})
	return created, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.PopulatedQuiz, error) {
	return s.populated(ctx, id, cache.QuizKey(id), models.QuestionFilter{})
}

// GetQuizFiltered resolves only the questions whose text contains
// PopulateFilter, ignoring case. No match yields an empty list.
func (s *QuizService) GetQuizFiltered(ctx context.Context, id string) (*models.PopulatedQuiz, error) {
	return s.populated(ctx, id, cache.FilteredQuizKey(id), models.QuestionFilter{TextContains: PopulateFilter})
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	title := ""
	if patch.Title != nil {
		title = *patch.Title
	}

	updated, err := s.quizzes.Update(ctx, id, patch)
	if err != nil {
		return nil, quizStoreErr("update quiz", err, title)
	}

	s.invalidate(ctx, []string{cache.AllQuizzes}, cache.QuizPrefix(id))
	return updated, nil
}

// DeleteQuiz refuses with ErrConflict while the quiz still has questions.
func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	err := s.quizzes.DeleteIfEmpty(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotEmpty):
		return fmt.Errorf("%w: cannot delete quiz with questions", ErrConflict)
	case err != nil:
		return quizStoreErr("delete quiz", err, "")
	}

	s.invalidate(ctx, []string{cache.AllQuizzes}, cache.QuizPrefix(id))
	return nil
}

// AddQuestionToQuiz creates a question and appends it to the quiz. If the
// append fails the new question is deleted again.
func (s *QuizService) AddQuestionToQuiz(ctx context.Context, quizID string, draft models.QuestionDraft) (*models.Question, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, quizStoreErr("get quiz", err, "")
	}
	if err := s.ensureQuestionTextFree(ctx, draft.Text); err != nil {
		return nil, err
	}

	q := draft.ToQuestion()
	created, err := s.questions.Create(ctx, &q)
	if err != nil {
		return nil, questionStoreErr("create question", err, draft.Text)
	}

	if _, err := s.quizzes.AppendQuestions(ctx, quizID, []string{created.ID}); err != nil {
		s.compensate(ctx, quizID, []string{created.ID})
		return nil, quizStoreErr("attach question", err, "")
	}

	s.invalidate(ctx, []string{cache.AllQuestions, cache.AllQuizzes}, cache.QuizPrefix(quizID))
	return created, nil
}

// AddQuestionsToQuiz is the batch form of AddQuestionToQuiz. The whole batch
// is rejected when any text already exists or repeats inside the batch.
func (s *QuizService) AddQuestionsToQuiz(ctx context.Context, quizID string, drafts []models.QuestionDraft) ([]models.Question, error) {
	for i, draft := range drafts {
		if err := validateDraft(draft); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, quizStoreErr("get quiz", err, "")
	}
	if len(drafts) == 0 {
		return []models.Question{}, nil
	}

	texts := make([]string, 0, len(drafts))
	for _, d := range drafts {
		texts = append(texts, d.Text)
	}
	existing, err := s.questions.FindByTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("look up question texts: %w", err)
	}
	if dups := duplicateTexts(texts, existing); len(dups) > 0 {
		return nil, &DuplicateError{Resource: ResourceQuestion, Texts: dups}
	}

	batch := make([]models.Question, 0, len(drafts))
	for _, d := range drafts {
		batch = append(batch, d.ToQuestion())
	}
	created, err := s.questions.CreateMany(ctx, batch)
	if err != nil {
		return nil, questionStoreErr("create questions", err, "")
	}

	ids := make([]string, 0, len(created))
	for _, q := range created {
		ids = append(ids, q.ID)
	}
	if _, err := s.quizzes.AppendQuestions(ctx, quizID, ids); err != nil {
		s.compensate(ctx, quizID, ids)
		return nil, quizStoreErr("attach questions", err, "")
	}

	s.invalidate(ctx, []string{cache.AllQuestions, cache.AllQuizzes}, cache.QuizPrefix(quizID))
	return created, nil
}

func (s *QuizService) populated(ctx context.Context, id, key string, filter models.QuestionFilter) (*models.PopulatedQuiz, error) {
	pq, err := readThrough(ctx, s, key, func() (models.PopulatedQuiz, error) {
		quiz, err := s.quizzes.GetByID(ctx, id)
		if err != nil {
			return models.PopulatedQuiz{}, quizStoreErr("get quiz", err, "")
		}
		byID, err := s.resolve(ctx, quiz.Questions, filter)
		if err != nil {
			return models.PopulatedQuiz{}, err
		}
		return quiz.Populate(ordered(quiz.Questions, byID)), nil
	})
	if err != nil {
		return nil, err
	}
	return &pq, nil
}

func (s *QuizService) resolve(ctx context.Context, refs []string, filter models.QuestionFilter) (map[string]models.Question, error) {
	byID := make(map[string]models.Question, len(refs))
	if len(refs) == 0 {
		return byID, nil
	}
	questions, err := s.questions.FindByIDs(ctx, refs, filter)
	if err != nil {
		return nil, fmt.Errorf("resolve questions: %w", err)
	}
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID, nil
}

func (s *QuizService) ensureQuestionTextFree(ctx context.Context, text string) error {
	existing, err := s.questions.FindByText(ctx, text)
	switch {
	case err == nil && existing != nil:
		return &DuplicateError{Resource: ResourceQuestion, Texts: []string{text}}
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("look up question text: %w", err)
	}
	return nil
}

// compensate undoes the insert half of a create-then-link call.
func (s *QuizService) compensate(ctx context.Context, quizID string, questionIDs []string) {
	if err := s.questions.DeleteMany(context.WithoutCancel(ctx), questionIDs); err != nil {
		s.logger.Error("failed to roll back questions after attach failure",
			zap.String("quiz_id", quizID), zap.Strings("question_ids", questionIDs), zap.Error(err))
		return
	}
	s.logger.Warn("rolled back questions after attach failure",
		zap.String("quiz_id", quizID), zap.Strings("question_ids", questionIDs))
}

func (s *QuizService) invalidate(ctx context.Context, keys []string, prefixes ...string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
	for _, prefix := range prefixes {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func readThrough[T any](ctx context.Context, s *QuizService, key string, load func() (T, error)) (T, error) {
	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return hit, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// ordered follows the reference order, keeps repeats, and drops ids that
// did not resolve.
func ordered(refs []string, byID map[string]models.Question) []models.Question {
	out := make([]models.Question, 0, len(refs))
	for _, id := range refs {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out
}

// duplicateTexts returns, in submission order, every text that already
// exists plus every repeat of a text earlier in the same batch.
func duplicateTexts(texts []string, existing []models.Question) []string {
	stored := make(map[string]bool, len(existing))
	for _, q := range existing {
		stored[q.Text] = true
	}
	seen := make(map[string]bool, len(texts))
	var dups []string
	for _, text := range texts {
		if stored[text] || seen[text] {
			dups = append(dups, text)
		}
		seen[text] = true
	}
	return dups
}

func validateDraft(draft models.QuestionDraft) error {
	if strings.TrimSpace(draft.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalid)
	}
	return nil
}

func questionStoreErr(op string, err error, text string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s: question %w", op, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return duplicateOf(ResourceQuestion, text)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func quizStoreErr(op string, err error, title string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s: quiz %w", op, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return duplicateOf(ResourceQuiz, title)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func duplicateOf(resource, text string) *DuplicateError {
	if text == "" {
		return &DuplicateError{Resource: resource}
	}
	return &DuplicateError{Resource: resource, Texts: []string{text}}
}
