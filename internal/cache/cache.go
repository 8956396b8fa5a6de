package cache

import "context"

// Store caches read results keyed by resource and id. Implementations must
// treat a miss as (false, nil); errors are for transport failures only.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key layout shared by the service and its tests.
const (
	QuestionsPrefix = "questions:"
	QuizzesPrefix   = "quizzes:"
	AllQuestions    = QuestionsPrefix + "all"
	AllQuizzes      = QuizzesPrefix + "all"
)

func QuestionKey(id string) string { return QuestionsPrefix + "id:" + id }

// QuizPrefix covers every cached view of a single quiz.
func QuizPrefix(id string) string { return QuizzesPrefix + "id:" + id + ":" }

func QuizKey(id string) string { return QuizPrefix(id) + "full" }

func FilteredQuizKey(id string) string { return QuizPrefix(id) + "filtered" }

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error { return nil }
func (Nop) Delete(context.Context, ...string) error { return nil }
func (Nop) DeletePrefix(context.Context, string) error { return nil }
