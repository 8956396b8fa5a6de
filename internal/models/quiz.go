package models

// Quiz is the stored shape; Questions holds question ids in insertion order.
type Quiz struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Questions   []string `json:"questions"`
}

// PopulatedQuiz is a quiz with its question references resolved.
type PopulatedQuiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type QuizDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuizPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d QuizDraft) ToQuiz() Quiz {
	return Quiz{
		Title:       d.Title,
		Description: d.Description,
		Questions:   []string{},
	}
}

func (p QuizPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}

func (p QuizPatch) Apply(q *Quiz) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
}

// Populate pairs the quiz with already resolved questions.
func (q Quiz) Populate(questions []Question) PopulatedQuiz {
	if questions == nil {
		questions = []Question{}
	}
	return PopulatedQuiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}
