package models

type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	Keywords           []string `json:"keywords,omitempty"` // optional tags
	CorrectAnswerIndex int      `json:"correctAnswerIndex"` // index into Options, trusted as sent
}

// QuestionDraft is the payload for a question that has no id yet.
type QuestionDraft struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	Keywords           []string `json:"keywords,omitempty"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// QuestionPatch only carries the fields present in the request body.
type QuestionPatch struct {
	Text               *string   `json:"text,omitempty"`
	Options            *[]string `json:"options,omitempty"`
	Keywords           *[]string `json:"keywords,omitempty"`
	CorrectAnswerIndex *int      `json:"correctAnswerIndex,omitempty"`
}

// QuestionFilter narrows reference resolution.
// TextContains is matched case-insensitively as a plain substring.
type QuestionFilter struct {
	TextContains string
}

func (d QuestionDraft) ToQuestion() Question {
	options := d.Options
	if options == nil {
		options = []string{}
	}
	return Question{
		Text:               d.Text,
		Options:            options,
		Keywords:           d.Keywords,
		CorrectAnswerIndex: d.CorrectAnswerIndex,
	}
}

func (p QuestionPatch) IsEmpty() bool {
	return p.Text == nil && p.Options == nil && p.Keywords == nil && p.CorrectAnswerIndex == nil
}

// Apply copies the set fields of the patch onto q.
func (p QuestionPatch) Apply(q *Question) {
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.Options != nil {
		q.Options = *p.Options
	}
	if p.Keywords != nil {
		q.Keywords = *p.Keywords
	}
	if p.CorrectAnswerIndex != nil {
		q.CorrectAnswerIndex = *p.CorrectAnswerIndex
	}
}
