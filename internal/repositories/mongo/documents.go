package mongo

import (
	"errors"
	"fmt"

	"quizadmin/internal/models"
	"quizadmin/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type questionDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Text               string             `bson:"text"`
	Options            []string           `bson:"options"`
	Keywords           []string           `bson:"keywords,omitempty"`
	CorrectAnswerIndex int                `bson:"correctAnswerIndex"`
}

type quizDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Questions   []primitive.ObjectID `bson:"questions"`
}

func newQuestionDoc(q models.Question) questionDoc {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return questionDoc{
		ID:                 primitive.NewObjectID(),
		Text:               q.Text,
		Options:            options,
		Keywords:           q.Keywords,
		CorrectAnswerIndex: q.CorrectAnswerIndex,
	}
}

func (d questionDoc) toModel() models.Question {
	options := d.Options
	if options == nil {
		options = []string{}
	}
	return models.Question{
		ID:                 d.ID.Hex(),
		Text:               d.Text,
		Options:            options,
		Keywords:           d.Keywords,
		CorrectAnswerIndex: d.CorrectAnswerIndex,
	}
}

func (d quizDoc) toModel() models.Quiz {
	refs := make([]string, 0, len(d.Questions))
	for _, oid := range d.Questions {
		refs = append(refs, oid.Hex())
	}
	return models.Quiz{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Questions:   refs,
	}
}

// parseID maps a malformed hex id to ErrNotFound: such an id can never
// resolve to a stored document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}

// parseIDs skips malformed ids.
func parseIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicateKey, err)
	default:
		return err
	}
}
