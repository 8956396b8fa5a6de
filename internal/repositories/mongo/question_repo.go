package mongo

import (
	"context"
	"regexp"

	"quizadmin/internal/models"
	"quizadmin/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo wraps the questions collection
type QuestionRepo struct{ col *mongo.Collection }

func NewQuestionRepo(col *mongo.Collection) *QuestionRepo {
	return &QuestionRepo{col: col}
}

// EnsureIndexes adds the unique index on text that backs question uniqueness.
func (r *QuestionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "text", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("text_unique"),
	})
	return err
}

func (r *QuestionRepo) List(ctx context.Context) ([]models.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *QuestionRepo) FindByText(ctx context.Context, text string) (*models.Question, error) {
	return r.findOne(ctx, bson.M{"text": text})
}

func (r *QuestionRepo) FindByTexts(ctx context.Context, texts []string) ([]models.Question, error) {
	if len(texts) == 0 {
		return []models.Question{}, nil
	}
	return r.find(ctx, bson.M{"text": bson.M{"$in": texts}})
}

func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	doc := newQuestionDoc(*q)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateErr(err)
	}
	created := doc.toModel()
	return &created, nil
}

// CreateMany inserts the batch in order. When the insert stops part way the
// documents already written are removed again so callers see all or nothing.
func (r *QuestionRepo) CreateMany(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	if len(questions) == 0 {
		return []models.Question{}, nil
	}
	docs := make([]interface{}, 0, len(questions))
	ids := make([]primitive.ObjectID, 0, len(questions))
	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		doc := newQuestionDoc(q)
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
		out = append(out, doc.toModel())
	}

	if _, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		_, _ = r.col.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}})
		return nil, translateErr(err)
	}
	return out, nil
}

func (r *QuestionRepo) Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Options != nil {
		set["options"] = *patch.Options
	}
	if patch.Keywords != nil {
		set["keywords"] = *patch.Keywords
	}
	if patch.CorrectAnswerIndex != nil {
		set["correctAnswerIndex"] = *patch.CorrectAnswerIndex
	}
	if len(set) == 0 {
		return r.findOne(ctx, bson.M{"_id": oid})
	}

	var updated questionDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, translateErr(err)
	}
	q := updated.toModel()
	return &q, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) DeleteMany(ctx context.Context, ids []string) error {
	oids := parseIDs(ids)
	if len(oids) == 0 {
		return nil
	}
	_, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	return err
}

// FindByIDs resolves references; the optional text filter is a literal,
// case-insensitive substring match.
func (r *QuestionRepo) FindByIDs(ctx context.Context, ids []string, filter models.QuestionFilter) ([]models.Question, error) {
	oids := parseIDs(ids)
	if len(oids) == 0 {
		return []models.Question{}, nil
	}
	query := bson.M{"_id": bson.M{"$in": oids}}
	if filter.TextContains != "" {
		query["text"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.TextContains), Options: "i"}
	}
	return r.find(ctx, query)
}

func (r *QuestionRepo) findOne(ctx context.Context, filter bson.M) (*models.Question, error) {
	var doc questionDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateErr(err)
	}
	q := doc.toModel()
	return &q, nil
}

func (r *QuestionRepo) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Question, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}
