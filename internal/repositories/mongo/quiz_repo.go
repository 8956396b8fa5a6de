package mongo

import (
	"context"

	"quizadmin/internal/models"
	"quizadmin/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuizRepo wraps the quizzes collection
type QuizRepo struct{ col *mongo.Collection }

func NewQuizRepo(col *mongo.Collection) *QuizRepo {
	return &QuizRepo{col: col}
}

func (r *QuizRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("title_unique"),
	})
	return err
}

func (r *QuizRepo) List(ctx context.Context) ([]models.Quiz, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []quizDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Quiz, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}

func (r *QuizRepo) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *QuizRepo) FindByTitle(ctx context.Context, title string) (*models.Quiz, error) {
	return r.findOne(ctx, bson.M{"title": title})
}

func (r *QuizRepo) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	doc := quizDoc{
		ID:          primitive.NewObjectID(),
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   []primitive.ObjectID{},
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateErr(err)
	}
	created := doc.toModel()
	return &created, nil
}

func (r *QuizRepo) Update(ctx context.Context, id string, patch models.QuizPatch) (*models.Quiz, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if len(set) == 0 {
		return r.findOne(ctx, bson.M{"_id": oid})
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

// DeleteIfEmpty deletes in a single statement guarded on an empty question
// list, then tells a missing quiz apart from a non-empty one.
func (r *QuizRepo) DeleteIfEmpty(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"questions": bson.M{"$size": 0}},
			bson.M{"questions": bson.M{"$exists": false}},
		},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 1 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrNotEmpty
}

func (r *QuizRepo) AppendQuestions(ctx context.Context, id string, questionIDs []string) (*models.Quiz, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{
		"$push": bson.M{"questions": bson.M{"$each": parseIDs(questionIDs)}},
	})
}

func (r *QuizRepo) RemoveQuestionRefs(ctx context.Context, questionID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return 0, nil
	}
	res, err := r.col.UpdateMany(ctx, bson.M{"questions": oid}, bson.M{"$pull": bson.M{"questions": oid}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *QuizRepo) findOne(ctx context.Context, filter bson.M) (*models.Quiz, error) {
	var doc quizDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateErr(err)
	}
	quiz := doc.toModel()
	return &quiz, nil
}

func (r *QuizRepo) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*models.Quiz, error) {
	var doc quizDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translateErr(err)
	}
	quiz := doc.toModel()
	return &quiz, nil
}
