package mongo

import (
	"context"
	"testing"

	"quizadmin/internal/models"
	"quizadmin/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func questionBSON(oid primitive.ObjectID, text string) bson.D {
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "text", Value: text},
		{Key: "options", Value: bson.A{"Lima", "Cusco"}},
		{Key: "correctAnswerIndex", Value: int32(0)},
	}
}

func TestQuestionRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			questionBSON(first, "Capital of Peru?"),
			questionBSON(second, "Capital of Chile?"),
		))

		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.Hex(), got[0].ID)
		assert.Equal(t, []string{"Lima", "Cusco"}, got[1].Options)
	})

	mt.Run("get by malformed id is not found", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		_, err := repo.GetByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	mt.Run("get by id with empty cursor is not found", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	mt.Run("create assigns object id", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(context.Background(), &models.Question{Text: "Capital of Peru?"})
		require.NoError(t, err)
		_, err = primitive.ObjectIDFromHex(created.ID)
		assert.NoError(t, err)
		assert.NotNil(t, created.Options)
	})

	mt.Run("create duplicate text", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: Quiz.questions index: text_unique",
		}))

		_, err := repo.Create(context.Background(), &models.Question{Text: "Capital of Peru?"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})

	mt.Run("create many duplicate rolls back", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 1, Code: 11000, Message: "E11000 duplicate key"}),
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
		)

		_, err := repo.CreateMany(context.Background(), []models.Question{{Text: "A"}, {Text: "B"}})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})

	mt.Run("update returns the new document", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: questionBSON(oid, "Capital of Peru, again?")},
		})

		text := "Capital of Peru, again?"
		updated, err := repo.Update(context.Background(), oid.Hex(), models.QuestionPatch{Text: &text})
		require.NoError(t, err)
		assert.Equal(t, text, updated.Text)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		assert.NoError(t, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("find by ids skips malformed ids", func(mt *mtest.T) {
		repo := NewQuestionRepo(mt.Coll)

		got, err := repo.FindByIDs(context.Background(), []string{"dangling"}, models.QuestionFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
