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

func TestQuizRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create starts with no questions", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(context.Background(), &models.Quiz{Title: "Geo"})
		require.NoError(t, err)
		assert.NotNil(t, created.Questions)
		assert.Empty(t, created.Questions)
	})

	mt.Run("create duplicate title", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}))

		_, err := repo.Create(context.Background(), &models.Quiz{Title: "Geo"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})

	mt.Run("get decodes references", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		oid, ref := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "Geo"},
			{Key: "description", Value: "geography"},
			{Key: "questions", Value: bson.A{ref, ref}},
		}))

		got, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(t, err)
		assert.Equal(t, []string{ref.Hex(), ref.Hex()}, got.Questions)
	})

	mt.Run("delete if empty removes quiz", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		assert.NoError(t, repo.DeleteIfEmpty(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("delete if empty refuses quiz with questions", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		err := repo.DeleteIfEmpty(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, repositories.ErrNotEmpty)
	})

	mt.Run("delete if empty on missing quiz", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)

		err := repo.DeleteIfEmpty(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	mt.Run("remove question refs reports modified count", func(mt *mtest.T) {
		repo := NewQuizRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 2}, {Key: "nModified", Value: 2}})

		modified, err := repo.RemoveQuestionRefs(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.Equal(t, int64(2), modified)
	})
}
