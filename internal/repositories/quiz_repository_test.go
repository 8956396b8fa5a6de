package repositories

import (
	"context"
	"testing"

	"quizadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizRepository_CreateUniqueTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	created, err := repo.Create(ctx, &models.Quiz{Title: "Geo", Questions: []string{}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, &models.Quiz{Title: "Geo"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	found, err := repo.FindByTitle(ctx, "Geo")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestQuizRepository_UpdateTitleCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	geo, err := repo.Create(ctx, &models.Quiz{Title: "Geo"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Quiz{Title: "History"})
	require.NoError(t, err)

	title := "History"
	_, err = repo.Update(ctx, geo.ID, models.QuizPatch{Title: &title})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	desc := "maps"
	updated, err := repo.Update(ctx, geo.ID, models.QuizPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Geo", updated.Title)
	assert.Equal(t, "maps", updated.Description)
}

func TestQuizRepository_AppendKeepsOrderAndRepeats(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	quiz, err := repo.Create(ctx, &models.Quiz{Title: "Geo"})
	require.NoError(t, err)

	_, err = repo.AppendQuestions(ctx, quiz.ID, []string{"q1", "q2"})
	require.NoError(t, err)
	updated, err := repo.AppendQuestions(ctx, quiz.ID, []string{"q1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2", "q1"}, updated.Questions)

	_, err = repo.AppendQuestions(ctx, "missing", []string{"q1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizRepository_DeleteIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	quiz, err := repo.Create(ctx, &models.Quiz{Title: "Geo"})
	require.NoError(t, err)
	_, err = repo.AppendQuestions(ctx, quiz.ID, []string{"q1"})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteIfEmpty(ctx, quiz.ID), ErrNotEmpty)
	assert.ErrorIs(t, repo.DeleteIfEmpty(ctx, "missing"), ErrNotFound)

	modified, err := repo.RemoveQuestionRefs(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	require.NoError(t, repo.DeleteIfEmpty(ctx, quiz.ID))
	_, err = repo.GetByID(ctx, quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// title is free again
	_, err = repo.Create(ctx, &models.Quiz{Title: "Geo"})
	assert.NoError(t, err)
}

func TestQuizRepository_RemoveQuestionRefs(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()
	a, err := repo.Create(ctx, &models.Quiz{Title: "A"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &models.Quiz{Title: "B"})
	require.NoError(t, err)
	_, err = repo.AppendQuestions(ctx, a.ID, []string{"q1", "q2", "q1"})
	require.NoError(t, err)
	_, err = repo.AppendQuestions(ctx, b.ID, []string{"q2"})
	require.NoError(t, err)

	modified, err := repo.RemoveQuestionRefs(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"q2"}, got.Questions)

	modified, err = repo.RemoveQuestionRefs(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, modified)
}
