package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	port "github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/internal/usecase"
)

func TestCollectionUsecase_Lifecycle(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")
	collections := usecase.NewCollectionUsecase(
		repository.NewTransactor(repository.NewStore(v.db)),
		v.words,
		repository.NewLinkRepository(v.db),
		repository.NewFavoriteRepository(v.db),
		repository.NewCollectionRepository(v.db),
	)

	home, err := collections.Create(ctx, user, &usecase.CollectionInput{Title: str("Home"), Description: str("around the house")})
	require.NoError(t, err)

	_, err = collections.Create(ctx, user, &usecase.CollectionInput{Title: str(" HOME")})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already_exist", conflict.Code())
	assert.Equal(t, entity.KindCollection, conflict.Kind)

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	got, err := collections.AddWords(ctx, user, home.ID, []uuid.UUID{w.ID, w.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, got.WordsCount)

	words, total, err := v.uc.List(ctx, &port.ListWordQuery{AuthorID: user, CollectionID: &home.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, w.ID, words[0].ID)

	require.NoError(t, collections.SetFavorite(ctx, user, home.ID, true))
	got, err = collections.Get(ctx, user, home.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	school, err := collections.Create(ctx, user, &usecase.CollectionInput{Title: str("School")})
	require.NoError(t, err)
	_, err = collections.Update(ctx, user, school.ID, &usecase.CollectionInput{Title: str("home")})
	require.ErrorAs(t, err, &conflict)
	assert.False(t, conflict.Nested())

	require.NoError(t, collections.RemoveWord(ctx, user, home.ID, w.ID))
	got, err = collections.Get(ctx, user, home.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.WordsCount)

	require.NoError(t, collections.Delete(ctx, user, home.ID))
	_, err = collections.Get(ctx, user, home.ID)
	assert.True(t, entity.IsNotFound(err))
}
