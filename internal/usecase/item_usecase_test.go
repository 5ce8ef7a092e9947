package usecase_test

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/usecase"
)

func TestItemUsecase_RenameTranslation(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	word, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("casa"),
		Language: str("es"),
		Translations: []usecase.TranslationInput{
			{Text: str("house"), Language: str("en")},
			{Text: str("home"), Language: str("en")},
		},
	})
	require.NoError(t, err)
	require.Len(t, word.Translations, 2)
	home := word.Translations[1]

	uc := usecase.NewTranslationUsecase(
		repository.NewTransactor(repository.NewStore(v.db)),
		repository.NewLanguageRepository(v.db),
		v.translations,
	)

	_, err = uc.Update(ctx, user, home.ID, &usecase.TranslationInput{Text: str("House")})
	var conflict *entity.ConflictError
	require.True(t, errors.As(err, &conflict), "expected conflict, got %v", err)
	assert.Equal(t, entity.KindTranslation, conflict.Kind)
	assert.False(t, conflict.Nested())

	updated, err := uc.Update(ctx, user, home.ID, &usecase.TranslationInput{Text: str("dwelling")})
	require.NoError(t, err)
	assert.Equal(t, "dwelling", updated.Text)
	assert.Equal(t, "en", updated.Language)

	_, err = uc.Update(ctx, user, home.ID, &usecase.TranslationInput{Text: str("")})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.Contains(t, verrs, "text")
	assert.NotContains(t, verrs, "language")

	require.NoError(t, uc.Delete(ctx, user, home.ID))
	_, err = uc.Get(ctx, user, home.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	stranger := v.learner(t, "bob")
	_, err = uc.Get(ctx, stranger, word.Translations[0].ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
