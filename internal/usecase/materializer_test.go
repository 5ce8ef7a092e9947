package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/infrastructure/database/dbtest"
	port "github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/internal/usecase"
)

type vocabulary struct {
	db           *bun.DB
	words        port.WordRepository
	translations port.ItemRepository[entity.Translation]
	definitions  port.ItemRepository[entity.Definition]
	tags         port.ItemRepository[entity.Tag]
	uc           usecase.WordUsecase
}

func newVocabulary(t *testing.T) *vocabulary {
	t.Helper()
	db := dbtest.Open(t)
	tx := repository.NewTransactor(repository.NewStore(db))
	words := repository.NewWordRepository(db)
	links := repository.NewLinkRepository(db)
	relations := repository.NewRelationRepository(db)
	items := usecase.ItemRepositories{
		Translations: repository.NewTranslationRepository(db),
		Definitions:  repository.NewDefinitionRepository(db),
		Examples:     repository.NewExampleRepository(db),
		Tags:         repository.NewTagRepository(db),
		FormGroups:   repository.NewFormGroupRepository(db),
		Collections:  repository.NewCollectionRepository(db),
		Images:       repository.NewImageRepository(db),
		Quotes:       repository.NewQuoteRepository(db),
	}
	m := usecase.NewMaterializer(tx, words, links, relations, repository.NewFavoriteRepository(db), repository.NewLanguageRepository(db), items)
	return &vocabulary{
		db:           db,
		words:        words,
		translations: items.Translations,
		definitions:  items.Definitions,
		tags:         items.Tags,
		uc:           usecase.NewWordUsecase(tx, words, links, relations, m),
	}
}

// learner registers a user speaking English and learning Spanish.
func (v *vocabulary) learner(t *testing.T, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	user, err := repository.NewUserRepository(v.db).Create(ctx, &entity.User{
		ID:           uuid.New(),
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	languages := repository.NewLanguageRepository(v.db)
	require.NoError(t, languages.AddUserLanguage(ctx, user.ID, "en", entity.LanguageNative))
	require.NoError(t, languages.AddUserLanguage(ctx, user.ID, "es", entity.LanguageLearning))
	return user.ID
}

func str(s string) *string { return &s }

func casa() *usecase.WordInput {
	return &usecase.WordInput{
		Text:         str("casa"),
		Language:     str("es"),
		Translations: []usecase.TranslationInput{{Text: str("house"), Language: str("en")}},
	}
}

func TestMaterializer_CreateThenResubmitConflicts(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	word, created, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "casa", word.Text)
	assert.Equal(t, entity.ActivityInactive, word.ActivityStatus)
	require.Len(t, word.Translations, 1)
	assert.Equal(t, "house", word.Translations[0].Text)
	assert.Equal(t, 1, word.Translations[0].WordsCount)
	assert.Equal(t, 1, word.Counts.Item(entity.KindTranslation))

	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{Text: str("CASA "), Language: str("es")})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already_exist", conflict.Code())
	assert.False(t, conflict.Nested())
	assert.Equal(t, "This word is already in your vocabulary.", conflict.Detail)
	existing, ok := conflict.Existing.(*entity.Word)
	require.True(t, ok)
	assert.Equal(t, word.ID, existing.ID)
	assert.Equal(t, 1, existing.Counts.Item(entity.KindTranslation))

	other := v.learner(t, "bob")
	_, created, err = v.uc.Create(ctx, other, casa())
	require.NoError(t, err, "natural keys are scoped to the author")
	assert.True(t, created)
}

func TestMaterializer_ReusesIdenticalNestedItems(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	first, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)

	second, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:         str("hogar"),
		Language:     str("es"),
		Translations: []usecase.TranslationInput{{Text: str("HOUSE"), Language: str("en")}},
	})
	require.NoError(t, err)
	require.Len(t, second.Translations, 1)
	assert.Equal(t, first.Translations[0].ID, second.Translations[0].ID)
	assert.Equal(t, 2, second.Translations[0].WordsCount)

	_, total, err := v.translations.List(ctx, &port.ListItemQuery{AuthorID: user})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestMaterializer_NestedConflictReportsPosition(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	_, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:        str("perro"),
		Language:    str("es"),
		Definitions: []usecase.DefinitionInput{{Text: str("A domestic dog"), Translation: str("one")}},
	})
	require.NoError(t, err)

	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("can"),
		Language: str("es"),
		Tags:     []usecase.TagInput{{Name: str("Animals")}},
		Definitions: []usecase.DefinitionInput{
			{Text: str("A hound")},
			{Text: str("a domestic DOG"), Translation: str("two")},
		},
	})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "definition_already_exist", conflict.Code())
	assert.Equal(t, "definitions", conflict.NestedField)
	assert.Equal(t, 1, conflict.Index)
	assert.Equal(t, "translation", conflict.Field)
	existing, ok := conflict.Existing.(*entity.Definition)
	require.True(t, ok)
	assert.Equal(t, "one", existing.Translation)
	assert.Equal(t, 1, existing.WordsCount)

	t.Run("rolls back everything", func(t *testing.T) {
		word, err := v.words.FindByKey(ctx, user, entity.NewKey("can", "es"))
		require.NoError(t, err)
		assert.Nil(t, word)
		tag, err := v.tags.FindByKey(ctx, user, entity.NewKey("animals", ""))
		require.NoError(t, err)
		assert.Nil(t, tag)
		hound, err := v.definitions.FindByKey(ctx, user, entity.NewKey("a hound", ""))
		require.NoError(t, err)
		assert.Nil(t, hound)
	})
}

func TestMaterializer_AdoptByID(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	first, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	house := first.Translations[0].ID

	adopt := func(text string) (*entity.Word, error) {
		w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
			Text:         str(text),
			Language:     str("es"),
			Translations: []usecase.TranslationInput{{ID: &house}},
		})
		return w, err
	}
	w, err := adopt("vivienda")
	require.NoError(t, err)
	require.Len(t, w.Translations, 1)
	assert.Equal(t, house, w.Translations[0].ID)

	_, err = v.uc.Update(ctx, user, w.ID, &usecase.WordInput{
		Translations: []usecase.TranslationInput{{ID: &house}, {ID: &house}},
	})
	require.NoError(t, err, "adopting the same item twice is idempotent")

	missing := uuid.New()
	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{
		Text:         str("morada"),
		Language:     str("es"),
		Translations: []usecase.TranslationInput{{ID: &missing}},
	})
	assert.True(t, entity.IsNotFound(err), "unexpected error %v", err)
}

func TestMaterializer_AdoptedChangeCollides(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("casa"),
		Language: str("es"),
		Translations: []usecase.TranslationInput{
			{Text: str("house"), Language: str("en")},
			{Text: str("home"), Language: str("en")},
		},
	})
	require.NoError(t, err)
	home := w.Translations[1].ID

	_, err = v.uc.Update(ctx, user, w.ID, &usecase.WordInput{
		Translations: []usecase.TranslationInput{{ID: &home, Text: str("House")}},
	})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "translation_already_exist", conflict.Code())
	assert.Equal(t, 0, conflict.Index)
	assert.Equal(t, "text", conflict.Field)

	_, err = v.uc.Update(ctx, user, w.ID, &usecase.WordInput{
		Translations: []usecase.TranslationInput{{ID: &home, Text: str("dwelling")}},
	})
	require.NoError(t, err)
	renamed, err := v.translations.GetByID(ctx, user, home)
	require.NoError(t, err)
	assert.Equal(t, "dwelling", renamed.Text)
}

func TestMaterializer_CreateWithIDUpdates(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)

	updated, created, err := v.uc.Create(ctx, user, &usecase.WordInput{ID: &w.ID, Note: str("a building"), Types: []string{"noun"}})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a building", updated.Note)
	assert.Equal(t, []string{"noun"}, updated.Types)
	assert.Len(t, updated.Translations, 1, "absent lists stay untouched")
}

func TestMaterializer_RenameOntoExistingWordConflicts(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	_, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{Text: str("hogar"), Language: str("es")})
	require.NoError(t, err)

	_, err = v.uc.Update(ctx, user, w.ID, &usecase.WordInput{Text: str("Casa")})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already_exist", conflict.Code())
}

func TestMaterializer_AmountLimit(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	in := &usecase.WordInput{Text: str("casa"), Language: str("es")}
	for i := 0; i <= entity.MaxTranslationsAmount; i++ {
		in.Translations = append(in.Translations, usecase.TranslationInput{Text: str(fmt.Sprintf("house %d", i)), Language: str("en")})
	}
	_, _, err := v.uc.Create(ctx, user, in)
	var limit *entity.AmountLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "translations", limit.Field)
	assert.Equal(t, entity.MaxTranslationsAmount, limit.Limit)

	word, err := v.words.FindByKey(ctx, user, entity.NewKey("casa", "es"))
	require.NoError(t, err)
	assert.Nil(t, word)
}

func TestMaterializer_AppendCountsExistingLinks(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	in := &usecase.WordInput{Text: str("casa"), Language: str("es")}
	for i := 0; i < entity.MaxTagsAmount; i++ {
		in.Tags = append(in.Tags, usecase.TagInput{Name: str(fmt.Sprintf("tag%d", i))})
	}
	w, _, err := v.uc.Create(ctx, user, in)
	require.NoError(t, err)
	require.Len(t, w.Tags, entity.MaxTagsAmount)

	_, err = v.uc.AddRelated(ctx, user, w.ID, &usecase.WordInput{Tags: []usecase.TagInput{{Name: str("one more")}}})
	var limit *entity.AmountLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "tags", limit.Field)
}

func TestMaterializer_Validation(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	tests := []struct {
		name  string
		in    *usecase.WordInput
		field string
	}{
		{
			name:  "not a learning language",
			in:    &usecase.WordInput{Text: str("maison"), Language: str("fr")},
			field: "language",
		},
		{
			name:  "text mask",
			in:    &usecase.WordInput{Text: str("123"), Language: str("es")},
			field: "text",
		},
		{
			name: "translation language",
			in: &usecase.WordInput{Text: str("casa"), Language: str("es"),
				Translations: []usecase.TranslationInput{{Text: str("maison"), Language: str("fr")}}},
			field: "translations",
		},
		{
			name: "self relation",
			in: &usecase.WordInput{Text: str("casa"), Language: str("es"),
				Synonyms: []usecase.RelationInput{{FromWord: usecase.RelatedWordInput{Text: str("CASA")}}}},
			field: "synonyms",
		},
		{
			name: "image url scheme",
			in: &usecase.WordInput{Text: str("casa"), Language: str("es"),
				ImageAssociations: []usecase.ImageInput{{ImageURL: str("ftp://example.com/casa.png")}}},
			field: "image_associations",
		},
		{
			name:  "unknown type",
			in:    &usecase.WordInput{Text: str("casa"), Language: str("es"), Types: []string{"gerund-ish"}},
			field: "types",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := v.uc.Create(ctx, user, tc.in)
			var errs validation.Errors
			require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestMaterializer_LanguageNamesResolve(t *testing.T) {
	v := newVocabulary(t)
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(context.Background(), user, &usecase.WordInput{
		Text:         str("casa"),
		Language:     str("Spanish"),
		Translations: []usecase.TranslationInput{{Text: str("house"), Language: str("english")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "es", w.Language)
	assert.Equal(t, "en", w.Translations[0].Language)
}

func TestMaterializer_AppendSkipsLinkedItems(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	in := &usecase.WordInput{Text: str("casa"), Language: str("es")}
	for i := 0; i < entity.MaxTagsAmount; i++ {
		in.Tags = append(in.Tags, usecase.TagInput{Name: str(fmt.Sprintf("tag%d", i))})
	}
	for i := 0; i < entity.MaxSynonymsAmount; i++ {
		in.Synonyms = append(in.Synonyms, usecase.RelationInput{FromWord: usecase.RelatedWordInput{Text: str(fmt.Sprintf("hogar%d", i))}})
	}
	w, _, err := v.uc.Create(ctx, user, in)
	require.NoError(t, err)
	require.Len(t, w.Tags, entity.MaxTagsAmount)
	require.Len(t, w.Relations[entity.RelationSynonym], entity.MaxSynonymsAmount)

	again, err := v.uc.AddRelated(ctx, user, w.ID, &usecase.WordInput{
		Tags: []usecase.TagInput{
			{Name: str("tag0")},
			{ID: &w.Tags[1].ID},
			{Name: str("tag2")},
		},
		Synonyms: []usecase.RelationInput{
			{FromWord: usecase.RelatedWordInput{Text: str("hogar0")}},
			{FromWord: usecase.RelatedWordInput{ID: &w.Relations[entity.RelationSynonym][1].Word.ID}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, again.Tags, entity.MaxTagsAmount)
	assert.Len(t, again.Relations[entity.RelationSynonym], entity.MaxSynonymsAmount)

	_, err = v.uc.AddRelated(ctx, user, w.ID, &usecase.WordInput{
		Tags: []usecase.TagInput{{Name: str("tag0")}, {Name: str("tag10")}},
	})
	var limit *entity.AmountLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "tags", limit.Field)

	_, err = v.uc.AddRelated(ctx, user, w.ID, &usecase.WordInput{
		Synonyms: []usecase.RelationInput{{FromWord: usecase.RelatedWordInput{Text: str("hogar16")}}},
	})
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "synonyms", limit.Field)
}

func TestMaterializer_RelationsAreSymmetric(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("casa"),
		Language: str("es"),
		Synonyms: []usecase.RelationInput{{FromWord: usecase.RelatedWordInput{Text: str("hogar")}, Note: str("informal")}},
	})
	require.NoError(t, err)
	require.Len(t, w.Relations[entity.RelationSynonym], 1)
	rel := w.Relations[entity.RelationSynonym][0]
	assert.Equal(t, "hogar", rel.Word.Text)
	assert.Equal(t, "informal", rel.Note)

	hogar, err := v.uc.Get(ctx, user, rel.Word.ID)
	require.NoError(t, err)
	require.Len(t, hogar.Relations[entity.RelationSynonym], 1)
	assert.Equal(t, w.ID, hogar.Relations[entity.RelationSynonym][0].Word.ID)

	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("vivienda"),
		Language: str("es"),
		Synonyms: []usecase.RelationInput{{FromWord: usecase.RelatedWordInput{Text: str("Hogar"), Note: str("different")}}},
	})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "word_already_exist", conflict.Code())
	assert.Equal(t, "synonyms", conflict.NestedField)
	assert.Equal(t, "note", conflict.Field)
}

func TestMaterializer_SelfRelationByID(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	_, err = v.uc.AddRelated(ctx, user, w.ID, &usecase.WordInput{
		Antonyms: []usecase.RelationInput{{FromWord: usecase.RelatedWordInput{ID: &w.ID}}},
	})
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
	assert.Contains(t, errs, "antonyms")
}

func TestMaterializer_ReplaceSweepsOrphans(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:         str("casa"),
		Language:     str("es"),
		Translations: []usecase.TranslationInput{{Text: str("house"), Language: str("en")}},
		Collections:  []usecase.CollectionInput{{Title: str("Home")}},
	})
	require.NoError(t, err)
	house := w.Translations[0].ID

	updated, err := v.uc.Update(ctx, user, w.ID, &usecase.WordInput{
		Translations: []usecase.TranslationInput{},
		Collections:  []usecase.CollectionInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Translations)
	assert.Empty(t, updated.Collections)

	_, err = v.translations.GetByID(ctx, user, house)
	assert.True(t, entity.IsNotFound(err), "orphan translation should be deleted, got %v", err)

	collections := repository.NewCollectionRepository(v.db)
	kept, err := collections.FindByKey(ctx, user, entity.NewKey("home", ""))
	require.NoError(t, err)
	assert.NotNil(t, kept, "collections are never swept")
}

func TestWordUsecase_DeleteAndRemoveRelated(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:     str("casa"),
		Language: str("es"),
		Translations: []usecase.TranslationInput{
			{Text: str("house"), Language: str("en")},
			{Text: str("home"), Language: str("en")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, v.uc.RemoveRelated(ctx, user, w.ID, "translations", w.Translations[0].ID))
	_, err = v.translations.GetByID(ctx, user, w.Translations[0].ID)
	assert.True(t, entity.IsNotFound(err))

	err = v.uc.RemoveRelated(ctx, user, w.ID, "nonsense", w.Translations[1].ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, v.uc.Delete(ctx, user, w.ID))
	_, err = v.uc.Get(ctx, user, w.ID)
	assert.ErrorIs(t, err, entity.ErrWordNotFound)
	_, err = v.translations.GetByID(ctx, user, w.Translations[1].ID)
	assert.True(t, entity.IsNotFound(err))
}

func TestWordUsecase_ListAnnotates(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	require.NoError(t, v.uc.SetFavorite(ctx, user, w.ID, true))
	require.NoError(t, v.uc.SetFavorite(ctx, user, w.ID, true))
	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{Text: str("perro"), Language: str("es")})
	require.NoError(t, err)

	words, total, err := v.uc.List(ctx, &port.ListWordQuery{
		AuthorID:    user,
		FilterOrder: port.FilterOrder{Filter: "favorite == true"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, words, 1)
	assert.True(t, words[0].Favorite)
	assert.Equal(t, 1, words[0].Counts.Item(entity.KindTranslation))
}

func TestMaterializer_NestedItemsKeepWordLanguage(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")
	require.NoError(t, repository.NewLanguageRepository(v.db).AddUserLanguage(ctx, user, "fr", entity.LanguageLearning))

	uno, _, err := v.uc.Create(ctx, user, &usecase.WordInput{
		Text:        str("uno"),
		Language:    str("es"),
		Definitions: []usecase.DefinitionInput{{Text: str("numero uno")}},
	})
	require.NoError(t, err)
	require.Len(t, uno.Definitions, 1)
	spanish := uno.Definitions[0]
	assert.Equal(t, "es", spanish.Language)

	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{
		Text:        str("un"),
		Language:    str("fr"),
		Definitions: []usecase.DefinitionInput{{Text: str("Numero uno")}},
	})
	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "definition_already_exist", conflict.Code())
	assert.Equal(t, "definitions", conflict.NestedField)
	assert.Equal(t, 0, conflict.Index)
	assert.Equal(t, "language", conflict.Field)

	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{
		Text:        str("deux"),
		Language:    str("fr"),
		Definitions: []usecase.DefinitionInput{{ID: &spanish.ID}},
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	definitions, ok := verrs["definitions"].(validation.Errors)
	require.True(t, ok, "got %v", verrs)
	first, ok := definitions["0"].(validation.Errors)
	require.True(t, ok, "got %v", definitions)
	assert.Contains(t, first, "language")

	word, err := v.words.FindByKey(ctx, user, entity.NewKey("deux", "fr"))
	require.NoError(t, err)
	assert.Nil(t, word)

	stored, err := v.definitions.GetByID(ctx, user, spanish.ID)
	require.NoError(t, err)
	assert.Equal(t, "es", stored.Language)
	assert.Equal(t, 1, stored.WordsCount)
}
