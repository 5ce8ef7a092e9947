package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/infrastructure/database/dbtest"
	port "github.com/eslsoft/lingvo/internal/repository"
)

func newUser(t *testing.T, db *bun.DB, name string) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	user, err := repository.NewUserRepository(db).Create(context.Background(), &entity.User{
		ID:           uuid.New(),
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return user
}

func newWord(t *testing.T, db *bun.DB, author uuid.UUID, text string) *entity.Word {
	t.Helper()
	now := time.Now().UTC()
	word, err := repository.NewWordRepository(db).Create(context.Background(), &entity.Word{
		ID:             uuid.New(),
		AuthorID:       author,
		Language:       "es",
		Text:           text,
		ActivityStatus: entity.ActivityInactive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	return word
}

func TestWordRepository_FindByKeyIsCaseInsensitive(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	words := repository.NewWordRepository(db)

	created := newWord(t, db, user.ID, "Casa")

	found, err := words.FindByKey(ctx, user.ID, entity.NewKey("  cASA ", "es"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Casa", found.Text)

	missing, err := words.FindByKey(ctx, user.ID, entity.NewKey("casa", "fr"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	other := newUser(t, db, "bob")
	missing, err = words.FindByKey(ctx, other.ID, entity.NewKey("casa", "es"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWordRepository_DuplicateIsTranslated(t *testing.T) {
	db := dbtest.Open(t)
	user := newUser(t, db, "alice")
	newWord(t, db, user.ID, "casa")

	_, err := repository.NewWordRepository(db).Create(context.Background(), &entity.Word{
		ID:             uuid.New(),
		AuthorID:       user.ID,
		Language:       "es",
		Text:           "CASA",
		ActivityStatus: entity.ActivityInactive,
	})
	assert.True(t, errors.Is(err, entity.ErrDuplicate), "got %v", err)
}

func TestWordRepository_ListFilters(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	words := repository.NewWordRepository(db)

	casa := newWord(t, db, user.ID, "casa")
	newWord(t, db, user.ID, "perro")
	newWord(t, db, user.ID, "cama")

	require.NoError(t, repository.NewFavoriteRepository(db).Add(ctx, entity.KindWord, user.ID, casa.ID))

	list, total, err := words.List(ctx, &port.ListWordQuery{
		AuthorID:    user.ID,
		FilterOrder: port.FilterOrder{Filter: "text.startsWith('CA')", OrderBy: "text asc"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "cama", list[0].Text)
	assert.Equal(t, "casa", list[1].Text)

	list, total, err = words.List(ctx, &port.ListWordQuery{
		AuthorID:    user.ID,
		FilterOrder: port.FilterOrder{Filter: "favorite == true"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, casa.ID, list[0].ID)

	list, _, err = words.List(ctx, &port.ListWordQuery{
		AuthorID:   user.ID,
		Search:     "err",
		Pagination: port.Pagination{PageNo: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "perro", list[0].Text)

	_, _, err = words.List(ctx, &port.ListWordQuery{
		AuthorID:    user.ID,
		FilterOrder: port.FilterOrder{Filter: "bogus == 'x'"},
	})
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument), "got %v", err)
}

func TestItemRepository_KeyAndOrphans(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	word := newWord(t, db, user.ID, "casa")

	translations := repository.NewTranslationRepository(db)
	links := repository.NewLinkRepository(db)

	house, err := translations.Create(ctx, &entity.Translation{ID: uuid.New(), AuthorID: user.ID, Language: "en", Text: "House"})
	require.NoError(t, err)
	home, err := translations.Create(ctx, &entity.Translation{ID: uuid.New(), AuthorID: user.ID, Language: "en", Text: "home"})
	require.NoError(t, err)

	found, err := translations.FindByKey(ctx, user.ID, entity.NewKey("house", "en"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, house.ID, found.ID)

	found, err = translations.FindByKey(ctx, user.ID, entity.NewKey("house", "de"))
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, links.Replace(ctx, entity.KindTranslation, word.ID, []uuid.UUID{home.ID, house.ID}))
	linked, err := translations.ListByWord(ctx, word.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "home", linked[0].Text)
	assert.Equal(t, "House", linked[1].Text)
	assert.Equal(t, 1, linked[0].WordsCount)

	other := newWord(t, db, user.ID, "hogar")
	require.NoError(t, links.Add(ctx, entity.KindTranslation, other.ID, []uuid.UUID{house.ID}))
	linked, err = translations.ListByWord(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, 2, linked[0].WordsCount)
	require.NoError(t, links.Replace(ctx, entity.KindTranslation, other.ID, nil))

	got, err := translations.GetByID(ctx, user.ID, house.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WordsCount)

	require.NoError(t, links.Replace(ctx, entity.KindTranslation, word.ID, []uuid.UUID{house.ID}))
	removed, err := translations.DeleteOrphans(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = translations.GetByID(ctx, user.ID, home.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLinkRepository_AddAppends(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	word := newWord(t, db, user.ID, "casa")
	tags := repository.NewTagRepository(db)
	links := repository.NewLinkRepository(db)

	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c"} {
		tag, err := tags.Create(ctx, &entity.Tag{ID: uuid.New(), AuthorID: user.ID, Name: name})
		require.NoError(t, err)
		ids = append(ids, tag.ID)
	}

	require.NoError(t, links.Add(ctx, entity.KindTag, word.ID, ids[:1]))
	require.NoError(t, links.Add(ctx, entity.KindTag, word.ID, ids))

	n, err := links.Count(ctx, entity.KindTag, word.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ordered, err := links.Linked(ctx, entity.KindTag, word.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, ordered)

	linked, err := tags.ListByWord(ctx, word.ID)
	require.NoError(t, err)
	require.Len(t, linked, 3)
	assert.Equal(t, "a", linked[0].Name)

	require.NoError(t, links.Remove(ctx, entity.KindTag, word.ID, ids[0]))
	assert.ErrorIs(t, links.Remove(ctx, entity.KindTag, word.ID, ids[0]), entity.ErrNotFound)
}

func TestRelationRepository_IsSymmetric(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	casa := newWord(t, db, user.ID, "casa")
	hogar := newWord(t, db, user.ID, "hogar")
	relations := repository.NewRelationRepository(db)

	require.NoError(t, relations.Replace(ctx, entity.RelationSynonym, casa.ID, []entity.WordRelation{
		{FromWordID: hogar.ID, Note: "formal"},
	}))

	fromHogar, err := relations.List(ctx, entity.RelationSynonym, hogar.ID)
	require.NoError(t, err)
	require.Len(t, fromHogar, 1)
	assert.Equal(t, casa.ID, fromHogar[0].Other(hogar.ID))

	// adding the reverse pair only updates the note
	rel := &entity.WordRelation{Kind: entity.RelationSynonym, FromWordID: casa.ID, ToWordID: hogar.ID, Note: "home"}
	require.NoError(t, relations.Add(ctx, rel))
	n, err := relations.Count(ctx, entity.RelationSynonym, casa.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := relations.List(ctx, entity.RelationSynonym, casa.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", list[0].Note)

	counts, err := repository.NewWordRepository(db).Counts(ctx, []uuid.UUID{casa.ID, hogar.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[casa.ID].Relation(entity.RelationSynonym))
	assert.Equal(t, 1, counts[hogar.ID].Relation(entity.RelationSynonym))

	require.NoError(t, relations.Remove(ctx, entity.RelationSynonym, hogar.ID, casa.ID))
	n, err = relations.Count(ctx, entity.RelationSynonym, casa.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_RunInTxRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	tx := repository.NewTransactor(repository.NewStore(db))
	words := repository.NewWordRepository(db)

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := words.Create(ctx, &entity.Word{
			ID:             uuid.New(),
			AuthorID:       user.ID,
			Language:       "es",
			Text:           "casa",
			ActivityStatus: entity.ActivityInactive,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := words.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserRepository_Tokens(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	user := newUser(t, db, "Alice")

	found, err := users.FindByLogin(ctx, "ALICE")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	found, err = users.FindByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, users.CreateToken(ctx, &entity.AuthToken{Key: "k1", UserID: user.ID, CreatedAt: time.Now()}))
	byToken, err := users.GetByToken(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byToken.ID)

	require.NoError(t, users.DeleteToken(ctx, "k1"))
	_, err = users.GetByToken(ctx, "k1")
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)

	_, err = users.Create(ctx, &entity.User{ID: uuid.New(), Username: "Alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, entity.ErrUserExists)
}

func TestLanguageRepository_Find(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	langs := repository.NewLanguageRepository(db)

	byCode, err := langs.Find(ctx, "ES")
	require.NoError(t, err)
	assert.Equal(t, "es", byCode.Code)

	byName, err := langs.Find(ctx, "spanish")
	require.NoError(t, err)
	assert.Equal(t, "es", byName.Code)

	_, err = langs.Find(ctx, "klingon")
	assert.ErrorIs(t, err, entity.ErrLanguageNotFound)

	user := newUser(t, db, "alice")
	require.NoError(t, langs.AddUserLanguage(ctx, user.ID, "es", entity.LanguageLearning))
	require.NoError(t, langs.AddUserLanguage(ctx, user.ID, "es", entity.LanguageLearning))
	learning, err := langs.UserLanguages(ctx, user.ID, entity.LanguageLearning)
	require.NoError(t, err)
	require.Len(t, learning, 1)
	assert.Equal(t, "es", learning[0].Code)
}

func TestExerciseRepository_RoundTrip(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	user := newUser(t, db, "alice")
	word := newWord(t, db, user.ID, "casa")
	exercises := repository.NewExerciseRepository(db)

	approach := &entity.ExerciseApproach{
		ID:          uuid.New(),
		UserID:      user.ID,
		Language:    "es",
		Direction:   entity.DirectionLearningToNative,
		WordsAmount: 1,
		CreatedAt:   time.Now().UTC(),
		Tasks:       []entity.ExerciseTask{{WordID: word.ID, Prompt: "casa"}},
	}
	require.NoError(t, exercises.CreateApproach(ctx, approach))

	approach.Corrects = 1
	require.NoError(t, exercises.SaveAnswer(ctx, approach, &entity.ExerciseAnswer{
		ID:        uuid.New(),
		WordID:    word.ID,
		Answer:    "house",
		Verdict:   entity.VerdictCorrect,
		CreatedAt: time.Now().UTC(),
	}))

	got, err := exercises.GetApproach(ctx, user.ID, approach.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Corrects)
	require.Len(t, got.Tasks, 1)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, entity.VerdictCorrect, got.Answers[0].Verdict)

	_, err = exercises.GetApproach(ctx, uuid.New(), approach.ID)
	assert.ErrorIs(t, err, entity.ErrApproachNotFound)
}
