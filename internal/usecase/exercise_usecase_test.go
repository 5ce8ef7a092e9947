package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/usecase"
)

func newExercises(v *vocabulary) usecase.ExerciseUsecase {
	return usecase.NewExerciseUsecase(
		repository.NewTransactor(repository.NewStore(v.db)),
		repository.NewExerciseRepository(v.db),
		v.words,
		v.translations,
		repository.NewLanguageRepository(v.db),
	)
}

func TestExerciseUsecase_LearningToNative(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")
	exercises := newExercises(v)

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)
	_, _, err = v.uc.Create(ctx, user, &usecase.WordInput{Text: str("sin traducir"), Language: str("es")})
	require.NoError(t, err)

	approach, err := exercises.Start(ctx, user, &usecase.ApproachInput{Language: "Spanish", Direction: "LTN"})
	require.NoError(t, err)
	require.Len(t, approach.Tasks, 1, "words without translations are skipped")
	assert.Equal(t, w.ID, approach.Tasks[0].WordID)
	assert.Equal(t, "casa", approach.Tasks[0].Prompt)

	answer, err := exercises.Answer(ctx, user, approach.ID, &usecase.AnswerInput{WordID: w.ID, Answer: " HOUSE "})
	require.NoError(t, err)
	assert.Equal(t, entity.VerdictCorrect, answer.Verdict)

	word, err := v.uc.Get(ctx, user, w.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActivityActive, word.ActivityStatus)
	assert.NotNil(t, word.LastExercisedAt)

	summary, err := exercises.Get(ctx, user, approach.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Corrects)
	assert.NotNil(t, summary.CompletedAt)

	_, err = exercises.Answer(ctx, user, approach.ID, &usecase.AnswerInput{WordID: w.ID, Answer: "house"})
	require.Error(t, err, "a task is answered once")
}

func TestExerciseUsecase_NativeToLearning(t *testing.T) {
	v := newVocabulary(t)
	ctx := context.Background()
	user := v.learner(t, "alice")
	exercises := newExercises(v)

	w, _, err := v.uc.Create(ctx, user, casa())
	require.NoError(t, err)

	approach, err := exercises.Start(ctx, user, &usecase.ApproachInput{Language: "es", Direction: "NTL"})
	require.NoError(t, err)
	assert.Equal(t, "house", approach.Tasks[0].Prompt)

	answer, err := exercises.Answer(ctx, user, approach.ID, &usecase.AnswerInput{WordID: w.ID, Answer: "hogar"})
	require.NoError(t, err)
	assert.Equal(t, entity.VerdictIncorrect, answer.Verdict)

	word, err := v.uc.Get(ctx, user, w.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActivityInactive, word.ActivityStatus)
}

func TestExerciseUsecase_Validation(t *testing.T) {
	v := newVocabulary(t)
	user := v.learner(t, "alice")
	amount := entity.MaxTranslatorWords + 1

	_, err := newExercises(v).Start(context.Background(), user, &usecase.ApproachInput{Language: "es", Direction: "XYZ", WordsAmount: &amount})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direction")
	assert.Contains(t, err.Error(), "words_amount")
}
