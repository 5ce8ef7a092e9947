package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

var (
	errAlreadyAnswered = validation.NewError("validation_already_answered", "this word has already been answered")
	errNoWords         = validation.NewError("validation_no_words", "there are no words with translations to exercise")
)

// ApproachInput starts a translator drill.
type ApproachInput struct {
	Language       string  `json:"language"`
	Direction      string  `json:"direction"`
	WordsAmount    *int    `json:"words_amount,omitempty"`
	ActivityStatus *string `json:"activity_status,omitempty"`
}

// AnswerInput is one reply inside an approach.
type AnswerInput struct {
	WordID uuid.UUID `json:"word_id"`
	Answer string    `json:"answer"`
}

// ExerciseUsecase runs the translator exercise.
type ExerciseUsecase interface {
	Start(ctx context.Context, userID uuid.UUID, in *ApproachInput) (*entity.ExerciseApproach, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.ExerciseApproach, error)
	Answer(ctx context.Context, userID, id uuid.UUID, in *AnswerInput) (*entity.ExerciseAnswer, error)
}

type exerciseUsecase struct {
	tx           repository.Transactor
	exercises    repository.ExerciseRepository
	words        repository.WordRepository
	translations repository.ItemRepository[entity.Translation]
	languages    repository.LanguageRepository
	clock        func() time.Time
}

// NewExerciseUsecase wires the translator exercise.
func NewExerciseUsecase(
	tx repository.Transactor,
	exercises repository.ExerciseRepository,
	words repository.WordRepository,
	translations repository.ItemRepository[entity.Translation],
	languages repository.LanguageRepository,
) ExerciseUsecase {
	return &exerciseUsecase{
		tx:           tx,
		exercises:    exercises,
		words:        words,
		translations: translations,
		languages:    languages,
		clock:        time.Now,
	}
}

func (u *exerciseUsecase) Start(ctx context.Context, userID uuid.UUID, in *ApproachInput) (*entity.ExerciseApproach, error) {
	in.Language = strings.TrimSpace(in.Language)
	if lang, err := u.languages.Find(ctx, in.Language); err == nil {
		in.Language = lang.Code
	} else if !entity.IsNotFound(err) {
		return nil, err
	}
	learning, err := u.languages.UserLanguages(ctx, userID, entity.LanguageLearning)
	if err != nil {
		return nil, err
	}
	if in.WordsAmount == nil {
		amount := entity.DefaultTranslatorWords
		in.WordsAmount = &amount
	}
	codes := lo.Map(learning, func(l entity.Language, _ int) string { return l.Code })
	if err := (validation.Errors{
		"language": validation.Validate(in.Language,
			validation.Required,
			validation.In(lo.ToAnySlice(codes)...).ErrorObject(errWordLanguage),
		),
		"direction": validation.Validate(in.Direction,
			validation.Required,
			validation.In(string(entity.DirectionLearningToNative), string(entity.DirectionNativeToLearning)),
		),
		"words_amount": validation.Validate(*in.WordsAmount, validation.Min(1), validation.Max(entity.MaxTranslatorWords)),
		"activity_status": validation.Validate(in.ActivityStatus, validation.In(
			string(entity.ActivityInactive), string(entity.ActivityActive), string(entity.ActivityMastered),
		)),
	}).Filter(); err != nil {
		return nil, err
	}

	statuses := []entity.ActivityStatus{entity.ActivityInactive, entity.ActivityActive}
	if in.ActivityStatus != nil {
		statuses = []entity.ActivityStatus{entity.ActivityStatus(*in.ActivityStatus)}
	}
	// Words without translations cannot be checked, so ask for a few extra.
	words, err := u.words.ListForExercise(ctx, userID, in.Language, statuses, *in.WordsAmount*2)
	if err != nil {
		return nil, err
	}

	approach := &entity.ExerciseApproach{
		ID:          uuid.New(),
		UserID:      userID,
		Language:    in.Language,
		Direction:   entity.TranslatorDirection(in.Direction),
		WordsAmount: *in.WordsAmount,
		CreatedAt:   u.clock(),
	}
	for _, w := range words {
		if len(approach.Tasks) == approach.WordsAmount {
			break
		}
		translations, err := u.translations.ListByWord(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		if len(translations) == 0 {
			continue
		}
		prompt := w.Text
		if approach.Direction == entity.DirectionNativeToLearning {
			prompt = strings.Join(lo.Map(translations, func(t *entity.Translation, _ int) string { return t.Text }), ", ")
		}
		approach.Tasks = append(approach.Tasks, entity.ExerciseTask{WordID: w.ID, Prompt: prompt})
	}
	if len(approach.Tasks) == 0 {
		return nil, validation.Errors{"language": errNoWords}
	}
	approach.WordsAmount = len(approach.Tasks)

	if err := u.exercises.CreateApproach(ctx, approach); err != nil {
		return nil, err
	}
	return approach, nil
}

func (u *exerciseUsecase) Get(ctx context.Context, userID, id uuid.UUID) (*entity.ExerciseApproach, error) {
	return u.exercises.GetApproach(ctx, userID, id)
}

func (u *exerciseUsecase) Answer(ctx context.Context, userID, id uuid.UUID, in *AnswerInput) (*entity.ExerciseAnswer, error) {
	var answer *entity.ExerciseAnswer
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		approach, err := u.exercises.GetApproach(ctx, userID, id)
		if err != nil {
			return err
		}
		if !lo.ContainsBy(approach.Tasks, func(t entity.ExerciseTask) bool { return t.WordID == in.WordID }) {
			return entity.ErrWordNotFound
		}
		if lo.ContainsBy(approach.Answers, func(a entity.ExerciseAnswer) bool { return a.WordID == in.WordID }) {
			return validation.Errors{"word_id": errAlreadyAnswered}
		}

		word, err := u.words.GetByID(ctx, userID, in.WordID)
		if err != nil {
			return err
		}
		correct, err := u.check(ctx, approach.Direction, word, in.Answer)
		if err != nil {
			return err
		}

		now := u.clock()
		answer = &entity.ExerciseAnswer{
			ID:         uuid.New(),
			ApproachID: approach.ID,
			WordID:     word.ID,
			Answer:     strings.TrimSpace(in.Answer),
			Verdict:    entity.VerdictIncorrect,
			CreatedAt:  now,
		}
		if correct {
			answer.Verdict = entity.VerdictCorrect
			approach.Corrects++
		} else {
			approach.Incorrects++
		}
		if approach.Corrects+approach.Incorrects >= len(approach.Tasks) {
			approach.CompletedAt = &now
		}
		if err := u.exercises.SaveAnswer(ctx, approach, answer); err != nil {
			return err
		}

		if !correct {
			return nil
		}
		word.LastExercisedAt = &now
		if word.ActivityStatus == entity.ActivityInactive {
			word.ActivityStatus = entity.ActivityActive
		}
		word.UpdatedAt = now
		_, err = u.words.Update(ctx, word)
		return err
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// check compares case-insensitively: against any translation for LTN and
// against the word itself for NTL.
func (u *exerciseUsecase) check(ctx context.Context, direction entity.TranslatorDirection, word *entity.Word, answer string) (bool, error) {
	answer = entity.NormalizeText(answer)
	if answer == "" {
		return false, nil
	}
	if direction == entity.DirectionNativeToLearning {
		return answer == entity.NormalizeText(word.Text), nil
	}
	translations, err := u.translations.ListByWord(ctx, word.ID)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(translations, func(t *entity.Translation) bool {
		return entity.NormalizeText(t.Text) == answer
	}), nil
}
