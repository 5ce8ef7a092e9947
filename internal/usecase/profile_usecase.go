package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

var (
	errUnknownLanguage     = validation.NewError("validation_unknown_language", "unknown language")
	errLanguageNotLearning = validation.NewError("validation_language_not_learning", "this language is not available for learning")
)

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	FirstName       *string  `json:"first_name,omitempty"`
	NativeLanguages []string `json:"native_languages,omitempty"`
}

// ProfileUsecase exposes the user's profile, language choices and the catalogues.
type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, in *ProfileInput) (*entity.Profile, error)

	Languages(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind) ([]entity.Language, error)
	AddLanguage(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind, ident string) ([]entity.Language, error)
	RemoveLanguage(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind, ident string) error

	Catalogue(ctx context.Context, learningOnly bool) ([]entity.Language, error)
	WordTypes(ctx context.Context) ([]entity.WordType, error)
}

type profileUsecase struct {
	tx        repository.Transactor
	users     repository.UserRepository
	languages repository.LanguageRepository
	words     repository.WordRepository
	clock     func() time.Time
}

// NewProfileUsecase wires the profile usecase.
func NewProfileUsecase(
	tx repository.Transactor,
	users repository.UserRepository,
	languages repository.LanguageRepository,
	words repository.WordRepository,
) ProfileUsecase {
	return &profileUsecase{tx: tx, users: users, languages: languages, words: words, clock: time.Now}
}

func languageLimit(kind entity.LanguageKind) (string, int) {
	if kind == entity.LanguageNative {
		return "native_languages", entity.MaxNativeLanguages
	}
	return "learning_languages", entity.MaxLearningLanguages
}

func (u *profileUsecase) Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &entity.Profile{User: *user}
	if profile.NativeLanguages, err = u.languages.UserLanguages(ctx, userID, entity.LanguageNative); err != nil {
		return nil, err
	}
	if profile.LearningLanguages, err = u.languages.UserLanguages(ctx, userID, entity.LanguageLearning); err != nil {
		return nil, err
	}
	if profile.WordsCount, err = u.words.Count(ctx, userID); err != nil {
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) Update(ctx context.Context, userID uuid.UUID, in *ProfileInput) (*entity.Profile, error) {
	in.FirstName = trimPtr(in.FirstName)
	if err := (validation.Errors{
		"first_name": validation.Validate(in.FirstName, validation.RuneLength(0, 64)),
	}).Filter(); err != nil {
		return nil, err
	}
	if in.NativeLanguages != nil {
		if field, limit := languageLimit(entity.LanguageNative); len(lo.Uniq(in.NativeLanguages)) > limit {
			return nil, &entity.AmountLimitError{Field: field, Limit: limit}
		}
	}

	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := u.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
			user.UpdatedAt = u.clock()
			if _, err := u.users.Update(ctx, user); err != nil {
				return err
			}
		}
		if in.NativeLanguages == nil {
			return nil
		}
		codes, err := u.resolveCodes(ctx, in.NativeLanguages, entity.LanguageNative)
		if err != nil {
			return err
		}
		current, err := u.languages.UserLanguages(ctx, userID, entity.LanguageNative)
		if err != nil {
			return err
		}
		for _, l := range current {
			if !lo.Contains(codes, l.Code) {
				if err := u.languages.RemoveUserLanguage(ctx, userID, l.Code, entity.LanguageNative); err != nil {
					return err
				}
			}
		}
		for _, code := range codes {
			if err := u.languages.AddUserLanguage(ctx, userID, code, entity.LanguageNative); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Get(ctx, userID)
}

// resolveCodes maps names or codes onto catalogue codes, reporting unknown
// entries by index.
func (u *profileUsecase) resolveCodes(ctx context.Context, idents []string, kind entity.LanguageKind) ([]string, error) {
	field, _ := languageLimit(kind)
	codes := make([]string, 0, len(idents))
	errs := validation.Errors{}
	for i, ident := range idents {
		lang, err := u.find(ctx, ident, kind)
		if err != nil {
			if verr, ok := err.(validation.Error); ok {
				errs[field] = validation.Errors{strconv.Itoa(i): verr}
				continue
			}
			return nil, err
		}
		codes = append(codes, lang.Code)
	}
	if err := errs.Filter(); err != nil {
		return nil, err
	}
	return lo.Uniq(codes), nil
}

func (u *profileUsecase) find(ctx context.Context, ident string, kind entity.LanguageKind) (*entity.Language, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return nil, validation.ErrRequired
	}
	lang, err := u.languages.Find(ctx, ident)
	if entity.IsNotFound(err) {
		return nil, errUnknownLanguage
	}
	if err != nil {
		return nil, err
	}
	if kind == entity.LanguageLearning && !lang.LearningAvailable {
		return nil, errLanguageNotLearning
	}
	return lang, nil
}

func (u *profileUsecase) Languages(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind) ([]entity.Language, error) {
	return u.languages.UserLanguages(ctx, userID, kind)
}

func (u *profileUsecase) AddLanguage(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind, ident string) ([]entity.Language, error) {
	lang, err := u.find(ctx, ident, kind)
	if verr, ok := err.(validation.Error); ok {
		return nil, validation.Errors{"language": verr}
	}
	if err != nil {
		return nil, err
	}

	err = u.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.languages.UserLanguages(ctx, userID, kind)
		if err != nil {
			return err
		}
		if lo.ContainsBy(current, func(l entity.Language) bool { return l.Code == lang.Code }) {
			return nil
		}
		if field, limit := languageLimit(kind); len(current) >= limit {
			return &entity.AmountLimitError{Field: field, Limit: limit}
		}
		return u.languages.AddUserLanguage(ctx, userID, lang.Code, kind)
	})
	if err != nil {
		return nil, err
	}
	return u.languages.UserLanguages(ctx, userID, kind)
}

func (u *profileUsecase) RemoveLanguage(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind, ident string) error {
	lang, err := u.languages.Find(ctx, strings.TrimSpace(ident))
	if err != nil {
		return err
	}
	return u.languages.RemoveUserLanguage(ctx, userID, lang.Code, kind)
}

func (u *profileUsecase) Catalogue(ctx context.Context, learningOnly bool) ([]entity.Language, error) {
	return u.languages.List(ctx, learningOnly)
}

func (u *profileUsecase) WordTypes(ctx context.Context) ([]entity.WordType, error) {
	return u.languages.ListWordTypes(ctx)
}
