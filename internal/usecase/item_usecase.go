package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// ItemUsecase manages the author's library of one nested kind outside of any
// word: listing, reading, editing and deleting.
type ItemUsecase[I any, E any] interface {
	List(ctx context.Context, query *repository.ListItemQuery) ([]*E, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*E, error)
	// Update re-checks the natural key; a collision is reported as a root conflict.
	Update(ctx context.Context, userID, id uuid.UUID, in *I) (*E, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type itemUsecase[I any, E any] struct {
	tx        repository.Transactor
	languages repository.LanguageRepository
	kind      nestedKind[I, E]
	clock     func() time.Time
}

func newItemUsecase[I any, E any](tx repository.Transactor, languages repository.LanguageRepository, kind nestedKind[I, E]) ItemUsecase[I, E] {
	return &itemUsecase[I, E]{tx: tx, languages: languages, kind: kind, clock: time.Now}
}

func NewTranslationUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.Translation]) ItemUsecase[TranslationInput, entity.Translation] {
	return newItemUsecase(tx, languages, translationKind(repo))
}

func NewDefinitionUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.Definition]) ItemUsecase[DefinitionInput, entity.Definition] {
	return newItemUsecase(tx, languages, definitionKind(repo))
}

func NewExampleUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.UsageExample]) ItemUsecase[ExampleInput, entity.UsageExample] {
	return newItemUsecase(tx, languages, exampleKind(repo))
}

func NewTagUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.Tag]) ItemUsecase[TagInput, entity.Tag] {
	return newItemUsecase(tx, languages, tagKind(repo))
}

func NewFormGroupUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.FormGroup]) ItemUsecase[FormGroupInput, entity.FormGroup] {
	return newItemUsecase(tx, languages, formGroupKind(repo))
}

func NewImageUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.ImageAssociation]) ItemUsecase[ImageInput, entity.ImageAssociation] {
	return newItemUsecase(tx, languages, imageKind(repo))
}

func NewQuoteUsecase(tx repository.Transactor, languages repository.LanguageRepository, repo repository.ItemRepository[entity.QuoteAssociation]) ItemUsecase[QuoteInput, entity.QuoteAssociation] {
	return newItemUsecase(tx, languages, quoteKind(repo))
}

func (u *itemUsecase[I, E]) List(ctx context.Context, query *repository.ListItemQuery) ([]*E, int64, error) {
	normalizePagination(&query.Pagination)
	return u.kind.repo.List(ctx, query)
}

func (u *itemUsecase[I, E]) Get(ctx context.Context, userID, id uuid.UUID) (*E, error) {
	return u.kind.repo.GetByID(ctx, userID, id)
}

func (u *itemUsecase[I, E]) Update(ctx context.Context, userID, id uuid.UUID, in *I) (*E, error) {
	s, err := u.scope(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.editing = true
	if err := u.kind.validate(in, s); err != nil {
		return nil, err
	}

	var updated *E
	err = u.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := u.kind.repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if _, err := updateItem(ctx, &u.kind, existing, in, s, nil); err != nil {
			return err
		}
		updated, err = u.kind.repo.GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *itemUsecase[I, E]) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return u.kind.repo.Delete(ctx, userID, id)
}

// scope carries the author's languages for validation. Outside of a word
// there is no root language.
func (u *itemUsecase[I, E]) scope(ctx context.Context, userID uuid.UUID) (*scope, error) {
	s := &scope{authorID: userID, now: u.clock()}
	for _, kind := range []entity.LanguageKind{entity.LanguageNative, entity.LanguageLearning} {
		langs, err := u.languages.UserLanguages(ctx, userID, kind)
		if err != nil {
			return nil, err
		}
		codes := make([]string, 0, len(langs))
		for _, l := range langs {
			codes = append(codes, l.Code)
		}
		if kind == entity.LanguageNative {
			s.native = codes
		} else {
			s.learning = codes
		}
	}
	return s, nil
}
