package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// WordUsecase defines business logic for the user's vocabulary.
type WordUsecase interface {
	List(ctx context.Context, query *repository.ListWordQuery) ([]*entity.Word, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Word, error)
	// Create stores in as a new word, or updates the word named by in.ID.
	Create(ctx context.Context, userID uuid.UUID, in *WordInput) (*entity.Word, bool, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error

	// AddRelated appends the items of one list to the word.
	AddRelated(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error)
	RemoveRelated(ctx context.Context, userID, id uuid.UUID, related string, itemID uuid.UUID) error
}

const (
	_defaultPageSize = int32(20)
	_maxPageSize     = int32(10000)
)

// RelatedList is one list of a word addressable under /vocabulary/{id}/{name}.
type RelatedList struct {
	Name     string
	Kind     entity.Kind
	Relation entity.RelationKind
}

var relatedLists = []RelatedList{
	{Name: "translations", Kind: entity.KindTranslation},
	{Name: "definitions", Kind: entity.KindDefinition},
	{Name: "examples", Kind: entity.KindExample},
	{Name: "tags", Kind: entity.KindTag},
	{Name: "form_groups", Kind: entity.KindFormGroup},
	{Name: "collections", Kind: entity.KindCollection},
	{Name: "image_associations", Kind: entity.KindImage},
	{Name: "quote_associations", Kind: entity.KindQuote},
	{Name: "synonyms", Relation: entity.RelationSynonym},
	{Name: "antonyms", Relation: entity.RelationAntonym},
	{Name: "forms", Relation: entity.RelationForm},
	{Name: "similars", Relation: entity.RelationSimilar},
}

// LookupRelated resolves a list name. Hyphens are accepted in place of underscores.
func LookupRelated(name string) (RelatedList, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, l := range relatedLists {
		if l.Name == name {
			return l, true
		}
	}
	return RelatedList{}, false
}

type wordUsecase struct {
	tx           repository.Transactor
	words        repository.WordRepository
	links        repository.LinkRepository
	relations    repository.RelationRepository
	materializer *Materializer
}

// NewWordUsecase wires the vocabulary usecase around the materializer.
func NewWordUsecase(
	tx repository.Transactor,
	words repository.WordRepository,
	links repository.LinkRepository,
	relations repository.RelationRepository,
	materializer *Materializer,
) WordUsecase {
	return &wordUsecase{
		tx:           tx,
		words:        words,
		links:        links,
		relations:    relations,
		materializer: materializer,
	}
}

func (u *wordUsecase) List(ctx context.Context, query *repository.ListWordQuery) ([]*entity.Word, int64, error) {
	normalizePagination(&query.Pagination)
	words, total, err := u.words.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if err := u.materializer.annotate(ctx, query.AuthorID, words); err != nil {
		return nil, 0, err
	}
	return words, total, nil
}

func normalizePagination(p *repository.Pagination) {
	if p.PageNo <= 0 {
		p.PageNo = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = _defaultPageSize
	case p.PageSize > _maxPageSize:
		p.PageSize = _maxPageSize
	}
}

func (u *wordUsecase) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Word, error) {
	return u.materializer.Load(ctx, userID, id)
}

func (u *wordUsecase) Create(ctx context.Context, userID uuid.UUID, in *WordInput) (*entity.Word, bool, error) {
	return u.materializer.Create(ctx, userID, in)
}

func (u *wordUsecase) Update(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error) {
	return u.materializer.Update(ctx, userID, id, in)
}

func (u *wordUsecase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return u.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := u.words.Delete(ctx, userID, id); err != nil {
			return err
		}
		return u.materializer.sweep(ctx, userID)
	})
}

func (u *wordUsecase) SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error {
	if _, err := u.words.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return u.materializer.setFavorite(ctx, userID, id, favorite)
}

func (u *wordUsecase) AddRelated(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error) {
	return u.materializer.Append(ctx, userID, id, in)
}

func (u *wordUsecase) RemoveRelated(ctx context.Context, userID, id uuid.UUID, related string, itemID uuid.UUID) error {
	list, ok := LookupRelated(related)
	if !ok {
		return entity.ErrNotFound
	}
	if _, err := u.words.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return u.tx.RunInTx(ctx, func(ctx context.Context) error {
		if list.Relation != "" {
			return u.relations.Remove(ctx, list.Relation, id, itemID)
		}
		if err := u.links.Remove(ctx, list.Kind, id, itemID); err != nil {
			return err
		}
		if list.Kind == entity.KindCollection {
			return nil
		}
		return u.materializer.sweep(ctx, userID)
	})
}
