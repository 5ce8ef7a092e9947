package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// CollectionUsecase manages word collections and their membership.
type CollectionUsecase interface {
	List(ctx context.Context, query *repository.ListItemQuery) ([]*entity.Collection, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Collection, error)
	Create(ctx context.Context, userID uuid.UUID, in *CollectionInput) (*entity.Collection, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *CollectionInput) (*entity.Collection, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	AddWords(ctx context.Context, userID, id uuid.UUID, wordIDs []uuid.UUID) (*entity.Collection, error)
	RemoveWord(ctx context.Context, userID, id, wordID uuid.UUID) error
	SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error
}

type collectionUsecase struct {
	tx        repository.Transactor
	words     repository.WordRepository
	links     repository.LinkRepository
	favorites repository.FavoriteRepository
	kind      nestedKind[CollectionInput, entity.Collection]
	clock     func() time.Time
}

// NewCollectionUsecase wires the collection repository with membership links.
func NewCollectionUsecase(
	tx repository.Transactor,
	words repository.WordRepository,
	links repository.LinkRepository,
	favorites repository.FavoriteRepository,
	collections repository.ItemRepository[entity.Collection],
) CollectionUsecase {
	return &collectionUsecase{
		tx:        tx,
		words:     words,
		links:     links,
		favorites: favorites,
		kind:      collectionKind(collections),
		clock:     time.Now,
	}
}

func (u *collectionUsecase) List(ctx context.Context, query *repository.ListItemQuery) ([]*entity.Collection, int64, error) {
	normalizePagination(&query.Pagination)
	items, total, err := u.kind.repo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if err := u.annotate(ctx, query.AuthorID, items...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *collectionUsecase) annotate(ctx context.Context, userID uuid.UUID, items ...*entity.Collection) error {
	if len(items) == 0 {
		return nil
	}
	ids := lo.Map(items, func(c *entity.Collection, _ int) uuid.UUID { return c.ID })
	favorites, err := u.favorites.Filter(ctx, entity.KindCollection, userID, ids)
	if err != nil {
		return err
	}
	for _, c := range items {
		c.Favorite = favorites[c.ID]
	}
	return nil
}

func (u *collectionUsecase) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Collection, error) {
	c, err := u.kind.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := u.annotate(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *collectionUsecase) Create(ctx context.Context, userID uuid.UUID, in *CollectionInput) (*entity.Collection, error) {
	in.Title, in.Description = trimPtr(in.Title), trimPtr(in.Description)
	s := &scope{authorID: userID, now: u.clock()}
	if err := u.kind.validate(in, s); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		match, err := resolveItem(ctx, u.kind.repo, userID, u.kind.key(in, s))
		if err != nil {
			return err
		}
		if match != nil {
			return itemConflict(ctx, &u.kind, match, in, s, nil, u.kind.keyField)
		}
		item := u.kind.newItem(s)
		u.kind.apply(in, item)
		created, err := u.kind.repo.Create(ctx, item)
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Get(ctx, userID, id)
}

func (u *collectionUsecase) Update(ctx context.Context, userID, id uuid.UUID, in *CollectionInput) (*entity.Collection, error) {
	in.Title, in.Description = trimPtr(in.Title), trimPtr(in.Description)
	s := &scope{authorID: userID, now: u.clock(), editing: true}
	if err := u.kind.validate(in, s); err != nil {
		return nil, err
	}
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := u.kind.repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		_, err = updateItem(ctx, &u.kind, existing, in, s, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u.Get(ctx, userID, id)
}

func (u *collectionUsecase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return u.kind.repo.Delete(ctx, userID, id)
}

func (u *collectionUsecase) AddWords(ctx context.Context, userID, id uuid.UUID, wordIDs []uuid.UUID) (*entity.Collection, error) {
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := u.kind.repo.GetByID(ctx, userID, id); err != nil {
			return err
		}
		for _, wordID := range lo.Uniq(wordIDs) {
			if _, err := u.words.GetByID(ctx, userID, wordID); err != nil {
				return err
			}
			if err := u.links.Add(ctx, entity.KindCollection, wordID, []uuid.UUID{id}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Get(ctx, userID, id)
}

func (u *collectionUsecase) RemoveWord(ctx context.Context, userID, id, wordID uuid.UUID) error {
	if _, err := u.kind.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return u.links.Remove(ctx, entity.KindCollection, wordID, id)
}

func (u *collectionUsecase) SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error {
	if _, err := u.kind.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	var err error
	if favorite {
		err = u.favorites.Add(ctx, entity.KindCollection, userID, id)
	} else {
		err = u.favorites.Remove(ctx, entity.KindCollection, userID, id)
	}
	if errors.Is(err, entity.ErrAlreadyFavorite) || errors.Is(err, entity.ErrNotFavorite) {
		return nil
	}
	return err
}
