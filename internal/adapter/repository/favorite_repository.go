package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

var favoriteTables = map[entity.Kind]string{
	entity.KindWord:       "favorite_words",
	entity.KindCollection: "favorite_collections",
}

type favoriteRepository struct {
	db    *bun.DB
	clock func() time.Time
}

// NewFavoriteRepository stores favourite words and collections.
func NewFavoriteRepository(db *bun.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db, clock: time.Now}
}

func favoriteTable(kind entity.Kind) (string, error) {
	table, ok := favoriteTables[kind]
	if !ok {
		return "", fmt.Errorf("%q cannot be a favourite", kind)
	}
	return table, nil
}

func (r *favoriteRepository) Add(ctx context.Context, kind entity.Kind, userID, objectID uuid.UUID) error {
	table, err := favoriteTable(kind)
	if err != nil {
		return err
	}
	m := &favoriteModel{UserID: userID, ObjectID: objectID, CreatedAt: r.clock()}
	_, err = idb(ctx, r.db).NewInsert().Model(m).ModelTableExpr("?", bun.Ident(table)).Exec(ctx)
	err = translateError(err)
	if errors.Is(err, entity.ErrDuplicate) {
		return entity.ErrAlreadyFavorite
	}
	return err
}

func (r *favoriteRepository) Remove(ctx context.Context, kind entity.Kind, userID, objectID uuid.UUID) error {
	table, err := favoriteTable(kind)
	if err != nil {
		return err
	}
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("?", bun.Ident(table)).
		Where("user_id = ?", userID).
		Where("object_id = ?", objectID).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotFavorite
	}
	return nil
}

func (r *favoriteRepository) Filter(ctx context.Context, kind entity.Kind, userID uuid.UUID, objectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(objectIDs))
	if len(objectIDs) == 0 {
		return result, nil
	}
	table, err := favoriteTable(kind)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	err = idb(ctx, r.db).NewSelect().
		TableExpr("?", bun.Ident(table)).
		Column("object_id").
		Where("user_id = ?", userID).
		Where("object_id IN (?)", bun.In(objectIDs)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, translateError(err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
