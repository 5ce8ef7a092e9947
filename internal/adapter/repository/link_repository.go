package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

type linkRepository struct {
	db    *bun.DB
	clock func() time.Time
}

// NewLinkRepository maintains the word to item join tables.
func NewLinkRepository(db *bun.DB) repository.LinkRepository {
	return &linkRepository{db: db, clock: time.Now}
}

func (r *linkRepository) table(kind entity.Kind) (string, error) {
	table, ok := linkTables[kind]
	if !ok {
		return "", fmt.Errorf("no link table for %q", kind)
	}
	return table, nil
}

func (r *linkRepository) Replace(ctx context.Context, kind entity.Kind, wordID uuid.UUID, itemIDs []uuid.UUID) error {
	table, err := r.table(kind)
	if err != nil {
		return err
	}
	db := idb(ctx, r.db)
	if _, err := db.NewDelete().TableExpr("?", bun.Ident(table)).Where("word_id = ?", wordID).Exec(ctx); err != nil {
		return translateError(err)
	}
	return r.insert(ctx, db, table, wordID, itemIDs, 0)
}

func (r *linkRepository) Add(ctx context.Context, kind entity.Kind, wordID uuid.UUID, itemIDs []uuid.UUID) error {
	table, err := r.table(kind)
	if err != nil {
		return err
	}
	db := idb(ctx, r.db)
	counts, err := countBy(ctx, db, table, "word_id", []uuid.UUID{wordID})
	if err != nil {
		return err
	}
	return r.insert(ctx, db, table, wordID, itemIDs, counts[wordID])
}

func (r *linkRepository) insert(ctx context.Context, db bun.IDB, table string, wordID uuid.UUID, itemIDs []uuid.UUID, offset int) error {
	if len(itemIDs) == 0 {
		return nil
	}
	now := r.clock()
	rows := make([]linkModel, 0, len(itemIDs))
	seen := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, linkModel{
			WordID:    wordID,
			ItemID:    id,
			Position:  offset + len(rows),
			CreatedAt: now,
		})
	}
	_, err := db.NewInsert().
		Model(&rows).
		ModelTableExpr("?", bun.Ident(table)).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return translateError(err)
}

func (r *linkRepository) Remove(ctx context.Context, kind entity.Kind, wordID, itemID uuid.UUID) error {
	table, err := r.table(kind)
	if err != nil {
		return err
	}
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("?", bun.Ident(table)).
		Where("word_id = ?", wordID).
		Where("item_id = ?", itemID).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *linkRepository) Count(ctx context.Context, kind entity.Kind, wordID uuid.UUID) (int, error) {
	table, err := r.table(kind)
	if err != nil {
		return 0, err
	}
	n, err := idb(ctx, r.db).NewSelect().
		TableExpr("?", bun.Ident(table)).
		Where("word_id = ?", wordID).
		Count(ctx)
	return n, translateError(err)
}

func (r *linkRepository) Linked(ctx context.Context, kind entity.Kind, wordID uuid.UUID) ([]uuid.UUID, error) {
	table, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	err = idb(ctx, r.db).NewSelect().
		TableExpr("?", bun.Ident(table)).
		Column("item_id").
		Where("word_id = ?", wordID).
		OrderExpr("position ASC").
		Scan(ctx, &ids)
	return ids, translateError(err)
}
