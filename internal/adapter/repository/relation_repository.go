package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

type relationRepository struct {
	db    *bun.DB
	clock func() time.Time
}

// NewRelationRepository stores word relations. A relation row points from the
// related word to the word it was added on; reads ignore the direction.
func NewRelationRepository(db *bun.DB) repository.RelationRepository {
	return &relationRepository{db: db, clock: time.Now}
}

func touching(q *bun.SelectQuery, wordID uuid.UUID) *bun.SelectQuery {
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("r.from_word_id = ?", wordID).WhereOr("r.to_word_id = ?", wordID)
	})
}

func (r *relationRepository) Replace(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID, rels []entity.WordRelation) error {
	db := idb(ctx, r.db)
	_, err := db.NewDelete().
		TableExpr("word_relations").
		Where("kind = ?", string(kind)).
		WhereGroup(" AND ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
			return q.Where("from_word_id = ?", wordID).WhereOr("to_word_id = ?", wordID)
		}).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if len(rels) == 0 {
		return nil
	}

	now := r.clock()
	rows := make([]relationModel, 0, len(rels))
	for i, rel := range rels {
		id := rel.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		rows = append(rows, relationModel{
			ID:         id,
			Kind:       string(kind),
			FromWordID: rel.FromWordID,
			ToWordID:   wordID,
			Note:       rel.Note,
			Position:   i,
			CreatedAt:  now,
		})
	}
	_, err = db.NewInsert().Model(&rows).Exec(ctx)
	return translateError(err)
}

func (r *relationRepository) Add(ctx context.Context, rel *entity.WordRelation) error {
	db := idb(ctx, r.db)

	existing := new(relationModel)
	err := db.NewSelect().
		Model(existing).
		Where("r.kind = ?", string(rel.Kind)).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("r.from_word_id = ?", rel.FromWordID).Where("r.to_word_id = ?", rel.ToWordID)
				}).
				WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("r.from_word_id = ?", rel.ToWordID).Where("r.to_word_id = ?", rel.FromWordID)
				})
		}).
		Limit(1).
		Scan(ctx)
	switch {
	case err == nil:
		existing.Note = rel.Note
		if _, err := db.NewUpdate().Model(existing).Column("note").WherePK().Exec(ctx); err != nil {
			return translateError(err)
		}
		rel.ID = existing.ID
		rel.CreatedAt = existing.CreatedAt
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return translateError(err)
	}

	count, err := r.Count(ctx, rel.Kind, rel.ToWordID)
	if err != nil {
		return err
	}
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	rel.CreatedAt = r.clock()
	m := &relationModel{
		ID:         rel.ID,
		Kind:       string(rel.Kind),
		FromWordID: rel.FromWordID,
		ToWordID:   rel.ToWordID,
		Note:       rel.Note,
		Position:   count,
		CreatedAt:  rel.CreatedAt,
	}
	_, err = db.NewInsert().Model(m).Exec(ctx)
	return translateError(err)
}

func (r *relationRepository) Remove(ctx context.Context, kind entity.RelationKind, wordID, otherID uuid.UUID) error {
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("word_relations").
		Where("kind = ?", string(kind)).
		WhereGroup(" AND ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
			return q.
				WhereGroup(" OR ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
					return q.Where("from_word_id = ?", wordID).Where("to_word_id = ?", otherID)
				}).
				WhereGroup(" OR ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
					return q.Where("from_word_id = ?", otherID).Where("to_word_id = ?", wordID)
				})
		}).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *relationRepository) List(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID) ([]entity.WordRelation, error) {
	var rows []relationModel
	q := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Where("r.kind = ?", string(kind))
	err := touching(q, wordID).
		OrderExpr("r.position ASC").
		OrderExpr("r.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	rels := make([]entity.WordRelation, 0, len(rows))
	for _, row := range rows {
		rels = append(rels, entity.WordRelation{
			ID:         row.ID,
			Kind:       entity.RelationKind(row.Kind),
			FromWordID: row.FromWordID,
			ToWordID:   row.ToWordID,
			Note:       row.Note,
			CreatedAt:  row.CreatedAt,
		})
	}
	return rels, nil
}

func (r *relationRepository) Count(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID) (int, error) {
	q := idb(ctx, r.db).NewSelect().
		Model((*relationModel)(nil)).
		Where("r.kind = ?", string(kind))
	n, err := touching(q, wordID).Count(ctx)
	return n, translateError(err)
}
