package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/pkg/filterexpr"
)

// itemTable describes how one nested kind is stored. All item models use the
// alias "t" so the shared queries below can qualify columns.
type itemTable[E any, M any] struct {
	kind  entity.Kind
	table string
	link  string

	// searchColumn holds the lowercased text used for search and ordering.
	searchColumn string
	// keyed kinds have a normalized natural key; byLanguage adds language to it.
	keyed       bool
	byLanguage  bool
	hasLanguage bool

	toModel       func(*E) *M
	toEntity      func(*M) *E
	id            func(*E) uuid.UUID
	setWordsCount func(*E, int)
}

type itemRepository[E any, M any] struct {
	db     *bun.DB
	spec   itemTable[E, M]
	schema filterexpr.ResourceSchema
}

func newItemRepository[E any, M any](db *bun.DB, spec itemTable[E, M]) *itemRepository[E, M] {
	return &itemRepository[E, M]{
		db:     db,
		spec:   spec,
		schema: itemSchema(spec.searchColumn, spec.hasLanguage),
	}
}

func (r *itemRepository[E, M]) Create(ctx context.Context, item *E) (*E, error) {
	m := r.spec.toModel(item)
	if _, err := idb(ctx, r.db).NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, translateError(err)
	}
	return r.spec.toEntity(m), nil
}

func (r *itemRepository[E, M]) Update(ctx context.Context, item *E) (*E, error) {
	m := r.spec.toModel(item)
	res, err := idb(ctx, r.db).NewUpdate().
		Model(m).
		ExcludeColumn("author_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entity.ErrNotFound
	}
	return r.spec.toEntity(m), nil
}

func (r *itemRepository[E, M]) GetByID(ctx context.Context, authorID, id uuid.UUID) (*E, error) {
	m := new(M)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		Where("t.id = ?", id).
		Where("t.author_id = ?", authorID).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, entity.ErrNotFound)
	}
	item := r.spec.toEntity(m)
	if err := r.fillWordsCount(ctx, []*E{item}); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository[E, M]) FindByKey(ctx context.Context, authorID uuid.UUID, key entity.Key) (*E, error) {
	if !r.spec.keyed || key.Text == "" {
		return nil, nil
	}
	m := new(M)
	q := idb(ctx, r.db).NewSelect().
		Model(m).
		Where("t.author_id = ?", authorID).
		Where("t.normalized = ?", key.Text)
	if r.spec.byLanguage {
		q = q.Where("t.language = ?", key.Language)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return r.spec.toEntity(m), nil
}

func (r *itemRepository[E, M]) List(ctx context.Context, query *repository.ListItemQuery) ([]*E, int64, error) {
	var params itemListParams
	if err := filterexpr.Bind(query, &params, r.schema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidArgument, err)
	}

	var rows []M
	q := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Where("t.author_id = ?", query.AuthorID)
	if params.Language != nil && r.spec.hasLanguage {
		q = q.Where("t.language = ?", *params.Language)
	}
	if params.TextPrefix != nil {
		q = q.Where("t."+r.spec.searchColumn+" LIKE ?", entity.NormalizeText(*params.TextPrefix)+"%")
	}
	if params.TextContains != nil {
		q = q.Where("t."+r.spec.searchColumn+" LIKE ?", "%"+entity.NormalizeText(*params.TextContains)+"%")
	}
	if search := entity.NormalizeText(query.Search); search != "" {
		q = q.Where("t."+r.spec.searchColumn+" LIKE ?", "%"+search+"%")
	}
	if params.CreatedAfter != nil {
		q = q.Where("t.created_at >= ?", *params.CreatedAfter)
	}
	if params.CreatedBefore != nil {
		q = q.Where("t.created_at <= ?", *params.CreatedBefore)
	}
	q = applyOrder(q, "t", r.schema.Order, params.orderParams)
	q = paginate(q, query.PageNo, query.PageSize)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, translateError(err)
	}

	items := make([]*E, 0, len(rows))
	for i := range rows {
		items = append(items, r.spec.toEntity(&rows[i]))
	}
	if err := r.fillWordsCount(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, int64(total), nil
}

func (r *itemRepository[E, M]) ListByWord(ctx context.Context, wordID uuid.UUID) ([]*E, error) {
	var rows []M
	err := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Join("JOIN ? AS l ON l.item_id = t.id", bun.Ident(r.spec.link)).
		Where("l.word_id = ?", wordID).
		OrderExpr("l.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	items := make([]*E, 0, len(rows))
	for i := range rows {
		items = append(items, r.spec.toEntity(&rows[i]))
	}
	if err := r.fillWordsCount(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository[E, M]) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("?", bun.Ident(r.spec.table)).
		Where("id = ?", id).
		Where("author_id = ?", authorID).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *itemRepository[E, M]) DeleteOrphans(ctx context.Context, authorID uuid.UUID) (int64, error) {
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("?", bun.Ident(r.spec.table)).
		Where("author_id = ?", authorID).
		Where("NOT EXISTS (SELECT 1 FROM ? AS l WHERE l.item_id = ?.id)", bun.Ident(r.spec.link), bun.Ident(r.spec.table)).
		Exec(ctx)
	if err != nil {
		return 0, translateError(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *itemRepository[E, M]) fillWordsCount(ctx context.Context, items []*E) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, r.spec.id(item))
	}
	counts, err := countBy(ctx, idb(ctx, r.db), r.spec.link, "item_id", ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		r.spec.setWordsCount(item, counts[r.spec.id(item)])
	}
	return nil
}

type groupCount struct {
	ID uuid.UUID `bun:"id"`
	N  int       `bun:"n"`
}

// countBy counts rows of table grouped by column for the given ids.
func countBy(ctx context.Context, db bun.IDB, table, column string, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []groupCount
	err := db.NewSelect().
		TableExpr("?", bun.Ident(table)).
		ColumnExpr("? AS id", bun.Ident(column)).
		ColumnExpr("COUNT(*) AS n").
		Where("? IN (?)", bun.Ident(column), bun.In(ids)).
		GroupExpr("?", bun.Ident(column)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		result[row.ID] = row.N
	}
	return result, nil
}
