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

type wordRepository struct {
	db *bun.DB
}

// NewWordRepository creates a new word repository backed by bun.
func NewWordRepository(db *bun.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Create(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	m := toWordModel(word)
	if _, err := idb(ctx, r.db).NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, translateError(err)
	}
	return r.withLists(m.toEntity(), word), nil
}

func (r *wordRepository) Update(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	m := toWordModel(word)
	res, err := idb(ctx, r.db).NewUpdate().
		Model(m).
		ExcludeColumn("author_id", "created_at").
		WherePK().
		Where("w.author_id = ?", word.AuthorID).
		Exec(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entity.ErrWordNotFound
	}
	return r.withLists(m.toEntity(), word), nil
}

// withLists carries the caller's derived fields over to a freshly mapped word.
func (r *wordRepository) withLists(out, in *entity.Word) *entity.Word {
	out.Types = in.Types
	out.Favorite = in.Favorite
	return out
}

func (r *wordRepository) GetByID(ctx context.Context, authorID, id uuid.UUID) (*entity.Word, error) {
	m := new(wordModel)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		Where("w.id = ?", id).
		Where("w.author_id = ?", authorID).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, entity.ErrWordNotFound)
	}
	return m.toEntity(), nil
}

func (r *wordRepository) FindByKey(ctx context.Context, authorID uuid.UUID, key entity.Key) (*entity.Word, error) {
	m := new(wordModel)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		Where("w.author_id = ?", authorID).
		Where("w.language = ?", key.Language).
		Where("w.normalized = ?", key.Text).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return m.toEntity(), nil
}

func (r *wordRepository) List(ctx context.Context, query *repository.ListWordQuery) ([]*entity.Word, int64, error) {
	var params wordListParams
	if err := filterexpr.Bind(query, &params, listWordsSchema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidArgument, err)
	}

	var rows []wordModel
	q := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Where("w.author_id = ?", query.AuthorID)

	if params.Language != nil {
		q = q.Where("w.language = ?", *params.Language)
	}
	if langs := lowerSet(params.Languages); len(langs) > 0 {
		q = q.Where("w.language IN (?)", bun.In(langs))
	}
	if params.Status != nil {
		q = q.Where("w.activity_status = ?", *params.Status)
	}
	if statuses := lowerSet(params.Statuses); len(statuses) > 0 {
		q = q.Where("w.activity_status IN (?)", bun.In(statuses))
	}
	if params.TextPrefix != nil {
		q = q.Where("w.normalized LIKE ?", entity.NormalizeText(*params.TextPrefix)+"%")
	}
	if params.TextContains != nil {
		q = q.Where("w.normalized LIKE ?", "%"+entity.NormalizeText(*params.TextContains)+"%")
	}
	if search := entity.NormalizeText(query.Search); search != "" {
		q = q.Where("w.normalized LIKE ?", "%"+search+"%")
	}
	if params.Problematic != nil {
		q = q.Where("w.is_problematic = ?", *params.Problematic)
	}
	if params.Favorite != nil {
		exists := "EXISTS (SELECT 1 FROM favorite_words AS f WHERE f.object_id = w.id AND f.user_id = ?)"
		if !*params.Favorite {
			exists = "NOT " + exists
		}
		q = q.Where(exists, query.AuthorID)
	}
	if params.Tag != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM word_tags AS wt JOIN tags AS tg ON tg.id = wt.item_id WHERE wt.word_id = w.id AND tg.normalized = ?)",
			entity.NormalizeText(*params.Tag),
		)
	}
	for _, collectionID := range []*uuid.UUID{query.CollectionID, params.Collection} {
		if collectionID != nil {
			q = q.Where("EXISTS (SELECT 1 FROM word_collections AS wc WHERE wc.word_id = w.id AND wc.item_id = ?)", *collectionID)
		}
	}
	if params.CreatedAfter != nil {
		q = q.Where("w.created_at >= ?", *params.CreatedAfter)
	}
	if params.CreatedBefore != nil {
		q = q.Where("w.created_at <= ?", *params.CreatedBefore)
	}

	q = applyOrder(q, "w", listWordsSchema.Order, params.orderParams)
	q = paginate(q, query.PageNo, query.PageSize)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, translateError(err)
	}

	words := make([]*entity.Word, 0, len(rows))
	for i := range rows {
		words = append(words, rows[i].toEntity())
	}
	return words, int64(total), nil
}

func (r *wordRepository) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("words").
		Where("id = ?", id).
		Where("author_id = ?", authorID).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrWordNotFound
	}
	return nil
}

func (r *wordRepository) Count(ctx context.Context, authorID uuid.UUID) (int, error) {
	n, err := idb(ctx, r.db).NewSelect().
		Model((*wordModel)(nil)).
		Where("w.author_id = ?", authorID).
		Count(ctx)
	return n, translateError(err)
}

func (r *wordRepository) SetTypes(ctx context.Context, wordID uuid.UUID, types []string) error {
	db := idb(ctx, r.db)
	if _, err := db.NewDelete().TableExpr("word_word_types").Where("word_id = ?", wordID).Exec(ctx); err != nil {
		return translateError(err)
	}
	if len(types) == 0 {
		return nil
	}
	rows := make([]wordWordTypeModel, 0, len(types))
	for _, name := range types {
		rows = append(rows, wordWordTypeModel{WordID: wordID, TypeName: name})
	}
	_, err := db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return translateError(err)
}

func (r *wordRepository) Types(ctx context.Context, wordIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(wordIDs))
	if len(wordIDs) == 0 {
		return result, nil
	}
	var rows []wordWordTypeModel
	err := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Join("JOIN word_types AS t ON t.name = wwt.type_name").
		Where("wwt.word_id IN (?)", bun.In(wordIDs)).
		OrderExpr("t.sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		result[row.WordID] = append(result[row.WordID], row.TypeName)
	}
	return result, nil
}

func (r *wordRepository) Counts(ctx context.Context, wordIDs []uuid.UUID) (map[uuid.UUID]entity.WordCounts, error) {
	result := make(map[uuid.UUID]entity.WordCounts, len(wordIDs))
	for _, id := range wordIDs {
		result[id] = entity.WordCounts{
			Items:     map[entity.Kind]int{},
			Relations: map[entity.RelationKind]int{},
		}
	}
	if len(wordIDs) == 0 {
		return result, nil
	}

	db := idb(ctx, r.db)
	for kind, table := range linkTables {
		counts, err := countBy(ctx, db, table, "word_id", wordIDs)
		if err != nil {
			return nil, err
		}
		for id, n := range counts {
			result[id].Items[kind] = n
		}
	}

	type relationCount struct {
		ID   uuid.UUID `bun:"id"`
		Kind string    `bun:"kind"`
		N    int       `bun:"n"`
	}
	for _, column := range []string{"from_word_id", "to_word_id"} {
		var rows []relationCount
		err := db.NewSelect().
			TableExpr("word_relations").
			ColumnExpr("? AS id", bun.Ident(column)).
			ColumnExpr("kind").
			ColumnExpr("COUNT(*) AS n").
			Where("? IN (?)", bun.Ident(column), bun.In(wordIDs)).
			GroupExpr("?, kind", bun.Ident(column)).
			Scan(ctx, &rows)
		if err != nil {
			return nil, translateError(err)
		}
		for _, row := range rows {
			result[row.ID].Relations[entity.RelationKind(row.Kind)] += row.N
		}
	}
	return result, nil
}

func (r *wordRepository) ListForExercise(ctx context.Context, authorID uuid.UUID, language string, statuses []entity.ActivityStatus, limit int) ([]*entity.Word, error) {
	var rows []wordModel
	q := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Where("w.author_id = ?", authorID).
		Where("w.language = ?", language)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		q = q.Where("w.activity_status IN (?)", bun.In(values))
	}
	if err := q.OrderExpr("RANDOM()").Limit(limit).Scan(ctx); err != nil {
		return nil, translateError(err)
	}
	words := make([]*entity.Word, 0, len(rows))
	for i := range rows {
		words = append(words, rows[i].toEntity())
	}
	return words, nil
}
