package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

type languageRepository struct {
	db    *bun.DB
	clock func() time.Time
}

// NewLanguageRepository exposes the seeded language catalogue.
func NewLanguageRepository(db *bun.DB) repository.LanguageRepository {
	return &languageRepository{db: db, clock: time.Now}
}

func (m languageModel) toEntity() entity.Language {
	return entity.Language{
		Code:              m.Code,
		Name:              m.Name,
		NativeName:        m.NativeName,
		LearningAvailable: m.LearningAvailable,
		SortOrder:         m.SortOrder,
	}
}

func toLanguages(rows []languageModel) []entity.Language {
	out := make([]entity.Language, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out
}

func (r *languageRepository) List(ctx context.Context, learningOnly bool) ([]entity.Language, error) {
	var rows []languageModel
	q := idb(ctx, r.db).NewSelect().Model(&rows)
	if learningOnly {
		q = q.Where("l.learning_available = ?", true)
	}
	if err := q.OrderExpr("l.sort_order ASC, l.code ASC").Scan(ctx); err != nil {
		return nil, translateError(err)
	}
	return toLanguages(rows), nil
}

func (r *languageRepository) Find(ctx context.Context, ident string) (*entity.Language, error) {
	ident = strings.ToLower(strings.TrimSpace(ident))
	if ident == "" {
		return nil, entity.ErrLanguageNotFound
	}
	m := new(languageModel)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(l.code) = ?", ident).
				WhereOr("LOWER(l.name) = ?", ident).
				WhereOr("LOWER(l.native_name) = ?", ident)
		}).
		OrderExpr("CASE WHEN LOWER(l.code) = ? THEN 0 ELSE 1 END", ident).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, entity.ErrLanguageNotFound)
	}
	lang := m.toEntity()
	return &lang, nil
}

func (r *languageRepository) UserLanguages(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind) ([]entity.Language, error) {
	var rows []languageModel
	err := idb(ctx, r.db).NewSelect().
		Model(&rows).
		Join("JOIN user_languages AS ul ON ul.language_code = l.code").
		Where("ul.user_id = ?", userID).
		Where("ul.kind = ?", string(kind)).
		OrderExpr("ul.created_at ASC, l.code ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return toLanguages(rows), nil
}

func (r *languageRepository) AddUserLanguage(ctx context.Context, userID uuid.UUID, code string, kind entity.LanguageKind) error {
	m := &userLanguageModel{
		UserID:       userID,
		LanguageCode: code,
		Kind:         string(kind),
		CreatedAt:    r.clock(),
	}
	_, err := idb(ctx, r.db).NewInsert().Model(m).On("CONFLICT DO NOTHING").Exec(ctx)
	return translateError(err)
}

func (r *languageRepository) RemoveUserLanguage(ctx context.Context, userID uuid.UUID, code string, kind entity.LanguageKind) error {
	res, err := idb(ctx, r.db).NewDelete().
		TableExpr("user_languages").
		Where("user_id = ?", userID).
		Where("language_code = ?", code).
		Where("kind = ?", string(kind)).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrLanguageNotFound
	}
	return nil
}

func (r *languageRepository) ListWordTypes(ctx context.Context) ([]entity.WordType, error) {
	var rows []wordTypeModel
	if err := idb(ctx, r.db).NewSelect().Model(&rows).OrderExpr("wt.sort_order ASC, wt.name ASC").Scan(ctx); err != nil {
		return nil, translateError(err)
	}
	out := make([]entity.WordType, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.WordType{Name: row.Name, SortOrder: row.SortOrder})
	}
	return out, nil
}
