package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

type userRepository struct {
	db *bun.DB
}

// NewUserRepository stores accounts and API tokens.
func NewUserRepository(db *bun.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func toUserModel(u *entity.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		IsStaff:      u.IsStaff,
		IsSuperuser:  u.IsSuperuser,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		IsStaff:      m.IsStaff,
		IsSuperuser:  m.IsSuperuser,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	m := toUserModel(user)
	if _, err := idb(ctx, r.db).NewInsert().Model(m).Exec(ctx); err != nil {
		err = translateError(err)
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, entity.ErrUserExists
		}
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	m := toUserModel(user)
	res, err := idb(ctx, r.db).NewUpdate().
		Model(m).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, entity.ErrUserExists
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entity.ErrUserNotFound
	}
	return m.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	m := new(userModel)
	if err := idb(ctx, r.db).NewSelect().Model(m).Where("u.id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, entity.ErrUserNotFound)
	}
	return m.toEntity(), nil
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, nil
	}
	m := new(userModel)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(u.username) = ?", strings.ToLower(login)).
				WhereOr("u.email = ?", strings.ToLower(login))
		}).
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

func (r *userRepository) CreateToken(ctx context.Context, token *entity.AuthToken) error {
	m := &tokenModel{Token: token.Key, UserID: token.UserID, CreatedAt: token.CreatedAt}
	_, err := idb(ctx, r.db).NewInsert().Model(m).Exec(ctx)
	return translateError(err)
}

func (r *userRepository) GetByToken(ctx context.Context, key string) (*entity.User, error) {
	m := new(userModel)
	err := idb(ctx, r.db).NewSelect().
		Model(m).
		Join("JOIN auth_tokens AS at ON at.user_id = u.id").
		Where("at.token = ?", key).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, entity.ErrUnauthenticated)
	}
	return m.toEntity(), nil
}

func (r *userRepository) DeleteToken(ctx context.Context, key string) error {
	_, err := idb(ctx, r.db).NewDelete().
		TableExpr("auth_tokens").
		Where("token = ?", key).
		Exec(ctx)
	return translateError(err)
}
