package repository

import (
	"context"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/google/uuid"
)

// UserRepository persists accounts and their API tokens.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByLogin matches username or email case-insensitively and returns nil when absent.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	CreateToken(ctx context.Context, token *entity.AuthToken) error
	GetByToken(ctx context.Context, key string) (*entity.User, error)
	DeleteToken(ctx context.Context, key string) error
}

// LanguageRepository exposes the language catalogue and user language choices.
type LanguageRepository interface {
	List(ctx context.Context, learningOnly bool) ([]entity.Language, error)
	// Find resolves a language by code or by name.
	Find(ctx context.Context, ident string) (*entity.Language, error)
	UserLanguages(ctx context.Context, userID uuid.UUID, kind entity.LanguageKind) ([]entity.Language, error)
	AddUserLanguage(ctx context.Context, userID uuid.UUID, code string, kind entity.LanguageKind) error
	RemoveUserLanguage(ctx context.Context, userID uuid.UUID, code string, kind entity.LanguageKind) error
	ListWordTypes(ctx context.Context) ([]entity.WordType, error)
}
