package repository

import (
	"context"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/google/uuid"
)

type ListWordQuery struct {
	Pagination
	FilterOrder

	AuthorID     uuid.UUID
	Search       string
	CollectionID *uuid.UUID
}

// WordRepository defines data access for vocabulary words.
type WordRepository interface {
	Create(ctx context.Context, word *entity.Word) (*entity.Word, error)
	Update(ctx context.Context, word *entity.Word) (*entity.Word, error)
	GetByID(ctx context.Context, authorID, id uuid.UUID) (*entity.Word, error)
	// FindByKey returns nil when the author has no word with that key.
	FindByKey(ctx context.Context, authorID uuid.UUID, key entity.Key) (*entity.Word, error)
	List(ctx context.Context, query *ListWordQuery) ([]*entity.Word, int64, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
	Count(ctx context.Context, authorID uuid.UUID) (int, error)

	SetTypes(ctx context.Context, wordID uuid.UUID, types []string) error
	Types(ctx context.Context, wordIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	Counts(ctx context.Context, wordIDs []uuid.UUID) (map[uuid.UUID]entity.WordCounts, error)

	// ListForExercise returns up to limit random words in the given language.
	ListForExercise(ctx context.Context, authorID uuid.UUID, language string, statuses []entity.ActivityStatus, limit int) ([]*entity.Word, error)
}

// FavoriteRepository stores favourite words and collections.
type FavoriteRepository interface {
	Add(ctx context.Context, kind entity.Kind, userID, objectID uuid.UUID) error
	Remove(ctx context.Context, kind entity.Kind, userID, objectID uuid.UUID) error
	Filter(ctx context.Context, kind entity.Kind, userID uuid.UUID, objectIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}
