package repository

import (
	"context"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/google/uuid"
)

type ListItemQuery struct {
	Pagination
	FilterOrder

	AuthorID uuid.UUID
	Search   string
}

// ItemRepository persists one kind of author-owned entity that words link to
// (translations, definitions, tags, collections, ...).
type ItemRepository[E any] interface {
	Create(ctx context.Context, item *E) (*E, error)
	Update(ctx context.Context, item *E) (*E, error)
	GetByID(ctx context.Context, authorID, id uuid.UUID) (*E, error)
	// FindByKey returns nil when nothing matches. Kinds without a natural key always return nil.
	FindByKey(ctx context.Context, authorID uuid.UUID, key entity.Key) (*E, error)
	List(ctx context.Context, query *ListItemQuery) ([]*E, int64, error)
	ListByWord(ctx context.Context, wordID uuid.UUID) ([]*E, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
	// DeleteOrphans removes the author's rows no word links to anymore.
	DeleteOrphans(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// LinkRepository maintains word to item join tables.
type LinkRepository interface {
	Replace(ctx context.Context, kind entity.Kind, wordID uuid.UUID, itemIDs []uuid.UUID) error
	Add(ctx context.Context, kind entity.Kind, wordID uuid.UUID, itemIDs []uuid.UUID) error
	Remove(ctx context.Context, kind entity.Kind, wordID, itemID uuid.UUID) error
	Count(ctx context.Context, kind entity.Kind, wordID uuid.UUID) (int, error)
	// Linked returns the ids of the kind's items linked to wordID.
	Linked(ctx context.Context, kind entity.Kind, wordID uuid.UUID) ([]uuid.UUID, error)
}

// RelationRepository maintains symmetric word-to-word relations.
type RelationRepository interface {
	// Replace drops every relation of kind touching wordID and stores rels instead.
	Replace(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID, rels []entity.WordRelation) error
	// Add stores rel, updating the note when the pair is already related.
	Add(ctx context.Context, rel *entity.WordRelation) error
	Remove(ctx context.Context, kind entity.RelationKind, wordID, otherID uuid.UUID) error
	List(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID) ([]entity.WordRelation, error)
	Count(ctx context.Context, kind entity.RelationKind, wordID uuid.UUID) (int, error)
}
