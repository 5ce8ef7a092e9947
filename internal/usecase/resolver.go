package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// Resolver finds the author's existing entity for a natural key. A missing
// match is reported as nil, never as an error.
type Resolver struct {
	words repository.WordRepository
}

// NewResolver creates a resolver over the word repository.
func NewResolver(words repository.WordRepository) *Resolver {
	return &Resolver{words: words}
}

// Word matches on author and language exactly and on text case-insensitively.
func (r *Resolver) Word(ctx context.Context, authorID uuid.UUID, key entity.Key) (*entity.Word, error) {
	if key.Text == "" || key.Language == "" {
		return nil, nil
	}
	return r.words.FindByKey(ctx, authorID, key)
}

// resolveItem is Word for nested kinds. Kinds without a natural key never match.
func resolveItem[E any](ctx context.Context, repo repository.ItemRepository[E], authorID uuid.UUID, key entity.Key) (*E, error) {
	if key.Text == "" {
		return nil, nil
	}
	return repo.FindByKey(ctx, authorID, key)
}
