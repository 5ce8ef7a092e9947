package repository

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/repository"
)

type txKey struct{}

// Store owns the bun handle and scopes transactions through the context.
type Store struct {
	db *bun.DB
}

// NewStore wraps db.
func NewStore(db *bun.DB) *Store { return &Store{db: db} }

// NewTransactor exposes the store as a repository.Transactor.
func NewTransactor(s *Store) repository.Transactor { return s }

// RunInTx runs fn in a transaction, joining the caller's one when present.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx)
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translateError(err)
}

// idb returns the transaction carried by ctx or db itself.
func idb(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}
