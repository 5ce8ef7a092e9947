package repository

import "context"

// Pagination holds pagination parameters for listing entities.
type Pagination struct {
	PageNo   int32
	PageSize int32
}

func (p *Pagination) Offset() int32 { return (p.PageNo - 1) * p.PageSize }

type FilterOrder struct {
	Filter  string
	OrderBy string
}

func (fo *FilterOrder) GetFilter() string { return fo.Filter }

func (fo *FilterOrder) GetOrderBy() string { return fo.OrderBy }

// Transactor runs fn inside a single database transaction. Repository calls
// made with the context handed to fn join that transaction; an error returned
// by fn rolls everything back.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
