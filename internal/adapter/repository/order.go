package repository

import (
	"fmt"

	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/pkg/filterexpr"
)

// orderParams receives the ordering chosen by filterexpr.Bind.
type orderParams struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// applyOrder appends the whitelisted order keys to q. Keys were validated by
// filterexpr against the same schema, so the expressions are trusted.
func applyOrder(q *bun.SelectQuery, alias string, schema filterexpr.OrderSchema, ord orderParams) *bun.SelectQuery {
	for _, key := range []struct {
		name string
		desc bool
	}{
		{ord.PrimaryKey, ord.PrimaryDesc},
		{ord.SecondaryKey, ord.SecondaryDesc},
	} {
		field, ok := schema.Fields[key.name]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.desc {
			dir = "DESC"
		}
		expr := fmt.Sprintf("%s.%s %s", alias, field.Expr, dir)
		if field.Nulls == "last" {
			expr += " NULLS LAST"
		}
		q = q.OrderExpr(expr)
	}
	return q
}

func paginate(q *bun.SelectQuery, pageNo, pageSize int32) *bun.SelectQuery {
	if pageSize <= 0 {
		return q
	}
	if pageNo < 1 {
		pageNo = 1
	}
	return q.Limit(int(pageSize)).Offset(int((pageNo - 1) * pageSize))
}
