// Package filterexpr turns the filter and order_by query parameters of list
// endpoints into typed query params.
//
// A filter is a CEL expression made of comparisons joined with &&:
//
//	language == 'es' && text.startsWith('ca') && created_at >= timestamp('2025-01-01T00:00:00Z')
//
// Every identifier must be declared in a ResourceSchema, which also decides
// which operators it accepts and which params struct field receives the literal.
package filterexpr

import "reflect"

// Msg is a list request carrying raw filter and order_by inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind is the literal type a filter field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
	KindBool      ValueKind = "bool"
	// KindUUID fields take string literals holding a canonical uuid.
	KindUUID ValueKind = "uuid"
)

// Op is a supported comparison.
type Op string

const (
	OpEQ       Op = "=="
	OpGTE      Op = ">="
	OpLTE      Op = "<="
	OpSW       Op = "startsWith"
	OpCONTAINS Op = "contains"
	OpIN       Op = "in"
)

// SetterFunc assigns a literal to a params field with custom conversion.
type SetterFunc func(field reflect.Value, value any) error

// FilterField declares one filterable identifier.
type FilterField struct {
	Kind ValueKind
	// Ops maps each allowed operator to the params struct field it fills.
	Ops map[Op]string
	// Values restricts string literals to a closed set, e.g. status names.
	Values []string
	Setter SetterFunc
}

// OrderField maps an order key to a SQL expression.
type OrderField struct {
	Expr  string
	Nulls string
}

// OrderSchema lists the sortable keys and the default order.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             map[string]OrderField
}

// ResourceSchema aggregates filtering and ordering rules for a resource.
type ResourceSchema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

func (f FilterField) allows(value string) bool {
	if len(f.Values) == 0 {
		return true
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}
