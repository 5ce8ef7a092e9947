package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// predicate is one `field op literal` term of a filter.
type predicate struct {
	Field string
	Op    Op
	Value any
}

// parseFilter checks filter against the declared fields and splits it into predicates.
func parseFilter(filter string, fields map[string]FilterField) ([]predicate, error) {
	if len(fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := newEnv(fields)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("convert filter AST: %w", err)
	}

	terms, err := conjuncts(parsed.GetExpr())
	if err != nil {
		return nil, err
	}
	preds := make([]predicate, 0, len(terms))
	for _, term := range terms {
		p, err := parsePredicate(term)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func newEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		t, err := celType(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, t))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celType(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString, KindUUID:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	case KindBool:
		return cel.BoolType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// conjuncts flattens a tree of && into its operands. cel-go parses a && b && c
// as nested binary calls.
func conjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}

	switch call.Function {
	case "_&&_":
		if len(call.Args) < 2 || call.Target != nil {
			return nil, errors.New("logical AND must have at least two operands")
		}
		var out []*exprpb.Expr
		for _, arg := range call.Args {
			terms, err := conjuncts(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, terms...)
		}
		return out, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", strings.Trim(call.Function, "_"))
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parsePredicate(expr *exprpb.Expr) (predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return predicate{}, errors.New("unsupported expression; expected comparison or function call")
	}

	switch call.Function {
	case "_==_":
		return parseComparison(call, OpEQ)
	case "_>=_":
		return parseComparison(call, OpGTE)
	case "_<=_":
		return parseComparison(call, OpLTE)
	case "@in", "_in_":
		return parseIn(call)
	case "startsWith":
		return parseStringMethod(call, OpSW)
	case "contains":
		return parseStringMethod(call, OpCONTAINS)
	default:
		return predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func parseComparison(call *exprpb.Expr_Call, op Op) (predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
	}
	return newPredicate(call.Args[0], op, call.Args[1])
}

func parseIn(call *exprpb.Expr_Call) (predicate, error) {
	if call.Target != nil {
		if len(call.Args) != 1 {
			return predicate{}, errors.New("in operator with receiver must have exactly one argument")
		}
		return newPredicate(call.Args[0], OpIN, call.Target)
	}
	if len(call.Args) != 2 {
		return predicate{}, errors.New("in operator expects two operands")
	}
	return newPredicate(call.Args[0], OpIN, call.Args[1])
}

// parseStringMethod handles both field.startsWith('x') and startsWith(field, 'x').
func parseStringMethod(call *exprpb.Expr_Call, op Op) (predicate, error) {
	var field, arg *exprpb.Expr
	switch {
	case call.Target != nil && len(call.Args) == 1:
		field, arg = call.Target, call.Args[0]
	case call.Target == nil && len(call.Args) == 2:
		field, arg = call.Args[0], call.Args[1]
	default:
		return predicate{}, fmt.Errorf("%s expects a field and one string argument", op)
	}

	p, err := newPredicate(field, op, arg)
	if err != nil {
		return predicate{}, err
	}
	if _, ok := p.Value.(string); !ok {
		return predicate{}, fmt.Errorf("%s requires a string literal argument", op)
	}
	return p, nil
}

func newPredicate(fieldExpr *exprpb.Expr, op Op, valueExpr *exprpb.Expr) (predicate, error) {
	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return predicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := literal(valueExpr)
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

// literal evaluates constants, string lists and timestamp('...') calls.
func literal(expr *exprpb.Expr) (any, error) {
	if c := expr.GetConstExpr(); c != nil {
		switch c.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return c.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(c.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(c.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return c.GetDoubleValue(), nil
		case *exprpb.Constant_BoolValue:
			return c.GetBoolValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", c.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elems := list.GetElements()
		values := make([]string, len(elems))
		for i, elem := range elems {
			v, err := literal(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = s
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		return timestampLiteral(call)
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func timestampLiteral(call *exprpb.Expr_Call) (time.Time, error) {
	if call.Target != nil || len(call.Args) != 1 {
		return time.Time{}, errors.New("timestamp() expects a single string argument")
	}
	arg := call.Args[0].GetConstExpr()
	if arg == nil || arg.GetStringValue() == "" {
		return time.Time{}, errors.New("timestamp() argument must be a non-empty string literal")
	}
	s := arg.GetStringValue()
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp literal %q is not RFC3339", s)
	}
	return t, nil
}
