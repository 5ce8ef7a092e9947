package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// Bind validates msg's filter and order_by against schema and fills binding,
// which must point to a struct with the fields named by the schema plus
// PrimaryKey, PrimaryDesc, SecondaryKey and SecondaryDesc.
func Bind[M Msg, P any](msg M, binding *P, schema ResourceSchema) error {
	if binding == nil {
		return errors.New("binding must not be nil")
	}
	dest := reflect.ValueOf(binding).Elem()
	if dest.Kind() != reflect.Struct {
		return errors.New("binding must point to a struct")
	}

	if filter := strings.TrimSpace(msg.GetFilter()); filter != "" {
		if err := bindFilter(dest, filter, schema.Filter); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	order, err := parseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return fmt.Errorf("order_by: %w", err)
	}
	return setOrderParams(dest, order)
}

func bindFilter(dest reflect.Value, filter string, fields map[string]FilterField) error {
	preds, err := parseFilter(filter, fields)
	if err != nil {
		return err
	}

	for _, p := range preds {
		rule, ok := fields[p.Field]
		if !ok {
			return fmt.Errorf("field %q is not allowed", p.Field)
		}
		target, ok := rule.Ops[p.Op]
		if !ok {
			return fmt.Errorf("operator %q is not allowed for field %q", string(p.Op), p.Field)
		}

		value, err := checkLiteral(rule, p.Op, p.Value)
		if err != nil {
			return fmt.Errorf("field %q: %w", p.Field, err)
		}

		field := dest.FieldByName(target)
		if !field.IsValid() {
			return fmt.Errorf("params struct %s has no field named %q", dest.Type(), target)
		}
		if !field.CanSet() {
			return fmt.Errorf("cannot set field %q on params struct", target)
		}

		if rule.Setter != nil {
			if field.Kind() == reflect.Ptr && field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := rule.Setter(field, value); err != nil {
				return fmt.Errorf("setter for field %q failed: %w", target, err)
			}
			continue
		}
		if err := assign(field, value); err != nil {
			return fmt.Errorf("assign field %q: %w", target, err)
		}
	}
	return nil
}

// checkLiteral validates the literal type and converts uuid strings.
func checkLiteral(rule FilterField, op Op, value any) (any, error) {
	switch rule.Kind {
	case KindString, KindUUID:
		if op == OpIN {
			return checkList(rule, value)
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected %s literal", rule.Kind)
		}
		if !rule.allows(s) {
			return nil, fmt.Errorf("value %q is not one of %s", s, strings.Join(rule.Values, ", "))
		}
		if rule.Kind == KindUUID {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("expected uuid literal, got %q", s)
			}
			return id, nil
		}
		return s, nil
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return nil, fmt.Errorf("expected %s literal", rule.Kind)
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return nil, fmt.Errorf("expected %s literal", rule.Kind)
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return nil, fmt.Errorf("expected %s literal", rule.Kind)
		}
	default:
		return nil, fmt.Errorf("unsupported field kind %s", rule.Kind)
	}
	return value, nil
}

func checkList(rule FilterField, value any) (any, error) {
	list, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("expected list of %s literals", rule.Kind)
	}
	if len(list) == 0 {
		return nil, errors.New("list literal must not be empty")
	}
	for _, item := range list {
		if item == "" {
			return nil, errors.New("list literal must not contain empty strings")
		}
		if !rule.allows(item) {
			return nil, fmt.Errorf("value %q is not one of %s", item, strings.Join(rule.Values, ", "))
		}
	}
	if rule.Kind != KindUUID {
		return list, nil
	}
	ids := make([]uuid.UUID, len(list))
	for i, item := range list {
		id, err := uuid.Parse(item)
		if err != nil {
			return nil, fmt.Errorf("expected uuid literal, got %q", item)
		}
		ids[i] = id
	}
	return ids, nil
}

func assign(field reflect.Value, value any) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assign(field.Elem(), value)
	}
	if field.Kind() == reflect.Interface {
		field.Set(reflect.ValueOf(value))
		return nil
	}

	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string-compatible destination, got %s", field.Kind())
		}
		field.SetString(v)
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected slice of strings destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	case uuid.UUID:
		if field.Type() != uuidType {
			return fmt.Errorf("expected uuid.UUID destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(v))
	case []uuid.UUID:
		if field.Kind() != reflect.Slice || field.Type().Elem() != uuidType {
			return fmt.Errorf("expected slice of uuid.UUID destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(v))
	case bool:
		if field.Kind() != reflect.Bool {
			return fmt.Errorf("expected bool destination, got %s", field.Kind())
		}
		field.SetBool(v)
	case float64:
		return assignNumber(field, v)
	case time.Time:
		if field.Type() != timeType {
			return fmt.Errorf("expected time.Time destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(v))
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}

func assignNumber(field reflect.Value, value float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.Trunc(value) != value {
			return fmt.Errorf("cannot assign non-integer value %v to integer field", value)
		}
		if field.OverflowInt(int64(value)) || value > math.MaxInt64 || value < math.MinInt64 {
			return fmt.Errorf("value %v overflows integer field", value)
		}
		field.SetInt(int64(value))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if math.Trunc(value) != value || value < 0 {
			return fmt.Errorf("cannot assign %v to unsigned integer field", value)
		}
		if value > math.MaxUint64 || field.OverflowUint(uint64(value)) {
			return fmt.Errorf("value %v overflows unsigned integer field", value)
		}
		field.SetUint(uint64(value))
	default:
		return fmt.Errorf("numeric assignment requires integer or float field, got %s", field.Kind())
	}
	return nil
}
