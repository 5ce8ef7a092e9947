package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

type orderParams struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

type orderTerm struct {
	key  string
	desc bool
}

// parseOrderBy accepts up to two comma separated keys, each written as
// "key", "key asc", "key desc" or "-key".
func parseOrderBy(raw string, schema OrderSchema) (orderParams, error) {
	if err := checkOrderSchema(schema); err != nil {
		return orderParams{}, err
	}
	ord := orderParams{
		PrimaryKey:    schema.DefaultPrimary,
		PrimaryDesc:   schema.DefaultPrimaryDesc,
		SecondaryKey:  schema.FallbackKey,
		SecondaryDesc: schema.FallbackDesc,
	}

	terms, err := orderTerms(raw, schema)
	if err != nil {
		return orderParams{}, err
	}
	switch len(terms) {
	case 0:
		return ord, nil
	case 1:
		ord.PrimaryKey, ord.PrimaryDesc = terms[0].key, terms[0].desc
	case 2:
		ord.PrimaryKey, ord.PrimaryDesc = terms[0].key, terms[0].desc
		ord.SecondaryKey, ord.SecondaryDesc = terms[1].key, terms[1].desc
	default:
		return orderParams{}, errors.New("order_by supports at most two keys")
	}

	if ord.SecondaryKey == ord.PrimaryKey {
		next, ok := tieBreaker(schema, ord.PrimaryKey)
		if !ok {
			return orderParams{}, errors.New("order schema requires at least two distinct keys for stable ordering")
		}
		ord.SecondaryKey, ord.SecondaryDesc = next, false
	}
	return ord, nil
}

func checkOrderSchema(schema OrderSchema) error {
	if schema.DefaultPrimary == "" {
		return errors.New("order schema default primary key required")
	}
	if schema.FallbackKey == "" {
		return errors.New("order schema fallback key required")
	}
	if _, ok := schema.Fields[schema.DefaultPrimary]; !ok {
		return fmt.Errorf("order key %q missing from schema fields", schema.DefaultPrimary)
	}
	if _, ok := schema.Fields[schema.FallbackKey]; !ok {
		return fmt.Errorf("fallback order key %q missing from schema fields", schema.FallbackKey)
	}
	return nil
}

func orderTerms(raw string, schema OrderSchema) ([]orderTerm, error) {
	var terms []orderTerm
	seen := map[string]bool{}
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}

		var t orderTerm
		switch len(parts) {
		case 1:
			t.key = parts[0]
			if strings.HasPrefix(t.key, "-") {
				t.key, t.desc = t.key[1:], true
			}
		case 2:
			t.key = parts[0]
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				t.desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], t.key)
			}
		default:
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, ok := schema.Fields[t.key]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", t.key)
		}
		if seen[t.key] {
			return nil, fmt.Errorf("duplicate order key %q", t.key)
		}
		seen[t.key] = true
		terms = append(terms, t)
	}
	return terms, nil
}

// tieBreaker picks a secondary key when the fallback equals the primary one.
// The fallback is the first choice, then the remaining keys in name order.
func tieBreaker(schema OrderSchema, primary string) (string, bool) {
	if schema.FallbackKey != primary {
		return schema.FallbackKey, true
	}
	keys := make([]string, 0, len(schema.Fields))
	for k := range schema.Fields {
		if k != primary {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return keys[0], true
}

func setOrderParams(target reflect.Value, ord orderParams) error {
	for name, value := range map[string]any{
		"PrimaryKey":    ord.PrimaryKey,
		"PrimaryDesc":   ord.PrimaryDesc,
		"SecondaryKey":  ord.SecondaryKey,
		"SecondaryDesc": ord.SecondaryDesc,
	} {
		if err := setOrderField(target, name, reflect.ValueOf(value)); err != nil {
			return err
		}
	}
	return nil
}

func setOrderField(target reflect.Value, name string, value reflect.Value) error {
	field := target.FieldByName(name)
	if !field.IsValid() {
		return fmt.Errorf("params struct %s has no field named %q", target.Type(), name)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field %q on params struct", name)
	}

	switch field.Kind() {
	case reflect.Interface:
		field.Set(value)
	case reflect.Ptr:
		elem := field.Type().Elem()
		if !value.Type().ConvertibleTo(elem) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, elem, value.Type())
		}
		if field.IsNil() {
			field.Set(reflect.New(elem))
		}
		field.Elem().Set(value.Convert(elem))
	default:
		if !value.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, field.Type(), value.Type())
		}
		field.Set(value.Convert(field.Type()))
	}
	return nil
}
