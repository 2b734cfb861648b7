package store

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"restaurant-menu-api/errs"

	"gorm.io/gorm/schema"
)

// Attrs names attributes to write in a partial update. Keys are attribute
// names (json name, column name or Go field name); values are coerced to the
// column's type.
type Attrs map[string]any

// Where is an equality predicate over attributes. A nil value matches NULL.
type Where map[string]any

// attribute is one writable or filterable column of an entity.
type attribute struct {
	field    *schema.Field
	readOnly bool
}

// attributeSet resolves attribute names for one entity.
type attributeSet struct {
	entity string
	byName map[string]*attribute
}

func newAttributeSet(entity string, s *schema.Schema, aliases map[string]string) *attributeSet {
	set := &attributeSet{entity: entity, byName: make(map[string]*attribute)}

	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		a := &attribute{
			field:    f,
			readOnly: f.PrimaryKey || f.AutoCreateTime > 0 || f.AutoUpdateTime > 0,
		}
		set.byName[f.DBName] = a
		set.byName[f.Name] = a
		if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			set.byName[name] = a
		}
	}
	for alias, target := range aliases {
		if a, ok := set.byName[target]; ok {
			set.byName[alias] = a
		}
	}
	return set
}

func (s *attributeSet) lookup(name string) (*attribute, error) {
	a, ok := s.byName[name]
	if !ok {
		return nil, errs.Validation(s.entity, name, "unknown attribute")
	}
	return a, nil
}

// columns resolves a predicate to column-keyed values, coercing each value.
func (s *attributeSet) columns(where Where) (map[string]any, error) {
	out := make(map[string]any, len(where))
	for _, name := range sortedKeys(where) {
		a, err := s.lookup(name)
		if err != nil {
			return nil, err
		}
		v, err := coerce(s.entity, name, a.field.FieldType, where[name])
		if err != nil {
			return nil, err
		}
		// compare against the pointee; a nil pointer becomes IS NULL
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				v = nil
			} else {
				v = rv.Elem().Interface()
			}
		}
		out[a.field.DBName] = v
	}
	return out, nil
}

// assignments resolves attrs for an update, rejecting read-only columns.
func (s *attributeSet) assignments(attrs Attrs) (map[*schema.Field]any, error) {
	out := make(map[*schema.Field]any, len(attrs))
	for _, name := range sortedKeys(attrs) {
		a, err := s.lookup(name)
		if err != nil {
			return nil, err
		}
		if a.readOnly {
			return nil, errs.Validation(s.entity, name, "attribute is read-only")
		}
		v, err := coerce(s.entity, name, a.field.FieldType, attrs[name])
		if err != nil {
			return nil, err
		}
		out[a.field] = v
	}
	return out, nil
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// coerce converts v to a value assignable to a field of type t. Conversions
// never lose information: 2.5 does not become a key and "1" is not a number.
func coerce(entity, name string, t reflect.Type, v any) (any, error) {
	if t.Kind() == reflect.Pointer {
		if v == nil {
			return reflect.Zero(t).Interface(), nil
		}
		inner, err := coerce(entity, name, t.Elem(), v)
		if err != nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(inner))
		return p.Interface(), nil
	}
	if v == nil {
		return nil, errs.Validation(entity, name, "cannot be null")
	}

	mismatch := func() error {
		return errs.Validation(entity, name, "expected %s, got %T", t.Kind(), v)
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch()
		}
		return reflect.ValueOf(s).Convert(t).Interface(), nil

	case reflect.Bool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			// query strings carry booleans as text
			if b == "true" || b == "false" {
				return b == "true", nil
			}
		}
		return nil, mismatch()

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(v)
		if !ok {
			return nil, mismatch()
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := toFloat(v)
		if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
			return nil, mismatch()
		}
		return reflect.ValueOf(uint64(f)).Convert(t).Interface(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return nil, mismatch()
		}
		return reflect.ValueOf(int64(f)).Convert(t).Interface(), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return v, nil
	}
	return nil, fmt.Errorf("%s.%s: unsupported attribute type %s", entity, name, t)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
