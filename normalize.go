package toon

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedType reports a native Go value that has no canonical Value
// representation.
var ErrUnsupportedType = errors.New("unsupported type")

// Normalize converts a native Go value to the canonical Value model. Map
// keys are sorted for deterministic output; struct fields keep their
// declaration order via their JSON form. Whole floats normalize to integers
// so normalized trees are canonical.
func Normalize(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case *Object:
		return ObjectValue(val), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return normalizeFloat(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "number %q", val.String())
		}
		return normalizeFloat(f), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u)), nil
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "map key type %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, key := range keys {
			child, err := Normalize(rv.MapIndex(reflect.ValueOf(key)).Interface())
			if err != nil {
				return Value{}, err
			}
			obj.Set(key, child)
		}
		return ObjectValue(obj), nil
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			child, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items[i] = child
		}
		return Array(items...), nil
	case reflect.Struct:
		// Route structs through their JSON form so tags, embedding and
		// field order apply.
		data, err := json.Marshal(v)
		if err != nil {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "struct %T", v)
		}
		return ParseJSON(data)
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedType, "%T", v)
	}
}
