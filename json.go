package toon

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// ParseJSON converts JSON text to a Value, preserving object key order.
func ParseJSON(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	value, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, errors.Wrap(err, "toon: parse json")
	}
	return valueFromJSON(dt, value)
}

func valueFromJSON(dt jsonparser.ValueType, data []byte) (Value, error) {
	switch dt {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case jsonparser.Number:
		i, err := jsonparser.ParseInt(data)
		if err != nil {
			// Too big for int64 or fractional; fall back to float.
			f, err := jsonparser.ParseFloat(data)
			if err != nil {
				return Value{}, err
			}
			return normalizeFloat(f), nil
		}
		return Int(i), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case jsonparser.Array:
		items := []Value{}
		var inner error
		_, perr := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
			if inner != nil || err != nil {
				if inner == nil {
					inner = err
				}
				return
			}
			var v Value
			v, inner = valueFromJSON(dataType, value)
			if inner != nil {
				return
			}
			items = append(items, v)
		})
		if inner != nil {
			return Value{}, inner
		}
		if perr != nil {
			return Value{}, perr
		}
		return Array(items...), nil
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
			v, err := valueFromJSON(dataType, value)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, errors.Newf("toon: unexpected json value type %v", dt)
	}
}

// MarshalJSON renders the Value as JSON, preserving object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.BoolVal()))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.IntVal(), 10))
	case KindFloat:
		f := v.FloatVal()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			break
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindString:
		data, err := json.Marshal(v.StringVal())
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.Object().Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteByte(':')
			item, _ := v.Object().Get(key)
			if err := item.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
