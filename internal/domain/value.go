package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindInt
	kindBool
)

// Value is a typed scalar used for record attributes and filter expectations.
// The zero Value is null.
type Value struct {
	kind valueKind
	str  string
	num  int64
	flag bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s. An empty string is treated as null, matching absent attributes.
func String(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: kindString, str: s}
}

// Int wraps an integer attribute.
func Int(i int64) Value { return Value{kind: kindInt, num: i} }

// Bool wraps a boolean attribute.
func Bool(b bool) Value { return Value{kind: kindBool, flag: b} }

// IsNull reports whether the value is null or absent.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Equal reports value equality. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Text renders the value for display and cache keys.
func (v Value) Text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindInt:
		return strconv.FormatInt(v.num, 10)
	case kindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Any returns the underlying Go value, nil for null.
func (v Value) Any() any {
	switch v.kind {
	case kindString:
		return v.str
	case kindInt:
		return v.num
	case kindBool:
		return v.flag
	default:
		return nil
	}
}

// Less orders null first, then strings, ints and bools, each by natural order.
func (v Value) Less(other Value) bool {
	if v.kind != other.kind {
		return v.kind < other.kind
	}
	switch v.kind {
	case kindString:
		return v.str < other.str
	case kindInt:
		return v.num < other.num
	case kindBool:
		return !v.flag && other.flag
	default:
		return false
	}
}

// SortValues sorts values in place using Less.
func SortValues(values []Value) {
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Less(values[j])
	})
}

// FromAny converts a decoded JSON or driver value into a Value.
func FromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(typed), nil
	case []byte:
		return String(string(typed)), nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint8:
		return Int(int64(typed)), nil
	case float64:
		if typed != float64(int64(typed)) {
			return Value{}, fmt.Errorf("non-integer number %v", typed)
		}
		return Int(int64(typed)), nil
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("parse number %q: %w", typed, err)
		}
		return Int(parsed), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
