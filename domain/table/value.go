package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// Kind discriminates the closed set of cell value shapes. Every cell in a
// table is exactly one of these; code switches on Kind instead of poking at
// runtime types.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is a tagged variant holding one cell value: null, a scalar
// (string/number/bool), a mapping with recorded key order, or a sequence.
// Values are treated as immutable; transforms build new Values.
type Value struct {
	kind    Kind
	scalar  interface{}
	keys    []string
	entries map[string]Value
	items   []Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Scalar wraps a scalar. A nil argument yields Null.
func Scalar(v interface{}) Value {
	if v == nil {
		return Value{kind: KindNull}
	}
	return Value{kind: KindScalar, scalar: v}
}

// String wraps a string scalar.
func String(s string) Value { return Scalar(s) }

// Number wraps a float64 scalar.
func Number(f float64) Value { return Scalar(f) }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Scalar(b) }

// Entry is one key/value pair of a mapping, used to build mappings with an
// explicit key order.
type Entry struct {
	Key   string
	Value Value
}

// Mapping builds a mapping value preserving the given entry order.
// Later duplicates overwrite earlier ones without changing position.
func Mapping(entries ...Entry) Value {
	v := Value{kind: KindMapping, entries: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, seen := v.entries[e.Key]; !seen {
			v.keys = append(v.keys, e.Key)
		}
		v.entries[e.Key] = e.Value
	}
	return v
}

// Sequence builds a sequence value.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// FromAny revives a Value from encoding/json-shaped Go data
// (nil, bool, float64, string, map[string]interface{}, []interface{}).
// Go maps carry no order, so mapping keys are sorted for determinism;
// loaders that care about document order decode through ParseJSON instead.
func FromAny(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Entry{Key: k, Value: FromAny(t[k])})
		}
		return Mapping(entries...)
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}
		return Sequence(items...)
	default:
		return Scalar(v)
	}
}

// ParseJSON decodes a JSON fragment into a Value, preserving object key order
// as it appears in the document.
func ParseJSON(raw []byte) Value {
	return fromGJSON(gjson.ParseBytes(raw))
}

func fromGJSON(r gjson.Result) Value {
	switch {
	case r.Type == gjson.Null || !r.Exists():
		return Null()
	case r.IsObject():
		var entries []Entry
		r.ForEach(func(key, value gjson.Result) bool {
			entries = append(entries, Entry{Key: key.String(), Value: fromGJSON(value)})
			return true
		})
		return Mapping(entries...)
	case r.IsArray():
		var items []Value
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromGJSON(value))
			return true
		})
		return Sequence(items...)
	case r.Type == gjson.True:
		return Bool(true)
	case r.Type == gjson.False:
		return Bool(false)
	case r.Type == gjson.Number:
		return Number(r.Num)
	default:
		return String(r.String())
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsComplex reports whether the value is a mapping or a sequence,
// i.e. a cell that a tidy table is not allowed to keep as-is.
func (v Value) IsComplex() bool {
	return v.kind == KindMapping || v.kind == KindSequence
}

// ScalarValue returns the wrapped scalar. Valid only for KindScalar.
func (v Value) ScalarValue() interface{} {
	return v.scalar
}

// Keys returns the mapping key order. Empty for non-mappings.
func (v Value) Keys() []string {
	return v.keys
}

// Get returns the mapping entry for key.
func (v Value) Get(key string) (Value, bool) {
	entry, ok := v.entries[key]
	return entry, ok
}

// Items returns the sequence elements. Nil for non-sequences.
func (v Value) Items() []Value {
	return v.items
}

// Len returns the element count of a sequence, the key count of a mapping,
// and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Float64 attempts to read the value as a number. String scalars are parsed,
// matching how CSV-loaded tables carry numerics.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch t := v.scalar.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// StringValue renders the value as a display string. Complex values render as
// their JSON text; null renders empty.
func (v Value) StringValue() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindScalar:
		switch t := v.scalar.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		default:
			return fmt.Sprintf("%v", t)
		}
	default:
		raw, _ := v.MarshalJSON()
		return string(raw)
	}
}

// ToAny converts the Value back to encoding/json-shaped Go data.
func (v Value) ToAny() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindScalar:
		return v.scalar
	case KindMapping:
		out := make(map[string]interface{}, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.entries[k].ToAny()
		}
		return out
	case KindSequence:
		out := make([]interface{}, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.ToAny())
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMapping:
		entries := make([]Entry, 0, len(v.keys))
		for _, k := range v.keys {
			entries = append(entries, Entry{Key: k, Value: v.entries[k].Clone()})
		}
		return Mapping(entries...)
	case KindSequence:
		items := make([]Value, 0, len(v.items))
		for _, item := range v.items {
			items = append(items, item.Clone())
		}
		return Sequence(items...)
	default:
		return v
	}
}

// Equal compares two values structurally. Mapping comparison is key-order
// insensitive; sequence comparison is order sensitive.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		if f1, ok1 := v.Float64(); ok1 {
			if f2, ok2 := other.Float64(); ok2 {
				return f1 == f2
			}
			return false
		}
		return fmt.Sprintf("%v", v.scalar) == fmt.Sprintf("%v", other.scalar)
	case KindMapping:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for _, k := range v.keys {
			o, ok := other.entries[k]
			if !ok || !v.entries[k].Equal(o) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON writes the value as plain JSON, mappings in recorded key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := v.entries[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			itemJSON, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(itemJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("cannot marshal value of kind %d", v.kind)
}

// UnmarshalJSON decodes plain JSON into a Value, preserving object key order.
func (v *Value) UnmarshalJSON(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("invalid JSON value")
	}
	*v = ParseJSON(raw)
	return nil
}
