package models

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies which variant of the JSON value union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a parsed JSON value. Objects keep their members in the order
// they were added, so re-serializing a parsed document preserves key order.
//
// Values are treated as immutable once built: transformations that need to
// change a document work on a DeepCopy.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	str     string
	items   []*Value
	members []Member
	index   map[string]int
}

// Null returns a JSON null.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// Number returns a JSON number holding the given literal.
func Number(n json.Number) *Value { return &Value{kind: KindNumber, number: n} }

// String returns a JSON string.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Array returns a JSON array of the given items.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, items: items}
}

// NewObject returns an empty JSON object.
func NewObject() *Value {
	return &Value{kind: KindObject, index: make(map[string]int)}
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind { return v.kind }

// IsObject reports whether v is a JSON object.
func (v *Value) IsObject() bool { return v != nil && v.kind == KindObject }

// IsArray reports whether v is a JSON array.
func (v *Value) IsArray() bool { return v != nil && v.kind == KindArray }

// BoolValue returns the boolean payload.
func (v *Value) BoolValue() bool { return v.boolean }

// NumberValue returns the number literal.
func (v *Value) NumberValue() json.Number { return v.number }

// StringValue returns the string payload.
func (v *Value) StringValue() string { return v.str }

// Items returns the elements of an array. The slice must not be modified.
func (v *Value) Items() []*Value { return v.items }

// Members returns the members of an object in order. The slice must not be modified.
func (v *Value) Members() []Member { return v.members }

// Len returns the number of array elements or object members.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Keys returns the object's keys in order.
func (v *Value) Keys() []string {
	keys := make([]string, 0, len(v.members))
	for _, m := range v.members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Get returns the member value stored under key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.members[i].Value, true
}

// Has reports whether the object has a member named key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set stores val under key. An existing key keeps its position and has
// its value replaced; a new key is appended.
func (v *Value) Set(key string, val *Value) {
	if i, ok := v.index[key]; ok {
		v.members[i].Value = val
		return
	}
	v.index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Delete removes key from the object. It reports whether the key was present.
func (v *Value) Delete(key string) bool {
	i, ok := v.index[key]
	if !ok {
		return false
	}
	v.members = append(v.members[:i], v.members[i+1:]...)
	delete(v.index, key)
	for j := i; j < len(v.members); j++ {
		v.index[v.members[j].Key] = j
	}
	return true
}

// Append adds an element to an array.
func (v *Value) Append(item *Value) {
	v.items = append(v.items, item)
}

// DeepCopy returns a copy of v that shares no containers with it.
func (v *Value) DeepCopy() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindArray:
		items := make([]*Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.DeepCopy()
		}
		return &Value{kind: KindArray, items: items}
	case KindObject:
		obj := &Value{
			kind:    KindObject,
			members: make([]Member, len(v.members)),
			index:   make(map[string]int, len(v.members)),
		}
		for i, m := range v.members {
			obj.members[i] = Member{Key: m.Key, Value: m.Value.DeepCopy()}
			obj.index[m.Key] = i
		}
		return obj
	default:
		cp := *v
		return &cp
	}
}

// Equal reports whether a and b are structurally equal. Equality is deep
// and type-sensitive; object member order is not significant. A nil Value
// (an absent member) is only equal to another nil.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return numbersEqual(a.number, b.number)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			other, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// numbersEqual compares two number literals. Integer literals compare by
// exact value, fractional literals as float64, and an integer literal never
// equals a fractional one (25 != 25.0).
func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	aInt, bInt := isIntegerLiteral(a), isIntegerLiteral(b)
	if aInt != bInt {
		return false
	}
	if aInt {
		x, okX := new(big.Int).SetString(string(a), 10)
		y, okY := new(big.Int).SetString(string(b), 10)
		return okX && okY && x.Cmp(y) == 0
	}
	x, errX := strconv.ParseFloat(string(a), 64)
	y, errY := strconv.ParseFloat(string(b), 64)
	return errX == nil && errY == nil && x == y
}

func isIntegerLiteral(n json.Number) bool {
	return !strings.ContainsAny(string(n), ".eE")
}
