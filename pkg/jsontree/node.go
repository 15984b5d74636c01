// Package jsontree provides an order-preserving, mutable JSON value tree.
//
// Save files must be written back with their properties in the order the game
// produced them, and numbers must keep their original text (a float written
// as "100.0" stays "100.0"). The standard library's map[string]any
// representation gives neither guarantee, so documents are decoded into [Node]
// values instead.
//
// Nodes are addressed with dotted paths ([Resolve], [Lookup]) and predicates
// ([FindFirst]). Writes go through [Cell] handles, which always re-resolve
// against the parent container that owns the value.
package jsontree

import (
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type held by a [Node].
type Kind uint8

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
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one JSON value. Object children keep insertion order and keys are
// unique. Numbers keep the exact text they were decoded from.
//
// A Node belongs to exactly one tree; attach it to a second parent only after
// [Node.Clone].
type Node struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []*Node
	obj  *orderedmap.OrderedMap[string, *Node]
}

// Null returns a new null node.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a new boolean node.
func Bool(v bool) *Node { return &Node{kind: KindBool, b: v} }

// String returns a new string node.
func String(v string) *Node { return &Node{kind: KindString, str: v} }

// Int returns a new integer number node.
func Int(v int64) *Node { return &Node{kind: KindNumber, num: strconv.FormatInt(v, 10)} }

// Float returns a new number node for v. Non-finite values cannot be
// represented in JSON and return [ErrNotFinite].
func Float(v float64) (*Node, error) {
	text, err := formatFloat(v, false)
	if err != nil {
		return nil, err
	}
	return &Node{kind: KindNumber, num: text}, nil
}

// RawNumber returns a number node holding text verbatim. The caller must
// supply a valid JSON number literal.
func RawNumber(text string) *Node { return &Node{kind: KindNumber, num: text} }

// Array returns a new array node with the given elements.
func Array(elems ...*Node) *Node { return &Node{kind: KindArray, arr: elems} }

// Object returns a new, empty object node.
func Object() *Node {
	return &Node{kind: KindObject, obj: orderedmap.New[string, *Node]()}
}

// Kind reports the JSON type of n. A nil node reports [KindNull].
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsObject reports whether n is a JSON object.
func (n *Node) IsObject() bool { return n.Kind() == KindObject }

// IsArray reports whether n is a JSON array.
func (n *Node) IsArray() bool { return n.Kind() == KindArray }

// BoolValue returns the boolean held by n and whether n is a boolean.
func (n *Node) BoolValue() (bool, bool) {
	if n.Kind() != KindBool {
		return false, false
	}
	return n.b, true
}

// StringValue returns the string held by n and whether n is a string.
func (n *Node) StringValue() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}
	return n.str, true
}

// NumberText returns the literal text of a number node.
func (n *Node) NumberText() (string, bool) {
	if n.Kind() != KindNumber {
		return "", false
	}
	return n.num, true
}

// FloatValue returns the number held by n as a float64.
func (n *Node) FloatValue() (float64, bool) {
	if n.Kind() != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IntValue returns the number held by n as an int64. Numbers with a
// fractional part are rejected.
func (n *Node) IntValue() (int64, bool) {
	if n.Kind() != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.num, 10, 64); err == nil {
		return i, true
	}
	f, ok := n.FloatValue()
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// Len returns the number of elements of an array or properties of an object.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.arr)
	case KindObject:
		return n.obj.Len()
	}
	return 0
}

// Index returns the i-th element of an array node.
func (n *Node) Index(i int) (*Node, bool) {
	if n.Kind() != KindArray || i < 0 || i >= len(n.arr) {
		return nil, false
	}
	return n.arr[i], true
}

// Elements returns the elements of an array node. The slice aliases the
// node's storage; do not append to it.
func (n *Node) Elements() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return n.arr
}

// Append adds elements to the end of an array node.
func (n *Node) Append(elems ...*Node) {
	if n.Kind() != KindArray {
		return
	}
	n.arr = append(n.arr, elems...)
}

// Get returns the property key of an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind() != KindObject {
		return nil, false
	}
	return n.obj.Get(key)
}

// Set stores v under key on an object node. An existing key keeps its
// position; a new key is appended.
func (n *Node) Set(key string, v *Node) {
	if n.Kind() != KindObject {
		return
	}
	n.obj.Set(key, v)
}

// Delete removes key from an object node.
func (n *Node) Delete(key string) {
	if n.Kind() != KindObject {
		return
	}
	n.obj.Delete(key)
}

// Keys returns the property names of an object node in order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	keys := make([]string, 0, n.obj.Len())
	for p := n.obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Each calls fn for every property of an object node in order, stopping
// early when fn returns false.
func (n *Node) Each(fn func(key string, v *Node) bool) {
	if n.Kind() != KindObject {
		return
	}
	for p := n.obj.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, b: n.b, num: n.num, str: n.str}
	switch n.kind {
	case KindArray:
		c.arr = make([]*Node, len(n.arr))
		for i, e := range n.arr {
			c.arr[i] = e.Clone()
		}
	case KindObject:
		c.obj = orderedmap.New[string, *Node]()
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			c.obj.Set(p.Key, p.Value.Clone())
		}
	}
	return c
}

// Interface converts n to plain Go values: map[string]any, []any, string,
// float64, bool or nil. Key order is lost; use it for comparisons and
// diagnostics only.
func (n *Node) Interface() any {
	switch n.Kind() {
	case KindBool:
		return n.b
	case KindNumber:
		f, _ := n.FloatValue()
		return f
	case KindString:
		return n.str
	case KindArray:
		out := make([]any, len(n.arr))
		for i, e := range n.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, n.obj.Len())
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value.Interface()
		}
		return out
	}
	return nil
}

// Equal reports whether a and b are structurally identical: same kinds, same
// object keys in the same order, equal elements. Numbers compare by value, so
// "1" and "1.0" are equal.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		if a.num == b.num {
			return true
		}
		fa, okA := a.FloatValue()
		fb, okB := b.FloatValue()
		return okA && okB && fa == fb
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		pa, pb := a.obj.Oldest(), b.obj.Oldest()
		for pa != nil && pb != nil {
			if pa.Key != pb.Key || !Equal(pa.Value, pb.Value) {
				return false
			}
			pa, pb = pa.Next(), pb.Next()
		}
		return true
	}
	return false
}

// isFloatStyled reports whether number text was written with a fraction or
// exponent, e.g. "100.0" or "1e3".
func isFloatStyled(text string) bool {
	return strings.ContainsAny(text, ".eE")
}
