package jsontree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPathNotFound is returned when a path segment is absent or descends
	// into a value that is not a container.
	ErrPathNotFound = errors.New("jsontree: path not found")

	// ErrNotArray is returned by [FindFirst] when the target is not an array.
	ErrNotArray = errors.New("jsontree: not an array")

	// ErrNoMatch is returned by [FindFirst] when no element satisfies the
	// predicate. It is distinct from a malformed target.
	ErrNoMatch = errors.New("jsontree: no matching element")

	// ErrKind is returned when a cell holds a value of an unexpected kind.
	ErrKind = errors.New("jsontree: unexpected value kind")

	// ErrNotFinite is returned when a NaN or infinite number is written.
	ErrNotFinite = errors.New("jsontree: number is not finite")
)

// PathError describes a failed path resolution.
type PathError struct {
	// Path is the full path that was being resolved.
	Path string

	// Segment is the segment at which resolution stopped.
	Segment string

	// Err is [ErrPathNotFound] or [ErrNotArray].
	Err error
}

func (e *PathError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" || e.Path == e.Segment {
		return fmt.Sprintf("%v: %q", e.Err, e.Segment)
	}
	return fmt.Sprintf("%v: %q at segment %q", e.Err, e.Path, e.Segment)
}

func (e *PathError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Resolve follows a dot-separated path from root and returns a [Cell] for the
// final segment. Object segments are property names; on arrays a segment is
// a decimal index. Every segment, including the last, must exist.
func Resolve(root *Node, path string) (Cell, error) {
	if path == "" {
		return Cell{}, &PathError{Path: path, Err: ErrPathNotFound}
	}
	segments := strings.Split(path, ".")
	parent := root
	for i, seg := range segments {
		c, ok := child(parent, seg)
		if !ok {
			return Cell{}, &PathError{Path: path, Segment: seg, Err: ErrPathNotFound}
		}
		if i == len(segments)-1 {
			return c, nil
		}
		parent = c.Get()
	}
	panic("unreachable")
}

// Lookup is [Resolve] returning the node itself. An empty path returns root.
func Lookup(root *Node, path string) (*Node, error) {
	if path == "" {
		return root, nil
	}
	c, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	return c.Get(), nil
}

// Field returns a cell for key on obj whether or not the key exists yet;
// writing through it creates the property.
func Field(obj *Node, key string) (Cell, error) {
	if !obj.IsObject() {
		return Cell{}, &PathError{Path: key, Segment: key, Err: ErrPathNotFound}
	}
	return Cell{parent: obj, key: key, index: -1}, nil
}

// Predicate tests a field value during [FindFirst].
type Predicate func(*Node) bool

// Equals matches numbers equal to want.
func Equals(want int64) Predicate {
	return func(n *Node) bool {
		f, ok := n.FloatValue()
		return ok && f == float64(want)
	}
}

// Contains matches strings containing sub.
func Contains(sub string) Predicate {
	return func(n *Node) bool {
		s, ok := n.StringValue()
		return ok && strings.Contains(s, sub)
	}
}

// FindFirst scans arr in order and returns a cell for the first element whose
// field satisfies pred. Elements that are not objects or lack field are
// skipped. A target that is not an array fails with a [PathError] wrapping
// [ErrNotArray]; no match fails with [ErrNoMatch].
func FindFirst(arr *Node, field string, pred Predicate) (Cell, error) {
	if !arr.IsArray() {
		return Cell{}, &PathError{Segment: field, Err: ErrNotArray}
	}
	for i, elem := range arr.arr {
		v, ok := elem.Get(field)
		if !ok {
			continue
		}
		if pred(v) {
			return Cell{parent: arr, index: i}, nil
		}
	}
	return Cell{}, ErrNoMatch
}

func child(parent *Node, seg string) (Cell, bool) {
	switch parent.Kind() {
	case KindObject:
		if _, ok := parent.obj.Get(seg); !ok {
			return Cell{}, false
		}
		return Cell{parent: parent, key: seg, index: -1}, true
	case KindArray:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(parent.arr) {
			return Cell{}, false
		}
		return Cell{parent: parent, index: i}, true
	}
	return Cell{}, false
}

// Cell is a handle to one slot of a tree: a property of an object or an
// element of an array. It holds the parent container, not the value, so every
// read and write re-resolves the slot and observes replacements made through
// other handles.
//
// A Cell is borrowed from whoever owns the tree. It stays usable as long as
// its parent container is still attached to that tree.
type Cell struct {
	parent *Node
	key    string
	index  int
}

// Valid reports whether c addresses a slot.
func (c Cell) Valid() bool { return c.parent != nil }

// Name returns the property name or element index of the slot.
func (c Cell) Name() string {
	if c.parent.IsArray() {
		return strconv.Itoa(c.index)
	}
	return c.key
}

// Get returns the current value of the slot, or nil when the slot is empty.
func (c Cell) Get() *Node {
	switch c.parent.Kind() {
	case KindObject:
		v, _ := c.parent.obj.Get(c.key)
		return v
	case KindArray:
		if c.index >= 0 && c.index < len(c.parent.arr) {
			return c.parent.arr[c.index]
		}
	}
	return nil
}

// Set replaces the value of the slot.
func (c Cell) Set(v *Node) error {
	switch c.parent.Kind() {
	case KindObject:
		c.parent.obj.Set(c.key, v)
		return nil
	case KindArray:
		if c.index >= 0 && c.index < len(c.parent.arr) {
			c.parent.arr[c.index] = v
			return nil
		}
	}
	return &PathError{Path: c.Name(), Segment: c.Name(), Err: ErrPathNotFound}
}

// Float reads the slot as a number.
func (c Cell) Float() (float64, error) {
	v := c.Get()
	if v == nil {
		return 0, &PathError{Path: c.Name(), Segment: c.Name(), Err: ErrPathNotFound}
	}
	f, ok := v.FloatValue()
	if !ok {
		return 0, fmt.Errorf("%w: %q is %s, want number", ErrKind, c.Name(), v.Kind())
	}
	return f, nil
}

// Bool reads the slot as a boolean.
func (c Cell) Bool() (bool, error) {
	v := c.Get()
	if v == nil {
		return false, &PathError{Path: c.Name(), Segment: c.Name(), Err: ErrPathNotFound}
	}
	b, ok := v.BoolValue()
	if !ok {
		return false, fmt.Errorf("%w: %q is %s, want boolean", ErrKind, c.Name(), v.Kind())
	}
	return b, nil
}

// SetFloat writes a number. When the slot already holds float-styled text
// ("100.0") an integral v is written in the same style.
func (c Cell) SetFloat(v float64) error {
	styled := false
	if text, ok := c.Get().NumberText(); ok {
		styled = isFloatStyled(text)
	}
	text, err := formatFloat(v, styled)
	if err != nil {
		return fmt.Errorf("jsontree: set %q: %w", c.Name(), err)
	}
	return c.Set(RawNumber(text))
}

// SetInt writes an integer number.
func (c Cell) SetInt(v int64) error { return c.Set(Int(v)) }

// SetBool writes a boolean.
func (c Cell) SetBool(v bool) error { return c.Set(Bool(v)) }
