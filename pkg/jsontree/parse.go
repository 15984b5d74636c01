package jsontree

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrSyntax is returned by [Parse] for input that is not a single valid JSON
// value.
var ErrSyntax = errors.New("jsontree: invalid JSON")

// Parse decodes data into a tree. Object key order and number text are kept
// exactly as they appear in data. Duplicate keys keep the position of their
// first occurrence and the value of their last.
func Parse(data []byte) (*Node, error) {
	// jsonparser is lenient about malformed input, so validate strictly first.
	if !json.Valid(data) {
		return nil, ErrSyntax
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return build(value, typ)
}

// ParseString is [Parse] for text held in a Go string.
func ParseString(s string) (*Node, error) {
	return Parse([]byte(s))
}

func build(value []byte, typ jsonparser.ValueType) (*Node, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return Bool(b), nil

	case jsonparser.Number:
		return RawNumber(string(value)), nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return String(s), nil

	case jsonparser.Array:
		n := &Node{kind: KindArray, arr: []*Node{}}
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			elem, err := build(v, t)
			if err != nil {
				inner = err
				return
			}
			n.arr = append(n.arr, elem)
		})
		if inner != nil {
			return nil, inner
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return n, nil

	case jsonparser.Object:
		n := &Node{kind: KindObject, obj: orderedmap.New[string, *Node]()}
		err := jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			child, err := build(v, t)
			if err != nil {
				return err
			}
			n.obj.Set(string(key), child)
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrSyntax) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: unexpected value type %s", ErrSyntax, typ)
}
