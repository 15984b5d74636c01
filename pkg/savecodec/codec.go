// Package savecodec reads and writes the Sons of the Forest save file format.
//
// Every save file is a JSON object whose "Data" property holds one or more
// sub-documents. The game stores each sub-document as a JSON string containing
// compact JSON text rather than as a nested object:
//
//	{"Version":"0.0.0","Data":{"GameState":"{\"IsRobbyDead\":false,...}"}}
//
// [Decode] parses those strings into trees so the content can be addressed
// with [jsontree.Resolve]; [Encode] turns them back into compact strings. The
// game's loader is sensitive to the shape of the output, so Encode never adds
// whitespace and keeps property order.
package savecodec

import (
	"errors"
	"fmt"

	"github.com/mailru/easyjson/jwriter"

	"github.com/MrWong99/sotf-rescue/pkg/jsontree"
)

// DataKey is the top-level property holding the string-encoded sub-documents.
const DataKey = "Data"

// ErrNotSaveDocument is returned by [Encode] for a tree without an object
// "Data" property.
var ErrNotSaveDocument = errors.New("savecodec: not a save document")

// ParseError reports malformed save content.
type ParseError struct {
	// Key is the "Data" property whose string failed to parse. It is empty
	// when the outer document itself is malformed.
	Key string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("savecodec: parse document: %v", e.Err)
	}
	return fmt.Sprintf("savecodec: parse Data.%s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Decode parses raw save bytes. The result has the string value of every
// direct property of "Data" replaced by the tree it encodes. Properties that
// already hold structured values are kept as they are. Only one level is
// unwrapped.
func Decode(raw []byte) (*jsontree.Node, error) {
	root, err := jsontree.Parse(raw)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if !root.IsObject() {
		return nil, &ParseError{Err: fmt.Errorf("top level is %s, want object", root.Kind())}
	}
	data, ok := root.Get(DataKey)
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("missing %q property", DataKey)}
	}
	if !data.IsObject() {
		return nil, &ParseError{Err: fmt.Errorf("%q is %s, want object", DataKey, data.Kind())}
	}

	var perr error
	data.Each(func(key string, v *jsontree.Node) bool {
		text, isString := v.StringValue()
		if !isString {
			return true
		}
		inner, err := jsontree.ParseString(text)
		if err != nil {
			perr = &ParseError{Key: key, Err: err}
			return false
		}
		data.Set(key, inner)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return root, nil
}

// Encode is the inverse of [Decode]: every direct property of "Data" is
// written as a JSON string holding its compact JSON text, and the outer
// document is written compactly. The tree is not modified.
//
// For any tree t returned by Decode, Decode(Encode(t)) is structurally equal
// to t.
func Encode(root *jsontree.Node) ([]byte, error) {
	if !root.IsObject() {
		return nil, ErrNotSaveDocument
	}
	if data, ok := root.Get(DataKey); !ok || !data.IsObject() {
		return nil, ErrNotSaveDocument
	}

	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawByte('{')
	first := true
	var encErr error
	root.Each(func(key string, v *jsontree.Node) bool {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(key)
		w.RawByte(':')
		if key != DataKey {
			jsontree.Encode(&w, v)
			return true
		}
		if err := encodeData(&w, v); err != nil {
			encErr = err
			return false
		}
		return true
	})
	if encErr != nil {
		return nil, encErr
	}
	w.RawByte('}')
	return w.BuildBytes()
}

func encodeData(w *jwriter.Writer, data *jsontree.Node) error {
	w.RawByte('{')
	first := true
	var encErr error
	data.Each(func(key string, v *jsontree.Node) bool {
		text, err := jsontree.Marshal(v)
		if err != nil {
			encErr = fmt.Errorf("savecodec: encode Data.%s: %w", key, err)
			return false
		}
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(key)
		w.RawByte(':')
		w.String(string(text))
		return true
	})
	w.RawByte('}')
	return encErr
}
