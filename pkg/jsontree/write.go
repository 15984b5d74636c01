package jsontree

import (
	"math"
	"strconv"

	"github.com/mailru/easyjson/jwriter"
)

// Marshal writes n as compact JSON: no insignificant whitespace, object keys
// in tree order, number text as stored, and no HTML escaping of '<', '>'
// or '&'.
func Marshal(n *Node) ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	Encode(&w, n)
	return w.BuildBytes()
}

// Encode appends the compact form of n to w. Errors are reported through
// w.Error the way jwriter does.
func Encode(w *jwriter.Writer, n *Node) {
	switch n.Kind() {
	case KindNull:
		w.RawString("null")
	case KindBool:
		w.Bool(n.b)
	case KindNumber:
		w.RawString(n.num)
	case KindString:
		w.String(n.str)
	case KindArray:
		w.RawByte('[')
		for i, e := range n.arr {
			if i > 0 {
				w.RawByte(',')
			}
			Encode(w, e)
		}
		w.RawByte(']')
	case KindObject:
		w.RawByte('{')
		first := true
		for p := n.obj.Oldest(); p != nil; p = p.Next() {
			if !first {
				w.RawByte(',')
			}
			first = false
			w.String(p.Key)
			w.RawByte(':')
			Encode(w, p.Value)
		}
		w.RawByte('}')
	}
}

// formatFloat renders v the way encoding/json does. With floatStyled set, an
// integral result gets a ".0" suffix so that a cell written as a float keeps
// reading as one.
func formatFloat(v float64, floatStyled bool) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNotFinite
	}
	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(v, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	if floatStyled && !isFloatStyled(s) {
		s += ".0"
	}
	return s, nil
}
