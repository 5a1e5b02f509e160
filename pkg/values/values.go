// Package values converts between caller-facing typed values and the
// arguments and column values the SQL driver works with.
package values

import (
	"bytes"
	"fmt"
)

// Bind is a value the caller binds to a statement parameter. The set of
// implementations is closed: Blob, Text and Float.
type Bind interface {
	arg() any
}

// Value is a typed column value read back from the engine. The set of
// implementations is closed: Integer, Float, Text, Blob and Null.
type Value interface {
	// Any returns the plain Go representation of the value.
	Any() any
	isValue()
}

// Integer is a 64-bit signed column value.
type Integer int64

// Float is a floating point value. It is both a bind value and a result value.
type Float float64

// Text is a UTF-8 string. It is both a bind value and a result value.
type Text string

// Blob is a byte string. It is both a bind value and a result value.
type Blob []byte

// Null is an SQL NULL column value.
type Null struct{}

func (f Float) arg() any { return float64(f) }
func (s Text) arg() any  { return string(s) }

// A nil Blob still binds as a zero-length blob, never as NULL.
func (b Blob) arg() any {
	if b == nil {
		return []byte{}
	}
	return []byte(b)
}

func (Integer) isValue() {}
func (Float) isValue()   {}
func (Text) isValue()    {}
func (Blob) isValue()    {}
func (Null) isValue()    {}

func (i Integer) Any() any { return int64(i) }
func (f Float) Any() any   { return float64(f) }
func (s Text) Any() any    { return string(s) }
func (b Blob) Any() any    { return []byte(b) }
func (Null) Any() any      { return nil }

// Args turns bind values into driver arguments, preserving order and type.
// A nil or empty slice yields no arguments.
func Args(binds []Bind) []any {
	if len(binds) == 0 {
		return nil
	}
	args := make([]any, len(binds))
	for i, b := range binds {
		args[i] = b.arg()
	}
	return args
}

// FromDriver converts one scanned column value into a Value. Blobs are
// copied so the result does not alias driver memory. Booleans and times are
// rejected: the driver only produces them by reinterpreting a stored value,
// and the stored value cannot be recovered from them.
func FromDriver(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Integer(val), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Blob(bytes.Clone(val)), nil
	default:
		return nil, fmt.Errorf("unsupported column value type %T", v)
	}
}
