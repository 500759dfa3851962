package node

import (
	"strconv"
)

// ScalarType records which Go value a scalar was created from.
type ScalarType int

const (
	TypeString ScalarType = iota
	TypeBytes
	TypeInt
	TypeFloat
	TypeBool
)

// Scalar is a file. Its content is the textual form of the value.
type Scalar struct {
	typ   ScalarType
	text  string
	value any
}

func String(s string) Scalar {
	return Scalar{typ: TypeString, text: s, value: s}
}

// Bytes copies b.
func Bytes(b []byte) Scalar {
	return Scalar{typ: TypeBytes, text: string(b), value: append([]byte(nil), b...)}
}

func Int(i int64) Scalar {
	return Scalar{typ: TypeInt, text: strconv.FormatInt(i, 10), value: i}
}

func Uint(u uint64) Scalar {
	return Scalar{typ: TypeInt, text: strconv.FormatUint(u, 10), value: u}
}

func Float(f float64) Scalar {
	return Scalar{typ: TypeFloat, text: strconv.FormatFloat(f, 'g', -1, 64), value: f}
}

func Bool(b bool) Scalar {
	return Scalar{typ: TypeBool, text: strconv.FormatBool(b), value: b}
}

func (s Scalar) Kind() Kind {
	return KindScalar
}

func (s Scalar) Type() ScalarType {
	return s.typ
}

// Text returns the textual form served as file content.
func (s Scalar) Text() string {
	return s.text
}

func (s Scalar) Bytes() []byte {
	return []byte(s.text)
}

// Len returns the byte length of the textual form.
func (s Scalar) Len() int {
	return len(s.text)
}

// Value returns the Go value the scalar was created from.
func (s Scalar) Value() any {
	return s.value
}

func (s Scalar) String() string {
	return s.text
}
