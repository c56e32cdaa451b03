// Package value implements Concoct's tagged value model: the seven data
// types that may live in the object store, together with the textual
// coercion rule used when literals arrive as source text and the
// stringification rules used for display.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tag identifies which variant of the tagged union a Value holds.
type Tag uint8

// Value tags, in promotion-lattice order for the numeric tags
// (Byte < Number < BigNum < Decimal).
const (
	Nil Tag = iota
	Bool
	Byte
	Number
	BigNum
	Decimal
	String
)

// String returns the human-readable type name, matching the teacher's
// practice of naming error messages after the operator/type involved
// rather than the Go identifier.
func (t Tag) String() string {
	switch t {
	case Nil:
		return "null"
	case Bool:
		return "boolean"
	case Byte:
		return "byte"
	case Number:
		return "number"
	case BigNum:
		return "big number"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged datum. Only the field matching Tag is meaningful.
// STRING is the only variant with a heap-owned payload; cloning a Value
// must copy Str so that two Values never alias the same byte slice.
type Value struct {
	Tag Tag

	Bl  bool
	By  byte
	Num int32
	Big int64
	Dec float64
	Str string
}

// NewNil returns the NIL singleton value.
func NewNil() Value { return Value{Tag: Nil} }

// NewBool constructs a BOOL value.
func NewBool(b bool) Value { return Value{Tag: Bool, Bl: b} }

// NewByte constructs a BYTE value.
func NewByte(b byte) Value { return Value{Tag: Byte, By: b} }

// NewNumber constructs a NUMBER value.
func NewNumber(n int32) Value { return Value{Tag: Number, Num: n} }

// NewBigNum constructs a BIGNUM value.
func NewBigNum(n int64) Value { return Value{Tag: BigNum, Big: n} }

// NewDecimal constructs a DECIMAL value.
func NewDecimal(d float64) Value { return Value{Tag: Decimal, Dec: d} }

// NewString constructs a STRING value holding s as given, without copying
// it (Go strings are immutable, so sharing is safe); Clone is the
// operation that makes an independent copy of the payload, per spec.md's
// "deep-copies STRING payloads".
func NewString(s string) Value { return Value{Tag: String, Str: s} }

// NewFromText applies the textual coercion rule of spec.md §3.1: a
// case-insensitive "null" literal becomes NIL; "true"/"false" become BOOL;
// an all-digit token fitting signed 32-bit becomes NUMBER; a wider integer
// literal becomes BIGNUM; a token parseable as a float becomes DECIMAL;
// anything else is STRING.
func NewFromText(text string) Value {
	if strings.EqualFold(text, "null") {
		return NewNil()
	}
	if strings.EqualFold(text, "true") {
		return NewBool(true)
	}
	if strings.EqualFold(text, "false") {
		return NewBool(false)
	}
	if n, err := strconv.ParseInt(text, 10, 32); err == nil {
		return NewNumber(int32(n))
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewBigNum(n)
	}
	if d, err := strconv.ParseFloat(text, 64); err == nil {
		return NewDecimal(d)
	}
	return NewString(text)
}

// Clone deep-copies the Value. For STRING this yields an independent copy
// of the byte payload, as required by spec.md §4.1; for every other tag it
// is equivalent to a plain copy since they carry no aggregate payload.
func (v Value) Clone() Value {
	if v.Tag == String {
		return NewString(strings.Clone(v.Str))
	}
	return v
}

// IsNumeric reports whether the value's tag is one of the four numeric
// tags (Byte, Number, BigNum, Decimal).
func (v Value) IsNumeric() bool {
	switch v.Tag {
	case Byte, Number, BigNum, Decimal:
		return true
	default:
		return false
	}
}

// IsNil reports whether the value is NIL.
func (v Value) IsNil() bool { return v.Tag == Nil }

// Widest returns the wider of two numeric tags per the promotion lattice
// BYTE < NUMBER < BIGNUM < DECIMAL. Both arguments must be numeric.
func Widest(a, b Tag) Tag {
	if a > b {
		return a
	}
	return b
}

// AsFloat64 returns the value's numeric payload widened to float64. It
// panics if the value is not numeric; callers must validate operand types
// before calling (the vm package's operand-validity checks do this).
func (v Value) AsFloat64() float64 {
	switch v.Tag {
	case Byte:
		return float64(v.By)
	case Number:
		return float64(v.Num)
	case BigNum:
		return float64(v.Big)
	case Decimal:
		return v.Dec
	default:
		panic("value: AsFloat64 on non-numeric value")
	}
}

// AsInt64 returns the value's numeric payload widened to int64, truncating
// DECIMAL toward zero as required when re-basing modulo/bitwise operators
// per spec.md §4.6. It panics on non-numeric values.
func (v Value) AsInt64() int64 {
	switch v.Tag {
	case Byte:
		return int64(v.By)
	case Number:
		return int64(v.Num)
	case BigNum:
		return v.Big
	case Decimal:
		return int64(v.Dec)
	default:
		panic("value: AsInt64 on non-numeric value")
	}
}

// WithInt64 rewraps an int64 result into the given numeric tag, narrowing
// as needed. Used by the operation kernel after computing an integer
// result at the widest precision needed for the pair.
func WithInt64(tag Tag, n int64) Value {
	switch tag {
	case Byte:
		return NewByte(byte(n))
	case Number:
		return NewNumber(int32(n))
	case BigNum:
		return NewBigNum(n)
	case Decimal:
		return NewDecimal(float64(n))
	default:
		panic("value: WithInt64 on non-numeric tag")
	}
}

// WithFloat64 rewraps a float64 result into the given numeric tag. Integer
// tags are truncated toward zero, matching the original C implementation's
// assignment-based narrowing.
func WithFloat64(tag Tag, f float64) Value {
	switch tag {
	case Byte:
		return NewByte(byte(int64(f)))
	case Number:
		return NewNumber(int32(int64(f)))
	case BigNum:
		return NewBigNum(int64(f))
	case Decimal:
		return NewDecimal(f)
	default:
		panic("value: WithFloat64 on non-numeric tag")
	}
}

// String renders the value for display, per spec.md §4.1: NIL -> "null",
// BOOL -> "true"/"false", BYTE unsigned, NUMBER/BIGNUM signed, DECIMAL with
// %f semantics, STRING verbatim.
func (v Value) String() string {
	switch v.Tag {
	case Nil:
		return "null"
	case Bool:
		if v.Bl {
			return "true"
		}
		return "false"
	case Byte:
		return strconv.FormatUint(uint64(v.By), 10)
	case Number:
		return strconv.FormatInt(int64(v.Num), 10)
	case BigNum:
		return strconv.FormatInt(v.Big, 10)
	case Decimal:
		return fmt.Sprintf("%f", v.Dec)
	case String:
		return v.Str
	default:
		return "unknown"
	}
}

// ErrInvalidTag is returned by callers that encounter a Value with an
// out-of-range Tag, which should only happen from a corrupted Handle.
var ErrInvalidTag = errors.New("value: invalid tag")
