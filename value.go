package cellcalc

import (
	"math"
	"strconv"
)

// Kind is the kind of a Value.
type Kind int8

const (
	// KindInvalid is the kind of the Invalid value. It is the zero Kind.
	KindInvalid Kind = iota
	// KindNumber is the kind of numeric values.
	KindNumber
	// KindText is the kind of literal strings.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Placeholder is the display form of Invalid.
const Placeholder = "####"

// Value is the result of evaluating a cell. It is exactly one of a number, a
// text string, or Invalid. The zero Value is Invalid. Values are immutable and
// comparable with Equal.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Invalid is the value of every malformed formula, type mismatch, or division
// by zero.
var Invalid Value

// Number returns a numeric value. Infinities and NaN are not numbers that a
// cell can hold, so they produce Invalid.
func Number(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Invalid
	}
	return Value{kind: KindNumber, num: f}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v is anything other than Invalid.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// Num returns the numeric value of v and whether v is a number.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the text of v and whether v is text.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Equal reports whether v and w are the same kind with the same payload.
// Numbers compare with ==, so -0 equals 0.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == w.num
	case KindText:
		return v.text == w.text
	default:
		return true
	}
}

// String returns the display form of v: the shortest decimal form of a
// number, text verbatim, or Placeholder for Invalid.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return Placeholder
	}
}

// GoString formats v for %#v.
func (v Value) GoString() string {
	switch v.kind {
	case KindNumber:
		return "cellcalc.Number(" + strconv.FormatFloat(v.num, 'g', -1, 64) + ")"
	case KindText:
		return "cellcalc.Text(" + strconv.Quote(v.text) + ")"
	default:
		return "cellcalc.Invalid"
	}
}

// Arithmetic is defined only for two numbers. Everything else, including any
// Invalid operand, is Invalid.

func add(x, y Value) Value {
	if x.kind != KindNumber || y.kind != KindNumber {
		return Invalid
	}
	return Number(x.num + y.num)
}

func sub(x, y Value) Value {
	if x.kind != KindNumber || y.kind != KindNumber {
		return Invalid
	}
	return Number(x.num - y.num)
}

func mul(x, y Value) Value {
	if x.kind != KindNumber || y.kind != KindNumber {
		return Invalid
	}
	return Number(x.num * y.num)
}

func div(x, y Value) Value {
	if x.kind != KindNumber || y.kind != KindNumber || y.num == 0 {
		return Invalid
	}
	return Number(x.num / y.num)
}

func neg(x Value) Value {
	if x.kind != KindNumber {
		return Invalid
	}
	return Number(-x.num)
}
