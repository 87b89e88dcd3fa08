package main

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ValueKind tags the variant carried by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindBlob
	KindText
)

// Value is the tagged variant described in §3: Null, a signed integer
// (widths 8/16/24/32/48/64 all collapse to int64 once decoded), a 64-bit
// float, a blob, or UTF-8 text. Exactly one of i/f/raw is meaningful,
// selected by kind.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	raw  []byte // blob bytes, or already lossy-decoded text bytes
}

func NullValue() Value                { return Value{kind: KindNull} }
func IntegerValue(i int64) Value      { return Value{kind: KindInteger, i: i} }
func FloatValue(f float64) Value      { return Value{kind: KindFloat, f: f} }
func BlobValue(b []byte) Value        { return Value{kind: KindBlob, raw: b} }
func TextValue(s string) Value        { return Value{kind: KindText, raw: []byte(s)} }
func textValueFromBytes(b []byte) Value { return Value{kind: KindText, raw: []byte(decodeUTF8Lossy(b))} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) isNumeric() bool { return v.kind == KindInteger || v.kind == KindFloat }

// Int64 returns the integer value, coercing floats by truncation. Only
// meaningful when Kind() is KindInteger or KindFloat.
func (v Value) Int64() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float64 coerces any numeric value to float64; used for §3's "if both
// sides are numeric, compare as f64" rule.
func (v Value) Float64() float64 {
	if v.kind == KindFloat {
		return v.f
	}
	return float64(v.i)
}

// Text returns the decoded text, or the blob bytes as raw text.
func (v Value) Text() string { return string(v.raw) }

// Blob returns the raw bytes of a blob (or text) value.
func (v Value) Blob() []byte { return v.raw }

// Display renders a value per §6's CLI formatting rules: Null -> "NULL",
// numerics -> natural decimal form, text verbatim, blobs UTF-8-lossy.
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return formatFloat(v.f)
	case KindText:
		return string(v.raw)
	case KindBlob:
		return decodeUTF8Lossy(v.raw)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return fmt.Sprintf("%.1f", f)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", f), "0"), ".")
}

// Equal implements §3's equality rule: numeric-vs-numeric compares as f64;
// Null equals Null; Text equals Text byte-exact; every other combination of
// kinds is unequal.
func (v Value) Equal(o Value) bool {
	switch {
	case v.isNumeric() && o.isNumeric():
		return v.Float64() == o.Float64()
	case v.kind == KindNull && o.kind == KindNull:
		return true
	case v.kind == KindText && o.kind == KindText:
		return string(v.raw) == string(o.raw)
	default:
		return false
	}
}

// Compare implements §3's ordering rule. ok is false when the two values
// are "incomparable (unequal, unordered)": any pairing other than
// numeric/numeric or text/text.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	switch {
	case v.isNumeric() && o.isNumeric():
		a, b := v.Float64(), o.Float64()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case v.kind == KindText && o.kind == KindText:
		return strings.Compare(string(v.raw), string(o.raw)), true
	default:
		return 0, false
	}
}

// decodeUTF8Lossy mirrors Rust's String::from_utf8_lossy: invalid byte
// sequences become U+FFFD rather than erroring, so a malformed text/blob
// column never aborts a query (§6: "blobs as UTF-8-lossy").
func decodeUTF8Lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
