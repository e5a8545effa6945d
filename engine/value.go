// Package engine evaluates compiled templates row by row and reduces
// evaluated rows into footer totals.
//
// Every numeric value is a shopspring decimal; float64 never flows
// through evaluation. A blank or broken cell is the Null value, and
// Null propagates through arithmetic instead of raising an error, so a
// single malformed row can never abort a document recompute.
package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roelvdberg/rekenblad/format"
	"github.com/roelvdberg/rekenblad/schema"
)

// Kind discriminates the engine's value types.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindDate
	KindText
)

// Value is one cell's evaluated value.
type Value struct {
	kind Kind
	num  decimal.Decimal
	b    bool
	date time.Time
	text string
}

// Null returns the blank value.
func Null() Value {
	return Value{kind: KindNull}
}

// Number wraps a decimal as a Value.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// Bool wraps a boolean as a Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Date wraps a calendar date as a Value.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Text wraps a string as a Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is blank.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric value, if the kind is KindNumber.
func (v Value) Number() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// NumberOrZero returns the numeric value, with Null counting as zero.
// Footer aggregation uses this; row arithmetic does not.
func (v Value) NumberOrZero() decimal.Decimal {
	if v.kind == KindNumber {
		return v.num
	}
	return decimal.Zero
}

// Bool returns the boolean value, if the kind is KindBool.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Date returns the date value, if the kind is KindDate.
func (v Value) Date() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Text returns the string value, if the kind is KindText.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Truthy reports whether the value counts as true in a condition:
// true booleans and non-zero numbers. Null is always falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return !v.num.IsZero()
	}
	return false
}

// dateLayouts are the accepted raw date inputs. The first is what the
// HTML date input produces; the second is the Dutch display order.
var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// CoerceRaw converts a raw row value (string, float64 or nil as JSON
// delivers them) into a Value per the column's declared type.
//
// An explicit null stays Null and propagates downstream. Invalid or
// empty numeric input coerces to zero; an unparseable date stays Null.
func CoerceRaw(t schema.ColumnType, raw interface{}) Value {
	if raw == nil {
		return Null()
	}

	switch t {
	case schema.TypeNumber, schema.TypeCurrency:
		return Number(coerceNumber(raw))

	case schema.TypeTimeDecimal:
		if s, ok := raw.(string); ok && strings.Contains(s, ":") {
			if d, ok := format.ClockToDecimalHours(s); ok {
				return Number(d)
			}
			return Number(decimal.Zero)
		}
		return Number(coerceNumber(raw))

	case schema.TypeDate:
		s, ok := raw.(string)
		if !ok {
			return Null()
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return Date(t)
			}
		}
		return Null()

	case schema.TypeText:
		if s, ok := raw.(string); ok {
			return Text(s)
		}
		return Number(coerceNumber(raw))
	}

	return Null()
}

// coerceNumber parses a raw value as a decimal, with invalid or empty
// input collapsing to zero. String input accepts both '.' and ',' as
// the decimal separator; raw cell values come from a Dutch-locale UI.
func coerceNumber(raw interface{}) decimal.Decimal {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero
		}
		s = strings.ReplaceAll(s, ",", ".")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}
