// models/money.go
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact monetary amount with two fractional digits. It is stored
// as BSON Decimal128 and serialized to JSON as a plain number literal, so no
// binary floating point ever enters balance arithmetic.
type Money struct {
	dec decimal.Decimal
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{dec: decimal.Zero}
}

// NewMoney builds a Money from a decimal, rounded to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d.Round(2)}
}

// MoneyFromString parses strings like "1234.56".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d), nil
}

// MoneyFromInt builds a whole-unit amount, mostly used in tests.
func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

func (m Money) Sub(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

func (m Money) GreaterThan(other Money) bool {
	return m.dec.GreaterThan(other.dec)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.dec.GreaterThanOrEqual(other.dec)
}

func (m Money) LessThan(other Money) bool {
	return m.dec.LessThan(other.dec)
}

func (m Money) IsPositive() bool {
	return m.dec.IsPositive()
}

func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.dec.StringFixed(2)
}

// Display renders the amount with the currency sign used in user-facing
// messages, e.g. "₹1500.00".
func (m Money) Display() string {
	return "₹" + m.String()
}

// MarshalJSON emits the amount as a JSON number literal ("600.50").
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec.StringFixed(2)), nil
}

// UnmarshalJSON accepts both number literals and quoted strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		m.dec = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	m.dec = d.Round(2)
	return nil
}

// MarshalBSONValue stores the amount as Decimal128.
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.dec.StringFixed(2))
	if err != nil {
		return 0, nil, fmt.Errorf("amount out of range: %w", err)
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue reads Decimal128 and, for tolerance with hand-seeded
// data, plain numeric BSON types.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if d128, ok := rv.Decimal128OK(); ok {
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("invalid stored amount %q: %w", d128.String(), err)
		}
		m.dec = d.Round(2)
		return nil
	}
	if f, ok := rv.DoubleOK(); ok {
		m.dec = decimal.NewFromFloat(f).Round(2)
		return nil
	}
	if n, ok := rv.AsInt64OK(); ok {
		m.dec = decimal.NewFromInt(n)
		return nil
	}
	return fmt.Errorf("cannot decode BSON type %s into Money", t)
}
