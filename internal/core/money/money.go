// Package money holds the fixed-precision amount type shared by expenses,
// project budgets and product prices.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Amount is a decimal value stored as NUMERIC and rendered in JSON as a
// number with exactly Scale fractional digits (120.50, not "120.5").
type Amount struct {
	decimal.Decimal
}

func Zero() Amount {
	return Amount{decimal.Zero}
}

func FromFloat(f float64) Amount {
	return Amount{decimal.NewFromFloat(f).Round(Scale)}
}

func FromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d.Round(Scale)}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Max returns the largest amount a NUMERIC(precision, Scale) column holds.
func Max(precision int) Amount {
	return Amount{decimal.New(1, int32(precision-Scale)).Sub(decimal.New(1, -Scale))}
}

// Normalize rounds the amount to Scale digits.
func (a Amount) Normalize() Amount {
	return Amount{a.Round(Scale)}
}

func (a Amount) String() string {
	return a.StringFixed(Scale)
}

func (a Amount) Equal(other Amount) bool {
	return a.Decimal.Equal(other.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(Scale)), nil
}
