package backlight

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// Currency identifies the denomination of prices and cash amounts by its
// ISO 4217 code.
type Currency string

// Common currencies used throughout tests and examples.
const (
	USD Currency = money.USD
	EUR Currency = money.EUR
	JPY Currency = money.JPY
)

// ParseCurrency validates code against the ISO 4217 table and returns it as
// a Currency.
func ParseCurrency(code string) (Currency, error) {
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency code %q", code)
	}
	return Currency(code), nil
}

// MustCurrency is like ParseCurrency but panics on error. Intended for
// constants and tests.
func MustCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// String implements the fmt.Stringer interface.
func (c Currency) String() string { return string(c) }

// Fraction returns the number of decimal digits conventionally used for the
// currency, e.g. 2 for USD and 0 for JPY.
func (c Currency) Fraction() int {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return 2
	}
	return cur.Fraction
}
