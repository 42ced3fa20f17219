// Package currency provides ISO 4217 code validation and conversion of
// amounts into a base currency using a static rate table.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned when no rate is configured for a code.
var ErrUnknownCurrency = errors.New("unknown currency")

// ValidCode reports whether code is a well-formed ISO 4217 currency code.
func ValidCode(code string) bool {
	_, err := xcurrency.ParseISO(code)
	return err == nil
}

// Converter converts amounts in cents into a base currency.
// Rates express how many units of the base one unit of the keyed
// currency is worth.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

func NewConverter(base string, rates map[string]decimal.Decimal) (*Converter, error) {
	if !ValidCode(base) {
		return nil, fmt.Errorf("invalid base currency %q", base)
	}

	table := make(map[string]decimal.Decimal, len(rates)+1)
	table[base] = decimal.NewFromInt(1)

	for code, rate := range rates {
		if !ValidCode(code) {
			return nil, fmt.Errorf("invalid currency %q in rate table", code)
		}

		if rate.Sign() <= 0 {
			return nil, fmt.Errorf("non-positive rate for %q", code)
		}

		table[code] = rate
	}

	return &Converter{base: base, rates: table}, nil
}

func (c *Converter) Base() string {
	return c.base
}

// Convert converts an amount in cents of the given currency into cents of
// the base currency, rounding half away from zero.
func (c *Converter) Convert(amount int64, from string) (int64, error) {
	rate, ok := c.rates[from]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}

	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart(), nil
}

// DefaultRates is a EUR-based rate table used when no rates are configured.
var DefaultRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromFloat(0.93),
	"GBP": decimal.NewFromFloat(1.17),
	"CHF": decimal.NewFromFloat(1.04),
	"BRL": decimal.NewFromFloat(0.17),
}
