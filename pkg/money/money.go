// Package money provides currency-safe financial arithmetic and the numeric
// normalization used by the invoice extractors: locale-decorated amount
// strings (currency symbols, comma decimals) are converted into exact
// decimal values, and invoice totals are rounded half-up to two places.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	GBP = "GBP" // British Pound
	EUR = "EUR" // Euro
	USD = "USD" // US Dollar
)

var currencySymbols = regexp.MustCompile(`[£€$\s]`)

// ParseAmount converts a printed amount such as "£2.50", "1,234.56" or
// "19,00" into an exact decimal. Currency symbols and whitespace are
// stripped; a lone comma is treated as a decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := currencySymbols.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			// Both separators present: the comma is a thousands separator.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// Comma-decimal locale.
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ParseQuantity converts a printed quantity into an integer, accepting
// decorated forms like "3", "3.0" or " 3 ". Fractional quantities truncate.
func ParseQuantity(s string) (int, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

// RoundHalfUp rounds to the given number of decimal places with ties going
// away from zero. For the non-negative totals this engine produces that is
// exactly round-half-up, which is the user-visible rounding rule for the
// combined invoice total.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and display formatting.
type Money struct {
	m *money.Money
}

// New creates a new Money value from cents (minor units) and currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal value in major units.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(GBP)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()

	return New(cents, currencyCode)
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units (cents)
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsZero returns true if the amount is zero
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// Add adds two Money values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Display returns a formatted string for display (e.g., "£1,234.56")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "£0.00"
	}
	return m.m.Display()
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// VAT calculates the tax portion of a net amount for a percentage rate,
// e.g. VAT(100.00, 20) = 20.00.
func VAT(net decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return net.Mul(rate).Div(decimal.NewFromInt(100))
}
