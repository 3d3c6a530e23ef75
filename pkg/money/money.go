// Package money formats statement amounts as currency values. Amounts are
// held in integer minor units through go-money so totals never drift.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency codes seen on statements (ISO-4217)
const (
	MNT = "MNT" // Mongolian Tugrik, the default for statements
	USD = "USD"
	EUR = "EUR"
	CNY = "CNY"
	JPY = "JPY" // no minor units
)

// DefaultCurrency is used when a code is empty or unknown.
const DefaultCurrency = MNT

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

func currencyOf(code string) *money.Currency {
	if c := money.GetCurrency(code); c != nil {
		return c
	}
	return money.GetCurrency(DefaultCurrency)
}

// Known reports whether code is a recognized ISO-4217 currency.
func Known(code string) bool {
	return code != "" && money.GetCurrency(code) != nil
}

// New creates a Money value from minor units.
func New(minor int64, currencyCode string) *Money {
	return &Money{m: money.New(minor, currencyOf(currencyCode).Code)}
}

// NewFromDecimal converts a decimal amount, rounding half away from zero to
// the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	c := currencyOf(currencyCode)
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return New(minor, c.Code)
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units
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
		return nil, fmt.Errorf("add %s to %s: %w", other.Currency(), m.Currency(), err)
	}
	return &Money{m: result}, nil
}

// Display returns a formatted string for display (e.g., "₮1,234.50")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return Zero(DefaultCurrency).Display()
	}
	return m.m.Display()
}

// String returns the amount as a fixed-point decimal string (e.g., "1234.50")
func (m *Money) String() string {
	c := currencyOf(m.Currency())
	return m.ToDecimal().StringFixed(int32(c.Fraction))
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// MarshalJSON renders {"amount":"1234.50","currency":"MNT","display":"₮1,234.50"}.
func (m *Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{m.String(), m.Currency(), m.Display()})
}

// Sum adds amounts in one currency.
func Sum(currencyCode string, amounts ...decimal.Decimal) *Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return NewFromDecimal(total, currencyCode)
}
