package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	PEN Currency = "PEN" // Peruvian Sol (default)
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = PEN

// Currencies lists every supported currency in display order.
func Currencies() []Currency {
	return []Currency{PEN, USD}
}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == PEN || c == USD
}

// String returns the ISO code.
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency parses a case-insensitive ISO code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", shared.InvalidInputError(fmt.Sprintf("unsupported currency %q", s))
	}
	return c, nil
}

// Money is a value object representing monetary amounts.
// It is immutable; all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, shared.InvalidInputError(fmt.Sprintf("unsupported currency %q", currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromInt creates Money from an int64 value
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// MustMoney builds Money from a decimal string and panics on bad input.
// Intended for constants and tests.
func MustMoney(amount string, currency Currency) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// PENAmount creates Money in soles.
func PENAmount(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: PEN}
}

// USDAmount creates Money in dollars.
func USDAmount(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// SameCurrency reports whether both values share a currency.
func (m Money) SameCurrency(other Money) bool {
	return m.currency == other.currency
}

func (m Money) mismatch(other Money) error {
	return shared.CurrencyMismatchError(string(m.currency), string(other.currency))
}

// Add returns a new Money with the sum of both amounts.
// Returns a CURRENCY_MISMATCH error if currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, m.mismatch(other)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns a new Money with the difference.
// Returns a CURRENCY_MISMATCH error if currencies differ.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, m.mismatch(other)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Compare returns -1, 0 or 1. Currencies must match.
func (m Money) Compare(other Money) (int, error) {
	if !m.SameCurrency(other) {
		return 0, m.mismatch(other)
	}
	return m.amount.Cmp(other.amount), nil
}

// GreaterThanOrEqual returns true if this Money is greater than or equal to the other
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// ClampZero returns m, or zero in the same currency if m is negative.
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return Zero(m.currency)
	}
	return m
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Round returns a new Money rounded to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed returns the amount as a string with fixed decimal places
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(2), Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler. The currency must be supported.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := NewMoney(amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Percentage returns part/total*100 rounded to two places, or zero when
// total is zero. Currencies must match.
func Percentage(part, total Money) (decimal.Decimal, error) {
	if !part.SameCurrency(total) {
		return decimal.Zero, part.mismatch(total)
	}
	if total.amount.IsZero() {
		return decimal.Zero, nil
	}
	return part.amount.Div(total.amount).Mul(decimal.NewFromInt(100)).Round(2), nil
}
