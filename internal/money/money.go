package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places amounts are rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// ErrInvalidAmount is returned when an amount cannot be parsed.
var ErrInvalidAmount = errors.New("money: invalid amount")

// Money is an immutable amount expressed in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New constructs Money from a decimal amount.
func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: normalizeCurrency(currency)}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return New(decimal.Zero, currency)
}

// FromInt constructs Money from a whole number of major units.
func FromInt(value int64, currency string) Money {
	return New(decimal.NewFromInt(value), currency)
}

// Parse reads a decimal string such as "12.50".
func Parse(value, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return New(d, currency), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(value, currency string) Money {
	m, err := Parse(value, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO currency code.
func (m Money) Currency() string { return m.currency }

// WithCurrency returns the same amount tagged with another currency.
func (m Money) WithCurrency(currency string) Money {
	return New(m.amount, currency)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return New(m.amount.Add(o.amount), pickCurrency(m, o))
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return New(m.amount.Sub(o.amount), pickCurrency(m, o))
}

// Mul multiplies the amount by a quantity.
func (m Money) Mul(qty int) Money {
	return New(m.amount.Mul(decimal.NewFromInt(int64(qty))), m.currency)
}

// Percent returns rate percent of m rounded to Places.
func (m Money) Percent(rate decimal.Decimal) Money {
	return New(m.amount.Mul(rate).Div(hundred).Round(Places), m.currency)
}

// Min returns the smaller of m and o.
func (m Money) Min(o Money) Money {
	if o.amount.LessThan(m.amount) {
		return New(o.amount, pickCurrency(m, o))
	}
	return New(m.amount, pickCurrency(m, o))
}

// NonNegative clamps negative amounts to zero.
func (m Money) NonNegative() Money {
	if m.amount.IsNegative() {
		return Zero(m.currency)
	}
	return m
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Cmp compares amounts, ignoring currency.
func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

// Equal reports whether both amounts are numerically equal.
func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

// StringFixed renders the amount with Places decimals and no currency.
func (m Money) StringFixed() string {
	return m.amount.StringFixed(Places)
}

// String renders the amount prefixed with its currency, e.g. "USD 10.00".
func (m Money) String() string {
	if m.currency == "" {
		return m.StringFixed()
	}
	return m.currency + " " + m.StringFixed()
}

type wire struct {
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	AmountWithCurrency string `json:"amount_with_currency,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{
		Amount:             m.StringFixed(),
		Currency:           m.currency,
		AmountWithCurrency: m.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	amount := strings.TrimSpace(w.Amount)
	if amount == "" {
		amount = "0"
	}
	parsed, err := Parse(amount, w.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func pickCurrency(a, b Money) string {
	if a.currency != "" {
		return a.currency
	}
	return b.currency
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
