package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/money"
)

func TestArithmetic(t *testing.T) {
	price := money.MustParse("12.50", "usd")
	require.Equal(t, "USD", price.Currency())

	total := price.Mul(3)
	require.Equal(t, "37.50", total.StringFixed())
	require.Equal(t, "12.50", price.StringFixed(), "receiver must not change")

	require.Equal(t, "47.50", total.Add(money.FromInt(10, "USD")).StringFixed())
	require.Equal(t, "27.50", total.Sub(money.FromInt(10, "USD")).StringFixed())
	require.Equal(t, "USD 37.50", total.String())
}

func TestPercentRounds(t *testing.T) {
	base := money.MustParse("99.99", "USD")
	got := base.Percent(decimal.NewFromInt(15))
	require.Equal(t, "15.00", got.StringFixed())

	got = money.FromInt(300, "USD").Percent(decimal.NewFromInt(10))
	require.Equal(t, "30.00", got.StringFixed())
}

func TestMinAndNonNegative(t *testing.T) {
	a := money.FromInt(5, "USD")
	b := money.FromInt(7, "USD")
	require.True(t, a.Min(b).Equal(a))
	require.True(t, b.Min(a).Equal(a))

	negative := a.Sub(b)
	require.True(t, negative.IsNegative())
	require.True(t, negative.NonNegative().IsZero())
	require.Equal(t, "USD", negative.NonNegative().Currency())
}

func TestZeroValueAdoptsCurrency(t *testing.T) {
	var acc money.Money
	acc = acc.Add(money.FromInt(3, "IDR"))
	require.Equal(t, "IDR", acc.Currency())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := money.Parse("ten", "USD")
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestJSONRoundTrip(t *testing.T) {
	in := money.MustParse("10", "USD")
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"10.00","currency":"USD","amount_with_currency":"USD 10.00"}`, string(data))

	var out money.Money
	require.NoError(t, json.Unmarshal(data, &out))
	require.True(t, in.Equal(out))
	require.Equal(t, "USD", out.Currency())
}
