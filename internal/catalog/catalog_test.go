package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/money"
)

func TestProductPricing(t *testing.T) {
	sale := money.FromInt(80, "USD")
	p := Product{UnitRegularPrice: money.FromInt(100, "USD"), UnitSalePrice: &sale}

	require.True(t, p.OnSale())
	require.Equal(t, "80.00", p.UnitPrice().StringFixed())
	require.Equal(t, "20.00", p.UnitSaleDiscount().StringFixed())

	p.IsFree = true
	require.False(t, p.OnSale())
	require.True(t, p.UnitPrice().IsZero())
	require.True(t, p.RegularPrice().IsZero())
	require.True(t, p.UnitSaleDiscount().IsZero())
}

func TestSalePriceAboveRegularIsIgnored(t *testing.T) {
	sale := money.FromInt(120, "USD")
	p := Product{UnitRegularPrice: money.FromInt(100, "USD"), UnitSalePrice: &sale}
	require.False(t, p.OnSale())
	require.Equal(t, "100.00", p.UnitPrice().StringFixed())
}

func TestStoreDestinationAndLocation(t *testing.T) {
	s := Store{
		TimeZone: "Asia/Jakarta",
		DeliveryDestinations: []DeliveryDestination{
			{Name: "Gaborone", Cost: money.FromInt(25, "BWP")},
		},
	}
	d, ok := s.Destination("Gaborone")
	require.True(t, ok)
	require.Equal(t, "25.00", d.Cost.StringFixed())

	_, ok = s.Destination("gaborone")
	require.False(t, ok, "matching is exact")
	_, ok = s.Destination("")
	require.False(t, ok)

	require.NotEqual(t, time.UTC, s.Location())
	require.Equal(t, time.UTC, Store{TimeZone: "Nowhere/Land"}.Location())
}

func TestDecodeDestinations(t *testing.T) {
	out, err := decodeDestinations([]byte(`[{"name":"CBD","cost":"15.5","allow_free_delivery":true},{"name":"Far","cost":-3}]`), "USD")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "15.50", out[0].Cost.StringFixed())
	require.True(t, out[0].AllowFreeDelivery)
	require.True(t, out[1].Cost.IsZero())
	require.Equal(t, "USD", out[1].Cost.Currency())

	_, err = decodeDestinations([]byte(`{`), "USD")
	require.Error(t, err)
}
