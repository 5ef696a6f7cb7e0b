package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/money"
)

func usd(v int64) money.Money { return money.FromInt(v, "USD") }

func line(regular, sale int64, qty int) Line {
	return Line{
		SubTotal:          usd(regular).Mul(qty),
		SaleDiscountTotal: usd(regular - sale).Mul(qty),
		GrandTotal:        usd(sale).Mul(qty),
	}
}

func percent(rate int64) Coupon {
	return Coupon{OfferDiscount: true, DiscountType: catalog.DiscountPercentage, PercentageRate: decimal.NewFromInt(rate)}
}

func fixed(amount int64) Coupon {
	return Coupon{OfferDiscount: true, DiscountType: catalog.DiscountFixed, FixedAmount: usd(amount)}
}

func TestComputeWithoutCoupons(t *testing.T) {
	sum := Compute(Input{Currency: "USD", Lines: []Line{line(100, 100, 3)}})
	require.Equal(t, "300.00", sum.SubTotal.StringFixed())
	require.Equal(t, "300.00", sum.GrandTotal.StringFixed())
	require.True(t, sum.DeliveryFee.IsZero())
	require.True(t, sum.CouponDiscountTotal.IsZero())
}

func TestComputePercentageCoupon(t *testing.T) {
	sum := Compute(Input{Currency: "USD", Lines: []Line{line(100, 100, 3)}, Coupons: []Coupon{percent(10)}})
	require.Equal(t, "30.00", sum.CouponDiscountTotal.StringFixed())
	require.Equal(t, "270.00", sum.GrandTotal.StringFixed())
	require.Equal(t, "30.00", sum.CouponAndSaleDiscountTotal.StringFixed())
}

func TestCouponsAreSummedNotCompounded(t *testing.T) {
	sum := Compute(Input{Currency: "USD", Lines: []Line{line(100, 100, 1)}, Coupons: []Coupon{percent(10), percent(20), fixed(5)}})
	require.Equal(t, "35.00", sum.CouponDiscountTotal.StringFixed())
	require.Equal(t, "65.00", sum.GrandTotal.StringFixed())
}

func TestCouponDiscountIsCapped(t *testing.T) {
	sum := Compute(Input{
		Currency: "USD",
		Lines:    []Line{line(50, 40, 1)},
		Coupons:  []Coupon{fixed(30), percent(90)},
		Store:    catalog.Store{DeliveryFlatFee: ptr(usd(7))},
	})
	require.Equal(t, "40.00", sum.CouponDiscountTotal.StringFixed())
	require.Equal(t, "10.00", sum.SaleDiscountTotal.StringFixed())
	require.Equal(t, "50.00", sum.CouponAndSaleDiscountTotal.StringFixed())
	require.Equal(t, "7.00", sum.GrandTotal.StringFixed(), "delivery is never discounted")
}

func TestCouponWithoutDiscountContributesNothing(t *testing.T) {
	c := percent(50)
	c.OfferDiscount = false
	require.True(t, CouponDiscount(c, usd(100)).IsZero())
	require.True(t, CouponDiscount(Coupon{OfferDiscount: true, DiscountType: "bogus"}, usd(100)).IsZero())
}

func TestDelivery(t *testing.T) {
	store := catalog.Store{
		DeliveryFlatFee: ptr(usd(15)),
		DeliveryDestinations: []catalog.DeliveryDestination{
			{Name: "North", Cost: usd(20)},
			{Name: "Campus", Cost: usd(9), AllowFreeDelivery: true},
		},
	}
	lines := []Line{line(100, 100, 1)}

	cases := []struct {
		name        string
		store       catalog.Store
		destination string
		coupons     []Coupon
		free        bool
		fee         string
	}{
		{name: "matched destination cost", store: store, destination: "North", fee: "20.00"},
		{name: "destination allows free", store: store, destination: "Campus", free: true, fee: "0.00"},
		{name: "unknown destination falls back to flat fee", store: store, destination: "Mars", fee: "15.00"},
		{name: "no flat fee", store: catalog.Store{}, fee: "0.00"},
		{name: "store allows free when unmatched", store: catalog.Store{AllowFreeDelivery: true, DeliveryFlatFee: ptr(usd(15))}, free: true, fee: "0.00"},
		{name: "coupon free delivery wins", store: store, destination: "North", coupons: []Coupon{{OfferFreeDelivery: true}}, free: true, fee: "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := Compute(Input{Currency: "USD", Lines: lines, Coupons: tc.coupons, Store: tc.store, DestinationName: tc.destination})
			require.Equal(t, tc.free, sum.AllowFreeDelivery)
			require.Equal(t, tc.fee, sum.DeliveryFee.StringFixed())
			require.Equal(t, usd(100).Add(sum.DeliveryFee).StringFixed(), sum.GrandTotal.StringFixed())
		})
	}
}

func TestEmptyCartPaysNoDelivery(t *testing.T) {
	sum := Compute(Input{Currency: "USD", Store: catalog.Store{DeliveryFlatFee: ptr(usd(15))}})
	require.True(t, sum.DeliveryFee.IsZero())
	require.True(t, sum.GrandTotal.IsZero())
	require.Equal(t, "USD", sum.GrandTotal.Currency())
}

func ptr[T any](v T) *T { return &v }
