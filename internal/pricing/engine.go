package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/money"
)

// Line carries the totals of one uncancelled product line.
type Line struct {
	SubTotal          money.Money
	SaleDiscountTotal money.Money
	GrandTotal        money.Money
}

// Coupon describes the benefit of one uncancelled coupon.
type Coupon struct {
	OfferDiscount     bool
	DiscountType      catalog.DiscountType
	PercentageRate    decimal.Decimal
	FixedAmount       money.Money
	OfferFreeDelivery bool
}

// Input is everything the calculator needs. Cancelled lines and coupons must
// already be filtered out by the caller.
type Input struct {
	Currency        string
	Lines           []Line
	Coupons         []Coupon
	Store           catalog.Store
	DestinationName string
}

// Summary aggregates computed pricing components.
type Summary struct {
	SubTotal                   money.Money
	SaleDiscountTotal          money.Money
	CouponDiscountTotal        money.Money
	CouponAndSaleDiscountTotal money.Money
	DeliveryFee                money.Money
	AllowFreeDelivery          bool
	Destination                *catalog.DeliveryDestination
	GrandTotal                 money.Money
}

// Compute calculates cart totals. Coupon discounts are taken from the
// pre-coupon grand total and capped by it; delivery is added last.
func Compute(in Input) Summary {
	zero := money.Zero(in.Currency)
	subTotal, saleDiscount, grandTotal := zero, zero, zero
	for _, l := range in.Lines {
		subTotal = subTotal.Add(l.SubTotal)
		saleDiscount = saleDiscount.Add(l.SaleDiscountTotal)
		grandTotal = grandTotal.Add(l.GrandTotal)
	}
	grandTotal = grandTotal.NonNegative()

	discount := zero
	for _, c := range in.Coupons {
		discount = discount.Add(CouponDiscount(c, grandTotal))
	}
	discount = discount.Min(grandTotal).NonNegative()
	grandTotal = grandTotal.Sub(discount).NonNegative()

	sum := Summary{
		SubTotal:                   subTotal.NonNegative(),
		SaleDiscountTotal:          saleDiscount.NonNegative(),
		CouponDiscountTotal:        discount,
		CouponAndSaleDiscountTotal: saleDiscount.Add(discount).NonNegative(),
		DeliveryFee:                zero,
	}

	if d, ok := in.Store.Destination(in.DestinationName); ok {
		sum.Destination = &d
	}
	sum.AllowFreeDelivery = freeDelivery(in.Coupons, sum.Destination, in.Store)
	if !sum.AllowFreeDelivery && len(in.Lines) > 0 {
		sum.DeliveryFee = deliveryFee(sum.Destination, in.Store, zero)
		grandTotal = grandTotal.Add(sum.DeliveryFee)
	}
	sum.GrandTotal = grandTotal.NonNegative()
	return sum
}

// CouponDiscount is the amount a single coupon takes off base. Percentage
// coupons are rounded to cents; fixed coupons contribute their amount.
func CouponDiscount(c Coupon, base money.Money) money.Money {
	zero := money.Zero(base.Currency())
	if !c.OfferDiscount {
		return zero
	}
	switch c.DiscountType {
	case catalog.DiscountPercentage:
		if !c.PercentageRate.IsPositive() {
			return zero
		}
		return base.Percent(c.PercentageRate).NonNegative()
	case catalog.DiscountFixed:
		return c.FixedAmount.WithCurrency(base.Currency()).NonNegative()
	default:
		return zero
	}
}

func freeDelivery(coupons []Coupon, dest *catalog.DeliveryDestination, store catalog.Store) bool {
	for _, c := range coupons {
		if c.OfferFreeDelivery {
			return true
		}
	}
	if dest != nil {
		return dest.AllowFreeDelivery
	}
	return store.AllowFreeDelivery
}

func deliveryFee(dest *catalog.DeliveryDestination, store catalog.Store, zero money.Money) money.Money {
	switch {
	case dest != nil:
		return dest.Cost.WithCurrency(zero.Currency()).NonNegative()
	case store.DeliveryFlatFee != nil:
		return store.DeliveryFlatFee.WithCurrency(zero.Currency()).NonNegative()
	default:
		return zero
	}
}
