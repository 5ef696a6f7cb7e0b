package cart

import (
	"time"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/customer"
	"github.com/noah-isme/toko-cart/internal/money"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

// Inputs is everything a single reconciliation pass depends on.
type Inputs struct {
	Store     *catalog.Store
	Products  []catalog.Product
	Coupons   []catalog.Coupon
	UserID    string
	Request   Request
	Previous  *Snapshot
	Existence customer.Existence
	Now       time.Time
}

// Engine reconciles a cart without touching any cache or database.
type Engine struct {
	Now func() time.Time
}

func (e Engine) now(in Inputs) time.Time {
	if !in.Now.IsZero() {
		return in.Now
	}
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ReconcileRaw parses the submitted cart and reconciles it.
func (e Engine) ReconcileRaw(in Inputs, raw RawInput) (*Snapshot, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, err
	}
	in.Request = req
	return e.Reconcile(in)
}

// Reconcile builds a new snapshot from the live catalog and the previous
// snapshot. It is deterministic for identical inputs.
func (e Engine) Reconcile(in Inputs) (*Snapshot, error) {
	if in.Store == nil || in.Store.ID == "" {
		return nil, ErrCartRequiresStore
	}
	in.Now = e.now(in).UTC()
	det := detector{now: in.Now, prev: in.Previous}

	detected := []DetectedChange{}
	products := resolveProductLines(in.Products, in.Request)
	for i := range products {
		var pass []DetectedChange
		products[i], pass = det.productLine(products[i])
		detected = append(detected, pass...)
	}

	coupons := resolveCouponLines(in.Coupons, couponFacts(in, products), in.Previous)
	for i := range coupons {
		var pass []DetectedChange
		coupons[i], pass = det.couponLine(coupons[i])
		detected = append(detected, pass...)
	}

	currency := in.Store.Currency
	sum := pricing.Compute(pricingInput(*in.Store, in.Request.DestinationName, products, coupons))

	snap := &Snapshot{
		StoreID:                    in.Store.ID,
		UserID:                     in.UserID,
		Currency:                   currency,
		SubTotal:                   sum.SubTotal,
		SaleDiscountTotal:          sum.SaleDiscountTotal,
		CouponDiscountTotal:        sum.CouponDiscountTotal,
		CouponAndSaleDiscountTotal: sum.CouponAndSaleDiscountTotal,
		DeliveryFee:                sum.DeliveryFee,
		AllowFreeDelivery:          sum.AllowFreeDelivery,
		DeliveryDestination:        sum.Destination,
		GrandTotal:                 sum.GrandTotal,
		ProductLines:               products,
		CouponLines:                coupons,
		Counters:                   count(products, coupons),
		IsExistingCustomer:         in.Existence,
		DetectedChanges:            detected,
		CreatedAt:                  in.Now,
	}
	previousTotal := money.Zero(currency)
	if in.Previous != nil {
		previousTotal = in.Previous.CouponAndSaleDiscountTotal
	}
	snap.HasNewCouponAndSaleDiscount = snap.CouponAndSaleDiscountTotal.GreaterThan(previousTotal)
	return snap, nil
}

func pricingInput(store catalog.Store, destination string, products []ProductLine, coupons []CouponLine) pricing.Input {
	in := pricing.Input{Currency: store.Currency, Store: store, DestinationName: destination}
	for _, l := range products {
		if l.IsCancelled {
			continue
		}
		in.Lines = append(in.Lines, pricing.Line{
			SubTotal:          l.SubTotal,
			SaleDiscountTotal: l.SaleDiscountTotal,
			GrandTotal:        l.GrandTotal,
		})
	}
	for _, c := range coupons {
		if c.IsCancelled {
			continue
		}
		pc := pricing.Coupon{
			OfferDiscount:     c.OfferDiscount,
			DiscountType:      c.DiscountType,
			OfferFreeDelivery: c.OfferFreeDelivery,
		}
		if c.DiscountType == catalog.DiscountPercentage {
			pc.PercentageRate = c.DiscountRate
		} else {
			pc.FixedAmount = money.New(c.DiscountRate, store.Currency)
		}
		in.Coupons = append(in.Coupons, pc)
	}
	return in
}

func count(products []ProductLine, coupons []CouponLine) Counters {
	var c Counters
	for _, l := range products {
		c.TotalProducts++
		c.TotalProductQuantities += l.Quantity
		if l.IsCancelled {
			c.TotalCancelledProducts++
			c.TotalCancelledProductQuantities += l.Quantity
		} else {
			c.TotalUncancelledProducts++
			c.TotalUncancelledProductQuantities += l.Quantity
		}
	}
	for _, l := range coupons {
		c.TotalCoupons++
		if l.IsCancelled {
			c.TotalCancelledCoupons++
		} else {
			c.TotalUncancelledCoupons++
		}
	}
	return c
}
