package cart

import (
	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/coupon"
	"github.com/noah-isme/toko-cart/internal/money"
)

// resolveCouponLines evaluates every store coupon. An invalid coupon is only
// surfaced, cancelled, when the previous snapshot already listed it.
func resolveCouponLines(coupons []catalog.Coupon, facts coupon.Facts, prev *Snapshot) []CouponLine {
	lines := make([]CouponLine, 0, len(coupons))
	for _, c := range coupons {
		res := coupon.Evaluate(c, facts)
		if !res.Valid {
			if _, cached := prev.couponLine(c.ID); !cached {
				continue
			}
		}
		line := CouponLine{
			CouponID:          c.ID,
			Name:              c.Name,
			Description:       c.Description,
			OfferDiscount:     c.OfferDiscount,
			DiscountType:      c.DiscountType,
			DiscountRate:      c.DiscountRate(),
			OfferFreeDelivery: c.OfferFreeDelivery,
			IsCancelled:       !res.Valid,
		}
		for _, reason := range res.Reasons() {
			line.CancellationReasons = append(line.CancellationReasons, CancellationReason{Message: reason})
		}
		lines = append(lines, line)
	}
	return lines
}

// couponFacts derives the evaluation context from the uncancelled product lines.
func couponFacts(in Inputs, lines []ProductLine) coupon.Facts {
	facts := coupon.Facts{
		Now:        in.Now.In(in.Store.Location()),
		Codes:      in.Request.CouponCodes,
		GrandTotal: money.Zero(in.Store.Currency),
		Existence:  in.Existence,
	}
	for _, l := range lines {
		if l.IsCancelled {
			continue
		}
		facts.GrandTotal = facts.GrandTotal.Add(l.GrandTotal)
		facts.TotalProducts++
		facts.TotalProductQuantities += l.Quantity
	}
	return facts
}
