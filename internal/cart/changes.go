package cart

import (
	"fmt"
	"time"
)

type change struct {
	kind    ChangeKind
	message string
}

// detector annotates freshly resolved lines with the changes observed since
// the previous snapshot. Each method also returns the changes seen in this
// pass alone, which feed the snapshot-wide list.
type detector struct {
	now  time.Time
	prev *Snapshot
}

func (d detector) productLine(line ProductLine) (ProductLine, []DetectedChange) {
	prev, hasPrev := d.prev.productLine(line.ProductID)

	var changes []change
	if !line.HasStock {
		changes = append(changes, change{ChangeNoStock, fmt.Sprintf("%s is out of stock", line.Name)})
	}
	if line.HasLimitedStock {
		changes = append(changes, change{ChangeLimitedStock,
			fmt.Sprintf("%s has limited stock, the quantity was reduced from %d to %d", line.Name, line.OriginalQuantity, line.Quantity)})
	}
	if line.ExceededMaximumAllowedQuantityPerOrder {
		changes = append(changes, change{ChangeExceededMaximumAllowedQuantityPerOrder,
			fmt.Sprintf("%s allows a maximum of %d per order", line.Name, line.Quantity)})
	}
	if hasPrev {
		changes = append(changes, productTransitions(prev, line)...)
	}

	var history []DetectedChange
	var reasons []CancellationReason
	if hasPrev {
		history = prev.DetectedChanges
		reasons = prev.CancellationReasons
	}
	line.DetectedChanges = mergeHistory(history, changes, d.now, line.ProductID, "")
	line.CancellationReasons = dateReasons(reasons, line.CancellationReasons, d.now)
	return line, passChanges(history, changes, d.now, line.ProductID, "")
}

func productTransitions(prev, line ProductLine) []change {
	var changes []change
	if prev.ExceededMaximumAllowedQuantityPerOrder && !line.ExceededMaximumAllowedQuantityPerOrder {
		changes = append(changes, change{ChangeNoLongerExceedingMaximumAllowedQuantityPerOrder,
			fmt.Sprintf("%s no longer exceeds the maximum quantity allowed per order", line.Name)})
	}

	switch {
	case !prev.HasStock && line.HasStock && line.HasLimitedStock:
		changes = append(changes, change{ChangeNoStockToLimitedStock,
			fmt.Sprintf("%s is back in stock with limited quantities", line.Name)})
	case !prev.HasStock && line.HasStock:
		changes = append(changes, change{ChangeNoStockToEnoughStock,
			fmt.Sprintf("%s is back in stock", line.Name)})
	case prev.HasStock && prev.HasLimitedStock && line.HasStock && !line.HasLimitedStock:
		changes = append(changes, change{ChangeLimitedStockToEnoughStock,
			fmt.Sprintf("%s now has enough stock", line.Name)})
	}

	switch {
	case prev.IsFree && !line.IsFree:
		changes = append(changes, change{ChangeFreeToNotFree,
			fmt.Sprintf("%s is no longer free and now costs %s", line.Name, line.UnitPrice)})
	case !prev.IsFree && line.IsFree:
		changes = append(changes, change{ChangeNotFreeToFree,
			fmt.Sprintf("%s is now free", line.Name)})
	case line.UnitPrice.GreaterThan(prev.UnitPrice):
		if prev.OnSale && !line.OnSale {
			changes = append(changes, change{ChangeSaleEnded,
				fmt.Sprintf("The sale on %s has ended, the price went up from %s to %s", line.Name, prev.UnitPrice, line.UnitPrice)})
		} else {
			changes = append(changes, change{ChangePriceIncrease,
				fmt.Sprintf("The price of %s went up from %s to %s", line.Name, prev.UnitPrice, line.UnitPrice)})
		}
	case line.UnitPrice.LessThan(prev.UnitPrice):
		if !prev.OnSale && line.OnSale {
			changes = append(changes, change{ChangeSaleStarted,
				fmt.Sprintf("%s is on sale, the price went down from %s to %s", line.Name, prev.UnitPrice, line.UnitPrice)})
		} else {
			changes = append(changes, change{ChangePriceDecrease,
				fmt.Sprintf("The price of %s went down from %s to %s", line.Name, prev.UnitPrice, line.UnitPrice)})
		}
	}

	if prev.Name != line.Name {
		changes = append(changes, change{ChangeNameChanged,
			fmt.Sprintf("%s is now called %s", prev.Name, line.Name)})
	}

	switch {
	case prev.Visible && !line.Visible:
		changes = append(changes, change{ChangeNoLongerVisible,
			fmt.Sprintf("%s is no longer available", line.Name)})
	case !prev.Visible && line.Visible:
		changes = append(changes, change{ChangeVisibleAgain,
			fmt.Sprintf("%s is available again", line.Name)})
	}
	return changes
}

func (d detector) couponLine(line CouponLine) (CouponLine, []DetectedChange) {
	prev, hasPrev := d.prev.couponLine(line.CouponID)

	var changes []change
	var history []DetectedChange
	var reasons []CancellationReason
	if hasPrev {
		switch {
		case !prev.IsCancelled && line.IsCancelled:
			changes = append(changes, change{ChangeCouponCancelled,
				fmt.Sprintf("The coupon %s no longer applies to this cart", line.Name)})
		case prev.IsCancelled && !line.IsCancelled:
			changes = append(changes, change{ChangeCouponRestored,
				fmt.Sprintf("The coupon %s applies to this cart again", line.Name)})
		}
		history = prev.DetectedChanges
		reasons = prev.CancellationReasons
	}
	line.DetectedChanges = mergeHistory(history, changes, d.now, "", line.CouponID)
	line.CancellationReasons = dateReasons(reasons, line.CancellationReasons, d.now)
	return line, passChanges(history, changes, d.now, "", line.CouponID)
}

// mergeHistory keeps every previously recorded change, now marked as
// notified, and appends the kinds seen for the first time in this pass.
func mergeHistory(prev []DetectedChange, current []change, now time.Time, productID, couponID string) []DetectedChange {
	out := make([]DetectedChange, 0, len(prev)+len(current))
	seen := make(map[ChangeKind]struct{}, len(prev)+len(current))
	for _, c := range prev {
		c.NotifiedUser = true
		out = append(out, c)
		seen[c.Type] = struct{}{}
	}
	for _, c := range current {
		if _, ok := seen[c.kind]; ok {
			continue
		}
		seen[c.kind] = struct{}{}
		out = append(out, DetectedChange{
			Date:      now,
			Type:      c.kind,
			Message:   c.message,
			ProductID: productID,
			CouponID:  couponID,
		})
	}
	return out
}

// passChanges reports what this pass detected with its current message. A
// kind already in the history is marked as notified and keeps its first date.
func passChanges(history []DetectedChange, current []change, now time.Time, productID, couponID string) []DetectedChange {
	out := make([]DetectedChange, 0, len(current))
	seen := make(map[ChangeKind]struct{}, len(current))
	for _, c := range current {
		if _, ok := seen[c.kind]; ok {
			continue
		}
		seen[c.kind] = struct{}{}
		dc := DetectedChange{
			Date:      now,
			Type:      c.kind,
			Message:   c.message,
			ProductID: productID,
			CouponID:  couponID,
		}
		for _, h := range history {
			if h.Type == c.kind {
				dc.Date = h.Date
				dc.NotifiedUser = true
				break
			}
		}
		out = append(out, dc)
	}
	return out
}

// dateReasons stamps current reasons, reusing the date of an identical reason
// from the previous pass.
func dateReasons(prev, current []CancellationReason, now time.Time) []CancellationReason {
	if len(current) == 0 {
		return []CancellationReason{}
	}
	out := make([]CancellationReason, 0, len(current))
	for _, r := range current {
		r.Date = now
		for _, p := range prev {
			if p.Message == r.Message {
				r.Date = p.Date
				break
			}
		}
		out = append(out, r)
	}
	return out
}
