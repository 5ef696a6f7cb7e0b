package cart

import (
	"github.com/noah-isme/toko-cart/internal/catalog"
)

const (
	reasonNoStock    = "This product is out of stock"
	reasonNotVisible = "This product is no longer available"
)

// resolveProductLines prices every requested, eligible catalog product. Lines
// follow catalog order; unknown ids are dropped. Change detection and reason
// dating happen later.
func resolveProductLines(products []catalog.Product, req Request) []ProductLine {
	lines := make([]ProductLine, 0, len(req.Items))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if !p.Eligible() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		item, ok := req.item(p.ID)
		if !ok {
			continue
		}
		seen[p.ID] = struct{}{}
		lines = append(lines, resolveProductLine(p, item.RequestedQuantity()))
	}
	return lines
}

func resolveProductLine(p catalog.Product, requested int) ProductLine {
	if requested < 0 {
		requested = 0
	}
	line := ProductLine{
		ProductID:        p.ID,
		Name:             p.Name,
		UnitRegularPrice: p.RegularPrice(),
		UnitSaleDiscount: p.UnitSaleDiscount(),
		UnitPrice:        p.UnitPrice(),
		OriginalQuantity: requested,
		Quantity:         requested,
		IsFree:           p.IsFree,
		OnSale:           p.OnSale(),
		HasStock:         true,
		Visible:          p.Visible,
	}

	if p.StockQuantity != nil {
		stock := max(*p.StockQuantity, 0)
		switch {
		case stock == 0:
			// Keep the requested quantity so the line can be restored intact.
			line.HasStock = false
		case stock < line.Quantity:
			line.Quantity = stock
			line.HasLimitedStock = true
		}
	}
	if p.MaximumAllowedQuantityPerOrder != nil {
		limit := max(*p.MaximumAllowedQuantityPerOrder, 0)
		if line.Quantity > limit {
			line.Quantity = limit
			line.ExceededMaximumAllowedQuantityPerOrder = true
		}
	}

	line.SubTotal = line.UnitRegularPrice.Mul(line.Quantity)
	line.SaleDiscountTotal = line.UnitSaleDiscount.Mul(line.Quantity)
	line.GrandTotal = line.UnitPrice.Mul(line.Quantity)

	if !line.HasStock {
		line.IsCancelled = true
		line.CancellationReasons = append(line.CancellationReasons, CancellationReason{Message: reasonNoStock})
	}
	if !line.Visible {
		line.IsCancelled = true
		line.CancellationReasons = append(line.CancellationReasons, CancellationReason{Message: reasonNotVisible})
	}
	return line
}
